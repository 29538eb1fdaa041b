package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/pkg/logger"
	"github.com/go-chi/chi"
)

// maxBodyBytes bounds every JSON request body, avatars included.
const maxBodyBytes = 8 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// HandleError converts err into the JSON error body. Errors that are not
// *internal.AppError are reported as a generic 500 and only the log keeps the cause.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("internal server error", err)
	}

	lg := logger.From(r.Context())
	if appErr.StatusCode >= http.StatusInternalServerError {
		lg.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", appErr.Code,
			"error", err)
	} else {
		lg.Warn("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"status", appErr.StatusCode,
			"code", appErr.Code,
			"message", appErr.GetDetailedMessage())
	}

	h.WriteJSON(w, appErr.StatusCode, appErr)
}

// NotFound answers unmatched routes with a JSON error body.
func (h *BaseHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.HandleError(w, r, internal.ErrRouteNotFound)
}

// MethodNotAllowed answers a known path requested with an unsupported method.
func (h *BaseHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.HandleError(w, r, internal.ErrMethodNotAllowed)
}

// DecodeJSON decodes the request body into dst.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return internal.ErrInvalidBody
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return internal.ErrInvalidBody.WithCause(err)
	}
	return nil
}

// DecodeObject decodes a JSON object body keeping numbers as json.Number.
func (h *BaseHandler) DecodeObject(r *http.Request) (map[string]interface{}, error) {
	if r.Body == nil {
		return nil, internal.ErrInvalidBody
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, internal.ErrInvalidBody.WithCause(err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var values map[string]interface{}
	if err := dec.Decode(&values); err != nil {
		return nil, internal.ErrInvalidBody.WithCause(err)
	}
	if values == nil {
		return nil, internal.ErrInvalidBody
	}
	return values, nil
}

// ParseID reads a positive integer URL parameter.
func (h *BaseHandler) ParseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(param, "must be a positive integer", internal.ErrCodeInvalidID)
	}
	return id, nil
}

// QueryInt reads an integer query parameter, falling back to def when absent.
func (h *BaseHandler) QueryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, internal.NewValidationFieldError(key, "must be an integer", internal.ErrCodeValidationFailed)
	}
	return v, nil
}

// BearerToken returns the token of a "Bearer" Authorization header, or "".
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
