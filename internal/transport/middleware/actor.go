package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/pkg/logger"
)

const maxActorBodyBytes = 8 << 20

// IsMutation reports whether the request writes state.
func IsMutation(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Actor reads the acting staff id from the userId field of mutating JSON bodies and
// places it on the request context. The body is restored for the handler.
// Bodiless mutations may carry userId as a query parameter instead.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsMutation(r) {
			next.ServeHTTP(w, r)
			return
		}

		var actorID int64
		if r.Body != nil && r.Body != http.NoBody {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxActorBodyBytes))
			_ = r.Body.Close()
			r.Body = io.NopCloser(bytes.NewReader(body))
			if err == nil {
				actorID = actorFromBody(body)
			}
		}
		if actorID == 0 {
			actorID = parseActorID(r.URL.Query().Get("userId"))
		}
		if actorID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := internal.ContextWithActorID(r.Context(), actorID)
		ctx = logger.With(ctx, "actorID", actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actorFromBody accepts userId as a JSON number or a numeric string.
func actorFromBody(body []byte) int64 {
	if len(bytes.TrimSpace(body)) == 0 {
		return 0
	}

	var payload struct {
		UserID json.RawMessage `json:"userId"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.UserID) == 0 {
		return 0
	}

	raw := string(payload.UserID)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	return parseActorID(raw)
}

func parseActorID(raw string) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
