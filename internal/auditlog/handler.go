package auditlog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter Filter) ([]LogRecord, error)
	Export(ctx context.Context, filter Filter) ([]byte, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	records, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	filter = filter.Normalize()
	h.WriteJSON(w, http.StatusOK, LogsResponse{
		Success: true,
		Logs:    records,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
}

func (h *Handler) ExportLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	data, err := h.Service.Export(r.Context(), filter)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("audit-logs-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("ExportLogs: failed to write workbook", "error", err)
	}
}

func (h *Handler) parseFilter(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	filter := Filter{
		Action: Action(q.Get("action")),
		Table:  q.Get("table"),
	}

	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return Filter{}, internal.NewValidationFieldError("user_id", "must be a positive integer", internal.ErrCodeInvalidID)
		}
		filter.UserID = id
	}

	limit, err := h.QueryInt(r, "limit", 0)
	if err != nil {
		return Filter{}, err
	}
	offset, err := h.QueryInt(r, "offset", 0)
	if err != nil {
		return Filter{}, err
	}
	filter.Limit = limit
	filter.Offset = offset
	return filter, nil
}
