package permission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/transport"
)

type ServiceAPI interface {
	Permissions(ctx context.Context, employeeID int64) ([]string, error)
	Tables(ctx context.Context) ([]Table, error)
	Replace(ctx context.Context, actorID, employeeID int64, names []string) ([]string, error)
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

func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	names, err := h.Service.Permissions(r.Context(), employeeID)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, PermissionsResponse{
		Success:     true,
		EmployeeID:  employeeID,
		Permissions: names,
	})
}

func (h *Handler) ReplacePermissions(w http.ResponseWriter, r *http.Request) {
	employeeID, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	var dto ReplacePermissionsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}
	if dto.Permissions == nil {
		h.HandleError(w, r, internal.NewValidationFieldError("permissions", "permissions is required", internal.ErrCodeValidationFailed))
		return
	}

	names, err := h.Service.Replace(r.Context(), internal.ActorIDFromContext(r.Context()), employeeID, dto.Permissions)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, PermissionsResponse{
		Success:     true,
		EmployeeID:  employeeID,
		Permissions: names,
	})
}

func (h *Handler) GetTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Service.Tables(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TablesResponse{Success: true, Tables: tables})
}
