package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Employee, error)
	Get(ctx context.Context, id int64) (*Employee, error)
	Create(ctx context.Context, actorID int64, dto CreateEmployeeDTO) (*CreateResult, error)
	Update(ctx context.Context, actorID, id int64, dto UpdateEmployeeDTO) error
	Delete(ctx context.Context, actorID, id int64) error
	UpdateProfile(ctx context.Context, actorID, id int64, dto UpdateProfileDTO) error
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

func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp := EmployeesResponse{Success: true, Employees: make([]EmployeeResponse, len(employees))}
	for i, e := range employees {
		resp.Employees[i] = e.ToResponse()
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	e, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EmployeeDetailResponse{Success: true, Employee: e.ToResponse()})
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	result, err := h.Service.Create(r.Context(), internal.ActorIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CreateEmployeeResponse{
		Success:           true,
		Message:           "employee created",
		ID:                result.ID,
		TemporaryPassword: result.TemporaryPassword,
	})
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	var dto UpdateEmployeeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.Update(r.Context(), internal.ActorIDFromContext(r.Context()), id, dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MutationResponse{Success: true, Message: "employee updated", ID: id})
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), internal.ActorIDFromContext(r.Context()), id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MutationResponse{Success: true, Message: "employee deleted", ID: id})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	var dto UpdateProfileDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	actorID := internal.ActorIDFromContext(r.Context())
	if actorID == 0 {
		h.HandleError(w, r, internal.ErrMissingIdentifier)
		return
	}

	if err := h.Service.UpdateProfile(r.Context(), actorID, id, dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MutationResponse{Success: true, Message: "profile updated", ID: id})
}
