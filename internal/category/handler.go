package category

import (
	"context"
	"net/http"

	"github.com/frahmantamala/childcare-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, kind Kind) ([]Category, error)
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

func (h *Handler) GetCaseCategories(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, CaseCategories)
}

func (h *Handler) GetEducationLevels(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, EducationLevels)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, kind Kind) {
	categories, err := h.Service.List(r.Context(), kind)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{
		Success:    true,
		Kind:       kind,
		Categories: categories,
	})
}
