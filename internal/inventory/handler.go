package inventory

import (
	"context"
	"net/http"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]Item, error)
	Categories(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, actorID int64, dto CreateItemDTO) (int64, error)
	Update(ctx context.Context, actorID, id int64, dto UpdateItemDTO) error
	Delete(ctx context.Context, actorID, id int64) error
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

func (h *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ItemsResponse{Success: true, Items: items})
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.Categories(r.Context())
	if err != nil {
		h.Logger.Error("GetCategories: failed to get categories", "error", err)
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{Success: true, Categories: categories})
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var dto CreateItemDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	id, err := h.Service.Create(r.Context(), internal.ActorIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MutationResponse{Success: true, Message: "inventory item created", ID: id})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	var dto UpdateItemDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.Update(r.Context(), internal.ActorIDFromContext(r.Context()), id, dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MutationResponse{Success: true, Message: "inventory item updated", ID: id})
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), internal.ActorIDFromContext(r.Context()), id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MutationResponse{Success: true, Message: "inventory item deleted", ID: id})
}
