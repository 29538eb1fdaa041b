package resource

import (
	"context"
	"fmt"
	"net/http"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/transport"
	"github.com/go-chi/chi"
)

type ctxKey string

const definitionKey ctxKey = "resourceDefinition"

// URLParam is the chi route parameter holding the resource name.
const URLParam = "resource"

type ServiceAPI interface {
	List(ctx context.Context, def Definition) ([]Row, error)
	Get(ctx context.Context, def Definition, id int64) (Row, error)
	Create(ctx context.Context, actorID int64, def Definition, body map[string]interface{}) (int64, error)
	Update(ctx context.Context, actorID int64, def Definition, id int64, body map[string]interface{}) error
	Delete(ctx context.Context, actorID int64, def Definition, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Registry *Registry
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, registry *Registry) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Registry:    registry,
	}
}

func ContextWithDefinition(ctx context.Context, def Definition) context.Context {
	return context.WithValue(ctx, definitionKey, def)
}

func DefinitionFromContext(ctx context.Context) (Definition, bool) {
	def, ok := ctx.Value(definitionKey).(Definition)
	return def, ok
}

// TableName returns the authorization key of the resolved resource, or "".
func TableName(r *http.Request) string {
	if def, ok := DefinitionFromContext(r.Context()); ok {
		return def.Name
	}
	return ""
}

// Resolve maps the {resource} parameter onto the allow-list. Unknown names stop here with 404.
func (h *Handler) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, URLParam)
		def, ok := h.Registry.LookupGeneric(name)
		if !ok {
			h.HandleError(w, r, internal.ErrResourceNotFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithDefinition(r.Context(), def)))
	})
}

// Fixed binds a route group to a single registered resource.
func (h *Handler) Fixed(name string) func(http.Handler) http.Handler {
	def, ok := h.Registry.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("resource %q is not registered", name))
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithDefinition(r.Context(), def)))
		})
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	def, ok := h.definition(w, r)
	if !ok {
		return
	}

	rows, err := h.Service.List(r.Context(), def)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Success: true, Data: rows})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	def, ok := h.definition(w, r)
	if !ok {
		return
	}

	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	row, err := h.Service.Get(r.Context(), def, id)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ItemResponse{Success: true, Data: row})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	def, ok := h.definition(w, r)
	if !ok {
		return
	}

	body, err := h.DecodeObject(r)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	id, err := h.Service.Create(r.Context(), internal.ActorIDFromContext(r.Context()), def, body)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MutationResponse{
		Success: true,
		Message: fmt.Sprintf("%s record created", def.Name),
		ID:      id,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	def, ok := h.definition(w, r)
	if !ok {
		return
	}

	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	body, err := h.DecodeObject(r)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.Update(r.Context(), internal.ActorIDFromContext(r.Context()), def, id, body); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MutationResponse{
		Success: true,
		Message: fmt.Sprintf("%s record updated", def.Name),
		ID:      id,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	def, ok := h.definition(w, r)
	if !ok {
		return
	}

	id, err := h.ParseID(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), internal.ActorIDFromContext(r.Context()), def, id); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MutationResponse{
		Success: true,
		Message: fmt.Sprintf("%s record deleted", def.Name),
		ID:      id,
	})
}

func (h *Handler) definition(w http.ResponseWriter, r *http.Request) (Definition, bool) {
	def, ok := DefinitionFromContext(r.Context())
	if !ok {
		h.Logger.Error("Handler: resource route registered without a resolver", "path", r.URL.Path)
		h.HandleError(w, r, internal.ErrResourceNotFound)
		return Definition{}, false
	}
	return def, true
}
