package dashboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/childcare-management/internal/transport"
)

type ServiceAPI interface {
	Stats(ctx context.Context) (*Stats, error)
	ChartData(ctx context.Context, year int) ([]ChartPoint, error)
	UpcomingBirthdays(ctx context.Context, days int) ([]Birthday, error)
	UpcomingEvents(ctx context.Context, days int) ([]Event, error)
	ChildrenDistribution(ctx context.Context) (*Distribution, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	year    func() int
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, currentYear func() int) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		year:        currentYear,
	}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, StatsResponse{Success: true, Stats: stats})
}

func (h *Handler) GetChartData(w http.ResponseWriter, r *http.Request) {
	year, err := h.QueryInt(r, "year", h.year())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	data, err := h.Service.ChartData(r.Context(), year)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ChartResponse{Success: true, Year: year, Data: data})
}

func (h *Handler) GetUpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	days, err := h.QueryInt(r, "days", DefaultWindowDays)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	birthdays, err := h.Service.UpcomingBirthdays(r.Context(), days)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, BirthdaysResponse{Success: true, Birthdays: birthdays})
}

func (h *Handler) GetUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	days, err := h.QueryInt(r, "days", DefaultWindowDays)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	events, err := h.Service.UpcomingEvents(r.Context(), days)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, EventsResponse{Success: true, Events: events})
}

func (h *Handler) GetChildrenDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.Service.ChildrenDistribution(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DistributionResponse{Success: true, Distribution: dist})
}
