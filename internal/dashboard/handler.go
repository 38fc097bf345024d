// AngelaMos | 2026
// handler.go

package dashboard

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/modep/console/internal/activity"
	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/middleware"
)

// ActivityReader is the feed slice the dashboard renders next to the
// charts.
type ActivityReader interface {
	Recent(ctx context.Context, limit int) ([]activity.Entry, error)
}

type Handler struct {
	service *Service
	feed    ActivityReader
}

func NewHandler(service *Service, feed ActivityReader) *Handler {
	return &Handler{service: service, feed: feed}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", h.Stats)
		r.Get("/activity", h.Activity)
	})
}

// Stats always answers 200: a failed backend load degrades to zeroed
// figures instead of an error page.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	core.OK(w, h.service.Load(r.Context(), sd))
}

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.feed.Recent(r.Context(), limit)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, entries)
}
