// AngelaMos | 2026
// handler.go

package contribution

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/contributions", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}/status", h.SaveStatus)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	q := r.URL.Query()
	filters := SearchFilters{
		Nom:        q.Get("nom"),
		Prenom:     q.Get("prenom"),
		CIN:        q.Get("cin"),
		Cotisation: q.Get("cotisation"),
	}

	cotisations, err := h.service.Search(r.Context(), sd, filters)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, cotisations)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	id, err := pathID(r)
	if err != nil {
		core.BadRequest(w, "invalid contribution id")
		return
	}

	cotisation, err := h.service.Get(r.Context(), sd, id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, cotisation)
}

func (h *Handler) SaveStatus(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	id, err := pathID(r)
	if err != nil {
		core.BadRequest(w, "invalid contribution id")
		return
	}

	var update StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(update); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	patched, err := h.service.SaveStatus(r.Context(), sd, id, update)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, patched)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
