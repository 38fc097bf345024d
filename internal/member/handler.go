// AngelaMos | 2026
// handler.go

package member

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
	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Get("/{id}/card", h.DownloadCard)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	q := r.URL.Query()
	filters := SearchFilters{
		Nom:    q.Get("nom"),
		Prenom: q.Get("prenom"),
		CIN:    q.Get("cin"),
		NAX:    q.Get("nax"),
		Statut: q.Get("statut"),
		ADroit: q.Get("a_droit"),
	}

	adherents, err := h.service.Search(r.Context(), sd, filters)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, adherents)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	id, err := pathID(r)
	if err != nil {
		core.BadRequest(w, "invalid member id")
		return
	}

	adherent, err := h.service.Get(r.Context(), sd, id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, adherent)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(form); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	created, err := h.service.Create(r.Context(), sd, form)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	id, err := pathID(r)
	if err != nil {
		core.BadRequest(w, "invalid member id")
		return
	}

	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(form); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.Update(r.Context(), sd, id, form)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, updated)
}

// DownloadCard streams the membership card document straight through.
func (h *Handler) DownloadCard(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	id, err := pathID(r)
	if err != nil {
		core.BadRequest(w, "invalid member id")
		return
	}

	doc, err := h.service.DownloadCard(r.Context(), sd, id)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	defer doc.Body.Close()

	doc.Write(w)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
