// AngelaMos | 2026
// handler.go

package claim

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
	r.Route("/claims", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/lookup", h.Lookup)
		r.Post("/roster/refresh", h.RefreshRoster)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Get("/{id}/receipt", h.DownloadReceipt)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	q := r.URL.Query()
	filters := SearchFilters{
		NumRecu:       q.Get("num_recu"),
		Nom:           q.Get("nom"),
		Prenom:        q.Get("prenom"),
		NAX:           q.Get("nax"),
		StatutDossier: q.Get("statut_dossier"),
	}

	soins, err := h.service.Search(r.Context(), sd, filters)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, soins)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	id, err := pathID(r)
	if err != nil {
		core.BadRequest(w, "invalid claim id")
		return
	}

	soin, err := h.service.Get(r.Context(), sd, id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, soin)
}

// Lookup answers the live NAX probe behind the create form's member
// field; an empty nax parameter is a bad request, a miss is found:false.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	nax := r.URL.Query().Get("nax")
	if nax == "" {
		core.BadRequest(w, "nax parameter is required")
		return
	}

	result, err := h.service.Lookup(r.Context(), sd, nax)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, result)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if form.NAX == "" {
		core.BadRequest(w, "nax is required")
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
		core.BadRequest(w, "invalid claim id")
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

func (h *Handler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	id, err := pathID(r)
	if err != nil {
		core.BadRequest(w, "invalid claim id")
		return
	}

	doc, err := h.service.DownloadReceipt(r.Context(), sd, id)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	defer doc.Body.Close()

	doc.Write(w)
}

func (h *Handler) RefreshRoster(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	if err := h.service.RefreshRoster(r.Context(), sd); err != nil {
		core.JSONError(w, err)
		return
	}

	core.NoContent(w)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
