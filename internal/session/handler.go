// AngelaMos | 2026
// handler.go

package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// RegisterRoutes mounts the auth surface. Login and signup carry their
// own rate limit; logout and profile routes sit behind the
// authenticator.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	loginLimiter func(http.Handler) http.Handler,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter)
			r.Post("/login", h.Login)
			r.Post("/signup", h.Signup)
		})

		r.Get("/session", h.Probe)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
			r.Put("/me", h.UpdateMe)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.Login(r.Context(), gateway.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		core.JSONError(w, err)
		return
	}

	http.SetCookie(w, h.service.Cookie(result.Token))
	core.OK(w, ToUserResponse(result.User))
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	result, err := h.service.Signup(r.Context(), gateway.SignupData{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		core.JSONError(w, err)
		return
	}

	http.SetCookie(w, h.service.Cookie(result.Token))
	core.Created(w, ToUserResponse(result.User))
}

// Probe always answers 200. It tells the client whether its cookie
// still maps to a live backend session; a dead cookie gets cleared on
// the way out.
func (h *Handler) Probe(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(h.service.CookieName()); err == nil {
		token = cookie.Value
	}

	user := h.service.Probe(r.Context(), token)
	if user == nil {
		if token != "" {
			http.SetCookie(w, h.service.ClearCookie())
		}
		core.OK(w, SessionResponse{Authenticated: false})
		return
	}

	core.OK(w, SessionResponse{
		Authenticated: true,
		User:          ToUserResponse(user),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	h.service.Logout(r.Context(), sd)

	http.SetCookie(w, h.service.ClearCookie())
	core.NoContent(w)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	user, err := h.service.Current(r.Context(), sd)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	sd := middleware.MustSession(r.Context())

	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), sd, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}
