// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/greencart/internal/platform/constants"
	requestutil "github.com/taibuivan/greencart/internal/platform/request"
	"github.com/taibuivan/greencart/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the /api/user endpoints.
//
// It is the only component that writes or clears the session cookie.
type Handler struct {
	authService   *Service
	secureCookies bool
}

// NewHandler constructs a [Handler]. secureCookies sets the Secure attribute
// and should be true whenever the API is served over TLS.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Routes returns the user router.
//
// # Endpoints
//   - POST /register : Creates an account and opens a session.
//   - POST /login    : Opens a session.
//   - GET  /is-auth  : Returns the current user (gated).
//   - GET  /logout   : Clears the session cookie (gated).
func (handler *Handler) Routes(gate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	router.Group(func(r chi.Router) {
		r.Use(gate)
		r.Get("/is-auth", handler.isAuth)
		r.Get("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
register handles POST /api/user/register.

Response:
  - 200: {success, user} and the session cookie
  - 400: VALIDATION_ERROR
  - 409: DUPLICATE_EMAIL
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, session.Token, session.ExpiresAt)
	respond.OK(writer, map[string]any{FieldUser: session.User.Summary()})
}

/*
login handles POST /api/user/login.

Response:
  - 200: {success, user} and the session cookie
  - 401: INVALID_CREDENTIALS
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, session.Token, session.ExpiresAt)
	respond.OK(writer, map[string]any{FieldUser: session.User.Summary()})
}

// isAuth handles GET /api/user/is-auth.
func (handler *Handler) isAuth(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CurrentUser(request.Context(), identity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user.Summary()})
}

// logout handles GET /api/user/logout. The token itself stays valid until it expires.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.setSessionCookie(writer, "", time.Unix(0, 0))
	respond.Message(writer, "Logged Out")
}

// # Cookie Management

func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(writer, cookie)
}
