package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/user/mytodolist-go/apperror"
	"github.com/user/mytodolist-go/logger"
)

// Handlers exposes the authentication endpoints over HTTP.
type Handlers struct {
	service    *AuthService
	cookieName string
}

// NewHandlers creates the HTTP handlers for the auth endpoints.
func NewHandlers(service *AuthService, cookieName string) *Handlers {
	return &Handlers{service: service, cookieName: cookieName}
}

// HandleCreateUser registers a new account and returns its representation.
// No prior authentication is required.
func (h *Handlers) HandleCreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusCreated, user)
	}
}

// HandleLogin verifies credentials and establishes a session. The response
// carries the user representation; the session token travels only in the
// cookie.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		user, token, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		http.SetCookie(w, h.sessionCookie(token, h.service.SessionTTL()))
		WriteJSON(w, http.StatusOK, user)
	}
}

// HandleLogout tears down the session, if any, and always returns 200 with
// an empty body.
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(h.cookieName); err == nil {
			token = cookie.Value
		}
		if err := h.service.Logout(r.Context(), token); err != nil {
			WriteError(w, r, err)
			return
		}

		// Expire the cookie regardless of whether a session existed.
		http.SetCookie(w, h.sessionCookie("", -time.Hour))
		w.WriteHeader(http.StatusOK)
	}
}

// HandleCurrentUser returns the session user's representation, or 401 with a
// message when no session is active.
func (h *Handlers) HandleCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("User is not authenticated", nil))
			return
		}

		resp, err := h.service.CurrentUser(r.Context(), *user)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleUpdateProfile updates the session user's account. Routing guards
// this with RequireUser.
func (h *Handlers) HandleUpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewAuthError("User is not authenticated", nil))
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.UpdateProfile(r.Context(), user.ID, req)
		if err != nil {
			WriteError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func (h *Handlers) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// WriteJSON serializes data to the response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

// WriteError converts any error into the standard error body. Non-AppError
// values are wrapped as internal errors so no internal detail leaks.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Err(err).Msg("request failed")
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
