package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"finclusion/internal/domain/identity"
	"finclusion/internal/domain/onboarding"
	"finclusion/internal/shared/auth"
	"finclusion/internal/shared/middleware"
)

// AccountFlows is the registration and sign-in orchestration the auth
// handler drives.
type AccountFlows interface {
	Register(ctx context.Context, params onboarding.RegisterParams) (*onboarding.Result, error)
	Login(ctx context.Context, email, password string) (*onboarding.Result, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	flows    AccountFlows
	tokenTTL time.Duration
}

func NewAuthHandler(flows AccountFlows, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{flows: flows, tokenTTL: tokenTTL}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a principal, its profile and default categories,
// then signs the new user in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.flows.Register(r.Context(), onboarding.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})

	var signUpErr *onboarding.SignUpError
	switch {
	case errors.As(err, &signUpErr):
		writeError(w, http.StatusBadRequest, signUpErr.Error())
		return
	case errors.Is(err, onboarding.ErrProfileSetup):
		writeError(w, http.StatusInternalServerError, onboarding.ErrProfileSetup.Error())
		return
	case err != nil:
		log.Printf("Error registering user: %v", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	h.setAuthCookie(w, r, res.Token)
	writeSuccess(w, http.StatusCreated, res)
}

// HandleLogin authenticates a user with email and password
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.flows.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrMissingCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		log.Printf("Error logging in: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.setAuthCookie(w, r, res.Token)
	writeSuccess(w, http.StatusOK, res)
}

// HandleLogout revokes the caller's session, if any, and clears the cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	if token := middleware.BearerToken(r); token != "" {
		err := h.flows.Logout(r.Context(), token)
		if err != nil && !errors.Is(err, auth.ErrInvalidToken) {
			log.Printf("Error logging out: %v", err)
			writeError(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	writeSuccess(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// setAuthCookie sets the JWT as an HttpOnly cookie for browser clients
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.tokenTTL.Seconds()),
	})
}

// Only set the Secure flag when actually using HTTPS
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
