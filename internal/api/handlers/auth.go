package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tasksafe/backend/internal/api/middleware"
	"github.com/tasksafe/backend/internal/auth"
	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/validate"
)

type AuthHandler struct {
	db            *db.Database
	secureCookies bool
}

func NewAuthHandler(database *db.Database, secureCookies bool) *AuthHandler {
	return &AuthHandler{db: database, secureCookies: secureCookies}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and opens a server-side session. Unknown email,
// deactivated account, and wrong password are indistinguishable to the caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.db.GetAdminUserByEmail(req.Email)
	if errors.Is(err, db.ErrNotFound) || (err == nil && !user.IsActive) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("login: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	session, err := h.db.CreateSession(user.ID)
	if err != nil {
		log.Printf("login: create session: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	jsonResponse(w, map[string]interface{}{
		"id":         user.ID,
		"email":      user.Email,
		"role":       user.Role,
		"companyTag": user.CompanyTag,
	}, http.StatusOK)
}

// Logout destroys the session row and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.db.DeleteSession(cookie.Value); err != nil {
			log.Printf("logout: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	jsonResponse(w, map[string]string{"message": "Logged out"}, http.StatusOK)
}

// Me returns the sanitized session principal.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r)
	if p == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	jsonResponse(w, p, http.StatusOK)
}
