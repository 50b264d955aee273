package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
)

type contextKey string

const principalKey contextKey = "admin_principal"

// SessionCookie is the name of the admin session cookie.
const SessionCookie = "tasksafe_session"

// Principal is the authenticated admin identity. It is resolved once per
// request from the session row and passed explicitly through the context, so
// authorization decisions never depend on ambient session lookups.
type Principal struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	CompanyTag string `json:"companyTag,omitempty"`
}

// Scope returns the data visibility for this principal: everything for a
// super admin, a single tenant otherwise.
func (p *Principal) Scope() db.Scope {
	if p.Role == models.RoleSuperAdmin {
		return db.ScopeAll()
	}
	return db.ScopeTenant(p.CompanyTag)
}

// RequireAdmin resolves the session cookie into a Principal. Missing or
// unknown cookies, expired sessions, and deactivated accounts all fail with
// 401; a deactivated admin's existing sessions stop working at once.
func RequireAdmin(database *db.Database) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			session, err := database.GetSession(cookie.Value)
			if err != nil {
				writeJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !time.Now().Before(session.ExpiresAt) {
				database.DeleteSession(session.ID)
				writeJSONError(w, "session expired", http.StatusUnauthorized)
				return
			}

			user, err := database.GetAdminUser(session.AdminUserID)
			if err != nil || !user.IsActive {
				writeJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			principal := &Principal{
				ID:         user.ID,
				Email:      user.Email,
				Role:       user.Role,
				CompanyTag: user.CompanyTag,
			}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSuperAdmin guards the admin-user and company-tag management routes.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := GetPrincipal(r)
		if p == nil {
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if p.Role != models.RoleSuperAdmin {
			writeJSONError(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetPrincipal(r *http.Request) *Principal {
	p, ok := r.Context().Value(principalKey).(*Principal)
	if !ok {
		return nil
	}
	return p
}
