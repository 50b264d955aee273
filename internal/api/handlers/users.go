package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasksafe/backend/internal/api/middleware"
	"github.com/tasksafe/backend/internal/auth"
	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
	"github.com/tasksafe/backend/internal/validate"
)

// UsersHandler is the admin-user CRUD. The whole surface sits behind
// RequireSuperAdmin.
type UsersHandler struct {
	db *db.Database
}

func NewUsersHandler(database *db.Database) *UsersHandler {
	return &UsersHandler{db: database}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.db.ListAdminUsers()
	if err != nil {
		log.Printf("list admin users: %v", err)
		jsonError(w, "failed to list users", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, users, http.StatusOK)
}

type createUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"required,oneof=ADMIN SUPER_ADMIN"`
	CompanyTag string `json:"companyTag"`
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, "email, password (min 6 chars) and a valid role are required", http.StatusBadRequest)
		return
	}

	if req.Role == models.RoleAdmin {
		if req.CompanyTag == "" {
			jsonError(w, "companyTag is required for ADMIN users", http.StatusBadRequest)
			return
		}
		ok, err := h.db.CompanyTagExists(req.CompanyTag)
		if err != nil {
			log.Printf("create admin user: %v", err)
			jsonError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if !ok {
			jsonError(w, "unknown company tag", http.StatusBadRequest)
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("create admin user: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.AdminUser{
		Email:      req.Email,
		Password:   hash,
		Role:       req.Role,
		CompanyTag: req.CompanyTag,
		IsActive:   true,
	}
	if err := h.db.CreateAdminUser(user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			jsonError(w, "an admin with that email already exists", http.StatusConflict)
			return
		}
		log.Printf("create admin user: %v", err)
		jsonError(w, "failed to create user", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, user, http.StatusCreated)
}

type updateUserRequest struct {
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	Role       *string `json:"role"`
	CompanyTag *string `json:"companyTag"`
	IsActive   *bool   `json:"isActive"`
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := h.db.GetAdminUser(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("update admin user: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Validate and hash the password up front: a rejected request must leave
	// the account completely untouched, field changes included.
	var newHash string
	if req.Password != nil {
		if len(*req.Password) < 6 {
			jsonError(w, "password must be at least 6 characters", http.StatusBadRequest)
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			log.Printf("update admin user: %v", err)
			jsonError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		newHash = hash
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleSuperAdmin {
			jsonError(w, "role must be ADMIN or SUPER_ADMIN", http.StatusBadRequest)
			return
		}
		user.Role = *req.Role
	}
	if req.CompanyTag != nil {
		if *req.CompanyTag != "" {
			ok, err := h.db.CompanyTagExists(*req.CompanyTag)
			if err != nil {
				log.Printf("update admin user: %v", err)
				jsonError(w, "internal server error", http.StatusInternalServerError)
				return
			}
			if !ok {
				jsonError(w, "unknown company tag", http.StatusBadRequest)
				return
			}
		}
		user.CompanyTag = *req.CompanyTag
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if user.Role == models.RoleAdmin && user.CompanyTag == "" {
		jsonError(w, "companyTag is required for ADMIN users", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateAdminUser(user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			jsonError(w, "an admin with that email already exists", http.StatusConflict)
			return
		}
		log.Printf("update admin user: %v", err)
		jsonError(w, "failed to update user", http.StatusInternalServerError)
		return
	}

	if newHash != "" {
		if err := h.db.UpdateAdminPassword(user.ID, newHash); err != nil {
			log.Printf("update admin user: %v", err)
			jsonError(w, "failed to update password", http.StatusInternalServerError)
			return
		}
	}

	jsonResponse(w, user, http.StatusOK)
}

// Delete deactivates an admin account (soft delete).
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p := middleware.GetPrincipal(r)
	if p != nil && p.ID == id {
		jsonError(w, "cannot delete yourself", http.StatusBadRequest)
		return
	}

	err := h.db.DeactivateAdminUser(id)
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("delete admin user: %v", err)
		jsonError(w, "failed to delete user", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"message": "User deactivated"}, http.StatusOK)
}
