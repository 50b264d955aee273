package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
	"github.com/tasksafe/backend/internal/validate"
)

// TagsHandler manages company tags, the tenant labels partitioning videos,
// admins and completions. Super admin only.
type TagsHandler struct {
	db *db.Database
}

func NewTagsHandler(database *db.Database) *TagsHandler {
	return &TagsHandler{db: database}
}

func (h *TagsHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.db.ListCompanyTags()
	if err != nil {
		log.Printf("list company tags: %v", err)
		jsonError(w, "failed to list company tags", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, tags, http.StatusOK)
}

type createTagRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *TagsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}

	tag := &models.CompanyTag{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := h.db.CreateCompanyTag(tag); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			jsonError(w, "a company tag with that name already exists", http.StatusConflict)
			return
		}
		log.Printf("create company tag: %v", err)
		jsonError(w, "failed to create company tag", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, tag, http.StatusCreated)
}

type updateTagRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

func (h *TagsHandler) Update(w http.ResponseWriter, r *http.Request) {
	tag, err := h.db.GetCompanyTag(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "company tag not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("update company tag: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var req updateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name != nil {
		if *req.Name == "" {
			jsonError(w, "name cannot be empty", http.StatusBadRequest)
			return
		}
		tag.Name = *req.Name
	}
	if req.Description != nil {
		tag.Description = *req.Description
	}
	if req.IsActive != nil {
		tag.IsActive = *req.IsActive
	}

	if err := h.db.UpdateCompanyTag(tag); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			jsonError(w, "a company tag with that name already exists", http.StatusConflict)
			return
		}
		log.Printf("update company tag: %v", err)
		jsonError(w, "failed to update company tag", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, tag, http.StatusOK)
}

// Delete deactivates a tag (soft delete); historical completions keep it.
func (h *TagsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.db.DeactivateCompanyTag(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "company tag not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("delete company tag: %v", err)
		jsonError(w, "failed to delete company tag", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"message": "Company tag deactivated"}, http.StatusOK)
}
