package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasksafe/backend/internal/api/middleware"
	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
	"github.com/tasksafe/backend/internal/validate"
)

// VideosHandler is the tenant-scoped admin video CRUD.
type VideosHandler struct {
	db *db.Database
}

func NewVideosHandler(database *db.Database) *VideosHandler {
	return &VideosHandler{db: database}
}

func (h *VideosHandler) List(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r)
	videos, err := h.db.ListVideos(p.Scope())
	if err != nil {
		log.Printf("list videos: %v", err)
		jsonError(w, "failed to list videos", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, videos, http.StatusOK)
}

func (h *VideosHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r)
	video, err := h.db.GetVideo(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("get video: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !h.canTouch(p, video) {
		jsonError(w, "forbidden", http.StatusForbidden)
		return
	}
	jsonResponse(w, video, http.StatusOK)
}

type createVideoRequest struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"required"`
	VideoURL     string `json:"videoUrl" validate:"required"`
	Duration     string `json:"duration" validate:"required"`
	Category     string `json:"category" validate:"required"`
	CompanyTag   string `json:"companyTag"`
	IsActive     *bool  `json:"isActive"`
}

func (h *VideosHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r)

	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, "title, description, thumbnailUrl, videoUrl, duration and category are required", http.StatusBadRequest)
		return
	}

	tag := req.CompanyTag
	if p.Role != models.RoleSuperAdmin {
		// A scoped admin publishes into their own tenant, whatever the payload says.
		tag = p.CompanyTag
	} else if tag != "" {
		if ok, err := h.tagOK(tag); err != nil {
			log.Printf("create video: %v", err)
			jsonError(w, "internal server error", http.StatusInternalServerError)
			return
		} else if !ok {
			jsonError(w, "unknown company tag", http.StatusBadRequest)
			return
		}
	}

	video := &models.Video{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
		Duration:     req.Duration,
		Category:     req.Category,
		CompanyTag:   tag,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := h.db.CreateVideo(video); err != nil {
		log.Printf("create video: %v", err)
		jsonError(w, "failed to create video", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, video, http.StatusCreated)
}

type updateVideoRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	VideoURL     *string `json:"videoUrl"`
	Duration     *string `json:"duration"`
	Category     *string `json:"category"`
	CompanyTag   *string `json:"companyTag"`
	IsActive     *bool   `json:"isActive"`
}

func (h *VideosHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r)

	video, err := h.db.GetVideo(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("update video: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !h.canTouch(p, video) {
		jsonError(w, "forbidden", http.StatusForbidden)
		return
	}

	var req updateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		video.Title = *req.Title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if req.ThumbnailURL != nil {
		video.ThumbnailURL = *req.ThumbnailURL
	}
	if req.VideoURL != nil {
		video.VideoURL = *req.VideoURL
	}
	if req.Duration != nil {
		video.Duration = *req.Duration
	}
	if req.Category != nil {
		video.Category = *req.Category
	}
	if req.IsActive != nil {
		video.IsActive = *req.IsActive
	}
	if req.CompanyTag != nil && *req.CompanyTag != video.CompanyTag {
		// Only a super admin may move a video between tenants. Echoing the
		// current tag back unchanged is a no-op, not a move.
		if p.Role != models.RoleSuperAdmin {
			jsonError(w, "forbidden", http.StatusForbidden)
			return
		}
		if *req.CompanyTag != "" {
			if ok, err := h.tagOK(*req.CompanyTag); err != nil {
				log.Printf("update video: %v", err)
				jsonError(w, "internal server error", http.StatusInternalServerError)
				return
			} else if !ok {
				jsonError(w, "unknown company tag", http.StatusBadRequest)
				return
			}
		}
		video.CompanyTag = *req.CompanyTag
	}

	if err := h.db.UpdateVideo(video); err != nil {
		log.Printf("update video: %v", err)
		jsonError(w, "failed to update video", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, video, http.StatusOK)
}

func (h *VideosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r)

	video, err := h.db.GetVideo(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("delete video: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !h.canTouch(p, video) {
		jsonError(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := h.db.DeleteVideo(video.ID); err != nil {
		log.Printf("delete video: %v", err)
		jsonError(w, "failed to delete video", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"message": "Video deleted"}, http.StatusOK)
}

// canTouch is the tenant mutation rule: super admins touch everything, scoped
// admins only videos carrying their own company tag.
func (h *VideosHandler) canTouch(p *middleware.Principal, v *models.Video) bool {
	return p.Role == models.RoleSuperAdmin || v.CompanyTag == p.CompanyTag
}

func (h *VideosHandler) tagOK(name string) (bool, error) {
	return h.db.CompanyTagExists(name)
}
