package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tasksafe/backend/internal/api/middleware"
	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
)

// CompletionsHandler serves the compliance reporting side: who watched what,
// how far, per tenant.
type CompletionsHandler struct {
	db *db.Database
}

func NewCompletionsHandler(database *db.Database) *CompletionsHandler {
	return &CompletionsHandler{db: database}
}

func (h *CompletionsHandler) List(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r)
	entries, err := h.db.ListAccessLogs(p.Scope())
	if err != nil {
		log.Printf("list completions: %v", err)
		jsonError(w, "failed to list completions", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, entries, http.StatusOK)
}

// VideoAnalytics aggregates access logs for one video and includes the ten
// most recent viewing sessions.
func (h *CompletionsHandler) VideoAnalytics(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r)
	videoID := chi.URLParam(r, "id")

	video, err := h.db.GetVideo(videoID)
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("video analytics: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if p.Role != models.RoleSuperAdmin && video.CompanyTag != p.CompanyTag {
		jsonError(w, "forbidden", http.StatusForbidden)
		return
	}

	analytics, err := h.db.GetVideoAnalytics(videoID)
	if err != nil {
		log.Printf("video analytics: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	recent, err := h.db.ListAccessLogsByVideo(videoID, 10)
	if err != nil {
		log.Printf("video analytics: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"analytics":    analytics,
		"recentAccess": recent,
	}, http.StatusOK)
}
