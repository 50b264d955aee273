package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tasksafe/backend/internal/auth"
	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
	"github.com/tasksafe/backend/internal/email"
	"github.com/tasksafe/backend/internal/validate"
)

// magicLinkLifetime is fixed at issuance and never extended.
const magicLinkLifetime = 24 * time.Hour

// AccessHandler owns the public magic-link lifecycle: issuance, redemption,
// progress updates, and the completion view.
type AccessHandler struct {
	db      *db.Database
	sender  email.Sender
	baseURL string
}

func NewAccessHandler(database *db.Database, sender email.Sender, baseURL string) *AccessHandler {
	return &AccessHandler{db: database, sender: sender, baseURL: baseURL}
}

type requestAccessRequest struct {
	Email    string `json:"email" validate:"required,email"`
	UserName string `json:"userName" validate:"required"`
	VideoID  string `json:"videoId" validate:"omitempty"`
}

// RequestAccess mints a single-use token for the target video and emails the
// deep link. The explicit videoId wins when given; otherwise the newest
// active video is used.
func (h *AccessHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	var req requestAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, "please provide a valid email address and your name", http.StatusBadRequest)
		return
	}

	var video *models.Video
	var err error
	if req.VideoID != "" {
		video, err = h.db.GetVideo(req.VideoID)
		if err == nil && !video.IsActive {
			err = db.ErrNotFound
		}
	} else {
		video, err = h.db.GetActiveVideo()
	}
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "no training video available", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("request-access: resolve video: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, err := auth.NewToken()
	if err != nil {
		log.Printf("request-access: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	link := &models.MagicLink{
		Token:     token,
		Email:     req.Email,
		UserName:  req.UserName,
		VideoID:   video.ID,
		ExpiresAt: time.Now().Add(magicLinkLifetime),
	}
	if err := h.db.CreateMagicLink(link); err != nil {
		log.Printf("request-access: create link: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	msg := email.MagicLinkMessage(h.baseURL, req.Email, token, video.Title)
	if err := h.sender.Send(r.Context(), msg); err != nil {
		log.Printf("request-access: email dispatch: %v", err)
		// The link is unusable if the recipient never saw it; remove it so a
		// failed send leaves nothing redeemable behind.
		if delErr := h.db.DeleteMagicLink(link.ID); delErr != nil {
			log.Printf("request-access: cleanup link %s: %v", link.ID, delErr)
		}
		jsonError(w, "failed to send email", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{
		"message": "Magic link sent successfully",
		"email":   req.Email,
	}, http.StatusOK)
}

// Redeem consumes a magic link exactly once and opens the viewing session.
func (h *AccessHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	video, entry, err := h.db.RedeemMagicLink(token, clientIP(r), r.UserAgent())
	switch {
	case errors.Is(err, db.ErrNotFound):
		jsonError(w, "invalid access token", http.StatusNotFound)
		return
	case errors.Is(err, db.ErrLinkExpired):
		jsonError(w, "access token has expired", http.StatusGone)
		return
	case errors.Is(err, db.ErrLinkUsed):
		jsonError(w, "access token has already been used", http.StatusGone)
		return
	case err != nil:
		log.Printf("redeem: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"video": video,
		"accessLog": map[string]interface{}{
			"id":         entry.ID,
			"accessedAt": entry.AccessedAt,
			"email":      entry.Email,
		},
		// echoed back for the player's progress calls
		"token": token,
	}, http.StatusOK)
}

type updateProgressRequest struct {
	WatchDuration        int `json:"watchDuration" validate:"gte=0"`
	CompletionPercentage int `json:"completionPercentage" validate:"gte=0,lte=100"`
}

// UpdateProgress records watch progress for a viewing session. The store
// keeps both fields monotonic, so retries and overlapping tabs are harmless.
func (h *AccessHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	accessLogID := chi.URLParam(r, "accessLogID")

	var req updateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		jsonError(w, "watchDuration must be >= 0 and completionPercentage within 0-100", http.StatusBadRequest)
		return
	}

	err := h.db.UpdateProgress(accessLogID, req.WatchDuration, req.CompletionPercentage)
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "access log not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("update progress: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"message": "Progress updated successfully"}, http.StatusOK)
}

// GetAccessLog serves the completion/certificate view.
func (h *AccessHandler) GetAccessLog(w http.ResponseWriter, r *http.Request) {
	entry, err := h.db.GetAccessLog(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		jsonError(w, "access log not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("get access log: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, entry, http.StatusOK)
}

// GetVideo is the public projection of an active video.
func (h *AccessHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.db.GetVideo(chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) || (err == nil && !video.IsActive) {
		jsonError(w, "video not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("get video: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, video, http.StatusOK)
}
