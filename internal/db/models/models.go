package models

import "time"

// Admin roles. SUPER_ADMIN sees every tenant and manages admins and tags;
// ADMIN is scoped to a single company tag.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
)

type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	VideoURL     string    `json:"videoUrl"`
	Duration     string    `json:"duration"` // display string, e.g. "12:34"
	Category     string    `json:"category"`
	CompanyTag   string    `json:"companyTag,omitempty"` // empty = not bound to a tenant
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MagicLink is a single-use, time-boxed token granting access to one video.
// is_used flips false→true exactly once, only through redemption.
type MagicLink struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	VideoID   string    `json:"videoId"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsUsed    bool      `json:"isUsed"`
	CreatedAt time.Time `json:"createdAt"`
}

// AccessLog records one redeemed magic link's viewing session. CompanyTag is
// copied from the video at redemption time so completion reports don't depend
// on the video row still existing.
type AccessLog struct {
	ID                   string    `json:"id"`
	MagicLinkID          string    `json:"magicLinkId"`
	Email                string    `json:"email"`
	UserName             string    `json:"userName"`
	VideoID              string    `json:"videoId"`
	AccessedAt           time.Time `json:"accessedAt"`
	WatchDuration        int       `json:"watchDuration"` // seconds
	CompletionPercentage int       `json:"completionPercentage"`
	CompanyTag           string    `json:"companyTag,omitempty"`
	IPAddress            string    `json:"ipAddress,omitempty"`
	UserAgent            string    `json:"userAgent,omitempty"`
}

// AccessLogDetail is an access log joined with video fields for the
// completion/certificate view and the admin completions list.
type AccessLogDetail struct {
	AccessLog
	VideoTitle    string `json:"videoTitle"`
	VideoDuration string `json:"videoDuration,omitempty"`
	VideoCategory string `json:"videoCategory,omitempty"`
}

type AdminUser struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Role       string    `json:"role"`
	CompanyTag string    `json:"companyTag,omitempty"` // empty for SUPER_ADMIN
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CompanyTag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Session is a server-side admin session. The ID is the opaque cookie value.
type Session struct {
	ID          string    `json:"id"`
	AdminUserID string    `json:"adminUserId"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// VideoAnalytics aggregates access logs for one video.
type VideoAnalytics struct {
	TotalViews        int `json:"totalViews"`
	TotalWatchTime    int `json:"totalWatchTime"` // seconds
	AverageCompletion int `json:"averageCompletion"`
	UniqueViewers     int `json:"uniqueViewers"`
}
