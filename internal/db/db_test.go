package db_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
)

func newTestDB(t *testing.T) *db.Database {
	t.Helper()
	database, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func createVideo(t *testing.T, database *db.Database, title, companyTag string) *models.Video {
	t.Helper()
	v := &models.Video{
		Title:        title,
		Description:  "desc",
		ThumbnailURL: "https://example.com/thumb.jpg",
		VideoURL:     "https://example.com/video",
		Duration:     "8:45",
		Category:     "Safety",
		CompanyTag:   companyTag,
		IsActive:     true,
	}
	if err := database.CreateVideo(v); err != nil {
		t.Fatalf("CreateVideo failed: %v", err)
	}
	return v
}

func createLink(t *testing.T, database *db.Database, video *models.Video, email string, expiresAt time.Time) *models.MagicLink {
	t.Helper()
	link := &models.MagicLink{
		Token:     "tok-" + video.ID + "-" + email + expiresAt.String(),
		Email:     email,
		UserName:  "Test Viewer",
		VideoID:   video.ID,
		ExpiresAt: expiresAt,
	}
	if err := database.CreateMagicLink(link); err != nil {
		t.Fatalf("CreateMagicLink failed: %v", err)
	}
	return link
}
