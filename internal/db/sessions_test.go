package db_test

import (
	"errors"
	"testing"
	"time"

	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
)

func TestSessionLifecycle(t *testing.T) {
	database := newTestDB(t)
	u := createAdmin(t, database, "x@y.com", models.RoleAdmin, "acme")

	s, err := database.CreateSession(u.ID)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if s.ID == "" {
		t.Fatal("session ID must be set")
	}
	if until := time.Until(s.ExpiresAt); until < 23*time.Hour || until > 25*time.Hour {
		t.Fatalf("unexpected session lifetime: %v", until)
	}

	got, err := database.GetSession(s.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.AdminUserID != u.ID {
		t.Fatalf("session bound to wrong user: %+v", got)
	}

	if err := database.DeleteSession(s.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := database.GetSession(s.ID); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSessionIDsUnique(t *testing.T) {
	database := newTestDB(t)
	u := createAdmin(t, database, "x@y.com", models.RoleAdmin, "acme")

	s1, err := database.CreateSession(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := database.CreateSession(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s1.ID == s2.ID {
		t.Fatal("two sessions must not share an ID")
	}
}
