package db_test

import (
	"errors"
	"testing"

	"github.com/tasksafe/backend/internal/auth"
	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
)

func createAdmin(t *testing.T, database *db.Database, email, role, tag string) *models.AdminUser {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	u := &models.AdminUser{
		Email:      email,
		Password:   hash,
		Role:       role,
		CompanyTag: tag,
		IsActive:   true,
	}
	if err := database.CreateAdminUser(u); err != nil {
		t.Fatalf("CreateAdminUser failed: %v", err)
	}
	return u
}

func TestCreateAdminUserDuplicateEmail(t *testing.T) {
	database := newTestDB(t)
	createAdmin(t, database, "x@y.com", models.RoleAdmin, "acme")

	err := database.CreateAdminUser(&models.AdminUser{
		Email:    "x@y.com",
		Password: "hash",
		Role:     models.RoleAdmin,
		IsActive: true,
	})
	if !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestDeactivateAdminUser(t *testing.T) {
	database := newTestDB(t)
	u := createAdmin(t, database, "x@y.com", models.RoleAdmin, "acme")

	if err := database.DeactivateAdminUser(u.ID); err != nil {
		t.Fatalf("DeactivateAdminUser failed: %v", err)
	}

	// The row survives for audit but drops out of the active listing.
	got, err := database.GetAdminUser(u.ID)
	if err != nil {
		t.Fatalf("GetAdminUser failed: %v", err)
	}
	if got.IsActive {
		t.Fatal("expected user to be deactivated")
	}

	users, err := database.ListAdminUsers()
	if err != nil {
		t.Fatalf("ListAdminUsers failed: %v", err)
	}
	for _, listed := range users {
		if listed.ID == u.ID {
			t.Fatal("deactivated user must not appear in the listing")
		}
	}
}

func TestEnsureSuperAdmin(t *testing.T) {
	database := newTestDB(t)

	if err := database.EnsureSuperAdmin("root@example.com", "rootpass"); err != nil {
		t.Fatalf("EnsureSuperAdmin failed: %v", err)
	}
	u, err := database.GetAdminUserByEmail("root@example.com")
	if err != nil {
		t.Fatalf("seeded super admin not found: %v", err)
	}
	if u.Role != models.RoleSuperAdmin {
		t.Fatalf("expected SUPER_ADMIN role, got %s", u.Role)
	}
	if !auth.CheckPassword("rootpass", u.Password) {
		t.Fatal("seeded password must verify")
	}

	// Idempotent: a second boot must not create another super admin.
	if err := database.EnsureSuperAdmin("other@example.com", "x"); err != nil {
		t.Fatalf("EnsureSuperAdmin failed: %v", err)
	}
	if _, err := database.GetAdminUserByEmail("other@example.com"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected no second seed, got %v", err)
	}
}

func TestUpdateAdminPassword(t *testing.T) {
	database := newTestDB(t)
	u := createAdmin(t, database, "x@y.com", models.RoleAdmin, "acme")

	hash, err := auth.HashPassword("newsecret")
	if err != nil {
		t.Fatal(err)
	}
	if err := database.UpdateAdminPassword(u.ID, hash); err != nil {
		t.Fatalf("UpdateAdminPassword failed: %v", err)
	}

	got, err := database.GetAdminUser(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !auth.CheckPassword("newsecret", got.Password) {
		t.Fatal("new password must verify")
	}
	if auth.CheckPassword("secret123", got.Password) {
		t.Fatal("old password must no longer verify")
	}
}
