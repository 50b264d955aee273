package db_test

import (
	"errors"
	"testing"

	"github.com/tasksafe/backend/internal/db"
	"github.com/tasksafe/backend/internal/db/models"
)

func TestCompanyTagLifecycle(t *testing.T) {
	database := newTestDB(t)

	tag := &models.CompanyTag{Name: "acme", Description: "Acme Corp", IsActive: true}
	if err := database.CreateCompanyTag(tag); err != nil {
		t.Fatalf("CreateCompanyTag failed: %v", err)
	}

	err := database.CreateCompanyTag(&models.CompanyTag{Name: "acme", IsActive: true})
	if !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused name, got %v", err)
	}

	ok, err := database.CompanyTagExists("acme")
	if err != nil || !ok {
		t.Fatalf("expected acme to exist, got ok=%v err=%v", ok, err)
	}
	ok, err = database.CompanyTagExists("typo")
	if err != nil || ok {
		t.Fatalf("expected typo to be unknown, got ok=%v err=%v", ok, err)
	}

	if err := database.DeactivateCompanyTag(tag.ID); err != nil {
		t.Fatalf("DeactivateCompanyTag failed: %v", err)
	}
	ok, err = database.CompanyTagExists("acme")
	if err != nil || ok {
		t.Fatalf("deactivated tag must not validate, got ok=%v err=%v", ok, err)
	}

	tags, err := database.ListCompanyTags()
	if err != nil {
		t.Fatalf("ListCompanyTags failed: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("expected empty active listing, got %d", len(tags))
	}
}
