package adminstore_test

import (
	"errors"
	"testing"

	adminstore "github.com/dalemusser/labsite/internal/app/store/admins"
	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/indexes"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/labsite/internal/testutil"
)

func TestStore_Create_FoldsEmailAndDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := &models.Admin{Name: "  Jane Smith  ", Email: "Jane@Example.EDU"}
	if err := store.Create(ctx, admin); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, "JANE@example.edu")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.Email != "jane@example.edu" {
		t.Errorf("Email = %q, want folded lowercase", got.Email)
	}
	if got.Name != "Jane Smith" {
		t.Errorf("Name = %q, want trimmed", got.Name)
	}
	if got.Role != "admin" || got.Status != "active" {
		t.Errorf("defaults: role=%q status=%q", got.Role, got.Status)
	}
	if got.CanPasswordLogin() {
		t.Error("expected no password on a hashless account")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if err := store.Create(ctx, &models.Admin{Name: "First", Email: "dup@example.edu"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	err := store.Create(ctx, &models.Admin{Name: "Second", Email: "DUP@example.edu"})
	if !errors.Is(err, adminstore.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByGoogleID_AndLink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := &models.Admin{Name: "Jane Smith", Email: "jane@example.edu"}
	if err := store.Create(ctx, admin); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.GetByGoogleID(ctx, "g-123"); !errors.Is(err, dberr.ErrNotFound) {
		t.Fatalf("expected NotFound before linking, got %v", err)
	}

	if err := store.LinkGoogle(ctx, admin.ID, "g-123"); err != nil {
		t.Fatalf("LinkGoogle failed: %v", err)
	}

	got, err := store.GetByGoogleID(ctx, "g-123")
	if err != nil {
		t.Fatalf("GetByGoogleID after link failed: %v", err)
	}
	if got.ID != admin.ID {
		t.Error("GetByGoogleID returned a different admin")
	}
}

func TestStore_Create_EmptyEmailRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Create(ctx, &models.Admin{Name: "No Email"})
	if !errors.Is(err, adminstore.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}
