package memberstore_test

import (
	"errors"
	"fmt"
	"testing"

	memberstore "github.com/dalemusser/labsite/internal/app/store/members"
	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"github.com/dalemusser/labsite/internal/app/system/paging"
	"github.com/dalemusser/labsite/internal/domain/models"
	"github.com/dalemusser/labsite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m := models.Member{
		Name: "Jane Smith",
		Role: "Professor",
	}

	created, err := store.Create(ctx, m)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.Slug != "jane-smith" {
		t.Errorf("expected slug %q, got %q", "jane-smith", created.Slug)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if created.UpdatedAt == nil || created.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestStore_Create_NicknameWinsSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Member{
		Name:     "Robert Johnson",
		Nickname: "Bob Johnson",
		Role:     "PhD Student",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Slug != "bob-johnson" {
		t.Errorf("expected nickname-derived slug %q, got %q", "bob-johnson", created.Slug)
	}
}

func TestStore_Create_ShortNameRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Member{Name: "A"}); !errors.Is(err, memberstore.ErrNameTooShort) {
		t.Errorf("expected ErrNameTooShort for one-character name, got %v", err)
	}
}

func TestStore_GetBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Member{Name: "Ada Lovelace", Role: "Professor"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetBySlug(ctx, "ada-lovelace")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected ID %s, got %s", created.ID.Hex(), got.ID.Hex())
	}

	if _, err := store.GetBySlug(ctx, "nobody-here"); !errors.Is(err, dberr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing slug, got %v", err)
	}
}

func TestStore_Update_RenameMovesSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Member{Name: "Grace Hopper", Role: "Professor"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.Update(ctx, created.ID, models.Member{Name: "Grace Murray Hopper", Role: "Professor"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Slug != "grace-murray-hopper" {
		t.Errorf("expected slug to follow rename, got %q", got.Slug)
	}
	// The old slug no longer resolves.
	if _, err := store.GetBySlug(ctx, "grace-hopper"); !errors.Is(err, dberr.ErrNotFound) {
		t.Errorf("expected old slug to be gone, got %v", err)
	}
}

func TestStore_Update_NicknameOnlyMovesSlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Member{Name: "William Gates", Role: "Postdoc"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Update(ctx, created.ID, models.Member{Nickname: "Bill Gates", Role: "Postdoc"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Slug != "bill-gates" {
		t.Errorf("expected nickname slug %q, got %q", "bill-gates", got.Slug)
	}
	if got.Name != "William Gates" {
		t.Errorf("expected name unchanged, got %q", got.Name)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Member{Name: "Temp Member", Role: "Master Student"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}

	// Deleting again is a no-op, not an error.
	n, err = store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 deleted on repeat, got %d", n)
	}
}

func TestStore_List_OrderedByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"Charlie Brown", "alice Cooper", "Bob Dylan"} {
		if _, err := store.Create(ctx, models.Member{Name: name, Role: "PhD Student"}); err != nil {
			t.Fatalf("Create %q failed: %v", name, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 members, got %d", len(list))
	}

	// Case-insensitive name order.
	want := []string{"alice Cooper", "Bob Dylan", "Charlie Brown"}
	for i, m := range list {
		if m.Name != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], m.Name)
		}
	}
}

func TestStore_ListPage_Keyset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := memberstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	total := paging.PageSize + 2
	for i := 0; i < total; i++ {
		name := fmt.Sprintf("Member %03d", i)
		if _, err := store.Create(ctx, models.Member{Name: name, Role: "PhD Student"}); err != nil {
			t.Fatalf("Create %q failed: %v", name, err)
		}
	}

	first, page, err := store.ListPage(ctx, "", "")
	if err != nil {
		t.Fatalf("ListPage failed: %v", err)
	}
	if len(first) != paging.PageSize {
		t.Fatalf("expected %d members on first page, got %d", paging.PageSize, len(first))
	}
	if page.HasPrev || !page.HasNext {
		t.Errorf("first page: expected HasPrev=false HasNext=true, got %+v", page)
	}
	if first[0].Name != "Member 000" {
		t.Errorf("expected first page to start at Member 000, got %q", first[0].Name)
	}

	_, next := paging.BuildCursors(first,
		func(m models.Member) string { return m.NameCI },
		func(m models.Member) primitive.ObjectID { return m.ID })

	second, page, err := store.ListPage(ctx, "", next)
	if err != nil {
		t.Fatalf("ListPage after cursor failed: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 members on second page, got %d", len(second))
	}
	if !page.HasPrev || page.HasNext {
		t.Errorf("second page: expected HasPrev=true HasNext=false, got %+v", page)
	}
	if second[0].Name != fmt.Sprintf("Member %03d", paging.PageSize) {
		t.Errorf("unexpected start of second page: %q", second[0].Name)
	}

	prev, _ := paging.BuildCursors(second,
		func(m models.Member) string { return m.NameCI },
		func(m models.Member) primitive.ObjectID { return m.ID })

	back, page, err := store.ListPage(ctx, prev, "")
	if err != nil {
		t.Fatalf("ListPage before cursor failed: %v", err)
	}
	if len(back) != paging.PageSize {
		t.Fatalf("expected %d members when paging back, got %d", paging.PageSize, len(back))
	}
	if !page.HasNext {
		t.Errorf("paging back: expected HasNext=true, got %+v", page)
	}
	if back[len(back)-1].Name != fmt.Sprintf("Member %03d", paging.PageSize-1) {
		t.Errorf("unexpected end of page when paging back: %q", back[len(back)-1].Name)
	}
}
