package principal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/authgate/principal"
)

func newPrincipal(key string, roles ...string) *principal.Principal {
	if len(roles) == 0 {
		roles = []string{principal.RoleUser}
	}
	return &principal.Principal{
		Key:            key,
		CredentialHash: "$2a$04$fakehashfakehashfakehash",
		Roles:          roles,
		Active:         true,
	}
}

func TestMemoryDirectory_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	dir := principal.NewMemoryDirectory()

	p := newPrincipal("Alice@Example.COM")
	if err := dir.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Fatal("Create must assign an id")
	}

	// Lookup is case-insensitive: the key is normalized on both sides.
	got, err := dir.FindByKey(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatalf("FindByKey: %v", err)
	}
	if got.Key != "alice@example.com" {
		t.Errorf("stored key = %q, want normalized form", got.Key)
	}
	if got.ID != p.ID {
		t.Errorf("id = %v, want %v", got.ID, p.ID)
	}
}

func TestMemoryDirectory_FindMissing(t *testing.T) {
	dir := principal.NewMemoryDirectory()
	if _, err := dir.FindByKey(context.Background(), "ghost@example.com"); !errors.Is(err, principal.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryDirectory_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	dir := principal.NewMemoryDirectory()

	if err := dir.Create(ctx, newPrincipal("alice@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := dir.Create(ctx, newPrincipal("ALICE@EXAMPLE.COM"))
	if !errors.Is(err, principal.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestMemoryDirectory_Exists(t *testing.T) {
	ctx := context.Background()
	dir := principal.NewMemoryDirectory()

	p := newPrincipal("alice@example.com")
	if err := dir.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if ok, _ := dir.ExistsByKey(ctx, "alice@example.com"); !ok {
		t.Error("ExistsByKey = false, want true")
	}
	if ok, _ := dir.ExistsByKey(ctx, "bob@example.com"); ok {
		t.Error("ExistsByKey = true for missing key")
	}
	if ok, _ := dir.ExistsByID(ctx, p.ID); !ok {
		t.Error("ExistsByID = false, want true")
	}
	if ok, _ := dir.ExistsByID(ctx, uuid.New()); ok {
		t.Error("ExistsByID = true for missing id")
	}
}

func TestMemoryDirectory_Mutations(t *testing.T) {
	ctx := context.Background()
	dir := principal.NewMemoryDirectory()

	p := newPrincipal("alice@example.com")
	if err := dir.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := dir.UpdateCredential(ctx, p.ID, "newhash"); err != nil {
		t.Fatalf("UpdateCredential: %v", err)
	}
	if err := dir.UpdateRoles(ctx, p.ID, []string{principal.RoleAdmin}); err != nil {
		t.Fatalf("UpdateRoles: %v", err)
	}
	if err := dir.SetActive(ctx, p.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	got, err := dir.FindByKey(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByKey: %v", err)
	}
	if got.CredentialHash != "newhash" {
		t.Errorf("credential hash not updated")
	}
	if len(got.Roles) != 1 || got.Roles[0] != principal.RoleAdmin {
		t.Errorf("roles = %v, want [ADMIN]", got.Roles)
	}
	if got.Active {
		t.Error("principal still active after SetActive(false)")
	}

	if err := dir.SetActive(ctx, uuid.New(), false); !errors.Is(err, principal.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestMemoryDirectory_EmptyRolesRejected(t *testing.T) {
	ctx := context.Background()
	dir := principal.NewMemoryDirectory()

	p := newPrincipal("alice@example.com")
	if err := dir.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := dir.UpdateRoles(ctx, p.ID, nil); err == nil {
		t.Fatal("expected error for empty role set")
	}

	got, err := dir.FindByKey(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByKey: %v", err)
	}
	if len(got.Roles) == 0 {
		t.Error("stored roles were cleared by a rejected update")
	}
}

func TestMemoryDirectory_ReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	dir := principal.NewMemoryDirectory()

	if err := dir.Create(ctx, newPrincipal("alice@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, _ := dir.FindByKey(ctx, "alice@example.com")
	first.Roles[0] = "TAMPERED"
	first.Active = false

	second, _ := dir.FindByKey(ctx, "alice@example.com")
	if second.Roles[0] != principal.RoleUser || !second.Active {
		t.Error("mutating a returned principal must not affect the store")
	}
}

func TestMemoryDirectory_CancelledContext(t *testing.T) {
	dir := principal.NewMemoryDirectory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := dir.FindByKey(ctx, "alice@example.com"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMemoryDirectory_ListOrder(t *testing.T) {
	ctx := context.Background()
	dir := principal.NewMemoryDirectory()

	for _, key := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if err := dir.Create(ctx, newPrincipal(key)); err != nil {
			t.Fatalf("Create(%s): %v", key, err)
		}
	}

	out, err := dir.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
}
