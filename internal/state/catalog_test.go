// internal/state/catalog_test.go
package state

import (
	"context"
	"testing"

	"github.com/user/weft/internal/types"
)

func TestCatalogResolveOrCreate(t *testing.T) {
	dir := t.TempDir()
	catalog := NewCatalog(dir)
	ctx := context.Background()

	key := types.NewSessionKey("file", "transcript.jsonl")
	id, err := catalog.ResolveOrCreate(ctx, key, "default")
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Error("expected non-empty session ID")
	}

	info, err := catalog.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if info.SessionKey != key {
		t.Errorf("expected key %s, got %s", key, info.SessionKey)
	}

	// Same key resolves to the same session.
	id2, err := catalog.ResolveOrCreate(ctx, key, "default")
	if err != nil {
		t.Fatal(err)
	}
	if id != id2 {
		t.Error("expected same session ID for same key")
	}
}

func TestCatalogTouch(t *testing.T) {
	dir := t.TempDir()
	catalog := NewCatalog(dir)
	ctx := context.Background()

	id, err := catalog.ResolveOrCreate(ctx, types.NewSessionKey("test", "1"), "default")
	if err != nil {
		t.Fatal(err)
	}

	if err := catalog.Touch(ctx, id, "first message"); err != nil {
		t.Fatal(err)
	}

	info, err := catalog.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if info.Preview != "first message" {
		t.Errorf("expected preview set, got %q", info.Preview)
	}
	if !info.UpdatedAt.After(info.CreatedAt) && !info.UpdatedAt.Equal(info.CreatedAt) {
		t.Error("expected UpdatedAt bumped")
	}
}

func TestCatalogTouchUnknownSession(t *testing.T) {
	catalog := NewCatalog(t.TempDir())
	if err := catalog.Touch(context.Background(), "missing", "x"); err == nil {
		t.Error("expected error for unknown session")
	}
}
