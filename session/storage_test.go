package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	storage, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	ctx := context.Background()

	if _, err := storage.Load(ctx); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials on empty storage, got %v", err)
	}

	want := Credentials{Token: "tok", Identity: Identity{Email: "a@b.c", Role: RoleAdmin}}
	if err := storage.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := storage.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Token != want.Token || got.Identity != want.Identity {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, want)
	}

	if err := storage.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := storage.Clear(ctx); err != nil {
		t.Fatalf("second clear must be a no-op, got %v", err)
	}
	if _, err := storage.Load(ctx); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials after clear, got %v", err)
	}
}

func TestFileStorage_CorruptRecordReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	storage, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	if _, err := storage.Load(context.Background()); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("corrupt record must read as no credentials, got %v", err)
	}
}

func TestFileStorage_RejectsEmptyToken(t *testing.T) {
	storage, err := NewFileStorage(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	if err := storage.Save(context.Background(), Credentials{}); err == nil {
		t.Fatal("expected error saving an empty token")
	}
}
