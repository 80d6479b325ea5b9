package session

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStorage(t *testing.T) *RedisStorage {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStorageFromClient(client)
}

func TestRedisStorage_RoundTrip(t *testing.T) {
	storage := newTestRedisStorage(t)
	ctx := context.Background()

	if _, err := storage.Load(ctx); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials on empty storage, got %v", err)
	}

	want := Credentials{Token: "tok", Identity: Identity{Email: "a@b.c", Role: RoleSuperadmin}}
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
	if _, err := storage.Load(ctx); !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials after clear, got %v", err)
	}
}

func TestRedisStorage_EmptyAddr(t *testing.T) {
	if _, err := NewRedisStorage(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty redis address")
	}
}
