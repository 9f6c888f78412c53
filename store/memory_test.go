package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/courserec/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	defer m.Close()

	if _, err := m.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "k", []byte("v"), 10)
	if _, err := m.Get(ctx, "k"); err != nil {
		t.Fatalf("value should be live: %v", err)
	}
	now = now.Add(11 * time.Second)
	if _, err := m.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("expired value should be not found, got %v", err)
	}
}

func TestMemoryStoreHash(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	empty, err := m.HGetAll(ctx, "course:popularity")
	if err != nil || len(empty) != 0 {
		t.Errorf("HGetAll on missing key = %v, %v", empty, err)
	}
	_ = m.HSet(ctx, "course:popularity", "1", []byte(`{"enrollments":3}`))
	_ = m.HSet(ctx, "course:popularity", "2", []byte(`{"enrollments":5}`))
	all, err := m.HGetAll(ctx, "course:popularity")
	if err != nil || len(all) != 2 || string(all["2"]) != `{"enrollments":5}` {
		t.Errorf("HGetAll = %v, %v", all, err)
	}
}
