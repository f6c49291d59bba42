package session

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type failingStore struct {
	MemoryStore
	saveErr, deleteErr, loadErr error
}

func (f *failingStore) Load(ctx context.Context) (string, error) {
	if f.loadErr != nil {
		return "", f.loadErr
	}
	return f.MemoryStore.Load(ctx)
}

func (f *failingStore) Save(ctx context.Context, token string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStore.Save(ctx, token)
}

func (f *failingStore) Delete(ctx context.Context) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStore.Delete(ctx)
}

func TestSetClear(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStore{}
	s := New(store, nil)

	if s.Authenticated() {
		t.Fatal("new session must be anonymous")
	}
	if err := s.Set(ctx, "tok"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if s.Token() != "tok" || !s.Authenticated() {
		t.Errorf("token: got %q", s.Token())
	}
	if saved, _ := store.Load(ctx); saved != "tok" {
		t.Errorf("store: got %q", saved)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Token() != "" {
		t.Error("expected empty token after Clear")
	}
	if saved, _ := store.Load(ctx); saved != "" {
		t.Errorf("store not cleared: %q", saved)
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStore{}
	_ = store.Save(ctx, "persisted")

	s := New(store, nil)
	if err := s.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Token() != "persisted" {
		t.Errorf("got %q", s.Token())
	}

	bad := New(&failingStore{loadErr: errors.New("disk")}, nil)
	if err := bad.Restore(ctx); err == nil {
		t.Error("expected restore error")
	}
}

func TestSet_StoreErrorKeepsMemoryToken(t *testing.T) {
	s := New(&failingStore{saveErr: errors.New("readonly")}, nil)
	if err := s.Set(context.Background(), "tok"); err == nil {
		t.Fatal("expected error")
	}
	if s.Token() != "tok" {
		t.Error("credential should still be usable in memory")
	}
}

func TestExpire(t *testing.T) {
	ctx := context.Background()
	s := New(&failingStore{deleteErr: errors.New("gone")}, nil)
	_ = s.Set(ctx, "tok")

	calls := 0
	s.OnExpire(func() { calls++ })

	if !s.Expire(ctx, "tok") {
		t.Fatal("expected expiry")
	}
	if s.Token() != "" {
		t.Error("credential must be discarded even when the store fails")
	}
	if calls != 1 {
		t.Errorf("hook calls: got %d, want 1", calls)
	}

	if s.Expire(ctx, "tok") {
		t.Error("second expiry must be a no-op")
	}
	if calls != 1 {
		t.Errorf("hook re-run: %d", calls)
	}
}

func TestExpire_KeepsNewerCredential(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)
	_ = s.Set(ctx, "old")
	_ = s.Set(ctx, "new")

	if s.Expire(ctx, "old") {
		t.Fatal("stale 401 must not expire a newer credential")
	}
	if s.Token() != "new" {
		t.Errorf("got %q", s.Token())
	}
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, "tok")
		}()
		go func() {
			defer wg.Done()
			_ = s.Token()
			s.Expire(ctx, "tok")
		}()
	}
	wg.Wait()
}
