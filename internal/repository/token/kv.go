package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/ocrdesk/internal/db"
)

// DefaultKey is the Valkey key holding the credential.
const DefaultKey = "ocrdesk:session:token"

// KVStore persists the credential in Valkey/Redis so several client
// processes on different hosts share one session.
type KVStore struct {
	kv  db.KVStore
	key string
	ttl time.Duration
}

// NewKV creates a KV-backed token store. ttl <= 0 stores without expiry.
func NewKV(kv db.KVStore, key string, ttl time.Duration) *KVStore {
	if key == "" {
		key = DefaultKey
	}
	return &KVStore{kv: kv, key: key, ttl: ttl}
}

// Load returns the stored credential or "".
func (s *KVStore) Load(ctx context.Context) (string, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	return string(data), nil
}

// Save stores the credential.
func (s *KVStore) Save(ctx context.Context, token string) error {
	var err error
	if s.ttl > 0 {
		err = s.kv.SetWithTTL(ctx, s.key, []byte(token), s.ttl)
	} else {
		err = s.kv.Set(ctx, s.key, []byte(token))
	}
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Delete removes the stored credential.
func (s *KVStore) Delete(ctx context.Context) error {
	if err := s.kv.Del(ctx, s.key); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
