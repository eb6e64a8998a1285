package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/pidlayout/pkg/cache"
)

// keyPrefix namespaces session entries inside a shared cache.
const keyPrefix = "session:"

// CacheStore stores sessions in a [cache.Cache]. Expiry is delegated to the
// cache, so Cleanup is a no-op.
type CacheStore struct {
	cache cache.Cache
}

// NewCacheStore wraps c.
func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{cache: c}
}

func (s *CacheStore) Get(ctx context.Context, id string) (*Session, error) {
	if !ValidID(id) {
		return nil, nil
	}
	data, ok, err := s.cache.Get(ctx, keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	return &sess, nil
}

func (s *CacheStore) Set(ctx context.Context, sess *Session) error {
	if !ValidID(sess.ID) {
		return fmt.Errorf("invalid session id %q", sess.ID)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	return s.cache.Set(ctx, keyPrefix+sess.ID, data, ttl)
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	return s.cache.Delete(ctx, keyPrefix+id)
}

func (s *CacheStore) Cleanup(context.Context) error { return nil }

var _ Store = (*CacheStore)(nil)
