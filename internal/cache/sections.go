// Package cache holds the Redis-backed store that carries the home CMS
// section list between the list view and the edit view. The upstream API
// has no fetch-section-by-ID endpoint, so the gateway serves those reads
// from the last cached listing. Unlike the browser-storage approach it
// replaces, entries expire and every section mutation invalidates them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wearly/storefront-admin/internal/domain"
)

const sectionsKey = "home-cms:sections"

type SectionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSectionStore(rdb *redis.Client, ttl time.Duration) *SectionStore {
	return &SectionStore{rdb: rdb, ttl: ttl}
}

// Get returns the cached section list. The second result is false on a
// miss (expired, invalidated, or never written).
func (s *SectionStore) Get(ctx context.Context) ([]domain.HomeSection, bool, error) {
	data, err := s.rdb.Get(ctx, sectionsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached sections: %w", err)
	}

	var sections []domain.HomeSection
	if err := json.Unmarshal(data, &sections); err != nil {
		// A corrupt entry behaves like a miss; the next Put overwrites it.
		return nil, false, nil
	}
	return sections, true, nil
}

// Put stores the section list with the configured TTL.
func (s *SectionStore) Put(ctx context.Context, sections []domain.HomeSection) error {
	data, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	if err := s.rdb.Set(ctx, sectionsKey, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache sections: %w", err)
	}
	return nil
}

// Invalidate drops the cached list. Called after every section mutation.
func (s *SectionStore) Invalidate(ctx context.Context) error {
	if err := s.rdb.Del(ctx, sectionsKey).Err(); err != nil {
		return fmt.Errorf("invalidate sections: %w", err)
	}
	return nil
}
