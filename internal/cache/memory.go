package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is the contract the weather service memoizes lookups through.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Len() int

	// Remember returns the live value stored under key, or runs producer,
	// stores its result for ttl and returns it. Producer errors are not stored.
	Remember(ctx context.Context, key string, ttl time.Duration, producer func(context.Context) (any, error)) (any, error)
}

type entry struct {
	value     any
	expiresAt time.Time // zero => never expires
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is a concurrency-safe in-memory Cache with per-entry TTL.
// Expired entries are dropped lazily on access; there is no background sweep.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]entry

	// collapses concurrent misses for the same key into one producer call
	sf singleflight.Group

	now func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Get returns the value stored under key if it has not expired.
func (s *MemoryStore) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if e.expired(s.now()) {
		s.mu.Lock()
		// Another writer may have replaced the entry in the meantime.
		if cur, ok := s.data[key]; ok && cur.expired(s.now()) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key. A ttl <= 0 keeps the entry until it is deleted.
func (s *MemoryStore) Set(key string, value any, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = e
}

// Delete removes key. Deleting a missing key is a no-op.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Len reports the number of stored entries, including expired ones not yet dropped.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Remember implements Cache.
//
// The producer runs detached from any single caller's cancellation, so a
// cancelled caller does not fail the others waiting on the same key. Each
// caller still stops waiting when its own ctx is done.
func (s *MemoryStore) Remember(
	ctx context.Context,
	key string,
	ttl time.Duration,
	producer func(context.Context) (any, error),
) (any, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(key, func() (any, error) {
		// A caller that lost the race to an earlier flight finds the value here.
		if v, ok := s.Get(key); ok {
			return v, nil
		}

		v, err := producer(flightCtx)
		if err != nil {
			return nil, err
		}
		s.Set(key, v, ttl)
		return v, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
