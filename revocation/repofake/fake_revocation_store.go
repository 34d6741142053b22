package revocationfake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-social-auth/revocation"
)

var _ revocation.Store = (*FakeRevocationStore)(nil)

// FakeRevocationStore is an in-memory denylist for tests. SetUnavailable
// makes every call fail the way an unreachable Redis would.
type FakeRevocationStore struct {
	entries     map[string]time.Time
	unavailable bool
	nowFunc     func() time.Time
	lock        sync.RWMutex
}

func NewFakeRevocationStore() *FakeRevocationStore {
	return &FakeRevocationStore{
		entries: make(map[string]time.Time),
		nowFunc: time.Now,
	}
}

func (s *FakeRevocationStore) SetNowFunc(now func() time.Time) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.nowFunc = now
}

func (s *FakeRevocationStore) SetUnavailable(unavailable bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.unavailable = unavailable
}

func (s *FakeRevocationStore) Deny(ctx context.Context, id string, ttl time.Duration) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.unavailable {
		return fmt.Errorf("[FakeRevocationStore.Deny] %w", revocation.ErrUnavailable)
	}
	if ttl <= 0 {
		return nil
	}
	s.entries[id] = s.nowFunc().Add(ttl)
	return nil
}

func (s *FakeRevocationStore) IsDenied(ctx context.Context, id string) (bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.unavailable {
		return false, fmt.Errorf("[FakeRevocationStore.IsDenied] %w", revocation.ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("[FakeRevocationStore.IsDenied] %w: %w", revocation.ErrUnavailable, err)
	}
	exp, ok := s.entries[id]
	return ok && s.nowFunc().Before(exp), nil
}

// Len returns the number of unexpired entries.
func (s *FakeRevocationStore) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	n := 0
	now := s.nowFunc()
	for _, exp := range s.entries {
		if now.Before(exp) {
			n++
		}
	}
	return n
}
