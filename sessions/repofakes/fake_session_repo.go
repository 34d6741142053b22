package fakesessionrepo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jrsteele09/go-social-auth/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// ErrFakeUnavailable is returned by every call while the fake is marked failing.
var ErrFakeUnavailable = errors.New("fake session store unavailable")

type FakeSessionRepo struct {
	byPrincipal map[string]sessions.Record
	failing     bool
	nowFunc     func() time.Time
	lock        sync.Mutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		byPrincipal: make(map[string]sessions.Record),
		nowFunc:     time.Now,
	}
}

func (sr *FakeSessionRepo) SetNowFunc(now func() time.Time) {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.nowFunc = now
}

// SetFailing makes every call return ErrFakeUnavailable.
func (sr *FakeSessionRepo) SetFailing(failing bool) {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.failing = failing
}

func (sr *FakeSessionRepo) Save(ctx context.Context, record sessions.Record) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sr.failing {
		return ErrFakeUnavailable
	}
	sr.byPrincipal[record.PrincipalID] = record
	return nil
}

func (sr *FakeSessionRepo) Consume(ctx context.Context, fingerprint, principalID string) (sessions.Record, error) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sr.failing {
		return sessions.Record{}, ErrFakeUnavailable
	}
	rec, ok := sr.byPrincipal[principalID]
	if !ok || rec.Fingerprint != fingerprint || !rec.Live(sr.nowFunc()) {
		return sessions.Record{}, sessions.ErrNotFound
	}
	delete(sr.byPrincipal, principalID)
	return rec, nil
}

func (sr *FakeSessionRepo) Remove(ctx context.Context, fingerprint string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sr.failing {
		return ErrFakeUnavailable
	}
	for principalID, rec := range sr.byPrincipal {
		if rec.Fingerprint == fingerprint {
			delete(sr.byPrincipal, principalID)
		}
	}
	return nil
}

func (sr *FakeSessionRepo) RemoveAll(ctx context.Context, principalID string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sr.failing {
		return ErrFakeUnavailable
	}
	delete(sr.byPrincipal, principalID)
	return nil
}

// Get returns the principal's current record, for assertions.
func (sr *FakeSessionRepo) Get(principalID string) (sessions.Record, bool) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	rec, ok := sr.byPrincipal[principalID]
	return rec, ok
}

// Len returns the number of stored records.
func (sr *FakeSessionRepo) Len() int {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	return len(sr.byPrincipal)
}
