package service

import (
	"errors"
	"sync"

	"github.com/alexanderramin/attendance/internal/app"
	"github.com/alexanderramin/attendance/internal/domain"
)

// ErrStaleRefresh is returned when a refresh finished after a newer one had
// already been applied. Its result was discarded.
var ErrStaleRefresh = errors.New("refresh superseded by a newer refresh")

// Refresher holds the current task snapshot and applies refresh results with
// last-wins semantics. Each refresh takes a generation from Begin; Apply
// accepts a result only if no newer generation has been applied. Older
// requests are never cancelled, only ignored.
type Refresher struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	current *domain.Snapshot
	failure *app.FetchError
}

func NewRefresher() *Refresher {
	return &Refresher{}
}

// Begin stamps a new refresh and returns its generation.
func (r *Refresher) Begin() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
	return r.issued
}

// Apply records the outcome of refresh gen. A failure keeps the current
// snapshot and records a FetchError. Results from stale generations,
// failures included, change nothing and return ErrStaleRefresh.
func (r *Refresher) Apply(gen uint64, snap *domain.Snapshot, fetchErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen <= r.applied {
		return ErrStaleRefresh
	}
	r.applied = gen
	if fetchErr != nil {
		r.failure = app.NewFetchError(fetchErr)
		return nil
	}
	r.current = snap
	r.failure = nil
	return nil
}

// Seed installs a snapshot loaded from storage when nothing is held yet.
func (r *Refresher) Seed(snap *domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		r.current = snap
	}
}

// Current returns the last applied snapshot, which may be nil, and the
// failure of the last applied refresh, if it failed.
func (r *Refresher) Current() (*domain.Snapshot, *app.FetchError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.failure
}

// Generation returns the newest applied generation.
func (r *Refresher) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applied
}
