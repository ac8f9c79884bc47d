package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/alexanderramin/attendance/internal/app"
	"github.com/alexanderramin/attendance/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresher_LastWins(t *testing.T) {
	r := NewRefresher()
	older := r.Begin()
	newer := r.Begin()

	snapB := &domain.Snapshot{ID: "b"}
	require.NoError(t, r.Apply(newer, snapB, nil))

	err := r.Apply(older, &domain.Snapshot{ID: "a"}, nil)
	assert.ErrorIs(t, err, ErrStaleRefresh)

	cur, failure := r.Current()
	assert.Equal(t, "b", cur.ID)
	assert.Nil(t, failure)
	assert.Equal(t, newer, r.Generation())
}

func TestRefresher_StaleErrorIgnored(t *testing.T) {
	r := NewRefresher()
	older := r.Begin()
	newer := r.Begin()

	require.NoError(t, r.Apply(newer, &domain.Snapshot{ID: "b"}, nil))
	assert.ErrorIs(t, r.Apply(older, nil, errors.New("timeout")), ErrStaleRefresh)

	_, failure := r.Current()
	assert.Nil(t, failure, "a stale failure must not raise the banner")
}

func TestRefresher_FailureKeepsLastSuccess(t *testing.T) {
	r := NewRefresher()
	require.NoError(t, r.Apply(r.Begin(), &domain.Snapshot{ID: "good"}, nil))
	require.NoError(t, r.Apply(r.Begin(), nil, errors.New("connection refused")))

	cur, failure := r.Current()
	assert.Equal(t, "good", cur.ID)
	require.NotNil(t, failure)
	assert.Equal(t, app.FetchFailed, failure.Kind)
	assert.Equal(t, "connection refused", failure.Message)

	require.NoError(t, r.Apply(r.Begin(), &domain.Snapshot{ID: "fresh"}, nil))
	cur, failure = r.Current()
	assert.Equal(t, "fresh", cur.ID)
	assert.Nil(t, failure, "a later success clears the banner")
}

func TestRefresher_SeedOnlyWhenEmpty(t *testing.T) {
	r := NewRefresher()
	r.Seed(&domain.Snapshot{ID: "stored"})
	r.Seed(&domain.Snapshot{ID: "other"})

	cur, _ := r.Current()
	assert.Equal(t, "stored", cur.ID)

	require.NoError(t, r.Apply(r.Begin(), &domain.Snapshot{ID: "fetched"}, nil))
	r.Seed(&domain.Snapshot{ID: "late"})
	cur, _ = r.Current()
	assert.Equal(t, "fetched", cur.ID)
}

func TestRefresher_ConcurrentApplyKeepsHighestGeneration(t *testing.T) {
	r := NewRefresher()
	const n = 50
	gens := make([]uint64, n)
	for i := range gens {
		gens[i] = r.Begin()
	}

	var wg sync.WaitGroup
	for i := n - 1; i >= 0; i-- {
		wg.Add(1)
		go func(g uint64) {
			defer wg.Done()
			_ = r.Apply(g, &domain.Snapshot{ID: string(rune('A' + g%26))}, nil)
		}(gens[i])
	}
	wg.Wait()

	assert.Equal(t, gens[n-1], r.Generation())
	cur, _ := r.Current()
	assert.Equal(t, string(rune('A'+gens[n-1]%26)), cur.ID)
}
