package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateGetDelete(t *testing.T) {
	store := NewStore(time.Minute, 30*time.Second)
	id := uuid.New()

	created := store.Create(id)
	got, ok := store.Get(id)
	require.True(t, ok)
	assert.Same(t, created, got)

	_, ok = store.Get(uuid.New())
	assert.False(t, ok)

	store.Delete(id)
	_, ok = store.Get(id)
	assert.False(t, ok)
}

func TestSweepEvictsFinishedAfterTTL(t *testing.T) {
	now := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := NewStore(time.Minute, 30*time.Second)
	store.now = clock

	finished := uuid.New()
	tr := store.Create(finished)
	tr.now = clock
	tr.Complete()

	running := uuid.New()
	store.Create(running)

	// Inside the TTL nothing goes.
	now = now.Add(30 * time.Second)
	assert.Equal(t, 0, store.Sweep())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep())

	_, ok := store.Get(finished)
	assert.False(t, ok)
	_, ok = store.Get(running)
	assert.True(t, ok)
}

func TestSweepEvictsFailedAfterTTL(t *testing.T) {
	now := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := NewStore(time.Minute, 30*time.Second)
	store.now = clock

	id := uuid.New()
	tr := store.Create(id)
	tr.now = clock
	tr.Fail("no data extracted")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	_, ok := store.Get(id)
	assert.False(t, ok)
}

func TestSweepForceAdvancesStuckTrackers(t *testing.T) {
	now := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := NewStore(time.Hour, time.Second)
	store.now = clock

	id := uuid.New()
	tr := store.Create(id)
	tr.now = clock
	tr.Reset()
	before := tr.Snapshot().Active

	// Way past the first stage's estimate plus buffer.
	now = now.Add(time.Minute)
	store.Sweep()

	after := tr.Snapshot().Active
	assert.NotEqual(t, before, after)
}

func TestSweepEvictsAbandonedTracker(t *testing.T) {
	now := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := NewStore(time.Minute, time.Second)
	store.now = clock

	id := uuid.New()
	tr := store.Create(id)
	tr.now = clock
	tr.Reset()

	// Abandoned mid-flight: sweeps walk it through the remaining stages,
	// complete the final one, then the TTL evicts it.
	for i := 0; i < len(DefaultStages()); i++ {
		now = now.Add(time.Hour)
		store.Sweep()
	}

	require.True(t, tr.Snapshot().Done)
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	_, ok := store.Get(id)
	assert.False(t, ok)
}

func TestEvictionJob(t *testing.T) {
	store := NewStore(time.Minute, time.Second)
	job := EvictionJob{Store: store}

	assert.Equal(t, "progress-eviction", job.Name())
	assert.NoError(t, job.Run())
}
