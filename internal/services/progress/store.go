package progress

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns trackers for in-flight submissions. Trackers are created at
// pipeline start, queried by submission id, and evicted after a TTL once
// they finish. An explicit store passed by reference replaces the ambient
// process-wide map this started life as.
type Store struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*storeEntry
	ttl     time.Duration
	buffer  time.Duration
	now     func() time.Time
}

type storeEntry struct {
	tracker   *Tracker
	createdAt time.Time
}

// NewStore creates a store. Finished trackers are evicted ttl after their
// last transition; active trackers stuck past a stage estimate plus buffer
// are force-advanced by Sweep.
func NewStore(ttl, buffer time.Duration) *Store {
	return &Store{
		entries: make(map[uuid.UUID]*storeEntry),
		ttl:     ttl,
		buffer:  buffer,
		now:     time.Now,
	}
}

// Create registers a fresh tracker for a submission id.
func (s *Store) Create(id uuid.UUID) *Tracker {
	t := NewTracker(DefaultStages())
	s.mu.Lock()
	s.entries[id] = &storeEntry{tracker: t, createdAt: s.now()}
	s.mu.Unlock()
	return t
}

// Get returns the tracker for a submission id.
func (s *Store) Get(id uuid.UUID) (*Tracker, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.tracker, true
}

// Delete removes a tracker.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Sweep force-advances stale active trackers and evicts finished or failed
// ones whose last transition is older than the TTL. Returns the number
// evicted.
func (s *Store) Sweep() int {
	s.mu.RLock()
	ids := make([]uuid.UUID, 0, len(s.entries))
	trackers := make([]*Tracker, 0, len(s.entries))
	for id, e := range s.entries {
		ids = append(ids, id)
		trackers = append(trackers, e.tracker)
	}
	s.mu.RUnlock()

	evicted := 0
	for i, t := range trackers {
		t.ForceAdvanceStale(s.buffer)

		snap := t.Snapshot()
		if !snap.Done && !snap.Failed {
			continue
		}
		if s.now().Sub(lastTransition(snap)) > s.ttl {
			s.Delete(ids[i])
			evicted++
		}
	}
	return evicted
}

func lastTransition(snap Snapshot) time.Time {
	last := time.Time{}
	for _, st := range snap.Stages {
		if st.CompletedAt.After(last) {
			last = st.CompletedAt
		}
	}
	return last
}

// EvictionJob runs Sweep on a schedule.
type EvictionJob struct {
	Store *Store
}

func (j EvictionJob) Name() string { return "progress-eviction" }

func (j EvictionJob) Run() error {
	j.Store.Sweep()
	return nil
}
