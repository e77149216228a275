package progress

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrUnknownStage is returned when advancing to a stage name that does
	// not exist in the sequence.
	ErrUnknownStage = errors.New("progress: unknown stage")
	// ErrBackwardAdvance is returned when advancing to a stage at or before
	// the active one. Transitions are strictly forward; only Reset goes back.
	ErrBackwardAdvance = errors.New("progress: stages only advance forward")
	// ErrHalted is returned when advancing a tracker whose active stage failed.
	ErrHalted = errors.New("progress: tracker halted by stage failure")
)

// StageStatus is the state of one pipeline stage.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageActive    StageStatus = "active"
	StageCompleted StageStatus = "completed"
	StageFailed    StageStatus = "failed"
)

// Stage names the fixed pipeline steps in order.
type Stage struct {
	Name      string
	Estimated time.Duration
}

// DefaultStages is the extraction/calculation pipeline sequence.
func DefaultStages() []Stage {
	return []Stage{
		{Name: "initializing", Estimated: 2 * time.Second},
		{Name: "loading-rules", Estimated: 2 * time.Second},
		{Name: "reading-documents", Estimated: 10 * time.Second},
		{Name: "extracting-data", Estimated: 20 * time.Second},
		{Name: "processing", Estimated: 10 * time.Second},
		{Name: "validating", Estimated: 5 * time.Second},
		{Name: "calculating", Estimated: 10 * time.Second},
		{Name: "generating-report", Estimated: 5 * time.Second},
		{Name: "complete", Estimated: time.Second},
	}
}

// StageState is the observed state of one stage.
type StageState struct {
	Name        string        `json:"name"`
	Status      StageStatus   `json:"status"`
	Details     string        `json:"details,omitempty"`
	Error       string        `json:"error,omitempty"`
	Estimated   time.Duration `json:"estimated"`
	StartedAt   time.Time     `json:"started_at,omitzero"`
	CompletedAt time.Time     `json:"completed_at,omitzero"`
}

// Snapshot is an immutable view of the whole tracker, handed to observers
// on every transition.
type Snapshot struct {
	Stages    []StageState `json:"stages"`
	Active    string       `json:"active_stage"`
	Percent   float64      `json:"percent"`
	Failed    bool         `json:"failed"`
	Done      bool         `json:"done"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Tracker reports pipeline progress through a fixed, ordered stage sequence.
// The overall percentage is always derived from completed-stage count (half
// credit for the active stage), never stored on its own.
type Tracker struct {
	mu      sync.Mutex
	stages  []StageState
	active  int
	failed  bool
	subs    map[int]func(Snapshot)
	nextSub int
	now     func() time.Time
}

// NewTracker starts a tracker with the first stage active.
func NewTracker(stages []Stage) *Tracker {
	t := &Tracker{
		subs: make(map[int]func(Snapshot)),
		now:  time.Now,
	}
	t.initStages(stages)
	return t
}

func (t *Tracker) initStages(stages []Stage) {
	t.stages = make([]StageState, len(stages))
	for i, s := range stages {
		t.stages[i] = StageState{Name: s.Name, Status: StagePending, Estimated: s.Estimated}
	}
	t.active = 0
	t.failed = false
	if len(t.stages) > 0 {
		t.stages[0].Status = StageActive
		t.stages[0].StartedAt = t.now()
	}
}

// AdvanceTo moves the tracker forward to the named stage, completing every
// stage before it. Moving backward or advancing a failed tracker is an error.
func (t *Tracker) AdvanceTo(name string) error {
	t.mu.Lock()
	target := -1
	for i, s := range t.stages {
		if s.Name == name {
			target = i
			break
		}
	}
	if target < 0 {
		t.mu.Unlock()
		return ErrUnknownStage
	}
	if t.failed {
		t.mu.Unlock()
		return ErrHalted
	}
	if target <= t.active && t.stages[t.active].Status != StagePending {
		t.mu.Unlock()
		return ErrBackwardAdvance
	}

	now := t.now()
	for i := t.active; i < target; i++ {
		t.stages[i].Status = StageCompleted
		if t.stages[i].StartedAt.IsZero() {
			t.stages[i].StartedAt = now
		}
		t.stages[i].CompletedAt = now
	}
	t.active = target
	t.stages[target].Status = StageActive
	t.stages[target].StartedAt = now

	snap := t.snapshotLocked()
	subs := t.subscribersLocked()
	t.mu.Unlock()

	notify(subs, snap)
	return nil
}

// Annotate attaches free-text details to the active stage.
func (t *Tracker) Annotate(details string) {
	t.mu.Lock()
	t.stages[t.active].Details = details
	snap := t.snapshotLocked()
	subs := t.subscribersLocked()
	t.mu.Unlock()

	notify(subs, snap)
}

// Fail marks the active stage failed and halts automatic advancement.
// Per-stage timings stay available for diagnostics.
func (t *Tracker) Fail(message string) {
	t.mu.Lock()
	t.stages[t.active].Status = StageFailed
	t.stages[t.active].Error = message
	t.stages[t.active].CompletedAt = t.now()
	t.failed = true
	snap := t.snapshotLocked()
	subs := t.subscribersLocked()
	t.mu.Unlock()

	notify(subs, snap)
}

// Complete marks every remaining stage completed.
func (t *Tracker) Complete() {
	t.mu.Lock()
	if t.failed {
		t.mu.Unlock()
		return
	}
	now := t.now()
	for i := t.active; i < len(t.stages); i++ {
		t.stages[i].Status = StageCompleted
		if t.stages[i].StartedAt.IsZero() {
			t.stages[i].StartedAt = now
		}
		t.stages[i].CompletedAt = now
	}
	t.active = len(t.stages) - 1
	snap := t.snapshotLocked()
	subs := t.subscribersLocked()
	t.mu.Unlock()

	notify(subs, snap)
}

// Reset returns the tracker to its initial state. This is the only backward
// transition.
func (t *Tracker) Reset() {
	t.mu.Lock()
	stages := make([]Stage, len(t.stages))
	for i, s := range t.stages {
		stages[i] = Stage{Name: s.Name, Estimated: s.Estimated}
	}
	t.initStages(stages)
	snap := t.snapshotLocked()
	subs := t.subscribersLocked()
	t.mu.Unlock()

	notify(subs, snap)
}

// ForceAdvanceStale advances the active stage if it has been running longer
// than its estimate plus buffer. Liveness guard against a stuck pipeline,
// not a correctness mechanism; failed trackers are left alone. A stale final
// stage is completed so an abandoned tracker always reaches a terminal state
// and stays eligible for eviction. Reports whether an advance happened.
func (t *Tracker) ForceAdvanceStale(buffer time.Duration) bool {
	t.mu.Lock()
	if t.failed || len(t.stages) == 0 {
		t.mu.Unlock()
		return false
	}
	state := t.stages[t.active]
	if state.Status != StageActive || t.now().Sub(state.StartedAt) <= state.Estimated+buffer {
		t.mu.Unlock()
		return false
	}
	if t.active >= len(t.stages)-1 {
		t.mu.Unlock()
		t.Complete()
		return true
	}
	next := t.stages[t.active+1].Name
	t.mu.Unlock()

	return t.AdvanceTo(next) == nil
}

// Subscribe registers an observer called with a snapshot on every
// transition. The returned function unsubscribes it.
func (t *Tracker) Subscribe(fn func(Snapshot)) func() {
	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

// Snapshot returns the current immutable view.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() Snapshot {
	stages := make([]StageState, len(t.stages))
	copy(stages, t.stages)

	completed := 0.0
	for _, s := range t.stages {
		switch s.Status {
		case StageCompleted:
			completed++
		case StageActive:
			completed += 0.5
		}
	}
	percent := 0.0
	if len(t.stages) > 0 {
		percent = completed / float64(len(t.stages)) * 100
	}

	done := len(t.stages) > 0 && t.stages[len(t.stages)-1].Status == StageCompleted
	return Snapshot{
		Stages:    stages,
		Active:    t.stages[t.active].Name,
		Percent:   percent,
		Failed:    t.failed,
		Done:      done,
		UpdatedAt: t.now(),
	}
}

func (t *Tracker) subscribersLocked() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
