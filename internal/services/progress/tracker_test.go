package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStages() []Stage {
	return []Stage{
		{Name: "one", Estimated: time.Second},
		{Name: "two", Estimated: 2 * time.Second},
		{Name: "three", Estimated: time.Second},
		{Name: "four", Estimated: time.Second},
	}
}

func TestTrackerStartsOnFirstStage(t *testing.T) {
	tr := NewTracker(testStages())

	snap := tr.Snapshot()
	assert.Equal(t, "one", snap.Active)
	assert.Equal(t, StageActive, snap.Stages[0].Status)
	assert.InDelta(t, 12.5, snap.Percent, 0.01)
	assert.False(t, snap.Done)
}

func TestAdvanceToCompletesSkippedStages(t *testing.T) {
	tr := NewTracker(testStages())

	require.NoError(t, tr.AdvanceTo("three"))

	snap := tr.Snapshot()
	assert.Equal(t, StageCompleted, snap.Stages[0].Status)
	assert.Equal(t, StageCompleted, snap.Stages[1].Status)
	assert.Equal(t, StageActive, snap.Stages[2].Status)
	assert.Equal(t, "three", snap.Active)
	assert.InDelta(t, 62.5, snap.Percent, 0.01)
}

func TestAdvanceToRejectsBackwardAndUnknown(t *testing.T) {
	tr := NewTracker(testStages())
	require.NoError(t, tr.AdvanceTo("three"))

	assert.ErrorIs(t, tr.AdvanceTo("two"), ErrBackwardAdvance)
	assert.ErrorIs(t, tr.AdvanceTo("three"), ErrBackwardAdvance)
	assert.ErrorIs(t, tr.AdvanceTo("nope"), ErrUnknownStage)
}

func TestFailHaltsTracker(t *testing.T) {
	tr := NewTracker(testStages())
	require.NoError(t, tr.AdvanceTo("two"))

	tr.Fail("no data extracted")

	snap := tr.Snapshot()
	assert.True(t, snap.Failed)
	assert.Equal(t, StageFailed, snap.Stages[1].Status)
	assert.Equal(t, "no data extracted", snap.Stages[1].Error)

	assert.ErrorIs(t, tr.AdvanceTo("three"), ErrHalted)

	// Complete is a no-op after failure.
	tr.Complete()
	assert.True(t, tr.Snapshot().Failed)
}

func TestCompleteFinishesEverything(t *testing.T) {
	tr := NewTracker(testStages())
	require.NoError(t, tr.AdvanceTo("two"))

	tr.Complete()

	snap := tr.Snapshot()
	assert.True(t, snap.Done)
	assert.InDelta(t, 100, snap.Percent, 0.01)
	for _, s := range snap.Stages {
		assert.Equal(t, StageCompleted, s.Status, s.Name)
	}
}

func TestResetIsTheOnlyWayBack(t *testing.T) {
	tr := NewTracker(testStages())
	require.NoError(t, tr.AdvanceTo("four"))

	tr.Reset()

	snap := tr.Snapshot()
	assert.Equal(t, "one", snap.Active)
	assert.False(t, snap.Failed)
	require.NoError(t, tr.AdvanceTo("two"))
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	tr := NewTracker(testStages())

	var seen []string
	unsubscribe := tr.Subscribe(func(s Snapshot) {
		seen = append(seen, s.Active)
	})

	require.NoError(t, tr.AdvanceTo("two"))
	require.NoError(t, tr.AdvanceTo("three"))
	unsubscribe()
	require.NoError(t, tr.AdvanceTo("four"))

	assert.Equal(t, []string{"two", "three"}, seen)
}

func TestAnnotateSetsActiveStageDetails(t *testing.T) {
	tr := NewTracker(testStages())
	require.NoError(t, tr.AdvanceTo("two"))

	tr.Annotate("parsed 3 of 5 files")

	snap := tr.Snapshot()
	assert.Equal(t, "parsed 3 of 5 files", snap.Stages[1].Details)
}

func TestForceAdvanceStale(t *testing.T) {
	now := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(testStages())
	tr.now = func() time.Time { return now }
	tr.Reset() // re-stamp StartedAt with the fake clock

	// Within estimate plus buffer: no advance.
	now = now.Add(time.Second)
	assert.False(t, tr.ForceAdvanceStale(5*time.Second))

	// Past it: advance one stage.
	now = now.Add(10 * time.Second)
	assert.True(t, tr.ForceAdvanceStale(5*time.Second))
	assert.Equal(t, "two", tr.Snapshot().Active)
}

func TestForceAdvanceStaleLeavesFailedAlone(t *testing.T) {
	now := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(testStages())
	tr.now = func() time.Time { return now }
	tr.Reset()

	tr.Fail("boom")
	now = now.Add(time.Hour)
	assert.False(t, tr.ForceAdvanceStale(0))
	assert.True(t, tr.Snapshot().Failed)
}

func TestForceAdvanceStaleCompletesStaleFinalStage(t *testing.T) {
	now := time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(testStages())
	tr.now = func() time.Time { return now }
	require.NoError(t, tr.AdvanceTo("four"))

	// Still within the final stage's estimate plus buffer.
	assert.False(t, tr.ForceAdvanceStale(5*time.Second))
	assert.False(t, tr.Snapshot().Done)

	now = now.Add(time.Hour)
	assert.True(t, tr.ForceAdvanceStale(5*time.Second))
	assert.True(t, tr.Snapshot().Done)
}
