package roadmap

import (
	"errors"
	"testing"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRoadmap builds a draft roadmap whose phases hold the given number of milestones
func newTestRoadmap(milestonesPerPhase ...int) *Roadmap {
	r := &Roadmap{
		ID:     kernel.NewRoadmapID("rm-1"),
		UserID: kernel.NewUserID("user-1"),
		Status: StatusDraft,
	}
	for i, n := range milestonesPerPhase {
		p := Phase{Name: "phase", Order: i + 1}
		for j := 0; j < n; j++ {
			p.Milestones = append(p.Milestones, Milestone{Title: "m", Order: j + 1})
		}
		r.Phases = append(r.Phases, p)
	}
	r.Recalculate()
	return r
}

func assertProgressInvariant(t *testing.T, r *Roadmap) {
	t.Helper()
	assert.Equal(t, progressPercent(r.CompletedMilestones(), r.TotalMilestones()), r.Progress)
}

func TestCompleteMilestone_SingleMilestonePhaseAdvances(t *testing.T) {
	r := newTestRoadmap(1, 2)

	require.NoError(t, r.CompleteMilestone(0, 0, ""))

	assert.True(t, r.Phases[0].IsCompleted)
	assert.NotNil(t, r.Phases[0].CompletedAt)
	assert.Equal(t, 1, r.CurrentPhase)
	assert.Equal(t, 0, r.CurrentMilestone)
	assert.Equal(t, 33, r.Progress)
	assertProgressInvariant(t, r)
}

func TestCompleteMilestone_StoresNotes(t *testing.T) {
	r := newTestRoadmap(2)

	require.NoError(t, r.CompleteMilestone(0, 1, "finished the course"))
	require.NoError(t, r.CompleteMilestone(0, 1, ""))

	m := r.Phases[0].Milestones[1]
	assert.True(t, m.IsCompleted)
	assert.NotNil(t, m.CompletedAt)
	assert.Equal(t, "finished the course", m.Notes)
	assert.False(t, r.LastActivityAt.IsZero())
}

func TestCompleteMilestone_OutOfOrderKeepsPosition(t *testing.T) {
	r := newTestRoadmap(2, 2)

	require.NoError(t, r.CompleteMilestone(1, 1, ""))

	assert.Equal(t, 0, r.CurrentPhase)
	assert.Equal(t, 0, r.CurrentMilestone)
	assert.False(t, r.Phases[1].IsCompleted)
	assert.Equal(t, 25, r.Progress)
}

func TestCompleteMilestone_BadIndices(t *testing.T) {
	r := newTestRoadmap(2)
	before := *r

	err := r.CompleteMilestone(3, 0, "")
	assert.True(t, errors.Is(err, ErrPhaseNotFound()))

	err = r.CompleteMilestone(0, 5, "")
	assert.True(t, errors.Is(err, ErrMilestoneNotFound()))

	err = r.CompleteMilestone(-1, 0, "")
	assert.True(t, errors.Is(err, ErrPhaseNotFound()))

	assert.Equal(t, before.Progress, r.Progress)
	assert.Equal(t, before.LastActivityAt, r.LastActivityAt)
}

func TestCompleteAll_TransitionsToCompletedOnce(t *testing.T) {
	r := newTestRoadmap(1, 2)
	require.NoError(t, r.Start())

	require.NoError(t, r.CompleteMilestone(0, 0, ""))
	require.NoError(t, r.CompleteMilestone(1, 0, ""))
	assert.Equal(t, StatusActive, r.Status)
	assert.Nil(t, r.ActualCompletionDate)

	require.NoError(t, r.CompleteMilestone(1, 1, ""))
	assert.Equal(t, 100, r.Progress)
	assert.Equal(t, StatusCompleted, r.Status)
	require.NotNil(t, r.ActualCompletionDate)
	completedAt := *r.ActualCompletionDate

	// pinned to the last milestone of the last phase
	assert.Equal(t, 1, r.CurrentPhase)
	assert.Equal(t, 1, r.CurrentMilestone)

	// recompleting does not move the completion date
	require.NoError(t, r.CompleteMilestone(1, 1, ""))
	assert.Equal(t, completedAt, *r.ActualCompletionDate)
}

func TestMarkIncomplete_CompletedRoadmapStaysCompleted(t *testing.T) {
	r := newTestRoadmap(1, 1)
	require.NoError(t, r.CompleteMilestone(0, 0, ""))
	require.NoError(t, r.CompleteMilestone(1, 0, ""))
	require.Equal(t, StatusCompleted, r.Status)
	phaseCompletedAt := r.Phases[1].CompletedAt

	require.NoError(t, r.MarkIncomplete(1, 0))

	assert.Equal(t, StatusCompleted, r.Status)
	assert.NotNil(t, r.ActualCompletionDate)
	assert.Equal(t, 50, r.Progress)
	assert.False(t, r.Phases[1].IsCompleted)
	assert.Equal(t, phaseCompletedAt, r.Phases[1].CompletedAt)
	assert.Nil(t, r.Phases[1].Milestones[0].CompletedAt)
	assert.Equal(t, 1, r.CurrentPhase)
	assert.Equal(t, 0, r.CurrentMilestone)
	assertProgressInvariant(t, r)
}

func TestMarkIncomplete_BadIndices(t *testing.T) {
	r := newTestRoadmap(1)
	assert.True(t, errors.Is(r.MarkIncomplete(0, 1), ErrMilestoneNotFound()))
}

func TestProgressInvariantHoldsAcrossMutations(t *testing.T) {
	r := newTestRoadmap(3, 1, 4, 3)
	steps := []struct {
		phase, milestone int
		complete         bool
	}{
		{0, 0, true}, {2, 3, true}, {0, 0, false}, {3, 2, true},
		{1, 0, true}, {2, 0, true}, {2, 0, false}, {0, 2, true},
	}

	for _, s := range steps {
		if s.complete {
			require.NoError(t, r.CompleteMilestone(s.phase, s.milestone, ""))
		} else {
			require.NoError(t, r.MarkIncomplete(s.phase, s.milestone))
		}
		assertProgressInvariant(t, r)
	}
}

func TestEmptyPhaseCountsAsCompleted(t *testing.T) {
	r := newTestRoadmap(0, 1)

	assert.True(t, r.Phases[0].IsCompleted)
	assert.Equal(t, 0, r.Progress)
	assert.Equal(t, 1, r.CurrentPhase)
}

func TestStart(t *testing.T) {
	r := newTestRoadmap(2)
	r.EstimatedWeeks = 4

	require.NoError(t, r.Start())

	assert.Equal(t, StatusActive, r.Status)
	require.NotNil(t, r.StartDate)
	require.NotNil(t, r.TargetCompletionDate)
	assert.Equal(t, r.StartDate.AddDate(0, 0, 28), *r.TargetCompletionDate)
	assert.NotNil(t, r.Phases[0].Milestones[0].StartedAt)

	err := r.Start()
	assert.True(t, errors.Is(err, ErrInvalidTransition()))
}

func TestPause_FromDraftFails(t *testing.T) {
	r := newTestRoadmap(1)
	before := *r

	err := r.Pause()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition()))
	assert.Equal(t, before, *r)
}

func TestPauseResume(t *testing.T) {
	r := newTestRoadmap(1)
	require.NoError(t, r.Start())

	require.NoError(t, r.Pause())
	assert.Equal(t, StatusPaused, r.Status)
	assert.True(t, errors.Is(r.Pause(), ErrInvalidTransition()))

	require.NoError(t, r.Resume())
	assert.Equal(t, StatusActive, r.Status)
	assert.True(t, errors.Is(r.Resume(), ErrInvalidTransition()))
}

func TestAbandon_IsTerminal(t *testing.T) {
	r := newTestRoadmap(1)
	require.NoError(t, r.Start())
	require.NoError(t, r.Abandon())

	assert.True(t, errors.Is(r.Resume(), ErrInvalidTransition()))
	assert.True(t, errors.Is(r.Start(), ErrInvalidTransition()))

	require.NoError(t, r.CompleteMilestone(0, 0, ""))
	assert.Equal(t, 100, r.Progress)
	assert.Equal(t, StatusAbandoned, r.Status)
	assert.Nil(t, r.ActualCompletionDate)
}

func TestGenerateShareToken_RevokesPrevious(t *testing.T) {
	r := newTestRoadmap(1)

	first, err := r.GenerateShareToken()
	require.NoError(t, err)
	second, err := r.GenerateShareToken()
	require.NoError(t, err)

	assert.Len(t, first, 32)
	assert.Regexp(t, "^[0-9a-f]+$", first)
	assert.NotEqual(t, first, second)
	require.NotNil(t, r.ShareToken)
	assert.Equal(t, second, *r.ShareToken)
}

func TestToSummary(t *testing.T) {
	r := newTestRoadmap(2, 3)
	r.Title = "Frontend Developer Learning Path"

	s := r.ToSummary()

	assert.Equal(t, 2, s.PhaseCount)
	assert.Equal(t, 5, s.MilestoneCount)
	assert.Equal(t, r.Title, s.Title)
}
