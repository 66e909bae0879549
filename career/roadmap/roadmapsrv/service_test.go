package roadmapsrv

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmaptest"
	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyses map[kernel.AnalysisID]*analysis.Analysis

func (f fakeAnalyses) GetCompletedAnalysis(_ context.Context, id kernel.AnalysisID, userID kernel.UserID) (*analysis.Analysis, error) {
	a, ok := f[id]
	if !ok || !a.IsOwnedBy(userID) || !a.IsCompleted() {
		return nil, analysis.ErrAnalysisNotFound()
	}
	return a, nil
}

func gapSkills(names ...string) []kernel.Skill {
	out := make([]kernel.Skill, len(names))
	for i, n := range names {
		out[i] = kernel.Skill{Name: kernel.SkillName(n)}
	}
	return out
}

const (
	owner    kernel.UserID     = "user-1"
	stranger kernel.UserID     = "user-2"
	frontend kernel.AnalysisID = "analysis-frontend"
)

type fixture struct {
	svc   *Service
	repo  *roadmaptest.Repository
	cache *roadmaptest.ShareCache
}

func newFixture() *fixture {
	analyses := fakeAnalyses{
		frontend: {
			ID:                frontend,
			UserID:            owner,
			TargetRole:        "frontend-developer",
			TargetRoleLabel:   "Frontend Developer",
			GapSkills:         gapSkills("HTML", "React", "Docker"),
			OverallMatchScore: 40,
			Status:            analysis.StatusCompleted,
		},
		"analysis-pending": {
			ID:     "analysis-pending",
			UserID: owner,
			Status: analysis.StatusProcessing,
		},
	}
	repo := roadmaptest.NewRepository()
	cache := roadmaptest.NewShareCache()
	return &fixture{
		svc:   NewService(repo, cache, analyses, "https://app.example.com/", time.Hour),
		repo:  repo,
		cache: cache,
	}
}

func (f *fixture) generate(t *testing.T) *roadmap.Roadmap {
	t.Helper()
	resp, err := f.svc.Generate(context.Background(), owner, roadmap.GenerateRoadmapRequest{AnalysisID: frontend})
	require.NoError(t, err)
	return resp.Roadmap
}

func ptr[T any](v T) *T { return &v }

// completeAll marks every milestone of r complete through the service
func (f *fixture) completeAll(t *testing.T, r *roadmap.Roadmap) *roadmap.ProgressResponse {
	t.Helper()
	var last *roadmap.ProgressResponse
	for i, phase := range r.Phases {
		for j := range phase.Milestones {
			resp, err := f.svc.UpdateProgress(context.Background(), r.ID, owner, roadmap.UpdateProgressRequest{
				PhaseIndex:     ptr(i),
				MilestoneIndex: ptr(j),
				IsCompleted:    ptr(true),
			})
			require.NoError(t, err)
			last = resp
		}
	}
	return last
}

// ============================================================================
// Generation
// ============================================================================

func TestGenerate(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Generate(context.Background(), owner, roadmap.GenerateRoadmapRequest{AnalysisID: frontend})
	require.NoError(t, err)

	r := resp.Roadmap
	assert.False(t, resp.Existing)
	assert.Equal(t, "Frontend Developer Learning Path", r.Title)
	assert.Equal(t, "Personalized learning roadmap to become a Frontend Developer", r.Description)
	assert.Equal(t, roadmap.StatusDraft, r.Status)
	assert.Len(t, r.Phases, 4)
	assert.Equal(t, "2 months", r.TotalEstimatedTime)
	assert.Equal(t, 0, r.Progress)
	assert.Equal(t, roadmap.DefaultWeeklyHours, r.Customizations.WeeklyHours)
	assert.Equal(t, 1, r.Version)
}

func TestGenerate_ReturnsExisting(t *testing.T) {
	f := newFixture()
	first := f.generate(t)

	resp, err := f.svc.Generate(context.Background(), owner, roadmap.GenerateRoadmapRequest{AnalysisID: frontend})
	require.NoError(t, err)

	assert.True(t, resp.Existing)
	assert.Equal(t, first.ID, resp.Roadmap.ID)
	assert.Equal(t, 1, f.repo.Len())
}

func TestGenerate_AnalysisNotReady(t *testing.T) {
	tests := []struct {
		name     string
		user     kernel.UserID
		analysis kernel.AnalysisID
	}{
		{"unknown analysis", owner, "missing"},
		{"still processing", owner, "analysis-pending"},
		{"other user's analysis", stranger, frontend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Generate(context.Background(), tt.user, roadmap.GenerateRoadmapRequest{AnalysisID: tt.analysis})
			assert.True(t, errx.HasCode(err, roadmap.CodeAnalysisNotReady), "got %v", err)
			assert.Zero(t, f.repo.Len())
		})
	}
}

func TestGenerate_InvalidCustomizationsFallBack(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Generate(context.Background(), owner, roadmap.GenerateRoadmapRequest{
		AnalysisID: frontend,
		Customizations: &roadmap.CustomizationsInput{
			WeeklyHours:            ptr(500),
			PreferredResourceTypes: []string{"book"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, roadmap.DefaultWeeklyHours, resp.Roadmap.Customizations.WeeklyHours)
	assert.Equal(t, []roadmap.ResourceType{roadmap.ResourceBook}, resp.Roadmap.Customizations.PreferredResourceTypes)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, roadmap.CodeInvalidCustomizations, resp.Warnings[0].Code)
}

// ============================================================================
// Progress
// ============================================================================

func TestUpdateProgress(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	ctx := context.Background()

	resp, err := f.svc.UpdateProgress(ctx, r.ID, owner, roadmap.UpdateProgressRequest{
		PhaseIndex:     ptr(0),
		MilestoneIndex: ptr(0),
		IsCompleted:    ptr(true),
		Notes:          "done with semantics",
	})
	require.NoError(t, err)

	total := r.TotalMilestones()
	assert.Equal(t, int(math.Round(100/float64(total))), resp.Progress)
	assert.Equal(t, 1, resp.CurrentPhase, "foundation has a single milestone")
	assert.Equal(t, 0, resp.CurrentMilestone)
	assert.Equal(t, "done with semantics", resp.Roadmap.Phases[0].Milestones[0].Notes)

	stored, err := f.svc.GetRoadmap(ctx, r.ID, owner)
	require.NoError(t, err)
	assert.True(t, stored.Phases[0].Milestones[0].IsCompleted)
	assert.Equal(t, 2, stored.Version)

	resp, err = f.svc.UpdateProgress(ctx, r.ID, owner, roadmap.UpdateProgressRequest{
		PhaseIndex:     ptr(0),
		MilestoneIndex: ptr(0),
		IsCompleted:    ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Progress)
	assert.Equal(t, 0, resp.CurrentPhase)
}

func TestUpdateProgress_MissingFlagReopens(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	ctx := context.Background()

	_, err := f.svc.UpdateProgress(ctx, r.ID, owner, roadmap.UpdateProgressRequest{
		PhaseIndex:     ptr(0),
		MilestoneIndex: ptr(0),
		IsCompleted:    ptr(true),
	})
	require.NoError(t, err)

	resp, err := f.svc.UpdateProgress(ctx, r.ID, owner, roadmap.UpdateProgressRequest{
		PhaseIndex:     ptr(0),
		MilestoneIndex: ptr(0),
	})
	require.NoError(t, err)
	assert.False(t, resp.Roadmap.Phases[0].Milestones[0].IsCompleted)
	assert.Nil(t, resp.Roadmap.Phases[0].Milestones[0].CompletedAt)
	assert.Equal(t, 0, resp.Progress)
}

func TestUpdateProgress_Validation(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	ctx := context.Background()

	_, err := f.svc.UpdateProgress(ctx, r.ID, owner, roadmap.UpdateProgressRequest{PhaseIndex: ptr(0)})
	assert.True(t, errx.HasCode(err, roadmap.CodeInvalidRequest))

	_, err = f.svc.UpdateProgress(ctx, r.ID, owner, roadmap.UpdateProgressRequest{PhaseIndex: ptr(9), MilestoneIndex: ptr(0)})
	assert.True(t, errx.HasCode(err, roadmap.CodePhaseNotFound))

	_, err = f.svc.UpdateProgress(ctx, r.ID, owner, roadmap.UpdateProgressRequest{PhaseIndex: ptr(0), MilestoneIndex: ptr(9)})
	assert.True(t, errx.HasCode(err, roadmap.CodeMilestoneNotFound))

	_, err = f.svc.UpdateProgress(ctx, r.ID, stranger, roadmap.UpdateProgressRequest{PhaseIndex: ptr(0), MilestoneIndex: ptr(0)})
	assert.True(t, errx.HasCode(err, roadmap.CodeRoadmapNotFound))
}

func TestUpdateProgress_CompletesRoadmap(t *testing.T) {
	f := newFixture()
	r := f.generate(t)

	_, err := f.svc.Start(context.Background(), r.ID, owner)
	require.NoError(t, err)

	last := f.completeAll(t, r)
	assert.Equal(t, 100, last.Progress)
	assert.Equal(t, roadmap.StatusCompleted, last.Status)
	assert.NotNil(t, last.Roadmap.ActualCompletionDate)
	assert.Equal(t, len(r.Phases)-1, last.CurrentPhase)

	// completed is terminal
	_, err = f.svc.Pause(context.Background(), r.ID, owner)
	assert.True(t, errx.HasCode(err, roadmap.CodeInvalidTransition))
}

func TestUpdateProgress_RetriesVersionConflict(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	f.repo.Conflicts = 1

	resp, err := f.svc.UpdateProgress(context.Background(), r.ID, owner, roadmap.UpdateProgressRequest{
		PhaseIndex:     ptr(0),
		MilestoneIndex: ptr(0),
		IsCompleted:    ptr(true),
	})
	require.NoError(t, err)
	assert.True(t, resp.Roadmap.Phases[0].Milestones[0].IsCompleted)
}

func TestUpdateProgress_GivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	f.repo.Conflicts = maxMutationAttempts

	_, err := f.svc.UpdateProgress(context.Background(), r.ID, owner, roadmap.UpdateProgressRequest{
		PhaseIndex:     ptr(0),
		MilestoneIndex: ptr(0),
	})
	assert.True(t, errx.HasCode(err, roadmap.CodeConcurrentModification))
}

func TestLifecycle(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	ctx := context.Background()

	_, err := f.svc.Pause(ctx, r.ID, owner)
	assert.True(t, errx.HasCode(err, roadmap.CodeInvalidTransition), "draft cannot pause")

	started, err := f.svc.Start(ctx, r.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, roadmap.StatusActive, started.Status)
	assert.NotNil(t, started.StartDate)
	assert.NotNil(t, started.Phases[0].Milestones[0].StartedAt)

	paused, err := f.svc.Pause(ctx, r.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, roadmap.StatusPaused, paused.Status)

	resumed, err := f.svc.Resume(ctx, r.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, roadmap.StatusActive, resumed.Status)

	_, err = f.svc.Start(ctx, r.ID, owner)
	assert.True(t, errx.HasCode(err, roadmap.CodeInvalidTransition), "start only from draft")

	abandoned, err := f.svc.Abandon(ctx, r.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, roadmap.StatusAbandoned, abandoned.Status)

	_, err = f.svc.Resume(ctx, r.ID, owner)
	assert.True(t, errx.HasCode(err, roadmap.CodeInvalidTransition))
}

// ============================================================================
// Sharing
// ============================================================================

func TestShare(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	ctx := context.Background()

	first, err := f.svc.Share(ctx, r.ID, owner, roadmap.ShareRoadmapRequest{IsPublic: true})
	require.NoError(t, err)
	assert.Len(t, first.ShareToken, 32)
	assert.Equal(t, "https://app.example.com/roadmap/shared/"+first.ShareToken, first.ShareURL)
	assert.True(t, first.IsPublic)

	shared, err := f.svc.GetSharedRoadmap(ctx, first.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, r.ID, shared.ID)

	second, err := f.svc.Share(ctx, r.ID, owner, roadmap.ShareRoadmapRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ShareToken, second.ShareToken)

	_, err = f.svc.GetSharedRoadmap(ctx, first.ShareToken)
	assert.True(t, errx.HasCode(err, roadmap.CodeRoadmapNotFound), "old link is revoked")
	assert.False(t, f.cache.Has(first.ShareToken))
}

func TestGetSharedRoadmap_FallsBackToRepository(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	ctx := context.Background()

	resp, err := f.svc.Share(ctx, r.ID, owner, roadmap.ShareRoadmapRequest{})
	require.NoError(t, err)
	f.cache.Evict(resp.ShareToken)

	shared, err := f.svc.GetSharedRoadmap(ctx, resp.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, r.ID, shared.ID)
	assert.Equal(t, r.ID, f.cache.Lookup(resp.ShareToken), "lookup repopulates the cache")
}

func TestGetSharedRoadmap_StaleCacheEntry(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Set(ctx, "forged", r.ID, time.Minute))

	_, err := f.svc.GetSharedRoadmap(ctx, "forged")
	assert.True(t, errx.HasCode(err, roadmap.CodeRoadmapNotFound))
	assert.False(t, f.cache.Has("forged"))
}

// ============================================================================
// Listings
// ============================================================================

func TestListSavedAndAll(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	ctx := context.Background()
	page := kernel.PaginationOptions{Page: 1, PageSize: 20}

	saved, err := f.svc.ListSaved(ctx, owner, page)
	require.NoError(t, err)
	assert.True(t, saved.Empty)

	_, err = f.svc.Save(ctx, r.ID, owner)
	require.NoError(t, err)

	saved, err = f.svc.ListSaved(ctx, owner, page)
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, r.ID, saved.Items[0].ID)
	assert.Equal(t, 4, saved.Items[0].PhaseCount)

	draft := roadmap.StatusDraft
	all, err := f.svc.ListAll(ctx, owner, &draft, page)
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)

	bogus := roadmap.Status("archived")
	_, err = f.svc.ListAll(ctx, owner, &bogus, page)
	assert.True(t, errx.HasCode(err, roadmap.CodeInvalidRequest))

	_, err = f.svc.Unsave(ctx, r.ID, owner)
	require.NoError(t, err)
	saved, err = f.svc.ListSaved(ctx, owner, page)
	require.NoError(t, err)
	assert.True(t, saved.Empty)
}

func TestListPublicByRole(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	ctx := context.Background()
	page := kernel.PaginationOptions{Page: 1, PageSize: 20}

	_, err := f.svc.Share(ctx, r.ID, owner, roadmap.ShareRoadmapRequest{IsPublic: true})
	require.NoError(t, err)

	public, err := f.svc.ListPublicByRole(ctx, "frontend-developer", page)
	require.NoError(t, err)
	assert.True(t, public.Empty, "only completed roadmaps are listed")

	f.completeAll(t, r)

	public, err = f.svc.ListPublicByRole(ctx, "frontend-developer", page)
	require.NoError(t, err)
	assert.Len(t, public.Items, 1)
}

func TestDelete(t *testing.T) {
	f := newFixture()
	r := f.generate(t)
	ctx := context.Background()

	resp, err := f.svc.Share(ctx, r.ID, owner, roadmap.ShareRoadmapRequest{})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, r.ID, stranger)
	assert.True(t, errx.HasCode(err, roadmap.CodeRoadmapNotFound))

	require.NoError(t, f.svc.Delete(ctx, r.ID, owner))
	assert.Zero(t, f.repo.Len())
	assert.False(t, f.cache.Has(resp.ShareToken))
}

func TestRecommendedResources(t *testing.T) {
	f := newFixture()

	got, err := f.svc.RecommendedResources([]string{"React", " "}, 1, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, kernel.SkillName("React"), got[0].Skill)

	_, err = f.svc.RecommendedResources([]string{"React"}, 1, []string{"podcast"})
	assert.True(t, errx.HasCode(err, roadmap.CodeInvalidRequest))
}
