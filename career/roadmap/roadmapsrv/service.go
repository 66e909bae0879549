package roadmapsrv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmapgen"
	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/Abraxas-365/skillpath/pkg/logx"
	"github.com/Abraxas-365/skillpath/pkg/metrics"
	"github.com/google/uuid"
)

const (
	DefaultShareTokenTTL = 7 * 24 * time.Hour

	// maxMutationAttempts bounds re-application of a mutation after a version conflict
	maxMutationAttempts = 3
)

// AnalysisReader resolves the completed analysis a roadmap is generated from
type AnalysisReader interface {
	GetCompletedAnalysis(ctx context.Context, id kernel.AnalysisID, userID kernel.UserID) (*analysis.Analysis, error)
}

// Service generates roadmaps and tracks progress through them
type Service struct {
	repo        roadmap.Repository
	cache       roadmap.ShareTokenCache
	analyses    AnalysisReader
	frontendURL string
	shareTTL    time.Duration
}

// NewService creates the roadmap service. frontendURL prefixes share links.
func NewService(
	repo roadmap.Repository,
	cache roadmap.ShareTokenCache,
	analyses AnalysisReader,
	frontendURL string,
	shareTTL time.Duration,
) *Service {
	if shareTTL <= 0 {
		shareTTL = DefaultShareTokenTTL
	}
	return &Service{
		repo:        repo,
		cache:       cache,
		analyses:    analyses,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		shareTTL:    shareTTL,
	}
}

// ============================================================================
// Generation
// ============================================================================

// Generate builds a roadmap from a completed analysis. A roadmap already
// generated for the same analysis is returned instead of a new one.
func (s *Service) Generate(ctx context.Context, userID kernel.UserID, req roadmap.GenerateRoadmapRequest) (*roadmap.GenerateRoadmapResponse, error) {
	if req.AnalysisID.IsEmpty() {
		return nil, roadmap.ErrInvalidRequest().WithDetail("field", "analysis_id")
	}

	a, err := s.analyses.GetCompletedAnalysis(ctx, req.AnalysisID, userID)
	if err != nil {
		return nil, roadmap.ErrAnalysisNotReady().
			WithDetail("analysis_id", req.AnalysisID.String()).
			WithCause(err)
	}

	existing, err := s.repo.GetByUserAndAnalysis(ctx, userID, a.ID)
	if err == nil {
		return &roadmap.GenerateRoadmapResponse{Roadmap: existing, Existing: true}, nil
	}
	if !errx.HasCode(err, roadmap.CodeRoadmapNotFound) {
		return nil, errx.Wrap(err, "failed to look up existing roadmap", errx.TypeInternal)
	}

	customizations, warnings := req.Customizations.Normalize()
	for _, w := range warnings {
		logx.Warnf("Roadmap customization ignored for analysis %s: %v %v", a.ID, w.Message, w.Details)
	}

	result := roadmapgen.Generate(roadmapgen.Input{
		GapSkills:      a.GapSkillNames(),
		TargetRole:     a.TargetRole,
		MatchScore:     a.OverallMatchScore,
		Customizations: customizations,
	})

	now := time.Now()
	r := &roadmap.Roadmap{
		ID:                 kernel.NewRoadmapID(uuid.NewString()),
		UserID:             userID,
		AnalysisID:         a.ID,
		TargetRole:         a.TargetRole,
		TargetRoleLabel:    a.TargetRoleLabel,
		Title:              fmt.Sprintf("%s Learning Path", a.TargetRoleLabel),
		Description:        fmt.Sprintf("Personalized learning roadmap to become a %s", a.TargetRoleLabel),
		Phases:             result.Phases,
		TotalEstimatedTime: result.TotalEstimatedTime,
		EstimatedWeeks:     result.TotalWeeks,
		Status:             roadmap.StatusDraft,
		Customizations:     customizations,
		LastActivityAt:     now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	r.Recalculate()

	if err := s.repo.Create(ctx, r); err != nil {
		if errx.HasCode(err, roadmap.CodeRoadmapAlreadyExists) {
			// lost a race with a concurrent generate for the same analysis
			existing, getErr := s.repo.GetByUserAndAnalysis(ctx, userID, a.ID)
			if getErr == nil {
				return &roadmap.GenerateRoadmapResponse{Roadmap: existing, Existing: true}, nil
			}
		}
		return nil, errx.Wrap(err, "failed to create roadmap", errx.TypeInternal)
	}

	metrics.RecordRoadmapGenerated(r.TargetRole.String())
	logx.Infof("Roadmap generated: RoadmapID=%s, AnalysisID=%s, Phases=%d, Weeks=%d",
		r.ID, a.ID, result.PhaseCount, result.TotalWeeks)

	return &roadmap.GenerateRoadmapResponse{Roadmap: r, Warnings: warnings}, nil
}

// RecommendedResources lists catalog resources per skill. Unknown resource
// types are rejected.
func (s *Service) RecommendedResources(skills []string, maxPerSkill int, types []string) ([]roadmap.RecommendedResource, error) {
	names := make([]kernel.SkillName, 0, len(skills))
	for _, sk := range skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			names = append(names, kernel.SkillName(sk))
		}
	}

	parsed := make([]roadmap.ResourceType, 0, len(types))
	for _, raw := range types {
		t := roadmap.ResourceType(strings.ToLower(strings.TrimSpace(raw)))
		if !t.IsValid() {
			return nil, roadmap.ErrInvalidRequest().
				WithDetail("field", "types").
				WithDetail("value", raw)
		}
		parsed = append(parsed, t)
	}

	return roadmapgen.RecommendedResources(names, maxPerSkill, parsed), nil
}

// ============================================================================
// Queries
// ============================================================================

// GetRoadmap returns a roadmap owned by userID
func (s *Service) GetRoadmap(ctx context.Context, id kernel.RoadmapID, userID kernel.UserID) (*roadmap.Roadmap, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errx.HasCode(err, roadmap.CodeRoadmapNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to load roadmap", errx.TypeInternal)
	}
	if !r.IsOwnedBy(userID) {
		return nil, roadmap.ErrRoadmapNotFound().WithDetail("roadmap_id", id.String())
	}
	return r, nil
}

// GetSharedRoadmap resolves a share token. Revoked tokens resolve to nothing.
func (s *Service) GetSharedRoadmap(ctx context.Context, token string) (*roadmap.Roadmap, error) {
	if token == "" {
		return nil, roadmap.ErrRoadmapNotFound()
	}

	if id, ok, err := s.cache.Get(ctx, token); err != nil {
		logx.Warnf("Share token cache lookup failed: %v", err)
	} else if ok {
		r, err := s.repo.GetByID(ctx, id)
		if err == nil && r.ShareToken != nil && *r.ShareToken == token {
			return r, nil
		}
		// stale entry
		if delErr := s.cache.Delete(ctx, token); delErr != nil {
			logx.Warnf("Failed to evict stale share token: %v", delErr)
		}
	}

	r, err := s.repo.GetByShareToken(ctx, token)
	if err != nil {
		if errx.HasCode(err, roadmap.CodeRoadmapNotFound) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to resolve share token", errx.TypeInternal)
	}

	if err := s.cache.Set(ctx, token, r.ID, s.shareTTL); err != nil {
		logx.Warnf("Failed to cache share token for roadmap %s: %v", r.ID, err)
	}
	return r, nil
}

// ListSaved lists the user's bookmarked roadmaps
func (s *Service) ListSaved(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*roadmap.PaginatedRoadmapsResponse, error) {
	return s.list(ctx, userID, roadmap.ListFilter{SavedOnly: true}, pagination)
}

// ListAll lists the user's roadmaps, optionally narrowed to one status
func (s *Service) ListAll(ctx context.Context, userID kernel.UserID, status *roadmap.Status, pagination kernel.PaginationOptions) (*roadmap.PaginatedRoadmapsResponse, error) {
	if status != nil && !status.IsValid() {
		return nil, roadmap.ErrInvalidRequest().
			WithDetail("field", "status").
			WithDetail("value", *status)
	}
	return s.list(ctx, userID, roadmap.ListFilter{Status: status}, pagination)
}

// ListPublicByRole lists public, completed roadmaps for a target role
func (s *Service) ListPublicByRole(ctx context.Context, role kernel.RoleID, pagination kernel.PaginationOptions) (*roadmap.PaginatedRoadmapsResponse, error) {
	page, err := s.repo.ListPublicByRole(ctx, role, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list public roadmaps", errx.TypeInternal)
	}
	return toSummaries(page), nil
}

// Stats aggregates the user's roadmaps
func (s *Service) Stats(ctx context.Context, userID kernel.UserID) (*roadmap.UserStats, error) {
	stats, err := s.repo.StatsByUser(ctx, userID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load roadmap stats", errx.TypeInternal)
	}
	return stats, nil
}

func (s *Service) list(ctx context.Context, userID kernel.UserID, filter roadmap.ListFilter, pagination kernel.PaginationOptions) (*roadmap.PaginatedRoadmapsResponse, error) {
	page, err := s.repo.ListByUser(ctx, userID, filter, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list roadmaps", errx.TypeInternal)
	}
	return toSummaries(page), nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func toSummaries(page *kernel.Paginated[roadmap.Roadmap]) *roadmap.PaginatedRoadmapsResponse {
	summaries := make([]roadmap.RoadmapSummary, 0, len(page.Items))
	for i := range page.Items {
		summaries = append(summaries, page.Items[i].ToSummary())
	}
	return &kernel.Paginated[roadmap.RoadmapSummary]{
		Items: summaries,
		Page:  page.Page,
		Empty: page.Empty,
	}
}
