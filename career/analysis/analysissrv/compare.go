package analysissrv

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/internal/skills"
	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/Abraxas-365/skillpath/pkg/logx"
	"github.com/Abraxas-365/skillpath/pkg/metrics"
	"github.com/google/uuid"
)

const MinComparedAnalyses = 2

// Reanalyze matches the skills of a completed analysis against another role.
// The result is a new completed analysis with its own copy of the resume.
func (s *Service) Reanalyze(ctx context.Context, id kernel.AnalysisID, userID kernel.UserID, req analysis.ReanalyzeRequest) (*analysis.Analysis, error) {
	if req.TargetRole.IsEmpty() {
		return nil, analysis.ErrInvalidRequest().WithDetail("reason", "target_role is required")
	}
	role, ok := skills.LookupRole(req.TargetRole)
	if !ok {
		return nil, analysis.ErrRoleNotFound().WithDetail("target_role", req.TargetRole)
	}

	source, err := s.GetCompletedAnalysis(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	started := time.Now()

	filePath, err := s.copyResume(ctx, source, started)
	if err != nil {
		return nil, err
	}

	a := &analysis.Analysis{
		ID:              kernel.NewAnalysisID(uuid.NewString()),
		UserID:          userID,
		FileName:        source.FileName,
		FileSize:        source.FileSize,
		MimeType:        source.MimeType,
		FileHash:        source.FileHash,
		FilePath:        filePath,
		TargetRole:      role.ID,
		TargetRoleLabel: role.Label,
		CreatedAt:       started,
	}

	match := skills.Match(source.ExtractedSkills, role)
	a.Complete(analysis.Result{
		Extractor:       source.Extractor,
		Extracted:       source.ExtractedSkills,
		Required:        match.Required,
		Matched:         match.Matched,
		Gaps:            match.Gaps,
		Recommendations: toRecommendations(match.Recommendations),
		MatchScore:      match.Score,
	}, time.Since(started))

	if err := s.repo.Create(ctx, a); err != nil {
		if filePath != "" {
			_ = s.files.DeleteFile(context.Background(), filePath)
		}
		return nil, errx.Wrap(err, "failed to create analysis", errx.TypeInternal)
	}

	metrics.RecordAnalysisProcessed("reanalyze", string(analysis.StatusCompleted), time.Since(started).Seconds())
	logx.Infof("Analysis re-run: From=%s, AnalysisID=%s, Role=%s, Score=%d",
		source.ID, a.ID, role.ID, a.OverallMatchScore)

	return a, nil
}

// Compare puts completed analyses of one user side by side. The best match is
// the first analysis with the highest score; common skills keep the order of
// the first analysis.
func (s *Service) Compare(ctx context.Context, userID kernel.UserID, req analysis.CompareRequest) (*analysis.Comparison, error) {
	if len(req.AnalysisIDs) < MinComparedAnalyses {
		return nil, analysis.ErrInvalidRequest().
			WithDetail("reason", "at least 2 analysis ids are required").
			WithDetail("count", len(req.AnalysisIDs))
	}

	seen := make(map[kernel.AnalysisID]bool, len(req.AnalysisIDs))
	analyses := make([]*analysis.Analysis, 0, len(req.AnalysisIDs))
	for _, id := range req.AnalysisIDs {
		if seen[id] {
			return nil, analysis.ErrInvalidRequest().
				WithDetail("reason", "duplicate analysis id").
				WithDetail("analysis_id", id.String())
		}
		seen[id] = true

		a, err := s.GetCompletedAnalysis(ctx, id, userID)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}

	cmp := &analysis.Comparison{
		Analyses: make([]analysis.ComparisonEntry, len(analyses)),
	}
	best := analyses[0]
	gapSets := make([][]kernel.SkillName, len(analyses))
	matchSets := make([][]kernel.SkillName, len(analyses))
	for i, a := range analyses {
		cmp.Analyses[i] = a.ToComparisonEntry()
		if a.OverallMatchScore > best.OverallMatchScore {
			best = a
		}
		gapSets[i] = kernel.SkillNamesOf(a.GapSkills)
		matchSets[i] = kernel.SkillNamesOf(a.MatchedSkills)
	}

	cmp.BestMatch = best.ToComparisonEntry()
	cmp.CommonGaps = commonSkills(gapSets)
	cmp.CommonMatches = commonSkills(matchSets)
	return cmp, nil
}

// ============================================================================
// Helper Functions
// ============================================================================

// copyResume stores a private copy of the source upload. Analyses whose
// file is gone are re-run without one.
func (s *Service) copyResume(ctx context.Context, source *analysis.Analysis, now time.Time) (string, error) {
	if source.FilePath == "" {
		return "", nil
	}

	content, err := s.files.ReadFile(ctx, source.FilePath)
	if err != nil {
		logx.Warnf("Resume file of analysis %s is unavailable: %v", source.ID, err)
		return "", nil
	}

	filePath := s.resumePath(source.UserID, now, strings.ToLower(filepath.Ext(source.FileName)))
	if err := s.files.WriteFile(ctx, filePath, content); err != nil {
		return "", analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("file_name", source.FileName)
	}
	return filePath, nil
}

// commonSkills intersects skill lists case-insensitively
func commonSkills(lists [][]kernel.SkillName) []kernel.SkillName {
	out := []kernel.SkillName{}
	if len(lists) == 0 {
		return out
	}

	counts := make(map[string]int)
	for _, list := range lists {
		inList := make(map[string]bool, len(list))
		for _, name := range list {
			if inList[name.Key()] {
				continue
			}
			inList[name.Key()] = true
			counts[name.Key()]++
		}
	}

	added := make(map[string]bool)
	for _, name := range lists[0] {
		if counts[name.Key()] == len(lists) && !added[name.Key()] {
			added[name.Key()] = true
			out = append(out, name)
		}
	}
	return out
}
