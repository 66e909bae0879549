package analysissrv

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/internal/skills"
	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/Abraxas-365/skillpath/pkg/logx"
	"github.com/Abraxas-365/skillpath/pkg/metrics"
)

// ProcessAnalysisJob - Worker function to process a job
func (s *Service) ProcessAnalysisJob(ctx context.Context, job *analysis.ProcessingJob) error {
	logx.Infof("Processing analysis job: JobID=%s, AnalysisID=%s, Attempt=%d/%d",
		job.ID, job.AnalysisID, job.AttemptCount+1, job.MaxAttempts)
	started := time.Now()

	a, err := s.repo.GetByID(ctx, job.AnalysisID)
	if err != nil {
		// deleted while queued
		logx.Warnf("Dropping job %s: analysis %s not found", job.ID, job.AnalysisID)
		return analysis.ErrAnalysisNotFound().WithDetail("analysis_id", job.AnalysisID)
	}

	if err := a.MarkProcessing(); err != nil {
		logx.Warnf("Skipping job %s: %v", job.ID, err)
		return nil
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return s.handleJobError(ctx, job, a, "status_update_failed", "", err, started)
	}

	content, err := s.files.ReadFile(ctx, job.FilePath)
	if err != nil {
		return s.handleJobError(ctx, job, a, "file_read_failed", "", err, started)
	}

	extracted, extractor, err := s.extractSkills(ctx, content, job.MimeType)
	if err != nil {
		return s.handleJobError(ctx, job, a, "extraction_failed", extractor, err, started)
	}

	role, ok := skills.LookupRole(job.TargetRole)
	if !ok {
		// role removed from the catalog since upload; not retryable
		job.MaxAttempts = job.AttemptCount + 1
		return s.handleJobError(ctx, job, a, "role_not_found", extractor,
			analysis.ErrRoleNotFound().WithDetail("target_role", job.TargetRole), started)
	}

	match := skills.Match(extracted, role)
	a.Complete(analysis.Result{
		Extractor:       extractor,
		Extracted:       extracted,
		Required:        match.Required,
		Matched:         match.Matched,
		Gaps:            match.Gaps,
		Recommendations: toRecommendations(match.Recommendations),
		MatchScore:      match.Score,
	}, time.Since(started))

	if err := s.repo.Update(ctx, a); err != nil {
		return s.handleJobError(ctx, job, a, "save_failed", extractor, err, started)
	}

	metrics.RecordAnalysisProcessed(extractor, string(analysis.StatusCompleted), time.Since(started).Seconds())
	logx.Infof("Analysis completed: AnalysisID=%s, Score=%d, Gaps=%d, Extractor=%s",
		a.ID, a.OverallMatchScore, len(a.GapSkills), extractor)
	return nil
}

// extractSkills runs the extractor chain and normalizes the names found.
// It returns the name of the extractor that produced the result.
func (s *Service) extractSkills(ctx context.Context, content []byte, mimeType string) ([]kernel.Skill, string, error) {
	var lastErr error
	lastName := ""

	for _, ex := range s.extractors {
		found, err := ex.Extract(ctx, content, mimeType)
		if err != nil {
			logx.Warnf("Skill extractor %s failed, trying next: %v", ex.Name(), err)
			lastErr, lastName = err, ex.Name()
			continue
		}
		return normalizeSkills(found), ex.Name(), nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no skill extractor accepts %s", mimeType)
	}
	return nil, lastName, analysis.ErrRegistry.NewWithCause(analysis.CodeExtractionFailed, lastErr).
		WithDetail("mime_type", mimeType)
}

// handleJobError handles job processing errors with retry logic
func (s *Service) handleJobError(ctx context.Context, job *analysis.ProcessingJob, a *analysis.Analysis, errorType, extractor string, err error, started time.Time) error {
	job.AttemptCount++
	job.ErrorMessage = fmt.Sprintf("%s: %v", errorType, err)
	if extractor == "" {
		extractor = "none"
	}

	if job.CanRetry() {
		retryDelay := job.RetryDelay()

		logx.Warnf("Analysis job failed, will retry: JobID=%s, Attempt=%d/%d, Delay=%s, Error=%s",
			job.ID, job.AttemptCount, job.MaxAttempts, retryDelay, errorType)

		queueErr := s.queue.EnqueueDelayed(ctx, job.ID, job, retryDelay)
		if queueErr == nil {
			a.Status = analysis.StatusPending
			a.ErrorMessage = errorType + " (will retry)"
			a.UpdatedAt = time.Now()
			if updateErr := s.repo.Update(ctx, a); updateErr != nil {
				logx.Errorf("Failed to update analysis %s for retry: %v", a.ID, updateErr)
			}

			metrics.RecordAnalysisProcessed(extractor, "retry", time.Since(started).Seconds())
			return errx.Wrap(err, "analysis attempt failed", errx.TypeExternal).
				WithDetail("job_id", job.ID).
				WithDetail("error_type", errorType).
				WithDetail("will_retry", true).
				WithDetail("attempt", job.AttemptCount)
		}
		logx.Errorf("Failed to enqueue analysis job %s for retry: %v", job.ID, queueErr)
	}

	logx.Errorf("Analysis permanently failed: AnalysisID=%s, Error=%s, Attempts=%d/%d",
		a.ID, errorType, job.AttemptCount, job.MaxAttempts)

	a.Fail(errorType, time.Since(started))
	if updateErr := s.repo.Update(ctx, a); updateErr != nil {
		logx.Errorf("Failed to mark analysis %s as failed: %v", a.ID, updateErr)
	}

	metrics.RecordAnalysisProcessed(extractor, string(analysis.StatusFailed), time.Since(started).Seconds())
	return errx.Wrap(err, "analysis failed", errx.TypeExternal).
		WithDetail("job_id", job.ID).
		WithDetail("error_type", errorType).
		WithDetail("final_attempt", job.AttemptCount)
}

// ============================================================================
// Helper Functions
// ============================================================================

func normalizeSkills(found []kernel.Skill) []kernel.Skill {
	seen := make(map[string]bool, len(found))
	out := make([]kernel.Skill, 0, len(found))
	for _, sk := range found {
		sk.Name = skills.Normalize(string(sk.Name))
		if sk.Name == "" || seen[sk.Name.Key()] {
			continue
		}
		seen[sk.Name.Key()] = true
		if !sk.Level.IsValid() {
			sk.Level = kernel.SkillLevelIntermediate
		}
		if sk.Category == "" || sk.Category == kernel.CategoryOther {
			sk.Category = skills.CategoryOf(sk.Name)
		}
		out = append(out, sk)
	}
	return out
}

func toRecommendations(recs []skills.Recommendation) []analysis.Recommendation {
	out := make([]analysis.Recommendation, len(recs))
	for i, r := range recs {
		out[i] = analysis.Recommendation{Skill: r.Skill, Priority: r.Priority, Reason: r.Reason}
	}
	return out
}
