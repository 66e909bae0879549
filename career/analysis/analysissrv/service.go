package analysissrv

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/internal/office"
	"github.com/Abraxas-365/skillpath/internal/skills"
	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/fsx"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/Abraxas-365/skillpath/pkg/logx"
	"github.com/google/uuid"
)

const (
	// MaxFileSize is the largest resume accepted (10 MiB)
	MaxFileSize = 10 << 20

	// DedupeWindow is how long a completed analysis of the same file is reused
	DedupeWindow = 24 * time.Hour
)

// supportedTypes maps file extensions to their canonical MIME type
var supportedTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".txt":  "text/plain",
	".doc":  office.MimeDoc,
	".docx": office.MimeDocx,
}

// Service runs resume analyses against the role catalog
type Service struct {
	repo       analysis.Repository
	queue      analysis.JobQueue
	files      fsx.FileSystem
	extractors []analysis.SkillExtractor
}

// NewService creates the analysis service. Extractors are tried in order;
// the first one that succeeds wins.
func NewService(
	repo analysis.Repository,
	queue analysis.JobQueue,
	files fsx.FileSystem,
	extractors ...analysis.SkillExtractor,
) *Service {
	return &Service{
		repo:       repo,
		queue:      queue,
		files:      files,
		extractors: extractors,
	}
}

// AnalyzeResume stores the upload and queues it for processing. A completed
// analysis of the same file for the same role from the last day is reused.
func (s *Service) AnalyzeResume(ctx context.Context, req analysis.AnalyzeResumeRequest) (*analysis.AnalyzeResumeResponse, error) {
	role, ok := skills.LookupRole(req.TargetRole)
	if !ok {
		return nil, analysis.ErrRoleNotFound().WithDetail("target_role", req.TargetRole)
	}

	mimeType, err := detectFileType(req.FileName)
	if err != nil {
		return nil, err
	}
	if len(req.Content) == 0 {
		return nil, analysis.ErrEmptyFile().WithDetail("file_name", req.FileName)
	}
	if len(req.Content) > MaxFileSize {
		return nil, analysis.ErrFileTooLarge().
			WithDetail("file_size", len(req.Content)).
			WithDetail("max_size", MaxFileSize)
	}

	sum := md5.Sum(req.Content)
	fileHash := hex.EncodeToString(sum[:])

	cached, err := s.repo.FindRecentCompleted(ctx, req.UserID, fileHash, req.TargetRole, time.Now().Add(-DedupeWindow))
	if err != nil && !errx.IsType(err, errx.TypeNotFound) {
		return nil, errx.Wrap(err, "failed to look up previous analyses", errx.TypeInternal)
	}
	if cached != nil {
		logx.Infof("Reusing analysis %s for user %s", cached.ID, req.UserID)
		return &analysis.AnalyzeResumeResponse{Analysis: cached, Cached: true}, nil
	}

	now := time.Now()
	filePath := s.resumePath(req.UserID, now, strings.ToLower(filepath.Ext(req.FileName)))

	if err := s.files.WriteFile(ctx, filePath, req.Content); err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("file_name", req.FileName)
	}

	a := &analysis.Analysis{
		ID:              kernel.NewAnalysisID(uuid.NewString()),
		UserID:          req.UserID,
		FileName:        req.FileName,
		FileSize:        int64(len(req.Content)),
		MimeType:        mimeType,
		FileHash:        fileHash,
		FilePath:        filePath,
		TargetRole:      role.ID,
		TargetRoleLabel: role.Label,
		Status:          analysis.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		_ = s.files.DeleteFile(context.Background(), filePath)
		return nil, errx.Wrap(err, "failed to create analysis", errx.TypeInternal)
	}

	job := &analysis.ProcessingJob{
		ID:          kernel.NewJobID(uuid.NewString()),
		AnalysisID:  a.ID,
		UserID:      a.UserID,
		FilePath:    filePath,
		MimeType:    mimeType,
		TargetRole:  role.ID,
		MaxAttempts: analysis.DefaultMaxAttempts,
		CreatedAt:   now,
	}

	if err := s.queue.Enqueue(ctx, job.ID, job); err != nil {
		a.Fail("failed to enqueue", 0)
		if updateErr := s.repo.Update(ctx, a); updateErr != nil {
			logx.Errorf("Failed to mark analysis %s as failed: %v", a.ID, updateErr)
		}
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeQueueFailed, err).
			WithDetail("analysis_id", a.ID)
	}

	logx.Infof("Analysis queued: AnalysisID=%s, JobID=%s, Role=%s", a.ID, job.ID, role.ID)

	return &analysis.AnalyzeResumeResponse{Analysis: a, JobID: job.ID}, nil
}

// GetAnalysis returns an analysis owned by userID
func (s *Service) GetAnalysis(ctx context.Context, id kernel.AnalysisID, userID kernel.UserID) (*analysis.Analysis, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, analysis.ErrAnalysisNotFound().WithDetail("analysis_id", id.String())
	}
	if !a.IsOwnedBy(userID) {
		return nil, analysis.ErrAnalysisNotFound().WithDetail("analysis_id", id.String())
	}
	return a, nil
}

// GetCompletedAnalysis returns an analysis owned by userID that finished processing
func (s *Service) GetCompletedAnalysis(ctx context.Context, id kernel.AnalysisID, userID kernel.UserID) (*analysis.Analysis, error) {
	a, err := s.GetAnalysis(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !a.IsCompleted() {
		return nil, analysis.ErrAnalysisNotFound().
			WithDetail("analysis_id", id.String()).
			WithDetail("status", a.Status)
	}
	return a, nil
}

// History lists a user's analyses, newest first
func (s *Service) History(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*analysis.PaginatedAnalysesResponse, error) {
	page, err := s.repo.ListByUser(ctx, userID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list analyses", errx.TypeInternal)
	}

	summaries := make([]analysis.AnalysisSummary, 0, len(page.Items))
	for i := range page.Items {
		summaries = append(summaries, page.Items[i].ToSummary())
	}

	return &kernel.Paginated[analysis.AnalysisSummary]{
		Items: summaries,
		Page:  page.Page,
		Empty: page.Empty,
	}, nil
}

// DeleteAnalysis removes an analysis and its stored file
func (s *Service) DeleteAnalysis(ctx context.Context, id kernel.AnalysisID, userID kernel.UserID) error {
	a, err := s.GetAnalysis(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, a.ID); err != nil {
		return errx.Wrap(err, "failed to delete analysis", errx.TypeInternal)
	}

	if a.FilePath != "" {
		if err := s.files.DeleteFile(ctx, a.FilePath); err != nil {
			logx.Warnf("Failed to delete resume file %s: %v", a.FilePath, err)
		}
	}

	logx.Infof("Analysis deleted: %s", a.ID)
	return nil
}

// Stats aggregates a user's analyses
func (s *Service) Stats(ctx context.Context, userID kernel.UserID) (*analysis.UserStats, error) {
	stats, err := s.repo.StatsByUser(ctx, userID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load analysis stats", errx.TypeInternal)
	}
	return stats, nil
}

// Roles lists the target roles that can be analyzed against
func (s *Service) Roles() []skills.RoleSummary {
	return skills.ListRoles()
}

// ============================================================================
// Helper Functions
// ============================================================================

// resumePath builds resumes/<user>/<year>/<month>/<uuid><ext>
func (s *Service) resumePath(userID kernel.UserID, now time.Time, ext string) string {
	return s.files.Join(
		"resumes",
		userID.String(),
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		uuid.NewString()+ext,
	)
}

func detectFileType(fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if mime, ok := supportedTypes[ext]; ok {
		return mime, nil
	}
	return "", analysis.ErrUnsupportedFileType().
		WithDetail("file_name", fileName).
		WithDetail("supported_types", []string{"pdf", "doc", "docx", "jpg", "jpeg", "png", "txt"})
}
