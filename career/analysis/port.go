package analysis

import (
	"context"
	"time"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

type Repository interface {
	// Create stores a new analysis
	Create(ctx context.Context, a *Analysis) error

	// Update overwrites an existing analysis
	Update(ctx context.Context, a *Analysis) error

	// GetByID retrieves an analysis by ID
	GetByID(ctx context.Context, id kernel.AnalysisID) (*Analysis, error)

	// FindRecentCompleted returns the newest completed analysis of the same file
	// for the same user and role created after since
	FindRecentCompleted(ctx context.Context, userID kernel.UserID, fileHash string, role kernel.RoleID, since time.Time) (*Analysis, error)

	// ListByUser retrieves a user's analyses, newest first
	ListByUser(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[Analysis], error)

	// Delete removes an analysis
	Delete(ctx context.Context, id kernel.AnalysisID) error

	// StatsByUser aggregates a user's analyses
	StatsByUser(ctx context.Context, userID kernel.UserID) (*UserStats, error)
}

// JobQueue defines the interface for job queue operations
type JobQueue interface {
	// Enqueue adds a job to the queue
	Enqueue(ctx context.Context, jobID kernel.JobID, payload any) error

	// Dequeue gets a job from the queue (blocking with timeout)
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)

	// EnqueueDelayed schedules a job for later processing (for retries)
	EnqueueDelayed(ctx context.Context, jobID kernel.JobID, payload any, delay time.Duration) error

	// MoveDelayedToReady moves delayed jobs that are ready to the main queue
	MoveDelayedToReady(ctx context.Context) (int, error)

	// GetQueueSize returns the number of jobs in the queue
	GetQueueSize(ctx context.Context) (int64, error)

	// GetDelayedQueueSize returns the number of delayed jobs
	GetDelayedQueueSize(ctx context.Context) (int64, error)
}

// SkillExtractor pulls skills out of a resume document
type SkillExtractor interface {
	// Name identifies the extractor in logs and metrics
	Name() string

	// Extract returns the skills found in content
	Extract(ctx context.Context, content []byte, contentType string) ([]kernel.Skill, error)
}
