package analysis

import (
	"time"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

const DefaultMaxAttempts = 3

// ProcessingJob is the queue payload for one analysis run
type ProcessingJob struct {
	ID           kernel.JobID      `json:"id"`
	AnalysisID   kernel.AnalysisID `json:"analysis_id"`
	UserID       kernel.UserID     `json:"user_id"`
	FilePath     string            `json:"file_path"`
	MimeType     string            `json:"mime_type"`
	TargetRole   kernel.RoleID     `json:"target_role"`
	AttemptCount int               `json:"attempt_count"`
	MaxAttempts  int               `json:"max_attempts"`
	ErrorMessage string            `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// CanRetry reports whether another attempt is allowed
func (j *ProcessingJob) CanRetry() bool {
	return j.AttemptCount < j.MaxAttempts
}

// RetryDelay is the exponential backoff before the next attempt
func (j *ProcessingJob) RetryDelay() time.Duration {
	return time.Duration(1<<j.AttemptCount) * time.Minute
}
