package analysis

import (
	"time"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

// AnalyzeResumeRequest - an uploaded resume to check against a role
type AnalyzeResumeRequest struct {
	UserID     kernel.UserID
	TargetRole kernel.RoleID
	FileName   string
	MimeType   string
	Content    []byte
}

// AnalyzeResumeResponse - result of an upload
type AnalyzeResumeResponse struct {
	Analysis *Analysis    `json:"analysis"`
	JobID    kernel.JobID `json:"job_id,omitempty"`
	Cached   bool         `json:"cached"`
}

// AnalysisSummary - history listing entry
type AnalysisSummary struct {
	ID                kernel.AnalysisID `json:"id"`
	FileName          string            `json:"file_name"`
	TargetRole        kernel.RoleID     `json:"target_role"`
	TargetRoleLabel   string            `json:"target_role_label"`
	OverallMatchScore int               `json:"overall_match_score"`
	MatchedCount      int               `json:"matched_count"`
	GapCount          int               `json:"gap_count"`
	Status            Status            `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
}

// Response type alias for paginated history
type PaginatedAnalysesResponse = kernel.Paginated[AnalysisSummary]

// UserStats - aggregate statistics over a user's analyses
type UserStats struct {
	TotalAnalyses     int         `json:"total_analyses" db:"total_analyses"`
	CompletedAnalyses int         `json:"completed_analyses" db:"completed_analyses"`
	AvgMatchScore     float64     `json:"avg_match_score" db:"avg_match_score"`
	BestMatchScore    int         `json:"best_match_score" db:"best_match_score"`
	SkillsIdentified  int         `json:"skills_identified" db:"skills_identified"`
	GapsIdentified    int         `json:"gaps_identified" db:"gaps_identified"`
	RoleBreakdown     []RoleCount `json:"role_breakdown" db:"-"`
}

// RoleCount - number of analyses run against one role
type RoleCount struct {
	TargetRole kernel.RoleID `json:"target_role" db:"target_role"`
	Count      int           `json:"count" db:"count"`
}

// ReanalyzeRequest - re-match an analysis against another role
type ReanalyzeRequest struct {
	TargetRole kernel.RoleID `json:"target_role"`
}

// CompareRequest - analyses to compare side by side
type CompareRequest struct {
	AnalysisIDs []kernel.AnalysisID `json:"analysis_ids"`
}

// ComparisonEntry - one analysis in a comparison
type ComparisonEntry struct {
	ID              kernel.AnalysisID `json:"id"`
	TargetRole      kernel.RoleID     `json:"target_role"`
	TargetRoleLabel string            `json:"target_role_label"`
	MatchScore      int               `json:"match_score"`
	MatchedCount    int               `json:"matched_count"`
	GapCount        int               `json:"gap_count"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Comparison - analyses side by side with the skills they share
type Comparison struct {
	Analyses      []ComparisonEntry  `json:"analyses"`
	BestMatch     ComparisonEntry    `json:"best_match"`
	CommonGaps    []kernel.SkillName `json:"common_gaps"`
	CommonMatches []kernel.SkillName `json:"common_matches"`
}
