package analysis

import (
	"time"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Recommendation suggests a gap skill to focus on
type Recommendation struct {
	Skill    kernel.SkillName `json:"skill"`
	Priority string           `json:"priority"`
	Reason   string           `json:"reason"`
}

// Analysis is a resume checked against a target role
type Analysis struct {
	ID     kernel.AnalysisID `db:"id" json:"id"`
	UserID kernel.UserID     `db:"user_id" json:"user_id"`

	// Uploaded file
	FileName string `db:"file_name" json:"file_name"`
	FileSize int64  `db:"file_size" json:"file_size"`
	MimeType string `db:"mime_type" json:"mime_type"`
	FileHash string `db:"file_hash" json:"-"`
	FilePath string `db:"file_path" json:"-"`

	TargetRole      kernel.RoleID `db:"target_role" json:"target_role"`
	TargetRoleLabel string        `db:"target_role_label" json:"target_role_label"`

	// Results
	ExtractedSkills   []kernel.Skill   `db:"extracted_skills" json:"extracted_skills"`
	RequiredSkills    []kernel.Skill   `db:"required_skills" json:"required_skills"`
	MatchedSkills     []kernel.Skill   `db:"matched_skills" json:"matched_skills"`
	GapSkills         []kernel.Skill   `db:"gap_skills" json:"gap_skills"`
	Recommendations   []Recommendation `db:"recommendations" json:"recommendations"`
	OverallMatchScore int              `db:"overall_match_score" json:"overall_match_score"`
	Extractor         string           `db:"extractor" json:"extractor,omitempty"`

	Status           Status     `db:"status" json:"status"`
	ProcessingTimeMs int64      `db:"processing_time_ms" json:"processing_time_ms"`
	ErrorMessage     string     `db:"error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// Result is the outcome of skill extraction and matching
type Result struct {
	Extractor       string
	Extracted       []kernel.Skill
	Required        []kernel.Skill
	Matched         []kernel.Skill
	Gaps            []kernel.Skill
	Recommendations []Recommendation
	MatchScore      int
}

// ============================================================================
// Domain Methods
// ============================================================================

func (a *Analysis) IsOwnedBy(userID kernel.UserID) bool {
	return a.UserID == userID
}

func (a *Analysis) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// IsFinished reports whether processing reached a final state
func (a *Analysis) IsFinished() bool {
	return a.Status == StatusCompleted || a.Status == StatusFailed
}

// GapSkillNames returns the gap skills in role order
func (a *Analysis) GapSkillNames() []kernel.SkillName {
	return kernel.SkillNamesOf(a.GapSkills)
}

// MarkProcessing moves a pending analysis into processing
func (a *Analysis) MarkProcessing() error {
	if a.IsFinished() {
		return ErrAlreadyProcessed().
			WithDetail("analysis_id", a.ID.String()).
			WithDetail("status", a.Status)
	}
	a.Status = StatusProcessing
	a.UpdatedAt = time.Now()
	return nil
}

// Complete records the result and the elapsed processing time
func (a *Analysis) Complete(res Result, elapsed time.Duration) {
	now := time.Now()
	a.Extractor = res.Extractor
	a.ExtractedSkills = res.Extracted
	a.RequiredSkills = res.Required
	a.MatchedSkills = res.Matched
	a.GapSkills = res.Gaps
	a.Recommendations = res.Recommendations
	a.OverallMatchScore = res.MatchScore
	a.Status = StatusCompleted
	a.ProcessingTimeMs = elapsed.Milliseconds()
	a.ErrorMessage = ""
	a.CompletedAt = &now
	a.UpdatedAt = now
}

// Fail marks the analysis as permanently failed
func (a *Analysis) Fail(message string, elapsed time.Duration) {
	a.Status = StatusFailed
	a.ErrorMessage = message
	a.ProcessingTimeMs = elapsed.Milliseconds()
	a.UpdatedAt = time.Now()
}

// ToComparisonEntry converts an analysis into its comparison form
func (a *Analysis) ToComparisonEntry() ComparisonEntry {
	return ComparisonEntry{
		ID:              a.ID,
		TargetRole:      a.TargetRole,
		TargetRoleLabel: a.TargetRoleLabel,
		MatchScore:      a.OverallMatchScore,
		MatchedCount:    len(a.MatchedSkills),
		GapCount:        len(a.GapSkills),
		CreatedAt:       a.CreatedAt,
	}
}

// ToSummary converts an analysis into its history form
func (a *Analysis) ToSummary() AnalysisSummary {
	return AnalysisSummary{
		ID:                a.ID,
		FileName:          a.FileName,
		TargetRole:        a.TargetRole,
		TargetRoleLabel:   a.TargetRoleLabel,
		OverallMatchScore: a.OverallMatchScore,
		MatchedCount:      len(a.MatchedSkills),
		GapCount:          len(a.GapSkills),
		Status:            a.Status,
		CreatedAt:         a.CreatedAt,
	}
}
