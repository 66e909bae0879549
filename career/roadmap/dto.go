package roadmap

import (
	"time"

	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

// GenerateRoadmapRequest - DTO for generating a roadmap from an analysis
type GenerateRoadmapRequest struct {
	AnalysisID     kernel.AnalysisID    `json:"analysis_id" validate:"required"`
	Customizations *CustomizationsInput `json:"customizations,omitempty"`
}

// GenerateRoadmapResponse - result of a generate call
type GenerateRoadmapResponse struct {
	Roadmap  *Roadmap      `json:"roadmap"`
	Existing bool          `json:"existing"`
	Warnings []*errx.Error `json:"warnings,omitempty"`
}

// UpdateProgressRequest - DTO for toggling a milestone
type UpdateProgressRequest struct {
	PhaseIndex     *int   `json:"phase_index"`
	MilestoneIndex *int   `json:"milestone_index"`
	IsCompleted    *bool  `json:"is_completed,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// ProgressResponse - aggregate progress after a milestone mutation
type ProgressResponse struct {
	Progress         int      `json:"progress"`
	CurrentPhase     int      `json:"current_phase"`
	CurrentMilestone int      `json:"current_milestone"`
	Status           Status   `json:"status"`
	Roadmap          *Roadmap `json:"roadmap"`
}

// ShareRoadmapRequest - DTO for (re)issuing a share link
type ShareRoadmapRequest struct {
	IsPublic bool `json:"is_public"`
}

// ShareRoadmapResponse - freshly issued share link
type ShareRoadmapResponse struct {
	ShareToken string `json:"share_token"`
	ShareURL   string `json:"share_url"`
	IsPublic   bool   `json:"is_public"`
}

// RoadmapSummary - compact listing entry
type RoadmapSummary struct {
	ID                 kernel.RoadmapID  `json:"id"`
	AnalysisID         kernel.AnalysisID `json:"analysis_id"`
	TargetRole         kernel.RoleID     `json:"target_role"`
	Title              string            `json:"title"`
	Status             Status            `json:"status"`
	Progress           int               `json:"progress"`
	IsSaved            bool              `json:"is_saved"`
	IsPublic           bool              `json:"is_public"`
	PhaseCount         int               `json:"phase_count"`
	MilestoneCount     int               `json:"milestone_count"`
	TotalEstimatedTime string            `json:"total_estimated_time"`
	LastActivityAt     time.Time         `json:"last_activity_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// Response type alias for paginated roadmap listings
type PaginatedRoadmapsResponse = kernel.Paginated[RoadmapSummary]

// UserStats - aggregate statistics over a user's roadmaps
type UserStats struct {
	TotalRoadmaps     int     `json:"total_roadmaps" db:"total_roadmaps"`
	ActiveRoadmaps    int     `json:"active_roadmaps" db:"active_roadmaps"`
	CompletedRoadmaps int     `json:"completed_roadmaps" db:"completed_roadmaps"`
	AvgProgress       float64 `json:"avg_progress" db:"avg_progress"`
}

// RecommendedResource - a resource suggested for a specific skill
type RecommendedResource struct {
	Skill    kernel.SkillName `json:"skill"`
	Resource Resource         `json:"resource"`
}

// ToSummary converts a roadmap into its listing form
func (r *Roadmap) ToSummary() RoadmapSummary {
	return RoadmapSummary{
		ID:                 r.ID,
		AnalysisID:         r.AnalysisID,
		TargetRole:         r.TargetRole,
		Title:              r.Title,
		Status:             r.Status,
		Progress:           r.Progress,
		IsSaved:            r.IsSaved,
		IsPublic:           r.IsPublic,
		PhaseCount:         len(r.Phases),
		MilestoneCount:     r.TotalMilestones(),
		TotalEstimatedTime: r.TotalEstimatedTime,
		LastActivityAt:     r.LastActivityAt,
		UpdatedAt:          r.UpdatedAt,
	}
}
