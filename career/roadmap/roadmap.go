package roadmap

import (
	"crypto/rand"
	"encoding/hex"
	"math"
	"time"

	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

// shareTokenBytes is the entropy of a share token (128 bits)
const shareTokenBytes = 16

// Milestone is the smallest trackable unit of a roadmap
type Milestone struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Skills          []kernel.SkillName `json:"skills"`
	Resources       []Resource         `json:"resources"`
	EstimatedTime   string             `json:"estimated_time"`
	Order           int                `json:"order"`
	IsCompleted     bool               `json:"is_completed"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	StartedAt       *time.Time         `json:"started_at,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	RequiresProject bool               `json:"requires_project"`
	ProjectIdea     *string            `json:"project_idea,omitempty"`
}

// Phase is an ordered, themed group of milestones
type Phase struct {
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Order             int         `json:"order"`
	Milestones        []Milestone `json:"milestones"`
	EstimatedDuration string      `json:"estimated_duration"`
	Color             string      `json:"color"`
	Icon              string      `json:"icon"`
	IsCompleted       bool        `json:"is_completed"`
	CompletedAt       *time.Time  `json:"completed_at,omitempty"`
}

// Roadmap is the aggregate root of a user's learning plan
type Roadmap struct {
	ID                   kernel.RoadmapID  `db:"id" json:"id"`
	UserID               kernel.UserID     `db:"user_id" json:"user_id"`
	AnalysisID           kernel.AnalysisID `db:"analysis_id" json:"analysis_id"`
	TargetRole           kernel.RoleID     `db:"target_role" json:"target_role"`
	TargetRoleLabel      string            `db:"target_role_label" json:"target_role_label"`
	Title                string            `db:"title" json:"title"`
	Description          string            `db:"description" json:"description"`
	Phases               []Phase           `db:"phases" json:"phases"`
	TotalEstimatedTime   string            `db:"total_estimated_time" json:"total_estimated_time"`
	EstimatedWeeks       int               `db:"estimated_weeks" json:"estimated_weeks"`
	Progress             int               `db:"progress" json:"progress"`
	CurrentPhase         int               `db:"current_phase" json:"current_phase"`
	CurrentMilestone     int               `db:"current_milestone" json:"current_milestone"`
	Status               Status            `db:"status" json:"status"`
	IsSaved              bool              `db:"is_saved" json:"is_saved"`
	IsPublic             bool              `db:"is_public" json:"is_public"`
	ShareToken           *string           `db:"share_token" json:"share_token,omitempty"`
	Customizations       Customizations    `db:"customizations" json:"customizations"`
	StartDate            *time.Time        `db:"start_date" json:"start_date,omitempty"`
	TargetCompletionDate *time.Time        `db:"target_completion_date" json:"target_completion_date,omitempty"`
	ActualCompletionDate *time.Time        `db:"actual_completion_date" json:"actual_completion_date,omitempty"`
	LastActivityAt       time.Time         `db:"last_activity_at" json:"last_activity_at"`
	Version              int               `db:"version" json:"version"`
	CreatedAt            time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time         `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsOwnedBy checks if the roadmap belongs to userID
func (r *Roadmap) IsOwnedBy(userID kernel.UserID) bool {
	return r.UserID == userID
}

// TotalMilestones counts milestones across all phases
func (r *Roadmap) TotalMilestones() int {
	total := 0
	for _, p := range r.Phases {
		total += len(p.Milestones)
	}
	return total
}

// CompletedMilestones counts completed milestones across all phases
func (r *Roadmap) CompletedMilestones() int {
	done := 0
	for _, p := range r.Phases {
		for _, m := range p.Milestones {
			if m.IsCompleted {
				done++
			}
		}
	}
	return done
}

// Milestone returns the milestone at the given indices
func (r *Roadmap) Milestone(phaseIndex, milestoneIndex int) (*Milestone, error) {
	if phaseIndex < 0 || phaseIndex >= len(r.Phases) {
		return nil, ErrPhaseNotFound().
			WithDetail("phase_index", phaseIndex).
			WithDetail("phase_count", len(r.Phases))
	}
	phase := &r.Phases[phaseIndex]
	if milestoneIndex < 0 || milestoneIndex >= len(phase.Milestones) {
		return nil, ErrMilestoneNotFound().
			WithDetail("phase_index", phaseIndex).
			WithDetail("milestone_index", milestoneIndex).
			WithDetail("milestone_count", len(phase.Milestones))
	}
	return &phase.Milestones[milestoneIndex], nil
}

// CompleteMilestone marks a milestone done and recomputes derived state
func (r *Roadmap) CompleteMilestone(phaseIndex, milestoneIndex int, notes string) error {
	m, err := r.Milestone(phaseIndex, milestoneIndex)
	if err != nil {
		return err
	}

	now := time.Now()
	m.IsCompleted = true
	m.CompletedAt = &now
	if notes != "" {
		m.Notes = notes
	}

	r.touch(now)
	r.Recalculate()
	return nil
}

// MarkIncomplete reopens a milestone and recomputes derived state.
// A completed roadmap stays completed.
func (r *Roadmap) MarkIncomplete(phaseIndex, milestoneIndex int) error {
	m, err := r.Milestone(phaseIndex, milestoneIndex)
	if err != nil {
		return err
	}

	m.IsCompleted = false
	m.CompletedAt = nil

	r.touch(time.Now())
	r.Recalculate()
	return nil
}

// Start activates a draft roadmap
func (r *Roadmap) Start() error {
	now := time.Now()
	if err := r.fire(EventStart, now); err != nil {
		return err
	}

	r.StartDate = &now
	if r.EstimatedWeeks > 0 {
		target := now.AddDate(0, 0, 7*r.EstimatedWeeks)
		r.TargetCompletionDate = &target
	}
	if len(r.Phases) > 0 && len(r.Phases[0].Milestones) > 0 {
		r.Phases[0].Milestones[0].StartedAt = &now
	}
	return nil
}

// Pause suspends an active roadmap
func (r *Roadmap) Pause() error {
	return r.fire(EventPause, time.Now())
}

// Resume reactivates a paused roadmap
func (r *Roadmap) Resume() error {
	return r.fire(EventResume, time.Now())
}

// Abandon gives up on the roadmap; no further status change is possible
func (r *Roadmap) Abandon() error {
	return r.fire(EventAbandon, time.Now())
}

// GenerateShareToken replaces the share token with a new random one,
// revoking any previously issued link
func (r *Roadmap) GenerateShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", ErrShareTokenFailed().WithCause(err)
	}

	token := hex.EncodeToString(buf)
	r.ShareToken = &token
	r.UpdatedAt = time.Now()
	return token, nil
}

// SetVisibility toggles public listing of the roadmap
func (r *Roadmap) SetVisibility(isPublic bool) {
	r.IsPublic = isPublic
	r.UpdatedAt = time.Now()
}

// Save bookmarks the roadmap
func (r *Roadmap) Save() {
	r.IsSaved = true
	r.UpdatedAt = time.Now()
}

// Unsave removes the bookmark
func (r *Roadmap) Unsave() {
	r.IsSaved = false
	r.UpdatedAt = time.Now()
}

// Recalculate derives phase completion, progress, completion status and the
// current position from the milestone flags. Every phase is recomputed.
func (r *Roadmap) Recalculate() {
	now := time.Now()
	completed, total := 0, 0

	for i := range r.Phases {
		phase := &r.Phases[i]
		phaseDone := true
		for _, m := range phase.Milestones {
			total++
			if m.IsCompleted {
				completed++
			} else {
				phaseDone = false
			}
		}

		phase.IsCompleted = phaseDone
		if phaseDone && phase.CompletedAt == nil {
			at := now
			phase.CompletedAt = &at
		}
	}

	r.Progress = progressPercent(completed, total)

	// completion guard
	if r.Progress == 100 && r.Status.CanTransition(EventComplete) {
		r.Status = StatusCompleted
		r.ActualCompletionDate = &now
	}

	r.updateCurrentPosition()
}

// ============================================================================
// Helper Functions
// ============================================================================

func (r *Roadmap) fire(event Event, now time.Time) error {
	next, ok := r.Status.Next(event)
	if !ok {
		return ErrInvalidTransition().
			WithDetail("current_status", r.Status).
			WithDetail("event", event)
	}
	r.Status = next
	r.touch(now)
	return nil
}

func (r *Roadmap) touch(now time.Time) {
	r.LastActivityAt = now
	r.UpdatedAt = now
}

// updateCurrentPosition points at the first incomplete milestone, or pins to
// the last milestone of the last phase when none remain
func (r *Roadmap) updateCurrentPosition() {
	for i, phase := range r.Phases {
		for j, m := range phase.Milestones {
			if !m.IsCompleted {
				r.CurrentPhase = i
				r.CurrentMilestone = j
				return
			}
		}
	}

	if len(r.Phases) == 0 {
		r.CurrentPhase, r.CurrentMilestone = 0, 0
		return
	}
	r.CurrentPhase = len(r.Phases) - 1
	r.CurrentMilestone = max(len(r.Phases[r.CurrentPhase].Milestones)-1, 0)
}

func progressPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
