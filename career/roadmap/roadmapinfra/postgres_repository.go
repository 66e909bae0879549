package roadmapinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresRoadmapRepository struct {
	db *sqlx.DB
}

func NewPostgresRoadmapRepository(db *sqlx.DB) roadmap.Repository {
	return &PostgresRoadmapRepository{db: db}
}

// dbRoadmap is the database model; phases and customizations are JSONB
type dbRoadmap struct {
	ID                   string          `db:"id"`
	UserID               string          `db:"user_id"`
	AnalysisID           string          `db:"analysis_id"`
	TargetRole           string          `db:"target_role"`
	TargetRoleLabel      string          `db:"target_role_label"`
	Title                string          `db:"title"`
	Description          string          `db:"description"`
	Phases               json.RawMessage `db:"phases"`
	TotalEstimatedTime   string          `db:"total_estimated_time"`
	EstimatedWeeks       int             `db:"estimated_weeks"`
	Progress             int             `db:"progress"`
	CurrentPhase         int             `db:"current_phase"`
	CurrentMilestone     int             `db:"current_milestone"`
	Status               string          `db:"status"`
	IsSaved              bool            `db:"is_saved"`
	IsPublic             bool            `db:"is_public"`
	ShareToken           *string         `db:"share_token"`
	Customizations       json.RawMessage `db:"customizations"`
	StartDate            *time.Time      `db:"start_date"`
	TargetCompletionDate *time.Time      `db:"target_completion_date"`
	ActualCompletionDate *time.Time      `db:"actual_completion_date"`
	LastActivityAt       time.Time       `db:"last_activity_at"`
	Version              int             `db:"version"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

const roadmapColumns = `
	id, user_id, analysis_id, target_role, target_role_label, title, description,
	phases, total_estimated_time, estimated_weeks,
	progress, current_phase, current_milestone, status,
	is_saved, is_public, share_token, customizations,
	start_date, target_completion_date, actual_completion_date, last_activity_at,
	version, created_at, updated_at`

// Create persists a new roadmap at version 1
func (r *PostgresRoadmapRepository) Create(ctx context.Context, rm *roadmap.Roadmap) error {
	query := `
		INSERT INTO roadmaps (` + roadmapColumns + `)
		VALUES (
			:id, :user_id, :analysis_id, :target_role, :target_role_label, :title, :description,
			:phases, :total_estimated_time, :estimated_weeks,
			:progress, :current_phase, :current_milestone, :status,
			:is_saved, :is_public, :share_token, :customizations,
			:start_date, :target_completion_date, :actual_completion_date, :last_activity_at,
			:version, :created_at, :updated_at
		)
	`

	rm.Version = 1
	row, err := fromEntity(rm)
	if err != nil {
		return fmt.Errorf("convert roadmap: %w", err)
	}

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return roadmap.ErrRoadmapAlreadyExists().
				WithDetail("analysis_id", rm.AnalysisID.String()).
				WithCause(err)
		}
		return fmt.Errorf("create roadmap: %w", err)
	}
	return nil
}

// Update writes every mutable column guarded by the version the caller read
func (r *PostgresRoadmapRepository) Update(ctx context.Context, rm *roadmap.Roadmap) error {
	query := `
		UPDATE roadmaps SET
			phases = $3,
			progress = $4,
			current_phase = $5,
			current_milestone = $6,
			status = $7,
			is_saved = $8,
			is_public = $9,
			share_token = $10,
			customizations = $11,
			start_date = $12,
			target_completion_date = $13,
			actual_completion_date = $14,
			last_activity_at = $15,
			updated_at = $16,
			version = version + 1
		WHERE id = $1 AND version = $2
	`

	row, err := fromEntity(rm)
	if err != nil {
		return fmt.Errorf("convert roadmap: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query,
		row.ID, row.Version,
		row.Phases, row.Progress, row.CurrentPhase, row.CurrentMilestone, row.Status,
		row.IsSaved, row.IsPublic, row.ShareToken, row.Customizations,
		row.StartDate, row.TargetCompletionDate, row.ActualCompletionDate,
		row.LastActivityAt, row.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("share token collision on roadmap %s: %w", rm.ID, err)
		}
		return fmt.Errorf("update roadmap: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM roadmaps WHERE id = $1)`, row.ID); err != nil {
			return fmt.Errorf("check roadmap exists: %w", err)
		}
		if !exists {
			return roadmap.ErrRoadmapNotFound().WithDetail("roadmap_id", row.ID)
		}
		return roadmap.ErrConcurrentModification().
			WithDetail("roadmap_id", row.ID).
			WithDetail("version", rm.Version)
	}

	rm.Version++
	return nil
}

// GetByID retrieves a roadmap by ID
func (r *PostgresRoadmapRepository) GetByID(ctx context.Context, id kernel.RoadmapID) (*roadmap.Roadmap, error) {
	query := `SELECT ` + roadmapColumns + ` FROM roadmaps WHERE id = $1`
	return r.getOne(ctx, query, id.String())
}

// GetByUserAndAnalysis retrieves the roadmap generated from an analysis
func (r *PostgresRoadmapRepository) GetByUserAndAnalysis(ctx context.Context, userID kernel.UserID, analysisID kernel.AnalysisID) (*roadmap.Roadmap, error) {
	query := `SELECT ` + roadmapColumns + ` FROM roadmaps WHERE user_id = $1 AND analysis_id = $2`
	return r.getOne(ctx, query, userID.String(), analysisID.String())
}

// GetByShareToken retrieves the roadmap currently holding token
func (r *PostgresRoadmapRepository) GetByShareToken(ctx context.Context, token string) (*roadmap.Roadmap, error) {
	query := `SELECT ` + roadmapColumns + ` FROM roadmaps WHERE share_token = $1`
	return r.getOne(ctx, query, token)
}

// Delete deletes a roadmap by ID
func (r *PostgresRoadmapRepository) Delete(ctx context.Context, id kernel.RoadmapID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roadmaps WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete roadmap: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return roadmap.ErrRoadmapNotFound().WithDetail("roadmap_id", id.String())
	}
	return nil
}

// ListByUser retrieves a user's roadmaps with pagination
func (r *PostgresRoadmapRepository) ListByUser(ctx context.Context, userID kernel.UserID, filter roadmap.ListFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[roadmap.Roadmap], error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID.String()}

	if filter.SavedOnly {
		conditions = append(conditions, "is_saved = TRUE")
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := strings.Join(conditions, " AND ")
	return r.list(ctx, where, "last_activity_at DESC", args, pagination)
}

// ListPublicByRole retrieves public, completed roadmaps for a role
func (r *PostgresRoadmapRepository) ListPublicByRole(ctx context.Context, role kernel.RoleID, pagination kernel.PaginationOptions) (*kernel.Paginated[roadmap.Roadmap], error) {
	where := "target_role = $1 AND is_public = TRUE AND status = $2"
	args := []any{role.String(), string(roadmap.StatusCompleted)}
	return r.list(ctx, where, "actual_completion_date DESC NULLS LAST", args, pagination)
}

// StatsByUser aggregates a user's roadmaps
func (r *PostgresRoadmapRepository) StatsByUser(ctx context.Context, userID kernel.UserID) (*roadmap.UserStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_roadmaps,
			COUNT(*) FILTER (WHERE status = 'active') AS active_roadmaps,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed_roadmaps,
			COALESCE(AVG(progress), 0) AS avg_progress
		FROM roadmaps
		WHERE user_id = $1
	`

	var stats roadmap.UserStats
	if err := r.db.GetContext(ctx, &stats, query, userID.String()); err != nil {
		return nil, fmt.Errorf("roadmap stats: %w", err)
	}
	return &stats, nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func (r *PostgresRoadmapRepository) getOne(ctx context.Context, query string, args ...any) (*roadmap.Roadmap, error) {
	var row dbRoadmap
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roadmap.ErrRoadmapNotFound()
		}
		return nil, fmt.Errorf("get roadmap: %w", err)
	}
	return row.toEntity()
}

func (r *PostgresRoadmapRepository) list(ctx context.Context, where, orderBy string, args []any, pagination kernel.PaginationOptions) (*kernel.Paginated[roadmap.Roadmap], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM roadmaps WHERE `+where, args...); err != nil {
		return nil, fmt.Errorf("count roadmaps: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM roadmaps
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, roadmapColumns, where, orderBy, len(args)+1, len(args)+2)

	var rows []dbRoadmap
	if err := r.db.SelectContext(ctx, &rows, query, append(args, pagination.PageSize, pagination.Offset())...); err != nil {
		return nil, fmt.Errorf("list roadmaps: %w", err)
	}

	items := make([]roadmap.Roadmap, 0, len(rows))
	for i := range rows {
		rm, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, *rm)
	}

	return kernel.NewPaginated(items, pagination, total), nil
}

// ============================================================================
// Mappers
// ============================================================================

func fromEntity(rm *roadmap.Roadmap) (*dbRoadmap, error) {
	phases := rm.Phases
	if phases == nil {
		phases = []roadmap.Phase{}
	}
	phasesJSON, err := json.Marshal(phases)
	if err != nil {
		return nil, fmt.Errorf("marshal phases: %w", err)
	}
	customizationsJSON, err := json.Marshal(rm.Customizations)
	if err != nil {
		return nil, fmt.Errorf("marshal customizations: %w", err)
	}

	return &dbRoadmap{
		ID:                   rm.ID.String(),
		UserID:               rm.UserID.String(),
		AnalysisID:           rm.AnalysisID.String(),
		TargetRole:           rm.TargetRole.String(),
		TargetRoleLabel:      rm.TargetRoleLabel,
		Title:                rm.Title,
		Description:          rm.Description,
		Phases:               phasesJSON,
		TotalEstimatedTime:   rm.TotalEstimatedTime,
		EstimatedWeeks:       rm.EstimatedWeeks,
		Progress:             rm.Progress,
		CurrentPhase:         rm.CurrentPhase,
		CurrentMilestone:     rm.CurrentMilestone,
		Status:               string(rm.Status),
		IsSaved:              rm.IsSaved,
		IsPublic:             rm.IsPublic,
		ShareToken:           rm.ShareToken,
		Customizations:       customizationsJSON,
		StartDate:            rm.StartDate,
		TargetCompletionDate: rm.TargetCompletionDate,
		ActualCompletionDate: rm.ActualCompletionDate,
		LastActivityAt:       rm.LastActivityAt,
		Version:              rm.Version,
		CreatedAt:            rm.CreatedAt,
		UpdatedAt:            rm.UpdatedAt,
	}, nil
}

func (row *dbRoadmap) toEntity() (*roadmap.Roadmap, error) {
	rm := &roadmap.Roadmap{
		ID:                   kernel.NewRoadmapID(row.ID),
		UserID:               kernel.NewUserID(row.UserID),
		AnalysisID:           kernel.NewAnalysisID(row.AnalysisID),
		TargetRole:           kernel.NewRoleID(row.TargetRole),
		TargetRoleLabel:      row.TargetRoleLabel,
		Title:                row.Title,
		Description:          row.Description,
		TotalEstimatedTime:   row.TotalEstimatedTime,
		EstimatedWeeks:       row.EstimatedWeeks,
		Progress:             row.Progress,
		CurrentPhase:         row.CurrentPhase,
		CurrentMilestone:     row.CurrentMilestone,
		Status:               roadmap.Status(row.Status),
		IsSaved:              row.IsSaved,
		IsPublic:             row.IsPublic,
		ShareToken:           row.ShareToken,
		StartDate:            row.StartDate,
		TargetCompletionDate: row.TargetCompletionDate,
		ActualCompletionDate: row.ActualCompletionDate,
		LastActivityAt:       row.LastActivityAt,
		Version:              row.Version,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}

	if len(row.Phases) > 0 {
		if err := json.Unmarshal(row.Phases, &rm.Phases); err != nil {
			return nil, fmt.Errorf("decode phases of roadmap %s: %w", row.ID, err)
		}
	}
	if len(row.Customizations) > 0 {
		if err := json.Unmarshal(row.Customizations, &rm.Customizations); err != nil {
			return nil, fmt.Errorf("decode customizations of roadmap %s: %w", row.ID, err)
		}
	}
	return rm, nil
}
