package analysisinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresAnalysisRepository struct {
	db *sqlx.DB
}

func NewPostgresAnalysisRepository(db *sqlx.DB) analysis.Repository {
	return &PostgresAnalysisRepository{db: db}
}

// dbAnalysis is the database model with JSONB skill columns
type dbAnalysis struct {
	ID                string          `db:"id"`
	UserID            string          `db:"user_id"`
	FileName          string          `db:"file_name"`
	FileSize          int64           `db:"file_size"`
	MimeType          string          `db:"mime_type"`
	FileHash          string          `db:"file_hash"`
	FilePath          string          `db:"file_path"`
	TargetRole        string          `db:"target_role"`
	TargetRoleLabel   string          `db:"target_role_label"`
	ExtractedSkills   json.RawMessage `db:"extracted_skills"`
	RequiredSkills    json.RawMessage `db:"required_skills"`
	MatchedSkills     json.RawMessage `db:"matched_skills"`
	GapSkills         json.RawMessage `db:"gap_skills"`
	Recommendations   json.RawMessage `db:"recommendations"`
	OverallMatchScore int             `db:"overall_match_score"`
	Extractor         string          `db:"extractor"`
	Status            string          `db:"status"`
	ProcessingTimeMs  int64           `db:"processing_time_ms"`
	ErrorMessage      string          `db:"error_message"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
	CompletedAt       *time.Time      `db:"completed_at"`
}

const analysisColumns = `
	id, user_id, file_name, file_size, mime_type, file_hash, file_path,
	target_role, target_role_label,
	extracted_skills, required_skills, matched_skills, gap_skills, recommendations,
	overall_match_score, extractor, status, processing_time_ms, error_message,
	created_at, updated_at, completed_at`

// Create creates a new analysis
func (r *PostgresAnalysisRepository) Create(ctx context.Context, a *analysis.Analysis) error {
	query := `
		INSERT INTO analyses (` + analysisColumns + `)
		VALUES (
			:id, :user_id, :file_name, :file_size, :mime_type, :file_hash, :file_path,
			:target_role, :target_role_label,
			:extracted_skills, :required_skills, :matched_skills, :gap_skills, :recommendations,
			:overall_match_score, :extractor, :status, :processing_time_ms, :error_message,
			:created_at, :updated_at, :completed_at
		)
	`

	row, err := fromEntity(a)
	if err != nil {
		return fmt.Errorf("convert analysis: %w", err)
	}

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("analysis %s already exists: %w", a.ID, err)
		}
		return fmt.Errorf("create analysis: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of an analysis
func (r *PostgresAnalysisRepository) Update(ctx context.Context, a *analysis.Analysis) error {
	query := `
		UPDATE analyses SET
			extracted_skills = :extracted_skills,
			required_skills = :required_skills,
			matched_skills = :matched_skills,
			gap_skills = :gap_skills,
			recommendations = :recommendations,
			overall_match_score = :overall_match_score,
			extractor = :extractor,
			status = :status,
			processing_time_ms = :processing_time_ms,
			error_message = :error_message,
			updated_at = :updated_at,
			completed_at = :completed_at
		WHERE id = :id
	`

	row, err := fromEntity(a)
	if err != nil {
		return fmt.Errorf("convert analysis: %w", err)
	}

	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return analysis.ErrAnalysisNotFound().WithDetail("analysis_id", a.ID.String())
	}
	return nil
}

// GetByID retrieves an analysis by ID
func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id kernel.AnalysisID) (*analysis.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`

	var row dbAnalysis
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, analysis.ErrAnalysisNotFound().WithDetail("analysis_id", id.String())
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return row.toEntity()
}

// FindRecentCompleted returns nil, nil when there is no match
func (r *PostgresAnalysisRepository) FindRecentCompleted(ctx context.Context, userID kernel.UserID, fileHash string, role kernel.RoleID, since time.Time) (*analysis.Analysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM analyses
		WHERE user_id = $1 AND file_hash = $2 AND target_role = $3
		  AND status = $4 AND created_at >= $5
		ORDER BY created_at DESC
		LIMIT 1
	`

	var row dbAnalysis
	err := r.db.GetContext(ctx, &row, query,
		userID.String(), fileHash, role.String(), string(analysis.StatusCompleted), since)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find recent analysis: %w", err)
	}
	return row.toEntity()
}

// ListByUser retrieves a user's analyses with pagination
func (r *PostgresAnalysisRepository) ListByUser(ctx context.Context, userID kernel.UserID, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.Analysis], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM analyses WHERE user_id = $1`, userID.String()); err != nil {
		return nil, fmt.Errorf("count analyses: %w", err)
	}

	query := `
		SELECT ` + analysisColumns + `
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var rows []dbAnalysis
	if err := r.db.SelectContext(ctx, &rows, query, userID.String(), pagination.PageSize, pagination.Offset()); err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	items := make([]analysis.Analysis, 0, len(rows))
	for i := range rows {
		a, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}

	return kernel.NewPaginated(items, pagination, total), nil
}

// Delete removes an analysis
func (r *PostgresAnalysisRepository) Delete(ctx context.Context, id kernel.AnalysisID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return analysis.ErrAnalysisNotFound().WithDetail("analysis_id", id.String())
	}
	return nil
}

// StatsByUser aggregates a user's analyses
func (r *PostgresAnalysisRepository) StatsByUser(ctx context.Context, userID kernel.UserID) (*analysis.UserStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_analyses,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed_analyses,
			COALESCE(AVG(overall_match_score) FILTER (WHERE status = 'completed'), 0) AS avg_match_score,
			COALESCE(MAX(overall_match_score) FILTER (WHERE status = 'completed'), 0) AS best_match_score,
			COALESCE(SUM(jsonb_array_length(extracted_skills)) FILTER (WHERE status = 'completed'), 0) AS skills_identified,
			COALESCE(SUM(jsonb_array_length(gap_skills)) FILTER (WHERE status = 'completed'), 0) AS gaps_identified
		FROM analyses
		WHERE user_id = $1
	`

	var stats analysis.UserStats
	if err := r.db.GetContext(ctx, &stats, query, userID.String()); err != nil {
		return nil, fmt.Errorf("analysis stats: %w", err)
	}

	breakdown := `
		SELECT target_role, COUNT(*) AS count
		FROM analyses
		WHERE user_id = $1
		GROUP BY target_role
		ORDER BY count DESC, target_role
	`
	stats.RoleBreakdown = []analysis.RoleCount{}
	if err := r.db.SelectContext(ctx, &stats.RoleBreakdown, breakdown, userID.String()); err != nil {
		return nil, fmt.Errorf("analysis role breakdown: %w", err)
	}
	return &stats, nil
}

// ============================================================================
// Mappers
// ============================================================================

func fromEntity(a *analysis.Analysis) (*dbAnalysis, error) {
	row := &dbAnalysis{
		ID:                a.ID.String(),
		UserID:            a.UserID.String(),
		FileName:          a.FileName,
		FileSize:          a.FileSize,
		MimeType:          a.MimeType,
		FileHash:          a.FileHash,
		FilePath:          a.FilePath,
		TargetRole:        a.TargetRole.String(),
		TargetRoleLabel:   a.TargetRoleLabel,
		OverallMatchScore: a.OverallMatchScore,
		Extractor:         a.Extractor,
		Status:            string(a.Status),
		ProcessingTimeMs:  a.ProcessingTimeMs,
		ErrorMessage:      a.ErrorMessage,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
		CompletedAt:       a.CompletedAt,
	}

	var err error
	if row.ExtractedSkills, err = marshalList(a.ExtractedSkills); err != nil {
		return nil, err
	}
	if row.RequiredSkills, err = marshalList(a.RequiredSkills); err != nil {
		return nil, err
	}
	if row.MatchedSkills, err = marshalList(a.MatchedSkills); err != nil {
		return nil, err
	}
	if row.GapSkills, err = marshalList(a.GapSkills); err != nil {
		return nil, err
	}
	if row.Recommendations, err = marshalList(a.Recommendations); err != nil {
		return nil, err
	}
	return row, nil
}

func (row *dbAnalysis) toEntity() (*analysis.Analysis, error) {
	a := &analysis.Analysis{
		ID:                kernel.NewAnalysisID(row.ID),
		UserID:            kernel.NewUserID(row.UserID),
		FileName:          row.FileName,
		FileSize:          row.FileSize,
		MimeType:          row.MimeType,
		FileHash:          row.FileHash,
		FilePath:          row.FilePath,
		TargetRole:        kernel.NewRoleID(row.TargetRole),
		TargetRoleLabel:   row.TargetRoleLabel,
		OverallMatchScore: row.OverallMatchScore,
		Extractor:         row.Extractor,
		Status:            analysis.Status(row.Status),
		ProcessingTimeMs:  row.ProcessingTimeMs,
		ErrorMessage:      row.ErrorMessage,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
		CompletedAt:       row.CompletedAt,
	}

	for _, col := range []struct {
		raw  json.RawMessage
		dest any
	}{
		{row.ExtractedSkills, &a.ExtractedSkills},
		{row.RequiredSkills, &a.RequiredSkills},
		{row.MatchedSkills, &a.MatchedSkills},
		{row.GapSkills, &a.GapSkills},
		{row.Recommendations, &a.Recommendations},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return nil, fmt.Errorf("decode analysis %s: %w", row.ID, err)
		}
	}
	return a, nil
}

// marshalList encodes a slice as a JSON array, never null
func marshalList[T any](items []T) (json.RawMessage, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
