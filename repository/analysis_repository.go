package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gdprlens-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository handles database operations for completed analyses.
// An assessment is written exactly once, after it is fully assembled;
// partially built assessments are never persisted.
type AnalysisRepository struct {
	db *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// AnalysisSummary is a list-view projection of a stored assessment.
type AnalysisSummary struct {
	ID              uuid.UUID        `json:"analysis_id"`
	RiskLevel       models.RiskLevel `json:"risk_level"`
	RiskScore       float64          `json:"risk_score"`
	TotalViolations int              `json:"total_violations"`
	CreatedAt       time.Time        `json:"created_at"`
}

// AnalysisStats aggregates stored assessments for the stats endpoint.
type AnalysisStats struct {
	TotalAnalyses   int                      `json:"total_analyses"`
	TotalViolations int                      `json:"total_violations"`
	AverageScore    float64                  `json:"average_risk_score"`
	ByRiskLevel     map[models.RiskLevel]int `json:"by_risk_level"`
	BySeverity      map[models.Severity]int  `json:"violations_by_severity"`
}

// Create stores a completed assessment
func (r *AnalysisRepository) Create(ctx context.Context, assessment *models.RiskAssessment) error {
	payload, err := json.Marshal(assessment)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	query := `
		INSERT INTO analyses (
			id, scenario, risk_level, risk_score, violation_count, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(
		ctx, query,
		assessment.ID,
		assessment.Scenario,
		assessment.OverallLevel,
		assessment.OverallScore,
		len(assessment.Violations),
		payload,
		assessment.CreatedAt,
	)
	return err
}

// GetByID retrieves a stored assessment by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RiskAssessment, error) {
	var payload []byte
	query := `SELECT payload FROM analyses WHERE id = $1`

	if err := r.db.QueryRow(ctx, query, id).Scan(&payload); err != nil {
		return nil, err
	}

	assessment := &models.RiskAssessment{}
	if err := json.Unmarshal(payload, assessment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
	}
	return assessment, nil
}

// List returns the most recent analyses, newest first
func (r *AnalysisRepository) List(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	query := `
		SELECT id, risk_level, risk_score, violation_count, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var summaries []AnalysisSummary
	for rows.Next() {
		var s AnalysisSummary
		if err := rows.Scan(&s.ID, &s.RiskLevel, &s.RiskScore, &s.TotalViolations, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}
	return summaries, nil
}

// Delete removes a stored assessment
func (r *AnalysisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("analysis %s not found", id)
	}
	return nil
}

// Stats aggregates stored analyses
func (r *AnalysisRepository) Stats(ctx context.Context) (*AnalysisStats, error) {
	stats := &AnalysisStats{
		ByRiskLevel: make(map[models.RiskLevel]int),
		BySeverity:  make(map[models.Severity]int),
	}

	query := `
		SELECT COUNT(*), COALESCE(SUM(violation_count), 0), COALESCE(AVG(risk_score), 0)
		FROM analyses`
	err := r.db.QueryRow(ctx, query).Scan(&stats.TotalAnalyses, &stats.TotalViolations, &stats.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate analyses: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT risk_level, COUNT(*) FROM analyses GROUP BY risk_level`)
	if err != nil {
		return nil, fmt.Errorf("failed to group analyses by risk level: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level models.RiskLevel
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan risk level count: %w", err)
		}
		stats.ByRiskLevel[level] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating risk level counts: %w", err)
	}

	// Severity counts come out of the stored payloads so they stay consistent
	// with what clients were shown.
	sevRows, err := r.db.Query(ctx, `
		SELECT v->>'severity', COUNT(*)
		FROM analyses
		CROSS JOIN LATERAL jsonb_array_elements(payload->'violations') AS v
		GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to group violations by severity: %w", err)
	}
	defer sevRows.Close()

	for sevRows.Next() {
		var severity models.Severity
		var count int
		if err := sevRows.Scan(&severity, &count); err != nil {
			return nil, fmt.Errorf("failed to scan severity count: %w", err)
		}
		stats.BySeverity[severity] = count
	}
	if err := sevRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating severity counts: %w", err)
	}

	return stats, nil
}
