package repository

import (
	"context"
	"fmt"
	"strings"

	"gdprlens-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RegulationChunkRepository handles database operations for regulation chunks
type RegulationChunkRepository struct {
	db *pgxpool.Pool
}

// NewRegulationChunkRepository creates a new regulation chunk repository
func NewRegulationChunkRepository(db *pgxpool.Pool) *RegulationChunkRepository {
	return &RegulationChunkRepository{db: db}
}

// formatVector formats an embedding vector as a string for pgx
func formatVector(embedding []float64) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// SearchSimilar performs a cosine-similarity search over regulation chunks.
// embedding: query embedding vector (768 dimensions)
// limit: maximum number of chunks to return
// filters: optional metadata column filters; only "source_type" is supported
//
// The returned candidates carry BaseScore = 1 - cosine distance, floored at
// zero, so downstream code can treat higher as better.
func (r *RegulationChunkRepository) SearchSimilar(
	ctx context.Context,
	embedding []float64,
	limit int,
	filters map[string]string,
) ([]models.Candidate, error) {
	if len(embedding) != 768 {
		return nil, fmt.Errorf("embedding must be 768 dimensions, got %d", len(embedding))
	}

	vectorStr := formatVector(embedding)

	where := "TRUE"
	args := []interface{}{vectorStr, limit}
	if st, ok := filters["source_type"]; ok && st != "" {
		where = "source_type = $3"
		args = append(args, st)
	}

	query := fmt.Sprintf(`
		SELECT
			chunk_id,
			chunk_text,
			source_document,
			source_type,
			article_number,
			recital_number,
			metadata,
			embedding <=> $1::vector AS distance
		FROM regulation_chunks
		WHERE %s
		ORDER BY embedding <=> $1::vector
		LIMIT $2`, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query regulation chunks: %w", err)
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var (
			c        models.Candidate
			distance float64
		)
		err := rows.Scan(
			&c.ChunkID,
			&c.Text,
			&c.SourceDocument,
			&c.SourceType,
			&c.ArticleNumber,
			&c.RecitalNumber,
			&c.Metadata,
			&distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan regulation chunk: %w", err)
		}
		c.BaseScore = 1.0 - distance
		if c.BaseScore < 0 {
			c.BaseScore = 0
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating regulation chunks: %w", err)
	}

	return candidates, nil
}

// CountChunks returns the number of indexed chunks, optionally by source type.
func (r *RegulationChunkRepository) CountChunks(ctx context.Context, sourceType string) (int, error) {
	var count int
	var err error
	if sourceType == "" {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM regulation_chunks`).Scan(&count)
	} else {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM regulation_chunks WHERE source_type = $1`, sourceType).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count regulation chunks: %w", err)
	}
	return count, nil
}
