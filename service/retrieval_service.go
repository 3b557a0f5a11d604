package service

import (
	"context"
	"log"
	"math"
	"regexp"
	"strings"

	"gdprlens-backend/models"
)

// ChunkSearcher is the candidate store consumed by the retrieval
// coordinator. Search must be idempotent for repeated calls with the same
// query.
type ChunkSearcher interface {
	Search(ctx context.Context, query string, topK int, filters map[string]string) ([]models.Candidate, error)
}

// genericComplianceQuery is the fixed third retrieval strategy; it pulls in
// baseline obligations that scenario-specific queries tend to miss.
const genericComplianceQuery = "GDPR data protection compliance requirements and obligations"

var articleMentionRe = regexp.MustCompile(`(?i)article\s+(\d+)`)

// RetrievalCoordinator fans a scenario out into multiple retrieval
// strategies against the candidate store and merges the results into a
// deduplicated candidate set.
type RetrievalCoordinator struct {
	store ChunkSearcher
	cfg   PipelineConfig
}

// NewRetrievalCoordinator creates a retrieval coordinator
func NewRetrievalCoordinator(store ChunkSearcher, cfg PipelineConfig) *RetrievalCoordinator {
	return &RetrievalCoordinator{store: store, cfg: cfg}
}

// Retrieve issues the retrieval strategies for a scenario and merges their
// results. A scenario that matches nothing returns an empty slice, not an
// error; individual strategy failures are logged and skipped.
func (rc *RetrievalCoordinator) Retrieve(ctx context.Context, scenario string) ([]models.Candidate, error) {
	queries := rc.buildQueries(scenario)

	// Each strategy over-fetches so the merged set survives dedup and
	// downstream filtering.
	perQuery := int(math.Ceil(float64(rc.cfg.RetrievalTopN) * rc.cfg.OverFetchFactor))

	var all []models.Candidate
	for _, q := range queries {
		results, err := rc.store.Search(ctx, q, perQuery, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("Warning: retrieval query %q failed: %v", truncate(q, 60), err)
			continue
		}
		all = append(all, results...)
	}

	return mergeCandidates(all, rc.cfg.RetrievalTopN), nil
}

// buildQueries assembles the retrieval strategies: the scenario prefix as a
// semantic query, one query per explicit article mention (capped), and the
// fixed generic compliance query.
func (rc *RetrievalCoordinator) buildQueries(scenario string) []string {
	queries := []string{truncate(strings.TrimSpace(scenario), rc.cfg.ScenarioQueryLimit)}

	seen := make(map[string]bool)
	for _, m := range articleMentionRe.FindAllStringSubmatch(scenario, -1) {
		num := m[1]
		if seen[num] {
			continue
		}
		seen[num] = true
		queries = append(queries, "GDPR Article "+num+" requirements")
		if len(queries) > rc.cfg.MaxArticleQueries {
			break
		}
	}

	return append(queries, genericComplianceQuery)
}

// mergeCandidates deduplicates by chunk ID, preferring candidates whose text
// carries an operative-provision marker. The first pass keeps article
// matches; the second fills remaining slots with any other unseen
// candidates, in original order.
func mergeCandidates(all []models.Candidate, topN int) []models.Candidate {
	seen := make(map[string]bool, len(all))
	merged := make([]models.Candidate, 0, topN)

	for _, c := range all {
		if len(merged) >= topN {
			break
		}
		if c.ChunkID == "" || seen[c.ChunkID] {
			continue
		}
		if !containsOperativeMarker(c.Text) {
			continue
		}
		seen[c.ChunkID] = true
		merged = append(merged, c)
	}

	for _, c := range all {
		if len(merged) >= topN {
			break
		}
		if c.ChunkID == "" || seen[c.ChunkID] {
			continue
		}
		seen[c.ChunkID] = true
		merged = append(merged, c)
	}

	return merged
}

// containsOperativeMarker reports whether the text mentions a binding
// article, as opposed to non-binding recital preamble.
func containsOperativeMarker(text string) bool {
	return strings.Contains(strings.ToLower(text), "article")
}

// containsRecitalMarker reports whether the text mentions a recital.
func containsRecitalMarker(text string) bool {
	return strings.Contains(strings.ToLower(text), "recital")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
