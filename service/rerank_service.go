package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"gdprlens-backend/models"
)

// PairScorer scores (query, text) pairs with an external pairwise relevance
// model. Raw scores carry no magnitude guarantee across calls; only the
// relative ordering within one call is trustworthy.
type PairScorer interface {
	ScorePairs(ctx context.Context, query string, texts []string) ([]float64, error)
}

// Reranker re-scores retrieved candidates against the query, normalizes the
// scores within the batch, assigns quality tiers, and truncates to top-k.
type Reranker struct {
	scorer PairScorer
	cfg    PipelineConfig
}

// NewReranker creates a reranker
func NewReranker(scorer PairScorer, cfg PipelineConfig) *Reranker {
	return &Reranker{scorer: scorer, cfg: cfg}
}

// Rerank scores candidates against the query and returns up to topK of
// them, best first. Candidates below the minimal inclusion floor are
// dropped, so fewer than topK may come back. If the scorer fails, the first
// topK candidates are returned in retrieval order with no tiers assigned.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []models.Candidate, topK int) ([]models.Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = truncate(c.Text, r.cfg.RerankTruncateLen)
	}

	raw, err := r.scorer.ScorePairs(ctx, query, texts)
	if err != nil || len(raw) != len(candidates) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("Warning: rerank scoring failed, falling back to retrieval order: %v", err)
		if len(candidates) > topK {
			candidates = candidates[:topK]
		}
		return candidates, nil
	}

	normalized := normalizeScores(raw)

	reranked := make([]models.Candidate, 0, len(candidates))
	for i := range candidates {
		tier, ok := r.classify(normalized[i])
		if !ok {
			continue
		}
		c := candidates[i]
		score := normalized[i]
		c.RerankScore = &score
		c.Tier = &tier
		reranked = append(reranked, c)
	}

	// Stable sort keeps the original retrieval order for equal scores.
	sort.SliceStable(reranked, func(i, j int) bool {
		return *reranked[i].RerankScore > *reranked[j].RerankScore
	})

	if len(reranked) > topK {
		reranked = reranked[:topK]
	}
	return reranked, nil
}

// normalizeScores min-max normalizes a batch of raw scores. A degenerate
// batch where every raw score is equal normalizes to a uniform 0.5.
func normalizeScores(raw []float64) []float64 {
	min, max := raw[0], raw[0]
	for _, s := range raw[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	normalized := make([]float64, len(raw))
	if max == min {
		for i := range normalized {
			normalized[i] = 0.5
		}
		return normalized
	}
	for i, s := range raw {
		normalized[i] = (s - min) / (max - min)
	}
	return normalized
}

// classify maps a normalized score to a quality tier. Scores below the
// Marginal threshold have no tier and are excluded.
func (r *Reranker) classify(score float64) (models.QualityTier, bool) {
	t := r.cfg.Tiers
	switch {
	case score >= t.Excellent:
		return models.TierExcellent, true
	case score >= t.Good:
		return models.TierGood, true
	case score >= t.Fair:
		return models.TierFair, true
	case score >= t.Marginal:
		return models.TierMarginal, true
	default:
		return "", false
	}
}

// HTTPPairScorer calls an external cross-encoder rerank service over HTTP.
type HTTPPairScorer struct {
	endpoint string
	client   *http.Client
}

// NewHTTPPairScorer creates a pair scorer against the given rerank endpoint
func NewHTTPPairScorer(endpoint string) *HTTPPairScorer {
	return &HTTPPairScorer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type rerankResponse struct {
	Scores []float64 `json:"scores"`
}

// ScorePairs posts the query/document pairs to the rerank service and
// returns one raw score per document.
func (s *HTTPPairScorer) ScorePairs(ctx context.Context, query string, texts []string) ([]float64, error) {
	body, err := json.Marshal(rerankRequest{Query: query, Documents: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rerank request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create rerank request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("rerank request failed after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
				return nil, fmt.Errorf("rerank service error: %d", resp.StatusCode)
			}
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("rerank service error after %d attempts: %d", maxRetries, resp.StatusCode)
			}
			continue
		}

		var apiResp rerankResponse
		err = json.NewDecoder(resp.Body).Decode(&apiResp)
		resp.Body.Close()
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to decode rerank response: %w", err)
			}
			continue
		}

		if len(apiResp.Scores) != len(texts) {
			return nil, fmt.Errorf("rerank service returned %d scores for %d documents", len(apiResp.Scores), len(texts))
		}
		return apiResp.Scores, nil
	}

	return nil, fmt.Errorf("rerank request failed after %d attempts", maxRetries)
}
