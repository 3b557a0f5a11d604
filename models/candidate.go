package models

// QualityTier is a discrete relevance bucket assigned after batch-relative
// normalization of rerank scores. Absolute cross-encoder scores on long-form
// regulatory text are not comparable across batches, so tiers are the only
// signal downstream code should treat as meaningful.
type QualityTier string

const (
	TierExcellent QualityTier = "Excellent"
	TierGood      QualityTier = "Good"
	TierFair      QualityTier = "Fair"
	TierMarginal  QualityTier = "Marginal"
)

// Candidate is a retrieved regulation chunk with metadata and relevance
// scores. ChunkID is the stable identity key: a merged candidate set never
// contains two candidates with the same ChunkID.
type Candidate struct {
	ChunkID        string                 `json:"chunk_id"`
	Text           string                 `json:"text"`
	SourceDocument string                 `json:"source_document"`
	SourceType     string                 `json:"source_type"` // "regulation", "guideline", "case_law"
	ArticleNumber  *int                   `json:"article_number,omitempty"`
	RecitalNumber  *int                   `json:"recital_number,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`

	// BaseScore is the retrieval similarity score. RerankScore and Tier are
	// set by the reranker; both stay nil for candidates that were never
	// reranked (e.g. when the rerank model is unavailable).
	BaseScore   float64      `json:"base_score"`
	RerankScore *float64     `json:"rerank_score,omitempty"`
	Tier        *QualityTier `json:"quality_tier,omitempty"`
}

// RelevanceScore returns the strongest available relevance signal,
// preferring the rerank score over the base retrieval score.
func (c Candidate) RelevanceScore() float64 {
	if c.RerankScore != nil {
		return *c.RerankScore
	}
	return c.BaseScore
}
