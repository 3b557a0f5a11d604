package service

// TierThresholds maps batch-normalized rerank scores to quality tiers.
// A candidate scoring below Marginal is excluded from the reranked set.
// These values are empirically tuned and deliberately configurable; they do
// not generalize beyond the corpus they were tuned on.
type TierThresholds struct {
	Excellent float64
	Good      float64
	Fair      float64
	Marginal  float64
}

// PipelineConfig carries the tunable parameters of the analysis pipeline.
// Zero values are never used directly; construct with DefaultPipelineConfig
// and override fields as needed.
type PipelineConfig struct {
	// Retrieval
	ScenarioQueryLimit int     // chars of scenario used as the semantic query
	MaxArticleQueries  int     // extra queries from explicit article mentions
	RetrievalTopN      int     // merged candidate set size (2x ContextTopK)
	OverFetchFactor    float64 // per-strategy over-fetch, >= 1.5

	// Reranking
	ContextTopK       int // candidates kept for the generation context
	RerankTruncateLen int // chars of candidate text sent to the pair scorer
	Tiers             TierThresholds

	// Parsing
	MaxViolationBlocks    int
	FallbackEvidenceLimit int

	// Citation validation
	MaxReferencesPerViolation int
	CitationScoreFloor        float64 // permissive: rejects only degenerate matches
	CitationQuoteLimit        int
	CitationFallbackQuoteLen  int
}

// DefaultPipelineConfig returns the tuned defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ScenarioQueryLimit: 300,
		MaxArticleQueries:  3,
		RetrievalTopN:      10,
		OverFetchFactor:    1.5,

		ContextTopK:       5,
		RerankTruncateLen: 512,
		Tiers: TierThresholds{
			Excellent: 0.75,
			Good:      0.50,
			Fair:      0.30,
			Marginal:  0.15,
		},

		MaxViolationBlocks:    10,
		FallbackEvidenceLimit: 500,

		MaxReferencesPerViolation: 3,
		CitationScoreFloor:        0.05,
		CitationQuoteLimit:        300,
		CitationFallbackQuoteLen:  200,
	}
}
