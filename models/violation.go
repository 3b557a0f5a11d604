package models

// Severity classifies how serious a single violation is.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// BaseRiskScore maps a severity to its fixed per-violation risk score.
// Unrecognized severities degrade to the Medium score rather than failing.
func (s Severity) BaseRiskScore() float64 {
	switch s {
	case SeverityCritical:
		return 9.0
	case SeverityHigh:
		return 7.0
	case SeverityMedium:
		return 5.0
	case SeverityLow:
		return 3.0
	default:
		return 5.0
	}
}

// AggregationWeight is the weight a violation of this severity carries in
// the overall severity-weighted risk mean.
func (s Severity) AggregationWeight() float64 {
	switch s {
	case SeverityCritical:
		return 1.0
	case SeverityHigh:
		return 0.8
	case SeverityMedium:
		return 0.6
	case SeverityLow:
		return 0.4
	default:
		return 0.5
	}
}

// SourceCitation is a validated pointer from a violation to the exact
// regulation text supporting a cited article. Citations are only ever
// constructed by the citation validator from candidate text that
// demonstrably contains the cited reference; they are never built from
// unverified model output.
type SourceCitation struct {
	Reference      string  `json:"reference"` // e.g. "Article 6(1)(a)"
	QuotedText     string  `json:"quoted_text"`
	SourceDocument string  `json:"source_document"`
	Context        string  `json:"context"`
	RelevanceScore float64 `json:"relevance_score"` // in [0,1]
}

// Violation is a structured compliance finding parsed from model output,
// enriched in place by the citation validator and remediation mapper, and
// immutable once its assessment is returned.
type Violation struct {
	Category        string   `json:"category"`
	Severity        Severity `json:"severity"`
	Articles        []string `json:"articles"`
	Description     string   `json:"description"`
	Evidence        string   `json:"evidence"`
	HighlightedText string   `json:"highlighted_text,omitempty"`
	Recommendation  string   `json:"recommendation"`
	RiskScore       float64  `json:"risk_score"` // in [0,10]

	// ParseFallback marks the synthesized violation emitted when no
	// structured blocks could be parsed from the model output. Fallback
	// findings require manual review and must never be mistaken for a
	// genuine finding.
	ParseFallback bool `json:"parse_fallback,omitempty"`

	Citations   []SourceCitation     `json:"citations,omitempty"`
	Remediation *RemediationGuidance `json:"remediation,omitempty"`
}
