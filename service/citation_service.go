package service

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"gdprlens-backend/models"
)

var referenceNumberRe = regexp.MustCompile(`\d+`)

// CitationValidator cross-checks a violation's cited articles against the
// candidate texts that built the generation context. A SourceCitation is
// only ever constructed from text that demonstrably contains the cited
// reference; fuzzy matches are rejected.
type CitationValidator struct {
	cfg PipelineConfig
}

// NewCitationValidator creates a citation validator
func NewCitationValidator(cfg PipelineConfig) *CitationValidator {
	return &CitationValidator{cfg: cfg}
}

// Validate returns the validated citations for a violation. References that
// cannot be backed by candidate text are logged and omitted; a violation
// with zero validated citations is still valid.
func (cv *CitationValidator) Validate(v *models.Violation, candidates []models.Candidate) []models.SourceCitation {
	refs := v.Articles
	if len(refs) > cv.cfg.MaxReferencesPerViolation {
		refs = refs[:cv.cfg.MaxReferencesPerViolation]
	}

	var citations []models.SourceCitation
	for _, ref := range refs {
		citation, ok := cv.validateReference(ref, candidates)
		if !ok {
			log.Printf("Warning: no candidate text backs reference %q; citation omitted", ref)
			continue
		}
		citations = append(citations, citation)
	}
	return citations
}

// validateReference finds the best candidate that exactly contains the
// cited article and builds a citation from it.
func (cv *CitationValidator) validateReference(ref string, candidates []models.Candidate) (models.SourceCitation, bool) {
	num := referenceNumberRe.FindString(ref)
	if num == "" {
		return models.SourceCitation{}, false
	}

	// Exact match on "article <number>" with a word boundary: "Article 1"
	// must not match inside "Article 17".
	articleRe := regexp.MustCompile(`(?i)article\s+` + num + `\b`)

	best := -1
	for i, c := range candidates {
		// Recital-only chunks never back an article reference.
		if containsRecitalMarker(c.Text) && !containsOperativeMarker(c.Text) {
			continue
		}
		if !articleRe.MatchString(c.Text) {
			continue
		}
		if best == -1 || relevanceRank(c) > relevanceRank(candidates[best]) {
			best = i
		}
	}
	if best == -1 {
		return models.SourceCitation{}, false
	}

	c := candidates[best]
	// Candidates reaching this stage already survived reranking; the floor
	// only rejects degenerate zero-confidence matches. Untiered candidates
	// were never classified and are not trusted as citation sources.
	if c.Tier == nil || c.RelevanceScore() < cv.cfg.CitationScoreFloor {
		return models.SourceCitation{}, false
	}

	return models.SourceCitation{
		Reference:      ref,
		QuotedText:     cv.extractQuote(c.Text, articleRe),
		SourceDocument: c.SourceDocument,
		Context:        fmt.Sprintf("Matched Article %s in %s (%s)", num, c.SourceDocument, c.SourceType),
		RelevanceScore: clamp01(c.RelevanceScore()),
	}, true
}

// relevanceRank orders candidates for citation selection, preferring any
// rerank score over any base retrieval score.
func relevanceRank(c models.Candidate) float64 {
	if c.RerankScore != nil {
		return 1 + *c.RerankScore
	}
	return c.BaseScore
}

// extractQuote prefers the clause immediately following the matched
// provision marker, cut at the first sentence boundary past a minimum
// length; it falls back to the leading text of the chunk.
func (cv *CitationValidator) extractQuote(text string, articleRe *regexp.Regexp) string {
	loc := articleRe.FindStringIndex(text)
	if loc != nil {
		rest := strings.TrimLeft(text[loc[1]:], " :.-–\t\n")
		if quote := clipClause(rest, cv.cfg.CitationQuoteLimit); quote != "" {
			return quote
		}
	}
	return truncate(strings.TrimSpace(text), cv.cfg.CitationFallbackQuoteLen)
}

// clipClause cuts at the first sentence terminator after 40 characters,
// bounded by limit.
func clipClause(s string, limit int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for i, r := range s {
		if i > limit {
			return strings.TrimSpace(s[:limit])
		}
		if i >= 40 && (r == '.' || r == ';' || r == '\n') {
			return strings.TrimSpace(s[:i])
		}
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
