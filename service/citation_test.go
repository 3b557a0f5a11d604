package service

import (
	"regexp"
	"strings"
	"testing"

	"gdprlens-backend/models"
)

func tieredCandidate(id, text string, score float64) models.Candidate {
	c := candidate(id, text)
	tier := models.TierGood
	c.RerankScore = &score
	c.Tier = &tier
	return c
}

func newTestValidator() *CitationValidator {
	return NewCitationValidator(DefaultPipelineConfig())
}

func TestValidate_ExactArticleMatch(t *testing.T) {
	candidates := []models.Candidate{
		tieredCandidate("c1", "Article 6: Processing shall be lawful only if and to the extent that at least one of the following applies", 0.9),
	}
	v := &models.Violation{Articles: []string{"Article 6"}}

	citations := newTestValidator().Validate(v, candidates)

	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	c := citations[0]
	if c.Reference != "Article 6" {
		t.Errorf("reference = %q", c.Reference)
	}
	if c.SourceDocument != "GDPR" {
		t.Errorf("source document = %q", c.SourceDocument)
	}
	if c.RelevanceScore != 0.9 {
		t.Errorf("relevance = %v", c.RelevanceScore)
	}
	if !strings.Contains(c.QuotedText, "Processing shall be lawful") {
		t.Errorf("quote = %q", c.QuotedText)
	}
}

func TestValidate_NumberBoundary(t *testing.T) {
	// "Article 17" text must not back an "Article 1" or "Article 7" reference.
	candidates := []models.Candidate{
		tieredCandidate("c1", "Article 17: The data subject shall have the right to obtain erasure of personal data concerning him or her", 0.9),
	}

	for _, ref := range []string{"Article 1", "Article 7"} {
		v := &models.Violation{Articles: []string{ref}}
		if citations := newTestValidator().Validate(v, candidates); len(citations) != 0 {
			t.Errorf("reference %q matched Article 17 text: %+v", ref, citations)
		}
	}

	v := &models.Violation{Articles: []string{"Article 17"}}
	if citations := newTestValidator().Validate(v, candidates); len(citations) != 1 {
		t.Errorf("exact reference did not match: %+v", citations)
	}
}

func TestValidate_RecitalOnlyTextRejected(t *testing.T) {
	candidates := []models.Candidate{
		tieredCandidate("c1", "Recital 40: In order for processing to be lawful, personal data should be processed on a basis of consent 6", 0.9),
	}
	v := &models.Violation{Articles: []string{"Article 6"}}

	if citations := newTestValidator().Validate(v, candidates); len(citations) != 0 {
		t.Errorf("recital-only text backed an article reference: %+v", citations)
	}
}

func TestValidate_UntieredCandidateRejected(t *testing.T) {
	c := candidate("c1", "Article 6: Processing shall be lawful only with a valid legal basis for the operation")
	c.BaseScore = 0.9
	v := &models.Violation{Articles: []string{"Article 6"}}

	if citations := newTestValidator().Validate(v, []models.Candidate{c}); len(citations) != 0 {
		t.Errorf("untiered candidate produced a citation: %+v", citations)
	}
}

func TestValidate_ScoreFloor(t *testing.T) {
	candidates := []models.Candidate{
		tieredCandidate("c1", "Article 6: Processing shall be lawful only with a valid legal basis for the operation", 0.01),
	}
	v := &models.Violation{Articles: []string{"Article 6"}}

	if citations := newTestValidator().Validate(v, candidates); len(citations) != 0 {
		t.Errorf("candidate below the score floor produced a citation: %+v", citations)
	}
}

func TestValidate_PrefersRerankedOverBaseScore(t *testing.T) {
	reranked := tieredCandidate("reranked", "Article 6: Processing shall be lawful only if consent was freely given by the data subject", 0.2)
	plain := candidate("plain", "Article 6: Processing shall be lawful under the conditions set out in this regulation")
	plain.BaseScore = 0.99
	tier := models.TierGood
	plain.Tier = &tier

	v := &models.Violation{Articles: []string{"Article 6"}}
	citations := newTestValidator().Validate(v, []models.Candidate{plain, reranked})

	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	if !strings.Contains(citations[0].QuotedText, "freely given") {
		t.Errorf("citation built from %q, want the reranked candidate", citations[0].QuotedText)
	}
}

func TestValidate_CapsReferences(t *testing.T) {
	text := "Article 5, Article 6, Article 7 and Article 13 all apply to the processing described here in detail"
	candidates := []models.Candidate{tieredCandidate("c1", text, 0.9)}
	v := &models.Violation{Articles: []string{"Article 5", "Article 6", "Article 7", "Article 13"}}

	citations := newTestValidator().Validate(v, candidates)

	if len(citations) != DefaultPipelineConfig().MaxReferencesPerViolation {
		t.Errorf("got %d citations, want %d", len(citations), DefaultPipelineConfig().MaxReferencesPerViolation)
	}
}

func TestValidate_UnbackedReferenceOmitted(t *testing.T) {
	candidates := []models.Candidate{
		tieredCandidate("c1", "Article 6: Processing shall be lawful only with a valid legal basis for the operation", 0.9),
	}
	v := &models.Violation{Articles: []string{"Article 6", "Article 99"}}

	citations := newTestValidator().Validate(v, candidates)

	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	if citations[0].Reference != "Article 6" {
		t.Errorf("reference = %q", citations[0].Reference)
	}
}

func TestValidate_EveryCitationBackedByText(t *testing.T) {
	candidates := []models.Candidate{
		tieredCandidate("c1", "Article 6: Processing shall be lawful only with a valid legal basis for the operation", 0.9),
		tieredCandidate("c2", "Article 17: The data subject shall have the right to obtain erasure without undue delay", 0.8),
	}
	v := &models.Violation{Articles: []string{"Article 6", "Article 17"}}

	citations := newTestValidator().Validate(v, candidates)

	for _, c := range citations {
		num := regexp.MustCompile(`\d+`).FindString(c.Reference)
		backing := regexp.MustCompile(`(?i)article\s+` + num + `\b`)
		found := false
		for _, cand := range candidates {
			if cand.SourceDocument == c.SourceDocument && backing.MatchString(cand.Text) {
				found = true
			}
		}
		if !found {
			t.Errorf("citation %q has no backing candidate text", c.Reference)
		}
	}
}

func TestClipClause_SentenceBoundary(t *testing.T) {
	s := "the controller shall implement appropriate technical and organisational measures. Further provisions follow here."
	got := clipClause(s, 300)
	if strings.Contains(got, "Further provisions") {
		t.Errorf("clause not cut at sentence boundary: %q", got)
	}
	if !strings.HasSuffix(got, "measures") {
		t.Errorf("clause = %q", got)
	}
}

func TestClipClause_ShortTextKeptWhole(t *testing.T) {
	s := "short clause with no terminator"
	if got := clipClause(s, 300); got != s {
		t.Errorf("got %q, want unchanged input", got)
	}
}
