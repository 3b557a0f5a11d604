package service

import (
	"regexp"
	"strings"

	"gdprlens-backend/models"
)

// violationField identifies which Violation field a parsed key/value line
// feeds.
type violationField int

const (
	fieldCategory violationField = iota
	fieldSeverity
	fieldArticles
	fieldHighlighted
	fieldDescription
	fieldEvidence
	fieldRecommendation
)

// parserGrammar isolates the acceptable input format from the parser's
// control flow: the block marker, the key synonyms, and the fallback shape
// can evolve without touching the parsing loop.
type parserGrammar struct {
	blockMarker      *regexp.Regexp
	keySynonyms      []keySynonym
	fallbackCategory string
	fallbackNote     string
}

type keySynonym struct {
	substring string
	field     violationField
}

// defaultGrammar matches blocks introduced by "VIOLATION <n>" and the key
// names the violation prompt asks the model to emit, plus the drift variants
// observed in practice. Synonym order matters: first substring match wins,
// so more specific keys come before catch-alls.
func defaultGrammar() parserGrammar {
	return parserGrammar{
		blockMarker: regexp.MustCompile(`(?i)\bviolation\s*#?\s*\d+\s*[:.\-]?`),
		keySynonyms: []keySynonym{
			{"category", fieldCategory},
			{"severity", fieldSeverity},
			{"article", fieldArticles},
			{"reference", fieldArticles},
			{"problematic", fieldHighlighted},
			{"quoted", fieldHighlighted},
			{"highlighted", fieldHighlighted},
			{"evidence", fieldEvidence},
			{"description", fieldDescription},
			{"rationale", fieldDescription},
			{"recommendation", fieldRecommendation},
			{"remediation", fieldRecommendation},
		},
		fallbackCategory: "Compliance Review",
		fallbackNote: "Parsing fallback: the model response could not be parsed into " +
			"structured violations. This finding summarizes the raw analysis and " +
			"requires manual review.",
	}
}

// ViolationParser converts generative-model free text into structured
// Violation records. It never fails and always returns at least one
// violation; unparseable output degrades to a single flagged fallback
// finding.
type ViolationParser struct {
	grammar parserGrammar
	cfg     PipelineConfig
}

// NewViolationParser creates a violation parser with the default grammar
func NewViolationParser(cfg PipelineConfig) *ViolationParser {
	return &ViolationParser{grammar: defaultGrammar(), cfg: cfg}
}

// Parse extracts violations from model output. Structural errors in one
// block never affect the others; a block is dropped only when no category
// could be extracted from it.
func (p *ViolationParser) Parse(output string) []models.Violation {
	blocks := p.grammar.blockMarker.Split(output, -1)

	var violations []models.Violation
	// The segment before the first marker is preamble, not a block.
	for _, block := range blocks[min(1, len(blocks)):] {
		if len(violations) >= p.cfg.MaxViolationBlocks {
			break
		}
		if v, ok := p.parseBlock(block); ok {
			violations = append(violations, v)
		}
	}

	if len(violations) == 0 {
		return []models.Violation{p.fallbackViolation(output)}
	}
	return violations
}

// parseBlock interprets each non-empty "key: value" line of a block by
// case-insensitive keyword matching against the grammar's synonym table.
func (p *ViolationParser) parseBlock(block string) (models.Violation, bool) {
	v := models.Violation{Severity: models.SeverityMedium}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*-"))
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = cleanValue(value)
		if value == "" {
			continue
		}

		field, ok := p.grammar.matchKey(key)
		if !ok {
			continue
		}
		switch field {
		case fieldCategory:
			v.Category = value
		case fieldSeverity:
			v.Severity = parseSeverity(value)
		case fieldArticles:
			v.Articles = parseArticleList(value)
		case fieldHighlighted:
			v.HighlightedText = strings.Trim(value, `"`)
		case fieldDescription:
			v.Description = value
		case fieldEvidence:
			v.Evidence = value
		case fieldRecommendation:
			v.Recommendation = value
		}
	}

	if v.Category == "" {
		return models.Violation{}, false
	}
	if v.Evidence == "" {
		v.Evidence = v.Description
	}
	v.RiskScore = v.Severity.BaseRiskScore()
	return v, true
}

func (g parserGrammar) matchKey(key string) (violationField, bool) {
	key = strings.ToLower(key)
	for _, syn := range g.keySynonyms {
		if strings.Contains(key, syn.substring) {
			return syn.field, true
		}
	}
	return 0, false
}

// cleanValue strips markdown bold markers and stray asterisks the model
// tends to wrap values in.
func cleanValue(value string) string {
	value = strings.ReplaceAll(value, "**", "")
	return strings.Trim(strings.TrimSpace(value), "* ")
}

func parseSeverity(value string) models.Severity {
	switch v := strings.ToLower(value); {
	case strings.Contains(v, "critical"):
		return models.SeverityCritical
	case strings.Contains(v, "high"):
		return models.SeverityHigh
	case strings.Contains(v, "medium"):
		return models.SeverityMedium
	case strings.Contains(v, "low"):
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}

var articleTokenRe = regexp.MustCompile(`(?i)(?:article|art\.?)\s*(\d+(?:\([^)]*\))*)|^(\d+(?:\([^)]*\))*)$`)

// parseArticleList tokenizes a reference list on commas and whitespace and
// normalizes each token to "Article N(...)" form. Tokens without a numeric
// identifier are dropped.
func parseArticleList(value string) []string {
	var articles []string
	seen := make(map[string]bool)
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(strings.Trim(strings.TrimSpace(token), ".;"))
		if token == "" {
			continue
		}
		m := articleTokenRe.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		num := m[1]
		if num == "" {
			num = m[2]
		}
		ref := "Article " + num
		if !seen[ref] {
			seen[ref] = true
			articles = append(articles, ref)
		}
	}
	return articles
}

// fallbackViolation synthesizes the single violation returned when nothing
// in the response parsed. It is explicitly flagged so it can never be
// mistaken for a genuine finding.
func (p *ViolationParser) fallbackViolation(output string) models.Violation {
	return models.Violation{
		Category:       p.grammar.fallbackCategory,
		Severity:       models.SeverityMedium,
		Description:    p.grammar.fallbackNote,
		Evidence:       truncate(strings.TrimSpace(output), p.cfg.FallbackEvidenceLimit),
		Recommendation: "Conduct a detailed manual compliance review of this scenario.",
		RiskScore:      models.SeverityMedium.BaseRiskScore(),
		ParseFallback:  true,
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
