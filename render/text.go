package render

import (
	"bytes"
	"fmt"
	"strings"

	"gdprlens-backend/models"
)

type textRenderer struct{}

// Render produces a flat plain-text summary suitable for terminals and
// log attachment.
func (r *textRenderer) Render(assessment *models.RiskAssessment) ([]byte, error) {
	var b bytes.Buffer

	fmt.Fprintf(&b, "GDPR COMPLIANCE ANALYSIS %s\n", assessment.ID)
	fmt.Fprintf(&b, "Risk: %s (%.2f/10)  Violations: %d  Articles cited: %d\n",
		assessment.OverallLevel, assessment.OverallScore,
		len(assessment.Violations), assessment.ArticlesCited)
	fmt.Fprintf(&b, "Analyzed: %s\n\n", assessment.CreatedAt.Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&b, "Scenario:\n%s\n", assessment.Scenario)

	for i, v := range assessment.Violations {
		fmt.Fprintf(&b, "\n[%d] %s (%s", i+1, v.Category, v.Severity)
		if v.ParseFallback {
			b.WriteString(", needs manual review")
		}
		b.WriteString(")\n")
		if len(v.Articles) > 0 {
			fmt.Fprintf(&b, "    Articles: %s\n", strings.Join(v.Articles, ", "))
		}
		if v.Description != "" {
			fmt.Fprintf(&b, "    %s\n", v.Description)
		}
		for _, c := range v.Citations {
			fmt.Fprintf(&b, "    %s (%s): %q\n", c.Reference, c.SourceDocument, c.QuotedText)
		}
		if v.Recommendation != "" {
			fmt.Fprintf(&b, "    Recommendation: %s\n", v.Recommendation)
		}
	}

	if len(assessment.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range assessment.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}

	return b.Bytes(), nil
}
