package render

import (
	"bytes"
	"fmt"
	"text/template"

	"gdprlens-backend/models"
)

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`# GDPR Compliance Analysis

**Risk Level:** {{ .OverallLevel }}
**Risk Score:** {{ printf "%.2f" .OverallScore }}/10
**Violations:** {{ len .Violations }} | **Articles Cited:** {{ .ArticlesCited }}
**Analyzed:** {{ .CreatedAt.Format "2006-01-02 15:04 MST" }}

## Scenario

{{ .Scenario }}
{{ if .Violations }}
---

## Violations
{{ range $i, $v := .Violations }}
### {{ inc $i }}. {{ $v.Category }} · {{ $v.Severity }}{{ if $v.ParseFallback }} · NEEDS MANUAL REVIEW{{ end }}

{{ $v.Description }}
{{ if $v.Articles }}
**Articles:** {{ range $j, $a := $v.Articles }}{{ if $j }}, {{ end }}{{ $a }}{{ end }}
{{ end }}{{ if $v.HighlightedText }}
> Problematic text: "{{ $v.HighlightedText }}"
{{ end }}{{ range $v.Citations }}
> {{ .Reference }} ({{ .SourceDocument }}): "{{ .QuotedText }}"
{{ end }}{{ if $v.Recommendation }}
**Recommendation:** {{ $v.Recommendation }}
{{ end }}{{ if $v.Remediation }}
**Remediation ({{ $v.Remediation.Priority }} priority, {{ $v.Remediation.Complexity }}, {{ $v.Remediation.EstimatedEffort }}):**
{{ range $v.Remediation.ImmediateActions }}- {{ . }}
{{ end }}{{ end }}{{ end }}{{ end }}{{ if .ComplianceGaps }}
---

## Compliance Gaps
{{ range .ComplianceGaps }}- {{ . }}
{{ end }}{{ end }}{{ if .Recommendations }}
## Recommendations
{{ range .Recommendations }}- {{ . }}
{{ end }}{{ end }}
---
*Analysis {{ .ID }}{{ if .Model }} | Model: {{ .Model }}{{ end }}*
`))

func (r *markdownRenderer) Render(assessment *models.RiskAssessment) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, assessment); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
