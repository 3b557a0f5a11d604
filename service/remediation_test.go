package service

import (
	"testing"

	"gdprlens-backend/models"
)

func TestSelectTemplate_ArticleRulesBeatKeywords(t *testing.T) {
	m := NewRemediationMapper()

	// The category keyword says consent, the article says erasure; the
	// article rule wins.
	got := m.SelectTemplate("Consent Management", []string{"Article 17"})
	if got != "erasure_rights" {
		t.Errorf("template = %q, want erasure_rights", got)
	}
}

func TestSelectTemplate_ArticleNumberExactness(t *testing.T) {
	m := NewRemediationMapper()

	tests := []struct {
		refs []string
		want string
	}{
		{[]string{"Article 7"}, "consent_violation"},
		{[]string{"Article 17"}, "erasure_rights"},
		{[]string{"Article 17(1)"}, "erasure_rights"},
		{[]string{"Article 21"}, "objection_rights"},
		{[]string{"Article 15"}, "access_rights"},
		{[]string{"Article 20"}, "portability_rights"},
		{[]string{"Article 33"}, "data_breach"},
		{[]string{"Article 13"}, "transparency"},
		{[]string{"Article 32"}, "security"},
		{[]string{"Article 44"}, "data_transfer"},
	}

	for _, tt := range tests {
		if got := m.SelectTemplate("", tt.refs); got != tt.want {
			t.Errorf("SelectTemplate(%v) = %q, want %q", tt.refs, got, tt.want)
		}
	}
}

func TestSelectTemplate_KeywordFallback(t *testing.T) {
	m := NewRemediationMapper()

	tests := []struct {
		category string
		want     string
	}{
		{"Consent Management", "consent_violation"},
		{"Data Deletion Practices", "erasure_rights"},
		{"Direct Marketing", "objection_rights"},
		{"Breach Handling", "data_breach"},
		{"Cross-Border Transfer", "data_transfer"},
		{"Something Unrecognized", defaultTemplateKey},
	}

	for _, tt := range tests {
		if got := m.SelectTemplate(tt.category, nil); got != tt.want {
			t.Errorf("SelectTemplate(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestGuidance_DistinctTemplatesForRelatedRights(t *testing.T) {
	m := NewRemediationMapper()

	// Deletion rights and marketing objection fall under the same broad
	// rights category but must produce different guidance.
	erasure := m.Guidance("Data Subject Rights", []string{"Article 17"}, models.SeverityHigh)
	objection := m.Guidance("Data Subject Rights", []string{"Article 21"}, models.SeverityHigh)

	if erasure.TemplateKey == objection.TemplateKey {
		t.Fatalf("both violations resolved to template %q", erasure.TemplateKey)
	}

	actions := make(map[string]bool)
	for _, a := range erasure.ImmediateActions {
		actions[a] = true
	}
	for _, a := range objection.ImmediateActions {
		if actions[a] {
			t.Errorf("immediate action %q shared between erasure and objection templates", a)
		}
	}
}

func TestGuidance_PriorityFollowsSeverity(t *testing.T) {
	m := NewRemediationMapper()

	tests := []struct {
		severity models.Severity
		want     models.RemediationPriority
	}{
		{models.SeverityCritical, models.PriorityCritical},
		{models.SeverityHigh, models.PriorityHigh},
		{models.SeverityMedium, models.PriorityMedium},
		{models.SeverityLow, models.PriorityLow},
		{models.Severity("Unknown"), models.PriorityLow},
	}

	for _, tt := range tests {
		g := m.Guidance("Transparency", []string{"Article 13"}, tt.severity)
		if g.Priority != tt.want {
			t.Errorf("severity %q: priority = %q, want %q", tt.severity, g.Priority, tt.want)
		}
		if g.TemplateKey != "transparency" {
			t.Errorf("severity %q changed template selection to %q", tt.severity, g.TemplateKey)
		}
	}
}

func TestGuidance_DefaultTemplate(t *testing.T) {
	m := NewRemediationMapper()

	g := m.Guidance("Completely Novel Issue", nil, models.SeverityMedium)

	if g.TemplateKey != defaultTemplateKey {
		t.Errorf("template = %q, want %q", g.TemplateKey, defaultTemplateKey)
	}
	if len(g.ImmediateActions) == 0 {
		t.Error("default template has no immediate actions")
	}
}

func TestRemediationTemplates_AllRulesResolve(t *testing.T) {
	templates := remediationTemplates()

	for _, rule := range articleRules {
		if _, ok := templates[rule.template]; !ok {
			t.Errorf("article rule %q points at missing template %q", rule.article, rule.template)
		}
	}
	for _, rule := range keywordRules {
		if _, ok := templates[rule.template]; !ok {
			t.Errorf("keyword rule %q points at missing template %q", rule.keyword, rule.template)
		}
	}
	if _, ok := templates[defaultTemplateKey]; !ok {
		t.Errorf("default template %q missing", defaultTemplateKey)
	}
}
