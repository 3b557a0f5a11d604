package service

import (
	"regexp"
	"strings"

	"gdprlens-backend/models"
)

// remediationRule is one entry of the ordered selection table. Exactly one
// of article/keyword is set: article rules match a numeric reference,
// keyword rules match a category substring. Rules are evaluated in order,
// article rules as a group before keyword rules, so the most legally
// specific guidance wins when a violation touches multiple references.
type remediationRule struct {
	article  string // bare article number, e.g. "17"
	keyword  string // lowercase category substring
	template string
}

// articleRules are checked first, in priority order. A reference to a
// specific right (erasure, objection, access, portability) is more legally
// distinct than the lawful-basis and breach articles, so those come first.
var articleRules = []remediationRule{
	{article: "17", template: "erasure_rights"},
	{article: "21", template: "objection_rights"},
	{article: "15", template: "access_rights"},
	{article: "20", template: "portability_rights"},
	{article: "6", template: "consent_violation"},
	{article: "7", template: "consent_violation"},
	{article: "33", template: "data_breach"},
	{article: "34", template: "data_breach"},
	{article: "13", template: "transparency"},
	{article: "14", template: "transparency"},
	{article: "32", template: "security"},
	{article: "44", template: "data_transfer"},
	{article: "46", template: "data_transfer"},
}

// keywordRules are the category fallback when no article rule matched.
var keywordRules = []remediationRule{
	{keyword: "consent", template: "consent_violation"},
	{keyword: "erasure", template: "erasure_rights"},
	{keyword: "deletion", template: "erasure_rights"},
	{keyword: "objection", template: "objection_rights"},
	{keyword: "marketing", template: "objection_rights"},
	{keyword: "access", template: "access_rights"},
	{keyword: "portability", template: "portability_rights"},
	{keyword: "breach", template: "data_breach"},
	{keyword: "transparency", template: "transparency"},
	{keyword: "information", template: "transparency"},
	{keyword: "transfer", template: "data_transfer"},
	{keyword: "security", template: "security"},
}

const defaultTemplateKey = "data_subject_rights"

// RemediationMapper deterministically selects and customizes a remediation
// template for a violation.
type RemediationMapper struct {
	templates map[string]models.RemediationGuidance
}

// NewRemediationMapper creates a remediation mapper with the built-in
// template table
func NewRemediationMapper() *RemediationMapper {
	return &RemediationMapper{templates: remediationTemplates()}
}

var leadingNumberRe = regexp.MustCompile(`\d+`)

// SelectTemplate returns the template key for a violation's category and
// references. Pure and deterministic: article rules first, category
// keywords second, generic default last.
func (m *RemediationMapper) SelectTemplate(category string, references []string) string {
	// Article rules match on the leading number of each reference, so
	// "Article 17(1)" selects the Article 17 rule and "Article 7" never
	// matches "Article 17".
	nums := make(map[string]bool, len(references))
	for _, ref := range references {
		if n := leadingNumberRe.FindString(ref); n != "" {
			nums[n] = true
		}
	}
	for _, rule := range articleRules {
		if nums[rule.article] {
			return rule.template
		}
	}

	categoryLower := strings.ToLower(category)
	for _, rule := range keywordRules {
		if strings.Contains(categoryLower, rule.keyword) {
			return rule.template
		}
	}

	return defaultTemplateKey
}

// Guidance selects and customizes the template for a violation: the
// template's priority is overridden by the violation's own severity, all
// other fields pass through unchanged.
func (m *RemediationMapper) Guidance(category string, references []string, severity models.Severity) models.RemediationGuidance {
	key := m.SelectTemplate(category, references)
	guidance, ok := m.templates[key]
	if !ok {
		guidance = m.templates[defaultTemplateKey]
		key = defaultTemplateKey
	}
	guidance.TemplateKey = key
	guidance.Priority = priorityForSeverity(severity)
	return guidance
}

func priorityForSeverity(severity models.Severity) models.RemediationPriority {
	switch severity {
	case models.SeverityCritical:
		return models.PriorityCritical
	case models.SeverityHigh:
		return models.PriorityHigh
	case models.SeverityMedium:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}
