package models

// RemediationPriority ranks how urgently a remediation must start.
type RemediationPriority string

const (
	PriorityCritical RemediationPriority = "Critical" // fix immediately, legal exposure
	PriorityHigh     RemediationPriority = "High"     // fix within 30 days
	PriorityMedium   RemediationPriority = "Medium"   // fix within 90 days
	PriorityLow      RemediationPriority = "Low"      // ongoing improvement
)

// RemediationComplexity estimates implementation effort.
type RemediationComplexity string

const (
	ComplexitySimple   RemediationComplexity = "Simple"   // 1-2 days
	ComplexityModerate RemediationComplexity = "Moderate" // 1-2 weeks
	ComplexityComplex  RemediationComplexity = "Complex"  // 1-3 months
	ComplexityMajor    RemediationComplexity = "Major"    // 3+ months, organizational change
)

// RemediationStep is a single concrete implementation step.
type RemediationStep struct {
	StepNumber      int    `json:"step_number"`
	Action          string `json:"action"`
	Owner           string `json:"owner"`
	Timeline        string `json:"timeline"`
	SuccessCriteria string `json:"success_criteria"`
}

// RemediationGuidance is the remediation template selected for a violation.
// Guidance is selected deterministically from the violation's articles and
// category and never mutated after assignment; only Priority is customized,
// from the violation's own severity.
type RemediationGuidance struct {
	TemplateKey string `json:"template_key"`
	Category    string `json:"category"`

	Priority        RemediationPriority   `json:"priority"`
	Complexity      RemediationComplexity `json:"complexity"`
	EstimatedEffort string                `json:"estimated_effort"`
	EstimatedCost   string                `json:"estimated_cost"`

	ImmediateActions     []string          `json:"immediate_actions"`
	ShortTermSolutions   []string          `json:"short_term_solutions"`
	LongTermImprovements []string          `json:"long_term_improvements"`
	DetailedSteps        []RemediationStep `json:"detailed_steps,omitempty"`

	RequiredRoles         []string `json:"required_roles"`
	VerificationChecklist []string `json:"verification_checklist,omitempty"`
}
