package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the categorical banding derived from the aggregate risk score.
type RiskLevel string

const (
	RiskCritical RiskLevel = "Critical"
	RiskHigh     RiskLevel = "High"
	RiskMedium   RiskLevel = "Medium"
	RiskLow      RiskLevel = "Low"
	RiskMinimal  RiskLevel = "Minimal"
)

// RiskAssessment is the final result of one scenario analysis. It is
// constructed once per analysis call and read-only afterward; field names
// are stable across renders so the JSON form round-trips.
type RiskAssessment struct {
	ID       uuid.UUID `json:"analysis_id"`
	Scenario string    `json:"scenario"`

	OverallLevel RiskLevel `json:"risk_level"`
	OverallScore float64   `json:"risk_score"` // in [0,10]

	Violations      []Violation `json:"violations"`
	ComplianceGaps  []string    `json:"compliance_gaps"`
	Recommendations []string    `json:"recommendations"`

	ArticlesCited int       `json:"articles_cited"`
	Model         string    `json:"model,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TotalViolations is the number of findings, fallback findings included.
func (a *RiskAssessment) TotalViolations() int {
	return len(a.Violations)
}

// SeverityCounts returns the number of violations per severity.
func (a *RiskAssessment) SeverityCounts() map[Severity]int {
	counts := make(map[Severity]int)
	for _, v := range a.Violations {
		counts[v.Severity]++
	}
	return counts
}
