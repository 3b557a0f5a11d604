package service

import "gdprlens-backend/models"

// Volume penalty parameters: every violation up to the tenth adds 2% to the
// weighted mean, so many independent minor issues aggregate as riskier than
// one issue of the same average severity.
const (
	volumePenaltyStep = 0.02
	volumePenaltyCap  = 10
)

// Aggregate combines per-violation severity and count into one overall risk
// score in [0,10] and its categorical level. It is a pure function over
// already-validated data and cannot fail.
func Aggregate(violations []models.Violation) (float64, models.RiskLevel) {
	if len(violations) == 0 {
		return 0.0, models.RiskMinimal
	}

	var weightedSum, weightTotal float64
	for _, v := range violations {
		w := v.Severity.AggregationWeight()
		weightedSum += v.RiskScore * w
		weightTotal += w
	}
	score := weightedSum / weightTotal

	count := len(violations)
	if count > volumePenaltyCap {
		count = volumePenaltyCap
	}
	score *= 1 + volumePenaltyStep*float64(count)

	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}

	return score, RiskLevelForScore(score)
}

// RiskLevelForScore maps an aggregate score to its categorical band.
func RiskLevelForScore(score float64) models.RiskLevel {
	switch {
	case score >= 8:
		return models.RiskCritical
	case score >= 6:
		return models.RiskHigh
	case score >= 4:
		return models.RiskMedium
	case score >= 2:
		return models.RiskLow
	default:
		return models.RiskMinimal
	}
}
