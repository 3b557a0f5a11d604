package render

import (
	"encoding/json"
	"fmt"

	"gdprlens-backend/models"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(assessment *models.RiskAssessment) ([]byte, error) {
	out, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering json: %w", err)
	}
	return out, nil
}
