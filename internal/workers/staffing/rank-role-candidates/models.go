package rankrolecandidates

import (
	"staffing-workers/internal/common/validation"
	"staffing-workers/internal/models"
)

type Input struct {
	ProjectID string `json:"projectId"`
}

type Output struct {
	Ranking         *models.RankingResult `json:"ranking"`
	ProjectFound    bool                  `json:"projectFound"`
	TotalCandidates int                   `json:"totalCandidates"`
}

// GetInputSchema allows additional properties: the job carries every process
// variable in scope, not just projectId.
func GetInputSchema() validation.JSONSchema {
	minLen := 1
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"projectId": {
				Type:        "string",
				Description: "Project to rank candidates for",
				MinLength:   &minLen,
			},
		},
		Required:             []string{"projectId"},
		AdditionalProperties: true,
	}
}
