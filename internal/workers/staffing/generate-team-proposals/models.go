package generateteamproposals

import "staffing-workers/internal/models"

type Input struct {
	ProjectID           string               `json:"projectId,omitempty"`
	Ranking             models.RankingResult `json:"ranking"`
	RecentCollaborators map[string][]string  `json:"recentCollaborators,omitempty"`
}

type Output struct {
	ProposalSetID string                            `json:"proposalSetId"`
	ProjectID     string                            `json:"projectId,omitempty"`
	Proposals     *models.ProposalSet               `json:"proposals"`
	Reduced       map[string][]models.ReducedMember `json:"reduced"`
}

// DefaultInputSchema is used when the activity registry carries no input
// schema for this task type.
func DefaultInputSchema() map[string]interface{} {
	candidate := map[string]interface{}{
		"type":     "object",
		"required": []string{"employeeName", "finalScore"},
		"properties": map[string]interface{}{
			"employeeId":      map[string]interface{}{"type": "string"},
			"employeeName":    map[string]interface{}{"type": "string"},
			"finalScore":      map[string]interface{}{"type": "number"},
			"personalityType": map[string]interface{}{"type": "string"},
			"details":         map[string]interface{}{"type": "object"},
		},
	}

	role := map[string]interface{}{
		"type":     "object",
		"required": []string{"role", "requiredCount", "candidates"},
		"properties": map[string]interface{}{
			"role":          map[string]interface{}{"type": "string", "minLength": 1},
			"requiredCount": map[string]interface{}{"type": "integer", "minimum": 0},
			"candidates":    map[string]interface{}{"type": "array", "items": candidate},
		},
	}

	return map[string]interface{}{
		"type":     "object",
		"required": []string{"ranking"},
		"properties": map[string]interface{}{
			"projectId": map[string]interface{}{"type": "string"},
			"ranking": map[string]interface{}{
				"type":     "object",
				"required": []string{"roles"},
				"properties": map[string]interface{}{
					"roles": map[string]interface{}{"type": "array", "items": role},
				},
			},
			"recentCollaborators": map[string]interface{}{
				"type": "object",
				"additionalProperties": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
		},
	}
}
