package indexteamproposals

import (
	"time"

	"staffing-workers/internal/common/validation"
	"staffing-workers/internal/models"
)

type Input struct {
	ProjectID     string             `json:"projectId"`
	ProposalSetID string             `json:"proposalSetId"`
	Proposals     models.ProposalSet `json:"proposals"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	Index      string `json:"index"`
	DocumentID string `json:"documentId"`
	Result     string `json:"result"`
}

// ProposalDocument is what lands in the proposal history index. Members is
// flattened so a keyword query on an employee finds every set they were in.
type ProposalDocument struct {
	ProposalSetID string             `json:"proposalSetId"`
	ProjectID     string             `json:"projectId"`
	IndexedAt     time.Time          `json:"indexedAt"`
	FoundCount    int                `json:"foundCount"`
	Members       []IndexedMember    `json:"members"`
	Proposals     models.ProposalSet `json:"proposals"`
}

type IndexedMember struct {
	Strategy     models.Strategy `json:"strategy"`
	EmployeeID   string          `json:"employeeId,omitempty"`
	EmployeeName string          `json:"employeeName"`
	Role         string          `json:"role"`
}

type indexResponse struct {
	Index  string `json:"_index"`
	ID     string `json:"_id"`
	Result string `json:"result"`
}

func GetInputSchema() validation.JSONSchema {
	minLen := 1
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"projectId":     {Type: "string", MinLength: &minLen},
			"proposalSetId": {Type: "string", MinLength: &minLen},
			"proposals": {
				Type:     "object",
				Required: []string{"set1", "set2", "set3"},
				Properties: map[string]validation.Property{
					"set1": {Type: "object"},
					"set2": {Type: "object"},
					"set3": {Type: "object"},
				},
			},
		},
		Required:             []string{"projectId", "proposalSetId", "proposals"},
		AdditionalProperties: true,
	}
}
