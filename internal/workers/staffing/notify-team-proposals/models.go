package notifyteamproposals

import (
	"staffing-workers/internal/common/validation"
	"staffing-workers/internal/models"
)

type Input struct {
	ProjectID     string             `json:"projectId"`
	ProjectName   string             `json:"projectName,omitempty"`
	ProposalSetID string             `json:"proposalSetId"`
	Proposals     models.ProposalSet `json:"proposals"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"` // "sent" or "disabled"
	Channels       []string `json:"channels"`
	SentAt         string   `json:"sentAt"` // RFC 3339
}

const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
)

const (
	ChannelSNS = "sns"
	ChannelSES = "ses"
)

// proposalEvent is the JSON message published to the topic.
type proposalEvent struct {
	NotificationID string                            `json:"notificationId"`
	ProjectID      string                            `json:"projectId"`
	ProposalSetID  string                            `json:"proposalSetId"`
	FoundCount     int                               `json:"foundCount"`
	Teams          map[string][]models.ReducedMember `json:"teams"`
}

func GetInputSchema() validation.JSONSchema {
	minLen := 1
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"projectId":     {Type: "string", MinLength: &minLen},
			"projectName":   {Type: "string"},
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
