package notifyteamproposals

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"staffing-workers/internal/common/config"
	"staffing-workers/internal/common/errors"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 1,
		Timeout:       5 * time.Second,
		SNSEnabled:    true,
		TopicARN:      "arn:aws:sns:ap-northeast-1:123456789012:team-proposals",
		SESEnabled:    true,
		FromEmail:     "staffing@example.com",
		Recipients:    []string{"pm@example.com"},
	}
}

func createTestInput() *Input {
	return &Input{
		ProjectID:     "P001",
		ProjectName:   "Storefront Renewal",
		ProposalSetID: "set-123",
		Proposals: models.ProposalSet{
			Set1: models.TeamProposal{Strategy: models.StrategyPureScore, Found: true, Members: []models.TeamMember{
				{EmployeeID: "A", EmployeeName: "Aoki", Role: "frontend"},
				{EmployeeID: "B", EmployeeName: "Baba", Role: "backend"},
			}},
			Set2: models.NoTeam(models.StrategyDiversity, models.SearchExhaustive, 4),
			Set3: models.TeamProposal{Strategy: models.StrategyPotential, Found: true, Members: []models.TeamMember{
				{EmployeeID: "C", EmployeeName: "Chiba", Role: "frontend"},
			}},
		},
	}
}

func newTestHandler(t *testing.T, cfg *Config, snsClient *MockSNSService, sesClient *MockSESService) *Handler {
	opts := HandlerOptions{CustomConfig: cfg, Logger: logger.NewTestLogger(t)}
	if snsClient != nil {
		opts.SNS = snsClient
	}
	if sesClient != nil {
		opts.SES = sesClient
	}
	h, err := NewHandler(opts)
	require.NoError(t, err)
	h.now = func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) }
	return h
}

func createMockJob(variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       11,
		Type:      TaskType,
		Retries:   3,
		Variables: string(variablesJSON),
	}}
}

// ==========================
// Configuration Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "channels off", mutate: func(c *Config) { c.SNSEnabled, c.SESEnabled, c.TopicARN, c.Recipients = false, false, "", nil }},
		{name: "sns without topic", mutate: func(c *Config) { c.TopicARN = "" }, wantErr: "topic_arn"},
		{name: "ses without sender", mutate: func(c *Config) { c.FromEmail = "" }, wantErr: "from_email"},
		{name: "ses without recipients", mutate: func(c *Config) { c.Recipients = nil }, wantErr: "recipient"},
		{name: "malformed sender", mutate: func(c *Config) { c.FromEmail = "staffing" }, wantErr: "from_email \"staffing\""},
		{name: "malformed recipient", mutate: func(c *Config) { c.Recipients = []string{"pm@example.com", "pm@"} }, wantErr: "recipient \"pm@\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewHandler_RequiresClientsForEnabledChannels(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: createTestConfig(), SES: &MockSESService{}, Logger: logger.NewTestLogger(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sns client is required")

	_, err = NewHandler(HandlerOptions{CustomConfig: createTestConfig(), SNS: &MockSNSService{}, Logger: logger.NewTestLogger(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ses client is required")
}

func TestCreateConfigFromAppConfig_ReadsIntegrations(t *testing.T) {
	appConfig := &config.Config{}
	appConfig.Integrations.AWS.SNS.Enabled = true
	appConfig.Integrations.AWS.SNS.TopicARN = "arn:topic"
	appConfig.Integrations.AWS.SES.FromEmail = "from@example.com"

	cfg := createConfigFromAppConfig(appConfig, nil)
	assert.True(t, cfg.SNSEnabled)
	assert.Equal(t, "arn:topic", cfg.TopicARN)
	assert.False(t, cfg.SESEnabled)
	assert.Equal(t, "from@example.com", cfg.FromEmail)
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_SendsOnAllChannels(t *testing.T) {
	var published *sns.PublishInput
	var emailed *ses.SendEmailInput

	snsClient := &MockSNSService{PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
		published = params
		return &sns.PublishOutput{}, nil
	}}
	sesClient := &MockSESService{SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		emailed = params
		return &ses.SendEmailOutput{}, nil
	}}
	h := newTestHandler(t, createTestConfig(), snsClient, sesClient)

	output, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, []string{ChannelSNS, ChannelSES}, output.Channels)
	assert.Equal(t, "2026-04-01T09:00:00Z", output.SentAt)
	assert.NotEmpty(t, output.NotificationID)

	require.NotNil(t, published)
	assert.Equal(t, "arn:aws:sns:ap-northeast-1:123456789012:team-proposals", *published.TopicArn)
	assert.Equal(t, "Team proposals ready for Storefront Renewal", *published.Subject)

	var event proposalEvent
	require.NoError(t, json.Unmarshal([]byte(*published.Message), &event))
	assert.Equal(t, output.NotificationID, event.NotificationID)
	assert.Equal(t, 2, event.FoundCount)
	assert.Equal(t, []models.ReducedMember{{EmployeeName: "Chiba", Role: "frontend"}}, event.Teams["set3"])
	assert.Empty(t, event.Teams["set2"])

	require.NotNil(t, emailed)
	assert.Equal(t, []string{"pm@example.com"}, emailed.Destination.ToAddresses)
	assert.Equal(t, "staffing@example.com", *emailed.Source)
	body := *emailed.Message.Body.Text.Data
	assert.Contains(t, body, "found 2 of 3 teams")
	assert.Contains(t, body, "pure-score: Aoki (frontend), Baba (backend)")
	assert.Contains(t, body, "diversity-focused: no team found")
}

func TestHandler_Execute_DisabledChannels(t *testing.T) {
	h := newTestHandler(t, &Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Second}, nil, nil)

	output, err := h.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, output.Channels)
}

func TestHandler_Execute_SendFailureIsRetryable(t *testing.T) {
	snsClient := &MockSNSService{PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
		return &sns.PublishOutput{}, nil
	}}
	sesClient := &MockSESService{SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
		return nil, fmt.Errorf("throttling: rate exceeded")
	}}
	h := newTestHandler(t, createTestConfig(), snsClient, sesClient)

	output, err := h.Execute(context.Background(), createTestInput())
	assert.Nil(t, output)
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "ses")
}

// ==========================
// Template Tests
// ==========================

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data map[string]interface{}
		want string
	}{
		{"string value", "Hi {{name}}", map[string]interface{}{"name": "team"}, "Hi team"},
		{"int value", "{{n}} teams", map[string]interface{}{"n": 3}, "3 teams"},
		{"missing placeholder removed", "A{{missing}}B", map[string]interface{}{}, "AB"},
		{"nil value", "[{{v}}]", map[string]interface{}{"v": nil}, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderTemplate(tt.tmpl, tt.data))
		})
	}
}

func TestRenderTemplate_ProjectNameFallsBackToID(t *testing.T) {
	var subject string
	snsClient := &MockSNSService{PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
		subject = *params.Subject
		return &sns.PublishOutput{}, nil
	}}
	cfg := createTestConfig()
	cfg.SESEnabled = false
	h := newTestHandler(t, cfg, snsClient, nil)

	input := createTestInput()
	input.ProjectName = ""
	_, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Team proposals ready for P001", subject)
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t, &Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Second}, nil, nil)

	input, err := h.parseInput(createMockJob(map[string]interface{}{
		"projectId":     "P001",
		"proposalSetId": "set-123",
		"proposals": map[string]interface{}{
			"set1": map[string]interface{}{"strategy": "pure-score", "found": false},
			"set2": map[string]interface{}{"strategy": "diversity-focused", "found": false},
			"set3": map[string]interface{}{"strategy": "potential-focused", "found": false},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, "P001", input.ProjectID)

	_, err = h.parseInput(createMockJob(map[string]interface{}{"projectId": "", "proposalSetId": "x", "proposals": map[string]interface{}{}}))
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
}
