package generateteamproposals

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
	"staffing-workers/internal/staffing/teambuilder"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Generator
// ==========================

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req teambuilder.Request) (*models.ProposalSet, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProposalSet), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "team-staffing",
		ElementId:          "Activity_GenerateTeamProposals",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func candidate(id string, final float64, ptype string) map[string]interface{} {
	return map[string]interface{}{
		"employeeId":      id,
		"employeeName":    "name-" + id,
		"role":            "frontend",
		"finalScore":      final,
		"personalityType": ptype,
		"details":         map[string]interface{}{"tenureYears": 3, "motivation": 4},
	}
}

func frontendVariables() map[string]interface{} {
	return map[string]interface{}{
		"projectId": "P001",
		"ranking": map[string]interface{}{
			"roles": []interface{}{
				map[string]interface{}{
					"role":          "frontend",
					"requiredCount": 2,
					"candidates": []interface{}{
						candidate("A", 0.9, "INTJ"),
						candidate("B", 0.85, "ESFP"),
						candidate("C", 0.8, "ENFP"),
						candidate("D", 0.7, "ENFJ"),
						candidate("E", 0.79, "ISTJ"),
					},
				},
			},
		},
	}
}

func createValidConfig() *Config {
	return &Config{Enabled: true, MaxJobsActive: 1, Timeout: 10 * time.Second, CombinationCeiling: 1000}
}

func newTestHandler(t *testing.T, gen ProposalGenerator) *Handler {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Generator:    gen,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr string
	}{
		{name: "defaults", opts: HandlerOptions{}},
		{name: "negative ceiling", opts: HandlerOptions{CustomConfig: &Config{MaxJobsActive: 1, Timeout: time.Second, CombinationCeiling: -1}}, wantErr: "combination_ceiling"},
		{name: "broken schema", opts: HandlerOptions{InputSchema: map[string]interface{}{"type": 12}}, wantErr: "input schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = logger.NewTestLogger(t)
			h, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskType, h.GetTaskType())
			assert.Equal(t, teambuilder.DefaultCombinationCeiling, h.GetConfig().CombinationCeiling)
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appConfig := &config.Config{
		Workers:  map[string]config.WorkerConfig{TaskType: {Enabled: true, MaxJobsActive: 4, Timeout: 90000}},
		Staffing: config.StaffingConfig{CombinationCeiling: 5000},
	}

	cfg := createConfigFromAppConfig(appConfig, nil)
	assert.Equal(t, 4, cfg.MaxJobsActive)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, int64(5000), cfg.CombinationCeiling)
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := newTestHandler(t, &MockGenerator{})

	input, err := h.parseInput(createMockJob(1, frontendVariables()))
	require.NoError(t, err)
	assert.Equal(t, "P001", input.ProjectID)
	require.Len(t, input.Ranking.Roles, 1)
	assert.Equal(t, 2, input.Ranking.Roles[0].RequiredCount)
	assert.Len(t, input.Ranking.Roles[0].Candidates, 5)

	invalid := []struct {
		name      string
		variables map[string]interface{}
	}{
		{"missing ranking", map[string]interface{}{"projectId": "P001"}},
		{"roles not an array", map[string]interface{}{"ranking": map[string]interface{}{"roles": "frontend"}}},
		{"fractional headcount", map[string]interface{}{"ranking": map[string]interface{}{"roles": []interface{}{
			map[string]interface{}{"role": "frontend", "requiredCount": 1.5, "candidates": []interface{}{}},
		}}}},
		{"candidate without score", map[string]interface{}{"ranking": map[string]interface{}{"roles": []interface{}{
			map[string]interface{}{"role": "frontend", "requiredCount": 1, "candidates": []interface{}{
				map[string]interface{}{"employeeName": "A"},
			}},
		}}}},
		{"recent collaborators not lists", map[string]interface{}{
			"ranking":             map[string]interface{}{"roles": []interface{}{}},
			"recentCollaborators": map[string]interface{}{"A": "B"},
		}},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.parseInput(createMockJob(2, tt.variables))
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeInputValidationFailed, stdErr.Code)
		})
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_FrontendProposals(t *testing.T) {
	h, err := NewHandler(HandlerOptions{CustomConfig: createValidConfig(), Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	input, err := h.parseInput(createMockJob(1, frontendVariables()))
	require.NoError(t, err)

	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	_, err = uuid.Parse(output.ProposalSetID)
	assert.NoError(t, err)
	assert.Equal(t, "P001", output.ProjectID)

	assert.Equal(t, []models.ReducedMember{
		{EmployeeName: "name-A", Role: "frontend"},
		{EmployeeName: "name-B", Role: "frontend"},
	}, output.Reduced["set1"])
	assert.Equal(t, []models.ReducedMember{
		{EmployeeName: "name-C", Role: "frontend"},
		{EmployeeName: "name-D", Role: "frontend"},
	}, output.Reduced["set2"])
	assert.Equal(t, []models.ReducedMember{{EmployeeName: "name-E", Role: "frontend"}}, output.Reduced["set3"])
	assert.True(t, output.Proposals.Set2.Found)
}

func TestHandler_Execute_ProjectIDFallsBackToRanking(t *testing.T) {
	gen := &MockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return(&models.ProposalSet{}, nil)
	h := newTestHandler(t, gen)

	input := &Input{Ranking: models.RankingResult{ProjectInfo: models.ProjectInfo{ProjectID: "P009"}}}
	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "P009", output.ProjectID)
	gen.AssertExpectations(t)
}

func TestHandler_Execute_ErrorMapping(t *testing.T) {
	t.Run("generator failure", func(t *testing.T) {
		gen := &MockGenerator{}
		gen.On("Generate", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("boom"))
		h := newTestHandler(t, gen)

		_, err := h.Execute(context.Background(), &Input{})
		stdErr, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeTeamGenerationFailed, stdErr.Code)
	})

	t.Run("deadline reached", func(t *testing.T) {
		h, err := NewHandler(HandlerOptions{
			CustomConfig: &Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Second, CombinationCeiling: 1},
			Logger:       logger.NewTestLogger(t),
		})
		require.NoError(t, err)

		input, err := h.parseInput(createMockJob(1, frontendVariables()))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		output, err := h.Execute(ctx, input)
		assert.Nil(t, output)
		stdErr, ok := errors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeSearchCancelled, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})
}
