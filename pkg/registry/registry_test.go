package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{ID: "rank", DisplayName: "Rank Role Candidates", Category: "staffing", TaskType: "rank-role-candidates", Timeout: "30s"},
			{
				ID:          "generate",
				DisplayName: "Generate Team Proposals",
				Category:    "staffing",
				TaskType:    "generate-team-proposals",
				Timeout:     "1m",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"ranking"},
				},
			},
		},
	}
}

func TestActivityRegistry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ActivityRegistry)
		wantErr string
	}{
		{name: "valid", mutate: func(*ActivityRegistry) {}},
		{name: "empty", mutate: func(r *ActivityRegistry) { r.Activities = nil }, wantErr: "no activities"},
		{name: "duplicate id", mutate: func(r *ActivityRegistry) { r.Activities[1].ID = "rank" }, wantErr: "duplicate activity ID"},
		{name: "duplicate task type", mutate: func(r *ActivityRegistry) { r.Activities[1].TaskType = "rank-role-candidates" }, wantErr: "duplicate task type"},
		{name: "camel case task type", mutate: func(r *ActivityRegistry) { r.Activities[0].TaskType = "rankRoleCandidates" }, wantErr: "kebab-case"},
		{name: "missing category", mutate: func(r *ActivityRegistry) { r.Activities[0].Category = "" }, wantErr: "Category"},
		{name: "bad timeout", mutate: func(r *ActivityRegistry) { r.Activities[0].Timeout = "thirty" }, wantErr: "invalid timeout"},
		{name: "broken schema", mutate: func(r *ActivityRegistry) {
			r.Activities[1].InputSchema = map[string]interface{}{"type": 7}
		}, wantErr: "input schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistry()
			tt.mutate(reg)
			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestActivityRegistry_Find(t *testing.T) {
	reg := validRegistry()

	activity, ok := reg.Find("generate-team-proposals")
	require.True(t, ok)
	assert.Equal(t, "generate", activity.ID)

	d, err := activity.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)

	_, ok = reg.Find("unknown-task")
	assert.False(t, ok)
}

func TestActivityRegistry_UpdateField(t *testing.T) {
	reg := validRegistry()

	require.NoError(t, reg.UpdateField("rank", "status", "verified"))
	require.NoError(t, reg.UpdateField("rank", "retries", "5"))
	assert.Equal(t, "verified", reg.Activities[0].ImplementationStatus)
	assert.Equal(t, 5, reg.Activities[0].Retries)
	assert.NotEmpty(t, reg.LastUpdated)

	assert.Error(t, reg.UpdateField("rank", "retries", "many"))
	assert.Error(t, reg.UpdateField("rank", "timeout", "soon"))
	assert.Error(t, reg.UpdateField("rank", "owner", "x"))
	assert.Error(t, reg.UpdateField("missing", "status", "x"))
}

func TestSaveAndLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.json")

	require.NoError(t, SaveRegistry(validRegistry(), path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Activities, 2)
	assert.Equal(t, "object", loaded.Activities[1].InputSchema["type"])
}

func TestLoadRegistry_ShippedFile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	for _, taskType := range []string{"rank-role-candidates", "generate-team-proposals", "index-team-proposals", "notify-team-proposals"} {
		_, ok := reg.Find(taskType)
		assert.True(t, ok, taskType)
	}
}
