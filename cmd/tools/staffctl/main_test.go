package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"staffing-workers/internal/models"
	"staffing-workers/pkg/registry"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadFixture(t *testing.T) {
	f, err := loadFixture(filepath.Join("testdata", "pool.yaml"))
	require.NoError(t, err)

	assert.Len(t, f.Employees, 5)
	require.Len(t, f.Projects, 1)
	assert.Len(t, f.Projects[0].RecruitingRoles, 2)
	assert.Equal(t, 5.0, f.Employees[0].MotivationFor("frontend"))
	assert.Equal(t, 70.0, f.Employees[0].Personality.Get("E"))
	assert.Equal(t, []string{"B1"}, f.Recent["F1"])

	_, err = loadFixture(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestRankCommand_JSON(t *testing.T) {
	out, err := run(t, "rank", "--fixture", filepath.Join("testdata", "pool.yaml"), "--project", "P001", "--json")
	require.NoError(t, err)

	var result models.RankingResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Found())
	require.Len(t, result.Roles, 2)
	assert.Equal(t, "frontend", result.Roles[0].Role)
	assert.Equal(t, 3, result.Roles[0].TotalCandidates)
	assert.Equal(t, 2, result.Roles[1].TotalCandidates)
}

func TestRankCommand_Text(t *testing.T) {
	out, err := run(t, "rank", "--fixture", filepath.Join("testdata", "pool.yaml"), "--project", "P001")
	require.NoError(t, err)
	assert.Contains(t, out, "P001 Storefront Renewal")
	assert.Contains(t, out, "Fujita")

	out, err = run(t, "rank", "--fixture", filepath.Join("testdata", "pool.yaml"), "--project", "P404")
	require.NoError(t, err)
	assert.Contains(t, out, models.ProjectNotFoundMessage)
}

func TestRankCommand_RequiresFlags(t *testing.T) {
	_, err := run(t, "rank", "--project", "P001")
	assert.Error(t, err)
}

func TestProposeCommand(t *testing.T) {
	out, err := run(t, "propose", "--fixture", filepath.Join("testdata", "pool.yaml"), "--project", "P001", "--json")
	require.NoError(t, err)

	var set models.ProposalSet
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	assert.True(t, set.Set1.Found)
	assert.Len(t, set.Set1.Members, 2)
	assert.True(t, set.Set2.Found)
	// both backend candidates are used by the first two teams
	assert.False(t, set.Set3.Found)
	assert.Equal(t, models.NoTeamScore, set.Set3.Score)

	_, err = run(t, "propose", "--fixture", filepath.Join("testdata", "pool.yaml"), "--project", "P404")
	assert.Error(t, err)
}

func TestRegistryCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, registry.SaveRegistry(&registry.ActivityRegistry{
		Version: "1.0.0",
		Activities: []registry.Activity{
			{ID: "rank", DisplayName: "Rank", Category: "staffing", TaskType: "rank-role-candidates", Timeout: "30s"},
		},
	}, path))

	out, err := run(t, "registry", "validate", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 activities")

	_, err = run(t, "registry", "update", "--path", path, "--id", "rank", "--field", "status", "--value", "verified")
	require.NoError(t, err)

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "verified", reg.Activities[0].ImplementationStatus)

	require.NoError(t, os.WriteFile(path, []byte(`{"activities":[]}`), 0644))
	_, err = run(t, "registry", "validate", "--path", path)
	assert.Error(t, err)
}

func TestCacheInvalidateCommand(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("staffing:employees:all", "[]"))
	require.NoError(t, mr.Set("staffing:project:P001", "{}"))
	require.NoError(t, mr.Set("staffing:project:P002", "{}"))

	out, err := run(t, "cache", "invalidate", "--redis-address", mr.Addr(), "--project", "P001")
	require.NoError(t, err)
	assert.Contains(t, out, "project P001")
	assert.False(t, mr.Exists("staffing:employees:all"))
	assert.False(t, mr.Exists("staffing:project:P001"))
	assert.True(t, mr.Exists("staffing:project:P002"))

	addr := mr.Addr()
	mr.Close()
	_, err = run(t, "cache", "invalidate", "--redis-address", addr)
	assert.Error(t, err)
}
