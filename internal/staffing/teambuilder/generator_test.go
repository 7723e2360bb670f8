package teambuilder

import (
	"context"
	"fmt"
	"testing"

	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/models"
	"staffing-workers/internal/staffing/personality"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func cand(id, role string, final float64, ptype personality.Type) models.CandidateSummary {
	c := models.CandidateSummary{
		EmployeeID:      id,
		EmployeeName:    "name-" + id,
		Role:            role,
		FinalScore:      final,
		PersonalityType: string(ptype),
	}
	c.Details.TenureYears = 3
	c.Details.Motivation = 4
	return c
}

// frontendPool mirrors the five-candidate sample: the two best candidates
// clash, and C clashes with E.
func frontendPool() models.RoleCandidateList {
	return models.RoleCandidateList{
		Role:          "frontend",
		RequiredCount: 2,
		Candidates: []models.CandidateSummary{
			cand("A", "frontend", 0.9, personality.INTJ),
			cand("B", "frontend", 0.85, personality.ESFP),
			cand("C", "frontend", 0.8, personality.ENFP),
			cand("D", "frontend", 0.7, personality.ENFJ),
			cand("E", "frontend", 0.79, personality.ISTJ),
		},
	}
}

func memberIDs(p models.TeamProposal) []string {
	out := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		out = append(out, m.EmployeeID)
	}
	return out
}

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	return NewGenerator(logger.NewTestLogger(t), opts...)
}

// ==========================
// Strategies and exclusion
// ==========================

func TestGenerate_FrontendScenario(t *testing.T) {
	g := newTestGenerator(t)

	set, err := g.Generate(context.Background(), Request{Roles: []models.RoleCandidateList{frontendPool()}})
	require.NoError(t, err)

	// pure-score ignores the INTJ/ESFP clash
	assert.Equal(t, []string{"A", "B"}, memberIDs(set.Set1))
	assert.Equal(t, models.SearchRanked, set.Set1.SearchMode)
	assert.InDelta(t, 1.75, set.Set1.Score, 1e-9)
	assert.True(t, set.Set1.Found)

	// C+E would score higher than C+D but ENFP lists ISTJ as bad
	assert.Equal(t, []string{"C", "D"}, memberIDs(set.Set2))
	assert.Equal(t, models.SearchExhaustive, set.Set2.SearchMode)
	assert.True(t, set.Set2.Found)

	// only E is left, so the role is filled with one member
	assert.Equal(t, []string{"E"}, memberIDs(set.Set3))
	assert.InDelta(t, 0.6396, set.Set3.Score, 1e-9)

	for _, p := range set.All() {
		for _, m := range p.Members {
			assert.Equal(t, "frontend", m.Role)
		}
	}
}

func TestGenerate_ProposalsAreDisjoint(t *testing.T) {
	g := newTestGenerator(t)
	backend := models.RoleCandidateList{
		Role:          "backend",
		RequiredCount: 1,
		Candidates: []models.CandidateSummary{
			cand("K1", "backend", 0.7, personality.ISTP),
			cand("K2", "backend", 0.6, personality.ESTJ),
			cand("K3", "backend", 0.5, personality.INFJ),
		},
	}

	set, err := g.Generate(context.Background(), Request{Roles: []models.RoleCandidateList{frontendPool(), backend}})
	require.NoError(t, err)

	seen := map[string]string{}
	for _, p := range set.All() {
		if !p.Found {
			continue
		}
		perRole := map[string]int{}
		for _, m := range p.Members {
			prev, dup := seen[m.EmployeeID]
			assert.False(t, dup, "%s already used by %s", m.EmployeeID, prev)
			seen[m.EmployeeID] = string(p.Strategy)
			perRole[m.Role]++
		}
		assert.LessOrEqual(t, perRole["frontend"], 2)
		assert.LessOrEqual(t, perRole["backend"], 1)
	}
}

func TestSearch_ExcludingWholeRoleYieldsNoTeam(t *testing.T) {
	g := newTestGenerator(t)
	pools := buildPools([]models.RoleCandidateList{frontendPool()}, nil)

	excluded := map[string]struct{}{}
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		excluded[id] = struct{}{}
	}

	for i := 0; i < 2; i++ {
		p, err := g.search(context.Background(), models.StrategyDiversity, pools, excluded)
		require.NoError(t, err)
		assert.Equal(t, models.NoTeam(models.StrategyDiversity, models.SearchExhaustive, 0), p)
		assert.False(t, p.Found)
		assert.Equal(t, models.NoTeamScore, p.Score)
		assert.Empty(t, p.Members)
	}
}

func TestSearch_NoValidCombination(t *testing.T) {
	g := newTestGenerator(t)
	clash := models.RoleCandidateList{
		Role:          "frontend",
		RequiredCount: 2,
		Candidates: []models.CandidateSummary{
			cand("C", "frontend", 0.8, personality.ENFP),
			cand("E", "frontend", 0.79, personality.ISTJ),
		},
	}

	p, err := g.search(context.Background(), models.StrategyPotential, buildPools([]models.RoleCandidateList{clash}, nil), map[string]struct{}{})
	require.NoError(t, err)
	assert.False(t, p.Found)
	assert.Equal(t, models.NoTeamScore, p.Score)
}

func TestGenerate_RecentCollaboratorsBlockPairs(t *testing.T) {
	g := newTestGenerator(t)

	set, err := g.Generate(context.Background(), Request{
		Roles:  []models.RoleCandidateList{frontendPool()},
		Recent: map[string][]string{"C": {"name-D"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"E", "D"}, memberIDs(set.Set2))
	assert.Equal(t, []string{"C"}, memberIDs(set.Set3))
}

func TestGenerate_TiesKeepFirstEnumeratedTeam(t *testing.T) {
	g := newTestGenerator(t)
	roles := []models.RoleCandidateList{
		{Role: "frontend", RequiredCount: 1, Candidates: []models.CandidateSummary{
			cand("X1", "frontend", 0.5, personality.Unknown),
			cand("X2", "frontend", 0.5, personality.Unknown),
			cand("X3", "frontend", 0.5, personality.Unknown),
		}},
		{Role: "backend", RequiredCount: 1, Candidates: []models.CandidateSummary{
			cand("Y1", "backend", 0.5, personality.Unknown),
			cand("Y2", "backend", 0.5, personality.Unknown),
			cand("Y3", "backend", 0.5, personality.Unknown),
		}},
	}

	set, err := g.Generate(context.Background(), Request{Roles: roles})
	require.NoError(t, err)

	assert.Equal(t, []string{"X1", "Y1"}, memberIDs(set.Set1))
	assert.Equal(t, []string{"X2", "Y2"}, memberIDs(set.Set2))
	assert.Equal(t, []string{"X3", "Y3"}, memberIDs(set.Set3))
	assert.Equal(t, int64(4), set.Set2.CombinationsEvaluated)
	assert.Equal(t, int64(1), set.Set3.CombinationsEvaluated)
}

func TestGenerate_SkipsRolesWithoutHeadcountOrCandidates(t *testing.T) {
	g := newTestGenerator(t)
	roles := []models.RoleCandidateList{
		models.EmptyRoleCandidateList("designer", 1),
		{Role: "qa", RequiredCount: 0, Candidates: []models.CandidateSummary{cand("Q1", "qa", 0.9, personality.Unknown)}},
		frontendPool(),
	}

	set, err := g.Generate(context.Background(), Request{Roles: roles})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, memberIDs(set.Set1))
	assert.True(t, set.Set2.Found)
}

func TestGenerate_NoRoles(t *testing.T) {
	g := newTestGenerator(t)

	set, err := g.Generate(context.Background(), Request{})
	require.NoError(t, err)

	assert.False(t, set.Set1.Found)
	assert.Equal(t, 0.0, set.Set1.Score)
	assert.Empty(t, set.Set1.Members)
	assert.Equal(t, models.NoTeam(models.StrategyDiversity, models.SearchExhaustive, 0), set.Set2)
	assert.Equal(t, models.NoTeam(models.StrategyPotential, models.SearchExhaustive, 0), set.Set3)

	reduced := set.Reduced()
	assert.Empty(t, reduced["set1"])
}

// ==========================
// Search limits
// ==========================

func TestGenerate_GreedyFallbackAboveCeiling(t *testing.T) {
	g := newTestGenerator(t, WithCombinationCeiling(1))
	list := models.RoleCandidateList{
		Role:          "frontend",
		RequiredCount: 2,
		Candidates: []models.CandidateSummary{
			cand("C", "frontend", 0.8, personality.ENFP),
			cand("D", "frontend", 0.7, personality.ENFJ),
			cand("E", "frontend", 0.79, personality.ISTJ),
		},
	}

	p, err := g.search(context.Background(), models.StrategyDiversity, buildPools([]models.RoleCandidateList{list}, nil), map[string]struct{}{})
	require.NoError(t, err)

	assert.Equal(t, models.SearchGreedy, p.SearchMode)
	assert.Equal(t, []string{"C", "D"}, memberIDs(p))
	assert.Equal(t, int64(1), p.CombinationsEvaluated)
	assert.True(t, p.Found)
}

func TestGenerate_GreedyGivesUpWhenRoleCannotBeFilled(t *testing.T) {
	g := newTestGenerator(t, WithCombinationCeiling(1))
	roles := []models.RoleCandidateList{
		{Role: "frontend", RequiredCount: 1, Candidates: []models.CandidateSummary{
			cand("C", "frontend", 0.8, personality.ENFP),
			cand("C2", "frontend", 0.6, personality.ENFP),
		}},
		{Role: "backend", RequiredCount: 1, Candidates: []models.CandidateSummary{
			cand("E", "backend", 0.79, personality.ISTJ),
			cand("E2", "backend", 0.5, personality.ISTJ),
		}},
	}

	p, err := g.search(context.Background(), models.StrategyPotential, buildPools(roles, nil), map[string]struct{}{})
	require.NoError(t, err)
	assert.Equal(t, models.NoTeam(models.StrategyPotential, models.SearchGreedy, 0), p)
}

func TestGenerate_CancelledContextAbortsSearch(t *testing.T) {
	g := newTestGenerator(t)
	var roles []models.RoleCandidateList
	for _, role := range []string{"frontend", "backend"} {
		list := models.RoleCandidateList{Role: role, RequiredCount: 3}
		for i := 0; i < 12; i++ {
			list.Candidates = append(list.Candidates, cand(fmt.Sprintf("%s-%02d", role, i), role, 0.5, personality.Unknown))
		}
		roles = append(roles, list)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set, err := g.Generate(ctx, Request{Roles: roles})
	assert.Nil(t, set)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_RecordsStrategySpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	g := newTestGenerator(t, WithTracer(tp.Tracer("test")))

	_, err := g.Generate(context.Background(), Request{Roles: []models.RoleCandidateList{frontendPool()}})
	require.NoError(t, err)

	names := map[string]int{}
	for _, s := range recorder.Ended() {
		names[s.Name()]++
	}
	assert.Equal(t, 1, names["generate-team-proposals"])
	assert.Equal(t, 3, names["team-search"])
}
