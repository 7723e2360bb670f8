package personality

import (
	"testing"

	"staffing-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Axis scoring
// ==========================

func TestAxisScore(t *testing.T) {
	tests := []struct {
		name string
		kind AxisKind
		v1   float64
		v2   float64
		want float64
	}{
		{"divergent equal", Divergent, 50, 50, 0.15},
		{"divergent just below band", Divergent, 50, 69.9, 0.15},
		{"divergent lower bound", Divergent, 50, 70, 0.25},
		{"divergent upper bound", Divergent, 20, 80, 0.25},
		{"divergent far", Divergent, 0, 100, 0.10},
		{"convergent equal", Convergent, 40, 40, 0.25},
		{"convergent opposite", Convergent, 0, 100, 0},
		{"convergent half", Convergent, 25, 75, 0.125},
		{"convergent out of range clamps", Convergent, -50, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AxisScore(tt.kind, tt.v1, tt.v2), 1e-9)
		})
	}
}

func TestCompatibility(t *testing.T) {
	neutral := models.PersonalityVector{"E": 50, "N": 50, "T": 50, "J": 50}

	assert.Equal(t, 0.8, Compatibility(neutral, neutral))
	assert.Equal(t, 0.8, Compatibility(nil, nil), "missing letters default to 50")
	assert.Equal(t, Compatibility(neutral, nil), Compatibility(nil, neutral))

	leader := models.PersonalityVector{"E": 80, "N": 60, "T": 30, "J": 70}
	member := models.PersonalityVector{"E": 40, "N": 70, "T": 60, "J": 50}
	// E diff 40 -> 0.25, N diff 10 -> 0.225, T diff 30 -> 0.25, J diff 20 -> 0.2
	assert.Equal(t, 0.925, Compatibility(leader, member))
}

func TestCompatibility_Bounded(t *testing.T) {
	vectors := []models.PersonalityVector{
		nil,
		{"E": 0, "N": 0, "T": 0, "J": 0},
		{"E": 100, "N": 100, "T": 100, "J": 100},
		{"E": 35, "N": 90},
		{"E": 250, "J": -40},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			score := Compatibility(a, b)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	}
}

// ==========================
// Types
// ==========================

func TestDeriveType(t *testing.T) {
	assert.Equal(t, ENFP, DeriveType(models.PersonalityVector{"E": 70, "N": 80, "T": 40, "J": 30}))
	assert.Equal(t, Unknown, DeriveType(models.PersonalityVector{}))
	assert.Equal(t, Unknown, DeriveType(nil))
	assert.Equal(t, ENTJ, DeriveType(models.PersonalityVector{"E": 50}), "missing letters read as 50")
	assert.Equal(t, ISFP, DeriveType(models.PersonalityVector{"E": 49.9, "N": 10, "T": 0, "J": 49}))
}

func TestRelations_TableIsComplete(t *testing.T) {
	all := []Type{INTJ, INTP, ENTJ, ENTP, INFJ, INFP, ENFJ, ENFP, ISTJ, ISFJ, ESTJ, ESFJ, ISTP, ISFP, ESTP, ESFP}
	for _, typ := range all {
		r, ok := Relations(typ)
		assert.True(t, ok, "missing entry for %s", typ)
		assert.NotEqual(t, typ, r.Bad)
		assert.NotEqual(t, typ, r.NotGood)
	}

	_, ok := Relations(Unknown)
	assert.False(t, ok)
}

func TestIncompatible(t *testing.T) {
	tests := []struct {
		a, b Type
		want bool
	}{
		{INTJ, ESFP, true},
		{ESFP, INTJ, true},
		{INTJ, ENTJ, true},
		{ENTJ, INTJ, true},
		{ENFP, ISTJ, true},
		{INFP, ENFP, true},
		{ENFP, ENFJ, false},
		{INTJ, INTJ, false},
		{Unknown, INTJ, false},
		{Unknown, Unknown, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.a)+"-"+string(tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, Incompatible(tt.a, tt.b))
		})
	}
}
