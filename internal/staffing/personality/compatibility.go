// Package personality scores four-axis personality vectors against each other
// and derives the 4-letter type used for team constraints.
package personality

import (
	"math"

	"staffing-workers/internal/models"
)

// AxisKind says whether an axis rewards difference or similarity.
type AxisKind int

const (
	// Divergent axes (E/I, T/F) prefer a moderate difference.
	Divergent AxisKind = iota
	// Convergent axes (N/S, J/P) prefer the same direction.
	Convergent
)

// Axis is one of the four scored dimensions, keyed by its first letter.
type Axis struct {
	Letter string
	Kind   AxisKind
}

var axes = [4]Axis{
	{Letter: "E", Kind: Divergent},
	{Letter: "N", Kind: Convergent},
	{Letter: "T", Kind: Divergent},
	{Letter: "J", Kind: Convergent},
}

// Axes returns the scored axes in E, N, T, J order.
func Axes() [4]Axis {
	return axes
}

const (
	axisMax          = 0.25
	divergentNear    = 0.15
	divergentFar     = 0.10
	divergentLowGap  = 20.0
	divergentHighGap = 60.0
)

// AxisScore scores two percentages on one axis. The result is in [0, 0.25].
func AxisScore(kind AxisKind, v1, v2 float64) float64 {
	diff := math.Abs(v1 - v2)
	switch kind {
	case Divergent:
		switch {
		case diff >= divergentLowGap && diff <= divergentHighGap:
			return axisMax
		case diff < divergentLowGap:
			return divergentNear
		default:
			return divergentFar
		}
	default:
		return math.Max(0, axisMax*(1-diff/100))
	}
}

// Compatibility sums the four axis scores, caps at 1.0 and rounds to three
// decimals. Missing letters count as 50.
func Compatibility(a, b models.PersonalityVector) float64 {
	total := 0.0
	for _, axis := range axes {
		total += AxisScore(axis.Kind, a.Get(axis.Letter), b.Get(axis.Letter))
	}
	return models.Round(math.Min(total, 1.0), 3)
}
