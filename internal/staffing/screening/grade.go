package screening

import "staffing-workers/internal/models"

var gradeDescriptions = map[models.Grade]string{
	models.GradeS: "最優秀候補",
	models.GradeA: "優秀候補",
	models.GradeB: "良好候補",
	models.GradeC: "標準候補",
	models.GradeD: "要検討候補",
}

// GradeFor buckets a final score with inclusive lower bounds.
func GradeFor(score float64) (models.Grade, string) {
	var g models.Grade
	switch {
	case score >= 0.8:
		g = models.GradeS
	case score >= 0.7:
		g = models.GradeA
	case score >= 0.6:
		g = models.GradeB
	case score >= 0.5:
		g = models.GradeC
	default:
		g = models.GradeD
	}
	return g, gradeDescriptions[g]
}

// FinalScore weights fitness and leader compatibility. The unrounded value is
// returned alongside the four-decimal value so grading sees full precision.
func FinalScore(fitness, compatibility float64) (rounded, raw float64) {
	raw = 0.4*fitness + 0.6*compatibility
	return models.Round(raw, 4), raw
}
