package screening

import (
	"math"
	"strings"

	"staffing-workers/internal/models"
)

const (
	DefaultRequiredLevel  = 0.5
	DefaultLevelTolerance = 0.2
	// MinLevelTolerance replaces a configured tolerance of exactly zero.
	MinLevelTolerance = 0.1

	maxScoredCertifications = 3
)

var (
	cloudKeywords      = []string{"AWS", "Google", "Azure", "GCP"}
	specialistKeywords = []string{"スペシャリスト", "高度", "Expert", "Professional"}
	examKeywords       = []string{"応用", "基本", "情報", "検定", "認定"}
)

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// CertificationScore starts at 0.3 and adds a keyword bonus for each of the
// first three certifications, capped at 1.0.
func CertificationScore(certs []string) float64 {
	score := 0.3
	for i, cert := range certs {
		if i >= maxScoredCertifications {
			break
		}
		switch {
		case containsAny(cert, cloudKeywords):
			score += 0.2
		case containsAny(cert, specialistKeywords):
			score += 0.15
		case containsAny(cert, examKeywords):
			score += 0.1
		default:
			score += 0.05
		}
	}
	return math.Min(score, 1.0)
}

// TenureScore maps tenure onto 0.3..0.9 in two-year bands.
func TenureScore(years float64) float64 {
	if years <= 0 {
		return 0.3
	} else if years < 2 {
		return 0.4
	} else if years < 4 {
		return 0.5
	} else if years < 6 {
		return 0.6
	} else if years < 8 {
		return 0.7
	} else if years < 10 {
		return 0.8
	}
	return 0.9
}

// ExperienceScore is 0.3 plus 0.05 per cumulative year, capped at 0.9.
func ExperienceScore(totalYears float64) float64 {
	if totalYears < 0 {
		totalYears = 0
	}
	score := 0.3 + math.Min(totalYears*0.05, 0.6)
	return math.Min(score, 0.9)
}

// Level combines the three components and rounds to the nearest 0.1.
func Level(e *models.Employee) float64 {
	level := CertificationScore(e.Certifications)*0.4 +
		TenureScore(e.TenureYears.Float64())*0.3 +
		ExperienceScore(e.TotalExperience())*0.3
	return models.Round(level, 1)
}

// FitnessScore rates a personality vector for a project category. The result
// is clamped to [0,1] and rounded to three decimals.
func FitnessScore(v models.PersonalityVector, category models.ProjectCategory) float64 {
	var score float64
	switch category.Normalize() {
	case models.CategoryNewDevelopment:
		score = v.Get("N") / 100
	case models.CategoryMaintenance:
		score = (2*v.Get("S") + v.Get("I")) / 300
	case models.CategoryClientFacing:
		score = v.Get("E") / 100
	default:
		score = 0.5
	}
	return models.Round(clamp(score, 0, 1), 3)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
