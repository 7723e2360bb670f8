package teambuilder

import (
	"math"

	"staffing-workers/internal/models"
	"staffing-workers/internal/staffing/personality"
)

const (
	juniorBelowYears = 3.0
	seniorFromYears  = 8.0

	idealJunior = 0.3
	idealMid    = 0.5
	idealSenior = 0.2

	bonusTenureBelow   = 5.0
	bonusMotivationMin = 4.0
	bonusPerMember     = 0.2
)

func variance(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}

// DiversityScore adds the normalized population variance of the four
// personality axes, tenure and certification count. Each term needs more
// than one contributing member.
func DiversityScore(team []*models.CandidateSummary) float64 {
	if len(team) == 0 {
		return 0
	}

	score := 0.0
	for _, axis := range personality.Axes() {
		var values []float64
		for _, c := range team {
			if c.Details.Personality.IsEmpty() {
				continue
			}
			values = append(values, c.Details.Personality.Get(axis.Letter))
		}
		if len(values) > 1 {
			score += variance(values) / 2500
		}
	}

	if len(team) > 1 {
		tenures := make([]float64, len(team))
		certs := make([]float64, len(team))
		for i, c := range team {
			tenures[i] = c.Details.TenureYears
			certs[i] = float64(len(c.Details.Certifications))
		}
		score += math.Min(variance(tenures)/25, 1.0)
		score += math.Min(variance(certs)/10, 1.0)
	}

	return models.Round(score, 3)
}

// BalanceScore compares the junior/mid/senior mix with a 0.3/0.5/0.2 ideal.
func BalanceScore(team []*models.CandidateSummary) float64 {
	if len(team) == 0 {
		return 0
	}

	var junior, mid, senior int
	for _, c := range team {
		switch t := c.Details.TenureYears; {
		case t < juniorBelowYears:
			junior++
		case t < seniorFromYears:
			mid++
		default:
			senior++
		}
	}

	total := float64(len(team))
	score := 0.0
	for _, band := range []struct {
		count int
		ideal float64
	}{
		{junior, idealJunior},
		{mid, idealMid},
		{senior, idealSenior},
	} {
		score += math.Max(0, 1-2*math.Abs(float64(band.count)/total-band.ideal))
	}
	return models.Round(score/3, 3)
}

func potentialWeight(tenure float64) float64 {
	if tenure < 2 {
		return 1.5
	} else if tenure < 5 {
		return 1.2
	} else if tenure < 10 {
		return 1.0
	}
	return 0.8
}

// WeightedPotential is the tenure-weighted mean of final scores, favouring
// newer members.
func WeightedPotential(team []*models.CandidateSummary) float64 {
	var sum, weights float64
	for _, c := range team {
		w := potentialWeight(c.Details.TenureYears)
		sum += c.FinalScore * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return models.Round(sum/weights, 3)
}

// MotivationBonus rewards members under five years of tenure with
// motivation of at least 4.
func MotivationBonus(team []*models.CandidateSummary) float64 {
	count := 0
	for _, c := range team {
		if c.Details.TenureYears < bonusTenureBelow && c.Details.Motivation >= bonusMotivationMin {
			count++
		}
	}
	return bonusPerMember * float64(count)
}

func totalFinalScore(team []*models.CandidateSummary) float64 {
	sum := 0.0
	for _, c := range team {
		sum += c.FinalScore
	}
	return sum
}

// objective scores a valid team for one strategy.
type objective func(team []*models.CandidateSummary) float64

func diversityObjective(team []*models.CandidateSummary) float64 {
	n := float64(len(team))
	return 0.6*totalFinalScore(team) + 0.25*DiversityScore(team)*n + 0.15*BalanceScore(team)*n
}

func potentialObjective(team []*models.CandidateSummary) float64 {
	return 0.7*WeightedPotential(team) + 0.2*BalanceScore(team) + 0.1*MotivationBonus(team)
}

func objectiveFor(s models.Strategy) objective {
	switch s {
	case models.StrategyDiversity:
		return diversityObjective
	case models.StrategyPotential:
		return potentialObjective
	default:
		return totalFinalScore
	}
}
