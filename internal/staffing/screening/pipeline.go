// Package screening reduces one role's employee pool to a ranked candidate
// list through five ordered stages and a final scorer.
package screening

import (
	"maps"
	"math"
	"sort"

	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/metrics"
	"staffing-workers/internal/models"
	"staffing-workers/internal/staffing/personality"
)

const (
	MotivationThreshold = 3.0
	maxMotivation       = 5.0

	fitnessKeepFactor       = 10
	compatibilityKeepFactor = 5

	// levels are rounded to 0.1, so the tolerance comparison allows for
	// float drift on values like 0.8-0.7.
	levelEpsilon = 1e-9
)

// Stage names, used as log and metric labels.
const (
	StageAvailability  = "availability"
	StageMotivation    = "motivation"
	StageLevel         = "level"
	StageFitness       = "fitness"
	StageCompatibility = "compatibility"
)

// Requirements is what one role of a project asks of its candidates.
type Requirements struct {
	Role      string
	Headcount int
	Worktime  float64
	Level     float64
	Tolerance float64
	Category  models.ProjectCategory
	Leader    models.PersonalityVector
	SubLeader models.PersonalityVector
}

// RequirementsFor resolves the requirements of one recruiting role, applying
// the default worktime, level and tolerance.
func RequirementsFor(p *models.Project, opening models.RoleOpening) Requirements {
	req := Requirements{
		Role:      opening.Role,
		Headcount: opening.Headcount,
		Worktime:  p.RequiredWorktime(),
		Level:     DefaultRequiredLevel,
		Tolerance: DefaultLevelTolerance,
		Category:  p.Category.Normalize(),
		Leader:    p.LeaderPersonality,
		SubLeader: p.SubLeaderPersonality,
	}
	if rr, ok := p.RoleRequirements[opening.Role]; ok {
		if rr.Level != nil {
			req.Level = *rr.Level
		}
		if rr.LevelRange != nil {
			req.Tolerance = *rr.LevelRange
		}
	}
	return req
}

// candidate accumulates per-stage results for one employee.
type candidate struct {
	employee *models.Employee

	availableTime     float64
	motivation        float64
	level             float64
	fitness           float64
	fitnessRank       int
	leaderCompat      float64
	subLeaderCompat   float64
	compatibility     float64
	compatibilityRank int
}

type Pipeline struct {
	logger logger.Logger
}

func New(log logger.Logger) *Pipeline {
	return &Pipeline{logger: log}
}

// Run screens employees for one role. Employees are read, never modified.
func (p *Pipeline) Run(employees []models.Employee, req Requirements) models.RoleCandidateList {
	log := p.logger.WithFields(map[string]interface{}{
		"role":      req.Role,
		"headcount": req.Headcount,
	})
	log.Info("screening started", map[string]interface{}{"pool": len(employees)})

	pool := make([]candidate, len(employees))
	for i := range employees {
		pool[i] = candidate{employee: &employees[i]}
	}

	stages := []struct {
		name string
		run  func([]candidate) []candidate
	}{
		{StageAvailability, func(c []candidate) []candidate { return availability(c, req.Worktime) }},
		{StageMotivation, func(c []candidate) []candidate { return motivation(c, req.Role) }},
		{StageLevel, func(c []candidate) []candidate { return level(log, c, req) }},
		{StageFitness, func(c []candidate) []candidate { return fitness(c, req.Category, fitnessKeepFactor*req.Headcount) }},
		{StageCompatibility, func(c []candidate) []candidate {
			return compatibility(c, req.Leader, req.SubLeader, compatibilityKeepFactor*req.Headcount)
		}},
	}

	for _, stage := range stages {
		before := len(pool)
		pool = stage.run(pool)
		metrics.ScreeningSurvivors.WithLabelValues(stage.name).Add(float64(len(pool)))
		log.Info("stage completed", map[string]interface{}{
			"stage":  stage.name,
			"before": before,
			"after":  len(pool),
		})
		if len(pool) == 0 {
			return models.EmptyRoleCandidateList(req.Role, req.Headcount)
		}
	}

	result := finalize(pool, req)
	log.Info("screening completed", map[string]interface{}{"candidates": result.TotalCandidates})
	return result
}

func availability(in []candidate, worktime float64) []candidate {
	out := make([]candidate, 0, len(in))
	for _, c := range in {
		available := math.Max(0, c.employee.AvailableTime.Float64())
		if available >= worktime {
			c.availableTime = available
			out = append(out, c)
		}
	}
	return out
}

func motivation(in []candidate, role string) []candidate {
	out := make([]candidate, 0, len(in))
	for _, c := range in {
		m := clamp(c.employee.MotivationFor(role), 0, maxMotivation)
		if m >= MotivationThreshold {
			c.motivation = m
			out = append(out, c)
		}
	}
	return out
}

func level(log logger.Logger, in []candidate, req Requirements) []candidate {
	tolerance := req.Tolerance
	if tolerance == 0 {
		log.Warn("level tolerance of 0 widened", map[string]interface{}{
			"tolerance": MinLevelTolerance,
		})
		tolerance = MinLevelTolerance
	}

	out := make([]candidate, 0, len(in))
	minLevel, maxLevel, sum := math.Inf(1), math.Inf(-1), 0.0
	typical := 0
	for _, c := range in {
		c.level = Level(c.employee)
		minLevel = math.Min(minLevel, c.level)
		maxLevel = math.Max(maxLevel, c.level)
		sum += c.level
		if c.level >= 0.4 && c.level <= 0.6 {
			typical++
		}
		if math.Abs(c.level-req.Level) <= tolerance+levelEpsilon {
			out = append(out, c)
		}
	}

	if len(in) > 0 {
		log.Info("level distribution", map[string]interface{}{
			"requiredLevel": req.Level,
			"tolerance":     tolerance,
			"passed":        len(out),
			"passRate":      models.Round(float64(len(out))/float64(len(in))*100, 1),
			"min":           minLevel,
			"mean":          models.Round(sum/float64(len(in)), 2),
			"max":           maxLevel,
			"within04to06":  typical,
		})
		if len(out) == 0 {
			log.Warn("no candidate within level window", map[string]interface{}{
				"requiredLevel": req.Level,
				"tolerance":     tolerance,
				"min":           minLevel,
				"max":           maxLevel,
			})
		}
	}
	return out
}

func fitness(in []candidate, category models.ProjectCategory, keep int) []candidate {
	scored := make([]candidate, len(in))
	for i, c := range in {
		c.fitness = FitnessScore(c.employee.Personality, category)
		scored[i] = c
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].fitness > scored[j].fitness })

	scored = top(scored, keep)
	for i := range scored {
		scored[i].fitnessRank = i + 1
	}
	return scored
}

func compatibility(in []candidate, leader, subLeader models.PersonalityVector, keep int) []candidate {
	scored := make([]candidate, len(in))
	for i, c := range in {
		c.leaderCompat = personality.Compatibility(c.employee.Personality, leader)
		c.subLeaderCompat = personality.Compatibility(c.employee.Personality, subLeader)
		c.compatibility = models.Round((2*c.leaderCompat+c.subLeaderCompat)/3, 3)
		scored[i] = c
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].compatibility > scored[j].compatibility })

	scored = top(scored, keep)
	for i := range scored {
		scored[i].compatibilityRank = i + 1
	}
	return scored
}

func top(in []candidate, n int) []candidate {
	if n < 0 {
		n = 0
	}
	if n < len(in) {
		return in[:n]
	}
	return in
}

func finalize(in []candidate, req Requirements) models.RoleCandidateList {
	out := make([]models.CandidateSummary, 0, len(in))
	for _, c := range in {
		final, raw := FinalScore(c.fitness, c.compatibility)
		grade, desc := GradeFor(raw)
		e := c.employee

		certs := make([]string, len(e.Certifications))
		copy(certs, e.Certifications)

		out = append(out, models.CandidateSummary{
			EmployeeID:       e.EmployeeID,
			EmployeeName:     e.Name,
			Role:             req.Role,
			FinalScore:       final,
			Grade:            grade,
			GradeDescription: desc,
			PersonalityType:  string(personality.DeriveType(e.Personality)),
			Scores: models.CandidateScores{
				Level:               c.level,
				PersonalityFitness:  c.fitness,
				LeaderCompatibility: c.compatibility,
			},
			Details: models.CandidateDetails{
				Motivation:             c.motivation,
				Worktime:               c.availableTime,
				Certifications:         certs,
				TenureYears:            math.Max(0, e.TenureYears.Float64()),
				Personality:            maps.Clone(e.Personality),
				LeaderCompatibility:    c.leaderCompat,
				SubLeaderCompatibility: c.subLeaderCompat,
				FitnessRank:            c.fitnessRank,
				CompatibilityRank:      c.compatibilityRank,
			},
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].FinalScore > out[j].FinalScore })
	for i := range out {
		out[i].Rank = i + 1
	}

	return models.RoleCandidateList{
		Role:            req.Role,
		RequiredCount:   req.Headcount,
		TotalCandidates: len(out),
		Candidates:      out,
	}
}
