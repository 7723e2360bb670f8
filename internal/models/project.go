package models

import "strings"

// DefaultWorktime is the required weekly worktime when a project omits it.
const DefaultWorktime = 20.0

// ProjectCategory selects the personality fitness formula.
type ProjectCategory string

const (
	CategoryNewDevelopment ProjectCategory = "new-development"
	CategoryMaintenance    ProjectCategory = "maintenance"
	CategoryClientFacing   ProjectCategory = "client-facing"
)

var categoryAliases = map[string]ProjectCategory{
	"新規開発":     CategoryNewDevelopment,
	"改善・保守":    CategoryMaintenance,
	"クライアント対応": CategoryClientFacing,
}

// Normalize maps aliases onto the canonical values. Empty means
// new-development; unrecognized values are returned unchanged.
func (c ProjectCategory) Normalize() ProjectCategory {
	trimmed := strings.TrimSpace(string(c))
	if trimmed == "" {
		return CategoryNewDevelopment
	}
	if canonical, ok := categoryAliases[trimmed]; ok {
		return canonical
	}
	return ProjectCategory(strings.ToLower(trimmed))
}

// RoleRequirement holds the level window for a role. Nil fields take defaults.
type RoleRequirement struct {
	Level      *float64 `json:"level,omitempty" yaml:"level,omitempty"`
	LevelRange *float64 `json:"levelRange,omitempty" yaml:"levelRange,omitempty"`
}

// RoleOpening is one recruiting role and its headcount.
type RoleOpening struct {
	Role      string `json:"role" yaml:"role"`
	Headcount int    `json:"headcount" yaml:"headcount"`
}

// Project describes what a team must satisfy. RecruitingRoles keeps
// declaration order, which fixes the team search enumeration order.
type Project struct {
	ProjectID            string                     `json:"projectId" yaml:"projectId"`
	Name                 string                     `json:"name" yaml:"name"`
	Category             ProjectCategory            `json:"category" yaml:"category"`
	Worktime             *float64                   `json:"worktime,omitempty" yaml:"worktime,omitempty"`
	RoleRequirements     map[string]RoleRequirement `json:"roleRequirements" yaml:"roleRequirements"`
	RecruitingRoles      []RoleOpening              `json:"recruitingRoles" yaml:"recruitingRoles"`
	LeaderID             string                     `json:"leaderId,omitempty" yaml:"leaderId,omitempty"`
	SubLeaderID          string                     `json:"subLeaderId,omitempty" yaml:"subLeaderId,omitempty"`
	LeaderPersonality    PersonalityVector          `json:"leaderPersonality,omitempty" yaml:"leaderPersonality,omitempty"`
	SubLeaderPersonality PersonalityVector          `json:"subLeaderPersonality,omitempty" yaml:"subLeaderPersonality,omitempty"`
}

// RequiredWorktime returns the configured worktime or DefaultWorktime.
func (p *Project) RequiredWorktime() float64 {
	if p.Worktime == nil {
		return DefaultWorktime
	}
	return *p.Worktime
}

// TotalPositions sums the headcount of every recruiting role.
func (p *Project) TotalPositions() int {
	total := 0
	for _, opening := range p.RecruitingRoles {
		total += opening.Headcount
	}
	return total
}
