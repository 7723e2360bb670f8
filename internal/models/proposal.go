package models

// Strategy names one team proposal objective.
type Strategy string

const (
	StrategyPureScore Strategy = "pure-score"
	StrategyDiversity Strategy = "diversity-focused"
	StrategyPotential Strategy = "potential-focused"
)

// SearchMode records how a proposal was found.
type SearchMode string

const (
	SearchRanked     SearchMode = "ranked"
	SearchExhaustive SearchMode = "exhaustive"
	SearchGreedy     SearchMode = "greedy"
)

// NoTeamScore is reported when a strategy finds no valid team.
const NoTeamScore = -1.0

type TeamMember struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Role         string `json:"role"`
}

// TeamProposal is the best team one strategy found.
type TeamProposal struct {
	Strategy              Strategy     `json:"strategy"`
	Score                 float64      `json:"score"`
	Found                 bool         `json:"found"`
	SearchMode            SearchMode   `json:"searchMode"`
	CombinationsEvaluated int64        `json:"combinationsEvaluated"`
	Members               []TeamMember `json:"members"`
}

// NoTeam is the sentinel proposal for an exhausted search.
func NoTeam(strategy Strategy, mode SearchMode, evaluated int64) TeamProposal {
	return TeamProposal{
		Strategy:              strategy,
		Score:                 NoTeamScore,
		Found:                 false,
		SearchMode:            mode,
		CombinationsEvaluated: evaluated,
		Members:               []TeamMember{},
	}
}

// ProposalSet holds the three proposals in strategy order.
type ProposalSet struct {
	Set1 TeamProposal `json:"set1"`
	Set2 TeamProposal `json:"set2"`
	Set3 TeamProposal `json:"set3"`
}

// All returns the proposals in order.
func (p *ProposalSet) All() []TeamProposal {
	return []TeamProposal{p.Set1, p.Set2, p.Set3}
}

// ReducedMember is the external {employee_name, role} form.
type ReducedMember struct {
	EmployeeName string `json:"employee_name"`
	Role         string `json:"role"`
}

// Reduced returns {set1: [...], set2: [...], set3: [...]}.
func (p *ProposalSet) Reduced() map[string][]ReducedMember {
	reduce := func(tp TeamProposal) []ReducedMember {
		out := make([]ReducedMember, 0, len(tp.Members))
		for _, m := range tp.Members {
			out = append(out, ReducedMember{EmployeeName: m.EmployeeName, Role: m.Role})
		}
		return out
	}
	return map[string][]ReducedMember{
		"set1": reduce(p.Set1),
		"set2": reduce(p.Set2),
		"set3": reduce(p.Set3),
	}
}

// Identity matches CandidateSummary.Identity.
func (m TeamMember) Identity() string {
	if m.EmployeeID != "" {
		return m.EmployeeID
	}
	return m.EmployeeName
}
