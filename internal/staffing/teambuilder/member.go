package teambuilder

import (
	"sort"

	"staffing-workers/internal/models"
	"staffing-workers/internal/staffing/personality"
)

// member is a ranked candidate enriched with what the hard constraints need.
type member struct {
	summary *models.CandidateSummary
	role    string
	id      string
	ptype   personality.Type
	recent  map[string]struct{}
}

func newMember(c *models.CandidateSummary, role string, recent map[string][]string) *member {
	m := &member{
		summary: c,
		role:    role,
		id:      c.Identity(),
		ptype:   personality.Type(c.PersonalityType),
		recent:  map[string]struct{}{},
	}
	for _, key := range []string{m.id, c.EmployeeName} {
		for _, name := range recent[key] {
			m.recent[name] = struct{}{}
		}
	}
	return m
}

func (m *member) lists(other *member) bool {
	if _, ok := m.recent[other.id]; ok {
		return true
	}
	_, ok := m.recent[other.summary.EmployeeName]
	return ok
}

// samePerson needs an employee id on both sides. Records without one are
// never treated as duplicates, even when their names match.
func samePerson(a, b *member) bool {
	return a.summary.EmployeeID != "" && a.summary.EmployeeID == b.summary.EmployeeID
}

// compatible reports whether a and b may serve on the same team.
func compatible(a, b *member) bool {
	if a == b || samePerson(a, b) {
		return false
	}
	if a.lists(b) || b.lists(a) {
		return false
	}
	return !personality.Incompatible(a.ptype, b.ptype)
}

func validTeam(team []*member) bool {
	for i := 0; i < len(team); i++ {
		for j := i + 1; j < len(team); j++ {
			if !compatible(team[i], team[j]) {
				return false
			}
		}
	}
	return true
}

func compatibleWithAll(m *member, team []*member) bool {
	for _, other := range team {
		if !compatible(m, other) {
			return false
		}
	}
	return true
}

// pool is one role's candidates, best final score first.
type pool struct {
	role     string
	required int
	members  []*member
}

// size is the number of slots this pool fills.
func (p *pool) size() int {
	if p.required < len(p.members) {
		return p.required
	}
	return len(p.members)
}

func (p *pool) without(excluded map[string]struct{}) *pool {
	out := &pool{role: p.role, required: p.required, members: make([]*member, 0, len(p.members))}
	for _, m := range p.members {
		if _, ok := excluded[m.id]; ok {
			continue
		}
		out.members = append(out.members, m)
	}
	return out
}

// buildPools keeps roles with positive headcount and at least one ranked
// candidate, in request order.
func buildPools(roles []models.RoleCandidateList, recent map[string][]string) []*pool {
	pools := make([]*pool, 0, len(roles))
	for i := range roles {
		list := &roles[i]
		if list.RequiredCount <= 0 || len(list.Candidates) == 0 {
			continue
		}
		p := &pool{role: list.Role, required: list.RequiredCount}
		for j := range list.Candidates {
			p.members = append(p.members, newMember(&list.Candidates[j], list.Role, recent))
		}
		sort.SliceStable(p.members, func(a, b int) bool {
			return p.members[a].summary.FinalScore > p.members[b].summary.FinalScore
		})
		pools = append(pools, p)
	}
	return pools
}

func summaries(team []*member, buf []*models.CandidateSummary) []*models.CandidateSummary {
	buf = buf[:0]
	for _, m := range team {
		buf = append(buf, m.summary)
	}
	return buf
}

func teamMembers(team []*member) []models.TeamMember {
	out := make([]models.TeamMember, 0, len(team))
	for _, m := range team {
		out = append(out, models.TeamMember{
			EmployeeID:   m.summary.EmployeeID,
			EmployeeName: m.summary.EmployeeName,
			Role:         m.role,
		})
	}
	return out
}
