package notifyteamproposals

import (
	"fmt"
	"strings"

	"staffing-workers/internal/models"
)

const (
	subjectTemplate = "Team proposals ready for {{projectName}}"
	bodyTemplate    = "Proposal set {{proposalSetId}} for project {{projectId}} found {{foundCount}} of 3 teams.\n\n{{teams}}"
)

// renderTemplate replaces {{key}} placeholders and drops any left unmatched.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		switch t := v.(type) {
		case string:
			value = t
		case nil:
		default:
			value = fmt.Sprintf("%v", t)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}

	return result
}

// summarizeTeams renders one line per strategy.
func summarizeTeams(set *models.ProposalSet) string {
	var b strings.Builder
	for _, p := range set.All() {
		b.WriteString(string(p.Strategy))
		b.WriteString(": ")
		if !p.Found {
			b.WriteString("no team found\n")
			continue
		}
		names := make([]string, 0, len(p.Members))
		for _, m := range p.Members {
			names = append(names, fmt.Sprintf("%s (%s)", m.EmployeeName, m.Role))
		}
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}
	return b.String()
}
