package models

// UnknownRole groups employees whose role is blank.
const UnknownRole = "Unknown"

// Employee is one record of the employee pool. The screening pipeline only
// reads it.
type Employee struct {
	EmployeeID       string                  `json:"employeeId" yaml:"employeeId"`
	Name             string                  `json:"name" yaml:"name"`
	Role             string                  `json:"role" yaml:"role"`
	AvailableTime    LenientFloat            `json:"availableTime" yaml:"availableTime"`
	MotivationByRole map[string]LenientFloat `json:"motivationByRole" yaml:"motivationByRole"`
	Certifications   []string                `json:"certifications" yaml:"certifications"`
	TenureYears      LenientFloat            `json:"tenureYears" yaml:"tenureYears"`
	Experience       map[string]LenientFloat `json:"experience" yaml:"experience"`
	Personality      PersonalityVector       `json:"personality" yaml:"personality"`
}

// RoleLabel returns the employee's role, or UnknownRole when blank.
func (e *Employee) RoleLabel() string {
	if e.Role == "" {
		return UnknownRole
	}
	return e.Role
}

// MotivationFor returns the raw motivation for role, 0 when absent.
func (e *Employee) MotivationFor(role string) float64 {
	return float64(e.MotivationByRole[role])
}

// TotalExperience sums experience years across domains.
func (e *Employee) TotalExperience() float64 {
	total := 0.0
	for _, years := range e.Experience {
		total += float64(years)
	}
	return total
}
