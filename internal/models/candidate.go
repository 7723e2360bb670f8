package models

// Grade buckets a final score.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// NoCandidatesMessage marks an empty RoleCandidateList.
const NoCandidatesMessage = "no candidates passed screening"

type CandidateScores struct {
	Level               float64 `json:"level"`
	PersonalityFitness  float64 `json:"personalityFitness"`
	LeaderCompatibility float64 `json:"leaderCompatibility"`
}

type CandidateDetails struct {
	Motivation             float64           `json:"motivation"`
	Worktime               float64           `json:"worktime"`
	Certifications         []string          `json:"certifications"`
	TenureYears            float64           `json:"tenureYears"`
	Personality            PersonalityVector `json:"personality,omitempty"`
	LeaderCompatibility    float64           `json:"leaderCompatibility"`
	SubLeaderCompatibility float64           `json:"subLeaderCompatibility"`
	FitnessRank            int               `json:"fitnessRank"`
	CompatibilityRank      int               `json:"compatibilityRank"`
}

// CandidateSummary is one ranked candidate for a role.
type CandidateSummary struct {
	Rank             int              `json:"rank"`
	EmployeeID       string           `json:"employeeId"`
	EmployeeName     string           `json:"employeeName"`
	Role             string           `json:"role"`
	FinalScore       float64          `json:"finalScore"`
	Grade            Grade            `json:"grade"`
	GradeDescription string           `json:"gradeDescription"`
	PersonalityType  string           `json:"personalityType"`
	Scores           CandidateScores  `json:"scores"`
	Details          CandidateDetails `json:"details"`
}

// Identity is the key used to exclude a candidate across proposals.
func (c *CandidateSummary) Identity() string {
	if c.EmployeeID != "" {
		return c.EmployeeID
	}
	return c.EmployeeName
}

// RoleCandidateList is the screening result for one role.
type RoleCandidateList struct {
	Role            string             `json:"role"`
	RequiredCount   int                `json:"requiredCount"`
	TotalCandidates int                `json:"totalCandidates"`
	Candidates      []CandidateSummary `json:"candidates"`
	Message         string             `json:"message,omitempty"`
}

// EmptyRoleCandidateList is the sentinel for a role nobody survived.
func EmptyRoleCandidateList(role string, required int) RoleCandidateList {
	return RoleCandidateList{
		Role:          role,
		RequiredCount: required,
		Candidates:    []CandidateSummary{},
		Message:       NoCandidatesMessage,
	}
}

type ProjectInfo struct {
	ProjectID      string          `json:"projectId"`
	ProjectName    string          `json:"projectName"`
	Category       ProjectCategory `json:"category"`
	Worktime       float64         `json:"worktime"`
	TotalPositions int             `json:"totalPositions"`
}

type RankingSummary struct {
	TotalCandidates     int `json:"totalCandidates"`
	RolesProcessed      int `json:"rolesProcessed"`
	RolesWithCandidates int `json:"rolesWithCandidates"`
}

// ProjectNotFoundMessage is set on RankingResult.Error for an unknown project.
const ProjectNotFoundMessage = "Project not found"

// RankingResult aggregates every role of one project. Roles follow the
// project's recruiting order.
type RankingResult struct {
	ProjectInfo ProjectInfo         `json:"projectInfo"`
	Roles       []RoleCandidateList `json:"roles"`
	Summary     RankingSummary      `json:"summary"`
	Error       string              `json:"error,omitempty"`
}

// Found reports whether the project existed.
func (r *RankingResult) Found() bool {
	return r.Error == ""
}
