package ranking

import (
	"context"
	"errors"
	"sync"

	"staffing-workers/internal/models"
)

// ErrProjectNotFound is returned by a Repository for an unknown project id.
var ErrProjectNotFound = errors.New("project not found")

// Repository is the storage collaborator of the orchestrator. GetProject
// returns the project with leader and sub-leader vectors already resolved.
type Repository interface {
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
}

// ResolveLeaders fills the leader and sub-leader vectors of p from the
// employees named by LeaderID and SubLeaderID. Vectors already set win.
func ResolveLeaders(p *models.Project, employees []models.Employee) {
	if p.LeaderID == "" && p.SubLeaderID == "" {
		return
	}
	for i := range employees {
		e := &employees[i]
		if e.EmployeeID == "" {
			continue
		}
		if e.EmployeeID == p.LeaderID && p.LeaderPersonality.IsEmpty() {
			p.LeaderPersonality = e.Personality
		}
		if e.EmployeeID == p.SubLeaderID && p.SubLeaderPersonality.IsEmpty() {
			p.SubLeaderPersonality = e.Personality
		}
	}
}

// MemoryRepository serves fixtures held in memory.
type MemoryRepository struct {
	mu        sync.RWMutex
	employees []models.Employee
	projects  map[string]models.Project
}

func NewMemoryRepository(employees []models.Employee, projects []models.Project) *MemoryRepository {
	r := &MemoryRepository{
		employees: employees,
		projects:  make(map[string]models.Project, len(projects)),
	}
	for _, p := range projects {
		r.projects[p.ProjectID] = p
	}
	return r
}

func (r *MemoryRepository) GetProject(_ context.Context, projectID string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[projectID]
	if !ok {
		return nil, ErrProjectNotFound
	}
	ResolveLeaders(&p, r.employees)
	return &p, nil
}

func (r *MemoryRepository) ListEmployees(_ context.Context) ([]models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Employee, len(r.employees))
	copy(out, r.employees)
	return out, nil
}

// PutProject adds or replaces a project.
func (r *MemoryRepository) PutProject(p models.Project) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ProjectID] = p
}
