// Package store loads employees and projects from Postgres with a Redis
// read-through cache. It implements ranking.Repository.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	apperrors "staffing-workers/internal/common/errors"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/metrics"
	"staffing-workers/internal/models"
	"staffing-workers/internal/staffing/ranking"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const (
	employeesCacheKey     = "staffing:employees:all"
	projectCacheKeyPrefix = "staffing:project:"

	DefaultCacheTTL = 5 * time.Minute
)

type Config struct {
	EmployeesTable string
	ProjectsTable  string
	CacheTTL       time.Duration
}

type Store struct {
	db     *sql.DB
	redis  *redis.Client
	config Config
	logger logger.Logger

	employeesQuery string
	projectQuery   string
	leadersQuery   string
}

var _ ranking.Repository = (*Store)(nil)

// New builds a Store. rdb may be nil, which disables caching.
func New(db *sql.DB, rdb *redis.Client, cfg Config, log logger.Logger) *Store {
	if cfg.EmployeesTable == "" {
		cfg.EmployeesTable = "employees"
	}
	if cfg.ProjectsTable == "" {
		cfg.ProjectsTable = "projects"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	employees := pq.QuoteIdentifier(cfg.EmployeesTable)
	projects := pq.QuoteIdentifier(cfg.ProjectsTable)

	return &Store{
		db:     db,
		redis:  rdb,
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"component": "staffing-store"}),
		employeesQuery: fmt.Sprintf(`
			SELECT employee_id, name, role, available_time, motivation_by_role,
			       certifications, tenure_years, experience, personality
			FROM %s
			ORDER BY employee_id`, employees),
		projectQuery: fmt.Sprintf(`
			SELECT project_id, name, category, worktime, role_requirements,
			       recruiting_roles, leader_id, sub_leader_id,
			       leader_personality, sub_leader_personality
			FROM %s
			WHERE project_id = $1`, projects),
		leadersQuery: fmt.Sprintf(`
			SELECT employee_id, personality
			FROM %s
			WHERE employee_id = ANY($1)`, employees),
	}
}

// ListEmployees returns the whole employee pool.
func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var cached []models.Employee
	if s.cacheGet(ctx, "employees", employeesCacheKey, &cached) {
		return cached, nil
	}

	rows, err := s.db.QueryContext(ctx, s.employeesQuery)
	if err != nil {
		return nil, queryError("list_employees", err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		var (
			e                                          models.Employee
			name, role, available, tenure              sql.NullString
			motivation, certs, experience, personality []byte
		)
		if err := rows.Scan(&e.EmployeeID, &name, &role, &available, &motivation,
			&certs, &tenure, &experience, &personality); err != nil {
			return nil, queryError("list_employees", err)
		}
		e.Name = name.String
		e.Role = role.String
		e.AvailableTime = decimal(available)
		e.TenureYears = decimal(tenure)
		s.decodeJSON(e.EmployeeID, "motivation_by_role", motivation, &e.MotivationByRole)
		s.decodeJSON(e.EmployeeID, "certifications", certs, &e.Certifications)
		s.decodeJSON(e.EmployeeID, "experience", experience, &e.Experience)
		s.decodeJSON(e.EmployeeID, "personality", personality, &e.Personality)
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("list_employees", err)
	}

	s.logger.Info("employees loaded", map[string]interface{}{"count": len(employees)})
	s.cacheSet(ctx, employeesCacheKey, employees)
	return employees, nil
}

// GetProject loads one project and resolves its leader and sub-leader
// personalities. An unknown id returns ranking.ErrProjectNotFound.
func (s *Store) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	key := projectCacheKeyPrefix + projectID

	var cached models.Project
	if s.cacheGet(ctx, "project", key, &cached) {
		return &cached, nil
	}

	var (
		p                                 models.Project
		name, category, worktime          sql.NullString
		leaderID, subLeaderID             sql.NullString
		requirements, openings            []byte
		leaderPersonality, subPersonality []byte
	)
	err := s.db.QueryRowContext(ctx, s.projectQuery, projectID).Scan(
		&p.ProjectID, &name, &category, &worktime, &requirements,
		&openings, &leaderID, &subLeaderID,
		&leaderPersonality, &subPersonality,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ranking.ErrProjectNotFound
	}
	if err != nil {
		return nil, queryError("get_project", err)
	}

	p.Name = name.String
	p.Category = models.ProjectCategory(category.String)
	if worktime.Valid {
		w := decimal(worktime).Float64()
		p.Worktime = &w
	}
	p.LeaderID = leaderID.String
	p.SubLeaderID = subLeaderID.String
	p.RoleRequirements = s.decodeRequirements(projectID, requirements)
	p.RecruitingRoles = s.decodeOpenings(projectID, openings)
	s.decodeJSON(projectID, "leader_personality", leaderPersonality, &p.LeaderPersonality)
	s.decodeJSON(projectID, "sub_leader_personality", subPersonality, &p.SubLeaderPersonality)

	if err := s.resolveLeaders(ctx, &p); err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, p)
	return &p, nil
}

func (s *Store) resolveLeaders(ctx context.Context, p *models.Project) error {
	var ids []string
	if p.LeaderID != "" && p.LeaderPersonality.IsEmpty() {
		ids = append(ids, p.LeaderID)
	}
	if p.SubLeaderID != "" && p.SubLeaderPersonality.IsEmpty() {
		ids = append(ids, p.SubLeaderID)
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx, s.leadersQuery, pq.Array(ids))
	if err != nil {
		return queryError("resolve_leaders", err)
	}
	defer rows.Close()

	var leaders []models.Employee
	for rows.Next() {
		var (
			e   models.Employee
			raw []byte
		)
		if err := rows.Scan(&e.EmployeeID, &raw); err != nil {
			return queryError("resolve_leaders", err)
		}
		s.decodeJSON(e.EmployeeID, "personality", raw, &e.Personality)
		leaders = append(leaders, e)
	}
	if err := rows.Err(); err != nil {
		return queryError("resolve_leaders", err)
	}

	ranking.ResolveLeaders(p, leaders)
	return nil
}

// decodeJSON leaves dst untouched when raw is empty or malformed.
func (s *Store) decodeJSON(id, column string, raw []byte, dst interface{}) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("malformed column ignored", map[string]interface{}{
			"id":     id,
			"column": column,
			"error":  err.Error(),
		})
	}
}

type rawRequirement struct {
	Level      *models.LenientFloat `json:"level"`
	LevelRange *models.LenientFloat `json:"levelRange"`
}

func (s *Store) decodeRequirements(id string, raw []byte) map[string]models.RoleRequirement {
	var decoded map[string]rawRequirement
	s.decodeJSON(id, "role_requirements", raw, &decoded)

	out := make(map[string]models.RoleRequirement, len(decoded))
	for role, r := range decoded {
		var req models.RoleRequirement
		if r.Level != nil {
			v := r.Level.Float64()
			req.Level = &v
		}
		if r.LevelRange != nil {
			v := r.LevelRange.Float64()
			req.LevelRange = &v
		}
		out[role] = req
	}
	return out
}

// decodeOpenings accepts an ordered [{role, headcount}] array. An object of
// role to headcount is accepted too and ordered by role name.
func (s *Store) decodeOpenings(id string, raw []byte) []models.RoleOpening {
	if len(raw) == 0 {
		return nil
	}

	var list []struct {
		Role      string              `json:"role"`
		Headcount models.LenientFloat `json:"headcount"`
	}
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]models.RoleOpening, 0, len(list))
		for _, o := range list {
			out = append(out, models.RoleOpening{Role: o.Role, Headcount: int(o.Headcount.Float64())})
		}
		return out
	}

	var byRole map[string]models.LenientFloat
	s.decodeJSON(id, "recruiting_roles", raw, &byRole)
	roles := make([]string, 0, len(byRole))
	for role := range byRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	out := make([]models.RoleOpening, 0, len(roles))
	for _, role := range roles {
		out = append(out, models.RoleOpening{Role: role, Headcount: int(byRole[role].Float64())})
	}
	return out
}

func decimal(ns sql.NullString) models.LenientFloat {
	if !ns.Valid {
		return 0
	}
	return models.LenientFloat(models.ToFloat(ns.String))
}

func queryError(queryType string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(queryType)
	}
	if errors.Is(err, sql.ErrConnDone) {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}
	return apperrors.NewQueryExecutionFailedError(queryType, err)
}

func (s *Store) cacheGet(ctx context.Context, entity, key string, dst interface{}) bool {
	if s.redis == nil {
		return false
	}

	val, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		metrics.RepositoryCacheLookups.WithLabelValues(entity, "miss").Inc()
		return false
	}
	if err != nil {
		metrics.RepositoryCacheLookups.WithLabelValues(entity, "error").Inc()
		s.logger.Warn("cache read failed", map[string]interface{}{
			"key":   key,
			"error": apperrors.NewCacheUnavailableError(err).Details,
		})
		return false
	}

	if err := json.Unmarshal([]byte(val), dst); err != nil {
		metrics.RepositoryCacheLookups.WithLabelValues(entity, "miss").Inc()
		return false
	}
	metrics.RepositoryCacheLookups.WithLabelValues(entity, "hit").Inc()
	return true
}

func (s *Store) cacheSet(ctx context.Context, key string, v interface{}) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Invalidate drops the cached employee pool and, when projectID is set, the
// cached project.
func (s *Store) Invalidate(ctx context.Context, projectID string) error {
	if s.redis == nil {
		return nil
	}
	keys := []string{employeesCacheKey}
	if projectID != "" {
		keys = append(keys, projectCacheKeyPrefix+projectID)
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return apperrors.NewCacheUnavailableError(err)
	}
	return nil
}
