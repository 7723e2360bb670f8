// Package ranking runs the screening pipeline for every recruiting role of a
// project and aggregates the results.
package ranking

import (
	"context"
	"errors"
	"fmt"

	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/models"
	"staffing-workers/internal/staffing/screening"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Orchestrator struct {
	repo     Repository
	pipeline *screening.Pipeline
	tracer   trace.Tracer
	logger   logger.Logger
}

// NewOrchestrator wires the orchestrator. A nil tracer disables spans.
func NewOrchestrator(repo Repository, log logger.Logger, tracer trace.Tracer) *Orchestrator {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("ranking")
	}
	return &Orchestrator{
		repo:     repo,
		pipeline: screening.New(log),
		tracer:   tracer,
		logger:   log,
	}
}

// RankRoles screens the employee pool for each recruiting role of projectID.
// An unknown project is reported through RankingResult.Error; only storage
// failures are returned as errors.
func (o *Orchestrator) RankRoles(ctx context.Context, projectID string) (*models.RankingResult, error) {
	ctx, span := o.tracer.Start(ctx, "rank-roles", trace.WithAttributes(attribute.String("projectId", projectID)))
	defer span.End()

	project, err := o.repo.GetProject(ctx, projectID)
	if errors.Is(err, ErrProjectNotFound) || (err == nil && project == nil) {
		o.logger.Warn("project not found", map[string]interface{}{"projectId": projectID})
		span.SetAttributes(attribute.Bool("projectFound", false))
		return &models.RankingResult{
			ProjectInfo: models.ProjectInfo{ProjectID: projectID},
			Roles:       []models.RoleCandidateList{},
			Error:       models.ProjectNotFoundMessage,
		}, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load project")
		return nil, fmt.Errorf("load project %s: %w", projectID, err)
	}

	employees, err := o.repo.ListEmployees(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list employees")
		return nil, fmt.Errorf("list employees: %w", err)
	}
	byRole := groupByRole(employees)

	result := &models.RankingResult{
		ProjectInfo: models.ProjectInfo{
			ProjectID:      projectID,
			ProjectName:    project.Name,
			Category:       project.Category.Normalize(),
			Worktime:       project.RequiredWorktime(),
			TotalPositions: project.TotalPositions(),
		},
		Roles: make([]models.RoleCandidateList, 0, len(project.RecruitingRoles)),
	}

	for _, opening := range project.RecruitingRoles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pool, ok := byRole[opening.Role]
		if !ok {
			o.logger.Warn("no employees for role", map[string]interface{}{
				"projectId": projectID,
				"role":      opening.Role,
			})
			result.Roles = append(result.Roles, models.EmptyRoleCandidateList(opening.Role, opening.Headcount))
			continue
		}

		_, roleSpan := o.tracer.Start(ctx, "screen-role", trace.WithAttributes(
			attribute.String("role", opening.Role),
			attribute.Int("headcount", opening.Headcount),
			attribute.Int("pool", len(pool)),
		))
		list := o.pipeline.Run(pool, screening.RequirementsFor(project, opening))
		roleSpan.SetAttributes(attribute.Int("candidates", list.TotalCandidates))
		roleSpan.End()

		result.Roles = append(result.Roles, list)
		result.Summary.RolesProcessed++
		if list.TotalCandidates > 0 {
			result.Summary.RolesWithCandidates++
			result.Summary.TotalCandidates += list.TotalCandidates
		}
	}

	span.SetAttributes(
		attribute.Bool("projectFound", true),
		attribute.Int("totalCandidates", result.Summary.TotalCandidates),
	)
	o.logger.Info("roles ranked", map[string]interface{}{
		"projectId":           projectID,
		"rolesProcessed":      result.Summary.RolesProcessed,
		"rolesWithCandidates": result.Summary.RolesWithCandidates,
		"totalCandidates":     result.Summary.TotalCandidates,
	})
	return result, nil
}

func groupByRole(employees []models.Employee) map[string][]models.Employee {
	grouped := make(map[string][]models.Employee)
	for _, e := range employees {
		role := e.RoleLabel()
		grouped[role] = append(grouped[role], e)
	}
	return grouped
}
