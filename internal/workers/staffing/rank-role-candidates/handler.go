package rankrolecandidates

import (
	"context"
	"fmt"
	"time"

	"staffing-workers/internal/common/config"
	"staffing-workers/internal/common/errors"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/metrics"
	"staffing-workers/internal/common/observability"
	"staffing-workers/internal/common/validation"
	"staffing-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "rank-role-candidates"

// Ranker is satisfied by ranking.Orchestrator.
type Ranker interface {
	RankRoles(ctx context.Context, projectID string) (*models.RankingResult, error)
}

type Handler struct {
	config       *Config
	ranker       Ranker
	logger       logger.Logger
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Ranker        Ranker
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Ranker == nil {
		return nil, fmt.Errorf("ranker is required for %s", TaskType)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       workerConfig,
		ranker:       opts.Ranker,
		logger:       loggerInstance,
		obs:          opts.Observability,
		errorHandler: errors.NewErrorHandler(loggerInstance),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int64("jobKey", job.GetKey()))
	defer span.End()

	h.logger.Info("Processing rank role candidates request", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	output, err := h.Execute(ctx, input)
	if err == nil && !output.ProjectFound {
		err = errors.NewProjectNotFoundError(input.ProjectID)
	}
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.observe(ctx, "completed", startTime)
}

// Execute ranks every recruiting role of the project. An unknown project is
// reported through Output.ProjectFound, not as an error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := h.ranker.RankRoles(ctx, input.ProjectID)
	if err != nil {
		if _, ok := errors.AsStandardError(err); ok {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, errors.NewQueryTimeoutError("rank_roles")
		}
		return nil, errors.NewRankingFailedError(err)
	}

	h.logger.Info("Ranking completed", map[string]interface{}{
		"projectId":           input.ProjectID,
		"found":               result.Found(),
		"totalCandidates":     result.Summary.TotalCandidates,
		"rolesWithCandidates": result.Summary.RolesWithCandidates,
	})

	return &Output{
		Ranking:         result,
		ProjectFound:    result.Found(),
		TotalCandidates: result.Summary.TotalCandidates,
	}, nil
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewInputValidationFailedError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	return &Input{ProjectID: variables["projectId"].(string)}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	variables := map[string]interface{}{
		"ranking":         output.Ranking,
		"projectFound":    output.ProjectFound,
		"totalCandidates": output.TotalCandidates,
	}

	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(variables)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("Successfully completed rank role candidates", map[string]interface{}{
		"jobKey":          job.GetKey(),
		"totalCandidates": output.TotalCandidates,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, startTime time.Time) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, extractErrorCode(err)).Inc()
	h.observe(ctx, "failed", startTime)
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) observe(ctx context.Context, status string, startTime time.Time) {
	if h.obs == nil {
		return
	}
	h.obs.RecordJobProcessed(ctx, TaskType, status)
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), status)
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func extractErrorCode(err error) string {
	if stdErr, ok := errors.AsStandardError(err); ok {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers[TaskType]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = config.GetDuration(workerCfg.Timeout)
			}
		}
	}

	return cfg
}
