package generateteamproposals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"staffing-workers/internal/common/config"
	"staffing-workers/internal/common/errors"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/metrics"
	"staffing-workers/internal/common/observability"
	"staffing-workers/internal/common/validation"
	"staffing-workers/internal/models"
	"staffing-workers/internal/staffing/teambuilder"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "generate-team-proposals"

// ProposalGenerator is satisfied by teambuilder.Generator.
type ProposalGenerator interface {
	Generate(ctx context.Context, req teambuilder.Request) (*models.ProposalSet, error)
}

type Handler struct {
	config       *Config
	generator    ProposalGenerator
	validator    *validation.DocumentValidator
	logger       logger.Logger
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	// Generator defaults to a teambuilder.Generator honoring the configured
	// combination ceiling.
	Generator ProposalGenerator
	// InputSchema overrides DefaultInputSchema, usually from the activity registry.
	InputSchema   map[string]interface{}
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"taskType": TaskType})

	schema := opts.InputSchema
	if len(schema) == 0 {
		schema = DefaultInputSchema()
	}
	validator, err := validation.NewDocumentValidator(schema)
	if err != nil {
		return nil, fmt.Errorf("input schema for %s: %w", TaskType, err)
	}

	generator := opts.Generator
	if generator == nil {
		genOpts := []teambuilder.Option{teambuilder.WithCombinationCeiling(workerConfig.CombinationCeiling)}
		if opts.Observability != nil {
			genOpts = append(genOpts, teambuilder.WithTracer(opts.Observability.Tracer()))
		}
		generator = teambuilder.NewGenerator(loggerInstance, genOpts...)
	}

	return &Handler{
		config:       workerConfig,
		generator:    generator,
		validator:    validator,
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

	h.logger.Info("Processing team proposal request", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.observe(ctx, "completed", startTime)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	projectID := input.ProjectID
	if projectID == "" {
		projectID = input.Ranking.ProjectInfo.ProjectID
	}

	set, err := h.generator.Generate(ctx, teambuilder.Request{
		Roles:  input.Ranking.Roles,
		Recent: input.RecentCollaborators,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewSearchCancelledError(err)
		}
		return nil, errors.NewTeamGenerationFailedError(err)
	}

	output := &Output{
		ProposalSetID: uuid.New().String(),
		ProjectID:     projectID,
		Proposals:     set,
		Reduced:       set.Reduced(),
	}

	found := 0
	for _, p := range set.All() {
		if p.Found {
			found++
		}
	}
	h.logger.Info("Team proposals generated", map[string]interface{}{
		"projectId":     projectID,
		"proposalSetId": output.ProposalSetID,
		"found":         found,
	})
	return output, nil
}

// parseInput validates the raw variables against the schema before decoding,
// so malformed rankings are rejected as validation failures.
func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	result, err := h.validator.Validate(variables)
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	if !result.Valid {
		return nil, errors.NewInputValidationFailedError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	variables := map[string]interface{}{
		"proposalSetId": output.ProposalSetID,
		"proposals":     output.Proposals,
		"set1":          output.Reduced["set1"],
		"set2":          output.Reduced["set2"],
		"set3":          output.Reduced["set3"],
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

	h.logger.Info("Successfully completed team proposal generation", map[string]interface{}{
		"jobKey":        job.GetKey(),
		"proposalSetId": output.ProposalSetID,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, startTime time.Time) {
	code := "UNKNOWN_ERROR"
	if stdErr, ok := errors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
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

func (h *Handler) GetConfig() *Config {
	return h.config
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
		if appConfig.Staffing.CombinationCeiling > 0 {
			cfg.CombinationCeiling = appConfig.Staffing.CombinationCeiling
		}
	}

	return cfg
}
