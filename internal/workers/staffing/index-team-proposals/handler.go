package indexteamproposals

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"staffing-workers/internal/common/config"
	"staffing-workers/internal/common/errors"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/metrics"
	"staffing-workers/internal/common/observability"
	"staffing-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "index-team-proposals"

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	logger       logger.Logger
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Client        *elasticsearch.Client
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("elasticsearch client is required for %s", TaskType)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       workerConfig,
		client:       opts.Client,
		logger:       loggerInstance,
		obs:          opts.Observability,
		errorHandler: errors.NewErrorHandler(loggerInstance),
		now:          time.Now,
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

	h.logger.Info("Processing proposal index request", map[string]interface{}{
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

// Execute writes the proposal set under its id, so a retried job overwrites
// the same document instead of duplicating it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	doc := h.buildDocument(input)
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	req := esapi.IndexRequest{
		Index:      h.config.Index,
		DocumentID: input.ProposalSetID,
		Body:       bytes.NewReader(body),
		Refresh:    h.config.Refresh,
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return nil, errors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		retryable := res.StatusCode >= http.StatusInternalServerError || res.StatusCode == http.StatusTooManyRequests
		return nil, errors.NewIndexOperationFailedError(h.config.Index, res.String(), retryable)
	}

	var parsed indexResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		h.logger.Warn("Unreadable index response", map[string]interface{}{"error": err.Error()})
	}

	h.logger.Info("Proposal set indexed", map[string]interface{}{
		"index":         h.config.Index,
		"proposalSetId": input.ProposalSetID,
		"result":        parsed.Result,
	})

	return &Output{
		Indexed:    true,
		Index:      h.config.Index,
		DocumentID: input.ProposalSetID,
		Result:     parsed.Result,
	}, nil
}

func (h *Handler) buildDocument(input *Input) ProposalDocument {
	doc := ProposalDocument{
		ProposalSetID: input.ProposalSetID,
		ProjectID:     input.ProjectID,
		IndexedAt:     h.now().UTC(),
		Members:       []IndexedMember{},
		Proposals:     input.Proposals,
	}
	for _, p := range input.Proposals.All() {
		if p.Found {
			doc.FoundCount++
		}
		for _, m := range p.Members {
			doc.Members = append(doc.Members, IndexedMember{
				Strategy:     p.Strategy,
				EmployeeID:   m.EmployeeID,
				EmployeeName: m.EmployeeName,
				Role:         m.Role,
			})
		}
	}
	return doc
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

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
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
	}
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
		if appConfig.Staffing.ProposalsIndex != "" {
			cfg.Index = appConfig.Staffing.ProposalsIndex
		}
	}

	return cfg
}
