package notifyteamproposals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awsclients "staffing-workers/internal/common/aws"
	"staffing-workers/internal/common/config"
	"staffing-workers/internal/common/errors"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/metrics"
	"staffing-workers/internal/common/observability"
	"staffing-workers/internal/common/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "notify-team-proposals"

type Handler struct {
	config       *Config
	sns          awsclients.SNSPublisher
	ses          awsclients.SESSender
	logger       logger.Logger
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	// SNS and SES are only required for the channels the config enables.
	SNS           awsclients.SNSPublisher
	SES           awsclients.SESSender
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if workerConfig.SNSEnabled && opts.SNS == nil {
		return nil, fmt.Errorf("sns client is required for %s when sns is enabled", TaskType)
	}
	if workerConfig.SESEnabled && opts.SES == nil {
		return nil, fmt.Errorf("ses client is required for %s when ses is enabled", TaskType)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:       workerConfig,
		sns:          opts.SNS,
		ses:          opts.SES,
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

	h.logger.Info("Processing proposal notification", map[string]interface{}{
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

// Execute publishes the proposal summary on every enabled channel. The first
// failing channel fails the job as retryable.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	notificationID := uuid.New().String()
	output := &Output{
		NotificationID: notificationID,
		Status:         StatusDisabled,
		Channels:       []string{},
		SentAt:         h.now().UTC().Format(time.RFC3339),
	}

	found := 0
	for _, p := range input.Proposals.All() {
		if p.Found {
			found++
		}
	}

	projectName := input.ProjectName
	if projectName == "" {
		projectName = input.ProjectID
	}
	data := map[string]interface{}{
		"projectId":     input.ProjectID,
		"projectName":   projectName,
		"proposalSetId": input.ProposalSetID,
		"foundCount":    found,
		"teams":         summarizeTeams(&input.Proposals),
	}
	subject := renderTemplate(subjectTemplate, data)
	body := renderTemplate(bodyTemplate, data)

	if h.config.SNSEnabled {
		event := proposalEvent{
			NotificationID: notificationID,
			ProjectID:      input.ProjectID,
			ProposalSetID:  input.ProposalSetID,
			FoundCount:     found,
			Teams:          input.Proposals.Reduced(),
		}
		if err := h.publish(ctx, subject, event); err != nil {
			return nil, errors.NewNotificationSendFailedError(ChannelSNS, err)
		}
		output.Channels = append(output.Channels, ChannelSNS)
	}

	if h.config.SESEnabled {
		if err := h.sendEmail(ctx, subject, body); err != nil {
			return nil, errors.NewNotificationSendFailedError(ChannelSES, err)
		}
		output.Channels = append(output.Channels, ChannelSES)
	}

	if len(output.Channels) > 0 {
		output.Status = StatusSent
	}

	h.logger.Info("Proposal notification processed", map[string]interface{}{
		"notificationId": notificationID,
		"proposalSetId":  input.ProposalSetID,
		"status":         output.Status,
		"channels":       output.Channels,
	})
	return output, nil
}

func (h *Handler) publish(ctx context.Context, subject string, event proposalEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = h.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.TopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(message)),
	})
	return err
}

func (h *Handler) sendEmail(ctx context.Context, subject, body string) error {
	_, err := h.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: h.config.Recipients,
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
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

		awsCfg := appConfig.Integrations.AWS
		cfg.SNSEnabled = awsCfg.SNS.Enabled
		cfg.TopicARN = awsCfg.SNS.TopicARN
		cfg.SESEnabled = awsCfg.SES.Enabled
		cfg.FromEmail = awsCfg.SES.FromEmail
		cfg.Recipients = awsCfg.SES.Recipients
	}

	return cfg
}
