// internal/common/camunda/worker.go
package camunda

import (
	"fmt"
	"sync"

	"staffing-workers/internal/common/config"
	"staffing-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is implemented by every staffing worker.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
	GetTaskType() string
}

// WorkerGroup opens job workers and closes them together on shutdown.
type WorkerGroup struct {
	client zbc.Client
	logger logger.Logger

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkerGroup(client zbc.Client, log logger.Logger) *WorkerGroup {
	return &WorkerGroup{
		client:  client,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for handler unless cfg disables it.
func (g *WorkerGroup) Start(handler JobHandler, cfg config.WorkerConfig) bool {
	taskType := handler.GetTaskType()
	if !cfg.Enabled {
		g.logger.Info("Worker disabled by configuration", map[string]interface{}{
			"taskType": taskType,
		})
		return false
	}

	jobWorker := g.client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(config.GetDuration(cfg.Timeout)).
		Name(fmt.Sprintf("%s-worker", taskType)).
		Open()

	g.mu.Lock()
	g.workers[taskType] = jobWorker
	g.mu.Unlock()

	g.logger.Info("Worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": cfg.MaxJobsActive,
		"timeoutMs":     cfg.Timeout,
	})
	return true
}

// TaskTypes lists the task types with an open worker.
func (g *WorkerGroup) TaskTypes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.workers))
	for taskType := range g.workers {
		out = append(out, taskType)
	}
	return out
}

// Close stops every worker. The zbc client is left to its owner.
func (g *WorkerGroup) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for taskType, w := range g.workers {
		g.logger.Info("Stopping worker", map[string]interface{}{"taskType": taskType})
		w.Close()
		w.AwaitClose()
	}
	g.workers = make(map[string]worker.JobWorker)
}
