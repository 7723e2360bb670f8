// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	awsclients "staffing-workers/internal/common/aws"
	"staffing-workers/internal/common/camunda"
	"staffing-workers/internal/common/config"
	"staffing-workers/internal/common/database"
	"staffing-workers/internal/common/logger"
	"staffing-workers/internal/common/observability"
	"staffing-workers/internal/staffing/ranking"
	"staffing-workers/internal/staffing/store"
	"staffing-workers/pkg/registry"

	gtp "staffing-workers/internal/workers/staffing/generate-team-proposals"
	itp "staffing-workers/internal/workers/staffing/index-team-proposals"
	ntp "staffing-workers/internal/workers/staffing/notify-team-proposals"
	rrc "staffing-workers/internal/workers/staffing/rank-role-candidates"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting staffing worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Tracing.ServiceName, cfg.Tracing)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Redis ---
	// The employee cache is optional; the store reads through to Postgres
	// when Redis is absent.
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Warn("redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Staffing domain ---
	var cache *redis.Client
	if rdb != nil {
		cache = rdb.GetClient()
	}
	repo := store.New(pg.GetDB(), cache, store.Config{
		EmployeesTable: cfg.Staffing.EmployeesTable,
		ProjectsTable:  cfg.Staffing.ProjectsTable,
		CacheTTL:       config.GetDuration(cfg.Staffing.CacheTTL),
	}, log)
	orchestrator := ranking.NewOrchestrator(repo, log, obs.Tracer())

	var generateSchema map[string]interface{}
	if reg, err := registry.LoadRegistry(cfg.Staffing.RegistryPath); err != nil {
		zapLog.Warn("activity registry not loaded, using built-in schemas",
			zap.String("path", cfg.Staffing.RegistryPath), zap.Error(err))
	} else if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	} else if activity, ok := reg.Find(gtp.TaskType); ok {
		generateSchema = activity.InputSchema
	}

	// --- Workers ---
	group := camunda.NewWorkerGroup(zeebe.GetClient(), log)

	rankHandler, err := rrc.NewHandler(rrc.HandlerOptions{
		AppConfig:     cfg,
		Ranker:        orchestrator,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create rank-role-candidates handler", zap.Error(err))
	}
	group.Start(rankHandler, config.GetWorkerConfig(cfg, rrc.TaskType))

	generateHandler, err := gtp.NewHandler(gtp.HandlerOptions{
		AppConfig:     cfg,
		InputSchema:   generateSchema,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create generate-team-proposals handler", zap.Error(err))
	}
	group.Start(generateHandler, config.GetWorkerConfig(cfg, gtp.TaskType))

	indexHandler, err := itp.NewHandler(itp.HandlerOptions{
		AppConfig:     cfg,
		Client:        esClient.Client,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		zapLog.Fatal("failed to create index-team-proposals handler", zap.Error(err))
	}
	group.Start(indexHandler, config.GetWorkerConfig(cfg, itp.TaskType))

	notifyOpts := ntp.HandlerOptions{AppConfig: cfg, Observability: obs, Logger: log}
	awsCfg := cfg.Integrations.AWS
	if awsCfg.SNS.Enabled {
		if notifyOpts.SNS, err = awsclients.NewSNSClient(ctx, awsCfg.Region); err != nil {
			zapLog.Fatal("failed to create SNS client", zap.Error(err))
		}
	}
	if awsCfg.SES.Enabled {
		if notifyOpts.SES, err = awsclients.NewSESClient(ctx, awsCfg.Region); err != nil {
			zapLog.Fatal("failed to create SES client", zap.Error(err))
		}
	}
	notifyHandler, err := ntp.NewHandler(notifyOpts)
	if err != nil {
		zapLog.Fatal("failed to create notify-team-proposals handler", zap.Error(err))
	}
	group.Start(notifyHandler, config.GetWorkerConfig(cfg, ntp.TaskType))

	started := group.TaskTypes()
	sort.Strings(started)
	zapLog.Info("Workers registered", zap.Strings("taskTypes", started))

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.App.HTTPAddress,
		Handler:           newMux(zeebe, pg, started),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.App.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	group.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func newMux(zeebe *camunda.Client, pg *database.PostgresClient, taskTypes []string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"zeebe": "ok", "postgres": "ok"}
		status := http.StatusOK
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			checks["zeebe"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := pg.Ping(r.Context()); err != nil {
			checks["postgres"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		writeStatus(w, status, map[string]interface{}{
			"status":  state,
			"checks":  checks,
			"workers": taskTypes,
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
