// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"diagnostic-workers/internal/common/aws"
	"diagnostic-workers/internal/common/camunda"
	"diagnostic-workers/internal/common/config"
	"diagnostic-workers/internal/common/database"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/observability"
	"diagnostic-workers/internal/common/zoho"
	"diagnostic-workers/pkg/registry"

	// Quiz Workers (2)
	cd "diagnostic-workers/internal/workers/quiz/classify-diagnostic"
	vqa "diagnostic-workers/internal/workers/quiz/validate-quiz-answers"

	// Lead Workers (2)
	clr "diagnostic-workers/internal/workers/leads/create-lead-record"
	il "diagnostic-workers/internal/workers/leads/index-lead"

	// Integration Workers (2)
	cls "diagnostic-workers/internal/workers/crm/crm-lead-sync"
	sdr "diagnostic-workers/internal/workers/communication/send-diagnostic-results"
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
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console", "stderr")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("envFile", config.EnvFile),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics exporter unavailable", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

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

	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("postgres schema setup failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Elasticsearch ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}

	if err := esClient.EnsureLeadIndex(ctx, cfg.Database.Elasticsearch.LeadIndex); err != nil {
		zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Database.Elasticsearch.LeadIndex))

	// --- Redis ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- External Service Clients ---
	var crm cls.CRMService
	if cfg.Integrations.Zoho.OAuthToken != "" {
		crm = zoho.NewCRMClient(
			cfg.Integrations.Zoho.BaseURL,
			cfg.Integrations.Zoho.OAuthToken,
			config.GetDuration(cfg.Integrations.Zoho.Timeout),
		)
	} else {
		zapLog.Warn("zoho oauth token not set, crm sync will be skipped")
	}

	var (
		sesClient aws.SESService
		snsClient aws.SNSService
	)
	if cfg.Integrations.AWS.SES.Enabled || cfg.Integrations.AWS.SNS.Enabled {
		awsClients, err := aws.NewClients(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Error("aws clients unavailable, notifications disabled", zap.Error(err))
		} else {
			sesClient = awsClients.SES
			snsClient = awsClients.SNS
		}
	}

	zapLog.Info("All external service clients initialized")

	// --- Workers ---
	zc := zeebe.GetClient()
	var workers []worker.JobWorker
	start := func(taskType string, handler worker.JobHandler) {
		if w := camunda.StartWorker(zc, taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, log); w != nil {
			workers = append(workers, w)
		}
	}
	timeoutFor := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	// --- 1. Quiz Workers ---
	start(vqa.TaskType, vqa.NewHandler(&vqa.Config{
		Timeout: timeoutFor(vqa.TaskType),
	}, log).Handle)

	start(cd.TaskType, cd.NewHandler(&cd.Config{
		Timeout:           timeoutFor(cd.TaskType),
		ClassifierBaseURL: cfg.APIs.Classifier.BaseURL,
		ClassifierAPIKey:  cfg.APIs.Classifier.APIKey,
		RequestTimeout:    config.GetDuration(cfg.APIs.Classifier.Timeout),
		MaxRetries:        cfg.APIs.Classifier.MaxRetries,
		CacheTTL:          time.Duration(cfg.APIs.Classifier.CacheTTL) * time.Second,
	}, redis.Client, log).Handle)

	// --- 2. Lead Workers ---
	start(clr.TaskType, clr.NewHandler(&clr.Config{
		Timeout: timeoutFor(clr.TaskType),
	}, pg.DB, log).Handle)

	start(il.TaskType, il.NewHandler(&il.Config{
		Timeout: timeoutFor(il.TaskType),
		Index:   cfg.Database.Elasticsearch.LeadIndex,
	}, esClient.Client, log).Handle)

	// --- 3. Integration Workers ---
	crmConfig := cls.LoadConfig()
	crmConfig.Timeout = timeoutFor(cls.TaskType)
	start(cls.TaskType, cls.NewHandler(crmConfig, crm, pg.DB, log).Handle)

	start(sdr.TaskType, sdr.NewHandler(&sdr.Config{
		Timeout:       timeoutFor(sdr.TaskType),
		EmailEnabled:  cfg.Integrations.AWS.SES.Enabled,
		FromEmail:     cfg.Integrations.AWS.SES.FromEmail,
		EventsEnabled: cfg.Integrations.AWS.SNS.Enabled,
		TopicARN:      cfg.Integrations.AWS.SNS.TopicARN,
		SiteBaseURL:   cfg.Site.BaseURL,
	}, sesClient, snsClient, log).Handle)

	zapLog.Info("Workers registered", zap.Int("running", len(workers)))

	checkRegistry(cfg, zapLog, []string{
		vqa.TaskType, cd.TaskType, clr.TaskType, il.TaskType, cls.TaskType, sdr.TaskType,
	})

	// --- Health & Metrics Server ---
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})
	http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})
	http.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// checkRegistry warns about enabled workers the activity registry does not
// describe. A missing registry file is logged and otherwise ignored.
func checkRegistry(cfg *config.Config, log *zap.Logger, taskTypes []string) {
	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", cfg.Registry.Path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry is invalid", zap.Error(err))
	}

	for _, taskType := range taskTypes {
		if !config.IsWorkerEnabled(cfg, taskType) {
			continue
		}
		if _, ok := reg.FindByTaskType(taskType); !ok {
			log.Warn("enabled worker missing from activity registry", zap.String("taskType", taskType))
		}
	}
}

func writeStatus(w http.ResponseWriter, code int, status, detail string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if detail != "" {
		body["error"] = detail
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
