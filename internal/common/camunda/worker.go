package camunda

import (
	"context"
	"sync"
	"time"

	"diagnostic-workers/internal/common/config"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeThrown    = "thrown"
	OutcomeUnknown   = "unknown"
)

// trackingClient records which terminal command a handler issued for a job.
type trackingClient struct {
	worker.JobClient
	mu      sync.Mutex
	outcome string
}

func (c *trackingClient) set(outcome string) {
	c.mu.Lock()
	c.outcome = outcome
	c.mu.Unlock()
}

func (c *trackingClient) Outcome() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == "" {
		return OutcomeUnknown
	}
	return c.outcome
}

func (c *trackingClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.set(OutcomeCompleted)
	return c.JobClient.NewCompleteJobCommand()
}

func (c *trackingClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.set(OutcomeFailed)
	return c.JobClient.NewFailJobCommand()
}

func (c *trackingClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.set(OutcomeThrown)
	return c.JobClient.NewThrowErrorCommand()
}

// Instrument wraps a job handler with the active-jobs gauge, duration
// histogram and completion counters for taskType.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		tracked := &trackingClient{JobClient: client}
		start := time.Now()

		handler(tracked, job)

		elapsed := time.Since(start)
		outcome := tracked.Outcome()
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if outcome == OutcomeCompleted {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		}
		obs.RecordJobProcessed(context.Background(), taskType, outcome)
		obs.RecordJobDuration(context.Background(), taskType, elapsed, outcome)
	}
}

// StartWorker opens a job worker for taskType. It returns nil when the
// worker is disabled in configuration.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler worker.JobHandler,
	obs *observability.Observability,
	log logger.Logger,
) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}
