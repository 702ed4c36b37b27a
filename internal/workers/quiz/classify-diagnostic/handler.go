// internal/workers/quiz/classify-diagnostic/handler.go
package classifydiagnostic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	apperrors "diagnostic-workers/internal/common/errors"
	httpclient "diagnostic-workers/internal/common/http"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/models"
	"diagnostic-workers/pkg/diagnostic"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "classify-diagnostic"

	cacheKeyPrefix = "diagnostic:classification:"
)

var (
	ErrRemoteClassifierTimeout = errors.New("REMOTE_CLASSIFIER_TIMEOUT")
	ErrRemoteClassifierFailed  = errors.New("REMOTE_CLASSIFIER_FAILED")
	ErrIncompatibleResult      = errors.New("incompatible classification payload")
)

type Handler struct {
	config *Config
	http   *httpclient.Client
	redis  *redis.Client
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

// NewHandler builds the handler. redisClient may be nil, which disables
// caching of remote results.
func NewHandler(config *Config, redisClient *redis.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})

	client := httpclient.NewClient(config.RequestTimeout)
	if config.ClassifierAPIKey != "" {
		client.WithHeader("X-API-Key", config.ClassifierAPIKey)
	}

	return &Handler{
		config: config,
		http:   client,
		redis:  redisClient,
		logger: scoped,
		errors: apperrors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewParseError(fmt.Errorf("parse input: %w", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

// execute always produces a classification. The local engine result is the
// answer unless a remote classifier is configured and returns a usable one.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	result := diagnostic.Classify(input.Answers)
	source := models.SourceLocal

	if h.config.ClassifierBaseURL != "" {
		if remote, ok := h.remoteResult(ctx, input); ok {
			result = remote
			source = models.SourceRemote
		}
	}

	fallback := !diagnostic.HasRecommendation(result.Stage, result.Bottleneck)

	metrics.DiagnosticClassifications.WithLabelValues(string(result.Stage), string(result.Bottleneck), source).Inc()
	if fallback {
		metrics.DiagnosticFallbackRecommendations.WithLabelValues(string(result.Stage), string(result.Bottleneck)).Inc()
	}

	h.logger.Info("diagnostic classified", map[string]interface{}{
		"leadId":              input.LeadID,
		"stage":               result.Stage,
		"bottleneck":          result.Bottleneck,
		"engagementReadiness": result.EngagementReadiness,
		"recommendedSystem":   result.RecommendedSystem.Name,
		"source":              source,
		"fallbackOffer":       fallback,
	})

	return &Output{
		Classification:       result,
		ClassificationSource: source,
		FallbackOffer:        fallback,
	}, nil
}

// remoteResult consults the cache, then the remote classifier. Every failure
// is logged and reported as !ok so the caller keeps the local result.
func (h *Handler) remoteResult(ctx context.Context, input *Input) (diagnostic.Result, bool) {
	key := cacheKey(input.Answers)

	if cached, ok := h.cached(ctx, key); ok {
		metrics.RemoteClassifierRequests.WithLabelValues("cache_hit").Inc()
		return cached, true
	}

	remote, err := h.classifyRemote(ctx, input.Answers)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrIncompatibleResult) {
			outcome = "incompatible"
		}
		metrics.RemoteClassifierRequests.WithLabelValues(outcome).Inc()
		h.logger.Warn("remote classifier unavailable, using local result", map[string]interface{}{
			"leadId":    input.LeadID,
			"error":     err.Error(),
			"errorCode": string(apperrors.FromError(err).Code),
		})
		return diagnostic.Result{}, false
	}

	metrics.RemoteClassifierRequests.WithLabelValues("hit").Inc()
	h.store(ctx, key, remote)
	return remote, true
}

func (h *Handler) classifyRemote(ctx context.Context, answers diagnostic.AnswerSet) (diagnostic.Result, error) {
	url := strings.TrimRight(h.config.ClassifierBaseURL, "/") + "/classify"
	if answers == nil {
		answers = diagnostic.AnswerSet{}
	}
	body := classifyRequest{Answers: answers}

	var lastErr error
	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return diagnostic.Result{}, ErrRemoteClassifierTimeout
			}
		}

		resp, err := h.http.PostJSON(ctx, url, body)
		if ctx.Err() != nil {
			return diagnostic.Result{}, ErrRemoteClassifierTimeout
		}
		if err != nil {
			if isTimeout(err) {
				lastErr = fmt.Errorf("%w: %v", ErrRemoteClassifierTimeout, err)
			} else {
				lastErr = fmt.Errorf("%w: %v", ErrRemoteClassifierFailed, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var result diagnostic.Result
			if err := resp.Decode(&result); err != nil {
				return diagnostic.Result{}, fmt.Errorf("%w: %w: %v", ErrRemoteClassifierFailed, ErrIncompatibleResult, err)
			}
			if !result.Complete() {
				return diagnostic.Result{}, fmt.Errorf("%w: %w: stage=%q bottleneck=%q",
					ErrRemoteClassifierFailed, ErrIncompatibleResult, result.Stage, result.Bottleneck)
			}
			return result, nil
		}

		lastErr = fmt.Errorf("%w: status %d", ErrRemoteClassifierFailed, resp.StatusCode)
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			break
		}
	}

	return diagnostic.Result{}, lastErr
}

func (h *Handler) cached(ctx context.Context, key string) (diagnostic.Result, bool) {
	if h.redis == nil {
		return diagnostic.Result{}, false
	}

	val, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("classification cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return diagnostic.Result{}, false
	}

	var result diagnostic.Result
	if err := json.Unmarshal([]byte(val), &result); err != nil || !result.Complete() {
		return diagnostic.Result{}, false
	}
	return result, true
}

func (h *Handler) store(ctx context.Context, key string, result diagnostic.Result) {
	if h.redis == nil {
		return
	}

	data, _ := json.Marshal(result)
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("classification cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// cacheKey hashes the answers in question order so equal answer sets share
// an entry regardless of map iteration order.
func cacheKey(answers diagnostic.AnswerSet) string {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	hash := sha256.New()
	for _, id := range ids {
		fmt.Fprintf(hash, "%s=%s\n", id, answers[id])
	}
	return cacheKeyPrefix + hex.EncodeToString(hash.Sum(nil))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	stdErr := h.errors.HandleJobError(context.Background(), client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
