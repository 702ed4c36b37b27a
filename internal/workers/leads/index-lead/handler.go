// internal/workers/leads/index-lead/handler.go
package indexlead

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	TaskType = "index-lead"
)

var (
	ErrLeadValidationFailed          = errors.New("LEAD_VALIDATION_FAILED")
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrSearchIndexFailed             = errors.New("SEARCH_INDEX_FAILED")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: client,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.LeadID == "" {
		return nil, fmt.Errorf("%w: leadId is required", ErrLeadValidationFailed)
	}

	lead := models.Lead{
		ID:                   input.LeadID,
		Email:                input.Email,
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		Company:              input.Company,
		Answers:              input.Answers,
		Classification:       input.Classification,
		ClassificationSource: input.ClassificationSource,
	}
	if input.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, input.CreatedAt); err == nil {
			lead.CreatedAt = ts
		}
	}

	body, err := json.Marshal(lead.Document())
	if err != nil {
		return nil, fmt.Errorf("%w: marshal document: %v", ErrSearchIndexFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      h.config.Index,
		DocumentID: input.LeadID,
		Body:       bytes.NewReader(body),
		Refresh:    h.config.Refresh,
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElasticsearchConnectionFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("%w: %s: %s", ErrSearchIndexFailed, res.Status(), string(detail))
	}

	var parsed indexResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchIndexFailed, err)
	}

	h.logger.Info("lead indexed", map[string]interface{}{
		"leadId":  input.LeadID,
		"index":   h.config.Index,
		"result":  parsed.Result,
		"version": parsed.Version,
	})

	return &Output{
		Indexed:    true,
		Index:      h.config.Index,
		DocumentID: input.LeadID,
		Result:     parsed.Result,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
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
