// internal/workers/quiz/validate-quiz-answers/handler.go
package validatequizanswers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/validation"
	"diagnostic-workers/pkg/diagnostic"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-quiz-answers"
)

type Handler struct {
	config *Config
	schema validation.JSONSchema
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		schema: GetInputSchema(),
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	doc := map[string]interface{}{}
	if input.Answers != nil {
		doc["answers"] = input.Answers
	}

	result, err := validation.Validate(h.schema, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.New(apperrors.ErrCodeAnswersValidationFailed, "schema"), err)
	}

	output := &Output{
		Valid:            result.Valid,
		MissingQuestions: []string{},
		InvalidAnswers:   []InvalidAnswer{},
		Errors:           result.GetErrorMessages(),
	}

	missing := map[string]bool{}
	invalid := map[string]bool{}
	for _, e := range result.Errors {
		questionID, onAnswer := strings.CutPrefix(e.Field, "answers.")

		switch {
		case e.Field == "answers" && e.Code == "REQUIRED":
			for _, id := range diagnostic.QuestionIDs() {
				missing[id] = true
			}
		case onAnswer && e.Code == "REQUIRED":
			missing[questionID] = true
		case onAnswer && !invalid[questionID]:
			invalid[questionID] = true
			output.InvalidAnswers = append(output.InvalidAnswers, InvalidAnswer{
				QuestionID: questionID,
				Value:      input.Answers[questionID],
				Reason:     strings.ToLower(e.Code),
			})
		}
	}

	for _, id := range diagnostic.QuestionIDs() {
		if missing[id] {
			output.MissingQuestions = append(output.MissingQuestions, id)
		}
	}

	h.logger.Info("answers validated", map[string]interface{}{
		"leadId":           input.LeadID,
		"valid":            output.Valid,
		"missingQuestions": output.MissingQuestions,
		"invalidAnswers":   len(output.InvalidAnswers),
	})

	return output, nil
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
	_, err = cmd.Send(context.Background())
	if err != nil {
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
