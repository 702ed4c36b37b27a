// internal/workers/leads/create-lead-record/handler.go
package createleadrecord

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/validation"
	"diagnostic-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "create-lead-record"
)

var (
	ErrLeadValidationFailed = errors.New("LEAD_VALIDATION_FAILED")
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		db:     db,
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
	email := models.NormalizeEmail(input.Email)
	if !validation.ValidateEmail(email) {
		return nil, fmt.Errorf("%w: invalid email %q", ErrLeadValidationFailed, input.Email)
	}
	if !input.Classification.Complete() {
		return nil, fmt.Errorf("%w: classification is incomplete", ErrLeadValidationFailed)
	}

	source := input.ClassificationSource
	if source == "" {
		source = models.SourceLocal
	}

	answersJSON, err := json.Marshal(input.Answers)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal answers: %v", ErrLeadValidationFailed, err)
	}
	classificationJSON, err := json.Marshal(input.Classification)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal classification: %v", ErrLeadValidationFailed, err)
	}

	now := time.Now().UTC()
	c := input.Classification

	var leadID string
	var createdAt time.Time
	err = h.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM leads WHERE email = $1`, email,
	).Scan(&leadID, &createdAt)

	status := models.LeadStatusUpdated
	switch {
	case errors.Is(err, sql.ErrNoRows):
		status = models.LeadStatusCreated
		leadID = uuid.New().String()
		createdAt = now

		_, err = h.db.ExecContext(ctx, `
			INSERT INTO leads (
				id, email, first_name, last_name, company, answers, classification,
				classification_source, stage, bottleneck, recommended_system, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
			leadID, email, input.FirstName, input.LastName, input.Company,
			answersJSON, classificationJSON, source,
			string(c.Stage), string(c.Bottleneck), c.RecommendedSystem.Name, now,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
		}

	case err != nil:
		return nil, fmt.Errorf("%w: lead lookup failed: %v", ErrDatabaseInsertFailed, err)

	default:
		_, err = h.db.ExecContext(ctx, `
			UPDATE leads SET
				first_name = COALESCE(NULLIF($2, ''), first_name),
				last_name = COALESCE(NULLIF($3, ''), last_name),
				company = COALESCE(NULLIF($4, ''), company),
				answers = $5, classification = $6, classification_source = $7,
				stage = $8, bottleneck = $9, recommended_system = $10, updated_at = $11
			WHERE id = $1`,
			leadID, input.FirstName, input.LastName, input.Company,
			answersJSON, classificationJSON, source,
			string(c.Stage), string(c.Bottleneck), c.RecommendedSystem.Name, now,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: update failed: %v", ErrDatabaseInsertFailed, err)
		}
	}

	h.writeAudit(ctx, leadID, status, input)

	h.logger.Info("lead record saved", map[string]interface{}{
		"leadId":     leadID,
		"leadStatus": status,
		"stage":      c.Stage,
		"bottleneck": c.Bottleneck,
		"source":     source,
	})

	return &Output{
		LeadID:     leadID,
		LeadStatus: status,
		CreatedAt:  createdAt.UTC().Format(time.RFC3339),
	}, nil
}

// writeAudit is best effort; a failure is logged and the job carries on.
func (h *Handler) writeAudit(ctx context.Context, leadID, status string, input *Input) {
	details, err := json.Marshal(map[string]interface{}{
		"stage":             input.Classification.Stage,
		"bottleneck":        input.Classification.Bottleneck,
		"recommendedSystem": input.Classification.RecommendedSystem.Name,
		"source":            input.ClassificationSource,
	})
	if err != nil {
		details = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"lead_"+status,
		"lead",
		leadID,
		details,
		time.Now().UTC(),
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":  err.Error(),
			"leadId": leadID,
		})
	}
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
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
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
