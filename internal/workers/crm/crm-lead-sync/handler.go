// internal/workers/crm/crm-lead-sync/handler.go
package crmleadsync

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/zoho"
	"diagnostic-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "crm-lead-sync"
)

var (
	ErrLeadValidationFailed = errors.New("LEAD_VALIDATION_FAILED")
	ErrCRMSyncFailed        = errors.New("CRM_SYNC_FAILED")
)

type Handler struct {
	config *Config
	crm    CRMService
	db     *sql.DB
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

// NewHandler builds the sync handler. A nil crm turns every job into a
// skipped sync; a nil db skips writing the CRM id back onto the lead row.
func NewHandler(config *Config, crm CRMService, db *sql.DB, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		crm:    crm,
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
	if h.crm == nil {
		h.logger.Info("crm not configured, skipping sync", map[string]interface{}{
			"leadId": input.LeadID,
		})
		return &Output{SyncStatus: SyncStatusSkipped}, nil
	}

	email := models.NormalizeEmail(input.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrLeadValidationFailed)
	}

	record := h.buildLead(email, input)

	existing, err := h.crm.SearchLeadsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: search leads: %v", ErrCRMSyncFailed, err)
	}

	var (
		crmLeadID string
		status    string
	)
	if len(existing) > 0 && existing[0].ID != "" {
		crmLeadID = existing[0].ID
		if err := h.crm.UpdateLead(ctx, crmLeadID, record); err != nil {
			return nil, fmt.Errorf("%w: update lead %s: %v", ErrCRMSyncFailed, crmLeadID, err)
		}
		status = SyncStatusUpdated
	} else {
		crmLeadID, err = h.crm.CreateLead(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("%w: create lead: %v", ErrCRMSyncFailed, err)
		}
		status = SyncStatusCreated
	}

	h.logger.Info("lead synced to crm", map[string]interface{}{
		"leadId":    input.LeadID,
		"crmLeadId": crmLeadID,
		"status":    status,
	})

	h.storeCRMLeadID(ctx, input.LeadID, crmLeadID)

	return &Output{CRMLeadID: crmLeadID, SyncStatus: status}, nil
}

func (h *Handler) buildLead(email string, input *Input) *zoho.Lead {
	c := input.Classification

	lastName := strings.TrimSpace(input.LastName)
	if lastName == "" {
		lastName = h.config.DefaultLastName
	}
	company := strings.TrimSpace(input.Company)
	if company == "" {
		company = h.config.DefaultCompany
	}

	lead := &zoho.Lead{
		Email:             email,
		FirstName:         strings.TrimSpace(input.FirstName),
		LastName:          lastName,
		Company:           company,
		Source:            h.config.LeadSource,
		BusinessStage:     string(c.Stage),
		PrimaryBottleneck: c.Bottleneck.Label(),
		RecommendedSystem: c.RecommendedSystem.Name,
	}
	if c.RecommendedSystem.Name != "" {
		lead.Description = fmt.Sprintf("%s: %s", c.RecommendedSystem.Name, c.RecommendedSystem.Description)
	}
	return lead
}

// storeCRMLeadID writes the CRM id back onto the lead row. Failures are
// logged only; the CRM record already exists at this point.
func (h *Handler) storeCRMLeadID(ctx context.Context, leadID, crmLeadID string) {
	if h.db == nil || leadID == "" || crmLeadID == "" {
		return
	}

	_, err := h.db.ExecContext(ctx,
		`UPDATE leads SET crm_lead_id = $1, updated_at = $2 WHERE id = $3`,
		crmLeadID, time.Now().UTC(), leadID,
	)
	if err != nil {
		h.logger.Warn("failed to store crm lead id", map[string]interface{}{
			"leadId":    leadID,
			"crmLeadId": crmLeadID,
			"error":     err.Error(),
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
