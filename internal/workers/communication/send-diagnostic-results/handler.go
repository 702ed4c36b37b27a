// internal/workers/communication/send-diagnostic-results/handler.go
package senddiagnosticresults

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	awsclients "diagnostic-workers/internal/common/aws"
	apperrors "diagnostic-workers/internal/common/errors"
	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/metrics"
	"diagnostic-workers/internal/common/validation"
	"diagnostic-workers/internal/models"
	"diagnostic-workers/pkg/diagnostic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-diagnostic-results"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

type Handler struct {
	config    *Config
	sesClient awsclients.SESService
	snsClient awsclients.SNSService
	logger    logger.Logger
	errors    *apperrors.ErrorHandler
}

// NewHandler builds the notification handler. A nil client disables its
// channel regardless of configuration.
func NewHandler(config *Config, sesClient awsclients.SESService, snsClient awsclients.SNSService, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		sesClient: sesClient,
		snsClient: snsClient,
		logger:    scoped,
		errors:    apperrors.NewErrorHandler(scoped),
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
	output := &Output{
		NotificationID: uuid.New().String(),
		EmailStatus:    models.NotificationStatusDisabled,
		EventStatus:    models.NotificationStatusDisabled,
		SentAt:         time.Now().UTC().Format(time.RFC3339),
	}

	if h.emailEnabled() {
		email := models.NormalizeEmail(input.Email)
		if !validation.ValidateEmail(email) {
			h.logger.Warn("no deliverable email address, skipping email", map[string]interface{}{
				"leadId": input.LeadID,
			})
		} else {
			rendered, err := renderEmail(newEmailData(input, h.config.SiteBaseURL))
			if err != nil {
				return nil, fmt.Errorf("%w: render email: %v", ErrNotificationSendFailed, err)
			}

			messageID, err := h.sendEmail(ctx, email, rendered)
			if err != nil {
				h.logger.Error("email send failed", map[string]interface{}{
					"leadId": input.LeadID,
					"error":  err.Error(),
				})
				output.EmailStatus = models.NotificationStatusFailed
			} else {
				output.EmailStatus = models.NotificationStatusSent
				output.MessageID = messageID
			}
		}
	}

	if h.eventsEnabled() {
		if err := h.publishEvent(ctx, input); err != nil {
			h.logger.Error("event publish failed", map[string]interface{}{
				"leadId":   input.LeadID,
				"topicArn": h.config.TopicARN,
				"error":    err.Error(),
			})
			output.EventStatus = models.NotificationStatusFailed
		} else {
			output.EventStatus = models.NotificationStatusSent
		}
	}

	metrics.NotificationDeliveries.WithLabelValues(ChannelEmail, output.EmailStatus).Inc()
	metrics.NotificationDeliveries.WithLabelValues(ChannelEvent, output.EventStatus).Inc()

	output.Status = overallStatus(output.EmailStatus, output.EventStatus)

	h.logger.Info("diagnostic results notified", map[string]interface{}{
		"leadId":      input.LeadID,
		"status":      output.Status,
		"emailStatus": output.EmailStatus,
		"eventStatus": output.EventStatus,
	})

	return output, nil
}

func (h *Handler) emailEnabled() bool {
	return h.config.EmailEnabled && h.sesClient != nil && h.config.FromEmail != ""
}

func (h *Handler) eventsEnabled() bool {
	return h.config.EventsEnabled && h.snsClient != nil && h.config.TopicARN != ""
}

// overallStatus is failed if any channel failed, sent if any channel
// delivered, disabled otherwise.
func overallStatus(statuses ...string) string {
	status := models.NotificationStatusDisabled
	for _, s := range statuses {
		switch s {
		case models.NotificationStatusFailed:
			return models.NotificationStatusFailed
		case models.NotificationStatusSent:
			status = models.NotificationStatusSent
		}
	}
	return status
}

func (h *Handler) sendEmail(ctx context.Context, to string, msg *models.NotificationTemplate) (string, error) {
	params := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				Html: &types.Content{Data: aws.String(msg.HTMLBody), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(h.config.FromEmail),
	}
	if h.config.ReplyTo != "" {
		params.ReplyToAddresses = []string{h.config.ReplyTo}
	}

	out, err := h.sesClient.SendEmail(ctx, params)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

func (h *Handler) publishEvent(ctx context.Context, input *Input) error {
	c := input.Classification
	lead := models.Lead{FirstName: input.FirstName, LastName: input.LastName}

	event := models.LeadClassifiedEvent{
		EventID:             uuid.New().String(),
		EventType:           EventTypeLeadClassified,
		LeadID:              input.LeadID,
		Email:               models.NormalizeEmail(input.Email),
		Name:                lead.FullName(),
		Company:             input.Company,
		Stage:               string(c.Stage),
		Bottleneck:          string(c.Bottleneck),
		EngagementReadiness: string(c.EngagementReadiness),
		RecommendedSystem:   c.RecommendedSystem.Name,
		FallbackOffer:       !diagnostic.HasRecommendation(c.Stage, c.Bottleneck),
		OccurredAt:          time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = h.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.TopicARN),
		Subject:  aws.String(EventTypeLeadClassified),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(EventTypeLeadClassified)},
			"stage":     {DataType: aws.String("String"), StringValue: aws.String(event.Stage)},
		},
	})
	return err
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
