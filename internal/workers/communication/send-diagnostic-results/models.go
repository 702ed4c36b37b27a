// internal/workers/communication/send-diagnostic-results/models.go
package senddiagnosticresults

import "diagnostic-workers/pkg/diagnostic"

type Input struct {
	LeadID         string            `json:"leadId"`
	Email          string            `json:"email"`
	FirstName      string            `json:"firstName,omitempty"`
	LastName       string            `json:"lastName,omitempty"`
	Company        string            `json:"company,omitempty"`
	Classification diagnostic.Result `json:"classification"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`      // "sent", "failed", "disabled"
	EmailStatus    string `json:"emailStatus"` // per channel, same values
	EventStatus    string `json:"eventStatus"`
	MessageID      string `json:"messageId,omitempty"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	ChannelEmail = "email"
	ChannelEvent = "event"

	EventTypeLeadClassified = "lead.classified"
)
