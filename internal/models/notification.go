// internal/models/notification.go
package models

const (
	NotificationStatusSent     = "sent"
	NotificationStatusFailed   = "failed"
	NotificationStatusDisabled = "disabled"
)

// LeadClassifiedEvent is published to the sales topic once a lead has a
// classification.
type LeadClassifiedEvent struct {
	EventID             string `json:"eventId"`
	EventType           string `json:"eventType"` // "lead.classified"
	LeadID              string `json:"leadId"`
	Email               string `json:"email"`
	Name                string `json:"name,omitempty"`
	Company             string `json:"company,omitempty"`
	Stage               string `json:"stage"`
	Bottleneck          string `json:"bottleneck"`
	EngagementReadiness string `json:"engagementReadiness,omitempty"`
	RecommendedSystem   string `json:"recommendedSystem"`
	FallbackOffer       bool   `json:"fallbackOffer"`
	OccurredAt          string `json:"occurredAt"`
}

// NotificationTemplate is a rendered email.
type NotificationTemplate struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"htmlBody,omitempty"`
}
