// internal/models/lead.go
package models

import (
	"strings"
	"time"

	"diagnostic-workers/pkg/diagnostic"
)

const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

const (
	LeadStatusCreated = "created"
	LeadStatusUpdated = "updated"
)

// Lead is a quiz taker together with their latest classification.
type Lead struct {
	ID                   string               `json:"id"`
	Email                string               `json:"email"`
	FirstName            string               `json:"firstName,omitempty"`
	LastName             string               `json:"lastName,omitempty"`
	Company              string               `json:"company,omitempty"`
	Answers              diagnostic.AnswerSet `json:"answers"`
	Classification       diagnostic.Result    `json:"classification"`
	ClassificationSource string               `json:"classificationSource"`
	CRMLeadID            string               `json:"crmLeadId,omitempty"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// LeadDocument is the search-index projection of a Lead.
type LeadDocument struct {
	LeadID              string               `json:"leadId"`
	Email               string               `json:"email"`
	Name                string               `json:"name,omitempty"`
	Company             string               `json:"company,omitempty"`
	Stage               string               `json:"stage"`
	Bottleneck          string               `json:"bottleneck"`
	EngagementReadiness string               `json:"engagementReadiness,omitempty"`
	RecommendedSystem   string               `json:"recommendedSystem"`
	Source              string               `json:"source"`
	FallbackOffer       bool                 `json:"fallbackOffer"`
	Answers             diagnostic.AnswerSet `json:"answers,omitempty"`
	CreatedAt           string               `json:"createdAt"`
}

// NormalizeEmail is the form emails are stored and matched in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FullName joins the non-empty name parts.
func (l *Lead) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(l.FirstName) + " " + strings.TrimSpace(l.LastName))
}

// Document projects the lead for the search index.
func (l *Lead) Document() LeadDocument {
	c := l.Classification
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return LeadDocument{
		LeadID:              l.ID,
		Email:               NormalizeEmail(l.Email),
		Name:                l.FullName(),
		Company:             l.Company,
		Stage:               string(c.Stage),
		Bottleneck:          string(c.Bottleneck),
		EngagementReadiness: string(c.EngagementReadiness),
		RecommendedSystem:   c.RecommendedSystem.Name,
		Source:              l.ClassificationSource,
		FallbackOffer:       !diagnostic.HasRecommendation(c.Stage, c.Bottleneck),
		Answers:             l.Answers,
		CreatedAt:           createdAt.UTC().Format(time.RFC3339),
	}
}
