// internal/workers/leads/create-lead-record/models.go
package createleadrecord

import "diagnostic-workers/pkg/diagnostic"

type Input struct {
	Email                string               `json:"email"`
	FirstName            string               `json:"firstName,omitempty"`
	LastName             string               `json:"lastName,omitempty"`
	Company              string               `json:"company,omitempty"`
	Answers              diagnostic.AnswerSet `json:"answers"`
	Classification       diagnostic.Result    `json:"classification"`
	ClassificationSource string               `json:"classificationSource"`
}

type Output struct {
	LeadID     string `json:"leadId"`
	LeadStatus string `json:"leadStatus"`
	CreatedAt  string `json:"createdAt"`
}
