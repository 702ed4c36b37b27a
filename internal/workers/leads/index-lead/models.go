// internal/workers/leads/index-lead/models.go
package indexlead

import "diagnostic-workers/pkg/diagnostic"

type Input struct {
	LeadID               string               `json:"leadId"`
	Email                string               `json:"email"`
	FirstName            string               `json:"firstName,omitempty"`
	LastName             string               `json:"lastName,omitempty"`
	Company              string               `json:"company,omitempty"`
	Answers              diagnostic.AnswerSet `json:"answers,omitempty"`
	Classification       diagnostic.Result    `json:"classification"`
	ClassificationSource string               `json:"classificationSource"`
	CreatedAt            string               `json:"createdAt,omitempty"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	Index      string `json:"index"`
	DocumentID string `json:"documentId"`
	Result     string `json:"result"`
}

type indexResponse struct {
	ID      string `json:"_id"`
	Result  string `json:"result"`
	Version int64  `json:"_version"`
}
