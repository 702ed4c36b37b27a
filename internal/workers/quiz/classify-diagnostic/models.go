// internal/workers/quiz/classify-diagnostic/models.go
package classifydiagnostic

import "diagnostic-workers/pkg/diagnostic"

type Input struct {
	LeadID  string               `json:"leadId,omitempty"`
	Answers diagnostic.AnswerSet `json:"answers"`
}

type Output struct {
	Classification       diagnostic.Result `json:"classification"`
	ClassificationSource string            `json:"classificationSource"`
	FallbackOffer        bool              `json:"fallbackOffer"`
}

type classifyRequest struct {
	Answers diagnostic.AnswerSet `json:"answers"`
}
