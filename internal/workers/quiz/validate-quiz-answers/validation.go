// internal/workers/quiz/validate-quiz-answers/validation.go
package validatequizanswers

import (
	"diagnostic-workers/internal/common/validation"
	"diagnostic-workers/pkg/diagnostic"
)

// GetInputSchema builds the job input schema from the question bank: every
// question must be answered with one of its option tokens.
func GetInputSchema() validation.JSONSchema {
	answers := validation.Property{
		Type:                 "object",
		Description:          "Selected option token per question ID",
		Properties:           map[string]validation.Property{},
		Required:             diagnostic.QuestionIDs(),
		AdditionalProperties: validation.BoolPtr(false),
	}

	for _, q := range diagnostic.Questions() {
		answers.Properties[q.ID] = validation.Property{
			Type:        "string",
			Description: q.Prompt,
			Enum:        diagnostic.OptionValues(q.ID),
		}
	}

	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"answers"},
		Properties: map[string]validation.Property{
			"leadId":  {Type: "string"},
			"answers": answers,
		},
		AdditionalProperties: true,
	}
}
