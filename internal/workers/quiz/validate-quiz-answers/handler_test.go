package validatequizanswers

import (
	"context"
	"testing"
	"time"

	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/pkg/diagnostic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, logger.NewTestLogger(t))
}

func completeAnswers() map[string]interface{} {
	return map[string]interface{}{
		"q1": "idea",
		"q2": "focus",
		"q3": "unclear",
		"q4": "fully-dependent",
		"q5": "struggle",
		"q6": "what-to-build",
		"q7": "validate-idea",
	}
}

func TestHandler_Execute_CompleteAnswers(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{LeadID: "lead-1", Answers: completeAnswers()})

	require.NoError(t, err)
	assert.True(t, output.Valid)
	assert.Empty(t, output.MissingQuestions)
	assert.Empty(t, output.InvalidAnswers)
	assert.Empty(t, output.Errors)
}

func TestHandler_Execute_EveryOptionAccepted(t *testing.T) {
	handler := createTestHandler(t)

	for _, q := range diagnostic.Questions() {
		for _, opt := range q.Options {
			answers := completeAnswers()
			answers[q.ID] = opt.Value

			output, err := handler.Execute(context.Background(), &Input{Answers: answers})
			require.NoError(t, err)
			assert.True(t, output.Valid, "%s=%s", q.ID, opt.Value)
		}
	}
}

func TestHandler_Execute_Invalid(t *testing.T) {
	tests := []struct {
		name            string
		answers         map[string]interface{}
		expectedMissing []string
		expectedInvalid []string
	}{
		{
			name: "one question missing",
			answers: func() map[string]interface{} {
				a := completeAnswers()
				delete(a, "q5")
				return a
			}(),
			expectedMissing: []string{"q5"},
		},
		{
			name: "several missing reported in bank order",
			answers: map[string]interface{}{
				"q2": "focus",
				"q3": "unclear",
				"q5": "struggle",
				"q6": "what-to-build",
			},
			expectedMissing: []string{"q1", "q4", "q7"},
		},
		{
			name: "unknown token",
			answers: func() map[string]interface{} {
				a := completeAnswers()
				a["q3"] = "crystal-clear"
				return a
			}(),
			expectedInvalid: []string{"q3"},
		},
		{
			name: "non-string value",
			answers: func() map[string]interface{} {
				a := completeAnswers()
				a["q1"] = 3
				return a
			}(),
			expectedInvalid: []string{"q1"},
		},
		{
			name:            "no answers at all",
			answers:         nil,
			expectedMissing: []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7"},
		},
	}

	handler := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Answers: tt.answers})

			require.NoError(t, err)
			assert.False(t, output.Valid)
			assert.NotEmpty(t, output.Errors)

			if tt.expectedMissing != nil {
				assert.Equal(t, tt.expectedMissing, output.MissingQuestions)
			}

			var invalid []string
			for _, ia := range output.InvalidAnswers {
				invalid = append(invalid, ia.QuestionID)
			}
			assert.Equal(t, tt.expectedInvalid, invalid)
		})
	}
}

func TestHandler_Execute_UnknownQuestion(t *testing.T) {
	handler := createTestHandler(t)
	answers := completeAnswers()
	answers["q8"] = "anything"

	output, err := handler.Execute(context.Background(), &Input{Answers: answers})

	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Empty(t, output.MissingQuestions)
	require.Len(t, output.InvalidAnswers, 1)
	assert.Equal(t, "q8", output.InvalidAnswers[0].QuestionID)
	assert.Equal(t, "additional_property_not_allowed", output.InvalidAnswers[0].Reason)
}

func TestGetInputSchema_CoversQuestionBank(t *testing.T) {
	schema := GetInputSchema()
	answers := schema.Properties["answers"]

	assert.Equal(t, diagnostic.QuestionIDs(), answers.Required)
	assert.Len(t, answers.Properties, len(diagnostic.Questions()))
	for _, q := range diagnostic.Questions() {
		assert.Len(t, answers.Properties[q.ID].Enum, len(q.Options))
	}
}
