// internal/workers/quiz/validate-quiz-answers/models.go
package validatequizanswers

type Input struct {
	LeadID  string                 `json:"leadId,omitempty"`
	Answers map[string]interface{} `json:"answers"`
}

type Output struct {
	Valid            bool            `json:"valid"`
	MissingQuestions []string        `json:"missingQuestions"`
	InvalidAnswers   []InvalidAnswer `json:"invalidAnswers"`
	Errors           []string        `json:"errors"`
}

type InvalidAnswer struct {
	QuestionID string      `json:"questionId"`
	Value      interface{} `json:"value"`
	Reason     string      `json:"reason"`
}
