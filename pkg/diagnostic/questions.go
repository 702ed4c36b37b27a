// pkg/diagnostic/questions.go
package diagnostic

// Question is one entry of the fixed diagnostic question bank.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// Option is a selectable answer. Value is the stable token stored in an AnswerSet.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

const (
	QuestionBusinessStage = "q1"
	QuestionTimeSpent     = "q2"
	QuestionOfferClarity  = "q3"
	QuestionDependence    = "q4"
	QuestionRevenue       = "q5"
	QuestionBiggestIssue  = "q6"
	QuestionSupport       = "q7"
)

var questionBank = [...]Question{
	{
		ID:     QuestionBusinessStage,
		Prompt: "Where is your business today?",
		Options: []Option{
			{Value: "idea", Label: "I have an idea, not a business yet"},
			{Value: "early-revenue", Label: "I have my first paying customers"},
			{Value: "consistent-revenue", Label: "Revenue is coming in every month"},
			{Value: "scaling", Label: "We are growing and hiring"},
			{Value: "established", Label: "We are established and want to go further"},
		},
	},
	{
		ID:     QuestionTimeSpent,
		Prompt: "What takes most of your week?",
		Options: []Option{
			{Value: "focus", Label: "Working out what to focus on"},
			{Value: "marketing", Label: "Marketing and getting noticed"},
			{Value: "sales", Label: "Selling and following up"},
			{Value: "operations", Label: "Operations and delivery"},
			{Value: "everything", Label: "Honestly, everything"},
		},
	},
	{
		ID:     QuestionOfferClarity,
		Prompt: "How clear is your offer?",
		Options: []Option{
			{Value: "unclear", Label: "I am still figuring it out"},
			{Value: "somewhat", Label: "Clear to me, not always to buyers"},
			{Value: "clear-not-converting", Label: "Clear, but it does not convert"},
			{Value: "clear-and-converting", Label: "Clear and converting well"},
		},
	},
	{
		ID:     QuestionDependence,
		Prompt: "What happens if you step away for two weeks?",
		Options: []Option{
			{Value: "fully-dependent", Label: "Nothing happens without me"},
			{Value: "mostly-dependent", Label: "Things slow down a lot"},
			{Value: "some-delegation", Label: "The team covers most of it"},
			{Value: "team-runs-it", Label: "The business runs without me"},
		},
	},
	{
		ID:     QuestionRevenue,
		Prompt: "How predictable is your revenue?",
		Options: []Option{
			{Value: "struggle", Label: "I struggle to get any sales"},
			{Value: "inconsistent", Label: "Feast or famine"},
			{Value: "predictable", Label: "Mostly predictable"},
			{Value: "recurring", Label: "Recurring and forecastable"},
		},
	},
	{
		ID:     QuestionBiggestIssue,
		Prompt: "Which question keeps you up at night?",
		Options: []Option{
			{Value: "what-to-build", Label: "What should I actually build?"},
			{Value: "how-to-stand-out", Label: "Why would anyone pick me?"},
			{Value: "how-to-sell-more", Label: "How do I sell more, consistently?"},
			{Value: "how-to-scale-ops", Label: "How do I stop operations breaking?"},
			{Value: "how-to-step-back", Label: "How do I step back without it falling apart?"},
		},
	},
	{
		ID:     QuestionSupport,
		Prompt: "What kind of help fits you best?",
		Options: []Option{
			{Value: "validate-idea", Label: "Help me validate the idea first"},
			{Value: "learn-myself", Label: "Give me the playbook, I will do it"},
			{Value: "guidance", Label: "Guide me while I implement"},
			{Value: "done-with-you", Label: "Build it alongside me"},
			{Value: "done-for-you", Label: "Just get it done"},
		},
	},
}

// Questions returns a copy of the question bank in display order.
func Questions() []Question {
	out := make([]Question, len(questionBank))
	for i, q := range questionBank {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

// QuestionByID returns a copy of the question with the given ID.
func QuestionByID(id string) (Question, bool) {
	for _, q := range questionBank {
		if q.ID == id {
			q.Options = append([]Option(nil), q.Options...)
			return q, true
		}
	}
	return Question{}, false
}

// QuestionIDs returns the IDs of every question in display order.
func QuestionIDs() []string {
	ids := make([]string, len(questionBank))
	for i, q := range questionBank {
		ids[i] = q.ID
	}
	return ids
}

// OptionValues returns the valid tokens for a question, nil if unknown.
func OptionValues(questionID string) []string {
	q, ok := QuestionByID(questionID)
	if !ok {
		return nil
	}
	values := make([]string, len(q.Options))
	for i, o := range q.Options {
		values[i] = o.Value
	}
	return values
}
