// internal/workers/quiz/validate-quiz-answers/config.go
package validatequizanswers

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
