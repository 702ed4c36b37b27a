// internal/workers/quiz/classify-diagnostic/config.go
package classifydiagnostic

import "time"

type Config struct {
	Timeout time.Duration

	// ClassifierBaseURL enables the remote classifier when set.
	ClassifierBaseURL string
	ClassifierAPIKey  string
	RequestTimeout    time.Duration
	MaxRetries        int
	CacheTTL          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        10 * time.Second,
		RequestTimeout: 3 * time.Second,
		MaxRetries:     2,
		CacheTTL:       time.Hour,
	}
}
