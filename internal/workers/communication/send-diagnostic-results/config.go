// internal/workers/communication/send-diagnostic-results/config.go
package senddiagnosticresults

import "time"

type Config struct {
	Timeout       time.Duration
	EmailEnabled  bool
	FromEmail     string
	ReplyTo       string
	EventsEnabled bool
	TopicARN      string
	// SiteBaseURL is prefixed to recommendation routes to build the email link.
	SiteBaseURL string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
