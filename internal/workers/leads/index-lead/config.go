// internal/workers/leads/index-lead/config.go
package indexlead

import "time"

type Config struct {
	Timeout time.Duration
	Index   string
	// Refresh is passed through to the index request ("true", "wait_for" or "").
	Refresh string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Index:   "leads",
	}
}
