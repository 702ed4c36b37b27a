// internal/workers/crm/crm-lead-sync/config.go
package crmleadsync

import "time"

type Config struct {
	Timeout time.Duration
	// LeadSource is written to Zoho's Lead_Source field.
	LeadSource      string
	DefaultLastName string
	DefaultCompany  string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		LeadSource:      "Growth Diagnostic",
		DefaultLastName: "Unknown",
		DefaultCompany:  "Not Provided",
	}
}
