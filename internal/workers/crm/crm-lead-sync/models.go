// internal/workers/crm/crm-lead-sync/models.go
package crmleadsync

import "diagnostic-workers/pkg/diagnostic"

const (
	SyncStatusCreated = "created"
	SyncStatusUpdated = "updated"
	SyncStatusSkipped = "skipped"
)

type Input struct {
	LeadID         string            `json:"leadId"`
	Email          string            `json:"email"`
	FirstName      string            `json:"firstName,omitempty"`
	LastName       string            `json:"lastName,omitempty"`
	Company        string            `json:"company,omitempty"`
	Classification diagnostic.Result `json:"classification"`
}

type Output struct {
	CRMLeadID  string `json:"crmLeadId,omitempty"`
	SyncStatus string `json:"syncStatus"`
}
