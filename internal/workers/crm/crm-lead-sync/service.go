// internal/workers/crm/crm-lead-sync/service.go
package crmleadsync

import (
	"context"

	"diagnostic-workers/internal/common/zoho"
)

// CRMService is the subset of the Zoho client the sync needs.
type CRMService interface {
	SearchLeadsByEmail(ctx context.Context, email string) ([]zoho.Lead, error)
	CreateLead(ctx context.Context, lead *zoho.Lead) (string, error)
	UpdateLead(ctx context.Context, leadID string, lead *zoho.Lead) error
}

var _ CRMService = (*zoho.CRMClient)(nil)
