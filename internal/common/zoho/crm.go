package zoho

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpclient "diagnostic-workers/internal/common/http"
)

const DefaultBaseURL = "https://www.zohoapis.com/crm/v3"

// CRMClient talks to the Zoho CRM Leads module.
type CRMClient struct {
	baseURL string
	http    *httpclient.Client
}

type Lead struct {
	ID                string `json:"id,omitempty"`
	Email             string `json:"Email"`
	FirstName         string `json:"First_Name,omitempty"`
	LastName          string `json:"Last_Name"`
	Company           string `json:"Company"`
	Source            string `json:"Lead_Source,omitempty"`
	BusinessStage     string `json:"Business_Stage,omitempty"`
	PrimaryBottleneck string `json:"Primary_Bottleneck,omitempty"`
	RecommendedSystem string `json:"Recommended_System,omitempty"`
	Description       string `json:"Description,omitempty"`
}

type writeResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewCRMClient(baseURL, oauthToken string, timeout time.Duration) *CRMClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CRMClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: httpclient.NewClient(timeout).
			WithHeader("Authorization", "Zoho-oauthtoken "+oauthToken),
	}
}

// SearchLeadsByEmail returns the leads whose Email matches. Zoho answers
// 204 when nothing matches.
func (c *CRMClient) SearchLeadsByEmail(ctx context.Context, email string) ([]Lead, error) {
	endpoint := fmt.Sprintf("%s/Leads/search?%s", c.baseURL, url.Values{"email": {email}}.Encode())

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to search leads (status %d): %s", resp.StatusCode, string(resp.Body))
	}

	var result struct {
		Data []Lead `json:"data"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// CreateLead inserts a lead and returns its Zoho id.
func (c *CRMClient) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	payload := map[string]interface{}{
		"data":    []Lead{*lead},
		"trigger": []string{"workflow"},
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL+"/Leads", payload)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create lead (status %d): %s", resp.StatusCode, string(resp.Body))
	}

	return firstRecordID(resp, "lead creation")
}

// UpdateLead overwrites the given lead's fields.
func (c *CRMClient) UpdateLead(ctx context.Context, leadID string, lead *Lead) error {
	update := *lead
	update.ID = ""
	payload := map[string]interface{}{
		"data": []Lead{update},
	}

	resp, err := c.http.Send(ctx, http.MethodPut, fmt.Sprintf("%s/Leads/%s", c.baseURL, url.PathEscape(leadID)), payload)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("failed to update lead (status %d): %s", resp.StatusCode, string(resp.Body))
	}

	_, err = firstRecordID(resp, "lead update")
	return err
}

func firstRecordID(resp *httpclient.Response, op string) (string, error) {
	var result writeResponse
	if err := resp.Decode(&result); err != nil {
		return "", err
	}
	if len(result.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if result.Data[0].Status != "success" {
		return "", fmt.Errorf("%s failed: %s", op, result.Data[0].Message)
	}
	return result.Data[0].Details.ID, nil
}
