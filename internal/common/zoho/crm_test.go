package zoho

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCRM(t *testing.T, handler http.HandlerFunc) *CRMClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewCRMClient(server.URL, "token-123", time.Second)
}

func TestSearchLeadsByEmail(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		client := newTestCRM(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/Leads/search", r.URL.Path)
			assert.Equal(t, "jane+quiz@example.com", r.URL.Query().Get("email"))
			assert.Equal(t, "Zoho-oauthtoken token-123", r.Header.Get("Authorization"))
			w.Write([]byte(`{"data":[{"id":"z-1","Email":"jane+quiz@example.com","Last_Name":"Doe","Company":"Acme"}]}`))
		})

		leads, err := client.SearchLeadsByEmail(context.Background(), "jane+quiz@example.com")
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, "z-1", leads[0].ID)
	})

	t.Run("no content", func(t *testing.T) {
		client := newTestCRM(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		leads, err := client.SearchLeadsByEmail(context.Background(), "nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, leads)
	})

	t.Run("unauthorized", func(t *testing.T) {
		client := newTestCRM(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":"INVALID_TOKEN"}`))
		})

		_, err := client.SearchLeadsByEmail(context.Background(), "jane@example.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})
}

func TestCreateLead(t *testing.T) {
	client := newTestCRM(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Leads", r.URL.Path)

		var body struct {
			Data []Lead `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "Growth", body.Data[0].BusinessStage)
		assert.Equal(t, "Growth Diagnostic", body.Data[0].Source)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":[{"code":"SUCCESS","status":"success","details":{"id":"z-9"},"message":"record added"}]}`))
	})

	id, err := client.CreateLead(context.Background(), &Lead{
		Email:         "jane@example.com",
		LastName:      "Doe",
		Company:       "Acme",
		Source:        "Growth Diagnostic",
		BusinessStage: "Growth",
	})
	require.NoError(t, err)
	assert.Equal(t, "z-9", id)
}

func TestCreateLead_RecordError(t *testing.T) {
	client := newTestCRM(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"code":"MANDATORY_NOT_FOUND","status":"error","message":"required field not found"}]}`))
	})

	_, err := client.CreateLead(context.Background(), &Lead{Email: "jane@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required field not found")
}

func TestUpdateLead(t *testing.T) {
	client := newTestCRM(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/Leads/z-1", r.URL.Path)

		var body struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasID := body.Data[0]["id"]
		assert.False(t, hasID)

		w.Write([]byte(`{"data":[{"code":"SUCCESS","status":"success","details":{"id":"z-1"},"message":"record updated"}]}`))
	})

	err := client.UpdateLead(context.Background(), "z-1", &Lead{ID: "z-1", Email: "jane@example.com", LastName: "Doe"})
	assert.NoError(t, err)
}

func TestNewCRMClient_Defaults(t *testing.T) {
	client := NewCRMClient("", "t", 0)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
