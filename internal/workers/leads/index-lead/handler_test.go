package indexlead

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/models"
	"diagnostic-workers/pkg/diagnostic"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestClient(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{server.URL},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return client
}

func createTestHandler(t *testing.T, client *elasticsearch.Client) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second, Index: "leads"}, client, logger.NewTestLogger(t))
}

func createTestInput() *Input {
	answers := diagnostic.AnswerSet{
		"q1": "established",
		"q2": "operations",
		"q3": "clear-and-converting",
		"q4": "fully-dependent",
		"q5": "recurring",
		"q6": "how-to-step-back",
		"q7": "done-for-you",
	}
	return &Input{
		LeadID:               "0b5cbb5e-8d1a-4b4c-9b11-4f0e4a3c2d10",
		Email:                "Owner@Example.com",
		FirstName:            "Sam",
		LastName:             "Rivera",
		Company:              "Rivera Studio",
		Answers:              answers,
		Classification:       diagnostic.Classify(answers),
		ClassificationSource: models.SourceLocal,
		CreatedAt:            "2026-03-01T10:00:00Z",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_IndexesDocument(t *testing.T) {
	var gotPath, gotMethod string
	var doc models.LeadDocument

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &doc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_index":"leads","_id":"0b5cbb5e-8d1a-4b4c-9b11-4f0e4a3c2d10","_version":1,"result":"created"}`))
	})

	handler := createTestHandler(t, client)
	input := createTestInput()

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/leads/_doc/"+input.LeadID, gotPath)

	assert.True(t, output.Indexed)
	assert.Equal(t, "leads", output.Index)
	assert.Equal(t, input.LeadID, output.DocumentID)
	assert.Equal(t, "created", output.Result)

	assert.Equal(t, input.LeadID, doc.LeadID)
	assert.Equal(t, "owner@example.com", doc.Email)
	assert.Equal(t, "Sam Rivera", doc.Name)
	assert.Equal(t, string(input.Classification.Stage), doc.Stage)
	assert.Equal(t, string(input.Classification.Bottleneck), doc.Bottleneck)
	assert.Equal(t, input.Classification.RecommendedSystem.Name, doc.RecommendedSystem)
	assert.Equal(t, models.SourceLocal, doc.Source)
	assert.Equal(t, "2026-03-01T10:00:00Z", doc.CreatedAt)
}

func TestHandler_Execute_ReindexReportsUpdated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"_index":"leads","_id":"x","_version":2,"result":"updated"}`))
	})

	output, err := createTestHandler(t, client).Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, "updated", output.Result)
}

func TestHandler_Execute_FallbackFlagInDocument(t *testing.T) {
	answers := diagnostic.AnswerSet{
		"q1": "idea",
		"q2": "focus",
		"q3": "unclear",
		"q4": "fully-dependent",
		"q5": "struggle",
		"q6": "what-to-build",
		"q7": "validate-idea",
	}
	result := diagnostic.Classify(answers)
	var doc models.LeadDocument

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &doc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	input := createTestInput()
	input.Answers = answers
	input.Classification = result

	_, err := createTestHandler(t, client).Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, !diagnostic.HasRecommendation(result.Stage, result.Bottleneck), doc.FallbackOffer)
}

// ==========================
// Error Scenario Tests
// ==========================

func TestHandler_Execute_MissingLeadID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	input := createTestInput()
	input.LeadID = ""

	_, err := createTestHandler(t, client).Execute(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLeadValidationFailed))
}

func TestHandler_Execute_IndexRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"mapper_parsing_exception"},"status":400}`))
	})

	_, err := createTestHandler(t, client).Execute(context.Background(), createTestInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSearchIndexFailed))
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}

func TestHandler_Execute_ConnectionFailed(t *testing.T) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{"http://127.0.0.1:1"},
		DisableRetry: true,
	})
	require.NoError(t, err)

	_, err = createTestHandler(t, client).Execute(context.Background(), createTestInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrElasticsearchConnectionFailed))
}

func TestHandler_Execute_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := createTestHandler(t, client).Execute(context.Background(), createTestInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSearchIndexFailed))
}
