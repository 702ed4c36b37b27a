package crmleadsync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"diagnostic-workers/internal/common/logger"
	"diagnostic-workers/internal/common/zoho"
	"diagnostic-workers/pkg/diagnostic"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock CRM Implementation
// ==========================

type MockCRMService struct {
	mock.Mock
}

func (m *MockCRMService) SearchLeadsByEmail(ctx context.Context, email string) ([]zoho.Lead, error) {
	args := m.Called(ctx, email)
	if leads := args.Get(0); leads != nil {
		return leads.([]zoho.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCRMService) CreateLead(ctx context.Context, lead *zoho.Lead) (string, error) {
	args := m.Called(ctx, lead)
	return args.String(0), args.Error(1)
}

func (m *MockCRMService) UpdateLead(ctx context.Context, leadID string, lead *zoho.Lead) error {
	args := m.Called(ctx, leadID, lead)
	return args.Error(0)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.Timeout = 5 * time.Second
	return cfg
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
		LeadID:         "8f14e45f-ceea-467f-a0e6-5e1b2c3d4f50",
		Email:          " Owner@Example.com",
		FirstName:      "Sam",
		Classification: diagnostic.Classify(answers),
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_CreatesLead(t *testing.T) {
	crm := new(MockCRMService)
	input := createTestInput()

	crm.On("SearchLeadsByEmail", mock.Anything, "owner@example.com").Return(nil, nil)
	crm.On("CreateLead", mock.Anything, mock.MatchedBy(func(l *zoho.Lead) bool {
		return l.Email == "owner@example.com" &&
			l.LastName == "Unknown" &&
			l.Company == "Not Provided" &&
			l.Source == "Growth Diagnostic" &&
			l.BusinessStage == string(input.Classification.Stage) &&
			l.PrimaryBottleneck == input.Classification.Bottleneck.Label() &&
			l.RecommendedSystem == input.Classification.RecommendedSystem.Name
	})).Return("5725767000000123001", nil)

	handler := NewHandler(createTestConfig(), crm, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, SyncStatusCreated, output.SyncStatus)
	assert.Equal(t, "5725767000000123001", output.CRMLeadID)
	crm.AssertExpectations(t)
}

func TestHandler_Execute_UpdatesExistingLead(t *testing.T) {
	crm := new(MockCRMService)

	crm.On("SearchLeadsByEmail", mock.Anything, "owner@example.com").
		Return([]zoho.Lead{{ID: "5725767000000999001", Email: "owner@example.com"}}, nil)
	crm.On("UpdateLead", mock.Anything, "5725767000000999001", mock.AnythingOfType("*zoho.Lead")).
		Return(nil)

	handler := NewHandler(createTestConfig(), crm, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, SyncStatusUpdated, output.SyncStatus)
	assert.Equal(t, "5725767000000999001", output.CRMLeadID)
	crm.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestHandler_Execute_SkippedWithoutCRM(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, SyncStatusSkipped, output.SyncStatus)
	assert.Empty(t, output.CRMLeadID)
}

func TestHandler_Execute_StoresCRMLeadID(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	crm := new(MockCRMService)
	crm.On("SearchLeadsByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	crm.On("CreateLead", mock.Anything, mock.Anything).Return("5725767000000123001", nil)

	input := createTestInput()
	dbMock.ExpectExec(`UPDATE leads SET crm_lead_id`).
		WithArgs("5725767000000123001", sqlmock.AnyArg(), input.LeadID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	handler := NewHandler(createTestConfig(), crm, db, logger.NewTestLogger(t))

	_, err = handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestHandler_Execute_StoreFailureIsNotFatal(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	crm := new(MockCRMService)
	crm.On("SearchLeadsByEmail", mock.Anything, mock.Anything).Return(nil, nil)
	crm.On("CreateLead", mock.Anything, mock.Anything).Return("5725767000000123001", nil)

	dbMock.ExpectExec(`UPDATE leads SET crm_lead_id`).WillReturnError(errors.New("connection reset"))

	handler := NewHandler(createTestConfig(), crm, db, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, SyncStatusCreated, output.SyncStatus)
}

// ==========================
// Error Scenario Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(crm *MockCRMService)
		email   string
		wantErr error
	}{
		{
			name:    "missing email",
			setup:   func(*MockCRMService) {},
			email:   "  ",
			wantErr: ErrLeadValidationFailed,
		},
		{
			name: "search fails",
			setup: func(crm *MockCRMService) {
				crm.On("SearchLeadsByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("status 401"))
			},
			wantErr: ErrCRMSyncFailed,
		},
		{
			name: "create fails",
			setup: func(crm *MockCRMService) {
				crm.On("SearchLeadsByEmail", mock.Anything, mock.Anything).Return(nil, nil)
				crm.On("CreateLead", mock.Anything, mock.Anything).Return("", errors.New("MANDATORY_NOT_FOUND"))
			},
			wantErr: ErrCRMSyncFailed,
		},
		{
			name: "update fails",
			setup: func(crm *MockCRMService) {
				crm.On("SearchLeadsByEmail", mock.Anything, mock.Anything).
					Return([]zoho.Lead{{ID: "1"}}, nil)
				crm.On("UpdateLead", mock.Anything, "1", mock.Anything).Return(errors.New("status 500"))
			},
			wantErr: ErrCRMSyncFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crm := new(MockCRMService)
			tt.setup(crm)

			input := createTestInput()
			if tt.email != "" {
				input.Email = tt.email
			}

			handler := NewHandler(createTestConfig(), crm, nil, logger.NewTestLogger(t))
			_, err := handler.Execute(context.Background(), input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}
}

// ==========================
// Zoho Integration Tests
// ==========================

func TestHandler_Execute_AgainstZohoServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Zoho-oauthtoken test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/Leads/search":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost && r.URL.Path == "/Leads":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","details":{"id":"5725767000000555001"},"message":"record added","status":"success"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	crm := zoho.NewCRMClient(server.URL, "test-token", 5*time.Second)
	handler := NewHandler(createTestConfig(), crm, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), createTestInput())
	require.NoError(t, err)
	assert.Equal(t, SyncStatusCreated, output.SyncStatus)
	assert.Equal(t, "5725767000000555001", output.CRMLeadID)
}

func TestHandler_Execute_ZohoServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"INTERNAL_ERROR"}`))
	}))
	defer server.Close()

	crm := zoho.NewCRMClient(server.URL, "test-token", 5*time.Second)
	handler := NewHandler(createTestConfig(), crm, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), createTestInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCRMSyncFailed))
}
