// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeParseError ErrorCode = "PARSE_ERROR"

	ErrCodeAnswersValidationFailed ErrorCode = "ANSWERS_VALIDATION_FAILED"
	ErrCodeClassificationFailed    ErrorCode = "CLASSIFICATION_FAILED"
	ErrCodeRemoteClassifierTimeout ErrorCode = "REMOTE_CLASSIFIER_TIMEOUT"
	ErrCodeRemoteClassifierFailed  ErrorCode = "REMOTE_CLASSIFIER_FAILED"

	ErrCodeLeadValidationFailed ErrorCode = "LEAD_VALIDATION_FAILED"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateLead        ErrorCode = "DUPLICATE_LEAD"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchIndexFailed             ErrorCode = "SEARCH_INDEX_FAILED"

	ErrCodeCRMSyncFailed ErrorCode = "CRM_SYNC_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

var messages = map[ErrorCode]string{
	ErrCodeParseError:                    "Job variables could not be parsed",
	ErrCodeAnswersValidationFailed:       "Quiz answers failed validation",
	ErrCodeClassificationFailed:          "Diagnostic classification failed",
	ErrCodeRemoteClassifierTimeout:       "Remote classifier timeout",
	ErrCodeRemoteClassifierFailed:        "Remote classifier error",
	ErrCodeLeadValidationFailed:          "Lead data validation failed",
	ErrCodeDatabaseInsertFailed:          "Database write failed",
	ErrCodeDuplicateLead:                 "Lead already exists",
	ErrCodeElasticsearchConnectionFailed: "Elasticsearch connection error",
	ErrCodeSearchIndexFailed:             "Search indexing failed",
	ErrCodeCRMSyncFailed:                 "CRM synchronisation failed",
	ErrCodeNotificationSendFailed:        "Notification delivery failed",
	ErrCodeInternal:                      "Unexpected error",
}

// New builds a StandardError for a known code. Retryability follows the
// code's retry budget.
func New(code ErrorCode, details string) *StandardError {
	msg, ok := messages[code]
	if !ok {
		msg = string(code)
	}
	return &StandardError{
		Code:      code,
		Message:   msg,
		Details:   details,
		Retryable: GetRetryCount(code) > 0,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError creates a non-retryable error for malformed job variables.
func NewParseError(err error) *StandardError {
	return New(ErrCodeParseError, err.Error())
}

// NewLeadValidationFailedError creates a non-retryable lead validation error.
func NewLeadValidationFailedError(details string) *StandardError {
	return New(ErrCodeLeadValidationFailed, details)
}

// NewDatabaseInsertFailedError creates a retryable database error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return New(ErrCodeDatabaseInsertFailed, err.Error())
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return New(ErrCodeElasticsearchConnectionFailed, err.Error())
}

func NewCRMSyncFailedError(err error) *StandardError {
	return New(ErrCodeCRMSyncFailed, err.Error())
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return New(ErrCodeNotificationSendFailed, fmt.Sprintf("channel: %s, error: %s", channel, err.Error()))
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// FromError converts any error into a StandardError. A StandardError in the
// chain is returned as is; otherwise the chain is searched for a sentinel
// whose text is a known code (errors.New("CRM_SYNC_FAILED") and friends).
func FromError(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	if code, ok := CodeOf(err); ok {
		return New(code, err.Error())
	}

	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   messages[ErrCodeInternal],
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf finds the first known error code in err's wrap tree, depth first.
func CodeOf(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	if _, known := messages[ErrorCode(err.Error())]; known {
		return ErrorCode(err.Error()), true
	}

	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if code, ok := CodeOf(inner); ok {
				return code, true
			}
		}
	case interface{ Unwrap() error }:
		return CodeOf(e.Unwrap())
	}
	return "", false
}

// BPMNErrorMapping maps internal codes to the error codes modelled in BPMN.
// Codes missing here are thrown unchanged.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeRemoteClassifierTimeout:       "CLASSIFICATION_FAILED",
	ErrCodeRemoteClassifierFailed:        "CLASSIFICATION_FAILED",
	ErrCodeElasticsearchConnectionFailed: "SEARCH_INDEX_FAILED",
}

// GetRetryCount returns how many times a job failing with code should be
// retried before an error is thrown into the process.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseInsertFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeCRMSyncFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeRemoteClassifierTimeout,
		ErrCodeRemoteClassifierFailed:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CLASSIF") || strings.Contains(codeStr, "ANSWERS"):
		return "DIAGNOSTIC"
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "LEAD"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "CRM"):
		return "CRM"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
