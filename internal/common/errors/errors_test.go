package errors

import (
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Conversion Tests
// ==========================

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"project missing", NewProjectNotFoundError("P001"), "PROJECT_NOT_FOUND", 0},
		{"parsing folds into validation", NewInputParsingFailedError(fmt.Errorf("bad json")), "INPUT_VALIDATION_FAILED", 0},
		{"query failure", NewQueryExecutionFailedError("employees", fmt.Errorf("boom")), "QUERY_EXECUTION_FAILED", 3},
		{"query timeout", NewQueryTimeoutError("project"), "QUERY_TIMEOUT", 2},
		{"search cancelled", NewSearchCancelledError(fmt.Errorf("deadline")), "SEARCH_CANCELLED", 1},
		{"rejected document", NewIndexOperationFailedError("team-proposals", "400", false), "INDEX_OPERATION_FAILED", 0},
		{"unmapped code", NewBusinessRuleError("nope", ""), "BUSINESS_RULE_VIOLATION", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmnErr.Code)
			assert.Equal(t, tt.wantRetries, bpmnErr.Retries)
			assert.Equal(t, string(tt.err.Code), bpmnErr.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestBPMNError_ToErrorVariables(t *testing.T) {
	bpmnErr := ConvertToBPMNError(NewNotificationSendFailedError("sns", fmt.Errorf("throttled")))
	vars := bpmnErr.ToErrorVariables()

	assert.Equal(t, "NOTIFICATION_SEND_FAILED", vars["errorCode"])
	assert.Equal(t, "type: sns, error: throttled", vars["errorDetails"])
	assert.Equal(t, true, vars["retryable"])
	assert.Contains(t, vars, "timestamp")
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeProjectNotFound:               "BUSINESS",
		ErrCodeQueryTimeout:                  "DATABASE",
		ErrCodeCacheUnavailable:              "DATABASE",
		ErrCodeElasticsearchConnectionFailed: "SEARCH",
		ErrCodeNotificationSendFailed:        "NOTIFICATION",
		ErrCodeTeamGenerationFailed:          "STAFFING",
		ErrCodeSearchCancelled:               "STAFFING",
		ErrCodeInputValidationFailed:         "VALIDATION",
		ErrCodeInternal:                      "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), string(code))
	}
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeDatabaseConnectionFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeSearchCancelled))
	assert.False(t, IsRetryableErrorCode(ErrCodeRankingFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeProjectNotFound))
}

// ==========================
// Unwrapping Tests
// ==========================

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("loading project: %w", NewProjectNotFoundError("P404"))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeProjectNotFound, stdErr.Code)
	assert.Equal(t, "P404", stdErr.Metadata["projectId"])

	_, ok = AsStandardError(fmt.Errorf("plain"))
	assert.False(t, ok)

	assert.Equal(t, ErrCodeInternal, normalizeError(fmt.Errorf("plain")).Code)
}

func TestRemainingRetries(t *testing.T) {
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: retries}}
	}

	assert.Equal(t, int32(2), remainingRetries(job(3), 3))
	assert.Equal(t, int32(1), remainingRetries(job(5), 1))
	assert.Equal(t, int32(0), remainingRetries(job(0), 3))
}
