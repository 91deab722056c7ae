package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MapsCodeToHTTPStatus(t *testing.T) {
	cases := []struct {
		code   ErrorCode
		status int
	}{
		{CodeValidationFailed, http.StatusBadRequest},
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeQuotaExceeded, http.StatusTooManyRequests},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeSectionNotFound, http.StatusNotFound},
		{CodeScopeNotFound, http.StatusNotFound},
		{CodeGenerationFailed, http.StatusInternalServerError},
		{CodeLLMCallFailed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, New(tc.code, "x").HTTPStatus, "code %s", tc.code)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeLLMCallFailed, "llm call failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "llm call failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsAppError(t *testing.T) {
	appErr := New(CodeQuotaExceeded, "slow down")
	assert.Same(t, appErr, AsAppError(appErr))

	plain := errors.New("plain")
	converted := AsAppError(plain)
	require.NotNil(t, converted)
	assert.Equal(t, CodeUnknown, converted.Code)
	assert.ErrorIs(t, converted, plain)
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(New(CodeNotFound, "x")))
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(CodeValidationFailed, "validation failed").WithDetail("project_title is required")
	assert.Equal(t, "project_title is required", err.Detail)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}
