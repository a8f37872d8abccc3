package apierror

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestFromResponseClassification(t *testing.T) {
	tests := []struct {
		status    int
		kind      Kind
		retryable bool
	}{
		{http.StatusBadRequest, KindValidation, false},
		{http.StatusUnauthorized, KindUnauthorized, false},
		{http.StatusForbidden, KindValidation, false},
		{http.StatusNotFound, KindNotFound, false},
		{http.StatusConflict, KindValidation, false},
		{http.StatusUnprocessableEntity, KindValidation, false},
		{http.StatusInternalServerError, KindServer, true},
		{http.StatusBadGateway, KindServer, true},
		{http.StatusServiceUnavailable, KindServer, true},
		{http.StatusMultipleChoices, KindUnknown, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			err := FromResponse(response(tt.status, ""))
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, err.Status)
			assert.Equal(t, tt.retryable, err.Retryable)
		})
	}
}

func TestFromResponseMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error envelope", `{"error":"name is required"}`, "name is required"},
		{"message envelope", `{"message":"project not found"}`, "project not found"},
		{"error wins over message", `{"error":"a","message":"b"}`, "a"},
		{"bare string body", `"quota exceeded"`, "quota exceeded"},
		{"empty body", "", "server returned 400"},
		{"unparseable body", "<html>oops</html>", "server returned 400"},
		{"empty envelope", `{}`, "server returned 400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromResponse(response(http.StatusBadRequest, tt.body))
			assert.Equal(t, tt.want, err.Message)
		})
	}
}

func TestFromResponseUnauthorizedHint(t *testing.T) {
	err := FromResponse(response(http.StatusUnauthorized, `{"error":"invalid or expired token"}`))
	assert.Equal(t, KindUnauthorized, err.Kind)
	assert.Equal(t, "invalid or expired token", err.Message)
	assert.Contains(t, err.Hint, "mctl login")
}

func TestNetwork(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network(cause)

	assert.Equal(t, KindNetwork, err.Kind)
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Message, "could not reach the server")
	assert.Contains(t, err.Message, "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestDecode(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Decode(cause)

	assert.Equal(t, KindUnknown, err.Kind)
	assert.ErrorIs(t, err, cause)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		kind Kind
		code int
	}{
		{KindUnauthorized, ExitAuth},
		{KindNotFound, ExitNotFound},
		{KindValidation, ExitValidation},
		{KindNetwork, ExitGeneral},
		{KindServer, ExitGeneral},
		{KindUnknown, ExitGeneral},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := &Error{Kind: tt.kind}
			assert.Equal(t, tt.code, err.ExitCode())
		})
	}
}

func TestKindHelpers(t *testing.T) {
	unauthorized := &Error{Kind: KindUnauthorized, Message: "nope"}
	wrapped := fmt.Errorf("context: %w", unauthorized)

	assert.True(t, IsUnauthorized(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))

	require.NotNil(t, AsError(wrapped))
	assert.Equal(t, "nope", AsError(wrapped).Message)

	assert.Nil(t, AsError(errors.New("plain")))
	assert.False(t, IsKind(nil, KindUnauthorized))
}

func TestFormatError(t *testing.T) {
	err := &Error{
		Kind:    KindNotFound,
		Message: "project not found",
		Hint:    "Check the ID",
	}

	text := FormatError(err, "table")
	assert.Contains(t, text, "Error [NOT_FOUND]: project not found")
	assert.Contains(t, text, "Hint: Check the ID")

	asJSON := FormatError(err, "json")
	assert.Contains(t, asJSON, `"kind": "NOT_FOUND"`)
	assert.Contains(t, asJSON, `"message": "project not found"`)
}
