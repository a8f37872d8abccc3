package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridianhq/mctl/pkg/apierror"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil error", nil, apierror.ExitSuccess},
		{"plain error", errors.New("boom"), apierror.ExitGeneral},
		{"unauthorized", &apierror.Error{Kind: apierror.KindUnauthorized}, apierror.ExitAuth},
		{"not found", &apierror.Error{Kind: apierror.KindNotFound}, apierror.ExitNotFound},
		{"validation", &apierror.Error{Kind: apierror.KindValidation}, apierror.ExitValidation},
		{"network", &apierror.Error{Kind: apierror.KindNetwork}, apierror.ExitGeneral},
		{"server", &apierror.Error{Kind: apierror.KindServer}, apierror.ExitGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ExitCode(tt.err))
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42", "project")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("abc", "project")
	assert.ErrorContains(t, err, `invalid project ID "abc"`)
}
