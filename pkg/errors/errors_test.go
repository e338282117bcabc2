package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrunError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *PayrunError
		want string
	}{
		{
			name: "message only",
			err:  &PayrunError{Code: "X", Message: "something broke"},
			want: "something broke",
		},
		{
			name: "with details sorted",
			err: &PayrunError{
				Code:    "X",
				Message: "row failed",
				Details: map[string]string{"chain": "base", "amount": "10"},
			},
			want: "row failed (amount: 10) (chain: base)",
		},
		{
			name: "with cause",
			err: &PayrunError{
				Code:    "X",
				Message: "dial failed",
				Cause:   errors.New("connection refused"),
			},
			want: "dial failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIs_MatchesByCode(t *testing.T) {
	wrapped := WithDetails(ErrUnsupportedChain, map[string]string{"chain": "polygon"})
	assert.True(t, errors.Is(wrapped, ErrUnsupportedChain))
	assert.False(t, errors.Is(wrapped, ErrUnsupportedToken))
}

func TestWrap_PreservesCodeAndExitCode(t *testing.T) {
	err := Wrap(ErrSubmission, "row 3")

	var pe *PayrunError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "SUBMISSION_ERROR", pe.Code)
	assert.Equal(t, ExitGeneral, pe.ExitCode)
	assert.Contains(t, pe.Message, "row 3")
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, WithDetails(nil, nil))
	assert.NoError(t, WithSuggestion(nil, "hint"))
	assert.NoError(t, WithCause(nil, errors.New("x")))
}

func TestWithCause_KeepsSentinelIdentity(t *testing.T) {
	cause := fmt.Errorf("eof")
	err := WithCause(ErrReceiptMissing, cause)

	assert.True(t, errors.Is(err, ErrReceiptMissing))
	assert.ErrorContains(t, err, "eof")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitConfig, ExitCode(ErrConfiguration))
	assert.Equal(t, ExitInput, ExitCode(ErrInvalidAmount))
	assert.Equal(t, ExitGeneral, ExitCode(errors.New("plain")))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "CONNECTION_ERROR", Code(ErrConnection))
	assert.Equal(t, "GENERAL_ERROR", Code(errors.New("plain")))
}

func TestWithSuggestion(t *testing.T) {
	err := WithSuggestion(ErrUnsupportedChain, "did you mean 'base'?")

	var pe *PayrunError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "did you mean 'base'?", pe.Suggestion)
	assert.Equal(t, "UNSUPPORTED_CHAIN", pe.Code)
}
