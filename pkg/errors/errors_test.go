package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/presubmit/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "usage_error",
			code:    errors.ErrUsage,
			message: "missing --root",
			wantStr: "[USAGE] missing --root",
		},
		{
			name:    "tool_missing",
			code:    errors.ErrToolMissing,
			message: "gn not found",
			wantStr: "[TOOL_MISSING] gn not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	base := stderrors.New("exit status 1")

	err := errors.Wrapf(base, errors.ErrToolInvocation, "running %s", "gn")
	require.NotNil(t, err)
	assert.Equal(t, "[TOOL_INVOCATION] running gn: exit status 1", err.Error())
	assert.True(t, stderrors.Is(err, base))

	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "nothing"))
}

func TestIsErrorCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", errors.New(errors.ErrConfigParse, "bad toml"))

	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	assert.False(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	assert.Equal(t, errors.ErrConfigParse, errors.GetErrorCode(err))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestIs(t *testing.T) {
	a := errors.New(errors.ErrToolMissing, "gn")
	b := errors.New(errors.ErrToolMissing, "clang-format")

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, errors.New(errors.ErrUsage, "x")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrCheckFailed, "check exploded").
		WithDetail("check", "lint")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "lint", details["check"])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, errors.ExitCode(nil))
	assert.Equal(t, 2, errors.ExitCode(errors.New(errors.ErrUsage, "bad flag")))
	assert.Equal(t, 1, errors.ExitCode(errors.New(errors.ErrBlocked, "blocked")))
	assert.Equal(t, 1, errors.ExitCode(stderrors.New("plain")))
}

func TestErrorCodeValues(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want string
	}{
		{errors.ErrUsage, "USAGE"},
		{errors.ErrConfigLoad, "CONFIG_LOAD"},
		{errors.ErrConfigParse, "CONFIG_PARSE"},
		{errors.ErrConfigInvalid, "CONFIG_INVALID"},
		{errors.ErrToolMissing, "TOOL_MISSING"},
		{errors.ErrToolInvocation, "TOOL_INVOCATION"},
		{errors.ErrToolOutputParse, "TOOL_OUTPUT_PARSE"},
		{errors.ErrRuleEvaluation, "RULE_EVALUATION"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, string(tt.code))
			err := errors.New(tt.code, "x")
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}
