package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryNewUsesMessageTable(t *testing.T) {
	err := errors.New().New(errors.ErrAlreadyRunning)

	assert.Equal(t, errors.ErrAlreadyRunning, err.Code())
	assert.Equal(t, "Another instance is already running", err.Error())
}

func TestFactoryNewUnknownCodeFallsBackToCode(t *testing.T) {
	err := errors.New().New(errors.ErrorCode("autostart_write_failed"))

	assert.Equal(t, "autostart_write_failed", err.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := errors.New().Wrap(errors.ErrReadConfig, cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to read config file: permission denied", err.Error())
}

func TestWithDataOverridesCauseInMessage(t *testing.T) {
	err := errors.New().WithData(errors.ErrInvalidArgument, "timeout out of range")

	assert.Equal(t, "Invalid argument provided: timeout out of range", err.Error())
	assert.Equal(t, "timeout out of range", err.GetData())
}

func TestHasCode(t *testing.T) {
	factory := errors.New()
	inner := factory.New(errors.ErrInvalidLogLevel)
	outer := factory.Wrap(errors.ErrInvalidConfig, inner)
	wrapped := fmt.Errorf("load: %w", outer)

	assert.True(t, errors.HasCode(wrapped, errors.ErrInvalidConfig))
	assert.True(t, errors.HasCode(wrapped, errors.ErrInvalidLogLevel))
	assert.False(t, errors.HasCode(wrapped, errors.ErrTimeout))
	assert.False(t, errors.HasCode(stderrors.New("plain"), errors.ErrInternal))
	assert.False(t, errors.HasCode(nil, errors.ErrInternal))
}
