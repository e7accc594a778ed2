package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	cause := errors.New("device busy")
	err := New(DeviceUnavailable, "audio.Open", cause)
	wrapped := fmt.Errorf("startup: %w", err)

	require.True(t, Is(wrapped, DeviceUnavailable))
	require.False(t, Is(wrapped, CaptureStalled))
}

func TestKindOfExtractsKind(t *testing.T) {
	err := New(InvalidEffect, "effect.SetEffect", nil)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, InvalidEffect, kind)
}

func TestKindOfFalseForPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	require.False(t, ok)
}

func TestErrorStringIncludesOpAndCause(t *testing.T) {
	err := New(SendFailed, "artnet.SendFrame", errors.New("connection refused"))
	require.Contains(t, err.Error(), "artnet.SendFrame")
	require.Contains(t, err.Error(), "SendFailed")
	require.Contains(t, err.Error(), "connection refused")
}

func TestErrorStringWithoutCause(t *testing.T) {
	err := New(NoControllersConfigured, "artnet.NewUDPDispatcher", nil)
	require.Equal(t, "artnet.NewUDPDispatcher: NoControllersConfigured", err.Error())
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("boom")
	err := New(ConfigInvalid, "config.Load", cause)
	require.Equal(t, cause, errors.Unwrap(err))
}
