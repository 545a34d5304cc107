package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pitwall/config"
	coremon "github.com/kilianp07/pitwall/core/monitoring"
)

func TestNewSentryMonitor_EmptyDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestNewSentryMonitor_InvalidDSN(t *testing.T) {
	_, err := NewSentryMonitor(config.SentryConfig{DSN: "not a dsn"})
	assert.Error(t, err)
}

func TestNewSentryMonitor_Capture(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{DSN: "http://public@127.0.0.1:1/1", Environment: "test"})
	require.NoError(t, err)
	sm, ok := m.(*sentryMonitor)
	require.True(t, ok)
	sm.CaptureException(nil, nil)
	sm.CaptureException(errors.New("tire model failed"), map[string]string{"track": "Monza"})
	sm.Flush(10 * time.Millisecond)
}
