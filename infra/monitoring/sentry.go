package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/pitwall/config"
	coremon "github.com/kilianp07/pitwall/core/monitoring"
)

const recoverFlushTimeout = 2 * time.Second

// NewSentryMonitor builds a Monitor reporting to the configured DSN on its
// own hub. An empty DSN disables reporting.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
		ServerName:       "pitwall",
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, err
	}
	scope := sentry.NewScope()
	scope.SetTag("service", "pitwall")
	return &sentryMonitor{hub: sentry.NewHub(client, scope)}, nil
}

type sentryMonitor struct {
	hub *sentry.Hub
}

// CaptureException reports err with the given tags set on a scope local to
// this event.
func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		s.hub.CaptureException(err)
	})
}

// RecoverValue reports a value already obtained from recover().
func (s *sentryMonitor) RecoverValue(r any) {
	s.hub.Recover(r)
}

func (s *sentryMonitor) Recover() {
	if r := recover(); r != nil {
		s.hub.Recover(r)
		s.hub.Flush(recoverFlushTimeout)
		panic(r)
	}
}

func (s *sentryMonitor) Flush(timeout time.Duration) { s.hub.Flush(timeout) }
