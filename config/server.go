package config

import (
	"fmt"
	"time"
)

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
	// CORSOrigins lists the allowed origins; "*" allows any.
	CORSOrigins []string `json:"cors_origins"`
	// HistoryToken protects the history endpoint with a bearer token when set.
	HistoryToken           string `json:"history_token"`
	ReadTimeoutSeconds     int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `json:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = 10
	}
	if c.WriteTimeoutSeconds <= 0 {
		c.WriteTimeoutSeconds = 30
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		c.ShutdownTimeoutSeconds = 5
	}
}

// Validate checks mandatory fields.
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	return nil
}

func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
