package domain

import (
	"io"
	"log/slog"
	"time"
)

func DefaultConfig(workflowID string) *Config {
	return &Config{
		WorkflowID:           workflowID,
		Retry:                DefaultRetryConfig(),
		Connection:           DefaultConnectionConfig(),
		InternalIntegrations: DefaultInternalIntegrations(),
		InternalNodeDelay:    400 * time.Millisecond,
	}
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		InitialBackoff:         2 * time.Second,
		MaxBackoff:             15 * time.Second,
		Multiplier:             2.0,
		MaxAttemptsRateLimited: 3,
		MaxAttemptsTransient:   2,
	}
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		PollInterval:    3 * time.Second,
		MaxPollAttempts: 40,
	}
}

func DefaultInternalIntegrations() []string {
	return []string{"ai", "internal", "logic", "agent"}
}

// ApplyDefaults fills zero-valued fields in place. Explicit settings win.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig(c.WorkflowID)
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.Retry.InitialBackoff == 0 {
		c.Retry.InitialBackoff = def.Retry.InitialBackoff
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = def.Retry.MaxBackoff
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = def.Retry.Multiplier
	}
	if c.Retry.MaxAttemptsRateLimited == 0 {
		c.Retry.MaxAttemptsRateLimited = def.Retry.MaxAttemptsRateLimited
	}
	if c.Retry.MaxAttemptsTransient == 0 {
		c.Retry.MaxAttemptsTransient = def.Retry.MaxAttemptsTransient
	}
	if c.Connection.PollInterval == 0 {
		c.Connection.PollInterval = def.Connection.PollInterval
	}
	if c.Connection.MaxPollAttempts == 0 {
		c.Connection.MaxPollAttempts = def.Connection.MaxPollAttempts
	}
	if c.InternalIntegrations == nil {
		c.InternalIntegrations = def.InternalIntegrations
	}
	if c.InternalNodeDelay == 0 {
		c.InternalNodeDelay = def.InternalNodeDelay
	}
}
