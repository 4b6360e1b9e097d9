package domain

import (
	"log/slog"
	"time"
)

type Config struct {
	// WorkflowID identifies the workflow card this session serves. Used as
	// the storage key prefix so a card survives process restarts.
	WorkflowID string `json:"workflow_id"`

	DataDir string       `json:"data_dir"`
	Logger  *slog.Logger `json:"-"`

	// Description is the free-text intent the user typed; parameter smart
	// defaults template values out of it.
	Description string `json:"description,omitempty"`

	Retry      RetryConfig      `json:"retry"`
	Connection ConnectionConfig `json:"connection"`

	// InternalIntegrations are pseudo-integrations executed in-process with
	// no external call (AI steps, branching helpers).
	InternalIntegrations []string `json:"internal_integrations,omitempty"`

	// InternalNodeDelay simulates work for internal nodes so the UI renders
	// a visible transition.
	InternalNodeDelay time.Duration `json:"internal_node_delay"`
}

type RetryConfig struct {
	InitialBackoff         time.Duration `json:"initial_backoff"`
	MaxBackoff             time.Duration `json:"max_backoff"`
	Multiplier             float64       `json:"multiplier"`
	MaxAttemptsRateLimited int           `json:"max_attempts_rate_limited"`
	MaxAttemptsTransient   int           `json:"max_attempts_transient"`
}

type ConnectionConfig struct {
	PollInterval    time.Duration `json:"poll_interval"`
	MaxPollAttempts int           `json:"max_poll_attempts"`
}

func (c *Config) Validate() error {
	if c.WorkflowID == "" {
		return &Error{Category: CategoryValidation, Message: "workflow id is required"}
	}
	if c.Retry.Multiplier < 1 {
		return &Error{Category: CategoryValidation, Message: "retry multiplier must be >= 1"}
	}
	if c.Retry.InitialBackoff <= 0 || c.Retry.MaxBackoff < c.Retry.InitialBackoff {
		return &Error{Category: CategoryValidation, Message: "retry backoff bounds are inconsistent"}
	}
	if c.Connection.MaxPollAttempts <= 0 {
		return &Error{Category: CategoryValidation, Message: "connection poll attempts must be positive"}
	}
	return nil
}
