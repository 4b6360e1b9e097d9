package domain

import (
	"time"
)

type RunStartedEvent struct {
	RunID      string    `json:"run_id"`
	WorkflowID string    `json:"workflow_id"`
	NodeCount  int       `json:"node_count"`
	StartedAt  time.Time `json:"started_at"`
}

type RunCompletedEvent struct {
	RunID         string        `json:"run_id"`
	WorkflowID    string        `json:"workflow_id"`
	FullyVerified bool          `json:"fully_verified"`
	Duration      time.Duration `json:"duration"`
	CompletedAt   time.Time     `json:"completed_at"`
}

type RunFailedEvent struct {
	RunID      string    `json:"run_id"`
	WorkflowID string    `json:"workflow_id"`
	FailedNode string    `json:"failed_node"`
	Error      *Error    `json:"error"`
	FailedAt   time.Time `json:"failed_at"`
}

type RunSuspendedEvent struct {
	RunID       string    `json:"run_id"`
	WorkflowID  string    `json:"workflow_id"`
	NodeID      string    `json:"node_id"`
	Reason      string    `json:"reason"`
	SuspendedAt time.Time `json:"suspended_at"`
}

type NodeStartedEvent struct {
	RunID    string    `json:"run_id"`
	NodeID   string    `json:"node_id"`
	NodeName string    `json:"node_name"`
	Slug     string    `json:"slug,omitempty"`
	At       time.Time `json:"at"`
}

type NodeCompletedEvent struct {
	RunID    string     `json:"run_id"`
	NodeID   string     `json:"node_id"`
	NodeName string     `json:"node_name"`
	Result   NodeResult `json:"result"`
	At       time.Time  `json:"at"`
}

type NodeRetryingEvent struct {
	RunID    string        `json:"run_id"`
	NodeID   string        `json:"node_id"`
	NodeName string        `json:"node_name"`
	Attempt  int           `json:"attempt"`
	Backoff  time.Duration `json:"backoff"`
	Category ErrorCategory `json:"category"`
	At       time.Time     `json:"at"`
}

type QuestionAskedEvent struct {
	WorkflowID string    `json:"workflow_id"`
	Question   Question  `json:"question"`
	At         time.Time `json:"at"`
}

type QuestionAnsweredEvent struct {
	WorkflowID string    `json:"workflow_id"`
	QuestionID string    `json:"question_id"`
	Param      string    `json:"param"`
	At         time.Time `json:"at"`
}
