package domain

import (
	"time"
)

type RunState string

const (
	RunStateReady     RunState = "ready"
	RunStateChecking  RunState = "checking"
	RunStateExecuting RunState = "executing"
	RunStateComplete  RunState = "complete"
	RunStateError     RunState = "error"
)

// Run is one execution of a workflow. Independent runs never share mutable
// node state; starting a run copies the node list.
type Run struct {
	ID          string         `json:"id"`
	Nodes       []WorkflowNode `json:"nodes"`
	State       RunState       `json:"state"`
	Results     []NodeResult   `json:"results"`
	Verified    bool           `json:"verified"`
	Error       *Error         `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// FullyVerified reports whether every action-node result carries independent
// verification. A complete run with an unverified result is reported as
// complete-with-warnings, distinct from a fully verified run.
func (r *Run) FullyVerified() bool {
	for _, res := range r.Results {
		if res.Success && !res.Verified {
			return false
		}
	}
	return true
}

// ResultByNode returns the recorded result for a node, if any.
func (r *Run) ResultByNode(nodeID string) (NodeResult, bool) {
	for _, res := range r.Results {
		if res.NodeID == nodeID {
			return res, true
		}
	}
	return NodeResult{}, false
}
