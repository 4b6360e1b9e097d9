package domain

import (
	"time"
)

type NodeKind string

const (
	NodeKindTrigger NodeKind = "trigger"
	NodeKindAction  NodeKind = "action"
	NodeKindOutput  NodeKind = "output"
)

type NodeStatus string

const (
	NodeStatusIdle       NodeStatus = "idle"
	NodeStatusPending    NodeStatus = "pending"
	NodeStatusConnecting NodeStatus = "connecting"
	NodeStatusSuccess    NodeStatus = "success"
	NodeStatusError      NodeStatus = "error"
)

// WorkflowNode is one step of a workflow definition. Status is mutated only
// by the execution engine; everything else is stable for the lifetime of a
// run.
type WorkflowNode struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Kind        NodeKind               `json:"kind"`
	Toolkit     string                 `json:"toolkit"`
	Status      NodeStatus             `json:"status"`
	Config      map[string]interface{} `json:"config,omitempty"`
	Description string                 `json:"description,omitempty"`
}

// NodeClass is the execution-time classification of a node. It is computed
// once per node and is not user-configurable.
type NodeClass string

const (
	NodeClassTrigger  NodeClass = "trigger"
	NodeClassInternal NodeClass = "internal"
	NodeClassAction   NodeClass = "action"
)

// NodeResult is the outcome of executing a single node. Output becomes a
// flow-data source for later nodes in the same run.
type NodeResult struct {
	NodeID     string                 `json:"node_id"`
	NodeName   string                 `json:"node_name"`
	Success    bool                   `json:"success"`
	Verified   bool                   `json:"verified"`
	Proof      string                 `json:"proof,omitempty"`
	Output     map[string]interface{} `json:"output,omitempty"`
	Warning    string                 `json:"warning,omitempty"`
	Err        *Error                 `json:"error,omitempty"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Attempts   int                    `json:"attempts"`
}

// ToolContract describes the callable tool a node resolved to. It is
// immutable once resolved for a node within a run.
type ToolContract struct {
	Slug           string   `json:"slug"`
	Toolkit        string   `json:"toolkit"`
	RequiredParams []string `json:"required_params"`
	OptionalParams []string `json:"optional_params,omitempty"`
	DisplayName    string   `json:"display_name,omitempty"`
	InputSchema    []byte   `json:"input_schema,omitempty"`
	DiscoverySess  string   `json:"discovery_session,omitempty"`
}
