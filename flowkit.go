// Package flowkit resolves natural-language workflow steps into concrete
// platform tool calls and executes them node by node.
//
// A workflow is a short sequence of nodes, each named in plain language
// ("Send Slack message", "Fetch GitHub Issues") and tagged with the toolkit
// it touches. Flowkit resolves each node to a callable tool slug, merges
// parameter sources by priority, asks the user for whatever is still
// missing before anything runs, and then executes the sequence with
// retries, non-critical downgrades, and verification tracking.
//
// Basic usage:
//
//	session, err := flowkit.New(flowkit.DefaultConfig("wf-123"), nodes, flowkit.Options{
//	    APIKey: os.Getenv("COMPOSIO_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	status, _ := session.Check(ctx)
//	for !status.Ready {
//	    q, _ := session.CurrentQuestion()
//	    session.Answer(q.ID, askUser(q))
//	    status, _ = session.Check(ctx)
//	}
//	run, err := session.Start(ctx)
package flowkit

import (
	"github.com/skybridge-ai/flowkit/internal/adapters/composio"
	"github.com/skybridge-ai/flowkit/internal/adapters/storage"
	"github.com/skybridge-ai/flowkit/internal/core"
	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/skybridge-ai/flowkit/internal/ports"
	"github.com/skybridge-ai/flowkit/internal/preflight"
)

// Session owns one workflow card end to end: pre-flight questions,
// connection gating, execution, and durable state.
type Session = core.Session

// Config carries workflow identity, retry and connection tuning, and the
// logger. Zero values are filled by ApplyDefaults.
type Config = domain.Config

// RetryConfig bounds the in-place retry loop for transient failures.
type RetryConfig = domain.RetryConfig

// ConnectionConfig bounds OAuth connection polling.
type ConnectionConfig = domain.ConnectionConfig

// Node is one step of a workflow definition.
type Node = domain.WorkflowNode

// NodeKind distinguishes triggers, actions, and output steps.
type NodeKind = domain.NodeKind

// NodeStatus is the engine-owned per-node state.
type NodeStatus = domain.NodeStatus

// NodeResult is the recorded outcome of one executed node.
type NodeResult = domain.NodeResult

// Run is one execution of the workflow.
type Run = domain.Run

// RunState is the run-level state machine position.
type RunState = domain.RunState

// Question asks the user for one missing input before execution.
type Question = domain.Question

// QuickAction is a clickable shortcut attached to a question or error.
type QuickAction = domain.QuickAction

// CheckResult reports pre-flight readiness: open questions, missing
// connections, and slug naming warnings.
type CheckResult = preflight.CheckResult

// SlugWarning is a non-blocking naming concern for one node's resolved slug.
type SlugWarning = preflight.SlugWarning

// Error is the structured error surfaced at node and run level.
type Error = domain.Error

// ErrorCategory buckets failures for retry and recovery decisions.
type ErrorCategory = domain.ErrorCategory

// PlatformClient is the injected integration-platform collaborator.
type PlatformClient = ports.PlatformClient

// SessionStore persists session state across process restarts.
type SessionStore = ports.SessionStore

// ConnectionStatus reports one toolkit's auth state.
type ConnectionStatus = ports.ConnectionStatus

// ExecuteRequest is the call shape handed to a PlatformClient for an action
// node.
type ExecuteRequest = ports.ExecuteRequest

// ExecuteResult is the platform's outcome for one execute call.
type ExecuteResult = ports.ExecuteResult

// ToolSchema describes a tool's input parameters.
type ToolSchema = ports.ToolSchema

// DiscoveryResult is the platform's fallback resolution for an uncataloged
// toolkit.
type DiscoveryResult = ports.DiscoveryResult

// Lifecycle events delivered via Session.Subscribe.

type RunStartedEvent = domain.RunStartedEvent
type RunCompletedEvent = domain.RunCompletedEvent
type RunFailedEvent = domain.RunFailedEvent
type RunSuspendedEvent = domain.RunSuspendedEvent
type NodeStartedEvent = domain.NodeStartedEvent
type NodeCompletedEvent = domain.NodeCompletedEvent
type NodeRetryingEvent = domain.NodeRetryingEvent
type QuestionAskedEvent = domain.QuestionAskedEvent
type QuestionAnsweredEvent = domain.QuestionAnsweredEvent

const (
	NodeKindTrigger = domain.NodeKindTrigger
	NodeKindAction  = domain.NodeKindAction
	NodeKindOutput  = domain.NodeKindOutput
)

const (
	NodeStatusIdle       = domain.NodeStatusIdle
	NodeStatusPending    = domain.NodeStatusPending
	NodeStatusConnecting = domain.NodeStatusConnecting
	NodeStatusSuccess    = domain.NodeStatusSuccess
	NodeStatusError      = domain.NodeStatusError
)

const (
	RunStateReady     = domain.RunStateReady
	RunStateChecking  = domain.RunStateChecking
	RunStateExecuting = domain.RunStateExecuting
	RunStateComplete  = domain.RunStateComplete
	RunStateError     = domain.RunStateError
)

const (
	CategoryParamMissing       = domain.CategoryParamMissing
	CategoryToolNotFound       = domain.CategoryToolNotFound
	CategoryRateLimited        = domain.CategoryRateLimited
	CategoryNetwork            = domain.CategoryNetwork
	CategoryTimeout            = domain.CategoryTimeout
	CategoryServiceUnavailable = domain.CategoryServiceUnavailable
	CategoryAuth               = domain.CategoryAuth
	CategoryValidation         = domain.CategoryValidation
	CategoryUnknown            = domain.CategoryUnknown
)

// Lifecycle sentinels.
var (
	ErrNotReady       = domain.ErrNotReady
	ErrRunActive      = domain.ErrRunActive
	ErrNoPendingRun   = domain.ErrNoPendingRun
	ErrQuestionClosed = domain.ErrQuestionClosed
	ErrClosed         = domain.ErrClosed
)

// Error classification helpers.
var (
	IsParamMissing = domain.IsParamMissing
	IsToolNotFound = domain.IsToolNotFound
	IsAuth         = domain.IsAuth
	IsTransient    = domain.IsTransient
)

// DefaultConfig returns a Config with production retry and connection
// bounds for the given workflow.
func DefaultConfig(workflowID string) *Config {
	return domain.DefaultConfig(workflowID)
}

// Options selects the platform and storage backends. Zero values pick the
// Composio HTTP client and, when Config.DataDir is set, an embedded badger
// store; without a data directory state is held in memory.
type Options struct {
	// APIKey authenticates against the Composio platform. Ignored when
	// Platform is set.
	APIKey string

	// BaseURL overrides the platform endpoint, mainly for testing.
	BaseURL string

	// Platform replaces the default HTTP client entirely.
	Platform PlatformClient

	// Store replaces the default session store.
	Store SessionStore
}

// New builds a workflow session. The node list is copied; the caller keeps
// ownership of its slice.
func New(cfg *Config, nodes []Node, opts Options) (*Session, error) {
	cfg.ApplyDefaults()

	platform := opts.Platform
	if platform == nil {
		platform = composio.New(composio.Config{APIKey: opts.APIKey, BaseURL: opts.BaseURL}, cfg.Logger)
	}

	store := opts.Store
	if store == nil {
		if cfg.DataDir != "" {
			badgerStore, err := storage.NewBadgerStore(cfg.DataDir, cfg.Logger)
			if err != nil {
				return nil, err
			}
			store = badgerStore
		} else {
			store = storage.NewMemoryStore()
		}
	}

	return core.NewSession(cfg, nodes, platform, store, nil)
}
