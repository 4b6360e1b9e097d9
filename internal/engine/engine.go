// Package engine runs workflow nodes strictly in sequence: at most one node
// is ever mid-call, results flow forward as a parameter source for later
// nodes, and transient failures are retried in place with exponential
// backoff.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/skybridge-ai/flowkit/internal/adapters/discovery"
	"github.com/skybridge-ai/flowkit/internal/catalog"
	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/skybridge-ai/flowkit/internal/params"
	"github.com/skybridge-ai/flowkit/internal/ports"
	"github.com/skybridge-ai/flowkit/internal/preflight"
)

// ContractResolver turns a node into the tool contract execution will call.
// Execution and pre-flight share one implementation so the dry-run gate
// checks the exact path used here, schema refinement included.
type ContractResolver interface {
	ResolveContract(node *domain.WorkflowNode, session preflight.Session) *domain.ToolContract
	RefineSchema(ctx context.Context, contract *domain.ToolContract)
}

type Deps struct {
	Contracts ContractResolver
	Catalog   *catalog.Catalog
	Resolver  *params.Resolver
	Platform  ports.PlatformClient
	Clock     ports.Clock
	Config    *domain.Config
	Logger    *slog.Logger

	// Emit receives lifecycle events; nil disables emission.
	Emit func(event interface{})
}

type Engine struct {
	contracts ContractResolver
	catalog   *catalog.Catalog
	resolver  *params.Resolver
	platform  ports.PlatformClient
	clock     ports.Clock
	cfg       *domain.Config
	logger    *slog.Logger
	emit      func(event interface{})
}

func New(deps Deps) *Engine {
	clock := deps.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Engine{
		contracts: deps.Contracts,
		catalog:   deps.Catalog,
		resolver:  deps.Resolver,
		platform:  deps.Platform,
		clock:     clock,
		cfg:       deps.Config,
		logger:    deps.Logger.With("component", "engine"),
		emit:      deps.Emit,
	}
}

// RunRequest carries everything a run needs besides the run record itself.
type RunRequest struct {
	Nodes   []domain.WorkflowNode
	Session preflight.Session
	Context params.WorkflowContext

	// Samples holds trigger payloads keyed by node ID. A present nil entry
	// records an explicit skip; an absent entry suspends the run.
	Samples map[string]map[string]interface{}
}

// Outcome is the result of driving a run as far as it can go.
type Outcome struct {
	Run *domain.Run

	// Suspended is set when a trigger node is still waiting for sample
	// data. The run resumes from the same node once a sample arrives.
	Suspended          bool
	AwaitingSampleNode string
}

// Start copies the node list into a fresh run and drives it from the first
// node. Independent runs never share mutable node state.
func (e *Engine) Start(ctx context.Context, req RunRequest) (*Outcome, error) {
	nodes := make([]domain.WorkflowNode, len(req.Nodes))
	copy(nodes, req.Nodes)
	for i := range nodes {
		nodes[i].Status = domain.NodeStatusPending
	}

	run := &domain.Run{
		ID:        uuid.NewString(),
		Nodes:     nodes,
		State:     domain.RunStateExecuting,
		StartedAt: e.clock.Now(),
	}
	e.emitEvent(domain.RunStartedEvent{
		RunID:      run.ID,
		WorkflowID: e.cfg.WorkflowID,
		NodeCount:  len(nodes),
		StartedAt:  run.StartedAt,
	})
	e.logger.Debug("run started", "run_id", run.ID, "nodes", len(nodes))

	return e.Resume(ctx, req, run)
}

// Resume continues a run from the first node without a recorded result.
// Flow data is rebuilt from completed results, so a suspended run picks up
// exactly where it stopped with every earlier output intact.
func (e *Engine) Resume(ctx context.Context, req RunRequest, run *domain.Run) (*Outcome, error) {
	run.State = domain.RunStateExecuting
	run.Error = nil

	flow := params.FlowData{}
	for _, res := range run.Results {
		if merged, err := params.MergeOutputs(flow, res.Output); err == nil {
			flow = merged
		}
	}

	for i := range run.Nodes {
		node := &run.Nodes[i]
		if _, done := run.ResultByNode(node.ID); done {
			continue
		}

		class := domain.ClassifyNode(node, e.cfg.InternalIntegrations)
		var contract *domain.ToolContract
		started := domain.NodeStartedEvent{
			RunID:    run.ID,
			NodeID:   node.ID,
			NodeName: node.Name,
			At:       e.clock.Now(),
		}
		if class == domain.NodeClassAction {
			contract = e.contracts.ResolveContract(node, req.Session)
			started.Slug = contract.Slug
		}

		node.Status = domain.NodeStatusConnecting
		e.emitEvent(started)

		var result domain.NodeResult
		switch class {
		case domain.NodeClassTrigger:
			sample, supplied := req.Samples[node.ID]
			if !supplied {
				node.Status = domain.NodeStatusPending
				e.emitEvent(domain.RunSuspendedEvent{
					RunID:       run.ID,
					WorkflowID:  e.cfg.WorkflowID,
					NodeID:      node.ID,
					Reason:      "awaiting trigger sample data",
					SuspendedAt: e.clock.Now(),
				})
				e.logger.Debug("run suspended awaiting sample", "run_id", run.ID, "node_id", node.ID)
				return &Outcome{Run: run, Suspended: true, AwaitingSampleNode: node.ID}, nil
			}
			result = e.runTrigger(node, sample)
		case domain.NodeClassInternal:
			var err error
			result, err = e.runInternal(ctx, node)
			if err != nil {
				return nil, err
			}
		default:
			var err error
			result, err = e.runAction(ctx, req, run, node, contract, flow)
			if err != nil {
				return nil, err
			}
		}

		run.Results = append(run.Results, result)
		if !result.Success {
			node.Status = domain.NodeStatusError
			run.State = domain.RunStateError
			run.Error = result.Err
			e.emitEvent(domain.NodeCompletedEvent{RunID: run.ID, NodeID: node.ID, NodeName: node.Name, Result: result, At: e.clock.Now()})
			e.emitEvent(domain.RunFailedEvent{
				RunID:      run.ID,
				WorkflowID: e.cfg.WorkflowID,
				FailedNode: node.ID,
				Error:      result.Err,
				FailedAt:   e.clock.Now(),
			})
			e.logger.Debug("run failed",
				"run_id", run.ID,
				"node_id", node.ID,
				"category", string(result.Err.Category),
				"attempts", result.Attempts,
			)
			return &Outcome{Run: run}, nil
		}

		node.Status = domain.NodeStatusSuccess
		e.emitEvent(domain.NodeCompletedEvent{RunID: run.ID, NodeID: node.ID, NodeName: node.Name, Result: result, At: e.clock.Now()})
		if merged, err := params.MergeOutputs(flow, result.Output); err == nil {
			flow = merged
		}
	}

	now := e.clock.Now()
	run.State = domain.RunStateComplete
	run.Verified = run.FullyVerified()
	run.CompletedAt = &now
	e.emitEvent(domain.RunCompletedEvent{
		RunID:         run.ID,
		WorkflowID:    e.cfg.WorkflowID,
		FullyVerified: run.Verified,
		Duration:      now.Sub(run.StartedAt),
		CompletedAt:   now,
	})
	e.logger.Debug("run complete", "run_id", run.ID, "fully_verified", run.Verified)
	return &Outcome{Run: run}, nil
}

func (e *Engine) runTrigger(node *domain.WorkflowNode, sample map[string]interface{}) domain.NodeResult {
	now := e.clock.Now()
	return domain.NodeResult{
		NodeID:     node.ID,
		NodeName:   node.Name,
		Success:    true,
		Verified:   true,
		Output:     sample,
		StartedAt:  now,
		FinishedAt: now,
		Attempts:   1,
	}
}

func (e *Engine) runInternal(ctx context.Context, node *domain.WorkflowNode) (domain.NodeResult, error) {
	started := e.clock.Now()
	if err := e.wait(ctx, e.cfg.InternalNodeDelay); err != nil {
		return domain.NodeResult{}, err
	}
	return domain.NodeResult{
		NodeID:     node.ID,
		NodeName:   node.Name,
		Success:    true,
		Verified:   true,
		Output:     map[string]interface{}{"status": "completed"},
		StartedAt:  started,
		FinishedAt: e.clock.Now(),
		Attempts:   1,
	}, nil
}

func (e *Engine) runAction(ctx context.Context, req RunRequest, run *domain.Run, node *domain.WorkflowNode, contract *domain.ToolContract, flow params.FlowData) (domain.NodeResult, error) {
	result := domain.NodeResult{
		NodeID:    node.ID,
		NodeName:  node.Name,
		StartedAt: e.clock.Now(),
	}

	e.contracts.RefineSchema(ctx, contract)

	resolved, err := e.resolver.Resolve(contract, node, flow, req.Session.Collected, req.Context)
	if err != nil {
		result.Err = domain.Classify(err)
		result.FinishedAt = e.clock.Now()
		return e.downgrade(run, node, result), nil
	}

	// Late validation fails fast, naming the first missing field. Missing
	// parameters are never retried and never downgraded.
	if missing := e.resolver.MissingRequired(contract, resolved); len(missing) > 0 {
		result.Err = domain.NewParamMissingError(missing[0], node.Name)
		result.FinishedAt = e.clock.Now()
		return result, nil
	}

	if verr := discovery.Validate(contract.InputSchema, resolved); verr != nil {
		result.Err = verr
		result.FinishedAt = e.clock.Now()
		return e.downgrade(run, node, result), nil
	}

	schedule := newRetrySchedule(e.cfg.Retry)
	for {
		res, callErr := e.platform.Execute(ctx, ports.ExecuteRequest{
			Slug:    contract.Slug,
			Toolkit: contract.Toolkit,
			Params:  resolved,
			RunID:   run.ID,
			NodeID:  node.ID,
		})
		if ctx.Err() != nil {
			return domain.NodeResult{}, ctx.Err()
		}

		failure := failureOf(res, callErr)
		if failure == nil {
			result.Success = true
			result.Verified = res.Verified == nil || *res.Verified
			result.Proof = res.Proof
			result.Output = res.Output
			result.Attempts = schedule.attempts()
			result.FinishedAt = e.clock.Now()
			return result, nil
		}

		if backoff, ok := schedule.next(failure.Category); ok {
			e.emitEvent(domain.NodeRetryingEvent{
				RunID:    run.ID,
				NodeID:   node.ID,
				NodeName: node.Name,
				Attempt:  schedule.attempts(),
				Backoff:  backoff,
				Category: failure.Category,
				At:       e.clock.Now(),
			})
			e.logger.Debug("retrying node",
				"run_id", run.ID,
				"node_id", node.ID,
				"category", string(failure.Category),
				"backoff", backoff.String(),
				"attempt", schedule.attempts(),
			)
			if err := e.wait(ctx, backoff); err != nil {
				return domain.NodeResult{}, err
			}
			continue
		}

		result.Err = e.withGuidance(failure, node, contract)
		result.Attempts = schedule.attempts()
		result.FinishedAt = e.clock.Now()
		return e.downgrade(run, node, result), nil
	}
}

// downgrade applies the non-critical rule: a failed notification-style or
// output node is marked success with a warning so the run keeps going.
func (e *Engine) downgrade(run *domain.Run, node *domain.WorkflowNode, result domain.NodeResult) domain.NodeResult {
	if result.Err == nil || result.Err.Category == domain.CategoryParamMissing {
		return result
	}
	isLast := len(run.Nodes) > 0 && run.Nodes[len(run.Nodes)-1].ID == node.ID
	if !domain.NonCritical(node, isLast) {
		return result
	}

	e.logger.Warn("non-critical node failed, continuing",
		"run_id", run.ID,
		"node_id", node.ID,
		"category", string(result.Err.Category),
	)
	result.Warning = fmt.Sprintf("%s failed (%s); run continued because the step is non-critical", node.Name, result.Err.Message)
	result.Success = true
	result.Verified = false
	result.Err = nil
	return result
}

func failureOf(res *ports.ExecuteResult, err error) *domain.Error {
	if err != nil {
		return domain.Classify(err)
	}
	if res == nil {
		return &domain.Error{Category: domain.CategoryUnknown, Message: "platform returned no result"}
	}
	if res.Success {
		return nil
	}
	if res.Error != nil {
		return res.Error
	}
	return &domain.Error{Category: domain.CategoryUnknown, Message: "execution failed without detail"}
}

func (e *Engine) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.clock.After(d):
		return nil
	}
}

func (e *Engine) emitEvent(event interface{}) {
	if e.emit != nil {
		e.emit(event)
	}
}
