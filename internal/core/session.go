// Package core wires the catalog, resolver, pre-flight validator, and
// execution engine into a single workflow session with durable state.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/skybridge-ai/flowkit/internal/catalog"
	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/skybridge-ai/flowkit/internal/engine"
	"github.com/skybridge-ai/flowkit/internal/params"
	"github.com/skybridge-ai/flowkit/internal/ports"
	"github.com/skybridge-ai/flowkit/internal/preflight"
	json "github.com/skybridge-ai/flowkit/internal/xjson"
)

// Session is the lifecycle owner of one workflow card: it surfaces the
// question queue, gates execution behind pre-flight and connections, runs
// the engine, and persists everything worth keeping across restarts.
type Session struct {
	cfg       *domain.Config
	logger    *slog.Logger
	catalog   *catalog.Catalog
	resolver  *params.Resolver
	validator *preflight.Validator
	engine    *engine.Engine
	platform  ports.PlatformClient
	store     ports.SessionStore
	clock     ports.Clock

	mu        sync.Mutex
	nodes     []domain.WorkflowNode
	state     preflight.Session
	samples   map[string]map[string]interface{}
	connected map[string]bool
	run       *domain.Run
	suspended bool
	running   bool
	closed    bool

	subsMu sync.Mutex
	subs   []chan interface{}
}

func NewSession(cfg *domain.Config, nodes []domain.WorkflowNode, platform ports.PlatformClient, store ports.SessionStore, clock ports.Clock) (*Session, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	logger := cfg.Logger.With("workflow_id", cfg.WorkflowID)
	cat := catalog.New(logger)
	resolver := params.NewResolver(logger)
	validator := preflight.NewValidator(cat, resolver, platform, cfg.InternalIntegrations, logger)

	s := &Session{
		cfg:       cfg,
		logger:    logger.With("component", "session"),
		catalog:   cat,
		resolver:  resolver,
		validator: validator,
		platform:  platform,
		store:     store,
		clock:     clock,
		nodes:     append([]domain.WorkflowNode(nil), nodes...),
		state:     preflight.NewSession(cfg.WorkflowID),
		samples:   map[string]map[string]interface{}{},
		connected: map[string]bool{},
	}
	s.engine = engine.New(engine.Deps{
		Contracts: validator,
		Catalog:   cat,
		Resolver:  resolver,
		Platform:  platform,
		Clock:     clock,
		Config:    cfg,
		Logger:    logger,
		Emit:      s.publish,
	})

	if err := s.restore(); err != nil {
		return nil, fmt.Errorf("restore session state: %w", err)
	}
	return s, nil
}

// Check runs a pre-flight pass: refreshes connection state for every
// involved toolkit, recomputes the question queue, and reports readiness.
func (s *Session) Check(ctx context.Context) (*preflight.CheckResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrClosed
	}
	nodes := append([]domain.WorkflowNode(nil), s.nodes...)
	state := s.state
	known := map[string]bool{}
	for _, q := range state.Questions {
		known[q.ID] = true
	}
	s.mu.Unlock()

	connected, err := s.refreshConnections(ctx, nodes)
	if err != nil {
		return nil, err
	}

	state, result, err := s.validator.Check(ctx, nodes, state, connected, s.workflowContext())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	// One pass can both retire satisfied questions and append new ones, so
	// newness is decided by ID, not queue position.
	for _, q := range state.Questions {
		if !known[q.ID] {
			s.publish(domain.QuestionAskedEvent{WorkflowID: s.cfg.WorkflowID, Question: q, At: s.clock.Now()})
		}
	}

	if err := s.persistDiscovery(); err != nil {
		s.logger.Warn("discovery cache not persisted", "error", err.Error())
	}
	return &result, nil
}

// CurrentQuestion is the head of the queue, presented one at a time.
func (s *Session) CurrentQuestion() (domain.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentQuestion()
}

// Questions is the full open queue in stable order.
func (s *Session) Questions() []domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Question(nil), s.state.Questions...)
}

// Answer folds a user answer into the collected store, closing the question
// and every alias-equivalent question it satisfies. URL-shaped answers for
// identifier params are reduced to the bare ID before storage.
func (s *Session) Answer(questionID, value string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	q, ok := s.state.QuestionByID(questionID)
	if !ok {
		s.mu.Unlock()
		return domain.ErrQuestionClosed
	}
	state, err := s.state.Answer(s.resolver.Aliases(), questionID, strings.TrimSpace(value), s.resolver.ExtractID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = state
	s.mu.Unlock()

	s.publish(domain.QuestionAnsweredEvent{
		WorkflowID: s.cfg.WorkflowID,
		QuestionID: questionID,
		Param:      q.Param,
		At:         s.clock.Now(),
	})

	if err := s.persistCollected(); err != nil {
		s.logger.Warn("collected params not persisted", "error", err.Error())
	}
	return nil
}

// Start executes the workflow. Pre-flight must be clean: open questions or
// missing connections return ErrNotReady. The call blocks until the run
// completes, fails, or suspends awaiting trigger sample data.
func (s *Session) Start(ctx context.Context) (*domain.Run, error) {
	status, err := s.Check(ctx)
	if err != nil {
		return nil, err
	}
	if !status.Ready {
		return nil, domain.ErrNotReady
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, domain.ErrRunActive
	}
	s.running = true
	req := s.runRequestLocked()
	s.mu.Unlock()

	outcome, err := s.engine.Start(ctx, req)
	return s.finishRun(outcome, err)
}

// Retry discards the failed run and re-runs the whole sequence from the
// first node. Resuming mid-sequence after a terminal error is not supported;
// corrected input plus a full rerun is the recovery path.
func (s *Session) Retry(ctx context.Context) (*domain.Run, error) {
	s.mu.Lock()
	if s.run == nil {
		s.mu.Unlock()
		return nil, domain.ErrNoPendingRun
	}
	if s.running {
		s.mu.Unlock()
		return nil, domain.ErrRunActive
	}
	s.run = nil
	s.suspended = false
	s.mu.Unlock()

	return s.Start(ctx)
}

// ProvideSample records trigger sample data and, when a run is suspended on
// that node, resumes it in place with completed node states preserved.
func (s *Session) ProvideSample(ctx context.Context, nodeID string, payload map[string]interface{}) (*domain.Run, error) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return s.resumeWithSample(ctx, nodeID, payload)
}

// SkipSample resumes a suspended trigger with an empty payload.
func (s *Session) SkipSample(ctx context.Context, nodeID string) (*domain.Run, error) {
	return s.resumeWithSample(ctx, nodeID, map[string]interface{}{})
}

func (s *Session) resumeWithSample(ctx context.Context, nodeID string, payload map[string]interface{}) (*domain.Run, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrClosed
	}
	s.samples[nodeID] = payload
	if s.run == nil || !s.suspended {
		run := s.run
		s.mu.Unlock()
		return run, nil
	}
	if s.running {
		s.mu.Unlock()
		return nil, domain.ErrRunActive
	}
	s.running = true
	s.suspended = false
	run := s.run
	req := s.runRequestLocked()
	s.mu.Unlock()

	outcome, err := s.engine.Resume(ctx, req, run)
	return s.finishRun(outcome, err)
}

// Reset abandons the current run: node statuses return to idle and pending
// retry state is dropped. Collected params survive; external side effects
// already performed are never rolled back.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run = nil
	s.suspended = false
	s.running = false
	s.samples = map[string]map[string]interface{}{}
	for i := range s.nodes {
		s.nodes[i].Status = domain.NodeStatusIdle
	}
	s.logger.Debug("session reset")
}

// Connect starts the auth flow for the named toolkits and polls until each
// connects or the bounded attempt budget runs out.
func (s *Session) Connect(ctx context.Context, toolkits []string) (map[string]ports.ConnectionStatus, error) {
	statuses, err := s.platform.InitiateConnection(ctx, toolkits)
	if err != nil {
		return nil, err
	}

	for _, toolkit := range toolkits {
		status := statuses[toolkit]
		if status.Connected {
			s.markConnected(toolkit)
			continue
		}
		connected, err := s.pollConnection(ctx, toolkit)
		if err != nil {
			return statuses, err
		}
		if connected {
			status.Connected = true
			statuses[toolkit] = status
			s.markConnected(toolkit)
		}
	}
	return statuses, nil
}

func (s *Session) pollConnection(ctx context.Context, toolkit string) (bool, error) {
	for attempt := 0; attempt < s.cfg.Connection.MaxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-s.clock.After(s.cfg.Connection.PollInterval):
		}

		connected, err := s.platform.CheckConnection(ctx, toolkit)
		if err != nil {
			s.logger.Debug("connection poll failed", "toolkit", toolkit, "error", err.Error())
			continue
		}
		if connected {
			return true, nil
		}
	}
	s.logger.Debug("connection polling exhausted", "toolkit", toolkit, "attempts", s.cfg.Connection.MaxPollAttempts)
	return false, nil
}

// Nodes returns the node list with current statuses: the active run's view
// when one exists, the definition otherwise.
func (s *Session) Nodes() []domain.WorkflowNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil {
		return append([]domain.WorkflowNode(nil), s.run.Nodes...)
	}
	return append([]domain.WorkflowNode(nil), s.nodes...)
}

// State summarizes the card for presentation: the active run's state when
// one exists, RunStateReady once pre-flight has fully cleared, and
// RunStateChecking while questions remain or the dry-run gate has yet to
// pass.
func (s *Session) State() domain.RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil {
		return s.run.State
	}
	if len(s.state.Questions) == 0 && s.state.DryRunDone {
		return domain.RunStateReady
	}
	return domain.RunStateChecking
}

// LastRun returns the most recent run, finished or suspended.
func (s *Session) LastRun() (*domain.Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return nil, false
	}
	out := *s.run
	return &out, true
}

// Runs lists archived runs for this workflow from the session store.
func (s *Session) Runs() ([]*domain.Run, error) {
	entries, err := s.store.ListByPrefix(domain.RunPrefix + s.cfg.WorkflowID + ":")
	if err != nil {
		return nil, err
	}
	runs := make([]*domain.Run, 0, len(entries))
	for key, raw := range entries {
		var run domain.Run
		if err := json.Unmarshal(raw, &run); err != nil {
			s.logger.Warn("archived run is unreadable", "key", key, "error", err.Error())
			continue
		}
		runs = append(runs, &run)
	}
	return runs, nil
}

// CollectedParams is a read-only snapshot of everything gathered so far.
func (s *Session) CollectedParams() domain.CollectedParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Collected.Clone()
}

// Subscribe returns a channel of lifecycle events. Slow consumers drop
// events rather than stalling execution.
func (s *Session) Subscribe() <-chan interface{} {
	ch := make(chan interface{}, 64)
	s.subsMu.Lock()
	s.subs = append(s.subs, ch)
	s.subsMu.Unlock()
	return ch
}

// Close releases the session store and closes subscriber channels.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	s.closed = true
	s.mu.Unlock()

	s.subsMu.Lock()
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	s.subsMu.Unlock()

	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *Session) finishRun(outcome *engine.Outcome, err error) (*domain.Run, error) {
	s.mu.Lock()
	s.running = false
	if outcome != nil {
		s.run = outcome.Run
		s.suspended = outcome.Suspended
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !outcome.Suspended {
		if perr := s.archiveRun(outcome.Run); perr != nil {
			s.logger.Warn("run not archived", "run_id", outcome.Run.ID, "error", perr.Error())
		}
	}
	return outcome.Run, nil
}

func (s *Session) runRequestLocked() engine.RunRequest {
	samples := make(map[string]map[string]interface{}, len(s.samples))
	for k, v := range s.samples {
		samples[k] = v
	}
	return engine.RunRequest{
		Nodes:   append([]domain.WorkflowNode(nil), s.nodes...),
		Session: s.state,
		Context: s.workflowContext(),
		Samples: samples,
	}
}

func (s *Session) workflowContext() params.WorkflowContext {
	return params.WorkflowContext{
		WorkflowID:  s.cfg.WorkflowID,
		Description: s.cfg.Description,
	}
}

func (s *Session) refreshConnections(ctx context.Context, nodes []domain.WorkflowNode) (map[string]bool, error) {
	toolkits := s.validator.Toolkits(nodes)

	s.mu.Lock()
	connected := make(map[string]bool, len(toolkits))
	for _, tk := range toolkits {
		connected[tk] = s.connected[tk]
	}
	s.mu.Unlock()

	for _, toolkit := range toolkits {
		if connected[toolkit] || s.platform == nil {
			continue
		}
		ok, err := s.platform.CheckConnection(ctx, toolkit)
		if err != nil {
			return nil, domain.Classify(err)
		}
		connected[toolkit] = ok
		if ok {
			s.markConnected(toolkit)
		}
	}
	return connected, nil
}

func (s *Session) markConnected(toolkit string) {
	s.mu.Lock()
	s.connected[toolkit] = true
	s.mu.Unlock()
}

func (s *Session) publish(event interface{}) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (s *Session) persistCollected() error {
	if s.store == nil {
		return nil
	}
	s.mu.Lock()
	encoded, err := json.Marshal(s.state.Collected)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.store.Put(domain.CollectedKey(s.cfg.WorkflowID), encoded)
}

func (s *Session) persistDiscovery() error {
	if s.store == nil {
		return nil
	}
	s.mu.Lock()
	entries := make(map[string][]byte, len(s.state.Discovery))
	for nodeID, result := range s.state.Discovery {
		encoded, err := json.Marshal(result)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		entries[nodeID] = encoded
	}
	s.mu.Unlock()

	for nodeID, encoded := range entries {
		if err := s.store.Put(domain.DiscoveryKey(s.cfg.WorkflowID, nodeID), encoded); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) archiveRun(run *domain.Run) error {
	if s.store == nil || run == nil {
		return nil
	}
	encoded, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return s.store.Put(domain.RunKey(s.cfg.WorkflowID, run.ID), encoded)
}

// restore loads collected params and cached discovery results persisted by
// an earlier process.
func (s *Session) restore() error {
	if s.store == nil {
		return nil
	}

	if raw, exists, err := s.store.Get(domain.CollectedKey(s.cfg.WorkflowID)); err != nil {
		return err
	} else if exists {
		collected := domain.CollectedParams{}
		if err := json.Unmarshal(raw, &collected); err != nil {
			return err
		}
		for key, value := range collected {
			s.state = s.state.WithCollected(key, value)
		}
	}

	prefix := domain.DiscoveryPrefix + s.cfg.WorkflowID + ":"
	entries, err := s.store.ListByPrefix(prefix)
	if err != nil {
		return err
	}
	for key, raw := range entries {
		nodeID := strings.TrimPrefix(key, prefix)
		var result ports.DiscoveryResult
		if err := json.Unmarshal(raw, &result); err != nil {
			s.logger.Warn("cached discovery entry is unreadable", "key", key, "error", err.Error())
			continue
		}
		s.state = s.state.WithDiscovery(nodeID, &result)
	}

	s.logger.Debug("session state restored",
		"collected", len(s.state.Collected),
		"discovery_entries", len(s.state.Discovery),
	)
	return nil
}
