package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/skybridge-ai/flowkit/internal/catalog"
	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/skybridge-ai/flowkit/internal/params"
	"github.com/skybridge-ai/flowkit/internal/ports"
)

// Validator computes the question queue for a workflow. It resolves every
// action node through the same catalog/resolver path the engine uses, feeds
// synthetic upstream flow data, and asks once per canonical concept.
type Validator struct {
	catalog  *catalog.Catalog
	resolver *params.Resolver
	platform ports.PlatformClient
	internal []string
	logger   *slog.Logger

	mu      sync.Mutex
	schemas map[string]*ports.ToolSchema
}

func NewValidator(cat *catalog.Catalog, resolver *params.Resolver, platform ports.PlatformClient, internalIntegrations []string, logger *slog.Logger) *Validator {
	return &Validator{
		catalog:  cat,
		resolver: resolver,
		platform: platform,
		internal: internalIntegrations,
		logger:   logger.With("component", "preflight"),
		schemas:  map[string]*ports.ToolSchema{},
	}
}

// CheckResult is what the presentation layer consumes after a pass.
type CheckResult struct {
	Ready              bool
	Questions          []domain.Question
	MissingConnections []string
	Toolkits           []string

	// Warnings flag resolved slugs matching known-bad naming patterns.
	// They never block readiness.
	Warnings []SlugWarning
}

// SlugWarning carries a non-blocking naming concern for one node's resolved
// slug, with the suggested replacement.
type SlugWarning struct {
	NodeID     string
	NodeName   string
	Slug       string
	Suggestion string
	Reason     string
}

// Check walks the workflow and returns the updated session plus readiness.
// Ready holds iff the question queue is empty and every involved toolkit is
// connected. Calling Check twice with unchanged inputs yields an identical
// ordered question list.
func (v *Validator) Check(ctx context.Context, nodes []domain.WorkflowNode, session Session, connected map[string]bool, wctx params.WorkflowContext) (Session, CheckResult, error) {
	session = session.WithoutSatisfied(v.resolver.Aliases())

	session, questions, err := v.collectQuestions(ctx, nodes, session, wctx)
	if err != nil {
		return session, CheckResult{}, err
	}
	session = session.WithQuestions(v.resolver.Aliases(), questions...)

	// Dry-run gate: the first time the queue empties, re-run the exact
	// resolution path execution will use and re-validate. Any gap it finds
	// reopens the queue.
	if len(session.Questions) == 0 && !session.DryRunDone {
		session, questions, err = v.collectQuestions(ctx, nodes, session, wctx)
		if err != nil {
			return session, CheckResult{}, err
		}
		session = session.WithQuestions(v.resolver.Aliases(), questions...)
		if len(session.Questions) == 0 {
			session.DryRunDone = true
		}
	}

	toolkits := v.Toolkits(nodes)
	var missingConn []string
	for _, tk := range toolkits {
		if !connected[tk] {
			missingConn = append(missingConn, tk)
		}
	}

	result := CheckResult{
		Ready:              len(session.Questions) == 0 && len(missingConn) == 0,
		Questions:          session.Questions,
		MissingConnections: missingConn,
		Toolkits:           toolkits,
		Warnings:           v.slugWarnings(nodes, session),
	}

	v.logger.Debug("pre-flight pass complete",
		"questions", len(result.Questions),
		"missing_connections", len(missingConn),
		"ready", result.Ready,
	)
	return session, result, nil
}

// slugWarnings runs the catalog's naming check over every resolved slug.
func (v *Validator) slugWarnings(nodes []domain.WorkflowNode, session Session) []SlugWarning {
	var warnings []SlugWarning
	for i := range nodes {
		node := &nodes[i]
		if domain.ClassifyNode(node, v.internal) != domain.NodeClassAction {
			continue
		}
		contract := v.ResolveContract(node, session)
		res := v.catalog.Validate(contract.Slug, contract.Toolkit)
		if res.Valid {
			continue
		}
		warnings = append(warnings, SlugWarning{
			NodeID:     node.ID,
			NodeName:   node.Name,
			Slug:       contract.Slug,
			Suggestion: res.Suggestion,
			Reason:     res.Reason,
		})
	}
	return warnings
}

// collectQuestions performs one resolution pass over every action node.
func (v *Validator) collectQuestions(ctx context.Context, nodes []domain.WorkflowNode, session Session, wctx params.WorkflowContext) (Session, []domain.Question, error) {
	classify := func(n *domain.WorkflowNode) domain.NodeClass {
		return domain.ClassifyNode(n, v.internal)
	}

	var questions []domain.Question
	askedUniversal := map[string]bool{}
	for _, q := range session.Questions {
		if v.resolver.Aliases().Universal(q.Param) {
			askedUniversal[v.resolver.Aliases().Canonical(q.Param)] = true
		}
	}

	for i := range nodes {
		node := &nodes[i]
		if classify(node) != domain.NodeClassAction {
			continue
		}

		var err error
		session, err = v.ensureDiscovery(ctx, node, session)
		if err != nil {
			v.logger.Warn("discovery lookup failed, proceeding with catalog resolution",
				"node_id", node.ID,
				"toolkit", node.Toolkit,
				"error", err.Error(),
			)
		}

		contract := v.ResolveContract(node, session)
		v.RefineSchema(ctx, contract)
		flow := syntheticFlowBefore(nodes, i, classify)

		resolved, err := v.resolver.Resolve(contract, node, flow, session.Collected, wctx)
		if err != nil {
			return session, nil, err
		}

		askedHere := map[string]bool{}
		for _, missing := range v.resolver.MissingRequired(contract, resolved) {
			canonical := v.resolver.Aliases().Canonical(missing)
			if askedHere[canonical] {
				continue
			}
			if v.resolver.Aliases().Universal(missing) && askedUniversal[canonical] {
				continue
			}
			if v.resolver.Aliases().Satisfied(missing, node.ID, session.Collected) {
				continue
			}

			askedHere[canonical] = true
			if v.resolver.Aliases().Universal(missing) {
				askedUniversal[canonical] = true
			}
			questions = append(questions, v.buildQuestion(node, missing, canonical))
		}
	}

	return session, questions, nil
}

// ensureDiscovery consults the discovery collaborator for toolkits the
// catalog has no curated entry for, caching the result per node.
func (v *Validator) ensureDiscovery(ctx context.Context, node *domain.WorkflowNode, session Session) (Session, error) {
	if v.platform == nil || v.catalog.KnownToolkit(node.Toolkit) {
		return session, nil
	}
	if _, cached := session.Discovery[node.ID]; cached {
		return session, nil
	}

	result, err := v.platform.Discover(ctx, node.Name, node.Toolkit)
	if err != nil {
		return session, err
	}
	if result == nil {
		return session, nil
	}

	v.logger.Debug("discovery resolved unknown toolkit",
		"node_id", node.ID,
		"toolkit", node.Toolkit,
		"slug", result.Slug,
	)
	return session.WithDiscovery(node.ID, result), nil
}

// ResolveContract builds the tool contract for a node. The catalog slug is
// preferred over discovery's slug when both exist, but discovery's schema is
// kept for parameter knowledge either way.
func (v *Validator) ResolveContract(node *domain.WorkflowNode, session Session) *domain.ToolContract {
	contract := &domain.ToolContract{
		Toolkit:     strings.ToLower(strings.TrimSpace(node.Toolkit)),
		DisplayName: node.Name,
	}

	discovered := session.Discovery[node.ID]
	if v.catalog.KnownToolkit(node.Toolkit) {
		contract.Slug = v.catalog.Resolve(node.Name, node.Toolkit, node.Kind)
	} else if discovered != nil && discovered.Slug != "" {
		contract.Slug = discovered.Slug
	} else {
		contract.Slug = v.catalog.Resolve(node.Name, node.Toolkit, node.Kind)
	}

	if discovered != nil && discovered.Schema != nil {
		contract.RequiredParams = discovered.Schema.Required
		contract.OptionalParams = discovered.Schema.Optional
		contract.InputSchema = discovered.Schema.Raw
		contract.DiscoverySess = discovered.SessionID
	}

	return contract
}

// RefineSchema fills required-parameter knowledge for slugs neither the
// static table nor discovery could describe. The question pass and the
// execution pass both go through here, so a schema the platform knows about
// produces its questions before anything runs. Lookups are cached per slug;
// failed lookups are not, so a later pass can retry.
func (v *Validator) RefineSchema(ctx context.Context, contract *domain.ToolContract) {
	if v.platform == nil || contract.Slug == "" || len(v.resolver.RequiredParams(contract)) > 0 {
		return
	}

	v.mu.Lock()
	schema, seen := v.schemas[contract.Slug]
	v.mu.Unlock()

	if !seen {
		var err error
		schema, err = v.platform.GetSchema(ctx, contract.Slug, contract.DiscoverySess)
		if err != nil {
			v.logger.Debug("schema lookup failed", "slug", contract.Slug, "error", err.Error())
			return
		}
		v.mu.Lock()
		v.schemas[contract.Slug] = schema
		v.mu.Unlock()
	}

	if schema == nil {
		return
	}
	contract.RequiredParams = schema.Required
	contract.OptionalParams = schema.Optional
	contract.InputSchema = schema.Raw
}

// Toolkits lists the external toolkits the workflow's action nodes touch,
// sorted for stable output.
func (v *Validator) Toolkits(nodes []domain.WorkflowNode) []string {
	seen := map[string]bool{}
	for i := range nodes {
		node := &nodes[i]
		if domain.ClassifyNode(node, v.internal) != domain.NodeClassAction {
			continue
		}
		tk := strings.ToLower(strings.TrimSpace(node.Toolkit))
		if tk != "" {
			seen[tk] = true
		}
	}
	toolkits := make([]string, 0, len(seen))
	for tk := range seen {
		toolkits = append(toolkits, tk)
	}
	sort.Strings(toolkits)
	return toolkits
}

func (v *Validator) buildQuestion(node *domain.WorkflowNode, rawParam, canonical string) domain.Question {
	return domain.Question{
		// Deterministic IDs keep repeated passes idempotent and make the
		// no-recreate rule cheap to enforce.
		ID:           fmt.Sprintf("q-%s-%s", node.ID, canonical),
		NodeID:       node.ID,
		NodeName:     node.Name,
		Param:        canonical,
		RawParam:     rawParam,
		Prompt:       promptFor(canonical, node.Name),
		QuickActions: quickActionsFor(canonical),
		InputType:    inputTypeFor(canonical),
	}
}

func promptFor(canonical, nodeName string) string {
	switch canonical {
	case "recipient":
		return fmt.Sprintf("Who should %q send to?", nodeName)
	case "text":
		return fmt.Sprintf("What should %q say?", nodeName)
	case "subject":
		return fmt.Sprintf("What subject line should %q use?", nodeName)
	case "channel":
		return fmt.Sprintf("Which channel should %q post to?", nodeName)
	case "spreadsheet_id":
		return "Which spreadsheet should this use? Paste the link or ID."
	case "document_id":
		return "Which document should this use? Paste the link or ID."
	case "phone_number":
		return "What phone number should this message go to?"
	case "owner":
		return "Which GitHub owner or organization?"
	case "repo":
		return "Which repository?"
	default:
		return fmt.Sprintf("Please provide %q for %q.", strings.ReplaceAll(canonical, "_", " "), nodeName)
	}
}

func quickActionsFor(canonical string) []domain.QuickAction {
	switch canonical {
	case "recipient":
		return []domain.QuickAction{{Label: "Enter Email", Param: "recipient"}}
	case "channel":
		return []domain.QuickAction{{Label: "#general", Param: "channel", Value: "#general"}}
	case "phone_number":
		return []domain.QuickAction{{Label: "Enter Phone Number", Param: "phone_number"}}
	default:
		return nil
	}
}

func inputTypeFor(canonical string) domain.InputType {
	switch canonical {
	case "recipient":
		return domain.InputTypeEmail
	case "phone_number":
		return domain.InputTypePhone
	case "spreadsheet_id", "document_id", "page_id", "board_id", "base_id":
		return domain.InputTypeURL
	case "channel":
		return domain.InputTypeChannel
	default:
		return domain.InputTypeText
	}
}
