package params

import (
	"log/slog"
	"strings"

	"github.com/skybridge-ai/flowkit/internal/domain"
)

// Resolver merges parameter values from prioritized sources into the map a
// tool call is invoked with. Merge order, later winning: smart defaults <
// node config < flow-data inference < collected answers.
type Resolver struct {
	aliases  *AliasIndex
	required map[string][]string
	primary  map[string]string
	logger   *slog.Logger
}

// primaryParams maps an integration name to the parameter a bare
// integration-name answer fills. Kept for the legacy single-question flow
// where the collected key was the toolkit itself.
func primaryParams() map[string]string {
	return map[string]string{
		"slack":          "channel",
		"gmail":          "recipient_email",
		"discord":        "channel_id",
		"telegram":       "chat_id",
		"whatsapp":       "phone_number",
		"googlesheets":   "spreadsheet_id",
		"googledocs":     "document_id",
		"googlecalendar": "summary",
		"github":         "repo",
		"notion":         "parent_page_id",
		"trello":         "board_id",
		"airtable":       "base_id",
		"clickup":        "list_id",
		"jira":           "project_key",
	}
}

func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		aliases:  DefaultAliases(),
		required: requiredBySlug(),
		primary:  primaryParams(),
		logger:   logger.With("component", "params"),
	}
}

// Aliases exposes the alias index so the pre-flight queue can deduplicate
// questions with the same semantics the resolver satisfies them with.
func (r *Resolver) Aliases() *AliasIndex {
	return r.aliases
}

// Resolve produces the final parameter map for one tool call.
func (r *Resolver) Resolve(contract *domain.ToolContract, node *domain.WorkflowNode, flow FlowData, collected domain.CollectedParams, wctx WorkflowContext) (map[string]interface{}, error) {
	layers := []map[string]interface{}{
		r.smartDefaults(contract, node, wctx),
		node.Config,
		r.inferFromFlow(contract, flow),
		r.mapCollected(contract, node, collected),
	}

	merged, err := domain.MergeLayers(layers...)
	if err != nil {
		return nil, err
	}

	resolved := r.remapToContract(contract, merged)

	// Defensive second pass: values can arrive here without ever passing
	// through the question flow.
	for key, value := range resolved {
		if s, ok := value.(string); ok {
			resolved[key] = r.ExtractID(key, s)
		}
	}

	r.logger.Debug("parameters resolved",
		"slug", contract.Slug,
		"node_id", node.ID,
		"param_count", len(resolved),
	)
	return resolved, nil
}

// mapCollected projects user-collected answers onto the names the API
// expects. Two lookups apply: a collected key that is literally an
// integration name fills that integration's primary parameter, and a
// friendly collected key reverse-aliases onto the literal API key.
func (r *Resolver) mapCollected(contract *domain.ToolContract, node *domain.WorkflowNode, collected domain.CollectedParams) map[string]interface{} {
	if len(collected) == 0 {
		return nil
	}

	out := map[string]interface{}{}

	// Legacy single-question UX: the toolkit name itself was the key.
	toolkit := strings.ToLower(contract.Toolkit)
	if v, ok := collected[toolkit]; ok && strings.TrimSpace(v) != "" {
		if primary, ok := r.primary[toolkit]; ok {
			out[primary] = r.ExtractID(primary, v)
		}
	}

	apiParams := append(append([]string{}, r.RequiredParams(contract)...), contract.OptionalParams...)
	for _, apiName := range apiParams {
		key, ok := r.aliases.SatisfyingKey(apiName, node.ID, collected)
		if !ok {
			continue
		}
		value := collected[key]
		if IsPlaceholder(value) {
			// A promise to provide later never clobbers a value that
			// another key in the same canonical slot already holds.
			if existing, ok := out[apiName]; ok && nonEmpty(existing) {
				continue
			}
			if alt, ok := r.betterAlternative(apiName, node.ID, key, collected); ok {
				value = alt
			} else {
				continue
			}
		}
		out[apiName] = r.ExtractID(apiName, value)
	}

	// Node-scoped overrides for params outside the contract's declared set
	// still apply verbatim.
	prefix := node.ID + "."
	for key, value := range collected {
		if !strings.HasPrefix(key, prefix) || strings.TrimSpace(value) == "" {
			continue
		}
		param := strings.TrimPrefix(key, prefix)
		if _, exists := out[param]; !exists {
			out[param] = r.ExtractID(param, value)
		}
	}

	return out
}

// betterAlternative scans the canonical group for a non-placeholder value
// when the first satisfying key held a placeholder phrase.
func (r *Resolver) betterAlternative(apiName, nodeID, skipKey string, collected domain.CollectedParams) (string, bool) {
	for _, m := range r.aliases.Group(apiName) {
		for _, key := range []string{nodeID + "." + m, m} {
			if key == skipKey {
				continue
			}
			if v, ok := collected[key]; ok && !IsPlaceholder(v) {
				return v, true
			}
		}
	}
	return "", false
}

// remapToContract keys every value a contract parameter can consume under
// its literal API name; unrelated extras pass through untouched.
func (r *Resolver) remapToContract(contract *domain.ToolContract, merged map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(merged))
	consumed := map[string]bool{}

	apiParams := append(append([]string{}, r.RequiredParams(contract)...), contract.OptionalParams...)
	for _, apiName := range apiParams {
		if nonEmpty(merged[apiName]) {
			out[apiName] = merged[apiName]
			consumed[apiName] = true
			continue
		}
		for _, m := range r.aliases.Group(apiName) {
			if nonEmpty(merged[m]) {
				out[apiName] = merged[m]
				consumed[m] = true
				break
			}
		}
	}

	for key, value := range merged {
		if !consumed[key] {
			if _, exists := out[key]; !exists {
				out[key] = value
			}
		}
	}
	return out
}
