package params

import (
	"fmt"
	"strings"

	"github.com/skybridge-ai/flowkit/internal/domain"
)

// WorkflowContext is the ambient description of the workflow a node belongs
// to, used for templating smart defaults.
type WorkflowContext struct {
	WorkflowID  string
	Name        string
	Description string
}

// knownRepos maps a project mentioned in the workflow intent to the GitHub
// coordinates users almost always mean by it.
var knownRepos = map[string][2]string{
	"composio":   {"ComposioHQ", "composio"},
	"langchain":  {"langchain-ai", "langchain"},
	"kubernetes": {"kubernetes", "kubernetes"},
}

// smartDefaults is the lowest-priority parameter layer: values templated
// from the node name, node description, and workflow context. Everything
// here is overridable by explicit config, flow data, and collected answers.
func (r *Resolver) smartDefaults(contract *domain.ToolContract, node *domain.WorkflowNode, wctx WorkflowContext) map[string]interface{} {
	out := map[string]interface{}{}

	intent := strings.ToLower(node.Name + " " + node.Description + " " + wctx.Name + " " + wctx.Description)

	switch {
	case strings.HasPrefix(contract.Slug, "GITHUB_"):
		for hint, coords := range knownRepos {
			if strings.Contains(intent, hint) {
				out["owner"] = coords[0]
				out["repo"] = coords[1]
				break
			}
		}
	case strings.Contains(contract.Slug, "_SEND_EMAIL") || strings.Contains(contract.Slug, "_CREATE_EMAIL_DRAFT"):
		out["subject"] = defaultSubject(node, wctx)
	case strings.Contains(contract.Slug, "_CREATE_EVENT"):
		out["summary"] = strings.TrimSpace(node.Name)
	case strings.Contains(contract.Slug, "_CREATE_DOCUMENT") || strings.Contains(contract.Slug, "_CREATE_PAGE"):
		out["title"] = defaultSubject(node, wctx)
	}

	for key, value := range out {
		r.logger.Debug("smart default applied",
			"slug", contract.Slug,
			"param", key,
			"value", value,
		)
	}
	return out
}

func defaultSubject(node *domain.WorkflowNode, wctx WorkflowContext) string {
	if wctx.Name != "" {
		return wctx.Name
	}
	if node.Description != "" {
		return node.Description
	}
	return fmt.Sprintf("Automation: %s", node.Name)
}

// placeholderPhrases are obvious promise-to-provide answers that must never
// clobber an already-valid value in the same canonical slot.
var placeholderPhrases = []string{
	"i'll provide",
	"i will provide",
	"will give",
	"placeholder",
	"tbd",
	"to be decided",
	"enter later",
	"fill in",
	"<your",
}

func IsPlaceholder(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return true
	}
	for _, p := range placeholderPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
