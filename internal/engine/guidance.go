package engine

import (
	"github.com/skybridge-ai/flowkit/internal/domain"
)

// withGuidance enriches a terminal failure with recovery affordances the
// presentation layer renders directly: reconnect actions for auth failures,
// fallback slugs for tools the platform does not know, corrective input
// prompts for validation rejects.
func (e *Engine) withGuidance(failure *domain.Error, node *domain.WorkflowNode, contract *domain.ToolContract) *domain.Error {
	out := *failure

	switch out.Category {
	case domain.CategoryToolNotFound:
		if len(out.Suggestions) == 0 && e.catalog != nil {
			out.Suggestions = e.catalog.SuggestFallbacks(node.Name, contract.Toolkit, contract.Slug)
		}
		for _, slug := range out.Suggestions {
			out.Guidance = append(out.Guidance, domain.QuickAction{Label: "Try " + slug, Param: "slug", Value: slug})
		}
	case domain.CategoryAuth:
		if out.Toolkit == "" {
			out.Toolkit = contract.Toolkit
		}
		if len(out.Guidance) == 0 {
			out.Guidance = []domain.QuickAction{{Label: "Reconnect Now", Param: out.Toolkit}}
		}
	case domain.CategoryRateLimited, domain.CategoryNetwork, domain.CategoryTimeout, domain.CategoryServiceUnavailable:
		if len(out.Guidance) == 0 {
			out.Guidance = []domain.QuickAction{{Label: "Run Again", Param: "retry"}}
		}
	case domain.CategoryValidation:
		if len(out.Guidance) == 0 && out.Param != "" {
			out.Guidance = []domain.QuickAction{{Label: "Correct Value", Param: out.Param}}
		}
	}

	return &out
}
