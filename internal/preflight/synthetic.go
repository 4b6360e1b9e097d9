package preflight

import (
	"strings"

	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/skybridge-ai/flowkit/internal/params"
)

// Synthetic flow data stands in for upstream outputs during pre-flight so
// parameters that execution will legitimately fill are not flagged as
// missing. The shapes mirror what real runs produce.

func syntheticTriggerOutput(node *domain.WorkflowNode) map[string]interface{} {
	lower := strings.ToLower(node.Name + " " + node.Toolkit)
	switch {
	case strings.Contains(lower, "mail") || strings.Contains(lower, "email") || strings.Contains(lower, "inbox"):
		return map[string]interface{}{
			"subject": "Sample: quarterly report",
			"body":    "Sample email body for preview.",
			"from":    "sender@example.com",
		}
	case strings.Contains(lower, "form") || strings.Contains(lower, "submission"):
		return map[string]interface{}{
			"name":  "Sample Respondent",
			"email": "respondent@example.com",
			"body":  "Sample form submission.",
		}
	default:
		return map[string]interface{}{
			"subject": "Sample event",
			"body":    "Sample payload for preview.",
		}
	}
}

func syntheticActionOutput(node *domain.WorkflowNode) map[string]interface{} {
	lower := strings.ToLower(node.Name)
	out := map[string]interface{}{
		"id":     "sample-id",
		"status": "ok",
	}
	if strings.Contains(lower, "fetch") || strings.Contains(lower, "list") || strings.Contains(lower, "search") || strings.Contains(lower, "get") {
		out["rows"] = []interface{}{
			map[string]interface{}{"title": "Sample item", "url": "https://example.com/item/1"},
		}
		out["subject"] = "Sample item"
		out["body"] = "Sample fetched content."
	}
	return out
}

// syntheticFlowBefore accumulates synthetic outputs for every node ahead of
// index i, classified the same way execution classifies them.
func syntheticFlowBefore(nodes []domain.WorkflowNode, i int, classify func(*domain.WorkflowNode) domain.NodeClass) params.FlowData {
	flow := params.FlowData{}
	for j := 0; j < i; j++ {
		node := &nodes[j]
		var out map[string]interface{}
		switch classify(node) {
		case domain.NodeClassTrigger:
			out = syntheticTriggerOutput(node)
		case domain.NodeClassInternal:
			out = map[string]interface{}{"body": "Sample generated content."}
		default:
			out = syntheticActionOutput(node)
		}
		merged, err := params.MergeOutputs(flow, out)
		if err != nil {
			continue
		}
		flow = merged
	}
	return flow
}
