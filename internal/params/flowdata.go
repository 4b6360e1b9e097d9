package params

import (
	"fmt"
	"strings"

	"github.com/skybridge-ai/flowkit/internal/domain"
)

// FlowData is the accumulated output of nodes that already ran (or, during
// pre-flight, plausible synthetic stand-ins for them).
type FlowData map[string]interface{}

// inferFromFlow is the third parameter layer: values carried forward from
// upstream outputs. A trigger's subject/body become a generated message for
// downstream send tools; list/fetch outputs become row values for storage
// tools.
func (r *Resolver) inferFromFlow(contract *domain.ToolContract, flow FlowData) map[string]interface{} {
	if len(flow) == 0 {
		return nil
	}

	out := map[string]interface{}{}

	subject := stringField(flow, "subject", "title", "summary")
	body := stringField(flow, "body", "text", "message", "content", "snippet")
	sender := stringField(flow, "from", "sender", "sender_email")

	needs := map[string]bool{}
	for _, p := range r.RequiredParams(contract) {
		needs[r.aliases.Canonical(p)] = true
	}
	for _, p := range contract.OptionalParams {
		needs[r.aliases.Canonical(p)] = true
	}

	if needs["text"] {
		switch {
		case subject != "" && body != "":
			out["text"] = fmt.Sprintf("New update: %s\n%s", subject, body)
		case subject != "":
			out["text"] = "New update: " + subject
		case body != "":
			out["text"] = body
		}
	}
	if needs["subject"] && subject != "" {
		out["subject"] = "Re: " + subject
	}
	if needs["recipient"] && sender != "" && strings.Contains(sender, "@") {
		out["recipient"] = sender
	}
	if needs["values"] {
		if rows, ok := flow["rows"]; ok {
			out["values"] = rows
		} else if subject != "" || body != "" {
			out["values"] = []interface{}{subject, body, sender}
		}
	}

	// Identifiers produced upstream (a created page, a fetched spreadsheet)
	// flow through under their own names.
	for _, key := range []string{"spreadsheet_id", "document_id", "page_id", "thread_id", "channel", "event_id"} {
		if needs[r.aliases.Canonical(key)] {
			if v := stringField(flow, key); v != "" {
				out[key] = v
			}
		}
	}

	return out
}

func stringField(flow FlowData, keys ...string) string {
	for _, k := range keys {
		if v, ok := flow[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// MergeOutputs folds a node's output into the accumulated flow data, the
// newer node winning on conflicts.
func MergeOutputs(flow FlowData, output map[string]interface{}) (FlowData, error) {
	merged, err := domain.MergeLayers(flow, output)
	if err != nil {
		return nil, err
	}
	return merged, nil
}
