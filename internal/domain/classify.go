package domain

import (
	"strings"
)

var triggerNameSignals = []string{"monitor", "watch", "listen", "receive", "capture", "incoming", "when "}

var nonCriticalNameSignals = []string{"notify", "alert", "log", "notification"}

// ClassifyNode buckets a node for execution: triggers wait for sample data,
// internal pseudo-integrations run in-process, everything else with a real
// integration is an action. Computed once per node; not user-configurable.
func ClassifyNode(node *WorkflowNode, internalIntegrations []string) NodeClass {
	if node.Kind == NodeKindTrigger {
		return NodeClassTrigger
	}

	lower := strings.ToLower(node.Name)
	for _, signal := range triggerNameSignals {
		if strings.Contains(lower, signal) {
			return NodeClassTrigger
		}
	}

	toolkit := strings.ToLower(strings.TrimSpace(node.Toolkit))
	for _, internal := range internalIntegrations {
		if toolkit == internal {
			return NodeClassInternal
		}
	}

	return NodeClassAction
}

// NonCritical reports whether a node's failure downgrades to a warning
// instead of halting the run: notification-style names, output nodes, and a
// trailing summary step.
func NonCritical(node *WorkflowNode, isLast bool) bool {
	if node.Kind == NodeKindOutput {
		return true
	}
	lower := strings.ToLower(node.Name)
	for _, signal := range nonCriticalNameSignals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return isLast && strings.Contains(lower, "summary")
}
