package domain

import "fmt"

const (
	CollectedPrefix = "session:collected:"
	DiscoveryPrefix = "session:discovery:"
	RunPrefix       = "session:run:"
)

// CollectedKey builds the storage key for a workflow's collected params.
func CollectedKey(workflowID string) string {
	return fmt.Sprintf("%s%s", CollectedPrefix, workflowID)
}

// DiscoveryKey builds the storage key for a cached discovery result.
func DiscoveryKey(workflowID, nodeID string) string {
	return fmt.Sprintf("%s%s:%s", DiscoveryPrefix, workflowID, nodeID)
}

// RunKey builds the storage key for an archived run.
func RunKey(workflowID, runID string) string {
	return fmt.Sprintf("%s%s:%s", RunPrefix, workflowID, runID)
}
