// Package params resolves the concrete parameter map for a tool call by
// merging prioritized sources and deduplicating semantically equivalent
// parameter names.
package params

import (
	"strings"

	"github.com/skybridge-ai/flowkit/internal/domain"
)

// AliasIndex is the fixed partition of raw parameter names into semantic
// clusters. Membership is symmetric: collecting any alias satisfies every
// other member of its group.
type AliasIndex struct {
	canon  map[string]string
	groups map[string][]string
}

// aliasGroups maps a canonical name to its members. The canonical name is
// itself a member.
func aliasGroups() map[string][]string {
	return map[string][]string{
		"text":           {"text", "message", "content", "body", "msg", "message_text", "message_body", "notification_details"},
		"recipient":      {"recipient", "to", "recipient_email", "email", "to_email", "email_address", "user_email"},
		"subject":        {"subject", "email_subject", "subject_line"},
		"name":           {"name", "title", "filename", "file_name", "summary"},
		"channel":        {"channel", "channel_id", "channel_name"},
		"spreadsheet_id": {"spreadsheet_id", "sheet_id", "spreadsheet_url", "sheet_url", "spreadsheet"},
		"document_id":    {"document_id", "doc_id", "document_url", "document"},
		"page_id":        {"page_id", "parent_page_id", "page_url", "page"},
		"repo":           {"repo", "repository", "repo_name"},
		"owner":          {"owner", "org", "organization", "repo_owner"},
		"phone_number":   {"phone_number", "phone", "to_number", "mobile", "whatsapp_number"},
		"values":         {"values", "row", "row_values", "row_data"},
		"board_id":       {"board_id", "board", "board_url"},
		"base_id":        {"base_id", "base", "base_url"},
		"list_id":        {"list_id", "list"},
		"project_key":    {"project_key", "project", "project_id"},
		"start_time":     {"start_time", "start", "start_datetime", "when", "datetime"},
		"chat_id":        {"chat_id", "chat"},
	}
}

// universalConcepts are asked at most once across the whole workflow: an
// answer for one node's "to" satisfies another node's "recipient".
func universalConcepts() map[string]bool {
	return map[string]bool{
		"recipient": true,
		"text":      true,
		"subject":   true,
		"name":      true,
	}
}

func DefaultAliases() *AliasIndex {
	groups := aliasGroups()
	idx := &AliasIndex{
		canon:  make(map[string]string),
		groups: groups,
	}
	for canonical, members := range groups {
		for _, m := range members {
			idx.canon[m] = canonical
		}
	}
	return idx
}

// Normalize lowers a raw parameter name and joins word separators with
// underscores so "Recipient Email" and "recipient-email" compare equal.
func Normalize(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	lower = strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(lower)
	for strings.Contains(lower, "__") {
		lower = strings.ReplaceAll(lower, "__", "_")
	}
	return lower
}

// Canonical maps a raw parameter name to its semantic concept. Names outside
// every group canonicalize to their normalized selves.
func (a *AliasIndex) Canonical(name string) string {
	norm := Normalize(name)
	if canonical, ok := a.canon[norm]; ok {
		return canonical
	}
	return norm
}

// Group returns every member of the canonical group for a name, including
// the name itself.
func (a *AliasIndex) Group(name string) []string {
	canonical := a.Canonical(name)
	if members, ok := a.groups[canonical]; ok {
		return members
	}
	return []string{canonical}
}

// Universal reports whether the concept is deduplicated across the entire
// workflow rather than per node.
func (a *AliasIndex) Universal(name string) bool {
	return universalConcepts()[a.Canonical(name)]
}

// Satisfied reports whether collected params already cover the concept
// behind paramName for the given node. It checks the raw name, its
// normalized form, the node-scoped override, every alias in the canonical
// group, and any collected key whose suffix matches an alias, so
// "slack_message" satisfies "message". Suffix matches skip keys scoped to a
// different node.
func (a *AliasIndex) Satisfied(paramName, nodeID string, collected domain.CollectedParams) bool {
	_, ok := a.SatisfyingKey(paramName, nodeID, collected)
	return ok
}

// SatisfyingKey returns the collected key whose value covers paramName.
// Node-scoped overrides win over bare keys.
func (a *AliasIndex) SatisfyingKey(paramName, nodeID string, collected domain.CollectedParams) (string, bool) {
	if len(collected) == 0 {
		return "", false
	}

	norm := Normalize(paramName)
	members := a.Group(paramName)

	if nodeID != "" {
		for _, m := range members {
			key := nodeID + "." + m
			if hasValue(collected, key) {
				return key, true
			}
		}
		if key := nodeID + "." + norm; hasValue(collected, key) {
			return key, true
		}
	}

	if hasValue(collected, paramName) {
		return paramName, true
	}
	if hasValue(collected, norm) {
		return norm, true
	}
	for _, m := range members {
		if hasValue(collected, m) {
			return m, true
		}
	}

	for key, value := range collected {
		if value == "" {
			continue
		}
		// Keys stored as "nodeID.param" are scoped to that node; another
		// node's answer never satisfies this one through the suffix rule.
		if owner, _, scoped := strings.Cut(key, "."); scoped && owner != nodeID {
			continue
		}
		keyNorm := Normalize(key)
		for _, m := range members {
			if strings.HasSuffix(keyNorm, "_"+m) {
				return key, true
			}
		}
	}

	return "", false
}

func hasValue(collected domain.CollectedParams, key string) bool {
	v, ok := collected[key]
	return ok && strings.TrimSpace(v) != ""
}
