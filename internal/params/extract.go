package params

import (
	"regexp"
	"strings"
)

// URL shapes users paste instead of bare identifiers. The first matching
// extractor for the parameter's concept wins; values that match no shape
// pass through unchanged.
type urlExtractor struct {
	concepts []string
	pattern  *regexp.Regexp
	group    int
}

var urlExtractors = []urlExtractor{
	{
		concepts: []string{"spreadsheet_id"},
		pattern:  regexp.MustCompile(`docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)`),
		group:    1,
	},
	{
		concepts: []string{"document_id"},
		pattern:  regexp.MustCompile(`docs\.google\.com/document/d/([a-zA-Z0-9_-]+)`),
		group:    1,
	},
	{
		concepts: []string{"page_id"},
		pattern:  regexp.MustCompile(`notion\.so/(?:[^?#]*-)?([0-9a-fA-F]{32})`),
		group:    1,
	},
	{
		concepts: []string{"owner"},
		pattern:  regexp.MustCompile(`github\.com/([^/\s]+)/[^/\s]+`),
		group:    1,
	},
	{
		concepts: []string{"repo"},
		pattern:  regexp.MustCompile(`github\.com/[^/\s]+/([^/\s?#]+)`),
		group:    1,
	},
	{
		concepts: []string{"board_id"},
		pattern:  regexp.MustCompile(`trello\.com/b/([a-zA-Z0-9]+)`),
		group:    1,
	},
	{
		concepts: []string{"base_id"},
		pattern:  regexp.MustCompile(`airtable\.com/(app[a-zA-Z0-9]+)`),
		group:    1,
	},
	{
		concepts: []string{"list_id"},
		pattern:  regexp.MustCompile(`app\.clickup\.com/[0-9]+/v/li/([0-9]+)`),
		group:    1,
	},
	{
		concepts: []string{"project_key"},
		pattern:  regexp.MustCompile(`atlassian\.net/(?:browse/([A-Z][A-Z0-9]+)-\d+|jira/[^/\s]+/projects/([A-Z][A-Z0-9]+))`),
		group:    0, // first non-empty capture
	},
}

// ExtractID reduces a pasted URL to the identifier embedded in it, keyed by
// the parameter's semantic concept. Applied when an answer is first
// collected and again defensively at resolution time, since values can
// arrive from sources other than the question flow.
func (r *Resolver) ExtractID(paramName, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !strings.Contains(trimmed, "/") {
		return value
	}

	concept := r.aliases.Canonical(paramName)
	for _, ex := range urlExtractors {
		if !containsConcept(ex.concepts, concept) {
			continue
		}
		m := ex.pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		if ex.group > 0 {
			return strings.TrimSuffix(m[ex.group], ".git")
		}
		for _, g := range m[1:] {
			if g != "" {
				return g
			}
		}
	}
	return value
}

func containsConcept(concepts []string, concept string) bool {
	for _, c := range concepts {
		if c == concept {
			return true
		}
	}
	return false
}
