package catalog

import (
	"io"
	"log/slog"
	"testing"

	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testCatalog() *Catalog {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolve_StaticPriorityOrder(t *testing.T) {
	c := testCatalog()

	// Read verbs must win over the generic "email" noun.
	assert.Equal(t, "GMAIL_FETCH_EMAILS", c.Resolve("Fetch Emails", "gmail", domain.NodeKindAction))
	assert.Equal(t, "GMAIL_SEND_EMAIL", c.Resolve("Send welcome email", "gmail", domain.NodeKindAction))
	assert.Equal(t, "SLACK_SEND_MESSAGE", c.Resolve("Notify Team", "slack", domain.NodeKindAction))
	assert.Equal(t, "GITHUB_LIST_ISSUES", c.Resolve("Fetch GitHub Issues", "github", domain.NodeKindAction))
}

func TestResolve_DynamicConstruction(t *testing.T) {
	c := testCatalog()

	// No static table for this toolkit; verb+noun synthesis takes over.
	assert.Equal(t, "ASANA_CREATE_TASK", c.Resolve("Create task for review", "asana", domain.NodeKindAction))
	assert.Equal(t, "ASANA_DELETE_TASK", c.Resolve("Remove stale task", "asana", domain.NodeKindAction))
	assert.Equal(t, "DROPBOX_UPLOAD_FILE", c.Resolve("Save the file", "dropbox", domain.NodeKindAction))
}

func TestResolve_TriggerSynthesis(t *testing.T) {
	c := testCatalog()

	assert.Equal(t, "ASANA_NEW_TASK_TRIGGER", c.Resolve("Watch for new tasks", "asana", domain.NodeKindTrigger))
	assert.Equal(t, "STRIPE_NEW_TRIGGER", c.Resolve("Monitor payments feed", "stripe", domain.NodeKindAction))
}

func TestResolve_ToolkitDefault(t *testing.T) {
	c := testCatalog()

	// Nothing in "Handle it" matches a verb; the per-toolkit default wins.
	assert.Equal(t, "SLACK_SEND_MESSAGE", c.Resolve("Handle it", "slack", domain.NodeKindAction))
	assert.Equal(t, "HUBSPOT_LIST_CONTACTS", c.Resolve("Do the thing", "hubspot", domain.NodeKindAction))
}

func TestResolve_Total(t *testing.T) {
	c := testCatalog()

	cases := []struct{ name, toolkit string }{
		{"", ""},
		{"whatever", "zzznonsense"},
		{"!!!", "!!!"},
		{"步骤", "外部"},
	}
	for _, tc := range cases {
		slug := c.Resolve(tc.name, tc.toolkit, domain.NodeKindAction)
		assert.NotEmpty(t, slug, "name=%q toolkit=%q", tc.name, tc.toolkit)
	}

	assert.Equal(t, "ZZZNONSENSE_EXECUTE", c.Resolve("whatever", "zzznonsense", domain.NodeKindAction))
	assert.Equal(t, "UNKNOWN_EXECUTE", c.Resolve("", "", domain.NodeKindAction))
}

func TestResolve_WordBoundaryVerbs(t *testing.T) {
	c := testCatalog()

	// "setup" must not classify as UPDATE via "set".
	assert.Equal(t, "FOO_EXECUTE", c.Resolve("setup environment", "foo", domain.NodeKindAction))
}

func TestValidate_BadPatterns(t *testing.T) {
	c := testCatalog()

	res := c.Validate("DROPBOX_LIST_FILES", "dropbox")
	assert.False(t, res.Valid)
	assert.Equal(t, "DROPBOX_LIST_FOLDER", res.Suggestion)

	res = c.Validate("SLACK_SEND_MESSAGE", "slack")
	assert.True(t, res.Valid)
	assert.Empty(t, res.Suggestion)
}

func TestValidate_StaticTableOverridesPattern(t *testing.T) {
	c := testCatalog()
	c.reg.KnownSlugs["weird"] = []string{"WEIRD_LIST_FILES"}

	res := c.Validate("WEIRD_LIST_FILES", "weird")
	assert.True(t, res.Valid)
}

func TestSuggestFallbacks_PrefersStoreToolsForSaveSteps(t *testing.T) {
	c := testCatalog()

	got := c.SuggestFallbacks("Save report to Drive", "googledrive", "GOOGLEDRIVE_EXPORT")
	assert.NotEmpty(t, got)
	assert.Contains(t, got[0], "UPLOAD")
}

func TestSuggestFallbacks_ExcludesRejectedSlug(t *testing.T) {
	c := testCatalog()

	got := c.SuggestFallbacks("Send message", "slack", "SLACK_SEND_MESSAGE")
	assert.NotContains(t, got, "SLACK_SEND_MESSAGE")
}
