package params

import (
	"io"
	"log/slog"
	"testing"

	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver() *Resolver {
	return NewResolver(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func slackContract() *domain.ToolContract {
	return &domain.ToolContract{Slug: "SLACK_SEND_MESSAGE", Toolkit: "slack"}
}

func TestAliasSymmetry(t *testing.T) {
	idx := DefaultAliases()

	for canonical, members := range aliasGroups() {
		for _, collectedAs := range members {
			collected := domain.CollectedParams{collectedAs: "value"}
			for _, asked := range members {
				assert.True(t, idx.Satisfied(asked, "", collected),
					"collecting %q should satisfy %q (group %q)", collectedAs, asked, canonical)
			}
		}
	}
}

func TestSatisfied_SuffixMatch(t *testing.T) {
	idx := DefaultAliases()

	collected := domain.CollectedParams{"slack_message": "hello"}
	assert.True(t, idx.Satisfied("message", "", collected))
	assert.True(t, idx.Satisfied("text", "", collected))
	assert.False(t, idx.Satisfied("channel", "", collected))
}

func TestSatisfied_NodeScopedOverride(t *testing.T) {
	idx := DefaultAliases()

	collected := domain.CollectedParams{"node-2.channel": "#alerts"}
	assert.True(t, idx.Satisfied("channel", "node-2", collected))
	assert.False(t, idx.Satisfied("channel", "node-1", collected))
}

func TestSatisfied_ScopedKeyNeverLeaksAcrossNodes(t *testing.T) {
	idx := DefaultAliases()

	// "a.channel" normalizes to "a_channel"; the suffix rule must not let it
	// satisfy node b's channel.
	collected := domain.CollectedParams{"a.channel": "#ops"}
	assert.True(t, idx.Satisfied("channel", "a", collected))
	assert.False(t, idx.Satisfied("channel", "b", collected))
	assert.False(t, idx.Satisfied("channel_id", "b", collected))
}

func TestSatisfied_EmptyValueDoesNotCount(t *testing.T) {
	idx := DefaultAliases()

	collected := domain.CollectedParams{"text": "   "}
	assert.False(t, idx.Satisfied("message", "", collected))
}

func TestExtractID_SpreadsheetURL(t *testing.T) {
	r := testResolver()

	got := r.ExtractID("spreadsheet_id", "https://docs.google.com/spreadsheets/d/ABC123/edit")
	assert.Equal(t, "ABC123", got)
}

func TestExtractID_Shapes(t *testing.T) {
	r := testResolver()

	cases := []struct{ param, in, want string }{
		{"document_id", "https://docs.google.com/document/d/1xYz_-9/edit#heading", "1xYz_-9"},
		{"page_id", "https://www.notion.so/team/Weekly-Notes-0123456789abcdef0123456789abcdef", "0123456789abcdef0123456789abcdef"},
		{"owner", "https://github.com/ComposioHQ/composio", "ComposioHQ"},
		{"repo", "https://github.com/ComposioHQ/composio.git", "composio"},
		{"board_id", "https://trello.com/b/aBc123/my-board", "aBc123"},
		{"base_id", "https://airtable.com/appXYZ789/tblFoo", "appXYZ789"},
		{"list_id", "https://app.clickup.com/123456/v/li/901100", "901100"},
		{"project_key", "https://acme.atlassian.net/browse/OPS-42", "OPS"},
		{"spreadsheet_id", "already-an-id", "already-an-id"},
		{"text", "https://example.com/some/path", "https://example.com/some/path"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, r.ExtractID(tc.param, tc.in), "param=%s in=%s", tc.param, tc.in)
	}
}

func TestResolve_CollectedMapsOntoAPINames(t *testing.T) {
	r := testResolver()
	node := &domain.WorkflowNode{ID: "n1", Name: "Notify Team", Kind: domain.NodeKindAction, Toolkit: "slack"}

	collected := domain.CollectedParams{
		"notification_details": "deploy finished",
		"channel":              "#releases",
	}
	resolved, err := r.Resolve(slackContract(), node, nil, collected, WorkflowContext{})
	require.NoError(t, err)

	assert.Equal(t, "deploy finished", resolved["text"])
	assert.Equal(t, "#releases", resolved["channel"])
	assert.Empty(t, r.MissingRequired(slackContract(), resolved))
}

func TestResolve_OtherNodesAnswerNeverFillsThisCall(t *testing.T) {
	r := testResolver()
	node := &domain.WorkflowNode{ID: "b", Name: "Send Slack message", Kind: domain.NodeKindAction, Toolkit: "slack"}

	collected := domain.CollectedParams{"a.channel": "#ops", "text": "hi"}
	resolved, err := r.Resolve(slackContract(), node, nil, collected, WorkflowContext{})
	require.NoError(t, err)

	assert.NotContains(t, resolved, "channel")
	assert.Contains(t, r.MissingRequired(slackContract(), resolved), "channel")
}

func TestResolve_LegacyIntegrationNameKey(t *testing.T) {
	r := testResolver()
	node := &domain.WorkflowNode{ID: "n1", Name: "Notify", Kind: domain.NodeKindAction, Toolkit: "slack"}

	collected := domain.CollectedParams{"slack": "#general", "text": "hi"}
	resolved, err := r.Resolve(slackContract(), node, nil, collected, WorkflowContext{})
	require.NoError(t, err)

	assert.Equal(t, "#general", resolved["channel"])
}

func TestResolve_PlaceholderNeverClobbers(t *testing.T) {
	r := testResolver()
	contract := &domain.ToolContract{Slug: "WHATSAPP_SEND_MESSAGE", Toolkit: "whatsapp"}
	node := &domain.WorkflowNode{ID: "n1", Name: "Send reminder", Kind: domain.NodeKindAction, Toolkit: "whatsapp"}

	collected := domain.CollectedParams{
		"phone":        "I'll provide a phone number",
		"phone_number": "+14155550100",
		"text":         "reminder",
	}
	resolved, err := r.Resolve(contract, node, nil, collected, WorkflowContext{})
	require.NoError(t, err)

	assert.Equal(t, "+14155550100", resolved["phone_number"])
}

func TestResolve_MergePriority(t *testing.T) {
	r := testResolver()
	node := &domain.WorkflowNode{
		ID: "n1", Name: "Notify Team", Kind: domain.NodeKindAction, Toolkit: "slack",
		Config: map[string]interface{}{"channel": "#from-config"},
	}

	// Collected answers outrank node config.
	collected := domain.CollectedParams{"channel": "#from-answer", "text": "hi"}
	resolved, err := r.Resolve(slackContract(), node, nil, collected, WorkflowContext{})
	require.NoError(t, err)
	assert.Equal(t, "#from-answer", resolved["channel"])

	// Without an answer, config holds.
	resolved, err = r.Resolve(slackContract(), node, nil, domain.CollectedParams{"text": "hi"}, WorkflowContext{})
	require.NoError(t, err)
	assert.Equal(t, "#from-config", resolved["channel"])
}

func TestResolve_FlowDataGeneratesMessage(t *testing.T) {
	r := testResolver()
	node := &domain.WorkflowNode{ID: "n2", Name: "Notify Team", Kind: domain.NodeKindAction, Toolkit: "slack"}

	flow := FlowData{"subject": "Invoice overdue", "body": "Please review account 442."}
	resolved, err := r.Resolve(slackContract(), node, flow, domain.CollectedParams{"channel": "#ar"}, WorkflowContext{})
	require.NoError(t, err)

	text, _ := resolved["text"].(string)
	assert.Contains(t, text, "Invoice overdue")
	assert.Contains(t, text, "Please review account 442.")
}

func TestResolve_WorkflowContextRepoDefaults(t *testing.T) {
	r := testResolver()
	contract := &domain.ToolContract{Slug: "GITHUB_LIST_ISSUES", Toolkit: "github"}
	node := &domain.WorkflowNode{ID: "n1", Name: "Fetch GitHub Issues", Kind: domain.NodeKindAction, Toolkit: "github"}

	wctx := WorkflowContext{Description: "Track new composio issues in a sheet"}
	resolved, err := r.Resolve(contract, node, nil, nil, wctx)
	require.NoError(t, err)

	assert.Equal(t, "ComposioHQ", resolved["owner"])
	assert.Equal(t, "composio", resolved["repo"])
	assert.Empty(t, r.MissingRequired(contract, resolved))
}

func TestMissingRequired_Monotonic(t *testing.T) {
	r := testResolver()
	contract := &domain.ToolContract{Slug: "GMAIL_SEND_EMAIL", Toolkit: "gmail"}

	base := map[string]interface{}{"subject": "hello"}
	before := r.MissingRequired(contract, base)

	extended, err := domain.MergeParams(base, map[string]interface{}{"recipient_email": "a@b.co"})
	require.NoError(t, err)
	after := r.MissingRequired(contract, extended)

	assert.Subset(t, before, after, "adding a source must never grow the missing set")
	assert.NotContains(t, after, "recipient_email")
}

func TestMissingRequired_AliasAware(t *testing.T) {
	r := testResolver()

	resolved := map[string]interface{}{"message": "hi", "channel": "#x"}
	assert.Empty(t, r.MissingRequired(slackContract(), resolved))
}

func TestMissingRequired_UnknownSlugUsesContractSchema(t *testing.T) {
	r := testResolver()
	contract := &domain.ToolContract{
		Slug:           "STRIPE_CREATE_REFUND",
		Toolkit:        "stripe",
		RequiredParams: []string{"charge_id", "amount"},
	}

	missing := r.MissingRequired(contract, map[string]interface{}{"charge_id": "ch_1"})
	assert.Equal(t, []string{"amount"}, missing)
}
