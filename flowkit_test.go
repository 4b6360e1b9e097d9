package flowkit_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/skybridge-ai/flowkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlatform struct {
	requests []flowkit.ExecuteRequest
}

func (p *recordingPlatform) Execute(ctx context.Context, req flowkit.ExecuteRequest) (*flowkit.ExecuteResult, error) {
	p.requests = append(p.requests, req)
	return &flowkit.ExecuteResult{Success: true, Proof: "delivered"}, nil
}

func (p *recordingPlatform) GetSchema(ctx context.Context, slug, sessionID string) (*flowkit.ToolSchema, error) {
	return nil, nil
}

func (p *recordingPlatform) Discover(ctx context.Context, intent, toolkit string) (*flowkit.DiscoveryResult, error) {
	return nil, nil
}

func (p *recordingPlatform) CheckConnection(ctx context.Context, toolkit string) (bool, error) {
	return true, nil
}

func (p *recordingPlatform) InitiateConnection(ctx context.Context, toolkits []string) (map[string]flowkit.ConnectionStatus, error) {
	return nil, nil
}

func TestEndToEnd_QuestionsThenRun(t *testing.T) {
	cfg := flowkit.DefaultConfig("wf-demo")
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	platform := &recordingPlatform{}

	session, err := flowkit.New(cfg, []flowkit.Node{
		{ID: "n1", Name: "Send Slack message", Kind: flowkit.NodeKindAction, Toolkit: "slack"},
	}, flowkit.Options{Platform: platform})
	require.NoError(t, err)
	defer session.Close()

	ctx := context.Background()
	status, err := session.Check(ctx)
	require.NoError(t, err)
	require.Len(t, status.Questions, 2)

	for !status.Ready {
		q, ok := session.CurrentQuestion()
		require.True(t, ok)
		require.NoError(t, session.Answer(q.ID, "#general"))
		status, err = session.Check(ctx)
		require.NoError(t, err)
	}

	run, err := session.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, flowkit.RunStateComplete, run.State)
	assert.True(t, run.Verified)
	require.Len(t, platform.requests, 1)
	assert.Equal(t, "SLACK_SEND_MESSAGE", platform.requests[0].Slug)
}

func TestURLAnswerIsReducedToBareID(t *testing.T) {
	cfg := flowkit.DefaultConfig("wf-sheet")
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	platform := &recordingPlatform{}

	session, err := flowkit.New(cfg, []flowkit.Node{
		{
			ID: "n1", Name: "Add row to spreadsheet", Kind: flowkit.NodeKindAction, Toolkit: "googlesheets",
			Config: map[string]interface{}{"values": []interface{}{"a", "b"}},
		},
	}, flowkit.Options{Platform: platform})
	require.NoError(t, err)
	defer session.Close()

	ctx := context.Background()
	status, err := session.Check(ctx)
	require.NoError(t, err)

	for _, q := range status.Questions {
		if q.Param == "spreadsheet_id" {
			require.NoError(t, session.Answer(q.ID, "https://docs.google.com/spreadsheets/d/ABC123/edit"))
		}
	}

	assert.Equal(t, "ABC123", session.CollectedParams()["n1.spreadsheet_id"])
}
