package composio

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/skybridge-ai/flowkit/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{BaseURL: server.URL, APIKey: "test-key", RequestsPerSecond: 1000, Burst: 100}, logger)
}

func TestExecute_Success(t *testing.T) {
	var gotPath, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"proof":"message ts 123.45","output":{"ts":"123.45"}}`))
	})

	result, err := client.Execute(context.Background(), ports.ExecuteRequest{
		Slug:    "SLACK_SEND_MESSAGE",
		Toolkit: "slack",
		Params:  map[string]interface{}{"channel": "#ops", "text": "hi"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/tools/execute/SLACK_SEND_MESSAGE", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.True(t, result.Success)
	assert.Equal(t, "message ts 123.45", result.Proof)
	assert.Nil(t, result.Verified)
}

func TestExecute_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   domain.ErrorCategory
	}{
		{http.StatusTooManyRequests, domain.CategoryRateLimited},
		{http.StatusUnauthorized, domain.CategoryAuth},
		{http.StatusForbidden, domain.CategoryAuth},
		{http.StatusNotFound, domain.CategoryToolNotFound},
		{http.StatusUnprocessableEntity, domain.CategoryValidation},
		{http.StatusInternalServerError, domain.CategoryServiceUnavailable},
		{http.StatusBadGateway, domain.CategoryServiceUnavailable},
		{http.StatusGatewayTimeout, domain.CategoryTimeout},
	}

	for _, tc := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"error":{"message":"nope"}}`))
		})

		_, err := client.Execute(context.Background(), ports.ExecuteRequest{Slug: "X", Toolkit: "slack"})
		require.Error(t, err, tc.status)

		var domErr *domain.Error
		require.ErrorAs(t, err, &domErr, tc.status)
		assert.Equal(t, tc.want, domErr.Category, "status %d", tc.status)
	}
}

func TestExecute_BackendReportedFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":{"message":"channel is archived"}}`))
	})

	result, err := client.Execute(context.Background(), ports.ExecuteRequest{Slug: "SLACK_SEND_MESSAGE", Toolkit: "slack"})
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, domain.CategoryValidation, result.Error.Category)
	assert.Equal(t, "channel is archived", result.Error.Message)
}

func TestGetSchema_NotFoundIsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	schema, err := client.GetSchema(context.Background(), "NOPE_TOOL", "")
	require.NoError(t, err)
	assert.Nil(t, schema)
}

func TestGetSchema_ReturnsParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tools/ZENDESK_CREATE_TICKET/schema", r.URL.Path)
		assert.Equal(t, "disc-1", r.URL.Query().Get("session"))
		w.Write([]byte(`{"required":["subject","description"],"optional":["priority"]}`))
	})

	schema, err := client.GetSchema(context.Background(), "ZENDESK_CREATE_TICKET", "disc-1")
	require.NoError(t, err)
	require.NotNil(t, schema)
	assert.Equal(t, []string{"subject", "description"}, schema.Required)
	assert.Equal(t, []string{"priority"}, schema.Optional)
}

func TestDiscover_NoCandidate(t *testing.T) {
	t.Run("404", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		result, err := client.Discover(context.Background(), "do something", "unknownkit")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("empty slug", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})
		result, err := client.Discover(context.Background(), "do something", "unknownkit")
		require.NoError(t, err)
		assert.Nil(t, result)
	})
}

func TestDiscover_ReturnsSlugAndSchema(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tools/discover", r.URL.Path)
		w.Write([]byte(`{"slug":"ZENDESK_CREATE_TICKET","session_id":"disc-1","required":["subject"]}`))
	})

	result, err := client.Discover(context.Background(), "escalate support issue", "zendesk")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "ZENDESK_CREATE_TICKET", result.Slug)
	assert.Equal(t, "disc-1", result.SessionID)
	require.NotNil(t, result.Schema)
	assert.Equal(t, []string{"subject"}, result.Schema.Required)
}

func TestDiscover_FillsParamsFromRawSchema(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"slug":"ZENDESK_CREATE_TICKET","schema":{"type":"object","required":["subject"],"properties":{"subject":{"type":"string"},"priority":{"type":"string"}}}}`))
	})

	result, err := client.Discover(context.Background(), "escalate support issue", "zendesk")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.Schema)
	assert.Equal(t, []string{"subject"}, result.Schema.Required)
	assert.Equal(t, []string{"priority"}, result.Schema.Optional)
	assert.NotEmpty(t, result.Schema.Raw)
}

func TestCheckConnection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/connections/slack" {
			w.Write([]byte(`{"connected":true}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	connected, err := client.CheckConnection(context.Background(), "slack")
	require.NoError(t, err)
	assert.True(t, connected)

	connected, err = client.CheckConnection(context.Background(), "gmail")
	require.NoError(t, err)
	assert.False(t, connected, "an unknown connection reads as not connected")
}

func TestInitiateConnection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/connections/initiate", r.URL.Path)
		w.Write([]byte(`{"slack":{"connected":false,"auth_url":"https://auth.example.com/slack"}}`))
	})

	statuses, err := client.InitiateConnection(context.Background(), []string{"slack"})
	require.NoError(t, err)
	require.Contains(t, statuses, "slack")
	assert.False(t, statuses["slack"].Connected)
	assert.Equal(t, "https://auth.example.com/slack", statuses["slack"].AuthURL)
}
