// Package composio talks to the Composio tool-execution platform over HTTP.
// It is the only adapter that performs network calls for action nodes; every
// failure is mapped into the shared error taxonomy before it reaches the
// engine.
package composio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/skybridge-ai/flowkit/internal/adapters/discovery"
	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/skybridge-ai/flowkit/internal/ports"
	json "github.com/skybridge-ai/flowkit/internal/xjson"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL           = "https://backend.composio.dev/api/v3"
	defaultRequestsPerSecond = 10
	defaultBurst             = 5
	defaultTimeout           = 60 * time.Second
)

type Config struct {
	BaseURL string
	APIKey  string

	// RequestsPerSecond throttles outbound calls; the platform enforces its
	// own limits, staying under them avoids burning retry budget on 429s.
	RequestsPerSecond float64
	Burst             int

	HTTPClient *http.Client
}

// Client implements ports.PlatformClient against the Composio REST API.
type Client struct {
	base    string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		base:    cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    cfg.HTTPClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:  logger.With("component", "composio"),
	}
}

type executePayload struct {
	Toolkit string                 `json:"toolkit"`
	Params  map[string]interface{} `json:"params"`
	RunID   string                 `json:"run_id,omitempty"`
	NodeID  string                 `json:"node_id,omitempty"`
}

type executeEnvelope struct {
	Success  bool                   `json:"success"`
	Verified *bool                  `json:"verified,omitempty"`
	Proof    string                 `json:"proof,omitempty"`
	Output   map[string]interface{} `json:"output,omitempty"`
	Error    *apiError              `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (c *Client) Execute(ctx context.Context, req ports.ExecuteRequest) (*ports.ExecuteResult, error) {
	payload := executePayload{
		Toolkit: req.Toolkit,
		Params:  req.Params,
		RunID:   req.RunID,
		NodeID:  req.NodeID,
	}

	var envelope executeEnvelope
	err := c.do(ctx, http.MethodPost, "/tools/execute/"+url.PathEscape(req.Slug), payload, &envelope)
	if err != nil {
		return nil, c.mapError(err, req.Slug, req.Toolkit)
	}

	result := &ports.ExecuteResult{
		Success:  envelope.Success,
		Verified: envelope.Verified,
		Proof:    envelope.Proof,
		Output:   envelope.Output,
	}
	if !envelope.Success && envelope.Error != nil {
		result.Error = &domain.Error{
			Category: domain.CategoryValidation,
			Message:  envelope.Error.Message,
			Toolkit:  req.Toolkit,
		}
	}
	c.logger.Debug("execute call finished",
		"slug", req.Slug,
		"toolkit", req.Toolkit,
		"success", envelope.Success,
	)
	return result, nil
}

type schemaEnvelope struct {
	Required []string        `json:"required"`
	Optional []string        `json:"optional,omitempty"`
	Schema   json.RawMessage `json:"schema,omitempty"`
}

func (c *Client) GetSchema(ctx context.Context, slug, sessionID string) (*ports.ToolSchema, error) {
	path := "/tools/" + url.PathEscape(slug) + "/schema"
	if sessionID != "" {
		path += "?session=" + url.QueryEscape(sessionID)
	}

	var envelope schemaEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		var status *statusError
		if asStatusError(err, &status) && status.code == http.StatusNotFound {
			return nil, nil
		}
		return nil, c.mapError(err, slug, "")
	}

	return &ports.ToolSchema{
		Required: envelope.Required,
		Optional: envelope.Optional,
		Raw:      envelope.Schema,
	}, nil
}

type discoverPayload struct {
	Intent  string `json:"intent"`
	Toolkit string `json:"toolkit"`
}

type discoverEnvelope struct {
	Slug      string            `json:"slug"`
	SessionID string            `json:"session_id"`
	Questions []domain.Question `json:"questions,omitempty"`
	Required  []string          `json:"required,omitempty"`
	Optional  []string          `json:"optional,omitempty"`
	Schema    json.RawMessage   `json:"schema,omitempty"`
}

// Discover asks the platform for a candidate tool for a toolkit the static
// catalog does not carry. Returns (nil, nil) when there is no candidate.
func (c *Client) Discover(ctx context.Context, intent, toolkit string) (*ports.DiscoveryResult, error) {
	var envelope discoverEnvelope
	err := c.do(ctx, http.MethodPost, "/tools/discover", discoverPayload{Intent: intent, Toolkit: toolkit}, &envelope)
	if err != nil {
		var status *statusError
		if asStatusError(err, &status) && status.code == http.StatusNotFound {
			return nil, nil
		}
		return nil, c.mapError(err, "", toolkit)
	}
	if envelope.Slug == "" {
		return nil, nil
	}

	result := &ports.DiscoveryResult{
		Slug:      envelope.Slug,
		SessionID: envelope.SessionID,
		Questions: envelope.Questions,
	}
	if len(envelope.Required) == 0 && len(envelope.Schema) > 0 {
		required, optional, err := discovery.ParamSets(envelope.Schema)
		if err != nil {
			c.logger.Warn("discovered schema is unreadable", "toolkit", toolkit, "error", err.Error())
		} else {
			envelope.Required = required
			envelope.Optional = optional
		}
	}
	if len(envelope.Required) > 0 || len(envelope.Schema) > 0 {
		result.Schema = &ports.ToolSchema{
			Required: envelope.Required,
			Optional: envelope.Optional,
			Raw:      envelope.Schema,
		}
	}
	c.logger.Debug("discovery resolved tool", "toolkit", toolkit, "slug", envelope.Slug)
	return result, nil
}

type connectionEnvelope struct {
	Connected bool   `json:"connected"`
	AuthURL   string `json:"auth_url,omitempty"`
}

func (c *Client) CheckConnection(ctx context.Context, toolkit string) (bool, error) {
	var envelope connectionEnvelope
	err := c.do(ctx, http.MethodGet, "/connections/"+url.PathEscape(toolkit), nil, &envelope)
	if err != nil {
		var status *statusError
		if asStatusError(err, &status) && status.code == http.StatusNotFound {
			return false, nil
		}
		return false, c.mapError(err, "", toolkit)
	}
	return envelope.Connected, nil
}

type initiatePayload struct {
	Toolkits []string `json:"toolkits"`
}

func (c *Client) InitiateConnection(ctx context.Context, toolkits []string) (map[string]ports.ConnectionStatus, error) {
	var envelope map[string]connectionEnvelope
	if err := c.do(ctx, http.MethodPost, "/connections/initiate", initiatePayload{Toolkits: toolkits}, &envelope); err != nil {
		return nil, c.mapError(err, "", "")
	}

	out := make(map[string]ports.ConnectionStatus, len(envelope))
	for toolkit, status := range envelope {
		out[toolkit] = ports.ConnectionStatus{Connected: status.Connected, AuthURL: status.AuthURL}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
