package ports

import (
	"context"

	"github.com/skybridge-ai/flowkit/internal/domain"
	json "github.com/skybridge-ai/flowkit/internal/xjson"
)

// ExecuteRequest is the single network call performed for action nodes.
type ExecuteRequest struct {
	Slug    string                 `json:"slug"`
	Toolkit string                 `json:"toolkit"`
	Params  map[string]interface{} `json:"params"`
	RunID   string                 `json:"run_id"`
	NodeID  string                 `json:"node_id"`
}

// ExecuteResult carries the platform's outcome. Verified stays nil when the
// platform offers no independent confirmation of the side effect; only an
// explicit false marks the result unverified.
type ExecuteResult struct {
	Success  bool                   `json:"success"`
	Verified *bool                  `json:"verified,omitempty"`
	Proof    string                 `json:"proof,omitempty"`
	Output   map[string]interface{} `json:"output,omitempty"`
	Error    *domain.Error          `json:"error,omitempty"`
}

// ToolSchema is the platform's description of a tool's inputs. Raw holds the
// JSON schema document when the platform provides one.
type ToolSchema struct {
	Required []string        `json:"required"`
	Optional []string        `json:"optional,omitempty"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// DiscoveryResult is the fallback resolution for toolkits without a static
// catalog entry: a candidate slug plus a question list generated from the
// tool's real input schema.
type DiscoveryResult struct {
	Slug      string            `json:"slug"`
	Questions []domain.Question `json:"questions,omitempty"`
	SessionID string            `json:"session_id"`
	Schema    *ToolSchema       `json:"schema,omitempty"`
}

type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	AuthURL   string `json:"auth_url,omitempty"`
}

// PlatformClient is the injected integration-platform collaborator. All
// methods are opaque to the core; adapters decide transport.
type PlatformClient interface {
	Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error)
	GetSchema(ctx context.Context, slug, sessionID string) (*ToolSchema, error)

	// Discover returns (nil, nil) when the platform has no candidate tool.
	Discover(ctx context.Context, intent, toolkit string) (*DiscoveryResult, error)

	CheckConnection(ctx context.Context, toolkit string) (bool, error)
	InitiateConnection(ctx context.Context, toolkits []string) (map[string]ConnectionStatus, error)
}
