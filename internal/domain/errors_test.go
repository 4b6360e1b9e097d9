package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		msg  string
		want ErrorCategory
	}{
		{"429 too many requests", CategoryRateLimited},
		{"request timeout after 30s", CategoryTimeout},
		{"context deadline exceeded", CategoryTimeout},
		{"503 service unavailable", CategoryServiceUnavailable},
		{"dial tcp: connection refused", CategoryNetwork},
		{"401 unauthorized", CategoryAuth},
		{"token expired, reauthenticate", CategoryAuth},
		{"tool SLACK_NOPE not found", CategoryToolNotFound},
		{"invalid value for field priority", CategoryValidation},
		{"something exploded", CategoryUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			classified := Classify(errors.New(tc.msg))
			require.NotNil(t, classified)
			assert.Equal(t, tc.want, classified.Category)
			assert.Equal(t, tc.msg, classified.Message)
		})
	}
}

func TestClassifyPassesThroughTypedErrors(t *testing.T) {
	original := NewParamMissingError("channel", "Send message")
	wrapped := fmt.Errorf("node failed: %w", original)

	classified := Classify(wrapped)
	assert.Same(t, original, classified)
	assert.True(t, IsParamMissing(wrapped))
}

func TestTransientCategories(t *testing.T) {
	assert.True(t, CategoryRateLimited.Transient())
	assert.True(t, CategoryNetwork.Transient())
	assert.True(t, CategoryTimeout.Transient())
	assert.True(t, CategoryServiceUnavailable.Transient())

	assert.False(t, CategoryAuth.Transient())
	assert.False(t, CategoryParamMissing.Transient())
	assert.False(t, CategoryValidation.Transient())
	assert.False(t, CategoryToolNotFound.Transient())
	assert.False(t, CategoryUnknown.Transient())
}

func TestErrorHelpers(t *testing.T) {
	authErr := NewAuthError("slack")
	assert.True(t, IsAuth(authErr))
	require.Len(t, authErr.Guidance, 1)
	assert.Equal(t, "Reconnect Now", authErr.Guidance[0].Label)

	notFound := NewToolNotFoundError("SLACK_NOPE", "slack", []string{"SLACK_SEND_MESSAGE"})
	assert.True(t, IsToolNotFound(notFound))
	assert.Equal(t, []string{"SLACK_SEND_MESSAGE"}, notFound.Suggestions)
}

func TestMergeLayers(t *testing.T) {
	merged, err := MergeLayers(
		map[string]interface{}{"channel": "#general", "text": "hi"},
		nil,
		map[string]interface{}{"channel": "#eng"},
	)
	require.NoError(t, err)
	assert.Equal(t, "#eng", merged["channel"])
	assert.Equal(t, "hi", merged["text"])
}

func TestMergeParamsLeavesInputsUntouched(t *testing.T) {
	base := map[string]interface{}{"a": 1}
	layer := map[string]interface{}{"a": 2, "b": 3}

	merged, err := MergeParams(base, layer)
	require.NoError(t, err)
	assert.Equal(t, 2, merged["a"])
	assert.Equal(t, 3, merged["b"])
	assert.Equal(t, 1, base["a"])
}
