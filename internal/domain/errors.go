package domain

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCategory string

const (
	CategoryParamMissing       ErrorCategory = "param_missing"
	CategoryToolNotFound       ErrorCategory = "tool_not_found"
	CategoryRateLimited        ErrorCategory = "rate_limited"
	CategoryNetwork            ErrorCategory = "network_error"
	CategoryTimeout            ErrorCategory = "timeout"
	CategoryServiceUnavailable ErrorCategory = "service_unavailable"
	CategoryAuth               ErrorCategory = "auth"
	CategoryValidation         ErrorCategory = "validation"
	CategoryUnknown            ErrorCategory = "unknown"
)

// Error is the single error shape surfaced at node and run level. Guidance
// carries clickable recovery actions; Suggestions carries fallback slugs when
// the category is tool_not_found.
type Error struct {
	Category    ErrorCategory `json:"category"`
	Message     string        `json:"message"`
	Param       string        `json:"param,omitempty"`
	Toolkit     string        `json:"toolkit,omitempty"`
	Guidance    []QuickAction `json:"guidance,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
	Cause       error         `json:"-"`
}

func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param %q)", e.Category, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewParamMissingError(param, nodeName string) *Error {
	return &Error{
		Category: CategoryParamMissing,
		Param:    param,
		Message:  fmt.Sprintf("missing required parameter %q for %q", param, nodeName),
	}
}

func NewToolNotFoundError(slug, toolkit string, suggestions []string) *Error {
	return &Error{
		Category:    CategoryToolNotFound,
		Toolkit:     toolkit,
		Message:     fmt.Sprintf("tool %q does not exist on %s", slug, toolkit),
		Suggestions: suggestions,
	}
}

func NewAuthError(toolkit string) *Error {
	return &Error{
		Category: CategoryAuth,
		Toolkit:  toolkit,
		Message:  fmt.Sprintf("connection to %s expired or missing", toolkit),
		Guidance: []QuickAction{{Label: "Reconnect Now", Param: toolkit}},
	}
}

// Transient reports whether the category is absorbed locally by the retry
// loop rather than surfaced immediately.
func (c ErrorCategory) Transient() bool {
	switch c {
	case CategoryRateLimited, CategoryNetwork, CategoryTimeout, CategoryServiceUnavailable:
		return true
	}
	return false
}

func IsParamMissing(err error) bool { return categoryOf(err) == CategoryParamMissing }
func IsToolNotFound(err error) bool { return categoryOf(err) == CategoryToolNotFound }
func IsAuth(err error) bool         { return categoryOf(err) == CategoryAuth }
func IsTransient(err error) bool    { return categoryOf(err).Transient() }

func categoryOf(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// Classify buckets an arbitrary error into the taxonomy. Already-classified
// errors pass through untouched; everything else is matched on message
// substrings the way upstream integration platforms phrase their failures.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	msg := strings.ToLower(err.Error())
	category := CategoryUnknown
	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests") || strings.Contains(msg, "429"):
		category = CategoryRateLimited
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		category = CategoryTimeout
	case strings.Contains(msg, "service unavailable") || strings.Contains(msg, "bad gateway") || strings.Contains(msg, "502") || strings.Contains(msg, "503"):
		category = CategoryServiceUnavailable
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "network") || strings.Contains(msg, "no such host") || strings.Contains(msg, "broken pipe"):
		category = CategoryNetwork
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "forbidden") || strings.Contains(msg, "expired") || strings.Contains(msg, "not connected") || strings.Contains(msg, "401") || strings.Contains(msg, "403"):
		category = CategoryAuth
	case strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist") || strings.Contains(msg, "unknown tool") || strings.Contains(msg, "unknown action"):
		category = CategoryToolNotFound
	case strings.Contains(msg, "invalid") || strings.Contains(msg, "validation") || strings.Contains(msg, "bad request"):
		category = CategoryValidation
	}

	return &Error{
		Category: category,
		Message:  err.Error(),
		Cause:    err,
	}
}

// Lifecycle sentinels.
var (
	ErrNotStarted     = errors.New("session not started")
	ErrNotReady       = errors.New("pre-flight has open questions or missing connections")
	ErrRunActive      = errors.New("a run is already active")
	ErrNoPendingRun   = errors.New("no run awaiting input")
	ErrQuestionClosed = errors.New("question no longer open")
	ErrClosed         = errors.New("session closed")
)
