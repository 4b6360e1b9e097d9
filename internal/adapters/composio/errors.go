package composio

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/skybridge-ai/flowkit/internal/domain"
	json "github.com/skybridge-ai/flowkit/internal/xjson"
)

// statusError preserves the HTTP status until mapError buckets it into the
// taxonomy.
type statusError struct {
	code int
	body []byte
}

func newStatusError(code int, body []byte) *statusError {
	return &statusError{code: code, body: body}
}

func (e *statusError) Error() string {
	return fmt.Sprintf("platform returned status %d", e.code)
}

func (e *statusError) message() string {
	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(e.body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	if len(e.body) > 0 && len(e.body) < 200 {
		return strings.TrimSpace(string(e.body))
	}
	return fmt.Sprintf("request failed with status %d", e.code)
}

func asStatusError(err error, target **statusError) bool {
	return errors.As(err, target)
}

// mapError converts transport and status failures into the shared taxonomy:
// 429 is rate_limited, 5xx is service_unavailable, 401/403 is auth, 404 is
// tool_not_found, 400/422 is validation.
func (c *Client) mapError(err error, slug, toolkit string) *domain.Error {
	var status *statusError
	if errors.As(err, &status) {
		out := &domain.Error{
			Category: categoryForStatus(status.code),
			Message:  status.message(),
			Toolkit:  toolkit,
			Cause:    err,
		}
		if out.Category == domain.CategoryToolNotFound && slug != "" {
			out.Message = fmt.Sprintf("tool %q does not exist on the platform", slug)
		}
		return out
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return &domain.Error{Category: domain.CategoryTimeout, Message: "request timed out", Toolkit: toolkit, Cause: err}
	case errors.Is(err, context.Canceled):
		return &domain.Error{Category: domain.CategoryUnknown, Message: "request canceled", Toolkit: toolkit, Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &domain.Error{Category: domain.CategoryNetwork, Message: "could not reach the platform", Toolkit: toolkit, Cause: err}
	}

	return domain.Classify(err)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func categoryForStatus(code int) domain.ErrorCategory {
	switch {
	case code == http.StatusTooManyRequests:
		return domain.CategoryRateLimited
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.CategoryAuth
	case code == http.StatusNotFound:
		return domain.CategoryToolNotFound
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return domain.CategoryTimeout
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return domain.CategoryValidation
	case code >= 500:
		return domain.CategoryServiceUnavailable
	default:
		return domain.CategoryUnknown
	}
}
