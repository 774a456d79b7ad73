package adminapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
)

const maxMessageRunes = 200

var markupStripper = bluemonday.StrictPolicy()

// statusError classifies a non-2xx response.
func statusError(status int, body []byte) *model.APIError {
	kind := model.KindServerRejected
	switch status {
	case http.StatusUnauthorized:
		kind = model.KindUnauthenticated
	case http.StatusForbidden:
		kind = model.KindAuthorizationDenied
	}
	return &model.APIError{
		Kind:    kind,
		Status:  status,
		Message: extractMessage(body),
	}
}

// transportError wraps a failure that produced no HTTP response.
func transportError(ctx context.Context, err error) *model.APIError {
	apiErr := &model.APIError{Kind: model.KindTransport, Err: err}
	if isTimeout(ctx, err) {
		apiErr.Err = fmt.Errorf("%w: %w", model.ErrTimeout, err)
	}
	return apiErr
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// extractMessage pulls a human-readable message out of an error body.
// JSON bodies yield "message" (a string or a list of strings) then "error".
// Anything else is treated as markup and reduced to its text.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		if msg := messageText(obj["message"]); msg != "" {
			return msg
		}
		return messageText(obj["error"])
	}
	if json.Valid([]byte(trimmed)) {
		// Valid JSON that is not an object carries no message.
		return ""
	}

	text := html.UnescapeString(markupStripper.Sanitize(trimmed))
	return truncate(strings.Join(strings.Fields(text), " "), maxMessageRunes)
}

func messageText(v any) string {
	switch m := v.(type) {
	case string:
		return strings.TrimSpace(m)
	case []any:
		parts := make([]string, 0, len(m))
		for _, item := range m {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}
