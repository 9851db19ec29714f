package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the closed classification of a failed request. It is computed
// exactly once, when the Error is built; callers switch on it instead of
// re-inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnverified means the account exists but its email has not been
	// confirmed yet; the caller should route to the OTP flow.
	KindUnverified
	// KindDuplicateAccount means registration hit an existing account.
	KindDuplicateAccount
	// KindValidationFailed means the backend rejected individual fields.
	KindValidationFailed
	// KindNetworkUnreachable means the request never reached the backend.
	KindNetworkUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindUnverified:
		return "unverified"
	case KindDuplicateAccount:
		return "duplicate_account"
	case KindValidationFailed:
		return "validation_failed"
	case KindNetworkUnreachable:
		return "network_unreachable"
	default:
		return "unknown"
	}
}

// Error is the normalized failure every request can end in.
//
// StatusCode 0 means no response was reached. Details carries whatever the
// backend attached ("details" field, the whole body, or the underlying
// network error's description).
type Error struct {
	Message    string
	StatusCode int
	Details    any
	Kind       Kind
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// newError builds a classified Error. All construction in this package
// funnels through here so classification happens exactly once.
// fieldErrors marks Details as coming from an explicit "details" field of
// the response, i.e. structured validation output rather than the
// whole-body fallback.
func newError(message string, statusCode int, details any, fieldErrors bool) *Error {
	e := &Error{Message: message, StatusCode: statusCode, Details: details}
	e.Kind = classify(e, fieldErrors)
	return e
}

func classify(e *Error, fieldErrors bool) Kind {
	if e.StatusCode == 0 {
		return KindNetworkUnreachable
	}

	text := strings.ToLower(e.Message + " " + detailsText(e.Details))
	switch {
	case strings.Contains(text, "not verified") || strings.Contains(text, "unverified"):
		return KindUnverified
	case strings.Contains(text, "already exists") || strings.Contains(text, "already registered"):
		return KindDuplicateAccount
	}

	if fieldErrors && hasFieldErrors(e.Details) {
		return KindValidationFailed
	}
	return KindUnknown
}

func detailsText(details any) string {
	switch v := details.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// hasFieldErrors reports whether details looks like structured validation
// output: a map of field names to messages, or a list of messages.
func hasFieldErrors(details any) bool {
	switch v := details.(type) {
	case map[string]any:
		return len(v) > 0
	case []any:
		return len(v) > 0
	default:
		return false
	}
}
