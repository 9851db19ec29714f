// Package flow implements the client-side authentication state machines:
// login/register orchestration, email verification with one-time codes,
// and password recovery. Controllers are the only layer allowed to
// interpret transport errors; everything below passes them through.
package flow

import (
	"errors"
	"sort"
	"strings"

	"github.com/hireboard/hirectl/internal/client/api"
)

// Failure is what a controller surfaces for display: a short title plus a
// derived human-readable message. Raw error objects never reach the user.
type Failure struct {
	Title   string
	Message string
}

func (f *Failure) Error() string {
	return f.Title + ": " + f.Message
}

// failureMessage extracts a displayable message from a transport error,
// falling back when the error carries no usable text.
func failureMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// flattenDetails renders structured validation details as one string.
// Map entries are sorted by field name so the output is stable.
func flattenDetails(details any) string {
	switch v := details.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s, ok := v[k].(string); ok {
				parts = append(parts, k+": "+s)
			}
		}
		return strings.Join(parts, "; ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}
