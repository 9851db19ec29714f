// Package api implements the HTTP transport for the HireBoard backend.
//
// Every call goes through Send, which builds the request, attaches the
// bearer token when one is held, parses the response, and converts every
// failure — network, non-2xx, malformed body — into a single *Error shape.
// No raw transport error ever crosses this package's boundary.
package api

import "context"

// Request describes one backend call. Body, when non-nil, is marshalled to
// JSON. Headers are merged over the defaults and may override them.
type Request struct {
	Method  string
	Path    string
	Body    any
	Headers map[string]string
}

// Client is the transport contract the rest of the client builds on.
// On success the returned Payload holds the parsed response body; on
// failure the returned error is always a *Error.
type Client interface {
	Send(ctx context.Context, req Request) (*Payload, error)
}
