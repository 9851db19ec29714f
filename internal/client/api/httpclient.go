package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hireboard/hirectl/internal/client/session"
	"github.com/hireboard/hirectl/internal/logging"
)

const tracerName = "github.com/hireboard/hirectl/internal/client/api"

// HTTPClient talks to the HireBoard backend over its JSON contract.
//
// It always sends Content-Type/Accept application/json, attaches the bearer
// token from the session store when one is held, and records every request
// and outcome to the diagnostic channel (logger + trace span). Diagnostics
// never alter control flow.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	session *session.Store
	log     logging.Logger
	tracer  trace.Tracer
}

// NewHTTPClient constructs a client for the given base URL. The timeout
// applies to every request; zero means no client-side timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, sess *session.Store, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
		log:     log,
		tracer:  otel.Tracer(tracerName),
	}
}

// Send executes one backend call. On any failure the returned error is a
// *Error; the Payload is non-nil only on 2xx responses.
func (c *HTTPClient) Send(ctx context.Context, req Request) (*Payload, error) {
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, req.Method+" "+req.Path)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.path", req.Path),
		attribute.String("request.id", requestID),
	)

	httpReq, err := c.buildRequest(ctx, req, requestID)
	if err != nil {
		return nil, c.fail(ctx, span, requestID, newError("Network error", 0, err.Error(), false))
	}

	c.log.Debug(ctx, "api request", "request_id", requestID, "method", req.Method, "path", req.Path)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.fail(ctx, span, requestID, newError("Network error", 0, err.Error(), false))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, span, requestID, newError("Network error", 0, err.Error(), false))
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	payload := newPayload(raw)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.log.Debug(ctx, "api response", "request_id", requestID, "status", resp.StatusCode)
		return payload, nil
	}

	return nil, c.fail(ctx, span, requestID, normalizeResponse(resp.StatusCode, payload))
}

func (c *HTTPClient) buildRequest(ctx context.Context, req Request, requestID string) (*http.Request, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)
	if token, ok := c.session.Token(); ok {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	// Caller headers are merged last and may override the defaults.
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// fail records the outcome and passes the error through unchanged.
func (c *HTTPClient) fail(ctx context.Context, span trace.Span, requestID string, e *Error) *Error {
	span.SetStatus(codes.Error, e.Message)
	c.log.Warn(ctx, "api request failed",
		"request_id", requestID, "status", e.StatusCode, "kind", e.Kind.String(), "message", e.Message)
	return e
}

// normalizeResponse converts a non-2xx response into an Error. The message
// is the body's "error" field when present, else the raw text body when the
// body is not JSON, else a generic fallback. Details is the body's
// "details" field when present, else the whole body.
func normalizeResponse(statusCode int, p *Payload) *Error {
	message := "Request failed"
	if m := p.StringField("error"); m != "" {
		message = m
	} else if !p.IsJSON() && p.Text() != "" {
		message = p.Text()
	}

	if details, ok := p.Field("details"); ok {
		return newError(message, statusCode, details, true)
	}
	if p.IsJSON() {
		return newError(message, statusCode, p.Fields(), false)
	}
	return newError(message, statusCode, p.Text(), false)
}
