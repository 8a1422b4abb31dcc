// Package remote is the HTTP client for the prompt server of record. It
// implements the same store and identity contracts as the in-process
// services, adding Transport errors for everything the network can do wrong.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainerrors "github.com/promptozer/promptozer/internal/errors"
	"github.com/promptozer/promptozer/internal/http/response"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// Client talks to the PromptOzer HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, domainerrors.Validationf("invalid server URL %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Health returns nil when the server reports itself healthy.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "healthy" {
		return domainerrors.Transportf("server is %s", out.Status)
	}
	return nil
}

// do sends a JSON request and decodes the enveloped response into out.
// out may be nil when no payload is expected.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "encode request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return domainerrors.Wrapf(err, domainerrors.CodeTransport, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeTransport, "read %s %s response", method, path)
	}

	c.logger.Debug("request done", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env response.Decode
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return statusError(resp.StatusCode, strings.TrimSpace(string(raw)))
		}
		return domainerrors.Wrapf(err, domainerrors.CodeTransport, "undecodable response from %s %s", method, path)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return envelopeError(resp.StatusCode, &env)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeTransport, "undecodable response from %s %s", method, path)
	}
	return nil
}

// envelopeError restores the domain error a server sent. Server-side faults
// (5xx) become Transport errors: the client cannot know what was applied.
func envelopeError(status int, env *response.Decode) error {
	msg := env.Message
	if msg == "" {
		msg = env.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	code := domainerrors.Code(env.Code)
	if status >= http.StatusInternalServerError || !knownCode(code) {
		code = domainerrors.CodeForStatus(status)
	}

	e := &domainerrors.Error{Code: code, Message: msg}
	if len(env.Details) > 0 {
		var details any
		if json.Unmarshal(env.Details, &details) == nil {
			e = e.WithDetails(details)
		}
	}
	return e
}

func statusError(status int, body string) error {
	if body == "" {
		body = http.StatusText(status)
	}
	return &domainerrors.Error{
		Code:    domainerrors.CodeForStatus(status),
		Message: fmt.Sprintf("server returned %d: %s", status, body),
	}
}

func knownCode(c domainerrors.Code) bool {
	switch c {
	case domainerrors.CodeNotFound, domainerrors.CodeAlreadyExists, domainerrors.CodeValidation,
		domainerrors.CodeTransport, domainerrors.CodeIdentityUnresolved, domainerrors.CodeRateLimited,
		domainerrors.CodeInternal:
		return true
	}
	return false
}
