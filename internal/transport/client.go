/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"upi-balance-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
)

const (
	defaultRequestTimeout = 15 * time.Second
	maxResponseBytes      = 8 << 20
)

// Request describes one call against the balance API
type Request struct {
	Method string
	Path   string
	Body   any
	// Timeout overrides the client default for this call
	Timeout time.Duration
	// Anonymous skips the credential lookup and Authorization header
	Anonymous bool
}

func (r Request) op() string {
	return r.Method + " " + r.Path
}

// Client issues authenticated JSON requests and normalizes every failure
// into one of the error types in errors.go. It never retries.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	defaultTimeout time.Duration
	metrics        *Metrics
}

type Option func(*Client)

// WithHTTPClient replaces the tuned default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

func NewClient(cfg models.ClientConfig, tokens TokenSource, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url cannot be empty")
	}

	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		tokens:         tokens,
		defaultTimeout: cfg.RequestTimeout,
	}
	if c.defaultTimeout <= 0 {
		c.defaultTimeout = defaultRequestTimeout
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		httpClient, err := createCustomHttpClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("unable to create custom http client: %w", err)
		}
		c.httpClient = httpClient
	}

	return c, nil
}

// No client-wide Timeout: every request carries its own deadline so the
// deposit call can outlive the default.
func createCustomHttpClient(cfg models.ClientConfig) (*http.Client, error) {
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          maxIdle,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   maxIdle / 2,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, err
		}
	}

	return &http.Client{Transport: tr}, nil
}

// BaseURL returns the API root requests are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and decodes a 2xx JSON body into out (which may be nil).
// A top-level {"data": ...} envelope is unwrapped.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	status, body, err := c.DoRaw(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(UnwrapData(body), out); err != nil {
		zap.L().Error("Failed to decode balance API response",
			zap.String("op", req.op()),
			zap.Int("status", status),
			zap.Error(err))
		return &APIError{Status: status, Message: GenericErrorMessage, Err: fmt.Errorf("unable to decode response: %w", err)}
	}
	return nil
}

// DoRaw sends req and returns the status and body of a 2xx response.
func (c *Client) DoRaw(ctx context.Context, req Request) (int, []byte, error) {
	start := time.Now()
	status, body, outcome, err := c.do(ctx, req)
	c.metrics.observe(req.Method, req.Path, outcome, time.Since(start))
	return status, body, err
}

func (c *Client) do(ctx context.Context, req Request) (int, []byte, string, error) {
	op := req.op()

	if err := ctx.Err(); err != nil {
		return 0, nil, outcomeCancelled, &CancelledError{Op: op, Err: err}
	}

	var token string
	if !req.Anonymous {
		var err error
		token, err = c.credential(ctx)
		if err != nil {
			return 0, nil, outcomeAuthRequired, err
		}
	}

	var payload io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return 0, nil, outcomeAPIError, fmt.Errorf("unable to encode %s request body: %w", op, err)
		}
		payload = bytes.NewReader(encoded)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, c.baseURL+req.Path, payload)
	if err != nil {
		return 0, nil, outcomeNetworkError, &NetworkError{Op: op, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	zap.L().Debug("Sending balance API request",
		zap.String("op", op),
		zap.String("request_id", httpReq.Header.Get("X-Request-ID")),
		zap.Duration("timeout", timeout))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		outcome, classified := c.classifyTransportError(ctx, op, err)
		return 0, nil, outcome, classified
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		outcome, classified := c.classifyTransportError(ctx, op, err)
		return resp.StatusCode, nil, outcome, classified
	}

	// The caller may have given up while the body was in flight.
	if err := ctx.Err(); err != nil {
		return resp.StatusCode, nil, outcomeCancelled, &CancelledError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := extractMessage(body)

		if resp.StatusCode == http.StatusUnauthorized {
			zap.L().Warn("Balance API rejected credential",
				zap.String("op", op),
				zap.String("message", message))
			return resp.StatusCode, nil, outcomeAuthRequired, &AuthRequiredError{Status: resp.StatusCode, Message: message}
		}

		if message == "" {
			message = GenericErrorMessage
		}
		zap.L().Warn("Balance API returned error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return resp.StatusCode, nil, outcomeAPIError, &APIError{Status: resp.StatusCode, Message: message}
	}

	zap.L().Debug("Balance API request succeeded",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	return resp.StatusCode, body, outcomeOK, nil
}

// credential resolves the bearer token for this call only. Nothing is cached.
func (c *Client) credential(ctx context.Context) (string, error) {
	if token := strings.TrimSpace(models.CredentialFromContext(ctx)); token != "" {
		return token, nil
	}
	if c.tokens == nil {
		return "", &AuthRequiredError{Message: AuthRequiredMessage}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", &AuthRequiredError{Message: AuthRequiredMessage, Err: err}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", &AuthRequiredError{Message: AuthRequiredMessage}
	}
	return token, nil
}

func (c *Client) classifyTransportError(ctx context.Context, op string, err error) (string, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		zap.L().Info("Balance API request cancelled by caller", zap.String("op", op), zap.Error(ctxErr))
		return outcomeCancelled, &CancelledError{Op: op, Err: ctxErr}
	}

	zap.L().Warn("Balance API request failed", zap.String("op", op), zap.Error(err))
	return outcomeNetworkError, &NetworkError{Op: op, Err: err}
}

// extractMessage pulls user-facing text out of an error body:
// "message", then "error" as a string, then "error.message".
func extractMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}

	var envelope struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if msg := rawString(envelope.Message); msg != "" {
		return msg
	}
	if msg := rawString(envelope.Error); msg != "" {
		return msg
	}

	var nested struct {
		Message string `json:"message"`
	}
	if len(envelope.Error) > 0 && json.Unmarshal(envelope.Error, &nested) == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// UnwrapData returns the object or array inside a top-level {"data": ...}
// envelope, or body unchanged when there is none.
func UnwrapData(body []byte) []byte {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return body
	}
	data := bytes.TrimSpace(envelope.Data)
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return data
	}
	return body
}

// IsCancelled reports whether err came from the caller's context ending
func IsCancelled(err error) bool {
	var cancelledErr *CancelledError
	return errors.As(err, &cancelledErr)
}
