package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/praekeltfoundation/hellomama-registration/internal/metrics"
)

// Option configures a collaborator client.
type Option func(*base)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(b *base) { b.hc = hc }
}

// WithTimeout bounds every individual request.
func WithTimeout(d time.Duration) Option {
	return func(b *base) { b.timeout = d }
}

// WithMaxTries bounds the attempts made for retryable failures.
func WithMaxTries(n uint) Option {
	return func(b *base) {
		if n > 0 {
			b.maxTries = n
		}
	}
}

// WithRetryBackOff sets the backoff policy between attempts.
func WithRetryBackOff(newBackOff func() backoff.BackOff) Option {
	return func(b *base) { b.newBackOff = newBackOff }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(b *base) { b.log = log }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *base) { b.metrics = m }
}

// base is the shared HTTP plumbing of every collaborator client.
type base struct {
	service    string
	baseURL    string
	token      string
	hc         *http.Client
	timeout    time.Duration
	maxTries   uint
	newBackOff func() backoff.BackOff
	log        *zap.Logger
	metrics    *metrics.Metrics
}

func newBase(service, baseURL, token string, opts []Option) base {
	b := base{
		service:  service,
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		hc:       http.DefaultClient,
		timeout:  5 * time.Second,
		maxTries: 3,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// call performs one logical request with retries. out, when non-nil, receives
// the decoded JSON response body.
func (b *base) call(ctx context.Context, operation, method, path string, query url.Values, body, out any) error {
	start := time.Now()
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := b.do(ctx, method, path, query, body, out)
		if err != nil && !IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		if err != nil {
			b.log.Debug("retrying collaborator call",
				zap.String("service", b.service),
				zap.String("operation", operation),
				zap.Error(err))
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b.newBackOff()), backoff.WithMaxTries(b.maxTries))
	b.metrics.ObserveCall(b.service, operation, time.Since(start))

	if err != nil {
		var ce *Error
		if !errors.As(err, &ce) {
			err = b.classify(err)
		}
		b.metrics.IncCallError(b.service, string(CategoryOf(err)))
		return err
	}
	return nil
}

func (b *base) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	u := b.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return NewError(CategoryInternal, b.service, "encode request", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return NewError(CategoryInternal, b.service, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Token "+b.token)
	}

	resp, err := b.hc.Do(req)
	if err != nil {
		return b.classify(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NewError(CategoryNotFound, b.service, fmt.Sprintf("%s %s: not found", method, path), nil)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return NewError(CategoryUnavailable, b.service, fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode), nil)
	case resp.StatusCode >= 400:
		return NewError(CategoryBadData, b.service, fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode), nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return NewError(CategoryBadData, b.service, "decode response", err)
	}
	return nil
}

func (b *base) classify(err error) *Error {
	if CategoryOf(err) == CategoryTimeout {
		return NewError(CategoryTimeout, b.service, "request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewError(CategoryInternal, b.service, "request cancelled", err)
	}
	return NewError(CategoryUnavailable, b.service, "request failed", err)
}
