package network

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/netlayer/pkg/endpoint"
	"github.com/samvad-hq/netlayer/pkg/httpclient"
)

const defaultTimeout = 15 * time.Second

// Result is the undecoded body of an accepted response and its status code.
type Result struct {
	Body       []byte
	StatusCode int
}

// Layer executes endpoint calls. It holds no per-call state and is safe for
// concurrent use once built.
type Layer struct {
	client  httpclient.Client
	decoder Decoder
	headers map[string]string
	log     Logger
}

// Option configures a Layer.
type Option func(*Layer)

// WithClient sets the transport. Defaults to a resty client with a 15s timeout.
func WithClient(c httpclient.Client) Option {
	return func(l *Layer) {
		if c != nil {
			l.client = c
		}
	}
}

// WithTimeout replaces the transport with a resty client using timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Layer) {
		l.client = httpclient.NewRestyClient(timeout)
	}
}

// WithDecoder sets the body decoder. Defaults to JSONDecoder.
func WithDecoder(d Decoder) Option {
	return func(l *Layer) {
		if d != nil {
			l.decoder = d
		}
	}
}

// WithHeaders sets headers sent with plain GET calls. Request overrides are
// sent untouched.
func WithHeaders(h map[string]string) Option {
	return func(l *Layer) {
		l.headers = make(map[string]string, len(h))
		for k, v := range h {
			l.headers[k] = v
		}
	}
}

// WithLogger sets a debug tracer for calls.
func WithLogger(log Logger) Option {
	return func(l *Layer) {
		l.log = ensureLogger(log)
	}
}

// New builds a Layer.
func New(opts ...Option) *Layer {
	l := &Layer{
		decoder: JSONDecoder{},
		log:     noopLogger{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = httpclient.NewRestyClient(defaultTimeout)
	}
	return l
}

// Data performs exactly one request for ep and returns the body and status
// code of an accepted response. On failure the Result is empty.
func (l *Layer) Data(ctx context.Context, ep endpoint.Endpoint) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	u := endpoint.URL(ep)
	if u == nil {
		return Result{}, ErrInvalidURL
	}

	var (
		resp httpclient.Response
		err  error
	)
	start := time.Now()
	if req := ep.Request(); req != nil {
		resp, err = l.client.Do(ctx, req)
	} else {
		resp, err = l.client.Get(ctx, u.String(), l.headers)
	}
	if err != nil {
		return Result{}, err
	}

	hr, ok := resp.(httpclient.HTTPResponse)
	if !ok {
		return Result{}, ErrResponseConversion
	}

	code, err := CheckStatusCode(hr.StatusCode())
	if err != nil {
		return Result{}, err
	}
	l.log.DebugObj("endpoint call completed", "call", map[string]any{
		"url":         u.String(),
		"status_code": code,
		"bytes":       len(hr.Body()),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return Result{Body: hr.Body(), StatusCode: code}, nil
}

// DecodeInto fetches ep and decodes the body into v, which must be a pointer.
func (l *Layer) DecodeInto(ctx context.Context, ep endpoint.Endpoint, v any) (int, error) {
	res, err := l.Data(ctx, ep)
	if err != nil {
		return 0, err
	}
	if err := l.decoder.Decode(res.Body, v); err != nil {
		return 0, fmt.Errorf("decode %T: %w", v, err)
	}
	return res.StatusCode, nil
}

// Decode fetches ep and decodes the body into a T.
func Decode[T any](ctx context.Context, l *Layer, ep endpoint.Endpoint) (T, int, error) {
	var out T
	code, err := l.DecodeInto(ctx, ep, &out)
	if err != nil {
		var zero T
		return zero, 0, err
	}
	return out, code, nil
}
