package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout)}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R()
	if ctx != nil {
		req.SetContext(ctx)
	}
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.RawResponse == nil {
		return payload(resp.Body()), nil
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// Do sends a pre-built request through the underlying http.Client without
// rewriting its method, URL, headers or body.
func (r *RestyClient) Do(ctx context.Context, req *http.Request) (Response, error) {
	if req == nil {
		return nil, errors.New("request is nil")
	}
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	resp, err := r.client.GetClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &stdResponseAdapter{resp: resp, body: body}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.HTTPResponse interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }

type stdResponseAdapter struct {
	resp *http.Response
	body []byte
}

func (s *stdResponseAdapter) Body() []byte        { return s.body }
func (s *stdResponseAdapter) StatusCode() int     { return s.resp.StatusCode }
func (s *stdResponseAdapter) Header() http.Header { return s.resp.Header }

// payload is a body without HTTP metadata.
type payload []byte

func (p payload) Body() []byte { return p }
