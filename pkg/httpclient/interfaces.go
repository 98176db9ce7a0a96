package httpclient

import (
	"context"
	"net/http"
)

// Response is the minimal result of a transport round trip.
type Response interface {
	Body() []byte
}

// HTTPResponse is a Response that carries HTTP status metadata.
type HTTPResponse interface {
	Response
	StatusCode() int
	Header() http.Header
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Do(ctx context.Context, req *http.Request) (Response, error)
}
