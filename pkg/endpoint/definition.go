package endpoint

import (
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Definition is a declarative Endpoint, typically loaded from a catalog file.
type Definition struct {
	Name      string            `json:"name" yaml:"name"`
	URLScheme Scheme            `json:"scheme" yaml:"scheme"`
	URLHost   *string           `json:"host" yaml:"host"`
	URLPath   string            `json:"path" yaml:"path"`
	Query     []QueryItem       `json:"query" yaml:"query"`
	Method    string            `json:"method" yaml:"method"`
	Headers   map[string]string `json:"headers" yaml:"headers"`
	Body      string            `json:"body" yaml:"body"`
}

func (d Definition) Scheme() Scheme { return d.URLScheme }

func (d Definition) Host() (string, bool) {
	if d.URLHost == nil {
		return "", false
	}
	return *d.URLHost, true
}

func (d Definition) Path() string            { return d.URLPath }
func (d Definition) QueryItems() []QueryItem { return d.Query }

// URL returns the derived URL, or nil when the definition asks for a request
// override that cannot be built. A broken override never degrades to a GET.
func (d Definition) URL() *url.URL {
	u := d.derivedURL()
	if u == nil {
		return nil
	}
	if d.wantsOverride() && !validMethod(d.method()) {
		return nil
	}
	return u
}

// Request builds a request override when the definition asks for more than a
// bare GET. It returns nil when a plain GET suffices or the URL is invalid.
func (d Definition) Request() *http.Request {
	if !d.wantsOverride() {
		return nil
	}
	u := d.derivedURL()
	if u == nil {
		return nil
	}

	req, err := http.NewRequest(d.method(), u.String(), strings.NewReader(d.Body))
	if err != nil {
		return nil
	}
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}
	return req
}

func (d Definition) derivedURL() *url.URL {
	host, hasHost := d.Host()
	return Build(d.URLScheme, host, hasHost, d.URLPath, d.Query)
}

func (d Definition) method() string {
	if m := strings.ToUpper(strings.TrimSpace(d.Method)); m != "" {
		return m
	}
	return http.MethodGet
}

func (d Definition) wantsOverride() bool {
	return d.method() != http.MethodGet || len(d.Headers) > 0 || d.Body != ""
}

func validMethod(m string) bool {
	return httpguts.ValidHeaderFieldName(m)
}
