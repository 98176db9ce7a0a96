package endpoint

import (
	"net/http"
	"net/url"
	"strings"
)

// Scheme is the web protocol an endpoint is reached over.
type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// Valid reports whether s is one of the supported schemes.
func (s Scheme) Valid() bool {
	return s == SchemeHTTP || s == SchemeHTTPS
}

// QueryItem is a single query key/value pair. Order within a slice is kept.
type QueryItem struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Endpoint describes how to reach one API call. Implementations are usually
// small value types, one per call site.
type Endpoint interface {
	Scheme() Scheme
	// Host returns false when the URL has no authority component.
	Host() (string, bool)
	Path() string
	QueryItems() []QueryItem
	// Request returns a fully built request to execute instead of a plain GET,
	// or nil.
	Request() *http.Request
}

// URLProvider lets an Endpoint replace the derived URL. Implementations must
// still return nil for URLs they cannot build.
type URLProvider interface {
	URL() *url.URL
}

// URL returns the URL derived for e, or nil when its components do not form a
// valid URL.
func URL(e Endpoint) *url.URL {
	if e == nil {
		return nil
	}
	if p, ok := e.(URLProvider); ok {
		return p.URL()
	}
	host, hasHost := e.Host()
	return Build(e.Scheme(), host, hasHost, e.Path(), e.QueryItems())
}

// Build composes scheme://host + path + ?query. Without a host the result has
// no authority (scheme: + path). It fails closed and returns nil whenever the
// components are not a valid URL.
func Build(scheme Scheme, host string, hasHost bool, path string, query []QueryItem) *url.URL {
	if !scheme.Valid() {
		return nil
	}
	if hasHost {
		if path != "" && !strings.HasPrefix(path, "/") {
			return nil
		}
	} else if strings.HasPrefix(path, "//") {
		return nil
	}

	var b strings.Builder
	b.WriteString(string(scheme))
	b.WriteByte(':')
	if hasHost {
		b.WriteString("//")
		b.WriteString(host)
	}
	b.WriteString((&url.URL{Path: path}).EscapedPath())
	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(encodeQuery(query))
	}

	u, err := url.Parse(b.String())
	if err != nil {
		return nil
	}
	if hasHost && u.Host != host {
		return nil
	}
	return u
}

func encodeQuery(items []QueryItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, escapeQueryComponent(it.Name)+"="+escapeQueryComponent(it.Value))
	}
	return strings.Join(parts, "&")
}

// escapeQueryComponent percent-encodes s for use as a query name or value.
// Spaces become %20 and '+' is kept literal; '&', '=' and '#' are escaped so
// they cannot split the pair.
func escapeQueryComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if queryComponentAllowed(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func queryComponentAllowed(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', '!', '$', '\'', '(', ')', '*', '+', ',', ';', ':', '@', '/', '?':
		return true
	}
	return false
}
