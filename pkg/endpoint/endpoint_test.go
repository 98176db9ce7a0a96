package endpoint

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type mockEndpoint int

const (
	invalidURL mockEndpoint = iota
	withRequest
	validURL
)

func (m mockEndpoint) Scheme() Scheme {
	if m == invalidURL {
		return SchemeHTTP
	}
	return SchemeHTTPS
}

func (m mockEndpoint) Host() (string, bool) {
	if m == validURL {
		return "", true
	}
	return "", false
}

func (m mockEndpoint) Path() string {
	if m == invalidURL {
		return "//"
	}
	return ""
}

func (mockEndpoint) QueryItems() []QueryItem { return nil }

func (m mockEndpoint) Request() *http.Request {
	if m != withRequest {
		return nil
	}
	u := URL(m)
	if u == nil {
		return nil
	}
	return &http.Request{Method: http.MethodGet, URL: u, Header: http.Header{}}
}

func strPtr(s string) *string { return &s }

func TestURLWithEmptyHost(t *testing.T) {
	got := URL(validURL)
	if got == nil {
		t.Fatalf("expected url, got nil")
	}
	want, _ := url.Parse("https://")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
	if validURL.Request() != nil {
		t.Fatalf("expected no request override")
	}
}

func TestURLRejectsDoubleSlashWithoutHost(t *testing.T) {
	if got := URL(invalidURL); got != nil {
		t.Fatalf("expected nil url, got %s", got)
	}
}

func TestEndpointWithRequestKeepsDerivedURL(t *testing.T) {
	if withRequest.Request() == nil {
		t.Fatalf("expected request override")
	}
	if URL(withRequest) == nil {
		t.Fatalf("expected derived url alongside override")
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		scheme  Scheme
		host    string
		hasHost bool
		path    string
		query   []QueryItem
		want    string
	}{
		{name: "full", scheme: SchemeHTTPS, host: "api.example.com", hasHost: true, path: "/v1/items",
			query: []QueryItem{{Name: "b", Value: "2"}, {Name: "a", Value: "x y"}},
			want:  "https://api.example.com/v1/items?b=2&a=x%20y"},
		{name: "query reserved chars", scheme: SchemeHTTPS, host: "h", hasHost: true, path: "/s",
			query: []QueryItem{{Name: "q", Value: "a+b&c=d#e"}, {Name: "p", Value: "50%/x?"}},
			want:  "https://h/s?q=a+b%26c%3Dd%23e&p=50%25/x?"},
		{name: "port", scheme: SchemeHTTP, host: "localhost:8080", hasHost: true, path: "/", want: "http://localhost:8080/"},
		{name: "escaped path", scheme: SchemeHTTPS, host: "h", hasHost: true, path: "/a b?", want: "https://h/a%20b%3F"},
		{name: "no host", scheme: SchemeHTTPS, path: "", want: "https:"},
		{name: "no host relative path", scheme: SchemeHTTP, path: "mailbox", want: "http:mailbox"},
		{name: "empty query", scheme: SchemeHTTPS, host: "h", hasHost: true, path: "/p", query: []QueryItem{}, want: "https://h/p"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Build(tc.scheme, tc.host, tc.hasHost, tc.path, tc.query)
			if got == nil {
				t.Fatalf("expected url, got nil")
			}
			if got.String() != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got.String())
			}
		})
	}
}

func TestBuildFailsClosed(t *testing.T) {
	tests := []struct {
		name    string
		scheme  Scheme
		host    string
		hasHost bool
		path    string
	}{
		{name: "unknown scheme", scheme: "ftp", host: "h", hasHost: true, path: "/"},
		{name: "relative path with host", scheme: SchemeHTTPS, host: "h", hasHost: true, path: "rel"},
		{name: "double slash without host", scheme: SchemeHTTP, path: "//"},
		{name: "double slash prefix without host", scheme: SchemeHTTP, path: "//evil/path"},
		{name: "userinfo in host", scheme: SchemeHTTPS, host: "user@h", hasHost: true, path: "/"},
		{name: "slash in host", scheme: SchemeHTTPS, host: "h/x", hasHost: true, path: "/"},
		{name: "bad port", scheme: SchemeHTTPS, host: "h:port", hasHost: true, path: "/"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Build(tc.scheme, tc.host, tc.hasHost, tc.path, nil); got != nil {
				t.Fatalf("expected nil, got %s", got)
			}
		})
	}
}

type fixedURLEndpoint struct {
	mockEndpoint
	u *url.URL
}

func (f fixedURLEndpoint) URL() *url.URL { return f.u }

func TestURLUsesProviderOverride(t *testing.T) {
	fixed, _ := url.Parse("https://override.example/path")
	got := URL(fixedURLEndpoint{mockEndpoint: invalidURL, u: fixed})
	if got != fixed {
		t.Fatalf("expected override url, got %v", got)
	}
	if URL(nil) != nil {
		t.Fatalf("expected nil url for nil endpoint")
	}
}

func TestDefinitionRequestOverride(t *testing.T) {
	plain := Definition{Name: "plain", URLScheme: SchemeHTTPS, URLHost: strPtr("h"), URLPath: "/x"}
	if plain.Request() != nil {
		t.Fatalf("plain GET definition should not build a request")
	}

	post := Definition{
		Name:      "post",
		URLScheme: SchemeHTTPS,
		URLHost:   strPtr("h"),
		URLPath:   "/x",
		Method:    "post",
		Headers:   map[string]string{"Content-Type": "application/json"},
		Body:      `{"a":1}`,
	}
	req := post.Request()
	if req == nil {
		t.Fatalf("expected request override")
	}
	if req.Method != http.MethodPost || req.URL.String() != "https://h/x" {
		t.Fatalf("unexpected request %s %s", req.Method, req.URL)
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("missing header")
	}
	body, _ := io.ReadAll(req.Body)
	if string(body) != `{"a":1}` {
		t.Fatalf("unexpected body %q", body)
	}

	broken := post
	broken.URLPath = "rel"
	if broken.Request() != nil {
		t.Fatalf("expected nil request for invalid url")
	}
}

func TestLoadCatalogYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "endpoints.yaml")
	content := `
endpoints:
  - name: todos
    host: jsonplaceholder.typicode.com
    path: /todos/1
    query:
      - name: expand
        value: user
  - name: local
    scheme: HTTP
    host: " localhost:8080 "
    path: /health
    method: head
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write endpoints file: %v", err)
	}

	cat, err := LoadCatalog(file)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(cat.All()) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(cat.All()))
	}

	todos, ok := cat.ByName("todos")
	if !ok {
		t.Fatalf("expected todos endpoint")
	}
	if todos.Scheme() != SchemeHTTPS {
		t.Fatalf("expected default https scheme, got %q", todos.Scheme())
	}
	if got := URL(todos).String(); got != "https://jsonplaceholder.typicode.com/todos/1?expand=user" {
		t.Fatalf("unexpected url %s", got)
	}

	local, _ := cat.ByName("local")
	if local.Scheme() != SchemeHTTP || local.Method != http.MethodHead {
		t.Fatalf("unexpected sanitized definition %+v", local)
	}
	if host, _ := local.Host(); host != "localhost:8080" {
		t.Fatalf("host not trimmed: %q", host)
	}

	if names := cat.Names(); !reflect.DeepEqual(names, []string{"local", "todos"}) {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestLoadCatalogJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "endpoints.json")
	content := `{"endpoints":[{"name":"hostless","scheme":"https","path":""}]}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write endpoints file: %v", err)
	}

	cat, err := LoadCatalog(file)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	d, ok := cat.ByName("hostless")
	if !ok {
		t.Fatalf("expected hostless endpoint")
	}
	if _, hasHost := d.Host(); hasHost {
		t.Fatalf("expected no host")
	}
	if got := URL(d).String(); got != "https:" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestLoadCatalogRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"duplicate": `
endpoints:
  - name: dup
    host: a
  - name: dup
    host: b
`,
		"scheme": `
endpoints:
  - name: x
    scheme: ftp
`,
		"empty": `endpoints: []`,
		"method": `
endpoints:
  - name: x
    host: api.example.com
    path: /items
    method: DELE TE
    body: payload
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "endpoints.yaml")
			if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
				t.Fatalf("write endpoints file: %v", err)
			}
			if _, err := LoadCatalog(file); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := LoadCatalog(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestDefinitionWithBrokenOverrideHasNoURL(t *testing.T) {
	d := Definition{
		Name:      "broken",
		URLScheme: SchemeHTTPS,
		URLHost:   strPtr("api.example.com"),
		URLPath:   "/items",
		Method:    "DELE TE",
		Body:      "payload",
	}
	if d.Request() != nil {
		t.Fatalf("expected no request for invalid method")
	}
	if URL(d) != nil {
		t.Fatalf("expected nil url so the call is not sent as a plain GET")
	}
	if _, err := NewCatalog(d); err == nil {
		t.Fatalf("expected catalog to reject invalid method")
	}

	d.Method = "delete"
	if URL(d) == nil || d.Request() == nil || d.Request().Method != http.MethodDelete {
		t.Fatalf("expected valid DELETE override")
	}
}

func TestQueryEncodingRoundTrips(t *testing.T) {
	u := Build(SchemeHTTPS, "h", true, "/", []QueryItem{{Name: "a b", Value: "1+1=2"}})
	if u == nil {
		t.Fatalf("expected url")
	}
	if u.RawQuery != "a%20b=1+1%3D2" {
		t.Fatalf("unexpected raw query %q", u.RawQuery)
	}
}
