package endpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile represents the structure of the endpoints configuration file.
type catalogFile struct {
	Endpoints []Definition `json:"endpoints" yaml:"endpoints"`
}

// Catalog holds endpoint definitions keyed by name. It is read-only once
// built.
type Catalog struct {
	endpoints []Definition
	idx       map[string]Definition
}

// LoadCatalog loads endpoint definitions from a YAML/JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("endpoints file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open endpoints file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}

	parsed, err := parseCatalog(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewCatalog(parsed.Endpoints...)
}

// NewCatalog validates defs and indexes them by name.
func NewCatalog(defs ...Definition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, errors.New("endpoints file contains no endpoints entries")
	}

	c := &Catalog{
		endpoints: make([]Definition, 0, len(defs)),
		idx:       make(map[string]Definition, len(defs)),
	}
	for i := range defs {
		d := sanitizeDefinition(defs[i])
		if err := validateDefinition(d); err != nil {
			return nil, fmt.Errorf("endpoint[%d]: %w", i, err)
		}
		if _, exists := c.idx[d.Name]; exists {
			return nil, fmt.Errorf("duplicate endpoint name %q", d.Name)
		}
		c.endpoints = append(c.endpoints, d)
		c.idx[d.Name] = d
	}
	return c, nil
}

// All returns a copy of the loaded definitions in file order.
func (c *Catalog) All() []Definition {
	if c == nil {
		return nil
	}
	out := make([]Definition, len(c.endpoints))
	copy(out, c.endpoints)
	return out
}

// ByName returns the definition registered under name.
func (c *Catalog) ByName(name string) (Definition, bool) {
	name = strings.TrimSpace(name)
	if c == nil || name == "" {
		return Definition{}, false
	}
	d, ok := c.idx[name]
	return d, ok
}

// Names returns the sorted endpoint names.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.idx))
	for name := range c.idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseCatalog(data []byte, ext string) (catalogFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		cf, err := unmarshalCatalog(d.name, data, d.fn)
		if err == nil {
			return cf, nil
		}
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return catalogFile{}, errors.Join(errs...)
	}
	return catalogFile{}, errors.New("endpoints file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalCatalog(name string, data []byte, fn unmarshalFn) (catalogFile, error) {
	var cf catalogFile
	if err := fn(data, &cf); err != nil {
		return catalogFile{}, fmt.Errorf("decode %s endpoints: %w", name, err)
	}
	return cf, nil
}

func sanitizeDefinition(d Definition) Definition {
	d.Name = strings.TrimSpace(d.Name)
	d.URLScheme = Scheme(strings.ToLower(strings.TrimSpace(string(d.URLScheme))))
	if d.URLScheme == "" {
		d.URLScheme = SchemeHTTPS
	}
	if d.URLHost != nil {
		h := strings.TrimSpace(*d.URLHost)
		d.URLHost = &h
	}
	d.Method = strings.ToUpper(strings.TrimSpace(d.Method))
	return d
}

func validateDefinition(d Definition) error {
	if d.Name == "" {
		return errors.New("name is required")
	}
	if !d.URLScheme.Valid() {
		return fmt.Errorf("unsupported scheme %q for endpoint %q", d.URLScheme, d.Name)
	}
	if d.Method != "" && !validMethod(d.Method) {
		return fmt.Errorf("invalid method %q for endpoint %q", d.Method, d.Name)
	}
	for i, q := range d.Query {
		if strings.TrimSpace(q.Name) == "" {
			return fmt.Errorf("query[%d] name is required for endpoint %q", i, d.Name)
		}
	}
	return nil
}
