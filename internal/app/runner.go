package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/netlayer/internal/config"
	"github.com/samvad-hq/netlayer/internal/logger"
	"github.com/samvad-hq/netlayer/internal/storage"
	"github.com/samvad-hq/netlayer/pkg/endpoint"
	"github.com/samvad-hq/netlayer/pkg/httpclient"
	"github.com/samvad-hq/netlayer/pkg/network"
)

// Decode formats accepted by Fetch.
const (
	FormatRaw  = ""
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Runner wires the endpoint catalog, the network layer and the history store
// behind the CLI commands.
type Runner struct {
	cfg     *config.Config
	catalog *endpoint.Catalog
	layers  map[string]*network.Layer
	store   storage.Store
	log     logger.Logger
}

// Listing is one catalog row.
type Listing struct {
	Name   string
	Method string
	URL    string
}

// Output is the printable outcome of a fetch.
type Output struct {
	Body       []byte
	StatusCode int
}

// NewRunner builds a runner from config. A nil client selects resty with the
// configured timeout.
func NewRunner(cfg *config.Config, log logger.Logger, client httpclient.Client) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if client == nil {
		client = httpclient.NewRestyClient(cfg.RequestTimeout)
	}

	catalog, err := endpoint.LoadCatalog(cfg.EndpointsFile)
	if err != nil {
		return nil, fmt.Errorf("load endpoints catalog: %w", err)
	}
	log.InfoObj("endpoints catalog loaded", "endpoints_meta", map[string]any{
		"count": len(catalog.All()),
		"names": catalog.Names(),
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.HistoryTTL,
		CleanupInterval: cfg.HistoryCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"history_ttl_seconds":      int(cfg.HistoryTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.HistoryCleanupInterval.Seconds()),
	})

	base := []network.Option{network.WithClient(client), network.WithLogger(log)}
	if ua := strings.TrimSpace(cfg.UserAgent); ua != "" {
		base = append(base, network.WithHeaders(map[string]string{"User-Agent": ua}))
	}
	newLayer := func(d network.Decoder) *network.Layer {
		return network.New(append([]network.Option{network.WithDecoder(d)}, base...)...)
	}
	layers := map[string]*network.Layer{
		FormatJSON: newLayer(network.JSONDecoder{}),
		FormatYAML: newLayer(network.YAMLDecoder{}),
	}
	layers[FormatRaw] = layers[FormatJSON]

	return &Runner{
		cfg:     cfg,
		catalog: catalog,
		layers:  layers,
		store:   store,
		log:     log,
	}, nil
}

// List returns every catalog endpoint with its derived URL.
func (r *Runner) List() []Listing {
	defs := r.catalog.All()
	out := make([]Listing, 0, len(defs))
	for _, d := range defs {
		l := Listing{Name: d.Name, Method: d.Method, URL: "<invalid>"}
		if l.Method == "" {
			l.Method = "GET"
		}
		if u := endpoint.URL(d); u != nil {
			l.URL = u.String()
		}
		out = append(out, l)
	}
	return out
}

// Fetch calls the named endpoint. With a non-raw format the body is decoded
// and re-encoded as indented JSON.
func (r *Runner) Fetch(ctx context.Context, name, format string) (Output, error) {
	def, ok := r.catalog.ByName(name)
	if !ok {
		return Output{}, fmt.Errorf("unknown endpoint %q", name)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	layer, ok := r.layers[format]
	if !ok {
		return Output{}, fmt.Errorf("unsupported decode format %q", format)
	}

	out, err := r.fetch(ctx, layer, def, format)

	entry := storage.Entry{Endpoint: def.Name, StatusCode: out.StatusCode, Bytes: len(out.Body), At: time.Now().UTC()}
	if u := endpoint.URL(def); u != nil {
		entry.URL = u.String()
	}
	if err != nil {
		entry.Error = err.Error()
		if code, ok := network.StatusCode(err); ok {
			entry.StatusCode = code
		}
	}
	if recErr := r.store.Record(entry); recErr != nil {
		r.log.WarnObj("history record failed", "error", recErr.Error())
	}

	if err != nil {
		return Output{}, fmt.Errorf("fetch %s: %w", def.Name, err)
	}
	r.log.InfoObj("endpoint fetched", "fetch_result", map[string]any{
		"endpoint":    def.Name,
		"status_code": out.StatusCode,
		"bytes":       len(out.Body),
	})
	return out, nil
}

func (r *Runner) fetch(ctx context.Context, layer *network.Layer, def endpoint.Definition, format string) (Output, error) {
	if format == FormatRaw {
		res, err := layer.Data(ctx, def)
		if err != nil {
			return Output{}, err
		}
		return Output{Body: res.Body, StatusCode: res.StatusCode}, nil
	}

	var v any
	code, err := layer.DecodeInto(ctx, def, &v)
	if err != nil {
		return Output{}, err
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return Output{}, fmt.Errorf("encode decoded body: %w", err)
	}
	return Output{Body: pretty, StatusCode: code}, nil
}

// History returns recent calls, newest first.
func (r *Runner) History(limit int) ([]storage.Entry, error) {
	return r.store.Recent(limit)
}

// Close releases the history store.
func (r *Runner) Close() {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err)
	}
}
