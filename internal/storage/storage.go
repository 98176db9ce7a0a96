package storage

import (
	"fmt"
	"strings"
	"time"
)

// Entry describes one completed endpoint call.
type Entry struct {
	Endpoint   string    `json:"endpoint"`
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	Bytes      int       `json:"bytes"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// Store keeps a bounded-lifetime log of endpoint calls.
type Store interface {
	Close() error
	Record(e Entry) error
	Recent(limit int) ([]Entry, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                { return nil }
func (noopStore) Record(Entry) error          { return nil }
func (noopStore) Recent(int) ([]Entry, error) { return nil, nil }
