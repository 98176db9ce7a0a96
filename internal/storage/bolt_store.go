package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	historyBucket = "history"
	keyBytes      = 8
)

// boltStore implements a Store backed by BoltDB. Keys are big-endian
// nanosecond timestamps so cursor order is chronological.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	entryTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

type storedEntry struct {
	Entry
	ExpiresAt int64 `json:"expires_at"`
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		entryTTL:        opts.EntryTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Record appends e to the history.
func (b *boltStore) Record(e Entry) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}
	if e.At.IsZero() {
		e.At = now
	}

	val, err := json.Marshal(storedEntry{Entry: e, ExpiresAt: e.At.Add(b.entryTTL).Unix()})
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket missing")
		}
		ts := uint64(e.At.UnixNano())
		key := encodeKey(ts)
		for bucket.Get(key) != nil {
			ts++
			key = encodeKey(ts)
		}
		return bucket.Put(key, val)
	})
}

// Recent returns up to limit unexpired entries, newest first. A non-positive
// limit returns everything.
func (b *boltStore) Recent(limit int) ([]Entry, error) {
	if b == nil || b.db == nil {
		return nil, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, err
	}

	var out []Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			se, ok := decodeEntry(v)
			if !ok || se.ExpiresAt <= now.Unix() {
				continue
			}
			out = append(out, se.Entry)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// maybeCleanupExpired removes expired entries on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("history bucket missing")
		}

		var expired [][]byte
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			se, ok := decodeEntry(v)
			if !ok || se.ExpiresAt <= now.Unix() {
				expired = append(expired, append([]byte(nil), k...))
			}
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeKey(ts uint64) []byte {
	buf := make([]byte, keyBytes)
	binary.BigEndian.PutUint64(buf, ts)
	return buf
}

func decodeEntry(value []byte) (storedEntry, bool) {
	var se storedEntry
	if err := json.Unmarshal(value, &se); err != nil {
		return storedEntry{}, false
	}
	return se, true
}
