package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a collection item does not exist.
var ErrNotFound = errors.New("item not found")

// Store persists entity collections as one JSON file per entity type with
// the shape {"items": [...]}. Every mutation rewrites the whole file.
// Read-modify-write sequences are serialized per file so concurrent writers
// cannot silently drop each other's changes.
type Store struct {
	dir     string
	observe func(collection, operation string, elapsed time.Duration)

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore ensures the data directory exists and returns a store handle.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "./data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir exposes the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// SetObserver installs a hook timing collection reads and writes. Must be
// called before the store starts serving requests.
func (s *Store) SetObserver(fn func(collection, operation string, elapsed time.Duration)) {
	s.observe = fn
}

func (s *Store) observed(filename, operation string, start time.Time) {
	if s.observe != nil {
		s.observe(strings.TrimSuffix(filename, ".json"), operation, time.Since(start))
	}
}

func (s *Store) fileLock(filename string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[filename]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[filename] = lock
	}
	return lock
}

type envelope struct {
	Items json.RawMessage `json:"items"`
}

// read unmarshals the items array of a collection file into out. A missing
// file reads as an empty collection.
func (s *Store) read(filename string, out any) error {
	defer s.observed(filename, "read", time.Now())
	raw, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode %s: %w", filename, err)
	}
	if len(env.Items) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Items, out); err != nil {
		return fmt.Errorf("decode %s items: %w", filename, err)
	}
	return nil
}

// write rewrites the full collection file.
func (s *Store) write(filename string, items any) error {
	defer s.observed(filename, "write", time.Now())
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"items": items}); err != nil {
		return fmt.Errorf("encode %s: %w", filename, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, filename), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

// collection adapts the store to one typed entity file.
type collection[T any] struct {
	store *Store
	file  string
	idOf  func(*T) string
}

func newCollection[T any](store *Store, file string, idOf func(*T) string) collection[T] {
	return collection[T]{store: store, file: file, idOf: idOf}
}

// List returns a snapshot of every item in the collection.
func (c collection[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lock := c.store.fileLock(c.file)
	lock.Lock()
	defer lock.Unlock()
	var items []T
	if err := c.store.read(c.file, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID returns the item with the given id or ErrNotFound.
func (c collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if c.idOf(&items[i]) == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

// Mutate runs fn against the latest collection snapshot and persists its
// result, all under the collection's file lock. fn re-validating against the
// snapshot it receives is therefore race-free with respect to other writers
// on the same store.
func (c collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock := c.store.fileLock(c.file)
	lock.Lock()
	defer lock.Unlock()
	var items []T
	if err := c.store.read(c.file, &items); err != nil {
		return err
	}
	updated, err := fn(items)
	if err != nil {
		return err
	}
	return c.store.write(c.file, updated)
}

// Insert appends a new item, failing on duplicate id.
func (c collection[T]) Insert(ctx context.Context, item T) error {
	id := c.idOf(&item)
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if c.idOf(&items[i]) == id {
				return nil, fmt.Errorf("duplicate id %s", id)
			}
		}
		return append(items, item), nil
	})
}

// Update replaces the item with the same id, failing when absent.
func (c collection[T]) Update(ctx context.Context, item T) error {
	id := c.idOf(&item)
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if c.idOf(&items[i]) == id {
				items[i] = item
				return items, nil
			}
		}
		return nil, ErrNotFound
	})
}

// Delete removes the item with the given id, failing when absent.
func (c collection[T]) Delete(ctx context.Context, id string) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if c.idOf(&items[i]) == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
}

// NextNumericID returns the next zero-padded sequential id ("001", "002", …)
// for collections keyed by plain numeric strings.
func NextNumericID(ids []string) string {
	highest := 0
	for _, raw := range ids {
		n := 0
		valid := raw != ""
		for _, r := range raw {
			if r < '0' || r > '9' {
				valid = false
				break
			}
			n = n*10 + int(r-'0')
		}
		if valid && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%03d", highest+1)
}
