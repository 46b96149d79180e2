// Package store persists canvas node sets.
//
// This is the external persistence collaborator of the projection core:
// the core itself performs no fetching and no writes, it only projects the
// node snapshot a store hands it. Backends:
//   - memory: in-process storage for development and tests
//   - file: JSON files in a directory for CLI use
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage
//
// Only node collections are stored. Geometry and timelines are never
// persisted - they are recomputed from the stored nodes on every read.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/storyreel/reelgraph/pkg/canvas"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a canvas does not exist.
	ErrNotFound = errors.New("canvas not found")

	// ErrInvalidID is returned when a canvas id is empty.
	ErrInvalidID = errors.New("canvas id must not be empty")
)

// Store persists canvas documents keyed by canvas id.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the canvas with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (canvas.Document, error)
	// Put creates or replaces the canvas.
	Put(ctx context.Context, doc canvas.Document) error
	// Delete removes the canvas. Deleting a missing canvas is not an error.
	Delete(ctx context.Context, id string) error
	// List returns summaries of all stored canvases, sorted by id.
	List(ctx context.Context) ([]Info, error)
	// Close releases any backend resources.
	Close() error
}

// Info is a listing summary for one stored canvas.
type Info struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	NodeCount int    `json:"node_count"`
}

func infoOf(d canvas.Document) Info {
	return Info{ID: d.ID, Name: d.Name, NodeCount: len(d.Nodes)}
}

// MemoryStore is an in-process store for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]canvas.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]canvas.Document)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (canvas.Document, error) {
	if id == "" {
		return canvas.Document{}, ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return canvas.Document{}, ErrNotFound
	}
	return doc, nil
}

func (s *MemoryStore) Put(ctx context.Context, doc canvas.Document) error {
	if doc.ID == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc.Normalize()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]Info, 0, len(s.docs))
	for _, doc := range s.docs {
		infos = append(infos, infoOf(doc))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
