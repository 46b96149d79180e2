package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/storyreel/reelgraph/pkg/canvas"
)

// FileStore keeps each canvas as a JSON file in a directory.
// Intended for CLI use; the directory defaults to
// ~/.config/reelgraph/canvases/.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store rooted at baseDir.
// An empty baseDir selects the default config location.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "reelgraph", "canvases")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create canvas dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (canvas.Document, error) {
	if id == "" {
		return canvas.Document{}, ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return canvas.Document{}, ErrNotFound
		}
		return canvas.Document{}, fmt.Errorf("read canvas file: %w", err)
	}
	return canvas.Unmarshal(data)
}

func (s *FileStore) Put(ctx context.Context, doc canvas.Document) error {
	if doc.ID == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := canvas.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal canvas: %w", err)
	}
	if err := os.WriteFile(s.path(doc.ID), data, 0600); err != nil {
		return fmt.Errorf("write canvas file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove canvas file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read canvas dir: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		doc, err := canvas.Unmarshal(data)
		if err != nil {
			continue
		}
		if doc.ID == "" {
			doc.ID = strings.TrimSuffix(entry.Name(), ".json")
		}
		infos = append(infos, infoOf(doc))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
