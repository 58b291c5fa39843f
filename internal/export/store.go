package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"
)

var uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ErrNotFound marks a missing export; the API maps it to 404.
var ErrNotFound = errors.New("export not found")

// ErrInvalidID marks an id that is not a lowercase uuid.
var ErrInvalidID = errors.New("invalid export id")

// Export formats.
const (
	FormatHTML = "html"
	FormatPNG  = "png"
)

// Meta describes one stored export.
type Meta struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Symbol    string    `json:"symbol"`
	Frame     int       `json:"frame"`
	Total     int       `json:"total"`
	Format    string    `json:"format"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps export artifacts on disk: the artifact file named
// <id>.<format> with a <id>.json metadata sidecar.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore creates a Store and ensures the directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export store: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// IDs come from request paths; nothing that is not a uuid touches the
// filesystem.
func (s *Store) validateID(id string) error {
	if !uuidRe.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Save writes the artifact and its metadata sidecar.
func (s *Store) Save(meta Meta, data []byte) error {
	if err := s.validateID(meta.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	artifactPath := filepath.Join(s.dir, meta.ID+"."+meta.Format)
	jsonPath := filepath.Join(s.dir, meta.ID+".json")

	if err := os.WriteFile(artifactPath, data, 0o644); err != nil {
		return fmt.Errorf("export store: write artifact: %w", err)
	}

	blob, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		_ = os.Remove(artifactPath)
		return fmt.Errorf("export store: marshal meta: %w", err)
	}
	if err := os.WriteFile(jsonPath, blob, 0o644); err != nil {
		_ = os.Remove(artifactPath)
		return fmt.Errorf("export store: write meta: %w", err)
	}
	return nil
}

// Get reads export metadata by ID.
func (s *Store) Get(id string) (Meta, error) {
	if err := s.validateID(id); err != nil {
		return Meta{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readMeta(id)
}

func (s *Store) readMeta(id string) (Meta, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return Meta{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Meta{}, fmt.Errorf("export store: read meta: %w", err)
	}

	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("export store: unmarshal meta: %w", err)
	}
	return meta, nil
}

// List returns all exports sorted by creation time (newest first).
func (s *Store) List() ([]Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("export store: glob: %w", err)
	}

	metas := make([]Meta, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var meta Meta
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas, nil
}

// ReadFile returns the artifact bytes and format.
func (s *Store) ReadFile(id string) ([]byte, string, error) {
	meta, err := s.Get(id)
	if err != nil {
		return nil, "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.dir, id+"."+meta.Format))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: artifact %s", ErrNotFound, id)
		}
		return nil, "", fmt.Errorf("export store: read artifact: %w", err)
	}
	return data, meta.Format, nil
}

// Delete removes the artifact and its sidecar.
func (s *Store) Delete(id string) error {
	meta, err := s.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = os.Remove(filepath.Join(s.dir, id+"."+meta.Format))
	_ = os.Remove(filepath.Join(s.dir, id+".json"))
	return nil
}
