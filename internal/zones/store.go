package zones

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/1broseidon/snapzone/internal/platform"
)

// StoreFileName is the default file name under the config directory.
const StoreFileName = "zone_layouts.json"

// FormatError reports a store file that exists but cannot be decoded.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("zone layouts %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

type storeFile struct {
	Layouts        []Layout `json:"layouts"`
	ActiveLayoutID *string  `json:"active_layout_id,omitempty"`
}

// Store persists zone layouts in a single JSON file. Every call re-reads
// the file so edits made by other processes are picked up.
type Store struct {
	path string
	mu   sync.Mutex
}

// DefaultPath returns ~/.config/snapzone/zone_layouts.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "snapzone", StoreFileName), nil
}

// NewStore returns a store backed by path. The file is created on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

func (s *Store) read() (storeFile, error) {
	var f storeFile
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("failed to read zone layouts: %w", err)
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, &FormatError{Path: s.path, Err: err}
	}
	return f, nil
}

func (s *Store) write(f storeFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create zone layout directory: %w", err)
	}
	if f.Layouts == nil {
		f.Layouts = []Layout{}
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode zone layouts: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write zone layouts: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace zone layouts: %w", err)
	}
	return nil
}

// List returns every stored layout in file order.
func (s *Store) List() ([]Layout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return nil, err
	}
	return f.Layouts, nil
}

// Layout looks up a layout by id.
func (s *Store) Layout(id string) (*Layout, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return nil, false, err
	}
	for i := range f.Layouts {
		if f.Layouts[i].ID == id {
			l := f.Layouts[i]
			return &l, true, nil
		}
	}
	return nil, false, nil
}

// Save inserts the layout or replaces the one with the same id.
func (s *Store) Save(l Layout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return err
	}
	replaced := false
	for i := range f.Layouts {
		if f.Layouts[i].ID == l.ID {
			f.Layouts[i] = l
			replaced = true
			break
		}
	}
	if !replaced {
		f.Layouts = append(f.Layouts, l)
	}
	return s.write(f)
}

// Delete removes a layout. Deleting the active layout clears the active id.
// Unknown ids are not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return err
	}
	kept := f.Layouts[:0]
	for _, l := range f.Layouts {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	f.Layouts = kept
	if f.ActiveLayoutID != nil && *f.ActiveLayoutID == id {
		f.ActiveLayoutID = nil
	}
	return s.write(f)
}

// ActiveLayoutID returns the active layout id, if one is set.
func (s *Store) ActiveLayoutID() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return "", false, err
	}
	if f.ActiveLayoutID == nil || *f.ActiveLayoutID == "" {
		return "", false, nil
	}
	return *f.ActiveLayoutID, true, nil
}

// SetActive marks an existing layout as active.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return err
	}
	found := false
	for _, l := range f.Layouts {
		if l.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("zone layout %q: %w", id, platform.ErrNotFound)
	}
	f.ActiveLayoutID = &id
	return s.write(f)
}

// ClearActive unsets the active layout.
func (s *Store) ClearActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return err
	}
	f.ActiveLayoutID = nil
	return s.write(f)
}

// Active resolves the active layout. It returns nil without error when no
// layout is active or the active id points at a deleted layout.
func (s *Store) Active() (*Layout, error) {
	id, ok, err := s.ActiveLayoutID()
	if err != nil || !ok {
		return nil, err
	}
	l, found, err := s.Layout(id)
	if err != nil || !found {
		return nil, err
	}
	return l, nil
}
