package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/moby/sys/atomicwriter"
	"github.com/sirupsen/logrus"
)

// DefaultPath is the state file used when none is configured.
const DefaultPath = ".metronome_config.json"

// Store reads and writes the idempotency record.
type Store interface {
	// Load returns the current record, or an empty one if nothing usable is stored.
	Load() Record
	// Save replaces the stored record.
	Save(rec Record) error
	// Get returns a single id field.
	Get(key string) (string, bool)
	// Set writes a single id field and saves.
	Set(key, value string) error
	// Update loads, applies fn and saves.
	Update(fn func(rec *Record)) error
}

// ReadFile reads the record at path. A missing file is an empty record, not an error.
func ReadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		return Record{}, nil
	}
	return Decode(data)
}

// Load reads the record at path and falls back to an empty record on any error.
func Load(path string) Record {
	rec, err := ReadFile(path)
	if err != nil {
		return Record{}
	}
	return rec
}

// Save writes rec to path atomically, creating the parent directory if needed.
func Save(path string, rec Record) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	if err := atomicwriter.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// FileStore implements Store on top of a single JSON file.
type FileStore struct {
	path   string
	logger logrus.FieldLogger
}

// NewFileStore creates a store backed by path. The file is created on first save.
func NewFileStore(path string, logger logrus.FieldLogger) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store.Load. Corrupt files are logged and treated as empty.
func (s *FileStore) Load() Record {
	rec, err := ReadFile(s.path)
	if err != nil {
		s.logger.WithError(err).WithField("path", s.path).Warn("Ignoring unusable state file")
		return Record{}
	}
	return rec
}

// Save implements Store.Save.
func (s *FileStore) Save(rec Record) error {
	if err := Save(s.path, rec); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Error("Failed to save state file")
		return err
	}
	return nil
}

// Get implements Store.Get.
func (s *FileStore) Get(key string) (string, bool) {
	return s.Load().Get(key)
}

// Set implements Store.Set.
func (s *FileStore) Set(key, value string) error {
	rec := s.Load()
	if err := rec.Set(key, value); err != nil {
		return err
	}
	return s.Save(rec)
}

// Update implements Store.Update.
func (s *FileStore) Update(fn func(rec *Record)) error {
	rec := s.Load()
	fn(&rec)
	return s.Save(rec)
}

// MemoryStore is an in-process Store, used by tests and dry runs.
type MemoryStore struct {
	mu    sync.Mutex
	rec   Record
	saves int
}

// NewMemoryStore creates a store seeded with rec.
func NewMemoryStore(rec Record) *MemoryStore {
	return &MemoryStore{rec: rec.Clone()}
}

// Load implements Store.Load.
func (m *MemoryStore) Load() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec.Clone()
}

// Save implements Store.Save.
func (m *MemoryStore) Save(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec.Clone()
	m.saves++
	return nil
}

// Get implements Store.Get.
func (m *MemoryStore) Get(key string) (string, bool) {
	return m.Load().Get(key)
}

// Set implements Store.Set.
func (m *MemoryStore) Set(key, value string) error {
	rec := m.Load()
	if err := rec.Set(key, value); err != nil {
		return err
	}
	return m.Save(rec)
}

// Update implements Store.Update.
func (m *MemoryStore) Update(fn func(rec *Record)) error {
	rec := m.Load()
	fn(&rec)
	return m.Save(rec)
}

// Saves returns how many times the record was saved.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Reset drops everything, like deleting the state file.
func (m *MemoryStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = Record{}
}
