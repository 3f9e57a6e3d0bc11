package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/flowdoc/pkg/errors"
)

// FileStore is a file-based store for CLI use. Each record is a JSON file
// under <dir>/documents and each history a JSON array under <dir>/history.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates the store directories under baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "store directory cannot be empty")
	}
	for _, sub := range []string{"documents", "history"} {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o700); err != nil {
			return nil, storageErr(err, "create store dir")
		}
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the base directory.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, "documents", id+".json")
}

func (s *FileStore) historyPath(id string) string {
	return filepath.Join(s.baseDir, "history", id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	if errors.ValidateDocumentID(id) != nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileStore) read(id string) (*Record, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, storageErr(err, "read document %s", id)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, storageErr(err, "parse document %s", id)
	}
	return &rec, nil
}

func (s *FileStore) Put(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *Record
	if rec != nil && errors.ValidateDocumentID(rec.ID) == nil {
		var err error
		if prev, err = s.read(rec.ID); err != nil {
			return err
		}
	}
	if err := prepare(rec, prev); err != nil {
		return err
	}
	return writeJSON(s.recordPath(rec.ID), rec)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if errors.ValidateDocumentID(id) != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range []string{s.recordPath(id), s.historyPath(id)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return storageErr(err, "remove %s", path)
		}
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.baseDir, "documents"))
	if err != nil {
		return nil, storageErr(err, "read store dir")
	}
	recs := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		rec, err := s.read(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		if rec != nil {
			recs = append(recs, rec)
		}
	}
	sortRecords(recs)
	return recs, nil
}

func (s *FileStore) AddSnapshot(ctx context.Context, id, code string) (bool, error) {
	if err := errors.ValidateDocumentID(id); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.readHistory(id)
	if err != nil {
		return false, err
	}
	history, added := appendSnapshot(history, id, code)
	if !added {
		return false, nil
	}
	return true, writeJSON(s.historyPath(id), history)
}

func (s *FileStore) Snapshots(ctx context.Context, id string) ([]Snapshot, error) {
	if errors.ValidateDocumentID(id) != nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readHistory(id)
}

func (s *FileStore) readHistory(id string) ([]Snapshot, error) {
	data, err := os.ReadFile(s.historyPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, storageErr(err, "read history %s", id)
	}
	var history []Snapshot
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, storageErr(err, "parse history %s", id)
	}
	return history, nil
}

func (s *FileStore) ClearHistory(ctx context.Context, id string) error {
	if errors.ValidateDocumentID(id) != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.historyPath(id)); err != nil && !os.IsNotExist(err) {
		return storageErr(err, "remove history %s", id)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// writeJSON replaces path atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return storageErr(err, "marshal %s", filepath.Base(path))
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return storageErr(err, "write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return storageErr(err, "write %s", path)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
