package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in memory. Records are copied on the way in
// and out so callers cannot alias stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	history map[string][]Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		history: make(map[string][]Snapshot),
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	rec.Document = rec.Document.Clone()
	return &rec, nil
}

func (s *MemoryStore) Put(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev *Record
	if rec != nil {
		if old, ok := s.records[rec.ID]; ok {
			prev = &old
		}
	}
	if err := prepare(rec, prev); err != nil {
		return err
	}
	stored := *rec
	stored.Document = rec.Document.Clone()
	s.records[rec.ID] = stored
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	delete(s.history, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		rec.Document = rec.Document.Clone()
		recs = append(recs, &rec)
	}
	sortRecords(recs)
	return recs, nil
}

func (s *MemoryStore) AddSnapshot(ctx context.Context, id, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, added := appendSnapshot(s.history[id], id, code)
	s.history[id] = history
	return added, nil
}

func (s *MemoryStore) Snapshots(ctx context.Context, id string) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.history[id]), nil
}

func (s *MemoryStore) ClearHistory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.history, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
