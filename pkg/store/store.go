// Package store persists flowchart documents and their edit history.
//
// A [Record] is a saved document: its source text, the parsed model and some
// presentation metadata. Each record has an ordered history of [Snapshot]s
// holding earlier source text. History is bounded to [MaxSnapshots] entries
// per document; the oldest are dropped first and a snapshot identical to the
// most recent one is skipped.
//
// Backends:
//   - [MemoryStore]: process-local, for tests and ephemeral servers
//   - [FileStore]: JSON files under a directory, for the CLI
//   - [RedisStore]: shared storage for multi-instance servers
//   - [MongoStore]: durable storage with server-side sorting
//
// [New] selects a backend from configuration.
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/errors"
)

// MaxSnapshots bounds the history kept per document.
const MaxSnapshots = 50

// Record is a stored document.
type Record struct {
	ID        string           `json:"id" bson:"_id"`
	Title     string           `json:"title" bson:"title"`
	Theme     string           `json:"theme,omitempty" bson:"theme,omitempty"`
	Code      string           `json:"code" bson:"code"`
	Document  diagram.Document `json:"doc" bson:"doc"`
	CreatedAt time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// Snapshot is one entry in a document's history.
type Snapshot struct {
	DocumentID string    `json:"documentId" bson:"documentId"`
	Code       string    `json:"code" bson:"code"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Get returns the record with the given id.
	// Returns nil, nil if it doesn't exist.
	Get(ctx context.Context, id string) (*Record, error)

	// Put creates or replaces a record. UpdatedAt is set to the current
	// time; CreatedAt is kept from an existing record or set on creation.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record and its history. Deleting a missing record
	// is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all records, most recently updated first.
	List(ctx context.Context) ([]*Record, error)

	// AddSnapshot appends code to the history of id and reports whether it
	// was stored. A snapshot equal to the most recent one is skipped.
	AddSnapshot(ctx context.Context, id, code string) (bool, error)

	// Snapshots returns the history of id, oldest first.
	Snapshots(ctx context.Context, id string) ([]Snapshot, error)

	// ClearHistory removes every snapshot of id.
	ClearHistory(ctx context.Context, id string) error

	Close() error
}

// NewID returns a fresh document id.
func NewID() string {
	return uuid.NewString()
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// prepare validates rec and stamps its timestamps. prev is the stored
// record being replaced, if any.
func prepare(rec *Record, prev *Record) error {
	if rec == nil {
		return errors.New(errors.ErrCodeInvalidInput, "record cannot be nil")
	}
	if err := errors.ValidateDocumentID(rec.ID); err != nil {
		return err
	}
	if err := errors.ValidateTitle(rec.Title); err != nil {
		return err
	}
	t := now()
	switch {
	case prev != nil:
		rec.CreatedAt = prev.CreatedAt
	case rec.CreatedAt.IsZero():
		rec.CreatedAt = t
	}
	rec.UpdatedAt = t
	return nil
}

// appendSnapshot applies the dedup and cap rules to history.
func appendSnapshot(history []Snapshot, id, code string) ([]Snapshot, bool) {
	if n := len(history); n > 0 && history[n-1].Code == code {
		return history, false
	}
	history = append(history, Snapshot{DocumentID: id, Code: code, Timestamp: now()})
	if over := len(history) - MaxSnapshots; over > 0 {
		history = slices.Delete(history, 0, over)
	}
	return history, true
}

// sortRecords orders records newest first, breaking ties by id.
func sortRecords(recs []*Record) {
	slices.SortStableFunc(recs, func(a, b *Record) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func storageErr(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeStorage, err, format, args...)
}
