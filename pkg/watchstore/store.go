package watchstore

import (
	"context"
	"errors"

	"github.com/sharktamer/gtsnotifier/pkg/watch"
)

// ErrEntryNotFound is returned when a watch entry lookup finds no matching record.
var ErrEntryNotFound = errors.New("watch entry not found")

// Store defines the interface for watch entry persistence. Each operation
// is a single transaction; concurrent operations on different profile IDs
// never contend on the same row.
type Store interface {
	CreateEntry(ctx context.Context, entry *watch.Entry) error
	DeleteEntry(ctx context.Context, profileID string) error
	EntryExists(ctx context.Context, profileID string) (bool, error)
	GetEntry(ctx context.Context, profileID string) (*watch.Entry, error)
	ListEntries(ctx context.Context) ([]*watch.Entry, error)
	// UpdateWatermark replaces the stored watermark for one entry with the
	// most recently observed completion identifier.
	UpdateWatermark(ctx context.Context, profileID, watermark string) error
}
