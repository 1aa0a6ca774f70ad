package stats

import "context"

// RangeRecord is one persisted deviation range.
type RangeRecord struct {
	Stat StatID
	Lo   float64
	Hi   float64
}

// RangeRepository persists the observed deviation ranges so normalization
// stays stable across sessions.
type RangeRepository interface {
	// SaveAll replaces the persisted snapshot with the given records.
	SaveAll(ctx context.Context, records []RangeRecord) error

	// FindAll loads the persisted snapshot.
	FindAll(ctx context.Context) ([]RangeRecord, error)
}
