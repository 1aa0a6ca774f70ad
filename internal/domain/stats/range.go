package stats

import "math"

// rangeEpsilon below which an observed spread counts as "no spread".
const rangeEpsilon = 1e-9

// Range is the running [min, max] of observed deviation values for one stat.
// It only ever widens; it is reset only when a world is reloaded.
type Range struct {
	Lo, Hi float64
	seen   bool
}

// Observe widens the range to include d.
func (r *Range) Observe(d float64) {
	if !r.seen {
		r.Lo, r.Hi = d, d
		r.seen = true
		return
	}
	if d < r.Lo {
		r.Lo = d
	}
	if d > r.Hi {
		r.Hi = d
	}
}

// Normalize maps a deviation into a bounded score contribution using the
// observed spread:
//
//	no spread            -> 0
//	all observed >= 0    -> (d-lo)/(hi-lo) in [0,1]
//	all observed <= 0    -> -1 + (d-lo)/(hi-lo) in [-1,0]
//	spread straddles 0   -> -1 + 2(d-lo)/(hi-lo) in [-1,1]
//
// Because the range depends on observation history, normalized scores are
// comparable only within a single history.
func (r *Range) Normalize(d float64) float64 {
	if !r.seen || math.Abs(r.Hi-r.Lo) < rangeEpsilon {
		return 0
	}
	frac := (d - r.Lo) / (r.Hi - r.Lo)
	switch {
	case r.Lo >= 0:
		return frac
	case r.Hi <= 0:
		return -1 + frac
	default:
		return -1 + 2*frac
	}
}

// RangeTable holds the process-wide observed ranges, one per stat. Shared
// across all maps: a parallel reimplementation must serialize access to it.
type RangeTable struct {
	ranges map[StatID]*Range
}

// NewRangeTable creates an empty table.
func NewRangeTable() *RangeTable {
	return &RangeTable{ranges: make(map[StatID]*Range)}
}

// Observe widens the stat's range to include d and returns the range.
func (t *RangeTable) Observe(id StatID, d float64) *Range {
	r, ok := t.ranges[id]
	if !ok {
		r = &Range{}
		t.ranges[id] = r
	}
	r.Observe(d)
	return r
}

// Normalize observes d, then normalizes it against the widened range.
func (t *RangeTable) Normalize(id StatID, d float64) float64 {
	return t.Observe(id, d).Normalize(d)
}

// Get returns the observed range for a stat, if any deviation was ever seen.
func (t *RangeTable) Get(id StatID) (*Range, bool) {
	r, ok := t.ranges[id]
	return r, ok
}

// Restore reinstates a persisted range, used when loading a world.
func (t *RangeTable) Restore(id StatID, lo, hi float64) {
	t.ranges[id] = &Range{Lo: lo, Hi: hi, seen: true}
}

// All returns the table contents for persistence.
func (t *RangeTable) All() map[StatID]Range {
	out := make(map[StatID]Range, len(t.ranges))
	for id, r := range t.ranges {
		out[id] = *r
	}
	return out
}
