package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

func TestRangeNormalizeUnseen(t *testing.T) {
	var r stats.Range

	assert.Equal(t, 0.0, r.Normalize(5.0))
}

func TestRangeNormalizeNoSpread(t *testing.T) {
	var r stats.Range
	r.Observe(3.0)
	r.Observe(3.0)

	// A single observed point has no spread to normalize against.
	assert.Equal(t, 0.0, r.Normalize(3.0))
}

func TestRangeNormalizePositiveSpread(t *testing.T) {
	var r stats.Range
	r.Observe(2.0)
	r.Observe(10.0)

	assert.InDelta(t, 0.0, r.Normalize(2.0), 1e-12)
	assert.InDelta(t, 1.0, r.Normalize(10.0), 1e-12)
	assert.InDelta(t, 0.5, r.Normalize(6.0), 1e-12)
}

func TestRangeNormalizeNegativeSpread(t *testing.T) {
	var r stats.Range
	r.Observe(-8.0)
	r.Observe(-2.0)

	assert.InDelta(t, -1.0, r.Normalize(-8.0), 1e-12)
	assert.InDelta(t, 0.0, r.Normalize(-2.0), 1e-12)
	assert.InDelta(t, -0.5, r.Normalize(-5.0), 1e-12)
}

func TestRangeNormalizeStraddlingSpread(t *testing.T) {
	var r stats.Range
	r.Observe(-4.0)
	r.Observe(4.0)

	assert.InDelta(t, -1.0, r.Normalize(-4.0), 1e-12)
	assert.InDelta(t, 1.0, r.Normalize(4.0), 1e-12)
	assert.InDelta(t, 0.0, r.Normalize(0.0), 1e-12)
}

func TestRangeObserveOnlyWidens(t *testing.T) {
	var r stats.Range
	r.Observe(5.0)
	r.Observe(1.0)
	r.Observe(3.0)

	assert.Equal(t, 1.0, r.Lo)
	assert.Equal(t, 5.0, r.Hi)

	r.Observe(2.0)
	assert.Equal(t, 1.0, r.Lo)
	assert.Equal(t, 5.0, r.Hi)
}

func TestRangeTableNormalizeObservesFirst(t *testing.T) {
	table := stats.NewRangeTable()

	// The first value defines a degenerate range, so it normalizes to 0.
	assert.Equal(t, 0.0, table.Normalize("Mass", 2.0))

	// Widening the range makes earlier values comparable.
	table.Normalize("Mass", 6.0)
	assert.InDelta(t, 0.0, table.Normalize("Mass", 2.0), 1e-12)
	assert.InDelta(t, 1.0, table.Normalize("Mass", 6.0), 1e-12)
}

func TestRangeTableKeepsStatsIndependent(t *testing.T) {
	table := stats.NewRangeTable()
	table.Observe("Mass", 1.0)
	table.Observe("Mass", 3.0)
	table.Observe("WorkSpeedGlobal", -2.0)

	mass, ok := table.Get("Mass")
	require.True(t, ok)
	assert.Equal(t, 1.0, mass.Lo)
	assert.Equal(t, 3.0, mass.Hi)

	_, ok = table.Get("ConstructionSpeed")
	assert.False(t, ok)
}

func TestRangeTableRestoreRoundTrip(t *testing.T) {
	table := stats.NewRangeTable()
	table.Observe("Mass", -1.5)
	table.Observe("Mass", 2.5)
	table.Observe("MiningSpeed", 0.25)

	snapshot := table.All()
	require.Len(t, snapshot, 2)

	restored := stats.NewRangeTable()
	for id, r := range snapshot {
		restored.Restore(id, r.Lo, r.Hi)
	}

	// The restored range behaves as seen: straddling spread maps into [-1,1].
	assert.InDelta(t, 1.0, restored.Normalize("Mass", 2.5), 1e-12)
	assert.InDelta(t, -1.0, restored.Normalize("Mass", -1.5), 1e-12)
}
