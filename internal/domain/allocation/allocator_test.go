package allocation_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quartermaster-go/internal/domain/allocation"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

func candidates(n int) []*allocation.Candidate {
	out := make([]*allocation.Candidate, 0, n)
	for i := 0; i < n; i++ {
		id := shared.PawnID(fmt.Sprintf("pawn-%02d", i))
		out = append(out, &allocation.Candidate{
			Pawn:         &ports.PawnSnapshot{ID: id},
			Binding:      &loadout.Binding{Pawn: id, Auto: true},
			Desirability: map[int]float64{},
		})
	}
	return out
}

func countBound(cands []*allocation.Candidate, loadoutID int) int {
	n := 0
	for _, c := range cands {
		if c.Binding.LoadoutID == loadoutID {
			n++
		}
	}
	return n
}

func TestAllocateSplitsEqualPriorities(t *testing.T) {
	cands := candidates(10)
	a := &loadout.Loadout{ID: 1, Priority: 5}
	b := &loadout.Loadout{ID: 2, Priority: 5}

	res := allocation.NewAllocator(nil).Allocate(cands, []*loadout.Loadout{a, b})

	// Each pawn is eligible for both, so each loadout's share is half.
	assert.Equal(t, 5, res.Targets[1])
	assert.Equal(t, 5, res.Targets[2])
	assert.Equal(t, 5, countBound(cands, 1))
	assert.Equal(t, 5, countBound(cands, 2))
	assert.Equal(t, 10, res.Claimed)
}

func TestAllocateProportionalToPriority(t *testing.T) {
	cands := candidates(12)
	high := &loadout.Loadout{ID: 1, Priority: 9}
	low := &loadout.Loadout{ID: 2, Priority: 3}

	allocation.NewAllocator(nil).Allocate(cands, []*loadout.Loadout{high, low})

	// Total eligible priority per pawn is 12, average 12, so the high
	// loadout targets 12*9/12 = 9 pawns and the low one gets the rest.
	assert.Equal(t, 9, countBound(cands, 1))
	assert.Equal(t, 3, countBound(cands, 2))
}

func TestAllocateSkipsManualOnlyLoadouts(t *testing.T) {
	cands := candidates(4)
	manual := &loadout.Loadout{ID: 1, Priority: 0}

	res := allocation.NewAllocator(nil).Allocate(cands, []*loadout.Loadout{manual})

	assert.Equal(t, 0, res.Claimed)
	assert.Equal(t, 0, countBound(cands, 1))
}

func TestAllocateNeverTouchesPinnedOrBoundPawns(t *testing.T) {
	cands := candidates(3)
	cands[0].Binding.Auto = false // manual pin, unbound
	cands[1].Binding.LoadoutID = 7

	l := &loadout.Loadout{ID: 1, Priority: 5}
	allocation.NewAllocator(nil).Allocate(cands, []*loadout.Loadout{l})

	assert.Equal(t, 0, cands[0].Binding.LoadoutID)
	assert.Equal(t, 7, cands[1].Binding.LoadoutID)
	assert.Equal(t, 1, cands[2].Binding.LoadoutID)
}

func TestAllocateMoreConstrainedLoadoutClaimsFirst(t *testing.T) {
	cands := candidates(2)
	for _, c := range cands {
		c.Pawn.Traits = map[shared.TraitID]bool{"Brawler": c.Pawn.ID == "pawn-00"}
	}

	broad := &loadout.Loadout{ID: 1, Priority: 9}
	narrow := &loadout.Loadout{
		ID:                2,
		Priority:          2,
		TraitRequirements: map[shared.TraitID]bool{"Brawler": true},
	}

	allocation.NewAllocator(nil).Allocate(cands, []*loadout.Loadout{broad, narrow})

	// The narrow loadout runs first despite its lower priority, so the only
	// brawler goes to it before the broad loadout sweeps up the rest.
	assert.Equal(t, 2, cands[0].Binding.LoadoutID)
	assert.Equal(t, 1, cands[1].Binding.LoadoutID)
}

func TestAllocatePrefersDesirablePawns(t *testing.T) {
	cands := candidates(3)
	for _, c := range cands {
		c.Pawn.Traits = map[shared.TraitID]bool{"Tough": true}
	}
	cands[0].Desirability[1] = 0.1
	cands[1].Desirability[1] = 0.9
	cands[2].Desirability[1] = 0.5

	// The constrained loadout runs first and targets one pawn: every pawn
	// carries 3 total eligible priority, so its share is 3*1/3 = 1 slot.
	one := &loadout.Loadout{
		ID:                1,
		Priority:          1,
		TraitRequirements: map[shared.TraitID]bool{"Tough": true},
	}
	rest := &loadout.Loadout{ID: 2, Priority: 2}
	allocation.NewAllocator(nil).Allocate(cands, []*loadout.Loadout{one, rest})

	assert.Equal(t, 1, cands[1].Binding.LoadoutID)
	assert.NotEqual(t, 1, cands[0].Binding.LoadoutID)
	assert.NotEqual(t, 1, cands[2].Binding.LoadoutID)
}

func TestStableHashIsDeterministic(t *testing.T) {
	require.Equal(t, allocation.StableHash("abc"), allocation.StableHash("abc"))
	assert.NotEqual(t, allocation.StableHash("abc"), allocation.StableHash("abd"))
	assert.Equal(t, allocation.PawnHash("pawn-1"), allocation.StableHash("pawn-1"))
}
