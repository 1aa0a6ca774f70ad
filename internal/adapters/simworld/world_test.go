package simworld_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quartermaster-go/internal/adapters/simworld"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

func newWorld() *simworld.SimWorld {
	clock := &shared.FixedClock{Current: shared.GameTimeOf(1, 0, 6.0)}
	w := simworld.NewSimWorld("test-map", clock, nil)
	simworld.StandardTemplates(w)
	return w
}

func addPawn(w *simworld.SimWorld, id shared.PawnID) *ports.PawnSnapshot {
	p := &ports.PawnSnapshot{ID: id, Name: string(id)}
	w.AddPawn(p)
	return p
}

func TestEquipSwapsOldPrimaryToMap(t *testing.T) {
	w := newWorld()
	pawn := addPawn(w, "alice")

	old := w.PlaceItem("SimKnife", 100, 100)
	w.RequestEquip("alice", old)
	require.Equal(t, old.ID, pawn.Primary.ID)

	next := w.PlaceItem("SimMace", 100, 100)
	w.RequestEquip("alice", next)

	assert.Equal(t, next.ID, pawn.Primary.ID)

	// The replaced weapon lands back on the map.
	found := false
	for _, item := range w.WeaponsOnMap() {
		if item.ID == old.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPickupCountSplitsStack(t *testing.T) {
	w := newWorld()
	pawn := addPawn(w, "alice")
	stack := w.PlaceStack("SimRifleRounds", 100)

	w.RequestPickupCount("alice", stack, 30)

	require.Len(t, pawn.Carried, 1)
	assert.Equal(t, 30, pawn.Carried[0].StackCount)
	assert.NotEqual(t, stack.ID, pawn.Carried[0].ID)
	assert.Equal(t, 70, stack.StackCount)

	// Taking the remainder moves the whole stack without splitting.
	w.RequestPickupCount("alice", stack, 70)
	require.Len(t, pawn.Carried, 2)
	assert.Equal(t, stack.ID, pawn.Carried[1].ID)
	assert.Empty(t, w.ItemsOfTemplate("SimRifleRounds"))
}

func TestDropItemReturnsToMap(t *testing.T) {
	w := newWorld()
	pawn := addPawn(w, "alice")
	item := w.PlaceItem("SimKnife", 100, 100)
	w.RequestPickupSecondary("alice", item)
	require.Len(t, pawn.Carried, 1)

	w.DropItem("alice", item, false)

	assert.Empty(t, pawn.Carried)
	assert.Len(t, w.ItemsOfTemplate("SimKnife"), 1)
}

func TestCanCarryHonorsLimit(t *testing.T) {
	w := newWorld()
	pawn := addPawn(w, "alice")
	w.SetCarryLimit(1)

	first := w.PlaceItem("SimKnife", 100, 100)
	assert.True(t, w.CanCarry("alice", first))
	w.RequestPickupSecondary("alice", first)

	second := w.PlaceItem("SimMace", 100, 100)
	assert.False(t, w.CanCarry("alice", second))
	assert.Len(t, pawn.Carried, 1)
}

func TestActionRateDropsExcessActions(t *testing.T) {
	w := newWorld()
	addPawn(w, "alice")
	w.SetActionRate(0.0001, 1)

	first := w.PlaceItem("SimKnife", 100, 100)
	second := w.PlaceItem("SimMace", 100, 100)

	w.RequestPickupSecondary("alice", first)
	w.RequestPickupSecondary("alice", second)

	// The burst allows one action; the second is dropped, and the engine is
	// expected to retry on a later pass.
	assert.Equal(t, 1, w.DroppedActions)
	assert.Len(t, w.Pawn("alice").Carried, 1)
}

func TestGenerateColonyIsDeterministic(t *testing.T) {
	a := newWorld()
	simworld.GenerateColony(a, simworld.ColonyOptions{Seed: 42, Pawns: 6})
	b := newWorld()
	simworld.GenerateColony(b, simworld.ColonyOptions{Seed: 42, Pawns: 6})

	require.Len(t, a.Pawns(), 6)
	for i, p := range a.Pawns() {
		q := b.Pawns()[i]
		assert.Equal(t, p.ID, q.ID)
		assert.Equal(t, p.Skills["Shooting"].Level, q.Skills["Shooting"].Level)
		assert.Equal(t, p.EnabledWorkTags["Violent"], q.EnabledWorkTags["Violent"])
	}
	assert.Equal(t, len(a.WeaponsOnMap()), len(b.WeaponsOnMap()))
}

func TestShieldCheckerBlocksIncompatibleRanged(t *testing.T) {
	w := newWorld()
	checker := simworld.NewSimShieldChecker()
	pawn := addPawn(w, "alice")

	rifle := w.Template("SimAssaultRifle")
	knife := w.Template("SimKnife")

	assert.False(t, checker.BlocksWeapon(pawn, rifle))

	checker.Shielded["alice"] = true
	assert.True(t, checker.BlocksWeapon(pawn, rifle))
	assert.False(t, checker.BlocksWeapon(pawn, knife))
}

func TestSidearmMemory(t *testing.T) {
	m := simworld.NewSimSidearmMemory()

	m.Remember("alice", "SimKnife")
	m.Remember("alice", "SimMace")
	m.Remember("alice", "SimKnife")

	assert.Equal(t, []shared.TemplateID{"SimKnife", "SimMace"}, m.Remembered("alice"))

	m.Forget("alice", "SimKnife")
	assert.Equal(t, []shared.TemplateID{"SimMace"}, m.Remembered("alice"))
	assert.Empty(t, m.Remembered("bob"))
}
