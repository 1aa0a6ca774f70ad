package convergence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/test/helpers"
)

// loadoutByLabel resolves a shipped preset loadout.
func loadoutByLabel(t *testing.T, h *helpers.Harness, label string) *loadout.Loadout {
	t.Helper()
	for _, l := range h.Loadouts.All() {
		if l.Label == label {
			return l
		}
	}
	t.Fatalf("no loadout labelled %q", label)
	return nil
}

// addSoldier adds a capable, combat-ready pawn pinned to the loadout.
func addSoldier(h *helpers.Harness, id shared.PawnID, loadoutID int) *ports.PawnSnapshot {
	p := &ports.PawnSnapshot{
		ID:   id,
		Name: string(id),
		Skills: map[shared.SkillID]ports.SkillSnapshot{
			"Shooting": {Level: 10, Passion: ports.PassionMinor},
			"Melee":    {Level: 8, Passion: ports.PassionMinor},
		},
		Capacities: map[shared.CapacityID]float64{
			"Sight": 1.0, "Manipulation": 1.0, "Moving": 1.0,
		},
		EnabledWorkTags: map[shared.WorkTagID]bool{"Violent": true},
	}
	h.World.AddPawn(p)
	b := h.Bindings.For(id)
	b.LoadoutID = loadoutID
	b.Auto = false
	return p
}

// runUntilStable runs passes an hour apart until the normalization ranges
// have seen every candidate, then returns the last report.
func runUntilStable(h *helpers.Harness) {
	h.Engine.RunPass(h.Clock.Now())
	h.Clock.AdvanceHours(1)
	h.Engine.RunPass(h.Clock.Now())
}

func onMap(h *helpers.Harness, id shared.ItemID) bool {
	for _, tpl := range h.World.Templates() {
		for _, item := range h.World.ItemsOfTemplate(tpl.ID) {
			if item.ID == id {
				return true
			}
		}
	}
	return false
}

func TestRunPassEquipsBestPrimary(t *testing.T) {
	h := helpers.NewHarness()
	sniper := loadoutByLabel(t, h, "Sniper")
	pawn := addSoldier(h, "alice", sniper.ID)

	h.World.PlaceItem("SimAssaultRifle", 100, 100)
	wanted := h.World.PlaceItem("SimSniperRifle", 100, 100)

	// The first pass seeds the normalization ranges; the second converges on
	// the sniper rifle, which dominates on weighted range and penetration.
	runUntilStable(h)

	require.NotNil(t, pawn.Primary)
	assert.Equal(t, wanted.ID, pawn.Primary.ID)
}

func TestRunPassClaimsAreExclusive(t *testing.T) {
	h := helpers.NewHarness()
	sniper := loadoutByLabel(t, h, "Sniper")
	first := addSoldier(h, "pawn-a", sniper.ID)
	second := addSoldier(h, "pawn-b", sniper.ID)

	h.World.PlaceItem("SimSniperRifle", 100, 100)
	h.World.PlaceItem("SimSniperRifle", 100, 100)

	h.Engine.RunPass(h.Clock.Now())

	// One rifle per pawn: a claim excludes the item from every other pawn's
	// candidates within the pass.
	require.NotNil(t, first.Primary)
	require.NotNil(t, second.Primary)
	assert.NotEqual(t, first.Primary.ID, second.Primary.ID)
}

func TestRunPassIsIdempotent(t *testing.T) {
	h := helpers.NewHarness()
	sniper := loadoutByLabel(t, h, "Sniper")
	addSoldier(h, "alice", sniper.ID)
	h.World.PlaceItem("SimSniperRifle", 100, 100)
	h.World.PlaceStack("SimSniperRounds", 200)

	first := h.Engine.RunPass(h.Clock.Now())
	require.Equal(t, 1, first.EquipActions)
	require.Equal(t, 1, first.AmmoPickups)

	h.Clock.AdvanceHours(1)
	second := h.Engine.RunPass(h.Clock.Now())

	// The world already converged; a second pass emits no actions.
	assert.Equal(t, 0, second.EquipActions)
	assert.Equal(t, 0, second.PickupActions)
	assert.Equal(t, 0, second.AmmoPickups)
	assert.Equal(t, 0, second.AmmoDrops)
	assert.Equal(t, 0, second.DropActions)
}

func TestRunPassPicksMeleeSidearm(t *testing.T) {
	h := helpers.NewHarness()
	assault := loadoutByLabel(t, h, "Assault")
	pawn := addSoldier(h, "alice", assault.ID)

	h.World.PlaceItem("SimAssaultRifle", 100, 100)
	h.World.PlaceItem("SimKnife", 100, 100)
	mace := h.World.PlaceItem("SimMace", 100, 100)

	// The mace beats the knife on both weighted melee stats once the ranges
	// have seen both.
	runUntilStable(h)

	require.Len(t, pawn.Carried, 1)
	assert.Equal(t, mace.ID, pawn.Carried[0].ID)
	assert.Contains(t, h.Sidearms.Remembered("alice"), shared.TemplateID("SimMace"))
}

func TestRunPassRangedSidearm(t *testing.T) {
	h := helpers.NewHarness()
	slasher := loadoutByLabel(t, h, "Slasher")
	pawn := addSoldier(h, "alice", slasher.ID)
	pawn.Traits = map[shared.TraitID]bool{"Brawler": true}

	mace := h.World.PlaceItem("SimMace", 100, 100)
	pistol := h.World.PlaceItem("SimMachinePistol", 100, 100)

	h.Engine.RunPass(h.Clock.Now())

	require.NotNil(t, pawn.Primary)
	assert.Equal(t, mace.ID, pawn.Primary.ID)
	require.Len(t, pawn.Carried, 1)
	assert.Equal(t, pistol.ID, pawn.Carried[0].ID)
	assert.Contains(t, h.Sidearms.Remembered("alice"), shared.TemplateID("SimMachinePistol"))
}

func TestRunPassToolPerAssignedWorkType(t *testing.T) {
	h := helpers.NewHarness()
	support := loadoutByLabel(t, h, "Support")
	pawn := addSoldier(h, "alice", support.ID)
	pawn.WorkTypes = []shared.WorkTypeID{"Mining", "Growing", "Construction"}
	pawn.AssignedWorkTypes = []shared.WorkTypeID{"Mining", "Growing"}

	multitool := h.World.PlaceItem("SimMultitool", 100, 100)
	hoe := h.World.PlaceItem("SimHoe", 100, 100)

	h.Engine.RunPass(h.Clock.Now())

	// One tool per assigned work type: the multitool for mining (the hoe
	// carries no mining-relevant stat), then the hoe for plant work.
	carried := map[shared.ItemID]bool{}
	for _, item := range pawn.Carried {
		carried[item.ID] = true
	}
	assert.True(t, carried[multitool.ID], "expected the multitool for mining")
	assert.True(t, carried[hoe.ID], "expected the hoe for growing")
}

func TestRunPassAmmoResupplyToTarget(t *testing.T) {
	h := helpers.NewHarness()
	assault := loadoutByLabel(t, h, "Assault")
	pawn := addSoldier(h, "alice", assault.ID)

	h.World.PlaceItem("SimAssaultRifle", 100, 100)
	stack := h.World.PlaceStack("SimRifleRounds", 200)

	report := h.Engine.RunPass(h.Clock.Now())

	// The assault rifle rule targets 120 rounds; the map stack splits.
	assert.Equal(t, 1, report.AmmoPickups)
	require.Len(t, pawn.Carried, 1)
	assert.Equal(t, 120, pawn.Carried[0].StackCount)
	assert.Equal(t, 80, stack.StackCount)
}

func TestRunPassAmmoReservationsAreShared(t *testing.T) {
	h := helpers.NewHarness()
	assault := loadoutByLabel(t, h, "Assault")
	first := addSoldier(h, "pawn-a", assault.ID)
	second := addSoldier(h, "pawn-b", assault.ID)

	h.World.PlaceItem("SimAssaultRifle", 100, 100)
	h.World.PlaceItem("SimAssaultRifle", 100, 100)
	h.World.PlaceStack("SimRifleRounds", 150)

	report := h.Engine.RunPass(h.Clock.Now())

	// The first pawn reserves its full 120-round target. The remainder is
	// under reservation pressure, so the second pawn waits for a later pass
	// rather than overdrawing the stack.
	assert.Equal(t, 1, report.AmmoPickups)
	require.Len(t, first.Carried, 1)
	assert.Equal(t, 120, first.Carried[0].StackCount)
	assert.Empty(t, second.Carried)
}

func TestRunPassAmmoPickupPrefersHigherMarketValue(t *testing.T) {
	h := helpers.NewHarness()

	cheap := helpers.AmmoTemplate("test-arrows-cheap", 0.1)
	fine := helpers.AmmoTemplate("test-arrows-fine", 0.9)
	bow := helpers.RangedTemplate("test-bow", []shared.TemplateID{cheap.ID, fine.ID})
	h.World.AddTemplate(cheap)
	h.World.AddTemplate(fine)
	h.World.AddTemplate(bow)

	r := h.Rules.Create(rule.KindRangedWeapon, "Bow")
	r.AmmoCount = 60
	l := h.Loadouts.Create("Archer")
	l.Priority = 5
	l.Primary = loadout.PrimaryRanged
	l.PrimaryRangedRuleID = r.ID

	pawn := addSoldier(h, "alice", l.ID)
	helpers.CarriedStack(pawn, cheap, 20)
	h.World.PlaceItem("test-bow", 100, 100)
	h.World.PlaceStack("test-arrows-fine", 30)
	cheapStack := h.World.PlaceStack("test-arrows-cheap", 200)

	report := h.Engine.RunPass(h.Clock.Now())

	// 40 rounds short of the 60 target: the fine stack is drained in full
	// before any cheap rounds move, and the draw stops exactly at the target.
	assert.Equal(t, 2, report.AmmoPickups)
	carried := map[shared.TemplateID]int{}
	for _, item := range pawn.Carried {
		if item.Template.IsAmmo {
			carried[item.Template.ID] += item.StackCount
		}
	}
	assert.Equal(t, 30, carried[fine.ID])
	assert.Equal(t, 30, carried[cheap.ID])
	assert.Equal(t, 190, cheapStack.StackCount)
}

func TestRunPassAmmoSurplusDrops(t *testing.T) {
	h := helpers.NewHarness()

	// A custom bow with two calibers of different market value, so the
	// cheapest surplus stack is the drop candidate.
	cheap := helpers.AmmoTemplate("test-arrows-cheap", 0.1)
	fine := helpers.AmmoTemplate("test-arrows-fine", 0.9)
	bow := helpers.RangedTemplate("test-bow", []shared.TemplateID{cheap.ID, fine.ID})
	h.World.AddTemplate(cheap)
	h.World.AddTemplate(fine)
	h.World.AddTemplate(bow)

	r := h.Rules.Create(rule.KindRangedWeapon, "Bow")
	r.AmmoCount = 5
	l := h.Loadouts.Create("Archer")
	l.Priority = 5
	l.Primary = loadout.PrimaryRanged
	l.PrimaryRangedRuleID = r.ID

	pawn := addSoldier(h, "alice", l.ID)
	cheapStack := helpers.CarriedStack(pawn, cheap, 6)
	fineStack := helpers.CarriedStack(pawn, fine, 6)
	h.World.PlaceItem("test-bow", 100, 100)

	report := h.Engine.RunPass(h.Clock.Now())

	// 12 carried rounds against a target of 5: dropping the cheap stack
	// leaves 6, still above target; dropping the fine one too would not.
	assert.Equal(t, 1, report.AmmoDrops)
	require.Len(t, pawn.Carried, 1)
	assert.Equal(t, fineStack.ID, pawn.Carried[0].ID)
	assert.True(t, onMap(h, cheapStack.ID))
}

func TestRunPassAllAvailableKeepsBestInstancePerTemplate(t *testing.T) {
	h := helpers.NewHarness()

	r := h.Rules.Create(rule.KindMeleeWeapon, "Collector blades")
	r.Mode = rule.ModeAllAvailable
	r.SetStatWeight(rule.StatMeleeDPS, 2.0, false)
	l := h.Loadouts.Create("Collector")
	l.Priority = 5
	l.MeleeSidearmRules = []int{r.ID}
	l.DropUnassignedWeapons = true

	pawn := addSoldier(h, "alice", l.ID)
	worn := h.World.PlaceItem("SimMace", 30, 100)
	pristine := h.World.PlaceItem("SimMace", 100, 100)
	knife := h.World.PlaceItem("SimKnife", 100, 100)

	runUntilStable(h)

	// One instance per template, the healthiest mace winning its pair. If
	// the first pass grabbed the worn mace on cold ranges, the second pass
	// corrects the claim and cleanup returns it to the map.
	carried := map[shared.ItemID]bool{}
	for _, item := range pawn.Carried {
		carried[item.ID] = true
	}
	assert.Len(t, pawn.Carried, 2)
	assert.True(t, carried[pristine.ID], "expected the pristine mace")
	assert.True(t, carried[knife.ID], "expected the knife")
	assert.True(t, onMap(h, worn.ID))
}

func TestRunPassCleanupDropsUnassignedWeapons(t *testing.T) {
	h := helpers.NewHarness()
	crusher := loadoutByLabel(t, h, "Crusher")
	pawn := addSoldier(h, "alice", crusher.ID)

	pistol := helpers.CarriedStack(pawn, h.World.Template("SimMachinePistol"), 1)
	mace := h.World.PlaceItem("SimMace", 100, 100)

	report := h.Engine.RunPass(h.Clock.Now())

	// The crusher loadout claims only the mace; the carried pistol is an
	// unassigned weapon and drops.
	require.NotNil(t, pawn.Primary)
	assert.Equal(t, mace.ID, pawn.Primary.ID)
	assert.Empty(t, pawn.Carried)
	assert.Equal(t, 1, report.DropActions)
	assert.True(t, onMap(h, pistol.ID))
}

func TestRunPassForgetsStaleSidearms(t *testing.T) {
	h := helpers.NewHarness()
	crusher := loadoutByLabel(t, h, "Crusher")
	addSoldier(h, "alice", crusher.ID)
	h.World.PlaceItem("SimMace", 100, 100)

	h.Sidearms.Remember("alice", "SimKnife")
	h.Engine.RunPass(h.Clock.Now())

	assert.Empty(t, h.Sidearms.Remembered("alice"))
}

func TestRunPassSkipsIncapablePawns(t *testing.T) {
	h := helpers.NewHarness()
	sniper := loadoutByLabel(t, h, "Sniper")
	pawn := addSoldier(h, "alice", sniper.ID)
	pawn.Downed = true
	h.World.PlaceItem("SimSniperRifle", 100, 100)

	report := h.Engine.RunPass(h.Clock.Now())

	assert.Equal(t, 1, report.PawnsTracked)
	assert.Equal(t, 0, report.PawnsUpdated)
	assert.Nil(t, pawn.Primary)
}

func TestRunPassShieldBlocksRangedPrimary(t *testing.T) {
	h := helpers.NewHarness()
	assault := loadoutByLabel(t, h, "Assault")
	pawn := addSoldier(h, "alice", assault.ID)
	h.Shields.Shielded["alice"] = true
	h.World.PlaceItem("SimAssaultRifle", 100, 100)

	report := h.Engine.RunPass(h.Clock.Now())

	assert.Nil(t, pawn.Primary)
	assert.Equal(t, 0, report.EquipActions)
}

func TestRunPassAllocatesUnboundPawns(t *testing.T) {
	h := helpers.NewHarness()
	for i, id := range []shared.PawnID{"ada", "ben", "cam", "dot"} {
		p := &ports.PawnSnapshot{
			ID:   id,
			Name: string(id),
			Skills: map[shared.SkillID]ports.SkillSnapshot{
				"Shooting": {Level: 6 + i, Passion: ports.PassionMinor},
				"Melee":    {Level: 5, Passion: ports.PassionNone},
			},
			Capacities: map[shared.CapacityID]float64{
				"Sight": 1.0, "Manipulation": 1.0, "Moving": 1.0,
			},
			EnabledWorkTags: map[shared.WorkTagID]bool{"Violent": true},
		}
		h.World.AddPawn(p)
	}

	report := h.Engine.RunPass(h.Clock.Now())

	assert.Equal(t, 4, report.PawnsTracked)
	assert.Equal(t, 4, report.Allocation.Claimed)
	for _, id := range []shared.PawnID{"ada", "ben", "cam", "dot"} {
		assert.True(t, h.Bindings.For(id).HasLoadout(), "pawn %s should be bound", id)
	}
}

func TestRunPassDropsBindingToDeletedLoadout(t *testing.T) {
	h := helpers.NewHarness()
	extra := h.Loadouts.Create("Temp")
	extra.Priority = 5
	addSoldier(h, "alice", extra.ID)

	require.True(t, h.Loadouts.Delete(extra.ID))
	h.Engine.RunPass(h.Clock.Now())

	// Pinned bindings keep their pin but lose the dangling loadout.
	b := h.Bindings.For("alice")
	assert.False(t, b.HasLoadout())
	assert.False(t, b.Auto)
}
