package loadout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

func soldierSnapshot() *ports.PawnSnapshot {
	return &ports.PawnSnapshot{
		ID:   "pawn-1",
		Name: "Dee",
		Traits: map[shared.TraitID]bool{
			"Brawler": true,
		},
		Skills: map[shared.SkillID]ports.SkillSnapshot{
			"Shooting": {Level: 8, Passion: ports.PassionMinor},
			"Melee":    {Level: 4, Passion: ports.PassionNone},
		},
		Capacities: map[shared.CapacityID]float64{
			"Sight":        0.95,
			"Manipulation": 1.0,
		},
		EnabledWorkTags: map[shared.WorkTagID]bool{
			"Violent": true,
		},
	}
}

func TestIsEligibleTraitRequirements(t *testing.T) {
	l := &loadout.Loadout{
		TraitRequirements: map[shared.TraitID]bool{"Brawler": true},
	}
	pawn := soldierSnapshot()

	assert.True(t, l.IsEligible(pawn))

	// Requiring the trait's absence flips the result.
	l.TraitRequirements["Brawler"] = false
	assert.False(t, l.IsEligible(pawn))
}

func TestIsEligibleWorkTagAndPassion(t *testing.T) {
	l := &loadout.Loadout{
		WorkTagRequirements: map[shared.WorkTagID]bool{"Violent": true},
		PassionRequirements: map[shared.SkillID]ports.PassionLevel{
			"Shooting": ports.PassionMinor,
		},
	}
	pawn := soldierSnapshot()
	assert.True(t, l.IsEligible(pawn))

	pawn.Skills["Shooting"] = ports.SkillSnapshot{Level: 8, Passion: ports.PassionNone}
	assert.False(t, l.IsEligible(pawn))

	// A passion requirement on a skill the pawn does not have is skipped.
	l.PassionRequirements = map[shared.SkillID]ports.PassionLevel{
		"Artistic": ports.PassionMajor,
	}
	assert.True(t, l.IsEligible(pawn))
}

func TestIsEligibleMetricLimits(t *testing.T) {
	minSight := 0.9
	l := &loadout.Loadout{
		Limits: []loadout.MetricLimit{
			{Ref: loadout.MetricRef{Kind: loadout.MetricCapacity, ID: "Sight"}, Min: &minSight},
		},
	}
	pawn := soldierSnapshot()
	assert.True(t, l.IsEligible(pawn))

	pawn.Capacities["Sight"] = 0.5
	assert.False(t, l.IsEligible(pawn))

	// Unresolvable metric references are skipped, not failed.
	l.Limits[0].Ref.ID = "EchoLocation"
	assert.True(t, l.IsEligible(pawn))
}

func TestIsEligibleSkillLimit(t *testing.T) {
	minShooting := 6.0
	l := &loadout.Loadout{
		Limits: []loadout.MetricLimit{
			{Ref: loadout.MetricRef{Kind: loadout.MetricSkill, ID: "Shooting"}, Min: &minShooting},
		},
	}
	pawn := soldierSnapshot()
	assert.True(t, l.IsEligible(pawn))

	pawn.Skills["Shooting"] = ports.SkillSnapshot{Level: 3}
	assert.False(t, l.IsEligible(pawn))
}

func TestDesirabilityNormalizesAgainstPopulation(t *testing.T) {
	l := &loadout.Loadout{
		Weights: []loadout.MetricWeight{
			{Ref: loadout.MetricRef{Kind: loadout.MetricSkill, ID: "Shooting"}, Weight: 2.0},
		},
	}

	sharp := soldierSnapshot()
	dull := soldierSnapshot()
	dull.ID = "pawn-2"
	dull.Skills["Shooting"] = ports.SkillSnapshot{Level: 2}

	pop := l.PopulationRangesOf([]*ports.PawnSnapshot{sharp, dull})

	// Shooting spread [2,8] is all-positive, so it normalizes into [0,1].
	assert.InDelta(t, 2.0, l.Desirability(sharp, pop), 1e-9)
	assert.InDelta(t, 0.0, l.Desirability(dull, pop), 1e-9)
	assert.Equal(t, 0.0, l.Desirability(sharp, nil))
}

func TestConstraintCount(t *testing.T) {
	min := 0.5
	l := &loadout.Loadout{
		TraitRequirements:   map[shared.TraitID]bool{"Brawler": true},
		WorkTagRequirements: map[shared.WorkTagID]bool{"Violent": true},
		PassionRequirements: map[shared.SkillID]ports.PassionLevel{"Melee": ports.PassionMinor},
		Limits: []loadout.MetricLimit{
			{Ref: loadout.MetricRef{Kind: loadout.MetricCapacity, ID: "Sight"}, Min: &min},
		},
	}

	assert.Equal(t, 4, l.ConstraintCount())
}

func TestSetCopyIsDeep(t *testing.T) {
	set := loadout.NewSet()
	src := set.Create("Assault")
	src.Priority = 5
	src.Primary = loadout.PrimaryRanged
	src.PrimaryRangedRuleID = 1
	src.MeleeSidearmRules = []int{2}
	src.TraitRequirements["Brawler"] = false

	dst, ok := set.Copy(src.ID, "Assault (copy)")
	require.True(t, ok)
	assert.NotEqual(t, src.ID, dst.ID)
	assert.Equal(t, "Assault (copy)", dst.Label)
	assert.Equal(t, 5, dst.Priority)

	dst.MeleeSidearmRules[0] = 9
	dst.TraitRequirements["Brawler"] = true
	assert.Equal(t, 2, src.MeleeSidearmRules[0])
	assert.False(t, src.TraitRequirements["Brawler"])
}

func TestBindingTable(t *testing.T) {
	table := loadout.NewBindingTable()

	// First query creates an automatic, unbound binding.
	b := table.For("pawn-1")
	assert.True(t, b.Auto)
	assert.False(t, b.HasLoadout())

	b.LoadoutID = 3
	b.Auto = false
	again := table.For("pawn-1")
	assert.Same(t, b, again)

	table.Restore(&loadout.Binding{Pawn: "pawn-2", LoadoutID: 1, Auto: true})
	assert.Equal(t, 1, table.For("pawn-2").LoadoutID)

	table.Remove("pawn-1")
	assert.False(t, table.For("pawn-1").HasLoadout())

	all := table.All()
	require.Len(t, all, 2)
	assert.Equal(t, shared.PawnID("pawn-1"), all[0].Pawn)
	assert.Equal(t, shared.PawnID("pawn-2"), all[1].Pawn)
}
