package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

type fakeCatalog struct {
	templates []*inventory.Template
}

func (c *fakeCatalog) Templates() []*inventory.Template { return c.templates }

func (c *fakeCatalog) Template(id shared.TemplateID) *inventory.Template {
	for _, tpl := range c.templates {
		if tpl.ID == id {
			return tpl
		}
	}
	return nil
}

func testTemplates() []*inventory.Template {
	return []*inventory.Template{
		{
			ID:             "rifle",
			IsRangedWeapon: true,
			BaseStats:      map[stats.StatID]float64{"Mass": 3.5},
		},
		{
			ID:             "launcher",
			IsRangedWeapon: true,
			Explosive:      true,
			BaseStats:      map[stats.StatID]float64{"Mass": 8.0},
		},
		{
			ID:            "sword",
			IsMeleeWeapon: true,
			BaseStats:     map[stats.StatID]float64{"Mass": 2.0},
		},
		{
			ID:        "pickaxe",
			IsTool:    true,
			BaseStats: map[stats.StatID]float64{"Mass": 4.0, "MiningSpeed": 0.5},
		},
		{
			ID:        "shovel",
			IsTool:    true,
			BaseStats: map[stats.StatID]float64{"Mass": 3.0},
		},
		{
			ID:             "conjured-blade",
			IsRangedWeapon: true,
			DestroyOnDrop:  true,
		},
	}
}

func newTestEnv(templates []*inventory.Template) *rule.Env {
	registry := stats.NewRegistry()
	registry.Register(stats.Def{ID: "Mass", Baseline: 0})
	registry.Register(stats.Def{ID: "MiningSpeed", Baseline: 0})
	valuation := stats.NewValuation(registry, stats.NewRangeTable(), inventory.NewCacheStore(24, nil), nil)
	return &rule.Env{
		Valuation: valuation,
		Catalog:   &fakeCatalog{templates: templates},
	}
}

func TestListingExclusivity(t *testing.T) {
	set := rule.NewSet(newTestEnv(testTemplates()))
	r := set.Create(rule.KindRangedWeapon, "Rifles")

	r.SetListing("rifle", rule.ListingWhitelisted)
	assert.Equal(t, rule.ListingWhitelisted, r.Listing("rifle"))

	// Blacklisting structurally evicts the whitelist entry.
	r.SetListing("rifle", rule.ListingBlacklisted)
	assert.Equal(t, rule.ListingBlacklisted, r.Listing("rifle"))
	assert.Len(t, r.Listings(), 1)

	r.SetListing("rifle", rule.ListingUnset)
	assert.Equal(t, rule.ListingUnset, r.Listing("rifle"))
	assert.Empty(t, r.Listings())
}

func TestSetStatWeightClampsAndDeduplicates(t *testing.T) {
	set := rule.NewSet(newTestEnv(testTemplates()))
	r := set.Create(rule.KindRangedWeapon, "Rifles")

	r.SetStatWeight("Mass", 5.0, false)
	require.Len(t, r.Weights, 1)
	assert.Equal(t, 2.0, r.Weights[0].Weight)

	r.SetStatWeight("Mass", -7.0, false)
	require.Len(t, r.Weights, 1)
	assert.Equal(t, -2.0, r.Weights[0].Weight)

	r.SetStatWeight("Mass", 1.0, true)
	require.Len(t, r.Weights, 1)
	assert.Equal(t, 1.0, r.Weights[0].Weight)
	assert.True(t, r.Weights[0].Protected)
}

func TestComputeGloballyAvailableKindAndFilters(t *testing.T) {
	env := newTestEnv(testTemplates())
	set := rule.NewSet(env)
	r := set.Create(rule.KindRangedWeapon, "Rifles")

	available := r.ComputeGloballyAvailable(env, nil)

	// Ranged templates only, and never destroy-on-drop ones.
	assert.Contains(t, available, shared.TemplateID("rifle"))
	assert.Contains(t, available, shared.TemplateID("launcher"))
	assert.NotContains(t, available, shared.TemplateID("sword"))
	assert.NotContains(t, available, shared.TemplateID("conjured-blade"))

	// Excluding explosives drops the launcher.
	no := false
	r.Filters.Explosive = &no
	available = r.ComputeGloballyAvailable(env, nil)
	assert.Contains(t, available, shared.TemplateID("rifle"))
	assert.NotContains(t, available, shared.TemplateID("launcher"))
}

func TestComputeGloballyAvailableListings(t *testing.T) {
	env := newTestEnv(testTemplates())
	set := rule.NewSet(env)
	r := set.Create(rule.KindRangedWeapon, "Rifles")

	r.SetListing("rifle", rule.ListingBlacklisted)
	r.SetListing("sword", rule.ListingWhitelisted)
	available := r.ComputeGloballyAvailable(env, nil)

	assert.NotContains(t, available, shared.TemplateID("rifle"))

	// The whitelist overrides the kind predicate.
	assert.Contains(t, available, shared.TemplateID("sword"))
}

func TestComputeGloballyAvailableToolIntersection(t *testing.T) {
	env := newTestEnv(testTemplates())
	set := rule.NewSet(env)

	work := set.Create(rule.KindWorkType, "Mining")
	work.WorkType = "Mining"
	work.SetStatWeight("MiningSpeed", 1.0, false)

	r := set.Create(rule.KindTool, "Tools")
	available := r.ComputeGloballyAvailable(env, []shared.WorkTypeID{"Mining"})

	// Only tools carrying a stat some work-type rule weights survive.
	assert.Contains(t, available, shared.TemplateID("pickaxe"))
	assert.NotContains(t, available, shared.TemplateID("shovel"))
}

func TestIsAvailable(t *testing.T) {
	env := newTestEnv(testTemplates())
	set := rule.NewSet(env)
	r := set.Create(rule.KindRangedWeapon, "Rifles")
	r.ComputeGloballyAvailable(env, nil)
	now := shared.GameTimeOf(1, 0, 6.0)

	rifle := &inventory.Item{ID: "rifle-1", Template: env.Catalog.Template("rifle")}
	assert.True(t, r.IsAvailable(env, rifle, now, nil))

	forbidden := &inventory.Item{ID: "rifle-2", Template: env.Catalog.Template("rifle"), Forbidden: true}
	assert.False(t, r.IsAvailable(env, forbidden, now, nil))

	sword := &inventory.Item{ID: "sword-1", Template: env.Catalog.Template("sword")}
	assert.False(t, r.IsAvailable(env, sword, now, nil))
}

func TestIsAvailableStatLimits(t *testing.T) {
	env := newTestEnv(testTemplates())
	set := rule.NewSet(env)
	r := set.Create(rule.KindRangedWeapon, "Rifles")
	maxMass := 5.0
	r.SetStatLimit("Mass", nil, &maxMass)
	r.ComputeGloballyAvailable(env, nil)
	now := shared.GameTimeOf(1, 0, 6.0)

	rifle := &inventory.Item{ID: "rifle-1", Template: env.Catalog.Template("rifle")}
	launcher := &inventory.Item{ID: "launcher-1", Template: env.Catalog.Template("launcher")}

	assert.True(t, r.IsAvailable(env, rifle, now, nil))
	assert.False(t, r.IsAvailable(env, launcher, now, nil))

	// Whitelisting bypasses the limit gate entirely.
	r.SetListing("launcher", rule.ListingWhitelisted)
	r.ComputeGloballyAvailable(env, nil)
	assert.True(t, r.IsAvailable(env, launcher, now, nil))
}

func TestScoreScalesWithDurability(t *testing.T) {
	env := newTestEnv(testTemplates())
	set := rule.NewSet(env)
	r := set.Create(rule.KindRangedWeapon, "Rifles")
	r.SetStatWeight("Mass", 1.0, false)
	now := shared.GameTimeOf(1, 0, 6.0)

	// Seed the observation range so the rifle's deviation normalizes to 1.
	env.Valuation.Ranges().Observe("Mass", 0)
	env.Valuation.Ranges().Observe("Mass", 3.5)

	pristine := &inventory.Item{
		ID: "rifle-1", Template: env.Catalog.Template("rifle"),
		HitPoints: 120, MaxHitPoints: 120,
	}
	damaged := &inventory.Item{
		ID: "rifle-2", Template: env.Catalog.Template("rifle"),
		HitPoints: 60, MaxHitPoints: 120,
	}

	assert.InDelta(t, 1.0, r.Score(env, pristine, now, nil), 1e-9)
	assert.InDelta(t, 0.3, r.Score(env, damaged, now, nil), 1e-9)
}
