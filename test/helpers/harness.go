package helpers

import (
	"github.com/andrescamacho/quartermaster-go/internal/adapters/simworld"
	"github.com/andrescamacho/quartermaster-go/internal/domain/convergence"
	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// Harness bundles a fully wired engine over a sim world. Tests add pawns and
// items, then call RunPass through Engine or tick the scheduler themselves.
type Harness struct {
	Clock    *shared.FixedClock
	Log      *shared.LogBuffer
	World    *simworld.SimWorld
	Rules    *rule.Set
	Loadouts *loadout.Set
	Bindings *loadout.BindingTable
	Ranges   *stats.RangeTable
	Engine   *convergence.Engine
	Presets  rule.PresetIDs
	Sidearms *simworld.SimSidearmMemory
	Shields  *simworld.SimShieldChecker
}

// NewHarness wires an engine with the standard templates and shipped presets
// over an empty map.
func NewHarness() *Harness {
	clock := &shared.FixedClock{Current: shared.GameTimeOf(1, 0, 6.0)}
	logBuf := shared.NewLogBuffer(clock, shared.DefaultLogCap)

	world := simworld.NewSimWorld("test-map", clock, logBuf)
	simworld.StandardTemplates(world)

	registry := stats.NewRegistry()
	simworld.RegisterStats(registry)
	ranges := stats.NewRangeTable()

	caches := inventory.NewCacheStore(24, logBuf)
	valuation := stats.NewValuation(registry, ranges, caches, logBuf)

	rules := rule.NewSet(&rule.Env{Valuation: valuation, Catalog: world, Log: logBuf})
	caches.SetWorkScorer(rules)

	loadouts := loadout.NewSet()
	bindings := loadout.NewBindingTable()

	presets := rule.DefaultRules(rules)
	loadout.DefaultLoadouts(loadouts, presets)
	rules.RecomputeAll()

	engine := convergence.NewEngine(rules, loadouts, bindings, world, convergence.DefaultConfig(), logBuf)
	shields := simworld.NewSimShieldChecker()
	sidearms := simworld.NewSimSidearmMemory()
	engine.SetCapabilities(simworld.SimAmmoSystem{}, shields, sidearms)

	return &Harness{
		Clock:    clock,
		Log:      logBuf,
		World:    world,
		Rules:    rules,
		Loadouts: loadouts,
		Bindings: bindings,
		Ranges:   ranges,
		Engine:   engine,
		Presets:  presets,
		Sidearms: sidearms,
		Shields:  shields,
	}
}
