package cli

import (
	"context"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"github.com/andrescamacho/quartermaster-go/internal/adapters/metrics"
	"github.com/andrescamacho/quartermaster-go/internal/adapters/persistence"
	"github.com/andrescamacho/quartermaster-go/internal/adapters/simworld"
	"github.com/andrescamacho/quartermaster-go/internal/application/armory"
	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/convergence"
	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/scheduler"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
	"github.com/andrescamacho/quartermaster-go/internal/infrastructure/config"
	"github.com/andrescamacho/quartermaster-go/internal/infrastructure/database"
)

// App wires the engine, its simulated host and the application layer for one
// CLI invocation. The CLI runs everything in-process against the sim world;
// a real host embedding would swap the world adapter and keep the rest.
type App struct {
	Config    *config.Config
	Clock     *shared.FixedClock
	Log       *shared.LogBuffer
	World     *simworld.SimWorld
	Rules     *rule.Set
	Loadouts  *loadout.Set
	Bindings  *loadout.BindingTable
	Ranges    *stats.RangeTable
	Engine    *convergence.Engine
	Scheduler *scheduler.Scheduler
	Mediator  common.Mediator

	db            *gorm.DB
	metricsServer *http.Server

	ruleRepo    rule.Repository
	loadoutRepo loadout.Repository
	bindingRepo loadout.BindingRepository
	rangeRepo   stats.RangeRepository
}

// NewApp assembles the full application. With withDB set, configuration is
// loaded from and persisted to the configured database; without it the run
// is purely in-memory, seeded with the default presets.
func NewApp(cfg *config.Config, withDB bool) (*App, error) {
	clock := &shared.FixedClock{Current: shared.GameTimeOf(1, 0, 6.0)}
	logBuf := shared.NewLogBuffer(clock, cfg.Engine.LogCap)

	world := simworld.NewSimWorld(shared.MapID(cfg.Simulation.MapID), clock, logBuf)
	if cfg.Simulation.ActionRate > 0 {
		world.SetActionRate(cfg.Simulation.ActionRate, cfg.Simulation.ActionBurst)
	}
	// Templates go in up front so restored rules can recompute availability
	// and listing edits can be validated against the catalog.
	simworld.StandardTemplates(world)

	registry := stats.NewRegistry()
	simworld.RegisterStats(registry)
	ranges := stats.NewRangeTable()

	caches := inventory.NewCacheStore(cfg.Engine.CacheRefreshHours, logBuf)
	valuation := stats.NewValuation(registry, ranges, caches, logBuf)

	rules := rule.NewSet(&rule.Env{Valuation: valuation, Catalog: world, Log: logBuf})
	caches.SetWorkScorer(rules)

	loadouts := loadout.NewSet()
	bindings := loadout.NewBindingTable()

	app := &App{
		Config:   cfg,
		Clock:    clock,
		Log:      logBuf,
		World:    world,
		Rules:    rules,
		Loadouts: loadouts,
		Bindings: bindings,
		Ranges:   ranges,
	}

	if withDB {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		app.db = db
		app.ruleRepo = persistence.NewGormRuleRepository(db)
		app.loadoutRepo = persistence.NewGormLoadoutRepository(db)
		app.bindingRepo = persistence.NewGormBindingRepository(db)
		app.rangeRepo = persistence.NewGormStatRangeRepository(db)
	}

	if err := app.restoreOrSeed(context.Background()); err != nil {
		return nil, err
	}

	engine := convergence.NewEngine(rules, loadouts, bindings, world, convergence.Config{
		DesirabilityRefreshHours: cfg.Engine.DesirabilityRefreshHours,
		AmmoSelfTarget:           cfg.Engine.AmmoSelfTarget,
	}, logBuf)
	engine.SetCapabilities(simworld.SimAmmoSystem{}, simworld.NewSimShieldChecker(), simworld.NewSimSidearmMemory())
	app.Engine = engine

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector := metrics.NewPassMetricsCollector()
		if err := collector.Register(); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		engine.SetObserver(collector)
		srv, err := metrics.Serve(&cfg.Metrics)
		if err != nil {
			return nil, err
		}
		app.metricsServer = srv
	}

	// The CLI steps the sim clock in whole hours, so the tick modulus gate
	// would almost never line up; the hour interval is the cadence here. A
	// host embedding ticks the scheduler every frame and wants the modulus.
	app.Scheduler = scheduler.New(engine, world, scheduler.Config{
		PassIntervalHours: cfg.Engine.PassIntervalHours,
		TickModulus:       0,
	}, logBuf)

	m, err := app.buildMediator()
	if err != nil {
		return nil, err
	}
	app.Mediator = m
	return app, nil
}

// restoreOrSeed loads persisted rules, loadouts, bindings and stat ranges,
// seeding the default presets on a fresh database (or on every in-memory
// run, which has nothing to restore).
func (a *App) restoreOrSeed(ctx context.Context) error {
	if a.ruleRepo == nil {
		presets := rule.DefaultRules(a.Rules)
		loadout.DefaultLoadouts(a.Loadouts, presets)
		a.Rules.RecomputeAll()
		return nil
	}

	persisted, err := a.ruleRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	if len(persisted) == 0 {
		presets := rule.DefaultRules(a.Rules)
		loadout.DefaultLoadouts(a.Loadouts, presets)
		a.Rules.RecomputeAll()
		for _, r := range a.Rules.All() {
			if err := a.ruleRepo.Save(ctx, r); err != nil {
				return fmt.Errorf("failed to seed rule %q: %w", r.Label, err)
			}
		}
		for _, l := range a.Loadouts.All() {
			if err := a.loadoutRepo.Save(ctx, l); err != nil {
				return fmt.Errorf("failed to seed loadout %q: %w", l.Label, err)
			}
		}
		return nil
	}

	for _, r := range persisted {
		a.Rules.Restore(r)
	}
	loadouts, err := a.loadoutRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load loadouts: %w", err)
	}
	for _, l := range loadouts {
		a.Loadouts.Restore(l)
	}
	bindings, err := a.bindingRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bindings: %w", err)
	}
	for _, b := range bindings {
		a.Bindings.Restore(b)
	}
	records, err := a.rangeRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stat ranges: %w", err)
	}
	for _, rec := range records {
		a.Ranges.Restore(rec.Stat, rec.Lo, rec.Hi)
	}
	a.Rules.RecomputeAll()
	return nil
}

func (a *App) buildMediator() (common.Mediator, error) {
	m := common.NewMediator()

	registrations := []error{
		common.RegisterHandler[*armory.CreateRuleCommand](m, armory.NewCreateRuleHandler(a.Rules, a.ruleRepo)),
		common.RegisterHandler[*armory.DeleteRuleCommand](m, armory.NewDeleteRuleHandler(a.Rules, a.ruleRepo)),
		common.RegisterHandler[*armory.CopyRuleCommand](m, armory.NewCopyRuleHandler(a.Rules, a.ruleRepo)),
		common.RegisterHandler[*armory.SetStatWeightCommand](m, armory.NewSetStatWeightHandler(a.Rules, a.ruleRepo)),
		common.RegisterHandler[*armory.DeleteStatWeightCommand](m, armory.NewDeleteStatWeightHandler(a.Rules, a.ruleRepo)),
		common.RegisterHandler[*armory.SetStatLimitCommand](m, armory.NewSetStatLimitHandler(a.Rules, a.ruleRepo)),
		common.RegisterHandler[*armory.SetListingCommand](m, armory.NewSetListingHandler(a.Rules, a.ruleRepo)),
		common.RegisterHandler[*armory.CreateLoadoutCommand](m, armory.NewCreateLoadoutHandler(a.Loadouts, a.loadoutRepo)),
		common.RegisterHandler[*armory.DeleteLoadoutCommand](m, armory.NewDeleteLoadoutHandler(a.Loadouts, a.loadoutRepo)),
		common.RegisterHandler[*armory.CopyLoadoutCommand](m, armory.NewCopyLoadoutHandler(a.Loadouts, a.loadoutRepo)),
		common.RegisterHandler[*armory.SetPawnLoadoutCommand](m, armory.NewSetPawnLoadoutHandler(a.Loadouts, a.Bindings, a.bindingRepo)),
		common.RegisterHandler[*armory.RunConvergencePassCommand](m, armory.NewRunConvergencePassHandler(a.Scheduler, a.Bindings, a.Ranges, a.bindingRepo, a.rangeRepo)),
		common.RegisterHandler[*armory.GetRuleQuery](m, armory.NewGetRuleHandler(a.Rules)),
		common.RegisterHandler[*armory.ListRulesQuery](m, armory.NewListRulesHandler(a.Rules)),
		common.RegisterHandler[*armory.ListLoadoutsQuery](m, armory.NewListLoadoutsHandler(a.Loadouts, a.Bindings)),
		common.RegisterHandler[*armory.GetEngineLogQuery](m, armory.NewGetEngineLogHandler(a.Log)),
	}
	for _, err := range registrations {
		if err != nil {
			return nil, fmt.Errorf("failed to register handler: %w", err)
		}
	}
	return m, nil
}

// Close releases the database connection and stops the metrics endpoint.
func (a *App) Close() {
	if a.metricsServer != nil {
		_ = a.metricsServer.Close()
	}
	if a.db != nil {
		_ = database.Close(a.db)
	}
}
