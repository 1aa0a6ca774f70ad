package convergence

import (
	"fmt"
	"sort"
	"time"

	"github.com/andrescamacho/quartermaster-go/internal/domain/allocation"
	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// Config holds the engine cadences and ammo fallback.
type Config struct {
	// DesirabilityRefreshHours is how long desirability snapshots stay
	// fresh. Allocation passes in between reuse the stale snapshot.
	DesirabilityRefreshHours float64

	// AmmoSelfTarget is the stock target when the equipped weapon is
	// itself ammunition (e.g. thrown weapons).
	AmmoSelfTarget int
}

// DefaultConfig returns the shipped cadences.
func DefaultConfig() Config {
	return Config{
		DesirabilityRefreshHours: 24,
		AmmoSelfTarget:           5,
	}
}

// PassReport summarizes one convergence pass.
type PassReport struct {
	Map          shared.MapID
	Time         shared.GameTime
	Duration     time.Duration
	PawnsTracked int
	PawnsUpdated int
	Allocation   allocation.Result

	EquipActions  int
	PickupActions int
	DropActions   int
	AmmoPickups   int
	AmmoDrops     int
}

// Observer is notified after each pass. The metrics adapter implements it.
type Observer interface {
	PassCompleted(report *PassReport)
}

// Engine runs the equipment convergence loop for one map. It owns the
// per-pawn caches; rules, loadouts and bindings are shared engine state
// passed in explicitly.
type Engine struct {
	rules    *rule.Set
	loadouts *loadout.Set
	bindings *loadout.BindingTable
	world    ports.World

	// Optional companion capabilities; nil disables the dependent feature.
	ammo     ports.AmmoSystem
	shields  ports.ShieldChecker
	sidearms ports.SidearmMemory

	cfg      Config
	log      shared.EngineLogger
	observer Observer

	pawns            map[shared.PawnID]*PawnCache
	lastDesirability shared.GameTime
	hasDesirability  bool
}

// NewEngine wires a convergence engine for one map.
func NewEngine(rules *rule.Set, loadouts *loadout.Set, bindings *loadout.BindingTable, world ports.World, cfg Config, logger shared.EngineLogger) *Engine {
	if logger == nil {
		logger = shared.NopLogger{}
	}
	if cfg.DesirabilityRefreshHours <= 0 {
		cfg.DesirabilityRefreshHours = 24
	}
	if cfg.AmmoSelfTarget <= 0 {
		cfg.AmmoSelfTarget = 5
	}
	return &Engine{
		rules:    rules,
		loadouts: loadouts,
		bindings: bindings,
		world:    world,
		cfg:      cfg,
		log:      logger,
		pawns:    make(map[shared.PawnID]*PawnCache),
	}
}

// SetCapabilities wires the optional companion systems. Any of them may be
// nil; the dependent feature is then silently disabled.
func (e *Engine) SetCapabilities(ammo ports.AmmoSystem, shields ports.ShieldChecker, sidearms ports.SidearmMemory) {
	e.ammo = ammo
	e.shields = shields
	e.sidearms = sidearms
}

// SetObserver wires a pass observer.
func (e *Engine) SetObserver(o Observer) { e.observer = o }

// PawnCaches exposes the per-pawn working state, ordered by pawn id.
// Used by tests and the inspection queries.
func (e *Engine) PawnCaches() []*PawnCache {
	out := make([]*PawnCache, 0, len(e.pawns))
	for _, pc := range e.pawns {
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pawn.ID < out[j].Pawn.ID })
	return out
}

// RunPass executes one full convergence pass: pool refresh, desirability
// refresh, loadout allocation, then the equipment stages in fixed order
// (primary, ranged sidearms, melee sidearms, tools, ammo, cleanup).
func (e *Engine) RunPass(now shared.GameTime) *PassReport {
	started := time.Now()
	report := &PassReport{Map: e.world.MapID(), Time: now}

	e.refreshPool(now)
	report.PawnsTracked = len(e.pawns)

	e.refreshDesirability(now)
	e.rules.RecomputeAll()

	report.Allocation = e.allocate()

	updated := e.updatablePawns()
	report.PawnsUpdated = len(updated)

	for _, pc := range updated {
		e.assignPrimary(pc, now, report)
	}
	for _, pc := range updated {
		e.assignSidearms(pc, rule.KindRangedWeapon, now, report)
	}
	for _, pc := range updated {
		e.assignSidearms(pc, rule.KindMeleeWeapon, now, report)
	}
	for _, pc := range updated {
		e.assignTools(pc, now, report)
	}
	for _, pc := range updated {
		e.resupplyAmmo(pc, now, report)
	}
	for _, pc := range updated {
		e.cleanup(pc, report)
	}

	report.Duration = time.Since(started)
	if e.observer != nil {
		e.observer.PassCompleted(report)
	}
	return report
}

// refreshPool synchronizes the pawn caches with the host's current pool and
// resets all per-pass state.
func (e *Engine) refreshPool(now shared.GameTime) {
	current := make(map[shared.PawnID]struct{})
	for _, p := range e.world.Pawns() {
		current[p.ID] = struct{}{}
		pc, ok := e.pawns[p.ID]
		if !ok {
			pc = newPawnCache(p, e.bindings.For(p.ID))
			e.pawns[p.ID] = pc
		}
		pc.beginPass(p)

		// A binding to a deleted loadout resolves to "no loadout".
		if pc.Binding.HasLoadout() {
			if _, exists := e.loadouts.Get(pc.Binding.LoadoutID); !exists {
				pc.Binding.LoadoutID = 0
			}
		}
	}
	for id := range e.pawns {
		if _, ok := current[id]; !ok {
			delete(e.pawns, id)
		}
	}
}

// refreshDesirability recomputes every pawn's per-loadout desirability
// snapshot when the daily cadence has elapsed. Allocation passes in between
// reuse the stale snapshot by design.
func (e *Engine) refreshDesirability(now shared.GameTime) {
	if e.hasDesirability && now.HoursSince(e.lastDesirability) < e.cfg.DesirabilityRefreshHours {
		// Newly tracked pawns still need a first snapshot.
		stale := false
		for _, pc := range e.pawns {
			if !pc.hasDesirability {
				stale = true
				break
			}
		}
		if !stale {
			return
		}
	}

	for _, l := range e.loadouts.All() {
		var eligible []*ports.PawnSnapshot
		var caches []*PawnCache
		for _, pc := range e.pawns {
			if l.IsEligible(pc.Pawn) {
				eligible = append(eligible, pc.Pawn)
				caches = append(caches, pc)
			}
		}
		pop := l.PopulationRangesOf(eligible)
		for _, pc := range caches {
			pc.AvailableLoadouts[l.ID] = l.Desirability(pc.Pawn, pop)
		}
	}
	for _, pc := range e.pawns {
		pc.desirabilityAt = now
		pc.hasDesirability = true
	}
	e.lastDesirability = now
	e.hasDesirability = true
}

func (e *Engine) allocate() allocation.Result {
	cands := make([]*allocation.Candidate, 0, len(e.pawns))
	for _, pc := range e.PawnCaches() {
		cands = append(cands, &allocation.Candidate{
			Pawn:         pc.Pawn,
			Binding:      pc.Binding,
			Desirability: pc.AvailableLoadouts,
		})
	}
	return allocation.NewAllocator(e.log).Allocate(cands, e.loadouts.All())
}

func (e *Engine) updatablePawns() []*PawnCache {
	var out []*PawnCache
	for _, pc := range e.PawnCaches() {
		if pc.shouldUpdate() {
			out = append(out, pc)
		}
	}
	return out
}

func (e *Engine) resolvedLoadout(pc *PawnCache) *loadout.Loadout {
	l, ok := e.loadouts.Get(pc.Binding.LoadoutID)
	if !ok {
		return nil
	}
	return l
}

// claimedByOther reports whether any other pawn claimed the item this pass.
// A pawn reconsidering its own current primary keeps priority over it.
func (e *Engine) claimedByOther(self shared.PawnID, id shared.ItemID) bool {
	for pawnID, pc := range e.pawns {
		if pawnID == self {
			continue
		}
		if pc.claims(id) {
			return true
		}
	}
	return false
}

// candidates runs the shared candidate pipeline for one rule: map items that
// satisfy the rule's availability, plus matching carried items, minus items
// claimed by other pawns, reserved by other pawns, biocoded to other pawns,
// or blocked by the pawn's shield.
func (e *Engine) candidates(pc *PawnCache, r *rule.Rule, now shared.GameTime, workTypes []shared.WorkTypeID) []*inventory.Item {
	env := e.rules.Env()
	seen := make(map[shared.ItemID]struct{})
	var out []*inventory.Item

	consider := func(item *inventory.Item) {
		if _, dup := seen[item.ID]; dup {
			return
		}
		seen[item.ID] = struct{}{}
		if !r.IsAvailable(env, item, now, workTypes) {
			return
		}
		if e.claimedByOther(pc.Pawn.ID, item.ID) {
			return
		}
		if item.ReservedBy != "" && item.ReservedBy != pc.Pawn.ID {
			return
		}
		if item.BiocodedTo != "" && item.BiocodedTo != pc.Pawn.ID {
			return
		}
		if e.shields != nil && e.shields.BlocksWeapon(pc.Pawn, item.Template) {
			return
		}
		out = append(out, item)
	}

	for _, item := range e.world.WeaponsOnMap() {
		consider(item)
	}
	for _, item := range pc.Pawn.AllWeapons() {
		consider(item)
	}
	return out
}

// pickBest selects the highest-scoring candidate. Ties break in favor of
// remembered sidearms, then currently carried items, then the stable item
// hash.
func (e *Engine) pickBest(pc *PawnCache, r *rule.Rule, items []*inventory.Item, now shared.GameTime, workTypes []shared.WorkTypeID) *inventory.Item {
	env := e.rules.Env()

	remembered := make(map[shared.TemplateID]struct{})
	if e.sidearms != nil {
		for _, tpl := range e.sidearms.Remembered(pc.Pawn.ID) {
			remembered[tpl] = struct{}{}
		}
	}

	rank := func(item *inventory.Item) int {
		if _, ok := remembered[item.Template.ID]; ok {
			return 2
		}
		if pc.carries(item.ID) {
			return 1
		}
		return 0
	}

	var best *inventory.Item
	var bestScore float64
	var bestRank int
	var bestHash uint64
	for _, item := range items {
		score := r.Score(env, item, now, workTypes)
		h := allocation.StableHash(string(item.ID))
		better := best == nil || score > bestScore
		if !better && score == bestScore {
			ir := rank(item)
			if ir > bestRank || (ir == bestRank && h < bestHash) {
				better = true
			}
		}
		if better {
			best, bestScore, bestRank, bestHash = item, score, rank(item), h
		}
	}
	return best
}

func (e *Engine) claim(pc *PawnCache, item *inventory.Item, reason Reason, ruleID int) {
	pc.AssignedWeapons[item.ID] = Claim{Reason: reason, RuleID: ruleID, Template: item.Template.ID}
}

// assignPrimary runs stage 1 for one pawn.
func (e *Engine) assignPrimary(pc *PawnCache, now shared.GameTime, report *PassReport) {
	l := e.resolvedLoadout(pc)
	if l == nil || l.Primary == loadout.PrimaryNone {
		return
	}

	kind := rule.KindRangedWeapon
	if l.Primary == loadout.PrimaryMelee {
		kind = rule.KindMeleeWeapon
	}
	r, ok := e.rules.Get(kind, l.PrimaryRuleID())
	if !ok {
		e.log.Log(shared.LevelWarn, "primary rule missing", map[string]interface{}{
			"loadout": l.Label, "rule": l.PrimaryRuleID(),
		})
		return
	}

	items := e.candidates(pc, r, now, nil)
	best := e.pickBest(pc, r, items, now, nil)
	if best == nil {
		return
	}

	e.claim(pc, best, ReasonPrimary, r.ID)
	if pc.Pawn.Primary == nil || pc.Pawn.Primary.ID != best.ID {
		e.world.RequestEquip(pc.Pawn.ID, best)
		report.EquipActions++
	}
}

// assignSidearms runs stage 2 (ranged) or 3 (melee) for one pawn.
func (e *Engine) assignSidearms(pc *PawnCache, kind rule.Kind, now shared.GameTime, report *PassReport) {
	l := e.resolvedLoadout(pc)
	if l == nil {
		return
	}

	ruleIDs := l.RangedSidearmRules
	reason := ReasonRangedSidearm
	if kind == rule.KindMeleeWeapon {
		ruleIDs = l.MeleeSidearmRules
		reason = ReasonMeleeSidearm
	}

	for _, id := range ruleIDs {
		r, ok := e.rules.Get(kind, id)
		if !ok {
			e.log.Log(shared.LevelWarn, "sidearm rule missing", map[string]interface{}{
				"loadout": l.Label, "rule": id,
			})
			continue
		}

		switch r.Mode {
		case rule.ModeBestOne:
			items := e.unclaimedCandidates(pc, r, now, nil)
			best := e.pickBest(pc, r, items, now, nil)
			if best != nil {
				e.takeSecondary(pc, best, reason, r.ID, report)
			}
		case rule.ModeAllAvailable:
			e.takeAllAvailable(pc, r, reason, now, nil, report)
		default:
			// Equip modes are an exhaustive enum the engine controls.
			panic(fmt.Sprintf("unhandled equip mode %d for %s rule", r.Mode, r.Kind))
		}
	}
}

// assignTools runs stage 4 for one pawn.
func (e *Engine) assignTools(pc *PawnCache, now shared.GameTime, report *PassReport) {
	l := e.resolvedLoadout(pc)
	if l == nil || l.ToolRuleID == 0 {
		return
	}
	r, ok := e.rules.Get(rule.KindTool, l.ToolRuleID)
	if !ok {
		e.log.Log(shared.LevelWarn, "tool rule missing", map[string]interface{}{
			"loadout": l.Label, "rule": l.ToolRuleID,
		})
		return
	}

	switch r.Mode {
	case rule.ModeOneForEveryWorkType:
		e.toolPerWorkType(pc, r, pc.Pawn.WorkTypes, now, report)
	case rule.ModeOneForEveryAssignedWorkType:
		e.toolPerWorkType(pc, r, pc.Pawn.AssignedWorkTypes, now, report)
	case rule.ModeBestOne:
		works := pc.Pawn.AssignedWorkTypes
		r.ComputeGloballyAvailable(e.rules.Env(), works)
		items := e.unclaimedCandidates(pc, r, now, works)
		best := e.pickBest(pc, r, items, now, works)
		if best != nil {
			e.takeSecondary(pc, best, ReasonTool, r.ID, report)
		}
	case rule.ModeAllAvailable:
		works := pc.Pawn.AssignedWorkTypes
		r.ComputeGloballyAvailable(e.rules.Env(), works)
		e.takeAllAvailable(pc, r, ReasonTool, now, works, report)
	default:
		panic(fmt.Sprintf("unhandled equip mode %d for %s rule", r.Mode, r.Kind))
	}
}

func (e *Engine) toolPerWorkType(pc *PawnCache, r *rule.Rule, works []shared.WorkTypeID, now shared.GameTime, report *PassReport) {
	for _, work := range works {
		subset := []shared.WorkTypeID{work}
		r.ComputeGloballyAvailable(e.rules.Env(), subset)
		items := e.unclaimedCandidates(pc, r, now, subset)
		best := e.pickBest(pc, r, items, now, subset)
		if best != nil {
			e.takeSecondary(pc, best, ReasonTool, r.ID, report)
		}
	}
}

// unclaimedCandidates is the candidate pipeline minus the pawn's own claims
// from earlier stages.
func (e *Engine) unclaimedCandidates(pc *PawnCache, r *rule.Rule, now shared.GameTime, workTypes []shared.WorkTypeID) []*inventory.Item {
	items := e.candidates(pc, r, now, workTypes)
	out := items[:0]
	for _, item := range items {
		if !pc.claims(item.ID) {
			out = append(out, item)
		}
	}
	return out
}

// takeSecondary claims a sidearm or tool and requests pickup when the pawn
// does not already carry it. The host's carry-capacity check gates pickup.
func (e *Engine) takeSecondary(pc *PawnCache, item *inventory.Item, reason Reason, ruleID int, report *PassReport) {
	if !pc.carries(item.ID) && !e.world.CanCarry(pc.Pawn.ID, item) {
		return
	}
	e.claim(pc, item, reason, ruleID)
	if e.sidearms != nil && reason != ReasonTool {
		e.sidearms.Remember(pc.Pawn.ID, item.Template.ID)
	}
	if !pc.carries(item.ID) {
		e.world.RequestPickupSecondary(pc.Pawn.ID, item)
		report.PickupActions++
	}
}

// takeAllAvailable claims every distinct-template candidate the pawn may
// carry, best-scoring instance of each template first.
func (e *Engine) takeAllAvailable(pc *PawnCache, r *rule.Rule, reason Reason, now shared.GameTime, workTypes []shared.WorkTypeID, report *PassReport) {
	env := e.rules.Env()
	items := e.unclaimedCandidates(pc, r, now, workTypes)
	// Scoring observes deviations into the shared range table, so it must
	// run once per item before the sort, never inside the comparator.
	scores := make(map[shared.ItemID]float64, len(items))
	for _, item := range items {
		scores[item.ID] = r.Score(env, item, now, workTypes)
	}
	sort.Slice(items, func(i, j int) bool {
		si, sj := scores[items[i].ID], scores[items[j].ID]
		if si != sj {
			return si > sj
		}
		return allocation.StableHash(string(items[i].ID)) < allocation.StableHash(string(items[j].ID))
	})
	for _, item := range items {
		if pc.claimedTemplate(item.Template.ID) {
			continue
		}
		e.takeSecondary(pc, item, reason, r.ID, report)
	}
}

// cleanup runs stage 5 for one pawn: drop carried weapons that were not
// claimed this pass (when the loadout asks for it) and forget stale
// remembered sidearms.
func (e *Engine) cleanup(pc *PawnCache, report *PassReport) {
	l := e.resolvedLoadout(pc)

	if l != nil && l.DropUnassignedWeapons {
		for _, item := range pc.Pawn.AllWeapons() {
			if pc.claims(item.ID) {
				continue
			}
			if !item.Template.IsRangedWeapon && !item.Template.IsMeleeWeapon {
				continue
			}
			e.world.DropItem(pc.Pawn.ID, item, false)
			report.DropActions++
		}
	}

	if e.sidearms != nil {
		for _, tpl := range e.sidearms.Remembered(pc.Pawn.ID) {
			if !pc.claimedTemplate(tpl) {
				e.sidearms.Forget(pc.Pawn.ID, tpl)
			}
		}
	}
}
