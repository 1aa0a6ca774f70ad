// Package simworld is an in-memory host: a synthetic colony the engine can
// run against without a game attached. It backs the simulate command and the
// BDD suite.
package simworld

import (
	"sort"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// SimWorld implements ports.World and rule.Catalog over in-memory state.
// Actions apply immediately: the engine re-observes the outcome on its next
// pass, same as against a real host.
type SimWorld struct {
	mapID      shared.MapID
	playerHome bool
	paused     bool
	clock      *shared.FixedClock

	templates map[shared.TemplateID]*inventory.Template
	mapItems  map[shared.ItemID]*inventory.Item
	pawns     map[shared.PawnID]*ports.PawnSnapshot

	// carryLimit caps secondary items per pawn, the sim's stand-in for the
	// host's mass and bulk checks.
	carryLimit int

	// limiter throttles accepted actions the way a real host throttles job
	// dispatch. Rejected actions are simply dropped; the engine retries on
	// a later pass.
	limiter *rate.Limiter

	DroppedActions int

	log shared.EngineLogger
}

// NewSimWorld creates an empty world. Populate it via AddTemplate, AddPawn
// and PlaceItem, or use GenerateColony.
func NewSimWorld(mapID shared.MapID, clock *shared.FixedClock, logger shared.EngineLogger) *SimWorld {
	if logger == nil {
		logger = shared.NopLogger{}
	}
	return &SimWorld{
		mapID:      mapID,
		playerHome: true,
		clock:      clock,
		templates:  make(map[shared.TemplateID]*inventory.Template),
		mapItems:   make(map[shared.ItemID]*inventory.Item),
		pawns:      make(map[shared.PawnID]*ports.PawnSnapshot),
		carryLimit: 6,
		limiter:    rate.NewLimiter(rate.Inf, 0),
		log:        logger,
	}
}

// SetActionRate throttles accepted actions per second.
func (w *SimWorld) SetActionRate(perSecond float64, burst int) {
	w.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// SetPaused pauses or resumes the world.
func (w *SimWorld) SetPaused(p bool) { w.paused = p }

// SetPlayerHome marks whether this map is a player home.
func (w *SimWorld) SetPlayerHome(h bool) { w.playerHome = h }

// SetCarryLimit adjusts the sim's secondary carry cap.
func (w *SimWorld) SetCarryLimit(n int) { w.carryLimit = n }

// MapID implements ports.World
func (w *SimWorld) MapID() shared.MapID { return w.mapID }

// IsPlayerHome implements ports.World
func (w *SimWorld) IsPlayerHome() bool { return w.playerHome }

// Paused implements ports.World
func (w *SimWorld) Paused() bool { return w.paused }

// Now implements ports.World
func (w *SimWorld) Now() shared.GameTime { return w.clock.Now() }

// AddTemplate registers an item template.
func (w *SimWorld) AddTemplate(tpl *inventory.Template) {
	w.templates[tpl.ID] = tpl
}

// Templates implements rule.Catalog
func (w *SimWorld) Templates() []*inventory.Template {
	out := make([]*inventory.Template, 0, len(w.templates))
	for _, tpl := range w.templates {
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Template implements rule.Catalog
func (w *SimWorld) Template(id shared.TemplateID) *inventory.Template {
	return w.templates[id]
}

// AddPawn adds a colonist to the pool.
func (w *SimWorld) AddPawn(p *ports.PawnSnapshot) {
	w.pawns[p.ID] = p
}

// RemovePawn drops a colonist from the pool.
func (w *SimWorld) RemovePawn(id shared.PawnID) {
	delete(w.pawns, id)
}

// Pawn resolves a pawn by id for test assertions.
func (w *SimWorld) Pawn(id shared.PawnID) *ports.PawnSnapshot {
	return w.pawns[id]
}

// Pawns implements ports.PawnSource
func (w *SimWorld) Pawns() []*ports.PawnSnapshot {
	out := make([]*ports.PawnSnapshot, 0, len(w.pawns))
	for _, p := range w.pawns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CanCarry implements ports.PawnSource
func (w *SimWorld) CanCarry(pawn shared.PawnID, item *inventory.Item) bool {
	p, ok := w.pawns[pawn]
	if !ok {
		return false
	}
	return len(p.Carried) < w.carryLimit
}

// PlaceItem creates an item of the template on the map and returns it.
func (w *SimWorld) PlaceItem(tpl shared.TemplateID, hitPoints, maxHitPoints int) *inventory.Item {
	t, ok := w.templates[tpl]
	if !ok {
		return nil
	}
	item := &inventory.Item{
		ID:           shared.ItemID(uuid.New().String()),
		Template:     t,
		HitPoints:    hitPoints,
		MaxHitPoints: maxHitPoints,
		StackCount:   1,
	}
	w.mapItems[item.ID] = item
	return item
}

// PlaceStack creates an ammunition stack on the map and returns it.
func (w *SimWorld) PlaceStack(tpl shared.TemplateID, count int) *inventory.Item {
	item := w.PlaceItem(tpl, 100, 100)
	if item != nil {
		item.StackCount = count
	}
	return item
}

// WeaponsOnMap implements ports.ItemIndex
func (w *SimWorld) WeaponsOnMap() []*inventory.Item {
	var out []*inventory.Item
	for _, item := range w.mapItems {
		if item.Template.IsRangedWeapon || item.Template.IsMeleeWeapon || item.Template.IsTool {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ItemsOfTemplate implements ports.ItemIndex
func (w *SimWorld) ItemsOfTemplate(tpl shared.TemplateID) []*inventory.Item {
	var out []*inventory.Item
	for _, item := range w.mapItems {
		if item.Template.ID == tpl {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *SimWorld) allow() bool {
	if w.limiter.Allow() {
		return true
	}
	w.DroppedActions++
	return false
}

// RequestEquip implements ports.ActionSink. The previous primary is dropped
// where the pawn stands.
func (w *SimWorld) RequestEquip(pawn shared.PawnID, item *inventory.Item) {
	if !w.allow() {
		return
	}
	p, ok := w.pawns[pawn]
	if !ok {
		return
	}
	if p.Primary != nil {
		w.mapItems[p.Primary.ID] = p.Primary
	}
	w.detach(p, item)
	delete(w.mapItems, item.ID)
	p.Primary = item
	w.log.Log(shared.LevelDebug, "equip", map[string]interface{}{
		"pawn": string(pawn), "item": string(item.ID), "template": string(item.Template.ID),
	})
}

// RequestPickupSecondary implements ports.ActionSink
func (w *SimWorld) RequestPickupSecondary(pawn shared.PawnID, item *inventory.Item) {
	if !w.allow() {
		return
	}
	p, ok := w.pawns[pawn]
	if !ok {
		return
	}
	if _, onMap := w.mapItems[item.ID]; !onMap {
		return
	}
	delete(w.mapItems, item.ID)
	p.Carried = append(p.Carried, item)
}

// RequestPickupCount implements ports.ActionSink. Taking part of a stack
// splits it; taking all of it moves the whole stack.
func (w *SimWorld) RequestPickupCount(pawn shared.PawnID, item *inventory.Item, count int) {
	if !w.allow() {
		return
	}
	p, ok := w.pawns[pawn]
	if !ok {
		return
	}
	stack, onMap := w.mapItems[item.ID]
	if !onMap || count <= 0 {
		return
	}
	if count >= stack.StackCount {
		delete(w.mapItems, stack.ID)
		p.Carried = append(p.Carried, stack)
		return
	}
	stack.StackCount -= count
	taken := &inventory.Item{
		ID:           shared.ItemID(uuid.New().String()),
		Template:     stack.Template,
		HitPoints:    stack.HitPoints,
		MaxHitPoints: stack.MaxHitPoints,
		StackCount:   count,
	}
	p.Carried = append(p.Carried, taken)
}

// DropItem implements ports.ActionSink
func (w *SimWorld) DropItem(pawn shared.PawnID, item *inventory.Item, forced bool) {
	if !w.allow() {
		return
	}
	p, ok := w.pawns[pawn]
	if !ok {
		return
	}
	w.detach(p, item)
	if item.Template.DestroyOnDrop && !forced {
		return
	}
	w.mapItems[item.ID] = item
}

// detach removes the item from the pawn's primary slot or carried list.
func (w *SimWorld) detach(p *ports.PawnSnapshot, item *inventory.Item) {
	if p.Primary != nil && p.Primary.ID == item.ID {
		p.Primary = nil
		return
	}
	for i, carried := range p.Carried {
		if carried.ID == item.ID {
			p.Carried = append(p.Carried[:i], p.Carried[i+1:]...)
			return
		}
	}
}
