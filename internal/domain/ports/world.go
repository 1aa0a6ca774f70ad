// Package ports declares the boundary between the engine and the host
// simulation. The host is consumed as an opaque data provider and action
// sink; nothing here is owned by the engine.
package ports

import (
	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// PassionLevel is a pawn's passion for a skill.
type PassionLevel int

const (
	PassionNone PassionLevel = iota
	PassionMinor
	PassionMajor
)

// SkillSnapshot is one skill's level and passion.
type SkillSnapshot struct {
	Level   int
	Passion PassionLevel
}

// PawnSnapshot is the engine's read-only view of one colonist, captured by
// the host at the start of a pass.
type PawnSnapshot struct {
	ID   shared.PawnID
	Name string

	Dead        bool
	Downed      bool
	Drafted     bool
	MentalBreak bool

	Traits          map[shared.TraitID]bool
	Skills          map[shared.SkillID]SkillSnapshot
	Capacities      map[shared.CapacityID]float64
	Stats           map[stats.StatID]float64
	EnabledWorkTags map[shared.WorkTagID]bool

	// WorkTypes the pawn can perform, and the subset actively assigned in
	// its work settings.
	WorkTypes         []shared.WorkTypeID
	AssignedWorkTypes []shared.WorkTypeID

	Primary *inventory.Item
	Carried []*inventory.Item
}

// IsCapable reports whether the pawn can receive equipment updates this pass.
func (p *PawnSnapshot) IsCapable() bool {
	return !p.Dead && !p.Downed && !p.Drafted && !p.MentalBreak
}

// AllWeapons returns the primary plus all carried items.
func (p *PawnSnapshot) AllWeapons() []*inventory.Item {
	out := make([]*inventory.Item, 0, len(p.Carried)+1)
	if p.Primary != nil {
		out = append(out, p.Primary)
	}
	out = append(out, p.Carried...)
	return out
}

// HasTrait reports trait presence.
func (p *PawnSnapshot) HasTrait(id shared.TraitID) bool { return p.Traits[id] }

// PawnSource provides the tracked pawn pool for one map.
type PawnSource interface {
	// Pawns returns the current colonist pool.
	Pawns() []*PawnSnapshot

	// CanCarry is the host's carry-capacity check for picking up one more
	// secondary item.
	CanCarry(pawn shared.PawnID, item *inventory.Item) bool
}

// ItemIndex queries the map's item listings.
type ItemIndex interface {
	// WeaponsOnMap returns every weapon-group item in the region.
	WeaponsOnMap() []*inventory.Item

	// ItemsOfTemplate returns every item of one template in the region.
	ItemsOfTemplate(tpl shared.TemplateID) []*inventory.Item
}

// ActionSink receives the engine's proposed actions. Calls are fire and
// forget; the host queues or executes them and the engine re-observes the
// outcome on the next pass.
type ActionSink interface {
	RequestEquip(pawn shared.PawnID, item *inventory.Item)
	RequestPickupSecondary(pawn shared.PawnID, item *inventory.Item)
	RequestPickupCount(pawn shared.PawnID, item *inventory.Item, count int)
	DropItem(pawn shared.PawnID, item *inventory.Item, forced bool)
}

// World is one map region seen through every port at once.
type World interface {
	MapID() shared.MapID
	IsPlayerHome() bool
	Paused() bool
	Now() shared.GameTime

	PawnSource
	ItemIndex
	ActionSink
}

// AmmoSystem is the optional ammunition companion capability. A nil
// AmmoSystem disables the resupply sub-loop silently.
type AmmoSystem interface {
	// AcceptedAmmo lists the ammunition templates a weapon fires. Empty
	// means the weapon does not use ammunition.
	AcceptedAmmo(weapon *inventory.Template) []shared.TemplateID

	// IsAmmunition reports whether a template is itself ammunition.
	IsAmmunition(tpl *inventory.Template) bool
}

// ShieldChecker is the optional shield companion capability. A nil checker
// disables the shield-compatibility filter silently.
type ShieldChecker interface {
	// BlocksWeapon reports whether the pawn's equipped shield forbids the
	// weapon template.
	BlocksWeapon(pawn *PawnSnapshot, tpl *inventory.Template) bool
}

// SidearmMemory is the optional sidearm-memory companion capability. A nil
// memory disables remembered-sidearm bookkeeping silently.
type SidearmMemory interface {
	// Remembered lists the weapon templates the pawn is remembered to carry.
	Remembered(pawn shared.PawnID) []shared.TemplateID

	// Remember records a weapon template for the pawn.
	Remember(pawn shared.PawnID, tpl shared.TemplateID)

	// Forget clears a remembered weapon template for the pawn.
	Forget(pawn shared.PawnID, tpl shared.TemplateID)
}
