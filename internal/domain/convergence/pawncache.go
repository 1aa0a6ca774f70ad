// Package convergence implements the per-pass equipment loop: it evaluates
// each pawn's loadout rules against the map inventory and emits the actions
// that move the world toward the computed assignment.
package convergence

import (
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// Reason tags why an item was claimed for a pawn this pass.
type Reason string

const (
	ReasonPrimary       Reason = "primary"
	ReasonRangedSidearm Reason = "sidearm-ranged"
	ReasonMeleeSidearm  Reason = "sidearm-melee"
	ReasonTool          Reason = "tool"
)

// Claim records one item claimed for a pawn and the rule that claimed it.
type Claim struct {
	Reason   Reason
	RuleID   int
	Template shared.TemplateID
}

// PawnCache is the per-pass working state for one tracked pawn. It is map
// scoped and never persisted: recreated when the pawn enters the tracked
// pool, discarded when it leaves.
type PawnCache struct {
	Pawn    *ports.PawnSnapshot
	Binding *loadout.Binding
	Capable bool

	// AvailableLoadouts maps loadout id to the pawn's desirability score,
	// refreshed roughly daily, not every pass.
	AvailableLoadouts map[int]float64
	desirabilityAt    shared.GameTime
	hasDesirability   bool

	// AssignedWeapons holds this pass's item claims. Cleared every pass.
	AssignedWeapons map[shared.ItemID]Claim

	// AssignedAmmo holds this pass's per-stack ammo reservations.
	AssignedAmmo map[shared.ItemID]int
}

func newPawnCache(p *ports.PawnSnapshot, b *loadout.Binding) *PawnCache {
	return &PawnCache{
		Pawn:              p,
		Binding:           b,
		AvailableLoadouts: make(map[int]float64),
		AssignedWeapons:   make(map[shared.ItemID]Claim),
		AssignedAmmo:      make(map[shared.ItemID]int),
	}
}

// beginPass resets the per-pass state for a fresh snapshot.
func (pc *PawnCache) beginPass(p *ports.PawnSnapshot) {
	pc.Pawn = p
	pc.Capable = p.IsCapable()
	pc.AssignedWeapons = make(map[shared.ItemID]Claim)
	pc.AssignedAmmo = make(map[shared.ItemID]int)
}

// shouldUpdate reports whether the equipment stages run for this pawn.
func (pc *PawnCache) shouldUpdate() bool {
	return pc.Capable && pc.Binding.HasLoadout()
}

// claims reports whether this pawn claimed the item this pass.
func (pc *PawnCache) claims(id shared.ItemID) bool {
	_, ok := pc.AssignedWeapons[id]
	return ok
}

// carries reports whether the item is currently on the pawn.
func (pc *PawnCache) carries(id shared.ItemID) bool {
	if pc.Pawn.Primary != nil && pc.Pawn.Primary.ID == id {
		return true
	}
	for _, it := range pc.Pawn.Carried {
		if it.ID == id {
			return true
		}
	}
	return false
}

// claimedTemplate reports whether any claim this pass uses the template.
func (pc *PawnCache) claimedTemplate(tpl shared.TemplateID) bool {
	for _, c := range pc.AssignedWeapons {
		if c.Template == tpl {
			return true
		}
	}
	return false
}
