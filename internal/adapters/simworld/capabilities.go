package simworld

import (
	"sort"

	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// SimAmmoSystem implements ports.AmmoSystem from the templates' declared
// AcceptedAmmo lists.
type SimAmmoSystem struct{}

// AcceptedAmmo implements ports.AmmoSystem
func (SimAmmoSystem) AcceptedAmmo(weapon *inventory.Template) []shared.TemplateID {
	return weapon.AcceptedAmmo
}

// IsAmmunition implements ports.AmmoSystem
func (SimAmmoSystem) IsAmmunition(tpl *inventory.Template) bool {
	return tpl.IsAmmo
}

// SimShieldChecker implements ports.ShieldChecker: shielded pawns may only
// use weapons flagged usable with shields.
type SimShieldChecker struct {
	// Shielded marks pawns wearing a shield belt.
	Shielded map[shared.PawnID]bool
}

// NewSimShieldChecker creates a checker with no shielded pawns.
func NewSimShieldChecker() *SimShieldChecker {
	return &SimShieldChecker{Shielded: make(map[shared.PawnID]bool)}
}

// BlocksWeapon implements ports.ShieldChecker
func (c *SimShieldChecker) BlocksWeapon(pawn *ports.PawnSnapshot, tpl *inventory.Template) bool {
	if !c.Shielded[pawn.ID] {
		return false
	}
	return tpl.IsRangedWeapon && !tpl.UsableWithShields
}

// SimSidearmMemory implements ports.SidearmMemory in memory.
type SimSidearmMemory struct {
	remembered map[shared.PawnID]map[shared.TemplateID]struct{}
}

// NewSimSidearmMemory creates an empty sidearm memory.
func NewSimSidearmMemory() *SimSidearmMemory {
	return &SimSidearmMemory{remembered: make(map[shared.PawnID]map[shared.TemplateID]struct{})}
}

// Remembered implements ports.SidearmMemory
func (m *SimSidearmMemory) Remembered(pawn shared.PawnID) []shared.TemplateID {
	out := make([]shared.TemplateID, 0, len(m.remembered[pawn]))
	for tpl := range m.remembered[pawn] {
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Remember implements ports.SidearmMemory
func (m *SimSidearmMemory) Remember(pawn shared.PawnID, tpl shared.TemplateID) {
	if m.remembered[pawn] == nil {
		m.remembered[pawn] = make(map[shared.TemplateID]struct{})
	}
	m.remembered[pawn][tpl] = struct{}{}
}

// Forget implements ports.SidearmMemory
func (m *SimSidearmMemory) Forget(pawn shared.PawnID, tpl shared.TemplateID) {
	delete(m.remembered[pawn], tpl)
}
