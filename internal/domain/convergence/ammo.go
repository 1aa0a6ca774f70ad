package convergence

import (
	"sort"

	"github.com/andrescamacho/quartermaster-go/internal/domain/allocation"
	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// resupplyAmmo runs the ammunition sub-loop for one pawn: for every weapon
// claimed this pass, top carried ammunition up to the claiming rule's target
// and drop surplus stacks. Disabled entirely when no ammo capability is
// wired.
func (e *Engine) resupplyAmmo(pc *PawnCache, now shared.GameTime, report *PassReport) {
	if e.ammo == nil {
		return
	}

	// Deterministic claim order: sort by claimed item id.
	ids := make([]shared.ItemID, 0, len(pc.AssignedWeapons))
	for id := range pc.AssignedWeapons {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		claim := pc.AssignedWeapons[id]
		if claim.Reason == ReasonTool {
			continue
		}
		r, ok := e.rules.Get(claimKind(claim.Reason), claim.RuleID)
		if !ok {
			continue
		}
		tpl := e.rules.Env().Catalog.Template(claim.Template)
		if tpl == nil {
			continue
		}

		accepted := e.ammo.AcceptedAmmo(tpl)
		target := r.AmmoCount
		if len(accepted) == 0 {
			// Self-consuming weapons (thrown) stock copies of themselves.
			if !e.ammo.IsAmmunition(tpl) {
				continue
			}
			accepted = []shared.TemplateID{tpl.ID}
			if target <= 0 {
				target = e.cfg.AmmoSelfTarget
			}
		}
		if target <= 0 {
			continue
		}
		e.stockAmmo(pc, accepted, target, report)
	}
}

func claimKind(reason Reason) rule.Kind {
	if reason == ReasonMeleeSidearm {
		return rule.KindMeleeWeapon
	}
	return rule.KindRangedWeapon
}

// stockAmmo converges the pawn's stock of the accepted templates toward the
// target count. Map stacks are shared: a pickup here reserves units against
// the stack so a later pawn in the same pass sees only the remainder.
func (e *Engine) stockAmmo(pc *PawnCache, accepted []shared.TemplateID, target int, report *PassReport) {
	acceptedSet := make(map[shared.TemplateID]struct{}, len(accepted))
	for _, tpl := range accepted {
		acceptedSet[tpl] = struct{}{}
	}

	current := 0
	var carried []*inventory.Item
	for _, item := range pc.Pawn.Carried {
		if _, ok := acceptedSet[item.Template.ID]; !ok {
			continue
		}
		// A claimed weapon that doubles as its own ammo counts as stock but
		// is never a drop candidate.
		current += item.StackCount
		if !pc.claims(item.ID) {
			carried = append(carried, item)
		}
	}
	// Only reservations against stacks of an accepted template count; the
	// pawn may hold reservations for another weapon's caliber too.
	for _, tpl := range accepted {
		for _, stack := range e.world.ItemsOfTemplate(tpl) {
			current += pc.AssignedAmmo[stack.ID]
		}
	}

	if current < target {
		e.pickupAmmo(pc, accepted, target-current, report)
		return
	}

	// Drop whole surplus stacks, cheapest first, never dipping below target.
	sort.Slice(carried, func(i, j int) bool {
		vi, vj := carried[i].MarketValue(), carried[j].MarketValue()
		if vi != vj {
			return vi < vj
		}
		return allocation.StableHash(string(carried[i].ID)) < allocation.StableHash(string(carried[j].ID))
	})
	for _, item := range carried {
		if current-item.StackCount < target {
			break
		}
		e.world.DropItem(pc.Pawn.ID, item, false)
		current -= item.StackCount
		report.AmmoDrops++
	}
}

// pickupAmmo reserves up to deficit units from map stacks, best value first,
// honoring units already reserved by other pawns this pass.
func (e *Engine) pickupAmmo(pc *PawnCache, accepted []shared.TemplateID, deficit int, report *PassReport) {
	var stacks []*inventory.Item
	for _, tpl := range accepted {
		for _, item := range e.world.ItemsOfTemplate(tpl) {
			if item.Forbidden {
				continue
			}
			if item.ReservedBy != "" && item.ReservedBy != pc.Pawn.ID {
				continue
			}
			stacks = append(stacks, item)
		}
	}
	sort.Slice(stacks, func(i, j int) bool {
		vi, vj := stacks[i].MarketValue(), stacks[j].MarketValue()
		if vi != vj {
			return vi > vj
		}
		return allocation.StableHash(string(stacks[i].ID)) < allocation.StableHash(string(stacks[j].ID))
	})

	for _, item := range stacks {
		if deficit <= 0 {
			return
		}
		avail := item.StackCount - e.reservedUnits(item.ID)
		if avail <= 0 {
			continue
		}
		take := avail
		if take > deficit {
			take = deficit
		}
		pc.AssignedAmmo[item.ID] += take
		deficit -= take
		e.world.RequestPickupCount(pc.Pawn.ID, item, take)
		report.AmmoPickups++
	}
}

// reservedUnits sums every pawn's reservations against one stack this pass.
func (e *Engine) reservedUnits(id shared.ItemID) int {
	total := 0
	for _, pc := range e.pawns {
		total += pc.AssignedAmmo[id]
	}
	return total
}
