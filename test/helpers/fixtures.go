package helpers

import (
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// AmmoTemplate builds a plain ammunition template.
func AmmoTemplate(id shared.TemplateID, marketValue float64) *inventory.Template {
	return &inventory.Template{
		ID:          id,
		Label:       string(id),
		IsAmmo:      true,
		MarketValue: marketValue,
	}
}

// RangedTemplate builds a minimal ranged weapon template firing the given
// ammunition.
func RangedTemplate(id shared.TemplateID, ammo []shared.TemplateID) *inventory.Template {
	return &inventory.Template{
		ID:             id,
		Label:          string(id),
		IsRangedWeapon: true,
		MarketValue:    100,
		AcceptedAmmo:   ammo,
		Verb: &inventory.RangedVerb{
			WarmupSeconds:   1,
			CooldownSeconds: 1,
			MaxRange:        25,
			BurstCount:      1,
			Damage:          10,
			AccuracyClose:   70,
			AccuracyShort:   70,
			AccuracyMedium:  70,
			AccuracyLong:    70,
		},
	}
}

// CarriedStack puts a fresh stack of the template directly into the pawn's
// inventory, bypassing the action sink.
func CarriedStack(p *ports.PawnSnapshot, tpl *inventory.Template, count int) *inventory.Item {
	item := &inventory.Item{
		ID:           shared.ItemID(fmt.Sprintf("%s-carried-%d", tpl.ID, len(p.Carried)+1)),
		Template:     tpl,
		HitPoints:    100,
		MaxHitPoints: 100,
		StackCount:   count,
	}
	p.Carried = append(p.Carried, item)
	return item
}
