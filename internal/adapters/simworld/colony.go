package simworld

import (
	"fmt"
	"math/rand"

	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// ColonyOptions controls the synthetic colony generator.
type ColonyOptions struct {
	Seed  int64
	Pawns int

	// WeaponsPerPawn scales how many spare weapons lie around the map.
	WeaponsPerPawn int
}

// RegisterStats seeds the registry with the native stat definitions the sim
// templates and presets reference.
func RegisterStats(reg *stats.Registry) {
	defs := []stats.Def{
		{ID: rule.StatMass, Label: "Mass", Baseline: 0, Category: stats.CategoryWeapon},
		{ID: rule.StatMeleeDPS, Label: "Melee DPS", Baseline: 0, Category: stats.CategoryMelee},
		{ID: rule.StatRangeMax, Label: "Range", Baseline: 0, Category: stats.CategoryRanged},
		{ID: rule.StatWorkSpeed, Label: "Global work speed", Baseline: 1, Category: stats.CategoryTool},
		{ID: rule.StatConstructSpd, Label: "Construction speed", Baseline: 1, Category: stats.CategoryTool},
		{ID: rule.StatMiningSpd, Label: "Mining speed", Baseline: 1, Category: stats.CategoryTool},
		{ID: rule.StatPlantWorkSpd, Label: "Plant work speed", Baseline: 1, Category: stats.CategoryTool},
		{ID: rule.StatMedicalTendQl, Label: "Medical tend quality", Baseline: 1, Category: stats.CategoryTool},
	}
	for _, d := range defs {
		reg.Register(d)
	}
}

// StandardTemplates registers the sim's weapon, tool and ammunition
// templates and returns them keyed by id.
func StandardTemplates(w *SimWorld) map[shared.TemplateID]*inventory.Template {
	templates := []*inventory.Template{
		{
			ID: "SimRifleRounds", Label: "rifle rounds",
			IsAmmo: true, MarketValue: 0.2,
		},
		{
			ID: "SimSniperRounds", Label: "sniper rounds",
			IsAmmo: true, MarketValue: 0.5,
		},
		{
			ID: "SimAssaultRifle", Label: "assault rifle",
			IsRangedWeapon: true, MarketValue: 320,
			AcceptedAmmo: []shared.TemplateID{"SimRifleRounds"},
			BaseStats: map[stats.StatID]float64{
				rule.StatMass:     3.5,
				rule.StatRangeMax: 31,
			},
			Verb: &inventory.RangedVerb{
				WarmupSeconds:   1.0,
				CooldownSeconds: 1.7,
				MaxRange:        31,
				BurstCount:      3,
				BurstDelayTicks: 8,
				Damage:          11,
				ArmorPen:        0.16,
				AccuracyClose:   0.65,
				AccuracyShort:   0.8,
				AccuracyMedium:  0.75,
				AccuracyLong:    0.55,
			},
		},
		{
			ID: "SimSniperRifle", Label: "sniper rifle",
			IsRangedWeapon: true, MarketValue: 480,
			AcceptedAmmo: []shared.TemplateID{"SimSniperRounds"},
			BaseStats: map[stats.StatID]float64{
				rule.StatMass:     6.0,
				rule.StatRangeMax: 45,
			},
			Verb: &inventory.RangedVerb{
				WarmupSeconds:   3.5,
				CooldownSeconds: 2.4,
				MaxRange:        45,
				BurstCount:      1,
				Damage:          25,
				ArmorPen:        0.35,
				AccuracyClose:   0.5,
				AccuracyShort:   0.7,
				AccuracyMedium:  0.86,
				AccuracyLong:    0.88,
			},
		},
		{
			ID: "SimMachinePistol", Label: "machine pistol",
			IsRangedWeapon: true, MarketValue: 140, UsableWithShields: false,
			AcceptedAmmo: []shared.TemplateID{"SimRifleRounds"},
			BaseStats: map[stats.StatID]float64{
				rule.StatMass:     1.2,
				rule.StatRangeMax: 20,
			},
			Verb: &inventory.RangedVerb{
				WarmupSeconds:   0.3,
				CooldownSeconds: 1.2,
				MaxRange:        20,
				BurstCount:      5,
				BurstDelayTicks: 6,
				Damage:          6,
				ArmorPen:        0.09,
				AccuracyClose:   0.8,
				AccuracyShort:   0.7,
				AccuracyMedium:  0.45,
				AccuracyLong:    0.25,
			},
		},
		{
			ID: "SimKnife", Label: "combat knife",
			IsMeleeWeapon: true, UsableWithShields: true, MarketValue: 80,
			BaseStats: map[stats.StatID]float64{
				rule.StatMass:     0.7,
				rule.StatMeleeDPS: 5.2,
			},
			MeleeTools: []inventory.MeleeToolHead{
				{Label: "edge", Power: 15, ArmorPen: 0.22, CooldownSeconds: 1.4},
				{Label: "point", Power: 13, ArmorPen: 0.30, CooldownSeconds: 1.5},
			},
		},
		{
			ID: "SimMace", Label: "mace",
			IsMeleeWeapon: true, UsableWithShields: true, MarketValue: 110,
			BaseStats: map[stats.StatID]float64{
				rule.StatMass:     2.0,
				rule.StatMeleeDPS: 5.8,
			},
			MeleeTools: []inventory.MeleeToolHead{
				{Label: "head", Power: 16, ArmorPen: 0.45, CooldownSeconds: 2.0},
			},
		},
		{
			ID: "SimMultitool", Label: "multitool",
			IsTool: true, MarketValue: 150,
			BaseStats: map[stats.StatID]float64{
				rule.StatMass:         1.0,
				rule.StatWorkSpeed:    1.1,
				rule.StatConstructSpd: 1.15,
				rule.StatMiningSpd:    1.1,
			},
		},
		{
			ID: "SimHoe", Label: "hoe",
			IsTool: true, MarketValue: 60,
			BaseStats: map[stats.StatID]float64{
				rule.StatMass:         1.5,
				rule.StatPlantWorkSpd: 1.3,
			},
		},
		{
			ID: "SimMedkit", Label: "field medkit",
			IsTool: true, MarketValue: 90,
			BaseStats: map[stats.StatID]float64{
				rule.StatMass:          0.5,
				rule.StatMedicalTendQl: 1.25,
			},
		},
	}
	out := make(map[shared.TemplateID]*inventory.Template, len(templates))
	for _, tpl := range templates {
		w.AddTemplate(tpl)
		out[tpl.ID] = tpl
	}
	return out
}

var colonistNames = []string{
	"Ash", "Bea", "Cole", "Dara", "Eli", "Fen", "Gus", "Hale", "Ira", "Jun",
	"Kai", "Lena", "Moss", "Nia", "Oren", "Pia", "Quinn", "Rhea", "Sol", "Tam",
}

// GenerateColony populates the world with templates, a pawn pool and spare
// equipment on the map. Deterministic for a given seed.
func GenerateColony(w *SimWorld, opts ColonyOptions) {
	if opts.Pawns <= 0 {
		opts.Pawns = 10
	}
	if opts.WeaponsPerPawn <= 0 {
		opts.WeaponsPerPawn = 2
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	StandardTemplates(w)

	workTypes := []shared.WorkTypeID{"Construction", "Mining", "Growing", "Doctor"}

	for i := 0; i < opts.Pawns; i++ {
		name := colonistNames[i%len(colonistNames)]
		id := shared.PawnID(fmt.Sprintf("sim-pawn-%02d", i+1))

		p := &ports.PawnSnapshot{
			ID:   id,
			Name: fmt.Sprintf("%s %d", name, i+1),
			Traits: map[shared.TraitID]bool{},
			Skills: map[shared.SkillID]ports.SkillSnapshot{
				"Shooting": {Level: rng.Intn(15), Passion: ports.PassionLevel(rng.Intn(3))},
				"Melee":    {Level: rng.Intn(15), Passion: ports.PassionLevel(rng.Intn(3))},
			},
			Capacities: map[shared.CapacityID]float64{
				"Sight":        0.6 + rng.Float64()*0.7,
				"Manipulation": 0.7 + rng.Float64()*0.6,
				"Moving":       0.7 + rng.Float64()*0.6,
			},
			Stats:           map[stats.StatID]float64{},
			EnabledWorkTags: map[shared.WorkTagID]bool{"Violent": rng.Float64() > 0.15},
		}
		if rng.Float64() < 0.2 {
			p.Traits["Brawler"] = true
		}
		if rng.Float64() < 0.15 {
			p.Traits["ShootingAccuracy"] = true
		}

		// Every pawn can do all work; a random subset is actively assigned.
		p.WorkTypes = append(p.WorkTypes, workTypes...)
		for _, work := range workTypes {
			if rng.Float64() < 0.5 {
				p.AssignedWorkTypes = append(p.AssignedWorkTypes, work)
			}
		}
		w.AddPawn(p)
	}

	// Scatter spare equipment so rules have candidates to choose between.
	weaponPool := []shared.TemplateID{
		"SimAssaultRifle", "SimSniperRifle", "SimMachinePistol",
		"SimKnife", "SimMace", "SimMultitool", "SimHoe", "SimMedkit",
	}
	for i := 0; i < opts.Pawns*opts.WeaponsPerPawn; i++ {
		tpl := weaponPool[rng.Intn(len(weaponPool))]
		maxHP := 100
		hp := 40 + rng.Intn(61)
		w.PlaceItem(tpl, hp, maxHP)
	}
	for i := 0; i < opts.Pawns; i++ {
		w.PlaceStack("SimRifleRounds", 150+rng.Intn(150))
		if i%2 == 0 {
			w.PlaceStack("SimSniperRounds", 60+rng.Intn(80))
		}
	}
}
