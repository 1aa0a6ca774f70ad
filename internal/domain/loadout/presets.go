package loadout

import (
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// Trait, capacity and skill definition names the shipped presets reference.
// A host without one of them treats the predicate as always satisfied.
const (
	traitBrawler  shared.TraitID = "Brawler"
	traitShooting shared.TraitID = "ShootingAccuracy"

	tagViolent shared.WorkTagID = "Violent"

	capSight        = "Sight"
	capManipulation = "Manipulation"
	capMoving       = "Moving"

	skillShooting shared.SkillID = "Shooting"
	skillMelee    shared.SkillID = "Melee"
)

func f(v float64) *float64 { return &v }

// DefaultLoadouts seeds a fresh save with the six shipped presets, wired to
// the shipped rule presets.
func DefaultLoadouts(s *Set, rules rule.PresetIDs) {
	assault := s.Create("Assault")
	assault.Priority = 5
	assault.Primary = PrimaryRanged
	assault.PrimaryRangedRuleID = rules.AssaultRifle
	assault.MeleeSidearmRules = []int{rules.Blade}
	assault.DropUnassignedWeapons = true
	assault.WorkTagRequirements[tagViolent] = true
	assault.Limits = append(assault.Limits,
		MetricLimit{Ref: MetricRef{Kind: MetricCapacity, ID: capSight}, Min: f(0.6)})
	assault.Weights = append(assault.Weights,
		MetricWeight{Ref: MetricRef{Kind: MetricSkill, ID: string(skillShooting)}, Weight: 1.5},
		MetricWeight{Ref: MetricRef{Kind: MetricCapacity, ID: capMoving}, Weight: 0.5})

	sniper := s.Create("Sniper")
	sniper.Priority = 3
	sniper.Primary = PrimaryRanged
	sniper.PrimaryRangedRuleID = rules.SniperRifle
	sniper.MeleeSidearmRules = []int{rules.Blade}
	sniper.DropUnassignedWeapons = true
	sniper.WorkTagRequirements[tagViolent] = true
	sniper.TraitRequirements[traitBrawler] = false
	sniper.PassionRequirements[skillShooting] = ports.PassionMinor
	sniper.Limits = append(sniper.Limits,
		MetricLimit{Ref: MetricRef{Kind: MetricCapacity, ID: capSight}, Min: f(0.9)},
		MetricLimit{Ref: MetricRef{Kind: MetricSkill, ID: string(skillShooting)}, Min: f(6)})
	sniper.Weights = append(sniper.Weights,
		MetricWeight{Ref: MetricRef{Kind: MetricSkill, ID: string(skillShooting)}, Weight: 2},
		MetricWeight{Ref: MetricRef{Kind: MetricCapacity, ID: capSight}, Weight: 1})

	support := s.Create("Support")
	support.Priority = 2
	support.Primary = PrimaryRanged
	support.PrimaryRangedRuleID = rules.SupportGun
	support.ToolRuleID = rules.GeneralTool
	support.WorkTagRequirements[tagViolent] = true
	support.Weights = append(support.Weights,
		MetricWeight{Ref: MetricRef{Kind: MetricCapacity, ID: capManipulation}, Weight: 1})

	slasher := s.Create("Slasher")
	slasher.Priority = 4
	slasher.Primary = PrimaryMelee
	slasher.PrimaryMeleeRuleID = rules.Blade
	slasher.RangedSidearmRules = []int{rules.SupportGun}
	slasher.DropUnassignedWeapons = true
	slasher.WorkTagRequirements[tagViolent] = true
	slasher.TraitRequirements[traitBrawler] = true
	slasher.Weights = append(slasher.Weights,
		MetricWeight{Ref: MetricRef{Kind: MetricSkill, ID: string(skillMelee)}, Weight: 2},
		MetricWeight{Ref: MetricRef{Kind: MetricCapacity, ID: capMoving}, Weight: 1})

	crusher := s.Create("Crusher")
	crusher.Priority = 4
	crusher.Primary = PrimaryMelee
	crusher.PrimaryMeleeRuleID = rules.Blunt
	crusher.DropUnassignedWeapons = true
	crusher.WorkTagRequirements[tagViolent] = true
	crusher.PassionRequirements[skillMelee] = ports.PassionMinor
	crusher.Limits = append(crusher.Limits,
		MetricLimit{Ref: MetricRef{Kind: MetricSkill, ID: string(skillMelee)}, Min: f(4)})
	crusher.Weights = append(crusher.Weights,
		MetricWeight{Ref: MetricRef{Kind: MetricSkill, ID: string(skillMelee)}, Weight: 2})

	pacifist := s.Create("Pacifist")
	pacifist.Priority = 1
	pacifist.Primary = PrimaryNone
	pacifist.ToolRuleID = rules.GeneralTool
	pacifist.DropUnassignedWeapons = true
	pacifist.WorkTagRequirements[tagViolent] = false
	pacifist.Weights = append(pacifist.Weights,
		MetricWeight{Ref: MetricRef{Kind: MetricCapacity, ID: capManipulation}, Weight: 1})
}
