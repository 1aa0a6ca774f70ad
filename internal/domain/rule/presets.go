package rule

import (
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// Native stat ids the shipped presets weight. These match the host's stat
// definition names; a host without one of them simply scores it as 0.
const (
	StatMass          stats.StatID = "Mass"
	StatMeleeDPS      stats.StatID = "MeleeWeapon_AverageDPS"
	StatRangeMax      stats.StatID = "RangedWeapon_Range"
	StatWorkSpeed     stats.StatID = "WorkSpeedGlobal"
	StatConstructSpd  stats.StatID = "ConstructionSpeed"
	StatMiningSpd     stats.StatID = "MiningSpeed"
	StatPlantWorkSpd  stats.StatID = "PlantWorkSpeed"
	StatMedicalTendQl stats.StatID = "MedicalTendQuality"
)

// PresetIDs records the rule ids the shipped loadout presets reference.
type PresetIDs struct {
	AssaultRifle int
	SniperRifle  int
	SupportGun   int
	Blade        int
	Blunt        int
	GeneralTool  int
}

// DefaultRules seeds a fresh save with the shipped rule presets and returns
// their ids. Protected: the editor can tweak but not delete them.
func DefaultRules(s *Set) PresetIDs {
	var ids PresetIDs

	assault := s.Create(KindRangedWeapon, "Assault rifle")
	assault.Protected = true
	assault.SetStatWeight(stats.StatRangedAccuracyDPS, 2.0, true)
	assault.SetStatWeight(stats.StatRangedArmorPen, 0.5, true)
	assault.AmmoCount = 120
	ids.AssaultRifle = assault.ID

	sniper := s.Create(KindRangedWeapon, "Sniper rifle")
	sniper.Protected = true
	sniper.SetStatWeight(stats.StatRangedAccuracyDPS, 1.0, true)
	sniper.SetStatWeight(StatRangeMax, 2.0, true)
	sniper.SetStatWeight(stats.StatRangedArmorPen, 1.0, true)
	sniper.AmmoCount = 60
	ids.SniperRifle = sniper.ID

	support := s.Create(KindRangedWeapon, "Support gun")
	support.Protected = true
	support.SetStatWeight(stats.StatRangedDPS, 1.0, true)
	support.SetStatWeight(StatMass, -1.0, true)
	support.AmmoCount = 80
	ids.SupportGun = support.ID

	blade := s.Create(KindMeleeWeapon, "Blade")
	blade.Protected = true
	blade.SetStatWeight(StatMeleeDPS, 2.0, true)
	blade.SetStatWeight(stats.StatMeleeArmorPenetration, 1.0, true)
	ids.Blade = blade.ID

	blunt := s.Create(KindMeleeWeapon, "Blunt")
	blunt.Protected = true
	blunt.SetStatWeight(StatMeleeDPS, 1.0, true)
	blunt.SetStatWeight(stats.StatMeleeArmorPenetration, 2.0, true)
	ids.Blunt = blunt.ID

	tool := s.Create(KindTool, "General tool")
	tool.Protected = true
	tool.Mode = ModeOneForEveryAssignedWorkType
	tool.SetStatWeight(stats.StatToolWorkFitness, 2.0, true)
	ids.GeneralTool = tool.ID

	for work, stat := range map[string]stats.StatID{
		"Construction": StatConstructSpd,
		"Mining":       StatMiningSpd,
		"Growing":      StatPlantWorkSpd,
		"Doctor":       StatMedicalTendQl,
	} {
		wr := s.Create(KindWorkType, work)
		wr.Protected = true
		wr.WorkType = shared.WorkTypeID(work)
		wr.SetStatWeight(stat, 1.0, true)
		wr.SetStatWeight(StatWorkSpeed, 0.5, true)
	}

	s.RecomputeAll()
	return ids
}
