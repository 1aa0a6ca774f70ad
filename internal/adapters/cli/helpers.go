package cli

import (
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/infrastructure/config"
)

// openApp builds the in-process application from the global flags. Callers
// must Close it.
func openApp() (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, useDB)
}

// parseRuleKind maps the CLI kind names onto rule kinds.
func parseRuleKind(s string) (rule.Kind, error) {
	switch s {
	case "ranged":
		return rule.KindRangedWeapon, nil
	case "melee":
		return rule.KindMeleeWeapon, nil
	case "tool":
		return rule.KindTool, nil
	case "worktype":
		return rule.KindWorkType, nil
	}
	return 0, fmt.Errorf("unknown rule kind %q (expected ranged, melee, tool or worktype)", s)
}

// parseEquipMode maps the CLI mode names onto equip modes.
func parseEquipMode(s string) (rule.EquipMode, error) {
	switch s {
	case "", "best-one":
		return rule.ModeBestOne, nil
	case "all-available":
		return rule.ModeAllAvailable, nil
	case "per-work-type":
		return rule.ModeOneForEveryWorkType, nil
	case "per-assigned-work-type":
		return rule.ModeOneForEveryAssignedWorkType, nil
	}
	return 0, fmt.Errorf("unknown equip mode %q", s)
}

// modeLabel renders an equip mode for display.
func modeLabel(m rule.EquipMode) string {
	switch m {
	case rule.ModeBestOne:
		return "best-one"
	case rule.ModeAllAvailable:
		return "all-available"
	case rule.ModeOneForEveryWorkType:
		return "per-work-type"
	case rule.ModeOneForEveryAssignedWorkType:
		return "per-assigned-work-type"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}
