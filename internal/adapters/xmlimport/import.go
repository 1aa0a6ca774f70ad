// Package xmlimport loads rule and loadout configuration exported from a
// foreign save as XML. The import is tolerant per section: a malformed rule
// or loadout is logged and skipped, never failing the whole file.
package xmlimport

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// Summary reports what an import run accepted and skipped.
type Summary struct {
	RulesImported    int
	LoadoutsImported int
	BindingsImported int
	Skipped          int
}

// Importer applies an XML export onto live rule and loadout sets.
type Importer struct {
	rules    *rule.Set
	loadouts *loadout.Set
	bindings *loadout.BindingTable
	log      shared.EngineLogger
}

// NewImporter creates an importer over the engine's live state.
func NewImporter(rules *rule.Set, loadouts *loadout.Set, bindings *loadout.BindingTable, logger shared.EngineLogger) *Importer {
	if logger == nil {
		logger = shared.NopLogger{}
	}
	return &Importer{rules: rules, loadouts: loadouts, bindings: bindings, log: logger}
}

// Wire DTOs. Rule references inside loadouts are by kind and label, since a
// foreign save knows nothing about this session's id allocation.

type fileXML struct {
	XMLName  xml.Name     `xml:"quartermaster"`
	Rules    []ruleXML    `xml:"rules>rule"`
	Loadouts []loadoutXML `xml:"loadouts>loadout"`
	Bindings []bindingXML `xml:"bindings>binding"`
}

type ruleXML struct {
	Kind      string      `xml:"kind,attr"`
	Label     string      `xml:"label,attr"`
	Mode      string      `xml:"mode"`
	AmmoCount int         `xml:"ammoCount"`
	WorkType  string      `xml:"workType"`
	Weights   []weightXML `xml:"weights>weight"`
	Limits    []limitXML  `xml:"limits>limit"`
	Whitelist []string    `xml:"whitelist>item"`
	Blacklist []string    `xml:"blacklist>item"`
}

type weightXML struct {
	Stat  string  `xml:"stat,attr"`
	Value float64 `xml:"value,attr"`
}

type limitXML struct {
	Stat string   `xml:"stat,attr"`
	Min  *float64 `xml:"min,attr"`
	Max  *float64 `xml:"max,attr"`
}

type loadoutXML struct {
	Label    string `xml:"label,attr"`
	Priority int    `xml:"priority,attr"`

	Primary        string        `xml:"primary"`
	PrimaryRule    string        `xml:"primaryRule"`
	RangedSidearms []string      `xml:"rangedSidearms>rule"`
	MeleeSidearms  []string      `xml:"meleeSidearms>rule"`
	ToolRule       string        `xml:"toolRule"`
	DropUnassigned bool          `xml:"dropUnassigned"`
	Traits         []flagXML     `xml:"traits>trait"`
	WorkTags       []flagXML     `xml:"workTags>tag"`
	Passions       []passionXML  `xml:"passions>passion"`
	Limits         []metricXML   `xml:"limits>limit"`
	Weights        []mWeightXML  `xml:"weights>weight"`
}

type flagXML struct {
	Name     string `xml:"name,attr"`
	Required bool   `xml:"required,attr"`
}

type passionXML struct {
	Skill string `xml:"skill,attr"`
	Min   int    `xml:"min,attr"`
}

type metricXML struct {
	Kind string   `xml:"kind,attr"`
	ID   string   `xml:"id,attr"`
	Min  *float64 `xml:"min,attr"`
	Max  *float64 `xml:"max,attr"`
}

type mWeightXML struct {
	Kind  string  `xml:"kind,attr"`
	ID    string  `xml:"id,attr"`
	Value float64 `xml:"value,attr"`
}

type bindingXML struct {
	Pawn    string `xml:"pawn,attr"`
	Loadout string `xml:"loadout,attr"`
	Auto    bool   `xml:"auto,attr"`
}

// ImportFile imports from a file path.
func (im *Importer) ImportFile(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return im.Import(f)
}

// Import decodes and applies one XML export.
func (im *Importer) Import(r io.Reader) (*Summary, error) {
	var file fileXML
	if err := xml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode import file: %w", err)
	}

	sum := &Summary{}

	// Rules first: loadouts reference them by label.
	for _, rx := range file.Rules {
		if err := im.importRule(rx); err != nil {
			im.log.Log(shared.LevelWarn, "skipping rule in import", map[string]interface{}{
				"label": rx.Label, "error": err.Error(),
			})
			sum.Skipped++
			continue
		}
		sum.RulesImported++
	}
	for _, lx := range file.Loadouts {
		if err := im.importLoadout(lx); err != nil {
			im.log.Log(shared.LevelWarn, "skipping loadout in import", map[string]interface{}{
				"label": lx.Label, "error": err.Error(),
			})
			sum.Skipped++
			continue
		}
		sum.LoadoutsImported++
	}
	for _, bx := range file.Bindings {
		if err := im.importBinding(bx); err != nil {
			im.log.Log(shared.LevelWarn, "skipping binding in import", map[string]interface{}{
				"pawn": bx.Pawn, "error": err.Error(),
			})
			sum.Skipped++
			continue
		}
		sum.BindingsImported++
	}

	im.rules.RecomputeAll()
	return sum, nil
}

func parseKind(s string) (rule.Kind, error) {
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
	return 0, fmt.Errorf("unknown rule kind %q", s)
}

func parseMode(s string) (rule.EquipMode, error) {
	switch s {
	case "", "bestOne":
		return rule.ModeBestOne, nil
	case "allAvailable":
		return rule.ModeAllAvailable, nil
	case "oneForEveryWorkType":
		return rule.ModeOneForEveryWorkType, nil
	case "oneForEveryAssignedWorkType":
		return rule.ModeOneForEveryAssignedWorkType, nil
	}
	return 0, fmt.Errorf("unknown equip mode %q", s)
}

func (im *Importer) importRule(rx ruleXML) error {
	kind, err := parseKind(rx.Kind)
	if err != nil {
		return err
	}
	if rx.Label == "" {
		return fmt.Errorf("rule label missing")
	}
	mode, err := parseMode(rx.Mode)
	if err != nil {
		return err
	}
	if !kind.ValidMode(mode) {
		return fmt.Errorf("mode %q not valid for %s rules", rx.Mode, kind)
	}

	r := im.rules.Create(kind, rx.Label)
	r.Mode = mode
	r.AmmoCount = rx.AmmoCount
	r.WorkType = shared.WorkTypeID(rx.WorkType)
	for _, w := range rx.Weights {
		r.SetStatWeight(stats.StatID(w.Stat), w.Value, false)
	}
	for _, l := range rx.Limits {
		r.SetStatLimit(stats.StatID(l.Stat), l.Min, l.Max)
	}
	for _, tpl := range rx.Whitelist {
		r.SetListing(shared.TemplateID(tpl), rule.ListingWhitelisted)
	}
	for _, tpl := range rx.Blacklist {
		r.SetListing(shared.TemplateID(tpl), rule.ListingBlacklisted)
	}
	return nil
}

// findRule resolves a kind+label reference against the live set.
func (im *Importer) findRule(kind rule.Kind, label string) (int, error) {
	for _, r := range im.rules.ByKind(kind) {
		if r.Label == label {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("%s rule %q not found", kind, label)
}

func parseMetricKind(s string) (loadout.MetricKind, error) {
	switch s {
	case "capacity":
		return loadout.MetricCapacity, nil
	case "skill":
		return loadout.MetricSkill, nil
	case "stat":
		return loadout.MetricStat, nil
	}
	return 0, fmt.Errorf("unknown metric kind %q", s)
}

func (im *Importer) importLoadout(lx loadoutXML) error {
	if lx.Label == "" {
		return fmt.Errorf("loadout label missing")
	}
	if lx.Priority < loadout.MinPriority || lx.Priority > loadout.MaxPriority {
		return fmt.Errorf("priority %d outside [%d, %d]", lx.Priority, loadout.MinPriority, loadout.MaxPriority)
	}

	l := im.loadouts.Create(lx.Label)
	applied := false
	defer func() {
		if !applied {
			im.loadouts.Delete(l.ID)
		}
	}()

	l.Priority = lx.Priority
	l.DropUnassignedWeapons = lx.DropUnassigned

	switch lx.Primary {
	case "", "none":
		l.Primary = loadout.PrimaryNone
	case "ranged":
		id, err := im.findRule(rule.KindRangedWeapon, lx.PrimaryRule)
		if err != nil {
			return err
		}
		l.Primary = loadout.PrimaryRanged
		l.PrimaryRangedRuleID = id
	case "melee":
		id, err := im.findRule(rule.KindMeleeWeapon, lx.PrimaryRule)
		if err != nil {
			return err
		}
		l.Primary = loadout.PrimaryMelee
		l.PrimaryMeleeRuleID = id
	default:
		return fmt.Errorf("unknown primary type %q", lx.Primary)
	}

	for _, label := range lx.RangedSidearms {
		id, err := im.findRule(rule.KindRangedWeapon, label)
		if err != nil {
			return err
		}
		l.RangedSidearmRules = append(l.RangedSidearmRules, id)
	}
	for _, label := range lx.MeleeSidearms {
		id, err := im.findRule(rule.KindMeleeWeapon, label)
		if err != nil {
			return err
		}
		l.MeleeSidearmRules = append(l.MeleeSidearmRules, id)
	}
	if lx.ToolRule != "" {
		id, err := im.findRule(rule.KindTool, lx.ToolRule)
		if err != nil {
			return err
		}
		l.ToolRuleID = id
	}

	for _, t := range lx.Traits {
		l.TraitRequirements[shared.TraitID(t.Name)] = t.Required
	}
	for _, t := range lx.WorkTags {
		l.WorkTagRequirements[shared.WorkTagID(t.Name)] = t.Required
	}
	for _, p := range lx.Passions {
		l.PassionRequirements[shared.SkillID(p.Skill)] = ports.PassionLevel(p.Min)
	}
	for _, m := range lx.Limits {
		kind, err := parseMetricKind(m.Kind)
		if err != nil {
			return err
		}
		l.Limits = append(l.Limits, loadout.MetricLimit{
			Ref: loadout.MetricRef{Kind: kind, ID: m.ID},
			Min: m.Min,
			Max: m.Max,
		})
	}
	for _, m := range lx.Weights {
		kind, err := parseMetricKind(m.Kind)
		if err != nil {
			return err
		}
		l.Weights = append(l.Weights, loadout.MetricWeight{
			Ref:    loadout.MetricRef{Kind: kind, ID: m.ID},
			Weight: m.Value,
		})
	}

	applied = true
	return nil
}

func (im *Importer) importBinding(bx bindingXML) error {
	if bx.Pawn == "" {
		return fmt.Errorf("binding pawn missing")
	}
	loadoutID := 0
	if bx.Loadout != "" {
		found := false
		for _, l := range im.loadouts.All() {
			if l.Label == bx.Loadout {
				loadoutID = l.ID
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("loadout %q not found", bx.Loadout)
		}
	}
	b := im.bindings.For(shared.PawnID(bx.Pawn))
	b.LoadoutID = loadoutID
	b.Auto = bx.Auto
	return nil
}
