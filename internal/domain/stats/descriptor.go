package stats

import "strings"

// StatID identifies a scorable numeric property of an item, template or pawn.
type StatID string

// Category groups stats for UI presentation. It plays no part in scoring.
type Category string

const (
	CategoryWeapon Category = "weapon"
	CategoryMelee  Category = "melee"
	CategoryRanged Category = "ranged"
	CategoryTool   Category = "tool"
	CategoryPawn   Category = "pawn"
	CategoryCustom Category = "custom"
)

// Def describes a native stat: its defined baseline (the zero point for
// deviations) and its UI category.
type Def struct {
	ID       StatID
	Label    string
	Baseline float64
	Category Category
}

// Registry resolves StatIDs to definitions. Lookups for deleted or renamed
// stats resolve to nothing and are cached, so consuming predicates can skip
// the entry instead of failing.
type Registry struct {
	defs    map[StatID]*Def
	missing map[StatID]struct{}
}

// NewRegistry creates an empty stat registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:    make(map[StatID]*Def),
		missing: make(map[StatID]struct{}),
	}
}

// Register adds or replaces a stat definition.
func (r *Registry) Register(def Def) {
	d := def
	r.defs[def.ID] = &d
	delete(r.missing, def.ID)
}

// Lookup resolves a stat definition. A miss is remembered so repeated lookups
// of a dangling reference stay cheap.
func (r *Registry) Lookup(id StatID) (*Def, bool) {
	if def, ok := r.defs[id]; ok {
		return def, true
	}
	r.missing[id] = struct{}{}
	return nil, false
}

// CategoryOf reports the presentation group for a stat id. Derived stats are
// never registered, so every id in a custom namespace groups under
// CategoryCustom; an id that is neither custom nor registered has no group.
func (r *Registry) CategoryOf(id StatID) Category {
	if IsCustom(id) {
		return CategoryCustom
	}
	if def, ok := r.defs[id]; ok {
		return def.Category
	}
	return ""
}

// All returns every registered definition.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// Custom stat namespaces. Custom stats are derived by the valuation service
// rather than read off the subject; they have no independent baseline, so
// their deviation equals their value.
const (
	rangedPrefix = "QMRanged_"
	meleePrefix  = "QMMelee_"
	toolPrefix   = "QMTool_"
)

// CustomStat enumerates every derived stat the engine can compute.
type CustomStat int

const (
	CustomNone CustomStat = iota
	CustomRangedDPS
	CustomRangedAccuracyDPS
	CustomRangedArmorPenetration
	CustomMeleeArmorPenetration
	CustomToolWorkFitness
)

// Well-known custom stat ids.
const (
	StatRangedDPS             StatID = rangedPrefix + "DPS"
	StatRangedAccuracyDPS     StatID = rangedPrefix + "AccuracyAdjustedDPS"
	StatRangedArmorPen        StatID = rangedPrefix + "ArmorPenetration"
	StatMeleeArmorPenetration StatID = meleePrefix + "ArmorPenetration"
	StatToolWorkFitness       StatID = toolPrefix + "WorkTypeFitness"
)

// IsCustom reports whether the id lives in one of the custom namespaces.
func IsCustom(id StatID) bool {
	s := string(id)
	return strings.HasPrefix(s, rangedPrefix) ||
		strings.HasPrefix(s, meleePrefix) ||
		strings.HasPrefix(s, toolPrefix)
}

// ParseCustom maps a namespaced stat id back onto its enum value. The second
// return is false for an id that carries a custom prefix but an unknown
// suffix; callers log and score it as 0, never fail.
func ParseCustom(id StatID) (CustomStat, bool) {
	switch id {
	case StatRangedDPS:
		return CustomRangedDPS, true
	case StatRangedAccuracyDPS:
		return CustomRangedAccuracyDPS, true
	case StatRangedArmorPen:
		return CustomRangedArmorPenetration, true
	case StatMeleeArmorPenetration:
		return CustomMeleeArmorPenetration, true
	case StatToolWorkFitness:
		return CustomToolWorkFitness, true
	}
	return CustomNone, false
}
