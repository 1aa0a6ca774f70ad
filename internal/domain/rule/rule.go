// Package rule implements the scoring and filtering policies over items of
// one kind: ranged weapons, melee weapons, tools, and the work-type rules
// that drive tool relevance.
package rule

import (
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// Kind discriminates the rule variants.
type Kind int

const (
	KindRangedWeapon Kind = iota
	KindMeleeWeapon
	KindTool
	KindWorkType
)

func (k Kind) String() string {
	switch k {
	case KindRangedWeapon:
		return "ranged"
	case KindMeleeWeapon:
		return "melee"
	case KindTool:
		return "tool"
	case KindWorkType:
		return "worktype"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// EquipMode selects how many matching items a rule claims per pawn.
type EquipMode int

const (
	ModeBestOne EquipMode = iota
	ModeAllAvailable
	ModeOneForEveryWorkType
	ModeOneForEveryAssignedWorkType
)

// ValidMode reports whether the mode applies to the rule kind.
func (k Kind) ValidMode(m EquipMode) bool {
	switch k {
	case KindRangedWeapon, KindMeleeWeapon:
		return m == ModeBestOne || m == ModeAllAvailable
	case KindTool:
		return m == ModeBestOne || m == ModeAllAvailable ||
			m == ModeOneForEveryWorkType || m == ModeOneForEveryAssignedWorkType
	}
	return false
}

// Listing is the tri-state membership of a template in a rule's explicit
// lists. A single map from template to Listing makes whitelist/blacklist
// exclusivity structural.
type Listing int8

const (
	ListingUnset Listing = iota
	ListingWhitelisted
	ListingBlacklisted
)

// MaxStatWeight caps the magnitude of any configured stat weight.
const MaxStatWeight = 2.0

// StatWeight is one weighted scoring term. Protected marks shipped defaults
// the editor must not delete; it does not affect scoring.
type StatWeight struct {
	Stat      stats.StatID
	Weight    float64
	Protected bool
}

// StatLimit is a hard min/max gate on a stat. An item failing any configured
// limit is excluded from availability unless whitelisted.
type StatLimit struct {
	Stat stats.StatID
	Min  *float64
	Max  *float64
}

// Filters are the kind-specific binary availability filters. nil means
// "don't care"; true requires the flag, false excludes it.
type Filters struct {
	// Ranged weapon rules.
	Explosive  *bool
	ManualCast *bool

	// Melee weapon rules.
	UsableWithShields *bool
	Rottable          *bool

	// Tool rules: restrict to ranged (true) or melee (false) tools.
	RangedTool *bool
}

// Rule is one named, user-editable policy over items of its kind.
type Rule struct {
	ID        int
	Label     string
	Protected bool
	Kind      Kind
	Mode      EquipMode

	Weights []StatWeight
	Limits  []StatLimit
	Filters Filters

	// AmmoCount is the configured ammunition target for ranged rules.
	AmmoCount int

	// WorkType binds a work-type rule to its work type.
	WorkType shared.WorkTypeID

	listings map[shared.TemplateID]Listing
	global   map[shared.TemplateID]*inventory.Template
}

// RestoredRule builds an empty rule shell for persistence rehydration. The
// caller fills the exported fields and replays listings via SetListing, then
// hands the rule to Set.Restore.
func RestoredRule(id int, kind Kind, label string) *Rule {
	return newRule(id, kind, label)
}

func newRule(id int, kind Kind, label string) *Rule {
	mode := ModeBestOne
	return &Rule{
		ID:       id,
		Kind:     kind,
		Label:    label,
		Mode:     mode,
		listings: make(map[shared.TemplateID]Listing),
	}
}

// Listing returns the tri-state membership of a template.
func (r *Rule) Listing(tpl shared.TemplateID) Listing {
	return r.listings[tpl]
}

// SetListing assigns a template's membership. Setting one side structurally
// evicts the other; setting ListingUnset removes the entry. Idempotent.
// The cached global-availability set must be recomputed afterwards.
func (r *Rule) SetListing(tpl shared.TemplateID, l Listing) {
	if l == ListingUnset {
		delete(r.listings, tpl)
		return
	}
	r.listings[tpl] = l
}

// Listings returns a copy of the explicit list entries.
func (r *Rule) Listings() map[shared.TemplateID]Listing {
	out := make(map[shared.TemplateID]Listing, len(r.listings))
	for tpl, l := range r.listings {
		out[tpl] = l
	}
	return out
}

// SetStatWeight configures a weight for a stat, last write wins, clamped to
// [-MaxStatWeight, MaxStatWeight]. No duplicate entries per stat.
func (r *Rule) SetStatWeight(stat stats.StatID, weight float64, protected bool) {
	if weight > MaxStatWeight {
		weight = MaxStatWeight
	}
	if weight < -MaxStatWeight {
		weight = -MaxStatWeight
	}
	for i := range r.Weights {
		if r.Weights[i].Stat == stat {
			r.Weights[i].Weight = weight
			r.Weights[i].Protected = protected
			return
		}
	}
	r.Weights = append(r.Weights, StatWeight{Stat: stat, Weight: weight, Protected: protected})
}

// DeleteStatWeight removes the weight for a stat, if configured.
func (r *Rule) DeleteStatWeight(stat stats.StatID) {
	for i := range r.Weights {
		if r.Weights[i].Stat == stat {
			r.Weights = append(r.Weights[:i], r.Weights[i+1:]...)
			return
		}
	}
}

// SetStatLimit configures a hard limit for a stat, last write wins.
func (r *Rule) SetStatLimit(stat stats.StatID, min, max *float64) {
	for i := range r.Limits {
		if r.Limits[i].Stat == stat {
			r.Limits[i].Min = min
			r.Limits[i].Max = max
			return
		}
	}
	r.Limits = append(r.Limits, StatLimit{Stat: stat, Min: min, Max: max})
}

// DeleteStatLimit removes the limit for a stat, if configured.
func (r *Rule) DeleteStatLimit(stat stats.StatID) {
	for i := range r.Limits {
		if r.Limits[i].Stat == stat {
			r.Limits = append(r.Limits[:i], r.Limits[i+1:]...)
			return
		}
	}
}

// kindPredicate is the structural filter a template must pass before any
// configured filters apply.
func (r *Rule) kindPredicate(tpl *inventory.Template) bool {
	if tpl.DestroyOnDrop {
		return false
	}
	switch r.Kind {
	case KindRangedWeapon:
		return tpl.IsRangedWeapon
	case KindMeleeWeapon:
		return tpl.IsMeleeWeapon
	case KindTool:
		return tpl.IsTool
	default:
		return false
	}
}

func matchFlag(filter *bool, value bool) bool {
	return filter == nil || *filter == value
}

// passesFilters applies the kind-specific binary filters.
func (r *Rule) passesFilters(tpl *inventory.Template) bool {
	switch r.Kind {
	case KindRangedWeapon:
		return matchFlag(r.Filters.Explosive, tpl.Explosive) &&
			matchFlag(r.Filters.ManualCast, tpl.ManualCast)
	case KindMeleeWeapon:
		return matchFlag(r.Filters.UsableWithShields, tpl.UsableWithShields) &&
			matchFlag(r.Filters.Rottable, tpl.Rottable)
	case KindTool:
		return matchFlag(r.Filters.RangedTool, tpl.IsRangedWeapon)
	}
	return true
}

// GloballyAvailable returns the cached availability set. Empty until
// ComputeGloballyAvailable has run.
func (r *Rule) GloballyAvailable() map[shared.TemplateID]*inventory.Template {
	return r.global
}

// ComputeGloballyAvailable rebuilds the cached set of templates this rule
// considers at all: kind predicate, configured filters, minus blacklist, plus
// whitelist. For tool rules the set additionally intersects with templates
// carrying at least one stat some configured work-type rule requires for the
// requested work types. Not reactive: call it after any filter-affecting
// mutation.
func (r *Rule) ComputeGloballyAvailable(env *Env, workTypes []shared.WorkTypeID) map[shared.TemplateID]*inventory.Template {
	set := make(map[shared.TemplateID]*inventory.Template)

	var relevant map[stats.StatID]struct{}
	if r.Kind == KindTool && env.WorkRules != nil {
		relevant = env.WorkRules.RelevantStats(workTypes)
	}

	for _, tpl := range env.Catalog.Templates() {
		if !r.kindPredicate(tpl) || !r.passesFilters(tpl) {
			continue
		}
		if relevant != nil && !carriesAny(tpl, relevant) {
			continue
		}
		set[tpl.ID] = tpl
	}

	for tplID, listing := range r.listings {
		switch listing {
		case ListingBlacklisted:
			delete(set, tplID)
		case ListingWhitelisted:
			if tpl := env.Catalog.Template(tplID); tpl != nil {
				set[tplID] = tpl
			}
		}
	}

	r.global = set
	return set
}

func carriesAny(tpl *inventory.Template, wanted map[stats.StatID]struct{}) bool {
	for id := range wanted {
		if _, ok := tpl.BaseStats[id]; ok {
			return true
		}
		if _, ok := tpl.EquippedOffsets[id]; ok {
			return true
		}
	}
	return false
}

// IsAvailable decides whether one concrete item may be claimed under this
// rule: forbidden items never; whitelisted templates always; otherwise the
// template must be globally available and the item must satisfy every
// configured stat limit.
func (r *Rule) IsAvailable(env *Env, item *inventory.Item, now shared.GameTime, workTypes []shared.WorkTypeID) bool {
	if item.Forbidden {
		return false
	}
	if r.listings[item.Template.ID] == ListingWhitelisted {
		return true
	}
	if _, ok := r.global[item.Template.ID]; !ok {
		return false
	}
	for _, limit := range r.Limits {
		value, err := env.Valuation.Value(item, limit.Stat, now, workTypes)
		if err != nil {
			env.logf("stat limit check failed", item, limit.Stat, err)
			return false
		}
		if limit.Min != nil && value < *limit.Min {
			return false
		}
		if limit.Max != nil && value > *limit.Max {
			return false
		}
	}
	return true
}

// Score ranks a subject under this rule: the sum over configured weights of
// the normalized stat deviation times the weight, scaled by the durability
// health curve for concrete items. Higher is better; scores are comparable
// only within one observation history.
func (r *Rule) Score(env *Env, subject stats.Subject, now shared.GameTime, workTypes []shared.WorkTypeID) float64 {
	sum := 0.0
	for _, w := range r.Weights {
		nd, err := env.Valuation.NormalizedDeviation(subject, w.Stat, now, workTypes)
		if err != nil {
			env.logf("stat score term failed", subject, w.Stat, err)
			continue
		}
		sum += nd * w.Weight
	}
	if item, ok := subject.(*inventory.Item); ok {
		sum *= inventory.HealthCurve(item.HealthRatio())
	}
	return sum
}
