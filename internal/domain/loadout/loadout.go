// Package loadout implements named policy bundles assignable to pawns: which
// rules govern their primary weapon, sidearms and tools, which pawns are
// eligible, and how desirable each eligible pawn is.
package loadout

import (
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// PrimaryType selects which rule kind governs the primary weapon slot.
type PrimaryType int

const (
	PrimaryNone PrimaryType = iota
	PrimaryRanged
	PrimaryMelee
)

// Priority bounds. Priority 0 loadouts are manual-only: the allocator never
// assigns them.
const (
	MinPriority = 0
	MaxPriority = 10
)

// MetricKind discriminates what a pawn-side limit or weight reads.
type MetricKind int

const (
	MetricCapacity MetricKind = iota
	MetricSkill
	MetricStat
)

// MetricRef names one pawn metric.
type MetricRef struct {
	Kind MetricKind
	ID   string
}

// MetricLimit is a hard eligibility gate on a pawn metric.
type MetricLimit struct {
	Ref MetricRef
	Min *float64
	Max *float64
}

// MetricWeight is one desirability scoring term.
type MetricWeight struct {
	Ref    MetricRef
	Weight float64
}

// Loadout is one named bundle of rule references plus pawn eligibility data.
// All rule references are ids into the owning rule set, never object
// references.
type Loadout struct {
	ID       int
	Label    string
	Priority int

	Primary             PrimaryType
	PrimaryRangedRuleID int
	PrimaryMeleeRuleID  int
	RangedSidearmRules  []int
	MeleeSidearmRules   []int
	ToolRuleID          int

	DropUnassignedWeapons bool

	// Eligibility predicates. A definition reference that no longer
	// resolves is skipped, never fails the whole predicate.
	TraitRequirements   map[shared.TraitID]bool
	WorkTagRequirements map[shared.WorkTagID]bool
	PassionRequirements map[shared.SkillID]ports.PassionLevel
	Limits              []MetricLimit

	// Desirability scoring terms.
	Weights []MetricWeight
}

// PrimaryRuleID returns the rule id consistent with the primary type, or 0.
func (l *Loadout) PrimaryRuleID() int {
	switch l.Primary {
	case PrimaryRanged:
		return l.PrimaryRangedRuleID
	case PrimaryMelee:
		return l.PrimaryMeleeRuleID
	}
	return 0
}

// ConstraintCount is the number of configured eligibility constraints. The
// allocator processes loadouts in descending constraint count so more
// specific loadouts claim pawns first.
func (l *Loadout) ConstraintCount() int {
	return len(l.TraitRequirements) + len(l.WorkTagRequirements) +
		len(l.PassionRequirements) + len(l.Limits)
}

// metricValue reads one pawn metric. ok is false for unresolvable refs.
func metricValue(p *ports.PawnSnapshot, ref MetricRef) (float64, bool) {
	switch ref.Kind {
	case MetricCapacity:
		v, ok := p.Capacities[shared.CapacityID(ref.ID)]
		return v, ok
	case MetricSkill:
		s, ok := p.Skills[shared.SkillID(ref.ID)]
		return float64(s.Level), ok
	case MetricStat:
		v, ok := p.Stats[stats.StatID(ref.ID)]
		return v, ok
	}
	return 0, false
}

// IsEligible evaluates the conjunction of all configured predicates against
// a pawn snapshot.
func (l *Loadout) IsEligible(p *ports.PawnSnapshot) bool {
	for trait, required := range l.TraitRequirements {
		if p.HasTrait(trait) != required {
			return false
		}
	}
	for tag, required := range l.WorkTagRequirements {
		if p.EnabledWorkTags[tag] != required {
			return false
		}
	}
	for skill, minPassion := range l.PassionRequirements {
		s, ok := p.Skills[skill]
		if !ok {
			continue // unresolvable skill reference: skip
		}
		if s.Passion < minPassion {
			return false
		}
	}
	for _, limit := range l.Limits {
		value, ok := metricValue(p, limit.Ref)
		if !ok {
			continue // unresolvable metric reference: skip
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

// PopulationRanges holds observed [min,max] per metric across the currently
// eligible pawn population, the normalization basis for desirability.
type PopulationRanges struct {
	ranges map[MetricRef]*stats.Range
}

// PopulationRangesOf scans the eligible pawns and records the spread of every
// weighted metric.
func (l *Loadout) PopulationRangesOf(pawns []*ports.PawnSnapshot) *PopulationRanges {
	pr := &PopulationRanges{ranges: make(map[MetricRef]*stats.Range)}
	for _, w := range l.Weights {
		r := &stats.Range{}
		for _, p := range pawns {
			if value, ok := metricValue(p, w.Ref); ok {
				r.Observe(value)
			}
		}
		pr.ranges[w.Ref] = r
	}
	return pr
}

// Desirability scores how well a pawn suits this loadout: the weighted sum of
// the pawn's metrics normalized against the eligible population spread.
// Refreshed roughly daily, not on every allocation pass, so allocation may
// run against a slightly stale snapshot.
func (l *Loadout) Desirability(p *ports.PawnSnapshot, pop *PopulationRanges) float64 {
	if pop == nil {
		return 0
	}
	sum := 0.0
	for _, w := range l.Weights {
		value, ok := metricValue(p, w.Ref)
		if !ok {
			continue
		}
		if r, has := pop.ranges[w.Ref]; has {
			sum += r.Normalize(value) * w.Weight
		}
	}
	return sum
}
