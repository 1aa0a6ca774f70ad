package stats

import (
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// SubjectKind classifies what a scoring subject structurally is.
type SubjectKind int

const (
	KindOther SubjectKind = iota
	KindRangedWeapon
	KindMeleeWeapon
	KindTool
)

// Subject is anything a stat can be evaluated against: a concrete item or an
// item template ("globally available" previews score templates that may not
// exist on the map yet).
type Subject interface {
	// SubjectKey identifies the subject in log output.
	SubjectKey() string

	// SubjectKind classifies the subject for custom stat dispatch.
	SubjectKind() SubjectKind

	// IsConcrete reports whether the subject is a physical item instance
	// rather than a template.
	IsConcrete() bool

	// NativeStat looks up a native stat (base value plus equipped offsets).
	// The second return is false when the subject carries no such stat.
	NativeStat(id StatID) (float64, bool)
}

// DerivedProvider computes custom stats from memoized per-item caches. The
// inventory cache store implements it.
type DerivedProvider interface {
	Derived(subject Subject, stat CustomStat, now shared.GameTime, workTypes []shared.WorkTypeID) (float64, error)
}

// Valuation computes normalized, comparable values for (subject, stat) pairs.
// It is the leaf dependency of all scoring: rules call Deviation, feed the
// result through the shared RangeTable, and weight the outcome.
type Valuation struct {
	registry *Registry
	ranges   *RangeTable
	derived  DerivedProvider
	log      shared.EngineLogger
}

// NewValuation wires the service. logger may be nil.
func NewValuation(registry *Registry, ranges *RangeTable, derived DerivedProvider, logger shared.EngineLogger) *Valuation {
	if logger == nil {
		logger = shared.NopLogger{}
	}
	return &Valuation{registry: registry, ranges: ranges, derived: derived, log: logger}
}

// Ranges exposes the shared observation table for persistence.
func (v *Valuation) Ranges() *RangeTable { return v.ranges }

// Registry exposes the stat definition registry.
func (v *Valuation) Registry() *Registry { return v.registry }

// Value computes the stat's value for the subject at the given game time.
//
// Native stats that the subject does not carry contribute 0, never an error.
// Unknown custom stat names are logged and contribute 0. The only error is
// the documented contract violation: the work-type fitness stat queried on a
// concrete item without a work-type context.
func (v *Valuation) Value(subject Subject, id StatID, now shared.GameTime, workTypes []shared.WorkTypeID) (float64, error) {
	if IsCustom(id) {
		return v.customValue(subject, id, now, workTypes)
	}
	value, ok := subject.NativeStat(id)
	if !ok {
		return 0, nil
	}
	return value, nil
}

// Deviation returns the stat value minus the stat's defined baseline. Custom
// stats have no independent baseline: their deviation is their value.
func (v *Valuation) Deviation(subject Subject, id StatID, now shared.GameTime, workTypes []shared.WorkTypeID) (float64, error) {
	value, err := v.Value(subject, id, now, workTypes)
	if err != nil {
		return 0, err
	}
	if IsCustom(id) {
		return value, nil
	}
	baseline := 0.0
	if def, ok := v.registry.Lookup(id); ok {
		baseline = def.Baseline
	}
	return value - baseline, nil
}

// NormalizedDeviation observes the deviation in the shared range table and
// maps it into the bounded contribution used by rule scoring.
func (v *Valuation) NormalizedDeviation(subject Subject, id StatID, now shared.GameTime, workTypes []shared.WorkTypeID) (float64, error) {
	d, err := v.Deviation(subject, id, now, workTypes)
	if err != nil {
		return 0, err
	}
	return v.ranges.Normalize(id, d), nil
}

func (v *Valuation) customValue(subject Subject, id StatID, now shared.GameTime, workTypes []shared.WorkTypeID) (float64, error) {
	custom, ok := ParseCustom(id)
	if !ok {
		v.log.Log(shared.LevelError, "unknown custom stat", map[string]interface{}{
			"stat":    string(id),
			"subject": subject.SubjectKey(),
		})
		return 0, nil
	}

	if custom == CustomToolWorkFitness && len(workTypes) == 0 {
		if subject.IsConcrete() {
			return 0, shared.NewContractViolationError(
				"work-type fitness queried on a concrete item without a work-type context")
		}
		// Template preview with no specific work type.
		return 0, nil
	}

	value, err := v.derived.Derived(subject, custom, now, workTypes)
	if err != nil {
		v.log.Log(shared.LevelError, "custom stat computation failed", map[string]interface{}{
			"stat":    string(id),
			"subject": subject.SubjectKey(),
			"error":   err.Error(),
		})
		return 0, nil
	}
	return value, nil
}
