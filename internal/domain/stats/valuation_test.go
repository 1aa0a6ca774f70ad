package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

type fakeSubject struct {
	key      string
	kind     stats.SubjectKind
	concrete bool
	native   map[stats.StatID]float64
}

func (s *fakeSubject) SubjectKey() string            { return s.key }
func (s *fakeSubject) SubjectKind() stats.SubjectKind { return s.kind }
func (s *fakeSubject) IsConcrete() bool              { return s.concrete }

func (s *fakeSubject) NativeStat(id stats.StatID) (float64, bool) {
	v, ok := s.native[id]
	return v, ok
}

type fakeDerived struct {
	values map[stats.CustomStat]float64
}

func (d *fakeDerived) Derived(_ stats.Subject, stat stats.CustomStat, _ shared.GameTime, _ []shared.WorkTypeID) (float64, error) {
	return d.values[stat], nil
}

func newTestValuation(derived stats.DerivedProvider) *stats.Valuation {
	registry := stats.NewRegistry()
	registry.Register(stats.Def{ID: "Mass", Baseline: 1.0})
	return stats.NewValuation(registry, stats.NewRangeTable(), derived, nil)
}

func TestValuationDeviationSubtractsBaseline(t *testing.T) {
	valuation := newTestValuation(&fakeDerived{})
	subject := &fakeSubject{key: "rifle", native: map[stats.StatID]float64{"Mass": 3.5}}

	d, err := valuation.Deviation(subject, "Mass", 0, nil)

	require.NoError(t, err)
	assert.InDelta(t, 2.5, d, 1e-12)
}

func TestValuationMissingNativeStatIsZero(t *testing.T) {
	valuation := newTestValuation(&fakeDerived{})
	subject := &fakeSubject{key: "rock", native: map[stats.StatID]float64{}}

	v, err := valuation.Value(subject, "MiningSpeed", 0, nil)

	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestValuationCustomStatHasNoBaseline(t *testing.T) {
	derived := &fakeDerived{values: map[stats.CustomStat]float64{
		stats.CustomRangedDPS: 12.0,
	}}
	valuation := newTestValuation(derived)
	subject := &fakeSubject{key: "rifle", kind: stats.KindRangedWeapon, concrete: true}

	d, err := valuation.Deviation(subject, stats.StatRangedDPS, 0, nil)

	require.NoError(t, err)
	assert.Equal(t, 12.0, d)
}

func TestValuationUnknownCustomStatScoresZero(t *testing.T) {
	valuation := newTestValuation(&fakeDerived{})
	subject := &fakeSubject{key: "rifle", kind: stats.KindRangedWeapon}

	v, err := valuation.Value(subject, "QMRanged_Nonsense", 0, nil)

	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestValuationWorkFitnessNeedsContextOnConcreteItems(t *testing.T) {
	valuation := newTestValuation(&fakeDerived{})
	concrete := &fakeSubject{key: "pickaxe", kind: stats.KindTool, concrete: true}

	_, err := valuation.Value(concrete, stats.StatToolWorkFitness, 0, nil)
	assert.Error(t, err)

	// Template previews score 0 instead of failing.
	template := &fakeSubject{key: "pickaxe-template", kind: stats.KindTool}
	v, err := valuation.Value(template, stats.StatToolWorkFitness, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestValuationNormalizedDeviationUsesSharedRanges(t *testing.T) {
	valuation := newTestValuation(&fakeDerived{})
	light := &fakeSubject{key: "knife", native: map[stats.StatID]float64{"Mass": 2.0}}
	heavy := &fakeSubject{key: "hammer", native: map[stats.StatID]float64{"Mass": 5.0}}

	// First observation defines the range; it normalizes to 0.
	first, err := valuation.NormalizedDeviation(light, "Mass", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, first)

	_, err = valuation.NormalizedDeviation(heavy, "Mass", 0, nil)
	require.NoError(t, err)

	again, err := valuation.NormalizedDeviation(heavy, "Mass", 0, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, again, 1e-12)
}
