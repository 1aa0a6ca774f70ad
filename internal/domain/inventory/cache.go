package inventory

import (
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// DefaultRefreshHours is how long a derived-stat snapshot stays fresh.
const DefaultRefreshHours = 24.0

// Real-time tick resolution used for DPS cycle arithmetic.
const ticksPerSecond = 60.0

// Accuracy evaluation bands in tiles. A band only contributes when the
// weapon's range covers it.
var accuracyBands = []float64{3, 12, 25, 40}

// WorkScorer supplies per-work-type tool scores. The rule set implements it:
// which stats matter for a work type is configured through work-type rules,
// not fixed in the cache.
type WorkScorer interface {
	// WorkTypes lists every work type with a configured rule.
	WorkTypes() []shared.WorkTypeID

	// WorkScore scores a template for one work type. ok is false when no
	// rule covers the work type.
	WorkScore(tpl *Template, work shared.WorkTypeID, now shared.GameTime) (float64, bool)
}

// cacheBase carries the freshness gate and the per-instance stat memo shared
// by every snapshot kind. Memoized values are overwritten wholesale on the
// next successful update, never incrementally.
type cacheBase struct {
	lastUpdate shared.GameTime
	hasUpdated bool
	memo       map[stats.StatID]float64
}

// fresh reports whether the snapshot is inside its refresh interval.
func (c *cacheBase) fresh(now shared.GameTime, intervalHours float64) bool {
	return c.hasUpdated && now.HoursSince(c.lastUpdate) < intervalHours
}

func (c *cacheBase) beginUpdate(now shared.GameTime) {
	c.memo = nil
	c.lastUpdate = now
	c.hasUpdated = true
}

// Memoize returns the cached value for id, computing and storing it on first
// use since the last update.
func (c *cacheBase) Memoize(id stats.StatID, compute func() float64) float64 {
	if v, ok := c.memo[id]; ok {
		return v
	}
	v := compute()
	if c.memo == nil {
		c.memo = make(map[stats.StatID]float64)
	}
	c.memo[id] = v
	return v
}

// LastUpdate returns the game time of the last successful update.
func (c *cacheBase) LastUpdate() shared.GameTime { return c.lastUpdate }

// RangedSnapshot memoizes the expensive derived stats of one ranged weapon
// instance or template.
type RangedSnapshot struct {
	cacheBase

	Warmup          float64
	MinRange        float64
	MaxRange        float64
	Damage          float64
	ArmorPen        float64
	BurstCount      int
	BurstDelayTicks int
	RawDPS          float64
	AccuracyDPS     float64
}

// Update refreshes the derived fields if the interval has elapsed. Returns
// false (and changes nothing) while the snapshot is still fresh. A failed
// recompute is logged by the store and leaves fields at their previous values.
func (s *RangedSnapshot) Update(tpl *Template, now shared.GameTime, intervalHours float64) (bool, error) {
	if s.fresh(now, intervalHours) {
		return false, nil
	}
	s.beginUpdate(now)

	verb := tpl.Verb
	if verb == nil {
		return true, fmt.Errorf("ranged template %s has no firing verb", tpl.ID)
	}

	burst := verb.BurstCount
	if burst <= 0 {
		burst = 1
	}
	delay := verb.BurstDelayTicks
	if delay <= 0 {
		delay = 10
	}

	cycleSeconds := verb.WarmupSeconds + verb.CooldownSeconds + float64(burst-1)*float64(delay)/ticksPerSecond
	if cycleSeconds <= 0 {
		return true, fmt.Errorf("ranged template %s has non-positive cycle time", tpl.ID)
	}

	s.Warmup = verb.WarmupSeconds
	s.MinRange = verb.MinRange
	s.MaxRange = verb.MaxRange
	s.Damage = verb.Damage
	s.ArmorPen = verb.ArmorPen
	s.BurstCount = burst
	s.BurstDelayTicks = delay
	s.RawDPS = verb.Damage * float64(burst) / cycleSeconds

	accuracies := []float64{verb.AccuracyClose, verb.AccuracyShort, verb.AccuracyMedium, verb.AccuracyLong}
	sum, n := 0.0, 0
	for i, band := range accuracyBands {
		if verb.MinRange <= band && band <= verb.MaxRange {
			sum += accuracies[i]
			n++
		}
	}
	if n > 0 {
		s.AccuracyDPS = s.RawDPS * (sum / float64(n)) / 100
	} else {
		s.AccuracyDPS = 0
	}
	return true, nil
}

// MeleeSnapshot memoizes derived melee stats.
type MeleeSnapshot struct {
	cacheBase

	// ArmorPen is the armor penetration summed over tool heads with nonzero
	// power, averaged over however many tool heads exist.
	ArmorPen float64
}

// Update refreshes the derived fields if the interval has elapsed.
func (s *MeleeSnapshot) Update(tpl *Template, now shared.GameTime, intervalHours float64) (bool, error) {
	if s.fresh(now, intervalHours) {
		return false, nil
	}
	s.beginUpdate(now)

	if len(tpl.MeleeTools) == 0 {
		return true, fmt.Errorf("melee template %s has no tool heads", tpl.ID)
	}
	sum := 0.0
	for _, head := range tpl.MeleeTools {
		if head.Power != 0 {
			sum += head.ArmorPen
		}
	}
	s.ArmorPen = sum / float64(len(tpl.MeleeTools))
	return true, nil
}

// ToolSnapshot memoizes per-work-type fitness scores.
type ToolSnapshot struct {
	cacheBase

	workScores map[shared.WorkTypeID]float64
}

// Update recomputes the per-work-type scores for every work type a rule
// covers, if the interval has elapsed.
func (s *ToolSnapshot) Update(tpl *Template, now shared.GameTime, intervalHours float64, scorer WorkScorer) (bool, error) {
	if s.fresh(now, intervalHours) {
		return false, nil
	}
	s.beginUpdate(now)

	s.workScores = make(map[shared.WorkTypeID]float64)
	if scorer == nil {
		return true, nil
	}
	for _, work := range scorer.WorkTypes() {
		if score, ok := scorer.WorkScore(tpl, work, now); ok {
			s.workScores[work] = score
		}
	}
	return true, nil
}

// FitnessFor averages the known scores over the requested work types. A work
// type with no known score contributes 0, it is not excluded from the mean.
func (s *ToolSnapshot) FitnessFor(workTypes []shared.WorkTypeID) float64 {
	if len(workTypes) == 0 {
		return 0
	}
	sum := 0.0
	for _, work := range workTypes {
		sum += s.workScores[work]
	}
	return sum / float64(len(workTypes))
}

// TemplateCarrier is implemented by every subject the cache store can serve.
type TemplateCarrier interface {
	TemplateRef() *Template
}

// CacheStore owns one derived-stat snapshot per subject (item instance or
// template) and serves custom stats to the valuation service. Generic stats
// and the per-kind snapshots carry structurally independent refresh
// intervals, though all default to the same 24 game hours.
type CacheStore struct {
	rangedInterval float64
	meleeInterval  float64
	toolInterval   float64

	scorer WorkScorer
	log    shared.EngineLogger

	ranged map[string]*RangedSnapshot
	melee  map[string]*MeleeSnapshot
	tool   map[string]*ToolSnapshot
}

// NewCacheStore creates a store with the given refresh interval (game hours)
// applied to all snapshot kinds. logger may be nil.
func NewCacheStore(refreshHours float64, logger shared.EngineLogger) *CacheStore {
	if refreshHours <= 0 {
		refreshHours = DefaultRefreshHours
	}
	if logger == nil {
		logger = shared.NopLogger{}
	}
	return &CacheStore{
		rangedInterval: refreshHours,
		meleeInterval:  refreshHours,
		toolInterval:   refreshHours,
		log:            logger,
		ranged:         make(map[string]*RangedSnapshot),
		melee:          make(map[string]*MeleeSnapshot),
		tool:           make(map[string]*ToolSnapshot),
	}
}

// SetWorkScorer wires the work-type score source (the rule set).
func (s *CacheStore) SetWorkScorer(scorer WorkScorer) { s.scorer = scorer }

// Ranged returns the up-to-date ranged snapshot for a subject.
func (s *CacheStore) Ranged(subject stats.Subject, now shared.GameTime) *RangedSnapshot {
	carrier, ok := subject.(TemplateCarrier)
	if !ok {
		return &RangedSnapshot{}
	}
	snap, exists := s.ranged[subject.SubjectKey()]
	if !exists {
		snap = &RangedSnapshot{}
		s.ranged[subject.SubjectKey()] = snap
	}
	if _, err := snap.Update(carrier.TemplateRef(), now, s.rangedInterval); err != nil {
		s.logRefreshError(subject, err)
	}
	return snap
}

// Melee returns the up-to-date melee snapshot for a subject.
func (s *CacheStore) Melee(subject stats.Subject, now shared.GameTime) *MeleeSnapshot {
	carrier, ok := subject.(TemplateCarrier)
	if !ok {
		return &MeleeSnapshot{}
	}
	snap, exists := s.melee[subject.SubjectKey()]
	if !exists {
		snap = &MeleeSnapshot{}
		s.melee[subject.SubjectKey()] = snap
	}
	if _, err := snap.Update(carrier.TemplateRef(), now, s.meleeInterval); err != nil {
		s.logRefreshError(subject, err)
	}
	return snap
}

// Tool returns the up-to-date tool snapshot for a subject.
func (s *CacheStore) Tool(subject stats.Subject, now shared.GameTime) *ToolSnapshot {
	carrier, ok := subject.(TemplateCarrier)
	if !ok {
		return &ToolSnapshot{}
	}
	snap, exists := s.tool[subject.SubjectKey()]
	if !exists {
		snap = &ToolSnapshot{}
		s.tool[subject.SubjectKey()] = snap
	}
	if _, err := snap.Update(carrier.TemplateRef(), now, s.toolInterval, s.scorer); err != nil {
		s.logRefreshError(subject, err)
	}
	return snap
}

// Forget drops the snapshots for a subject key, e.g. when an item is
// destroyed.
func (s *CacheStore) Forget(key string) {
	delete(s.ranged, key)
	delete(s.melee, key)
	delete(s.tool, key)
}

// Derived implements stats.DerivedProvider.
func (s *CacheStore) Derived(subject stats.Subject, custom stats.CustomStat, now shared.GameTime, workTypes []shared.WorkTypeID) (float64, error) {
	switch custom {
	case stats.CustomRangedDPS:
		return s.Ranged(subject, now).RawDPS, nil
	case stats.CustomRangedAccuracyDPS:
		return s.Ranged(subject, now).AccuracyDPS, nil
	case stats.CustomRangedArmorPenetration:
		return s.Ranged(subject, now).ArmorPen, nil
	case stats.CustomMeleeArmorPenetration:
		return s.Melee(subject, now).ArmorPen, nil
	case stats.CustomToolWorkFitness:
		return s.Tool(subject, now).FitnessFor(workTypes), nil
	default:
		return 0, fmt.Errorf("unhandled custom stat %d", custom)
	}
}

func (s *CacheStore) logRefreshError(subject stats.Subject, err error) {
	s.log.Log(shared.LevelWarn, "derived stat refresh failed", map[string]interface{}{
		"subject": subject.SubjectKey(),
		"error":   err.Error(),
	})
}
