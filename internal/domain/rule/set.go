package rule

import (
	"sort"

	"github.com/andrescamacho/quartermaster-go/internal/domain/inventory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// Catalog resolves item templates. The host's definition database implements
// it; the sim world adapter implements it for tests.
type Catalog interface {
	Templates() []*inventory.Template
	Template(id shared.TemplateID) *inventory.Template
}

// WorkRuleSource exposes which stats matter for which work types. The rule
// set itself implements it over its configured work-type rules.
type WorkRuleSource interface {
	RelevantStats(workTypes []shared.WorkTypeID) map[stats.StatID]struct{}
}

// Env is the explicit environment rule methods evaluate against. It replaces
// the original design's process-wide service locator: callers pass the owning
// state in rather than rules looking it up.
type Env struct {
	Valuation *stats.Valuation
	Catalog   Catalog
	WorkRules WorkRuleSource
	Log       shared.EngineLogger
}

func (e *Env) logf(msg string, subject stats.Subject, stat stats.StatID, err error) {
	if e.Log == nil {
		return
	}
	e.Log.Log(shared.LevelWarn, msg, map[string]interface{}{
		"subject": subject.SubjectKey(),
		"stat":    string(stat),
		"error":   err.Error(),
	})
}

// Set is the owning collection of all rules, keyed by kind and id. Cross
// references between rules and loadouts are id-based lookups into this
// collection, never object references.
type Set struct {
	rules  map[Kind]map[int]*Rule
	nextID map[Kind]int
	env    *Env
}

// NewSet creates an empty rule set bound to its evaluation environment.
func NewSet(env *Env) *Set {
	s := &Set{
		rules:  make(map[Kind]map[int]*Rule),
		nextID: make(map[Kind]int),
		env:    env,
	}
	if env != nil && env.WorkRules == nil {
		env.WorkRules = s
	}
	return s
}

// Env returns the evaluation environment rules in this set run against.
func (s *Set) Env() *Env { return s.env }

// Create adds a new rule of the kind with the next stable id.
func (s *Set) Create(kind Kind, label string) *Rule {
	s.nextID[kind]++
	r := newRule(s.nextID[kind], kind, label)
	if s.rules[kind] == nil {
		s.rules[kind] = make(map[int]*Rule)
	}
	s.rules[kind][r.ID] = r
	return r
}

// Restore reinstates a persisted rule, keeping id allocation consistent.
func (s *Set) Restore(r *Rule) {
	if r.listings == nil {
		r.listings = make(map[shared.TemplateID]Listing)
	}
	if s.rules[r.Kind] == nil {
		s.rules[r.Kind] = make(map[int]*Rule)
	}
	s.rules[r.Kind][r.ID] = r
	if r.ID > s.nextID[r.Kind] {
		s.nextID[r.Kind] = r.ID
	}
}

// Get resolves a rule by kind and id.
func (s *Set) Get(kind Kind, id int) (*Rule, bool) {
	r, ok := s.rules[kind][id]
	return r, ok
}

// Delete removes a rule. Protected rules are kept.
func (s *Set) Delete(kind Kind, id int) bool {
	r, ok := s.rules[kind][id]
	if !ok || r.Protected {
		return false
	}
	delete(s.rules[kind], id)
	return true
}

// Copy duplicates a rule under a new id and label.
func (s *Set) Copy(kind Kind, id int, label string) (*Rule, bool) {
	src, ok := s.rules[kind][id]
	if !ok {
		return nil, false
	}
	dst := s.Create(kind, label)
	dst.Mode = src.Mode
	dst.Filters = src.Filters
	dst.AmmoCount = src.AmmoCount
	dst.WorkType = src.WorkType
	dst.Weights = append([]StatWeight(nil), src.Weights...)
	dst.Limits = append([]StatLimit(nil), src.Limits...)
	for tpl, l := range src.listings {
		dst.listings[tpl] = l
	}
	return dst, true
}

// ByKind returns the rules of one kind, ordered by id.
func (s *Set) ByKind(kind Kind) []*Rule {
	out := make([]*Rule, 0, len(s.rules[kind]))
	for _, r := range s.rules[kind] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every rule across kinds, ordered by kind then id.
func (s *Set) All() []*Rule {
	var out []*Rule
	for _, kind := range []Kind{KindRangedWeapon, KindMeleeWeapon, KindTool, KindWorkType} {
		out = append(out, s.ByKind(kind)...)
	}
	return out
}

// RecomputeAll rebuilds every rule's cached availability set, e.g. after a
// bulk import.
func (s *Set) RecomputeAll() {
	for _, r := range s.All() {
		if r.Kind == KindWorkType {
			continue
		}
		r.ComputeGloballyAvailable(s.env, nil)
	}
}

// workRuleFor finds the work-type rule bound to a work type, if any.
func (s *Set) workRuleFor(work shared.WorkTypeID) *Rule {
	for _, r := range s.rules[KindWorkType] {
		if r.WorkType == work {
			return r
		}
	}
	return nil
}

// WorkTypes implements inventory.WorkScorer: every work type a rule covers.
func (s *Set) WorkTypes() []shared.WorkTypeID {
	seen := make(map[shared.WorkTypeID]struct{})
	var out []shared.WorkTypeID
	for _, r := range s.rules[KindWorkType] {
		if _, dup := seen[r.WorkType]; dup {
			continue
		}
		seen[r.WorkType] = struct{}{}
		out = append(out, r.WorkType)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WorkScore implements inventory.WorkScorer: a template's raw fitness for one
// work type is the weighted sum of the stats its work-type rule configures.
func (s *Set) WorkScore(tpl *inventory.Template, work shared.WorkTypeID, now shared.GameTime) (float64, bool) {
	r := s.workRuleFor(work)
	if r == nil {
		return 0, false
	}
	sum := 0.0
	for _, w := range r.Weights {
		value, err := s.env.Valuation.Value(tpl, w.Stat, now, nil)
		if err != nil {
			continue
		}
		sum += value * w.Weight
	}
	return sum, true
}

// RelevantStats implements WorkRuleSource: the union of stats the configured
// work-type rules weight for the requested work types. Empty workTypes means
// all configured work types.
func (s *Set) RelevantStats(workTypes []shared.WorkTypeID) map[stats.StatID]struct{} {
	out := make(map[stats.StatID]struct{})
	if len(workTypes) == 0 {
		workTypes = s.WorkTypes()
	}
	for _, work := range workTypes {
		r := s.workRuleFor(work)
		if r == nil {
			continue
		}
		for _, w := range r.Weights {
			out[w.Stat] = struct{}{}
		}
	}
	return out
}
