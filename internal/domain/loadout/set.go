package loadout

import (
	"sort"

	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// Set is the owning collection of all loadouts, keyed by id.
type Set struct {
	loadouts map[int]*Loadout
	nextID   int
}

// NewSet creates an empty loadout set.
func NewSet() *Set {
	return &Set{loadouts: make(map[int]*Loadout)}
}

// Create adds a new loadout with the next stable id.
func (s *Set) Create(label string) *Loadout {
	s.nextID++
	l := &Loadout{
		ID:                  s.nextID,
		Label:               label,
		TraitRequirements:   make(map[shared.TraitID]bool),
		WorkTagRequirements: make(map[shared.WorkTagID]bool),
		PassionRequirements: make(map[shared.SkillID]ports.PassionLevel),
	}
	s.loadouts[l.ID] = l
	return l
}

// Restore reinstates a persisted loadout, keeping id allocation consistent.
func (s *Set) Restore(l *Loadout) {
	if l.TraitRequirements == nil {
		l.TraitRequirements = make(map[shared.TraitID]bool)
	}
	if l.WorkTagRequirements == nil {
		l.WorkTagRequirements = make(map[shared.WorkTagID]bool)
	}
	if l.PassionRequirements == nil {
		l.PassionRequirements = make(map[shared.SkillID]ports.PassionLevel)
	}
	s.loadouts[l.ID] = l
	if l.ID > s.nextID {
		s.nextID = l.ID
	}
}

// Get resolves a loadout by id.
func (s *Set) Get(id int) (*Loadout, bool) {
	l, ok := s.loadouts[id]
	return l, ok
}

// Delete removes a loadout.
func (s *Set) Delete(id int) bool {
	if _, ok := s.loadouts[id]; !ok {
		return false
	}
	delete(s.loadouts, id)
	return true
}

// Copy duplicates a loadout under a new id and label.
func (s *Set) Copy(id int, label string) (*Loadout, bool) {
	src, ok := s.loadouts[id]
	if !ok {
		return nil, false
	}
	dst := s.Create(label)
	newID := dst.ID
	*dst = *src
	dst.ID = newID
	dst.Label = label
	dst.RangedSidearmRules = append([]int(nil), src.RangedSidearmRules...)
	dst.MeleeSidearmRules = append([]int(nil), src.MeleeSidearmRules...)
	dst.Limits = append([]MetricLimit(nil), src.Limits...)
	dst.Weights = append([]MetricWeight(nil), src.Weights...)
	dst.TraitRequirements = make(map[shared.TraitID]bool, len(src.TraitRequirements))
	for k, v := range src.TraitRequirements {
		dst.TraitRequirements[k] = v
	}
	dst.WorkTagRequirements = make(map[shared.WorkTagID]bool, len(src.WorkTagRequirements))
	for k, v := range src.WorkTagRequirements {
		dst.WorkTagRequirements[k] = v
	}
	dst.PassionRequirements = make(map[shared.SkillID]ports.PassionLevel, len(src.PassionRequirements))
	for k, v := range src.PassionRequirements {
		dst.PassionRequirements[k] = v
	}
	s.loadouts[newID] = dst
	return dst, true
}

// All returns every loadout ordered by id.
func (s *Set) All() []*Loadout {
	out := make([]*Loadout, 0, len(s.loadouts))
	for _, l := range s.loadouts {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Binding is the persisted pawn-to-loadout association. LoadoutID 0 means
// "no loadout". Auto marks allocator-managed bindings; a manual pin sets it
// false and the allocator never touches the pawn again.
type Binding struct {
	Pawn      shared.PawnID
	LoadoutID int
	Auto      bool
}

// HasLoadout reports whether a loadout is assigned.
func (b *Binding) HasLoadout() bool { return b.LoadoutID != 0 }

// BindingTable owns one binding per pawn, created lazily on first query and
// removed when the pawn is permanently gone.
type BindingTable struct {
	bindings map[shared.PawnID]*Binding
}

// NewBindingTable creates an empty table.
func NewBindingTable() *BindingTable {
	return &BindingTable{bindings: make(map[shared.PawnID]*Binding)}
}

// For returns the pawn's binding, creating an automatic empty one on first
// query.
func (t *BindingTable) For(pawn shared.PawnID) *Binding {
	b, ok := t.bindings[pawn]
	if !ok {
		b = &Binding{Pawn: pawn, Auto: true}
		t.bindings[pawn] = b
	}
	return b
}

// Restore reinstates a persisted binding.
func (t *BindingTable) Restore(b *Binding) {
	t.bindings[b.Pawn] = b
}

// Remove drops a pawn's binding, e.g. when the pawn is permanently gone.
func (t *BindingTable) Remove(pawn shared.PawnID) {
	delete(t.bindings, pawn)
}

// All returns every binding, ordered by pawn id for determinism.
func (t *BindingTable) All() []*Binding {
	out := make([]*Binding, 0, len(t.bindings))
	for _, b := range t.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pawn < out[j].Pawn })
	return out
}
