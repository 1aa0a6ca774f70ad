// Package allocation assigns loadouts to pawns under priority and
// proportional-share constraints.
package allocation

import (
	"hash/fnv"
	"math"
	"sort"

	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// Candidate is the allocator's view of one tracked pawn: its snapshot, its
// persisted binding, and the last desirability snapshot per loadout id.
// Desirability refreshes on its own cadence and may be slightly stale
// relative to the allocation pass.
type Candidate struct {
	Pawn         *ports.PawnSnapshot
	Binding      *loadout.Binding
	Desirability map[int]float64
}

// Result summarizes one allocation pass for observers and tests.
type Result struct {
	// Targets is each processed loadout's proportional-share target count.
	Targets map[int]int

	// Assigned is each processed loadout's bound-pawn count after the pass.
	Assigned map[int]int

	// Claimed counts the pawns newly bound this pass.
	Claimed int
}

// Allocator implements the greedy proportional-share assignment.
type Allocator struct {
	log shared.EngineLogger
}

// NewAllocator creates an allocator. logger may be nil.
func NewAllocator(logger shared.EngineLogger) *Allocator {
	if logger == nil {
		logger = shared.NopLogger{}
	}
	return &Allocator{log: logger}
}

// Allocate binds loadouts to unbound automatic pawns.
//
// Loadouts with priority 0 are manual-only and skipped. The rest are
// processed in descending order of configured eligibility-constraint count,
// then descending priority, so more specific loadouts claim pawns first.
// Bound pawns are never reassigned within a pass; manually pinned pawns are
// never touched; unmatched pawns keep no loadout.
func (a *Allocator) Allocate(cands []*Candidate, loadouts []*loadout.Loadout) Result {
	res := Result{Targets: make(map[int]int), Assigned: make(map[int]int)}

	active := make([]*loadout.Loadout, 0, len(loadouts))
	for _, l := range loadouts {
		if l.Priority > 0 {
			active = append(active, l)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		ci, cj := active[i].ConstraintCount(), active[j].ConstraintCount()
		if ci != cj {
			return ci > cj
		}
		if active[i].Priority != active[j].Priority {
			return active[i].Priority > active[j].Priority
		}
		return active[i].ID < active[j].ID
	})

	// Eligibility matrix and each pawn's total eligible priority. A pawn
	// eligible for many loadouts dilutes every loadout's share.
	eligible := make(map[int][]*Candidate, len(active))
	prioritySum := make(map[*Candidate]int, len(cands))
	for _, l := range active {
		for _, c := range cands {
			if l.IsEligible(c.Pawn) {
				eligible[l.ID] = append(eligible[l.ID], c)
				prioritySum[c] += l.Priority
			}
		}
	}

	for _, l := range active {
		pool := eligible[l.ID]
		if len(pool) == 0 {
			continue
		}

		total := 0
		for _, c := range pool {
			total += prioritySum[c]
		}
		avgPriority := float64(total) / float64(len(pool))
		if avgPriority <= 0 {
			continue
		}
		target := int(math.Ceil(float64(len(pool)) * float64(l.Priority) / avgPriority))
		res.Targets[l.ID] = target

		assigned := 0
		for _, c := range pool {
			if c.Binding.LoadoutID == l.ID {
				assigned++
			}
		}

		for assigned < target {
			best := a.pickBest(pool, l.ID)
			if best == nil {
				break
			}
			best.Binding.LoadoutID = l.ID
			assigned++
			res.Claimed++
		}
		res.Assigned[l.ID] = assigned
	}
	return res
}

// pickBest returns the unbound automatic candidate with the highest
// desirability for the loadout, tie-broken by the stable pawn identity hash.
func (a *Allocator) pickBest(pool []*Candidate, loadoutID int) *Candidate {
	var best *Candidate
	var bestScore float64
	var bestHash uint64
	for _, c := range pool {
		if !c.Binding.Auto || c.Binding.HasLoadout() {
			continue
		}
		score := c.Desirability[loadoutID]
		h := PawnHash(c.Pawn.ID)
		if best == nil || score > bestScore || (score == bestScore && h < bestHash) {
			best, bestScore, bestHash = c, score, h
		}
	}
	return best
}

// PawnHash is the stable identity hash used for tie-breaking.
func PawnHash(id shared.PawnID) uint64 { return StableHash(string(id)) }

// StableHash is the FNV-1a identity hash shared by every deterministic
// tie-break in the engine.
func StableHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
