package armory

import (
	"context"
	"fmt"
	"sort"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/convergence"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/scheduler"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// RunConvergencePassCommand - Command to run one convergence pass. Forced
// passes bypass the scheduler gates; scheduled ones return nil when gated.
type RunConvergencePassCommand struct {
	Time   shared.GameTime
	Forced bool
}

// RunConvergencePassResponse - Response from run convergence pass command
type RunConvergencePassResponse struct {
	Report *convergence.PassReport
}

// RunConvergencePassHandler - Handles run convergence pass commands
type RunConvergencePassHandler struct {
	scheduler   *scheduler.Scheduler
	bindings    *loadout.BindingTable
	ranges      *stats.RangeTable
	bindingRepo loadout.BindingRepository
	rangeRepo   stats.RangeRepository
}

// NewRunConvergencePassHandler creates a new run convergence pass handler
func NewRunConvergencePassHandler(
	sched *scheduler.Scheduler,
	bindings *loadout.BindingTable,
	ranges *stats.RangeTable,
	bindingRepo loadout.BindingRepository,
	rangeRepo stats.RangeRepository,
) *RunConvergencePassHandler {
	return &RunConvergencePassHandler{
		scheduler:   sched,
		bindings:    bindings,
		ranges:      ranges,
		bindingRepo: bindingRepo,
		rangeRepo:   rangeRepo,
	}
}

// Handle executes the run convergence pass command
func (h *RunConvergencePassHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RunConvergencePassCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	var report *convergence.PassReport
	if cmd.Forced {
		report = h.scheduler.Force(cmd.Time)
	} else {
		report = h.scheduler.Tick(cmd.Time)
	}
	if report == nil {
		return &RunConvergencePassResponse{}, nil
	}

	// A pass mutates bindings and widens deviation ranges; flush both so a
	// restart resumes from the same state.
	if err := h.flushBindings(ctx); err != nil {
		return nil, err
	}
	if err := h.flushRanges(ctx); err != nil {
		return nil, err
	}
	return &RunConvergencePassResponse{Report: report}, nil
}

func (h *RunConvergencePassHandler) flushBindings(ctx context.Context) error {
	if h.bindingRepo == nil {
		return nil
	}
	for _, b := range h.bindings.All() {
		if err := h.bindingRepo.Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save binding for %s: %w", b.Pawn, err)
		}
	}
	return nil
}

func (h *RunConvergencePassHandler) flushRanges(ctx context.Context) error {
	if h.rangeRepo == nil || h.ranges == nil {
		return nil
	}
	all := h.ranges.All()
	records := make([]stats.RangeRecord, 0, len(all))
	for id, r := range all {
		records = append(records, stats.RangeRecord{Stat: id, Lo: r.Lo, Hi: r.Hi})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Stat < records[j].Stat })
	if err := h.rangeRepo.SaveAll(ctx, records); err != nil {
		return fmt.Errorf("failed to save stat ranges: %w", err)
	}
	return nil
}
