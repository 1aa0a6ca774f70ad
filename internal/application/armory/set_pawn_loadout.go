package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// SetPawnLoadoutCommand - Command to pin or release a pawn's loadout.
// LoadoutID 0 with Auto true returns the pawn to allocator management;
// any other combination is a manual pin the allocator never overrides.
type SetPawnLoadoutCommand struct {
	Pawn      shared.PawnID
	LoadoutID int
	Auto      bool
}

// SetPawnLoadoutResponse - Response from set pawn loadout command
type SetPawnLoadoutResponse struct {
	Binding *loadout.Binding
}

// SetPawnLoadoutHandler - Handles set pawn loadout commands
type SetPawnLoadoutHandler struct {
	loadouts    *loadout.Set
	bindings    *loadout.BindingTable
	bindingRepo loadout.BindingRepository
}

// NewSetPawnLoadoutHandler creates a new set pawn loadout handler
func NewSetPawnLoadoutHandler(loadouts *loadout.Set, bindings *loadout.BindingTable, bindingRepo loadout.BindingRepository) *SetPawnLoadoutHandler {
	return &SetPawnLoadoutHandler{loadouts: loadouts, bindings: bindings, bindingRepo: bindingRepo}
}

// Handle executes the set pawn loadout command
func (h *SetPawnLoadoutHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetPawnLoadoutCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Pawn == "" {
		return nil, fmt.Errorf("pawn id cannot be empty")
	}
	if cmd.LoadoutID != 0 {
		if _, found := h.loadouts.Get(cmd.LoadoutID); !found {
			return nil, fmt.Errorf("loadout not found: %d", cmd.LoadoutID)
		}
	}

	b := h.bindings.For(cmd.Pawn)
	b.LoadoutID = cmd.LoadoutID
	b.Auto = cmd.Auto

	if h.bindingRepo != nil {
		if err := h.bindingRepo.Save(ctx, b); err != nil {
			return nil, fmt.Errorf("failed to save binding: %w", err)
		}
	}
	return &SetPawnLoadoutResponse{Binding: b}, nil
}
