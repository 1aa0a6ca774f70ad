package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
)

// DeleteLoadoutCommand - Command to delete a loadout. Bindings to the
// deleted loadout resolve to "no loadout" on the next pass.
type DeleteLoadoutCommand struct {
	ID int
}

// DeleteLoadoutResponse - Response from delete loadout command
type DeleteLoadoutResponse struct {
	Deleted bool
}

// DeleteLoadoutHandler - Handles delete loadout commands
type DeleteLoadoutHandler struct {
	loadouts    *loadout.Set
	loadoutRepo loadout.Repository
}

// NewDeleteLoadoutHandler creates a new delete loadout handler
func NewDeleteLoadoutHandler(loadouts *loadout.Set, loadoutRepo loadout.Repository) *DeleteLoadoutHandler {
	return &DeleteLoadoutHandler{loadouts: loadouts, loadoutRepo: loadoutRepo}
}

// Handle executes the delete loadout command
func (h *DeleteLoadoutHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteLoadoutCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	if !h.loadouts.Delete(cmd.ID) {
		return nil, fmt.Errorf("loadout not found: %d", cmd.ID)
	}
	if h.loadoutRepo != nil {
		if err := h.loadoutRepo.Delete(ctx, cmd.ID); err != nil {
			return nil, fmt.Errorf("failed to delete loadout: %w", err)
		}
	}
	return &DeleteLoadoutResponse{Deleted: true}, nil
}
