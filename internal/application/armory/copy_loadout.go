package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
)

// CopyLoadoutCommand - Command to duplicate a loadout
type CopyLoadoutCommand struct {
	ID    int
	Label string
}

// CopyLoadoutResponse - Response from copy loadout command
type CopyLoadoutResponse struct {
	Loadout *loadout.Loadout
}

// CopyLoadoutHandler - Handles copy loadout commands
type CopyLoadoutHandler struct {
	loadouts    *loadout.Set
	loadoutRepo loadout.Repository
}

// NewCopyLoadoutHandler creates a new copy loadout handler
func NewCopyLoadoutHandler(loadouts *loadout.Set, loadoutRepo loadout.Repository) *CopyLoadoutHandler {
	return &CopyLoadoutHandler{loadouts: loadouts, loadoutRepo: loadoutRepo}
}

// Handle executes the copy loadout command
func (h *CopyLoadoutHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CopyLoadoutCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Label == "" {
		return nil, fmt.Errorf("loadout label cannot be empty")
	}

	dst, found := h.loadouts.Copy(cmd.ID, cmd.Label)
	if !found {
		return nil, fmt.Errorf("loadout not found: %d", cmd.ID)
	}

	if err := saveLoadout(ctx, h.loadoutRepo, dst); err != nil {
		return nil, err
	}
	return &CopyLoadoutResponse{Loadout: dst}, nil
}
