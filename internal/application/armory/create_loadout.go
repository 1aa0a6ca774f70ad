package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
)

// CreateLoadoutCommand - Command to create a loadout
type CreateLoadoutCommand struct {
	Label    string
	Priority int
}

// CreateLoadoutResponse - Response from create loadout command
type CreateLoadoutResponse struct {
	Loadout *loadout.Loadout
}

// CreateLoadoutHandler - Handles create loadout commands
type CreateLoadoutHandler struct {
	loadouts    *loadout.Set
	loadoutRepo loadout.Repository
}

// NewCreateLoadoutHandler creates a new create loadout handler
func NewCreateLoadoutHandler(loadouts *loadout.Set, loadoutRepo loadout.Repository) *CreateLoadoutHandler {
	return &CreateLoadoutHandler{loadouts: loadouts, loadoutRepo: loadoutRepo}
}

// Handle executes the create loadout command
func (h *CreateLoadoutHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateLoadoutCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Label == "" {
		return nil, fmt.Errorf("loadout label cannot be empty")
	}
	if cmd.Priority < loadout.MinPriority || cmd.Priority > loadout.MaxPriority {
		return nil, fmt.Errorf("priority %d outside [%d, %d]", cmd.Priority, loadout.MinPriority, loadout.MaxPriority)
	}

	l := h.loadouts.Create(cmd.Label)
	l.Priority = cmd.Priority

	if err := saveLoadout(ctx, h.loadoutRepo, l); err != nil {
		return nil, err
	}
	return &CreateLoadoutResponse{Loadout: l}, nil
}

// saveLoadout persists a loadout when a repository is wired.
func saveLoadout(ctx context.Context, repo loadout.Repository, l *loadout.Loadout) error {
	if repo == nil {
		return nil
	}
	if err := repo.Save(ctx, l); err != nil {
		return fmt.Errorf("failed to save loadout: %w", err)
	}
	return nil
}
