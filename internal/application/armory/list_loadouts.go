package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
)

// ListLoadoutsQuery - Query for all loadouts and current bindings
type ListLoadoutsQuery struct{}

// ListLoadoutsResponse - Response from list loadouts query
type ListLoadoutsResponse struct {
	Loadouts []*loadout.Loadout
	Bindings []*loadout.Binding
}

// ListLoadoutsHandler - Handles list loadouts queries
type ListLoadoutsHandler struct {
	loadouts *loadout.Set
	bindings *loadout.BindingTable
}

// NewListLoadoutsHandler creates a new list loadouts handler
func NewListLoadoutsHandler(loadouts *loadout.Set, bindings *loadout.BindingTable) *ListLoadoutsHandler {
	return &ListLoadoutsHandler{loadouts: loadouts, bindings: bindings}
}

// Handle executes the list loadouts query
func (h *ListLoadoutsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListLoadoutsQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	return &ListLoadoutsResponse{
		Loadouts: h.loadouts.All(),
		Bindings: h.bindings.All(),
	}, nil
}
