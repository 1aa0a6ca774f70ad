package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// SetListingCommand - Command to set a template's whitelist/blacklist state
// on a rule. ListingUnset clears the entry.
type SetListingCommand struct {
	Kind     rule.Kind
	RuleID   int
	Template shared.TemplateID
	Listing  rule.Listing
}

// SetListingResponse - Response from set listing command
type SetListingResponse struct {
	Rule *rule.Rule
}

// SetListingHandler - Handles set listing commands
type SetListingHandler struct {
	rules    *rule.Set
	ruleRepo rule.Repository
}

// NewSetListingHandler creates a new set listing handler
func NewSetListingHandler(rules *rule.Set, ruleRepo rule.Repository) *SetListingHandler {
	return &SetListingHandler{rules: rules, ruleRepo: ruleRepo}
}

// Handle executes the set listing command
func (h *SetListingHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetListingCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	r, found := h.rules.Get(cmd.Kind, cmd.RuleID)
	if !found {
		return nil, fmt.Errorf("rule not found: %s %d", cmd.Kind, cmd.RuleID)
	}
	if env := h.rules.Env(); env != nil && env.Catalog != nil {
		if env.Catalog.Template(cmd.Template) == nil {
			return nil, fmt.Errorf("unknown template: %s", cmd.Template)
		}
	}

	r.SetListing(cmd.Template, cmd.Listing)
	r.ComputeGloballyAvailable(h.rules.Env(), nil)

	if err := saveRule(ctx, h.ruleRepo, r); err != nil {
		return nil, err
	}
	return &SetListingResponse{Rule: r}, nil
}
