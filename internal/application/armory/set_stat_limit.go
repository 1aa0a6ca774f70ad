package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// SetStatLimitCommand - Command to set a hard stat filter on a rule. Nil Min
// or Max leaves that bound open; both nil removes the limit.
type SetStatLimitCommand struct {
	Kind   rule.Kind
	RuleID int
	Stat   stats.StatID
	Min    *float64
	Max    *float64
}

// SetStatLimitResponse - Response from set stat limit command
type SetStatLimitResponse struct {
	Rule *rule.Rule
}

// SetStatLimitHandler - Handles set stat limit commands
type SetStatLimitHandler struct {
	rules    *rule.Set
	ruleRepo rule.Repository
}

// NewSetStatLimitHandler creates a new set stat limit handler
func NewSetStatLimitHandler(rules *rule.Set, ruleRepo rule.Repository) *SetStatLimitHandler {
	return &SetStatLimitHandler{rules: rules, ruleRepo: ruleRepo}
}

// Handle executes the set stat limit command
func (h *SetStatLimitHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetStatLimitCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Min != nil && cmd.Max != nil && *cmd.Min > *cmd.Max {
		return nil, fmt.Errorf("stat limit min %v exceeds max %v", *cmd.Min, *cmd.Max)
	}

	r, found := h.rules.Get(cmd.Kind, cmd.RuleID)
	if !found {
		return nil, fmt.Errorf("rule not found: %s %d", cmd.Kind, cmd.RuleID)
	}
	if cmd.Min == nil && cmd.Max == nil {
		r.DeleteStatLimit(cmd.Stat)
	} else {
		r.SetStatLimit(cmd.Stat, cmd.Min, cmd.Max)
	}

	if err := saveRule(ctx, h.ruleRepo, r); err != nil {
		return nil, err
	}
	return &SetStatLimitResponse{Rule: r}, nil
}
