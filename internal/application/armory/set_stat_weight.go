package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// SetStatWeightCommand - Command to set one scoring weight on a rule. The
// weight is clamped to the configured magnitude cap; setting an existing
// stat overwrites it.
type SetStatWeightCommand struct {
	Kind   rule.Kind
	RuleID int
	Stat   stats.StatID
	Weight float64
}

// SetStatWeightResponse - Response from set stat weight command
type SetStatWeightResponse struct {
	Rule *rule.Rule
}

// SetStatWeightHandler - Handles set stat weight commands
type SetStatWeightHandler struct {
	rules    *rule.Set
	ruleRepo rule.Repository
}

// NewSetStatWeightHandler creates a new set stat weight handler
func NewSetStatWeightHandler(rules *rule.Set, ruleRepo rule.Repository) *SetStatWeightHandler {
	return &SetStatWeightHandler{rules: rules, ruleRepo: ruleRepo}
}

// Handle executes the set stat weight command
func (h *SetStatWeightHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetStatWeightCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	r, found := h.rules.Get(cmd.Kind, cmd.RuleID)
	if !found {
		return nil, fmt.Errorf("rule not found: %s %d", cmd.Kind, cmd.RuleID)
	}
	r.SetStatWeight(cmd.Stat, cmd.Weight, false)
	r.ComputeGloballyAvailable(h.rules.Env(), nil)

	if err := saveRule(ctx, h.ruleRepo, r); err != nil {
		return nil, err
	}
	return &SetStatWeightResponse{Rule: r}, nil
}
