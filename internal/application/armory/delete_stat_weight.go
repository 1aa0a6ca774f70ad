package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// DeleteStatWeightCommand - Command to remove one scoring weight from a rule
type DeleteStatWeightCommand struct {
	Kind   rule.Kind
	RuleID int
	Stat   stats.StatID
}

// DeleteStatWeightResponse - Response from delete stat weight command
type DeleteStatWeightResponse struct {
	Rule *rule.Rule
}

// DeleteStatWeightHandler - Handles delete stat weight commands
type DeleteStatWeightHandler struct {
	rules    *rule.Set
	ruleRepo rule.Repository
}

// NewDeleteStatWeightHandler creates a new delete stat weight handler
func NewDeleteStatWeightHandler(rules *rule.Set, ruleRepo rule.Repository) *DeleteStatWeightHandler {
	return &DeleteStatWeightHandler{rules: rules, ruleRepo: ruleRepo}
}

// Handle executes the delete stat weight command
func (h *DeleteStatWeightHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteStatWeightCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	r, found := h.rules.Get(cmd.Kind, cmd.RuleID)
	if !found {
		return nil, fmt.Errorf("rule not found: %s %d", cmd.Kind, cmd.RuleID)
	}
	for _, w := range r.Weights {
		if w.Stat == cmd.Stat && w.Protected {
			return nil, fmt.Errorf("weight for %s is protected and cannot be deleted", cmd.Stat)
		}
	}
	r.DeleteStatWeight(cmd.Stat)
	r.ComputeGloballyAvailable(h.rules.Env(), nil)

	if err := saveRule(ctx, h.ruleRepo, r); err != nil {
		return nil, err
	}
	return &DeleteStatWeightResponse{Rule: r}, nil
}
