package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
)

// DeleteRuleCommand - Command to delete an equipment rule
type DeleteRuleCommand struct {
	Kind rule.Kind
	ID   int
}

// DeleteRuleResponse - Response from delete rule command
type DeleteRuleResponse struct {
	Deleted bool
}

// DeleteRuleHandler - Handles delete rule commands
type DeleteRuleHandler struct {
	rules    *rule.Set
	ruleRepo rule.Repository
}

// NewDeleteRuleHandler creates a new delete rule handler
func NewDeleteRuleHandler(rules *rule.Set, ruleRepo rule.Repository) *DeleteRuleHandler {
	return &DeleteRuleHandler{rules: rules, ruleRepo: ruleRepo}
}

// Handle executes the delete rule command
func (h *DeleteRuleHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteRuleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	r, found := h.rules.Get(cmd.Kind, cmd.ID)
	if !found {
		return nil, fmt.Errorf("rule not found: %s %d", cmd.Kind, cmd.ID)
	}
	if r.Protected {
		return nil, fmt.Errorf("rule %q is protected and cannot be deleted", r.Label)
	}
	if !h.rules.Delete(cmd.Kind, cmd.ID) {
		return &DeleteRuleResponse{Deleted: false}, nil
	}

	if h.ruleRepo != nil {
		if err := h.ruleRepo.Delete(ctx, cmd.Kind, cmd.ID); err != nil {
			return nil, fmt.Errorf("failed to delete rule: %w", err)
		}
	}
	return &DeleteRuleResponse{Deleted: true}, nil
}
