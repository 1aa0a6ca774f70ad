package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
)

// CopyRuleCommand - Command to duplicate an equipment rule
type CopyRuleCommand struct {
	Kind  rule.Kind
	ID    int
	Label string
}

// CopyRuleResponse - Response from copy rule command
type CopyRuleResponse struct {
	Rule *rule.Rule
}

// CopyRuleHandler - Handles copy rule commands
type CopyRuleHandler struct {
	rules    *rule.Set
	ruleRepo rule.Repository
}

// NewCopyRuleHandler creates a new copy rule handler
func NewCopyRuleHandler(rules *rule.Set, ruleRepo rule.Repository) *CopyRuleHandler {
	return &CopyRuleHandler{rules: rules, ruleRepo: ruleRepo}
}

// Handle executes the copy rule command
func (h *CopyRuleHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CopyRuleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Label == "" {
		return nil, fmt.Errorf("rule label cannot be empty")
	}

	dst, found := h.rules.Copy(cmd.Kind, cmd.ID, cmd.Label)
	if !found {
		return nil, fmt.Errorf("rule not found: %s %d", cmd.Kind, cmd.ID)
	}

	if err := saveRule(ctx, h.ruleRepo, dst); err != nil {
		return nil, err
	}
	return &CopyRuleResponse{Rule: dst}, nil
}
