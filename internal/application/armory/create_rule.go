// Package armory is the application layer over the equipment engine: every
// mutation of rules, loadouts and bindings goes through a mediator command
// here, so the CLI and any future surface share one code path.
package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
)

// CreateRuleCommand - Command to create an equipment rule
type CreateRuleCommand struct {
	Kind  rule.Kind
	Label string
	Mode  rule.EquipMode
}

// CreateRuleResponse - Response from create rule command
type CreateRuleResponse struct {
	Rule *rule.Rule
}

// CreateRuleHandler - Handles create rule commands
type CreateRuleHandler struct {
	rules    *rule.Set
	ruleRepo rule.Repository
}

// NewCreateRuleHandler creates a new create rule handler
func NewCreateRuleHandler(rules *rule.Set, ruleRepo rule.Repository) *CreateRuleHandler {
	return &CreateRuleHandler{rules: rules, ruleRepo: ruleRepo}
}

// Handle executes the create rule command
func (h *CreateRuleHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateRuleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Label == "" {
		return nil, fmt.Errorf("rule label cannot be empty")
	}
	if !cmd.Kind.ValidMode(cmd.Mode) {
		return nil, fmt.Errorf("equip mode %d not valid for %s rules", cmd.Mode, cmd.Kind)
	}

	r := h.rules.Create(cmd.Kind, cmd.Label)
	r.Mode = cmd.Mode

	if err := saveRule(ctx, h.ruleRepo, r); err != nil {
		return nil, err
	}
	return &CreateRuleResponse{Rule: r}, nil
}

// saveRule persists a rule when a repository is wired; in-memory sessions
// run without one.
func saveRule(ctx context.Context, repo rule.Repository, r *rule.Rule) error {
	if repo == nil {
		return nil
	}
	if err := repo.Save(ctx, r); err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}
	return nil
}
