package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
)

// GetRuleQuery - Query for one rule by kind and id
type GetRuleQuery struct {
	Kind rule.Kind
	ID   int
}

// GetRuleResponse - Response from get rule query
type GetRuleResponse struct {
	Rule *rule.Rule
}

// GetRuleHandler - Handles get rule queries
type GetRuleHandler struct {
	rules *rule.Set
}

// NewGetRuleHandler creates a new get rule handler
func NewGetRuleHandler(rules *rule.Set) *GetRuleHandler {
	return &GetRuleHandler{rules: rules}
}

// Handle executes the get rule query
func (h *GetRuleHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*GetRuleQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	r, found := h.rules.Get(q.Kind, q.ID)
	if !found {
		return nil, fmt.Errorf("rule not found: %s %d", q.Kind, q.ID)
	}
	return &GetRuleResponse{Rule: r}, nil
}
