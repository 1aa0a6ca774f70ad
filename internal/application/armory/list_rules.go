package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
)

// ListRulesQuery - Query for rules, optionally filtered to one kind
type ListRulesQuery struct {
	Kind    rule.Kind
	HasKind bool
}

// ListRulesResponse - Response from list rules query
type ListRulesResponse struct {
	Rules []*rule.Rule
}

// ListRulesHandler - Handles list rules queries
type ListRulesHandler struct {
	rules *rule.Set
}

// NewListRulesHandler creates a new list rules handler
func NewListRulesHandler(rules *rule.Set) *ListRulesHandler {
	return &ListRulesHandler{rules: rules}
}

// Handle executes the list rules query
func (h *ListRulesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*ListRulesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if q.HasKind {
		return &ListRulesResponse{Rules: h.rules.ByKind(q.Kind)}, nil
	}
	return &ListRulesResponse{Rules: h.rules.All()}, nil
}
