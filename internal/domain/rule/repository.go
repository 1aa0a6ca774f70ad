package rule

import "context"

// Repository persists rules across sessions. Implementations live in the
// persistence adapter; the domain only sees the interface.
type Repository interface {
	// Save upserts one rule with its weights, limits and listings.
	Save(ctx context.Context, r *Rule) error

	// Delete removes one rule and its children.
	Delete(ctx context.Context, kind Kind, id int) error

	// FindAll loads every persisted rule.
	FindAll(ctx context.Context) ([]*Rule, error)
}
