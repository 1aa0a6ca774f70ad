package loadout

import "context"

// Repository persists loadouts across sessions.
type Repository interface {
	// Save upserts one loadout with its predicates, limits and weights.
	Save(ctx context.Context, l *Loadout) error

	// Delete removes one loadout and its children.
	Delete(ctx context.Context, id int) error

	// FindAll loads every persisted loadout.
	FindAll(ctx context.Context) ([]*Loadout, error)
}

// BindingRepository persists pawn-to-loadout bindings.
type BindingRepository interface {
	Save(ctx context.Context, b *Binding) error
	Delete(ctx context.Context, pawn string) error
	FindAll(ctx context.Context) ([]*Binding, error)
}
