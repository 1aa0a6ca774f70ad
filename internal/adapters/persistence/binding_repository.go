package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// GormBindingRepository implements loadout.BindingRepository using GORM
type GormBindingRepository struct {
	db *gorm.DB
}

// NewGormBindingRepository creates a new GORM binding repository
func NewGormBindingRepository(db *gorm.DB) *GormBindingRepository {
	return &GormBindingRepository{db: db}
}

// Save upserts one pawn binding
func (r *GormBindingRepository) Save(ctx context.Context, b *loadout.Binding) error {
	model := &BindingModel{
		Pawn:      string(b.Pawn),
		LoadoutID: b.LoadoutID,
		Auto:      b.Auto,
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save binding: %w", err)
	}
	return nil
}

// Delete removes one pawn binding
func (r *GormBindingRepository) Delete(ctx context.Context, pawn string) error {
	if err := r.db.WithContext(ctx).Where("pawn = ?", pawn).Delete(&BindingModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete binding: %w", err)
	}
	return nil
}

// FindAll loads every persisted binding
func (r *GormBindingRepository) FindAll(ctx context.Context) ([]*loadout.Binding, error) {
	var models []BindingModel
	if err := r.db.WithContext(ctx).Order("pawn").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load bindings: %w", err)
	}

	bindings := make([]*loadout.Binding, 0, len(models))
	for _, m := range models {
		bindings = append(bindings, &loadout.Binding{
			Pawn:      shared.PawnID(m.Pawn),
			LoadoutID: m.LoadoutID,
			Auto:      m.Auto,
		})
	}
	return bindings, nil
}
