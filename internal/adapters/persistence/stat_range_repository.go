package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// GormStatRangeRepository implements stats.RangeRepository using GORM
type GormStatRangeRepository struct {
	db *gorm.DB
}

// NewGormStatRangeRepository creates a new GORM stat range repository
func NewGormStatRangeRepository(db *gorm.DB) *GormStatRangeRepository {
	return &GormStatRangeRepository{db: db}
}

// SaveAll replaces the persisted range snapshot
func (r *GormStatRangeRepository) SaveAll(ctx context.Context, records []stats.RangeRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&StatRangeModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear stat ranges: %w", err)
		}
		for _, rec := range records {
			m := &StatRangeModel{Stat: string(rec.Stat), Lo: rec.Lo, Hi: rec.Hi}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("failed to save stat range: %w", err)
			}
		}
		return nil
	})
}

// FindAll loads the persisted range snapshot
func (r *GormStatRangeRepository) FindAll(ctx context.Context) ([]stats.RangeRecord, error) {
	var models []StatRangeModel
	if err := r.db.WithContext(ctx).Order("stat").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load stat ranges: %w", err)
	}

	records := make([]stats.RangeRecord, 0, len(models))
	for _, m := range models {
		records = append(records, stats.RangeRecord{Stat: stats.StatID(m.Stat), Lo: m.Lo, Hi: m.Hi})
	}
	return records, nil
}
