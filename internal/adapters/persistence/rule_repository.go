package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// GormRuleRepository implements rule.Repository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GORM rule repository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// Save upserts a rule and replaces its weights, limits and listings
func (r *GormRuleRepository) Save(ctx context.Context, entity *rule.Rule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(r.entityToModel(entity)).Error; err != nil {
			return fmt.Errorf("failed to save rule: %w", err)
		}
		if err := r.deleteChildren(tx, int(entity.Kind), entity.ID); err != nil {
			return err
		}
		for _, w := range entity.Weights {
			m := &StatWeightModel{
				RuleKind: int(entity.Kind), RuleID: entity.ID,
				Stat: string(w.Stat), Weight: w.Weight, Protected: w.Protected,
			}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("failed to save stat weight: %w", err)
			}
		}
		for _, l := range entity.Limits {
			m := &StatLimitModel{
				RuleKind: int(entity.Kind), RuleID: entity.ID,
				Stat: string(l.Stat), Min: l.Min, Max: l.Max,
			}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("failed to save stat limit: %w", err)
			}
		}
		for tpl, listing := range entity.Listings() {
			m := &ListingModel{
				RuleKind: int(entity.Kind), RuleID: entity.ID,
				Template: string(tpl), Listing: int(listing),
			}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("failed to save listing: %w", err)
			}
		}
		return nil
	})
}

// Delete removes a rule and its children
func (r *GormRuleRepository) Delete(ctx context.Context, kind rule.Kind, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.deleteChildren(tx, int(kind), id); err != nil {
			return err
		}
		result := tx.Where("kind = ? AND id = ?", int(kind), id).Delete(&RuleModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete rule: %w", result.Error)
		}
		return nil
	})
}

// FindAll loads every persisted rule with its children
func (r *GormRuleRepository) FindAll(ctx context.Context) ([]*rule.Rule, error) {
	var models []RuleModel
	if err := r.db.WithContext(ctx).Order("kind, id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	rules := make([]*rule.Rule, 0, len(models))
	for i := range models {
		entity, err := r.modelToEntity(ctx, &models[i])
		if err != nil {
			return nil, err
		}
		rules = append(rules, entity)
	}
	return rules, nil
}

func (r *GormRuleRepository) deleteChildren(tx *gorm.DB, kind, id int) error {
	if err := tx.Where("rule_kind = ? AND rule_id = ?", kind, id).Delete(&StatWeightModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete stat weights: %w", err)
	}
	if err := tx.Where("rule_kind = ? AND rule_id = ?", kind, id).Delete(&StatLimitModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete stat limits: %w", err)
	}
	if err := tx.Where("rule_kind = ? AND rule_id = ?", kind, id).Delete(&ListingModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete listings: %w", err)
	}
	return nil
}

func (r *GormRuleRepository) entityToModel(entity *rule.Rule) *RuleModel {
	return &RuleModel{
		Kind:      int(entity.Kind),
		ID:        entity.ID,
		Label:     entity.Label,
		Protected: entity.Protected,
		Mode:      int(entity.Mode),
		AmmoCount: entity.AmmoCount,
		WorkType:  string(entity.WorkType),

		FilterExplosive:         entity.Filters.Explosive,
		FilterManualCast:        entity.Filters.ManualCast,
		FilterUsableWithShields: entity.Filters.UsableWithShields,
		FilterRottable:          entity.Filters.Rottable,
		FilterRangedTool:        entity.Filters.RangedTool,
	}
}

func (r *GormRuleRepository) modelToEntity(ctx context.Context, model *RuleModel) (*rule.Rule, error) {
	entity := rule.RestoredRule(model.ID, rule.Kind(model.Kind), model.Label)
	entity.Protected = model.Protected
	entity.Mode = rule.EquipMode(model.Mode)
	entity.AmmoCount = model.AmmoCount
	entity.WorkType = shared.WorkTypeID(model.WorkType)
	entity.Filters = rule.Filters{
		Explosive:         model.FilterExplosive,
		ManualCast:        model.FilterManualCast,
		UsableWithShields: model.FilterUsableWithShields,
		Rottable:          model.FilterRottable,
		RangedTool:        model.FilterRangedTool,
	}

	var weights []StatWeightModel
	if err := r.db.WithContext(ctx).
		Where("rule_kind = ? AND rule_id = ?", model.Kind, model.ID).
		Order("stat").Find(&weights).Error; err != nil {
		return nil, fmt.Errorf("failed to load stat weights: %w", err)
	}
	for _, w := range weights {
		entity.SetStatWeight(stats.StatID(w.Stat), w.Weight, w.Protected)
	}

	var limits []StatLimitModel
	if err := r.db.WithContext(ctx).
		Where("rule_kind = ? AND rule_id = ?", model.Kind, model.ID).
		Order("stat").Find(&limits).Error; err != nil {
		return nil, fmt.Errorf("failed to load stat limits: %w", err)
	}
	for _, l := range limits {
		entity.SetStatLimit(stats.StatID(l.Stat), l.Min, l.Max)
	}

	var listings []ListingModel
	if err := r.db.WithContext(ctx).
		Where("rule_kind = ? AND rule_id = ?", model.Kind, model.ID).
		Order("template").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}
	for _, l := range listings {
		entity.SetListing(shared.TemplateID(l.Template), rule.Listing(l.Listing))
	}

	return entity, nil
}
