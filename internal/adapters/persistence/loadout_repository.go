package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

const (
	slotRanged = "ranged"
	slotMelee  = "melee"

	reqTrait   = "trait"
	reqWorkTag = "worktag"
	reqPassion = "passion"
)

// GormLoadoutRepository implements loadout.Repository using GORM
type GormLoadoutRepository struct {
	db *gorm.DB
}

// NewGormLoadoutRepository creates a new GORM loadout repository
func NewGormLoadoutRepository(db *gorm.DB) *GormLoadoutRepository {
	return &GormLoadoutRepository{db: db}
}

// Save upserts a loadout and replaces its predicate and scoring children
func (r *GormLoadoutRepository) Save(ctx context.Context, entity *loadout.Loadout) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &LoadoutModel{
			ID:                    entity.ID,
			Label:                 entity.Label,
			Priority:              entity.Priority,
			Primary:               int(entity.Primary),
			PrimaryRangedRuleID:   entity.PrimaryRangedRuleID,
			PrimaryMeleeRuleID:    entity.PrimaryMeleeRuleID,
			ToolRuleID:            entity.ToolRuleID,
			DropUnassignedWeapons: entity.DropUnassignedWeapons,
		}
		if err := tx.Save(model).Error; err != nil {
			return fmt.Errorf("failed to save loadout: %w", err)
		}
		if err := r.deleteChildren(tx, entity.ID); err != nil {
			return err
		}

		for i, ruleID := range entity.RangedSidearmRules {
			m := &LoadoutRuleModel{LoadoutID: entity.ID, Slot: slotRanged, Position: i, RuleID: ruleID}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("failed to save sidearm rule: %w", err)
			}
		}
		for i, ruleID := range entity.MeleeSidearmRules {
			m := &LoadoutRuleModel{LoadoutID: entity.ID, Slot: slotMelee, Position: i, RuleID: ruleID}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("failed to save sidearm rule: %w", err)
			}
		}

		for trait, required := range entity.TraitRequirements {
			if err := tx.Create(&RequirementModel{
				LoadoutID: entity.ID, ReqType: reqTrait, Key: string(trait), Value: boolToInt(required),
			}).Error; err != nil {
				return fmt.Errorf("failed to save trait requirement: %w", err)
			}
		}
		for tag, required := range entity.WorkTagRequirements {
			if err := tx.Create(&RequirementModel{
				LoadoutID: entity.ID, ReqType: reqWorkTag, Key: string(tag), Value: boolToInt(required),
			}).Error; err != nil {
				return fmt.Errorf("failed to save work tag requirement: %w", err)
			}
		}
		for skill, passion := range entity.PassionRequirements {
			if err := tx.Create(&RequirementModel{
				LoadoutID: entity.ID, ReqType: reqPassion, Key: string(skill), Value: int(passion),
			}).Error; err != nil {
				return fmt.Errorf("failed to save passion requirement: %w", err)
			}
		}

		for _, limit := range entity.Limits {
			m := &MetricLimitModel{
				LoadoutID:  entity.ID,
				MetricKind: int(limit.Ref.Kind),
				MetricID:   limit.Ref.ID,
				Min:        limit.Min,
				Max:        limit.Max,
			}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("failed to save metric limit: %w", err)
			}
		}
		for _, weight := range entity.Weights {
			m := &MetricWeightModel{
				LoadoutID:  entity.ID,
				MetricKind: int(weight.Ref.Kind),
				MetricID:   weight.Ref.ID,
				Weight:     weight.Weight,
			}
			if err := tx.Create(m).Error; err != nil {
				return fmt.Errorf("failed to save metric weight: %w", err)
			}
		}
		return nil
	})
}

// Delete removes a loadout and its children
func (r *GormLoadoutRepository) Delete(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.deleteChildren(tx, id); err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&LoadoutModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete loadout: %w", err)
		}
		return nil
	})
}

// FindAll loads every persisted loadout with its children
func (r *GormLoadoutRepository) FindAll(ctx context.Context) ([]*loadout.Loadout, error) {
	var models []LoadoutModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load loadouts: %w", err)
	}

	loadouts := make([]*loadout.Loadout, 0, len(models))
	for i := range models {
		entity, err := r.modelToEntity(ctx, &models[i])
		if err != nil {
			return nil, err
		}
		loadouts = append(loadouts, entity)
	}
	return loadouts, nil
}

func (r *GormLoadoutRepository) deleteChildren(tx *gorm.DB, id int) error {
	for _, model := range []interface{}{
		&LoadoutRuleModel{}, &RequirementModel{}, &MetricLimitModel{}, &MetricWeightModel{},
	} {
		if err := tx.Where("loadout_id = ?", id).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to delete loadout children: %w", err)
		}
	}
	return nil
}

func (r *GormLoadoutRepository) modelToEntity(ctx context.Context, model *LoadoutModel) (*loadout.Loadout, error) {
	entity := &loadout.Loadout{
		ID:                    model.ID,
		Label:                 model.Label,
		Priority:              model.Priority,
		Primary:               loadout.PrimaryType(model.Primary),
		PrimaryRangedRuleID:   model.PrimaryRangedRuleID,
		PrimaryMeleeRuleID:    model.PrimaryMeleeRuleID,
		ToolRuleID:            model.ToolRuleID,
		DropUnassignedWeapons: model.DropUnassignedWeapons,
		TraitRequirements:     make(map[shared.TraitID]bool),
		WorkTagRequirements:   make(map[shared.WorkTagID]bool),
		PassionRequirements:   make(map[shared.SkillID]ports.PassionLevel),
	}

	var sidearms []LoadoutRuleModel
	if err := r.db.WithContext(ctx).
		Where("loadout_id = ?", model.ID).
		Order("slot, position").Find(&sidearms).Error; err != nil {
		return nil, fmt.Errorf("failed to load sidearm rules: %w", err)
	}
	for _, s := range sidearms {
		switch s.Slot {
		case slotRanged:
			entity.RangedSidearmRules = append(entity.RangedSidearmRules, s.RuleID)
		case slotMelee:
			entity.MeleeSidearmRules = append(entity.MeleeSidearmRules, s.RuleID)
		}
	}

	var requirements []RequirementModel
	if err := r.db.WithContext(ctx).
		Where("loadout_id = ?", model.ID).
		Order("req_type, key").Find(&requirements).Error; err != nil {
		return nil, fmt.Errorf("failed to load requirements: %w", err)
	}
	for _, req := range requirements {
		switch req.ReqType {
		case reqTrait:
			entity.TraitRequirements[shared.TraitID(req.Key)] = req.Value != 0
		case reqWorkTag:
			entity.WorkTagRequirements[shared.WorkTagID(req.Key)] = req.Value != 0
		case reqPassion:
			entity.PassionRequirements[shared.SkillID(req.Key)] = ports.PassionLevel(req.Value)
		}
	}

	var limits []MetricLimitModel
	if err := r.db.WithContext(ctx).
		Where("loadout_id = ?", model.ID).
		Order("metric_kind, metric_id").Find(&limits).Error; err != nil {
		return nil, fmt.Errorf("failed to load metric limits: %w", err)
	}
	for _, l := range limits {
		entity.Limits = append(entity.Limits, loadout.MetricLimit{
			Ref: loadout.MetricRef{Kind: loadout.MetricKind(l.MetricKind), ID: l.MetricID},
			Min: l.Min,
			Max: l.Max,
		})
	}

	var weights []MetricWeightModel
	if err := r.db.WithContext(ctx).
		Where("loadout_id = ?", model.ID).
		Order("metric_kind, metric_id").Find(&weights).Error; err != nil {
		return nil, fmt.Errorf("failed to load metric weights: %w", err)
	}
	for _, w := range weights {
		entity.Weights = append(entity.Weights, loadout.MetricWeight{
			Ref:    loadout.MetricRef{Kind: loadout.MetricKind(w.MetricKind), ID: w.MetricID},
			Weight: w.Weight,
		})
	}

	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
