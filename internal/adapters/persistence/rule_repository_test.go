package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quartermaster-go/internal/adapters/persistence"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/test/helpers"
)

func TestRuleRepositoryRoundTrip(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRuleRepository(db)
	ctx := context.Background()

	entity := rule.RestoredRule(3, rule.KindRangedWeapon, "Snipers")
	entity.Protected = true
	entity.Mode = rule.ModeBestOne
	entity.AmmoCount = 60
	no := false
	entity.Filters.Explosive = &no
	entity.SetStatWeight("RangedWeapon_Range", 2.0, true)
	entity.SetStatWeight("Mass", -0.5, false)
	min := 20.0
	entity.SetStatLimit("RangedWeapon_Range", &min, nil)
	entity.SetListing("SimSniperRifle", rule.ListingWhitelisted)
	entity.SetListing("SimMachinePistol", rule.ListingBlacklisted)

	// Act
	require.NoError(t, repo.Save(ctx, entity))
	loaded, err := repo.FindAll(ctx)

	// Assert
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	got := loaded[0]
	assert.Equal(t, 3, got.ID)
	assert.Equal(t, rule.KindRangedWeapon, got.Kind)
	assert.Equal(t, "Snipers", got.Label)
	assert.True(t, got.Protected)
	assert.Equal(t, 60, got.AmmoCount)
	require.NotNil(t, got.Filters.Explosive)
	assert.False(t, *got.Filters.Explosive)
	assert.Nil(t, got.Filters.ManualCast)

	require.Len(t, got.Weights, 2)
	require.Len(t, got.Limits, 1)
	require.NotNil(t, got.Limits[0].Min)
	assert.Equal(t, 20.0, *got.Limits[0].Min)
	assert.Nil(t, got.Limits[0].Max)

	assert.Equal(t, rule.ListingWhitelisted, got.Listing("SimSniperRifle"))
	assert.Equal(t, rule.ListingBlacklisted, got.Listing("SimMachinePistol"))
}

func TestRuleRepositorySaveReplacesChildren(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRuleRepository(db)
	ctx := context.Background()

	entity := rule.RestoredRule(1, rule.KindMeleeWeapon, "Blades")
	entity.SetStatWeight("MeleeWeapon_AverageDPS", 2.0, false)
	require.NoError(t, repo.Save(ctx, entity))

	// Re-saving with different children replaces, not appends.
	entity.DeleteStatWeight("MeleeWeapon_AverageDPS")
	entity.SetStatWeight("Mass", -1.0, false)
	require.NoError(t, repo.Save(ctx, entity))

	loaded, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Len(t, loaded[0].Weights, 1)
	assert.Equal(t, "Mass", string(loaded[0].Weights[0].Stat))
}

func TestRuleRepositoryDelete(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRuleRepository(db)
	ctx := context.Background()

	keep := rule.RestoredRule(1, rule.KindRangedWeapon, "Keep")
	gone := rule.RestoredRule(1, rule.KindMeleeWeapon, "Gone")
	gone.SetStatWeight("Mass", 1.0, false)
	require.NoError(t, repo.Save(ctx, keep))
	require.NoError(t, repo.Save(ctx, gone))

	require.NoError(t, repo.Delete(ctx, rule.KindMeleeWeapon, 1))

	// Same id under a different kind survives: ids are per kind.
	loaded, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Keep", loaded[0].Label)
}
