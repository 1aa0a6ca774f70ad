package armory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quartermaster-go/internal/adapters/persistence"
	"github.com/andrescamacho/quartermaster-go/internal/application/armory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/scheduler"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/test/helpers"
)

func TestCreateRuleValidatesInput(t *testing.T) {
	h := helpers.NewHarness()
	handler := armory.NewCreateRuleHandler(h.Rules, nil)
	ctx := context.Background()

	_, err := handler.Handle(ctx, &armory.CreateRuleCommand{Kind: rule.KindRangedWeapon, Mode: rule.ModeBestOne})
	assert.ErrorContains(t, err, "label")

	_, err = handler.Handle(ctx, &armory.CreateRuleCommand{
		Kind: rule.KindRangedWeapon, Label: "Bad mode", Mode: rule.ModeOneForEveryWorkType,
	})
	assert.ErrorContains(t, err, "not valid")

	resp, err := handler.Handle(ctx, &armory.CreateRuleCommand{
		Kind: rule.KindRangedWeapon, Label: "Carbines", Mode: rule.ModeBestOne,
	})
	require.NoError(t, err)
	created := resp.(*armory.CreateRuleResponse).Rule
	assert.Equal(t, "Carbines", created.Label)
	_, found := h.Rules.Get(rule.KindRangedWeapon, created.ID)
	assert.True(t, found)
}

func TestDeleteRuleRefusesProtected(t *testing.T) {
	h := helpers.NewHarness()
	handler := armory.NewDeleteRuleHandler(h.Rules, nil)
	ctx := context.Background()

	_, err := handler.Handle(ctx, &armory.DeleteRuleCommand{
		Kind: rule.KindRangedWeapon, ID: h.Presets.AssaultRifle,
	})
	assert.ErrorContains(t, err, "protected")

	// A rule the user created goes away, and the deletion hits the repository.
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRuleRepository(db)
	create := armory.NewCreateRuleHandler(h.Rules, repo)
	resp, err := create.Handle(ctx, &armory.CreateRuleCommand{
		Kind: rule.KindMeleeWeapon, Label: "Spears", Mode: rule.ModeBestOne,
	})
	require.NoError(t, err)
	created := resp.(*armory.CreateRuleResponse).Rule

	del := armory.NewDeleteRuleHandler(h.Rules, repo)
	_, err = del.Handle(ctx, &armory.DeleteRuleCommand{Kind: rule.KindMeleeWeapon, ID: created.ID})
	require.NoError(t, err)

	_, found := h.Rules.Get(rule.KindMeleeWeapon, created.ID)
	assert.False(t, found)
	persisted, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestSetStatWeightOnMissingRule(t *testing.T) {
	h := helpers.NewHarness()
	handler := armory.NewSetStatWeightHandler(h.Rules, nil)

	_, err := handler.Handle(context.Background(), &armory.SetStatWeightCommand{
		Kind: rule.KindRangedWeapon, RuleID: 999, Stat: "Mass", Weight: 1,
	})

	assert.ErrorContains(t, err, "not found")
}

func TestCopyLoadoutDuplicates(t *testing.T) {
	h := helpers.NewHarness()
	handler := armory.NewCopyLoadoutHandler(h.Loadouts, nil)
	src := h.Loadouts.All()[0]

	resp, err := handler.Handle(context.Background(), &armory.CopyLoadoutCommand{ID: src.ID, Label: "Copy"})

	require.NoError(t, err)
	dst := resp.(*armory.CopyLoadoutResponse).Loadout
	assert.NotEqual(t, src.ID, dst.ID)
	assert.Equal(t, "Copy", dst.Label)
	assert.Equal(t, src.Priority, dst.Priority)
}

func TestSetPawnLoadoutPinsAndValidates(t *testing.T) {
	h := helpers.NewHarness()
	handler := armory.NewSetPawnLoadoutHandler(h.Loadouts, h.Bindings, nil)
	ctx := context.Background()

	_, err := handler.Handle(ctx, &armory.SetPawnLoadoutCommand{Pawn: "alice", LoadoutID: 999})
	assert.ErrorContains(t, err, "not found")

	target := h.Loadouts.All()[0]
	resp, err := handler.Handle(ctx, &armory.SetPawnLoadoutCommand{Pawn: "alice", LoadoutID: target.ID})
	require.NoError(t, err)
	b := resp.(*armory.SetPawnLoadoutResponse).Binding
	assert.Equal(t, target.ID, b.LoadoutID)
	assert.False(t, b.Auto)
	assert.Same(t, b, h.Bindings.For("alice"))
}

func TestRunConvergencePassFlushesState(t *testing.T) {
	h := helpers.NewHarness()
	db := helpers.NewTestDB(t)
	bindingRepo := persistence.NewGormBindingRepository(db)
	rangeRepo := persistence.NewGormStatRangeRepository(db)
	sched := scheduler.New(h.Engine, h.World, scheduler.Config{PassIntervalHours: 6}, h.Log)
	handler := armory.NewRunConvergencePassHandler(sched, h.Bindings, h.Ranges, bindingRepo, rangeRepo)
	ctx := context.Background()

	h.Bindings.Restore(&loadout.Binding{Pawn: "alice", LoadoutID: 1, Auto: false})

	resp, err := handler.Handle(ctx, &armory.RunConvergencePassCommand{Time: h.Clock.Now(), Forced: true})
	require.NoError(t, err)
	require.NotNil(t, resp.(*armory.RunConvergencePassResponse).Report)

	persisted, err := bindingRepo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, shared.PawnID("alice"), persisted[0].Pawn)

	// A scheduled pass right after the forced one is gated by the interval
	// and reports nothing.
	resp, err = handler.Handle(ctx, &armory.RunConvergencePassCommand{Time: h.Clock.Now()})
	require.NoError(t, err)
	assert.Nil(t, resp.(*armory.RunConvergencePassResponse).Report)
}

func TestGetEngineLogHonorsLimit(t *testing.T) {
	h := helpers.NewHarness()
	handler := armory.NewGetEngineLogHandler(h.Log)
	for i := 0; i < 5; i++ {
		h.Log.Log(shared.LevelInfo, "entry", nil)
	}

	resp, err := handler.Handle(context.Background(), &armory.GetEngineLogQuery{Limit: 2})

	require.NoError(t, err)
	assert.Len(t, resp.(*armory.GetEngineLogResponse).Entries, 2)
}
