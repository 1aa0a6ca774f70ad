package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/quartermaster-go/internal/application/armory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// armoryContext drives the application-layer handlers against the colony
// harness owned by the convergence steps.
type armoryContext struct {
	colony  *colonyContext
	lastErr error
}

func (ac *armoryContext) reset() {
	ac.lastErr = nil
}

func (ac *armoryContext) iCreateARangedRuleLabelled(label string) error {
	handler := armory.NewCreateRuleHandler(ac.colony.harness.Rules, nil)
	_, err := handler.Handle(context.Background(), &armory.CreateRuleCommand{
		Kind: rule.KindRangedWeapon, Label: label, Mode: rule.ModeBestOne,
	})
	return err
}

func (ac *armoryContext) theRuleSetShouldContainARangedRuleLabelled(label string) error {
	for _, r := range ac.colony.harness.Rules.ByKind(rule.KindRangedWeapon) {
		if r.Label == label {
			return nil
		}
	}
	return fmt.Errorf("no ranged rule labelled %q", label)
}

func (ac *armoryContext) iTryToDeleteTheShippedAssaultRifleRule() error {
	handler := armory.NewDeleteRuleHandler(ac.colony.harness.Rules, nil)
	_, ac.lastErr = handler.Handle(context.Background(), &armory.DeleteRuleCommand{
		Kind: rule.KindRangedWeapon, ID: ac.colony.harness.Presets.AssaultRifle,
	})
	return nil
}

func (ac *armoryContext) theDeletionShouldBeRefusedAsProtected() error {
	if ac.lastErr == nil {
		return fmt.Errorf("deletion unexpectedly succeeded")
	}
	if !strings.Contains(ac.lastErr.Error(), "protected") {
		return fmt.Errorf("unexpected error: %v", ac.lastErr)
	}
	return nil
}

func (ac *armoryContext) iPinToTheLoadout(name, label string) error {
	l, err := ac.colony.loadoutByLabel(label)
	if err != nil {
		return err
	}
	handler := armory.NewSetPawnLoadoutHandler(ac.colony.harness.Loadouts, ac.colony.harness.Bindings, nil)
	_, err = handler.Handle(context.Background(), &armory.SetPawnLoadoutCommand{
		Pawn: shared.PawnID(name), LoadoutID: l.ID,
	})
	return err
}

func (ac *armoryContext) shouldBeBoundToTheLoadout(name, label string) error {
	l, err := ac.colony.loadoutByLabel(label)
	if err != nil {
		return err
	}
	b := ac.colony.harness.Bindings.For(shared.PawnID(name))
	if b.LoadoutID != l.ID {
		return fmt.Errorf("%s is bound to loadout %d, expected %d (%s)", name, b.LoadoutID, l.ID, label)
	}
	return nil
}

// InitializeArmoryScenario registers the rule and loadout management steps
// over the shared colony context.
func InitializeArmoryScenario(sc *godog.ScenarioContext, colony *colonyContext) {
	ac := &armoryContext{colony: colony}
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		ac.reset()
		return ctx, nil
	})

	sc.Step(`^I create a ranged rule labelled "([^"]*)"$`, ac.iCreateARangedRuleLabelled)
	sc.Step(`^the rule set should contain a ranged rule labelled "([^"]*)"$`, ac.theRuleSetShouldContainARangedRuleLabelled)
	sc.Step(`^I try to delete the shipped assault rifle rule$`, ac.iTryToDeleteTheShippedAssaultRifleRule)
	sc.Step(`^the deletion should be refused as protected$`, ac.theDeletionShouldBeRefusedAsProtected)
	sc.Step(`^I pin "([^"]*)" to the "([^"]*)" loadout$`, ac.iPinToTheLoadout)
	sc.Step(`^"([^"]*)" should be bound to the "([^"]*)" loadout$`, ac.shouldBeBoundToTheLoadout)
}
