package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/quartermaster-go/internal/domain/convergence"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/ports"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
	"github.com/andrescamacho/quartermaster-go/test/helpers"
)

// colonyContext is the shared world every scenario in the suite runs
// against: one harness, reset per scenario.
type colonyContext struct {
	harness    *helpers.Harness
	lastReport *convergence.PassReport
}

func (cc *colonyContext) reset() {
	cc.harness = nil
	cc.lastReport = nil
}

func (cc *colonyContext) aColonyManagedByTheShippedPresets() error {
	cc.harness = helpers.NewHarness()
	return nil
}

func (cc *colonyContext) loadoutByLabel(label string) (*loadout.Loadout, error) {
	for _, l := range cc.harness.Loadouts.All() {
		if l.Label == label {
			return l, nil
		}
	}
	return nil, fmt.Errorf("no loadout labelled %q", label)
}

func (cc *colonyContext) pawn(name string) (*ports.PawnSnapshot, error) {
	p := cc.harness.World.Pawn(shared.PawnID(name))
	if p == nil {
		return nil, fmt.Errorf("no pawn named %q", name)
	}
	return p, nil
}

func (cc *colonyContext) aPawnBoundToTheLoadout(name, label string) error {
	l, err := cc.loadoutByLabel(label)
	if err != nil {
		return err
	}
	p := &ports.PawnSnapshot{
		ID:   shared.PawnID(name),
		Name: name,
		Skills: map[shared.SkillID]ports.SkillSnapshot{
			"Shooting": {Level: 10, Passion: ports.PassionMinor},
			"Melee":    {Level: 8, Passion: ports.PassionMinor},
		},
		Capacities: map[shared.CapacityID]float64{
			"Sight": 1.0, "Manipulation": 1.0, "Moving": 1.0,
		},
		EnabledWorkTags: map[shared.WorkTagID]bool{"Violent": true},
	}
	cc.harness.World.AddPawn(p)
	b := cc.harness.Bindings.For(p.ID)
	b.LoadoutID = l.ID
	b.Auto = false
	return nil
}

func (cc *colonyContext) aLyingOnTheMap(template string) error {
	if cc.harness.World.Template(shared.TemplateID(template)) == nil {
		return fmt.Errorf("unknown template %q", template)
	}
	cc.harness.World.PlaceItem(shared.TemplateID(template), 100, 100)
	return nil
}

func (cc *colonyContext) aStackOfOnTheMap(count int, template string) error {
	if cc.harness.World.Template(shared.TemplateID(template)) == nil {
		return fmt.Errorf("unknown template %q", template)
	}
	cc.harness.World.PlaceStack(shared.TemplateID(template), count)
	return nil
}

func (cc *colonyContext) theEngineRunsOnePass() error {
	cc.lastReport = cc.harness.Engine.RunPass(cc.harness.Clock.Now())
	cc.harness.Clock.AdvanceHours(1)
	return nil
}

// theEngineRunsUntilStable runs two passes: the first seeds the deviation
// ranges, the second converges on them.
func (cc *colonyContext) theEngineRunsUntilStable() error {
	if err := cc.theEngineRunsOnePass(); err != nil {
		return err
	}
	return cc.theEngineRunsOnePass()
}

func (cc *colonyContext) shouldHoldAsPrimary(name, template string) error {
	p, err := cc.pawn(name)
	if err != nil {
		return err
	}
	if p.Primary == nil {
		return fmt.Errorf("%s holds no primary", name)
	}
	if string(p.Primary.Template.ID) != template {
		return fmt.Errorf("%s holds %s, expected %s", name, p.Primary.Template.ID, template)
	}
	return nil
}

func (cc *colonyContext) shouldHoldDifferentWeapons(first, second string) error {
	a, err := cc.pawn(first)
	if err != nil {
		return err
	}
	b, err := cc.pawn(second)
	if err != nil {
		return err
	}
	if a.Primary == nil || b.Primary == nil {
		return fmt.Errorf("both pawns must hold a primary")
	}
	if a.Primary.ID == b.Primary.ID {
		return fmt.Errorf("both pawns hold item %s", a.Primary.ID)
	}
	return nil
}

func (cc *colonyContext) shouldCarryRoundsOf(name string, count int, template string) error {
	p, err := cc.pawn(name)
	if err != nil {
		return err
	}
	carried := 0
	for _, item := range p.Carried {
		if string(item.Template.ID) == template {
			carried += item.StackCount
		}
	}
	if carried != count {
		return fmt.Errorf("%s carries %d rounds of %s, expected %d", name, carried, template, count)
	}
	return nil
}

func (cc *colonyContext) meleeRuleByLabel(label string) (*rule.Rule, error) {
	for _, r := range cc.harness.Rules.ByKind(rule.KindMeleeWeapon) {
		if r.Label == label {
			return r, nil
		}
	}
	return nil, fmt.Errorf("no melee rule labelled %q", label)
}

func (cc *colonyContext) aMeleeRuleWeighting(label, stat string, weight float64) error {
	r := cc.harness.Rules.Create(rule.KindMeleeWeapon, label)
	r.SetStatWeight(stats.StatID(stat), weight, false)
	return nil
}

func (cc *colonyContext) theRuleCaps(label, stat string, max float64) error {
	r, err := cc.meleeRuleByLabel(label)
	if err != nil {
		return err
	}
	r.SetStatLimit(stats.StatID(stat), nil, &max)
	return nil
}

func (cc *colonyContext) aLoadoutWithTheRuleAsMeleePrimary(loadoutLabel, ruleLabel string) error {
	r, err := cc.meleeRuleByLabel(ruleLabel)
	if err != nil {
		return err
	}
	l := cc.harness.Loadouts.Create(loadoutLabel)
	l.Priority = 5
	l.Primary = loadout.PrimaryMelee
	l.PrimaryMeleeRuleID = r.ID
	return nil
}

func (cc *colonyContext) pawnsAwaitingAutomaticAssignment(count int) error {
	for i := 0; i < count; i++ {
		p := &ports.PawnSnapshot{
			ID:   shared.PawnID(fmt.Sprintf("auto-%02d", i+1)),
			Name: fmt.Sprintf("auto-%02d", i+1),
			Skills: map[shared.SkillID]ports.SkillSnapshot{
				"Shooting": {Level: 6 + i, Passion: ports.PassionMinor},
				"Melee":    {Level: 5, Passion: ports.PassionNone},
			},
			Capacities: map[shared.CapacityID]float64{
				"Sight": 1.0, "Manipulation": 1.0, "Moving": 1.0,
			},
			EnabledWorkTags: map[shared.WorkTagID]bool{"Violent": true},
		}
		cc.harness.World.AddPawn(p)
	}
	return nil
}

func (cc *colonyContext) everyPawnShouldBeBound() error {
	for _, p := range cc.harness.World.Pawns() {
		if !cc.harness.Bindings.For(p.ID).HasLoadout() {
			return fmt.Errorf("pawn %s has no loadout", p.ID)
		}
	}
	return nil
}

func (cc *colonyContext) pawnsShouldBeBoundToTheLoadout(count int, label string) error {
	l, err := cc.loadoutByLabel(label)
	if err != nil {
		return err
	}
	bound := 0
	for _, p := range cc.harness.World.Pawns() {
		if cc.harness.Bindings.For(p.ID).LoadoutID == l.ID {
			bound++
		}
	}
	if bound != count {
		return fmt.Errorf("%d pawns bound to %s, expected %d", bound, label, count)
	}
	return nil
}

func (cc *colonyContext) theLastPassShouldEmitNoActions() error {
	if cc.lastReport == nil {
		return fmt.Errorf("no pass has run")
	}
	total := cc.lastReport.EquipActions + cc.lastReport.PickupActions +
		cc.lastReport.DropActions + cc.lastReport.AmmoPickups + cc.lastReport.AmmoDrops
	if total != 0 {
		return fmt.Errorf("expected a quiet pass, got %d actions", total)
	}
	return nil
}

// InitializeConvergenceScenario registers the colony world and engine steps.
// The returned context is shared with the armory steps so both feature files
// act on the same harness.
func InitializeConvergenceScenario(sc *godog.ScenarioContext) *colonyContext {
	cc := &colonyContext{}
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		cc.reset()
		return ctx, nil
	})

	sc.Step(`^a colony managed by the shipped presets$`, cc.aColonyManagedByTheShippedPresets)
	sc.Step(`^a pawn "([^"]*)" bound to the "([^"]*)" loadout$`, cc.aPawnBoundToTheLoadout)
	sc.Step(`^a "([^"]*)" lying on the map$`, cc.aLyingOnTheMap)
	sc.Step(`^a stack of (\d+) "([^"]*)" on the map$`, cc.aStackOfOnTheMap)
	sc.Step(`^a melee rule "([^"]*)" weighting "([^"]*)" by (\d+(?:\.\d+)?)$`, cc.aMeleeRuleWeighting)
	sc.Step(`^the "([^"]*)" rule caps "([^"]*)" at (\d+(?:\.\d+)?)$`, cc.theRuleCaps)
	sc.Step(`^a loadout "([^"]*)" with the "([^"]*)" rule as melee primary$`, cc.aLoadoutWithTheRuleAsMeleePrimary)
	sc.Step(`^(\d+) pawns awaiting automatic assignment$`, cc.pawnsAwaitingAutomaticAssignment)
	sc.Step(`^every pawn should be bound to a loadout$`, cc.everyPawnShouldBeBound)
	sc.Step(`^(\d+) pawns should be bound to the "([^"]*)" loadout$`, cc.pawnsShouldBeBoundToTheLoadout)
	sc.Step(`^the engine runs one pass$`, cc.theEngineRunsOnePass)
	sc.Step(`^the engine runs until the colony is stable$`, cc.theEngineRunsUntilStable)
	sc.Step(`^"([^"]*)" should hold a "([^"]*)" as primary$`, cc.shouldHoldAsPrimary)
	sc.Step(`^"([^"]*)" and "([^"]*)" should hold different weapons$`, cc.shouldHoldDifferentWeapons)
	sc.Step(`^"([^"]*)" should carry (\d+) rounds of "([^"]*)"$`, cc.shouldCarryRoundsOf)
	sc.Step(`^the last pass should emit no actions$`, cc.theLastPassShouldEmitNoActions)
	return cc
}
