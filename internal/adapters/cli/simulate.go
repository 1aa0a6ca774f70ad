package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/quartermaster-go/internal/adapters/simworld"
	"github.com/andrescamacho/quartermaster-go/internal/application/armory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/convergence"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		days    int
		pawns   int
		seed    int64
		showLog bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the engine against a generated colony",
		Long: `Generate a deterministic colony and run the convergence engine over a
span of game days, printing each pass's report. The colony, its pawns and
the equipment scattered on the map all derive from the seed, so two runs
with the same seed and configuration produce the same assignments.

Examples:
  quartermaster simulate
  quartermaster simulate --days 10 --pawns 16 --seed 42
  quartermaster simulate --db --show-log`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			simCfg := app.Config.Simulation
			if cmd.Flags().Changed("days") {
				simCfg.Days = days
			}
			if cmd.Flags().Changed("pawns") {
				simCfg.Pawns = pawns
			}
			if cmd.Flags().Changed("seed") {
				simCfg.Seed = seed
			}

			simworld.GenerateColony(app.World, simworld.ColonyOptions{
				Seed:  simCfg.Seed,
				Pawns: simCfg.Pawns,
			})

			fmt.Printf("Simulating %d pawns over %d days (seed %d)\n\n", simCfg.Pawns, simCfg.Days, simCfg.Seed)

			ctx := context.Background()
			passes := 0
			for hour := 0; hour < simCfg.Days*24; hour++ {
				app.Clock.AdvanceHours(1)
				result, err := app.Mediator.Send(ctx, &armory.RunConvergencePassCommand{Time: app.Clock.Now()})
				if err != nil {
					return err
				}
				report := result.(*armory.RunConvergencePassResponse).Report
				if report == nil {
					continue
				}
				passes++
				printPassReport(passes, report)
			}

			printColonySummary(app)
			if app.World.DroppedActions > 0 {
				fmt.Printf("\nActions dropped by host throttle: %d\n", app.World.DroppedActions)
			}

			if showLog {
				result, err := app.Mediator.Send(ctx, &armory.GetEngineLogQuery{})
				if err != nil {
					return err
				}
				fmt.Println("\nEngine log:")
				for _, entry := range result.(*armory.GetEngineLogResponse).Entries {
					fmt.Printf("  %s\n", entry)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Game-days to simulate (overrides config)")
	cmd.Flags().IntVar(&pawns, "pawns", 0, "Colonists to generate (overrides config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Colony generation seed (overrides config)")
	cmd.Flags().BoolVar(&showLog, "show-log", false, "Dump the engine log after the run")
	return cmd
}

func printPassReport(n int, report *convergence.PassReport) {
	fmt.Printf("Pass %d at %s: %d/%d pawns updated, %d claimed, %d equips, %d pickups, %d drops",
		n, report.Time, report.PawnsUpdated, report.PawnsTracked,
		report.Allocation.Claimed, report.EquipActions, report.PickupActions, report.DropActions)
	if report.AmmoPickups > 0 || report.AmmoDrops > 0 {
		fmt.Printf(", ammo %d/%d", report.AmmoPickups, report.AmmoDrops)
	}
	fmt.Printf(" (%s)\n", report.Duration)
}

func printColonySummary(app *App) {
	fmt.Println("\nFinal assignments:")
	for _, p := range app.World.Pawns() {
		primary := "(unarmed)"
		if p.Primary != nil {
			primary = string(p.Primary.Template.ID)
		}
		fmt.Printf("  %-14s primary: %-18s", p.ID, primary)

		binding := app.Bindings.For(p.ID)
		if binding.HasLoadout() {
			if l, ok := app.Loadouts.Get(binding.LoadoutID); ok {
				fmt.Printf(" loadout: %-22s", l.Label)
			}
		}
		if len(p.Carried) > 0 {
			fmt.Print(" carrying:")
			for _, item := range p.Carried {
				if item.StackCount > 1 {
					fmt.Printf(" %s x%d", item.Template.ID, item.StackCount)
				} else {
					fmt.Printf(" %s", item.Template.ID)
				}
			}
		}
		fmt.Println()
	}
}
