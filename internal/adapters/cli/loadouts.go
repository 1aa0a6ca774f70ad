package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/quartermaster-go/internal/application/armory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/loadout"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// NewLoadoutsCommand creates the loadouts command with subcommands
func NewLoadoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loadouts",
		Short: "Manage loadouts and pawn bindings",
		Long: `Manage loadouts: prioritized bundles of rules with eligibility
requirements, and the bindings assigning them to colonists.

Examples:
  quartermaster loadouts list
  quartermaster loadouts create --label "Night watch" --priority 7
  quartermaster loadouts copy --id 1 --label "Snipers (backup)"
  quartermaster loadouts bind --pawn sim-pawn-03 --loadout 2
  quartermaster loadouts bind --pawn sim-pawn-03 --auto`,
	}

	cmd.AddCommand(newLoadoutsListCommand())
	cmd.AddCommand(newLoadoutsCreateCommand())
	cmd.AddCommand(newLoadoutsDeleteCommand())
	cmd.AddCommand(newLoadoutsCopyCommand())
	cmd.AddCommand(newLoadoutsBindCommand())

	return cmd
}

func primaryLabel(l *loadout.Loadout) string {
	switch l.Primary {
	case loadout.PrimaryRanged:
		return fmt.Sprintf("ranged (rule %d)", l.PrimaryRangedRuleID)
	case loadout.PrimaryMelee:
		return fmt.Sprintf("melee (rule %d)", l.PrimaryMeleeRuleID)
	}
	return "none"
}

func newLoadoutsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List loadouts and current pawn bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &armory.ListLoadoutsQuery{})
			if err != nil {
				return err
			}
			resp := result.(*armory.ListLoadoutsResponse)

			if len(resp.Loadouts) == 0 {
				fmt.Println("No loadouts configured.")
			} else {
				fmt.Printf("%-4s %-28s %-9s %-20s %-10s %s\n",
					"ID", "LABEL", "PRIORITY", "PRIMARY", "SIDEARMS", "CONSTRAINTS")
				for _, l := range resp.Loadouts {
					fmt.Printf("%-4d %-28s %-9d %-20s %-10d %d\n",
						l.ID, l.Label, l.Priority, primaryLabel(l),
						len(l.RangedSidearmRules)+len(l.MeleeSidearmRules), l.ConstraintCount())
				}
			}

			if len(resp.Bindings) > 0 {
				fmt.Println("\nBindings:")
				for _, b := range resp.Bindings {
					mode := "manual"
					if b.Auto {
						mode = "auto"
					}
					target := "(none)"
					if b.HasLoadout() {
						target = fmt.Sprintf("loadout %d", b.LoadoutID)
					}
					fmt.Printf("  %-20s %-12s %s\n", b.Pawn, target, mode)
				}
			}
			return nil
		},
	}
	return cmd
}

func newLoadoutsCreateCommand() *cobra.Command {
	var (
		label    string
		priority int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new loadout",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &armory.CreateLoadoutCommand{
				Label:    label,
				Priority: priority,
			})
			if err != nil {
				return err
			}
			l := result.(*armory.CreateLoadoutResponse).Loadout
			fmt.Printf("✓ Created loadout %d: %s (priority %d)\n", l.ID, l.Label, l.Priority)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Loadout label (required)")
	cmd.Flags().IntVar(&priority, "priority", 5,
		fmt.Sprintf("Allocation priority in [%d, %d]", loadout.MinPriority, loadout.MaxPriority))
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func newLoadoutsDeleteCommand() *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a loadout",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &armory.DeleteLoadoutCommand{ID: id})
			if err != nil {
				return err
			}
			if !result.(*armory.DeleteLoadoutResponse).Deleted {
				return fmt.Errorf("loadout %d not found", id)
			}
			fmt.Printf("✓ Deleted loadout %d\n", id)
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Loadout id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newLoadoutsCopyCommand() *cobra.Command {
	var (
		id    int
		label string
	)

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy a loadout, including its rules and requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &armory.CopyLoadoutCommand{ID: id, Label: label})
			if err != nil {
				return err
			}
			l := result.(*armory.CopyLoadoutResponse).Loadout
			fmt.Printf("✓ Copied to loadout %d: %s\n", l.ID, l.Label)
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Source loadout id (required)")
	cmd.Flags().StringVar(&label, "label", "", "Label for the copy (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func newLoadoutsBindCommand() *cobra.Command {
	var (
		pawn      string
		loadoutID int
		auto      bool
	)

	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Bind a pawn to a loadout, or mark it auto-assigned",
		Long: `Bind a pawn to a specific loadout, or with --auto let the allocator pick
one each pass. --loadout 0 clears a manual binding.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &armory.SetPawnLoadoutCommand{
				Pawn:      shared.PawnID(pawn),
				LoadoutID: loadoutID,
				Auto:      auto,
			})
			if err != nil {
				return err
			}
			b := result.(*armory.SetPawnLoadoutResponse).Binding
			if b.Auto {
				fmt.Printf("✓ %s set to automatic assignment\n", b.Pawn)
			} else if b.HasLoadout() {
				fmt.Printf("✓ %s bound to loadout %d\n", b.Pawn, b.LoadoutID)
			} else {
				fmt.Printf("✓ %s unbound\n", b.Pawn)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pawn, "pawn", "", "Pawn id (required)")
	cmd.Flags().IntVar(&loadoutID, "loadout", 0, "Loadout id (0 clears)")
	cmd.Flags().BoolVar(&auto, "auto", false, "Let the allocator pick the loadout")
	_ = cmd.MarkFlagRequired("pawn")
	return cmd
}
