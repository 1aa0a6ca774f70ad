package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/quartermaster-go/internal/application/armory"
	"github.com/andrescamacho/quartermaster-go/internal/domain/rule"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/internal/domain/stats"
)

// NewRulesCommand creates the rules command with subcommands
func NewRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage equipment rules",
		Long: `Manage equipment rules: the scored filters deciding which items qualify
for a slot and how candidates rank against each other.

Examples:
  quartermaster rules list
  quartermaster rules list --kind tool
  quartermaster rules show --kind ranged --id 1
  quartermaster rules create --kind melee --label "Shock batons"
  quartermaster rules set-weight --kind melee --id 4 --stat QMMeleeDPS --weight 1.2
  quartermaster rules set-limit --kind ranged --id 1 --stat QMHitPoints --min 0.5
  quartermaster rules whitelist --kind ranged --id 1 --template SimSniperRifle`,
	}

	cmd.AddCommand(newRulesListCommand())
	cmd.AddCommand(newRulesShowCommand())
	cmd.AddCommand(newRulesCreateCommand())
	cmd.AddCommand(newRulesDeleteCommand())
	cmd.AddCommand(newRulesCopyCommand())
	cmd.AddCommand(newRulesSetWeightCommand())
	cmd.AddCommand(newRulesDeleteWeightCommand())
	cmd.AddCommand(newRulesSetLimitCommand())
	cmd.AddCommand(newRulesListingCommand("whitelist", rule.ListingWhitelisted))
	cmd.AddCommand(newRulesListingCommand("blacklist", rule.ListingBlacklisted))
	cmd.AddCommand(newRulesListingCommand("unlist", rule.ListingUnset))

	return cmd
}

func newRulesListCommand() *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules, optionally filtered by kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			query := &armory.ListRulesQuery{}
			if kindName != "" {
				kind, err := parseRuleKind(kindName)
				if err != nil {
					return err
				}
				query.Kind = kind
				query.HasKind = true
			}

			result, err := app.Mediator.Send(context.Background(), query)
			if err != nil {
				return err
			}
			resp := result.(*armory.ListRulesResponse)

			if len(resp.Rules) == 0 {
				fmt.Println("No rules configured.")
				return nil
			}
			fmt.Printf("%-10s %-4s %-28s %-24s %s\n", "KIND", "ID", "LABEL", "MODE", "PROTECTED")
			for _, r := range resp.Rules {
				protected := ""
				if r.Protected {
					protected = "yes"
				}
				fmt.Printf("%-10s %-4d %-28s %-24s %s\n", r.Kind, r.ID, r.Label, modeLabel(r.Mode), protected)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "Filter to one kind (ranged, melee, tool, worktype)")
	return cmd
}

func newRulesShowCommand() *cobra.Command {
	var (
		kindName string
		ruleID   int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one rule's weights, limits and listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseRuleKind(kindName)
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &armory.GetRuleQuery{Kind: kind, ID: ruleID})
			if err != nil {
				return err
			}
			printRule(result.(*armory.GetRuleResponse).Rule)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "Rule kind (required)")
	cmd.Flags().IntVar(&ruleID, "id", 0, "Rule id (required)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func printRule(r *rule.Rule) {
	fmt.Printf("Rule %d (%s): %s\n", r.ID, r.Kind, r.Label)
	fmt.Printf("  Mode:      %s\n", modeLabel(r.Mode))
	if r.Kind == rule.KindRangedWeapon {
		fmt.Printf("  Ammo:      %d\n", r.AmmoCount)
	}
	if r.Kind == rule.KindWorkType {
		fmt.Printf("  Work type: %s\n", r.WorkType)
	}
	if r.Protected {
		fmt.Println("  Protected: yes")
	}

	if len(r.Weights) > 0 {
		fmt.Println("  Weights:")
		for _, w := range r.Weights {
			marker := ""
			if w.Protected {
				marker = " (protected)"
			}
			fmt.Printf("    %-28s %+.2f%s\n", w.Stat, w.Weight, marker)
		}
	}
	if len(r.Limits) > 0 {
		fmt.Println("  Limits:")
		for _, l := range r.Limits {
			fmt.Printf("    %-28s %s\n", l.Stat, formatLimit(l.Min, l.Max))
		}
	}

	listings := r.Listings()
	if len(listings) > 0 {
		ids := make([]shared.TemplateID, 0, len(listings))
		for id := range listings {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		fmt.Println("  Listings:")
		for _, id := range ids {
			state := "whitelisted"
			if listings[id] == rule.ListingBlacklisted {
				state = "blacklisted"
			}
			fmt.Printf("    %-28s %s\n", id, state)
		}
	}
}

func formatLimit(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("[%.2f, %.2f]", *min, *max)
	case min != nil:
		return fmt.Sprintf(">= %.2f", *min)
	case max != nil:
		return fmt.Sprintf("<= %.2f", *max)
	}
	return "(none)"
}

func newRulesCreateCommand() *cobra.Command {
	var (
		kindName string
		label    string
		modeName string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseRuleKind(kindName)
			if err != nil {
				return err
			}
			mode, err := parseEquipMode(modeName)
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &armory.CreateRuleCommand{
				Kind:  kind,
				Label: label,
				Mode:  mode,
			})
			if err != nil {
				return err
			}
			r := result.(*armory.CreateRuleResponse).Rule
			fmt.Printf("✓ Created %s rule %d: %s\n", r.Kind, r.ID, r.Label)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "Rule kind (required)")
	cmd.Flags().StringVar(&label, "label", "", "Rule label (required)")
	cmd.Flags().StringVar(&modeName, "mode", "best-one",
		"Equip mode (best-one, all-available, per-work-type, per-assigned-work-type)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func newRulesDeleteCommand() *cobra.Command {
	var (
		kindName string
		ruleID   int
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseRuleKind(kindName)
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &armory.DeleteRuleCommand{Kind: kind, ID: ruleID})
			if err != nil {
				return err
			}
			if !result.(*armory.DeleteRuleResponse).Deleted {
				return fmt.Errorf("%s rule %d not found", kind, ruleID)
			}
			fmt.Printf("✓ Deleted %s rule %d\n", kind, ruleID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "Rule kind (required)")
	cmd.Flags().IntVar(&ruleID, "id", 0, "Rule id (required)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newRulesCopyCommand() *cobra.Command {
	var (
		kindName string
		ruleID   int
		label    string
	)

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy a rule, including its weights, limits and listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseRuleKind(kindName)
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Mediator.Send(context.Background(), &armory.CopyRuleCommand{
				Kind:  kind,
				ID:    ruleID,
				Label: label,
			})
			if err != nil {
				return err
			}
			r := result.(*armory.CopyRuleResponse).Rule
			fmt.Printf("✓ Copied to %s rule %d: %s\n", r.Kind, r.ID, r.Label)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "Rule kind (required)")
	cmd.Flags().IntVar(&ruleID, "id", 0, "Source rule id (required)")
	cmd.Flags().StringVar(&label, "label", "", "Label for the copy (required)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func newRulesSetWeightCommand() *cobra.Command {
	var (
		kindName string
		ruleID   int
		statID   string
		weight   float64
	)

	cmd := &cobra.Command{
		Use:   "set-weight",
		Short: "Set a stat weight on a rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseRuleKind(kindName)
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			_, err = app.Mediator.Send(context.Background(), &armory.SetStatWeightCommand{
				Kind:   kind,
				RuleID: ruleID,
				Stat:   stats.StatID(statID),
				Weight: weight,
			})
			if err != nil {
				return err
			}
			fmt.Printf("✓ Set %s = %+.2f on %s rule %d\n", statID, weight, kind, ruleID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "Rule kind (required)")
	cmd.Flags().IntVar(&ruleID, "id", 0, "Rule id (required)")
	cmd.Flags().StringVar(&statID, "stat", "", "Stat id (required)")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in [-2, 2] (required)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("stat")
	_ = cmd.MarkFlagRequired("weight")
	return cmd
}

func newRulesDeleteWeightCommand() *cobra.Command {
	var (
		kindName string
		ruleID   int
		statID   string
	)

	cmd := &cobra.Command{
		Use:   "delete-weight",
		Short: "Remove a stat weight from a rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseRuleKind(kindName)
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			_, err = app.Mediator.Send(context.Background(), &armory.DeleteStatWeightCommand{
				Kind:   kind,
				RuleID: ruleID,
				Stat:   stats.StatID(statID),
			})
			if err != nil {
				return err
			}
			fmt.Printf("✓ Removed %s from %s rule %d\n", statID, kind, ruleID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "Rule kind (required)")
	cmd.Flags().IntVar(&ruleID, "id", 0, "Rule id (required)")
	cmd.Flags().StringVar(&statID, "stat", "", "Stat id (required)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("stat")
	return cmd
}

func newRulesSetLimitCommand() *cobra.Command {
	var (
		kindName string
		ruleID   int
		statID   string
		min, max float64
	)

	cmd := &cobra.Command{
		Use:   "set-limit",
		Short: "Set a hard stat limit on a rule",
		Long: `Set a hard min/max gate on a stat. Items outside the limit are excluded
from the rule unless whitelisted. Omitting both bounds clears the limit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseRuleKind(kindName)
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			command := &armory.SetStatLimitCommand{
				Kind:   kind,
				RuleID: ruleID,
				Stat:   stats.StatID(statID),
			}
			if cmd.Flags().Changed("min") {
				command.Min = &min
			}
			if cmd.Flags().Changed("max") {
				command.Max = &max
			}

			if _, err := app.Mediator.Send(context.Background(), command); err != nil {
				return err
			}
			fmt.Printf("✓ Limit on %s: %s\n", statID, formatLimit(command.Min, command.Max))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "Rule kind (required)")
	cmd.Flags().IntVar(&ruleID, "id", 0, "Rule id (required)")
	cmd.Flags().StringVar(&statID, "stat", "", "Stat id (required)")
	cmd.Flags().Float64Var(&min, "min", 0, "Lower bound")
	cmd.Flags().Float64Var(&max, "max", 0, "Upper bound")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("stat")
	return cmd
}

func newRulesListingCommand(name string, listing rule.Listing) *cobra.Command {
	var (
		kindName string
		ruleID   int
		template string
	)

	short := map[rule.Listing]string{
		rule.ListingWhitelisted: "Whitelist a template on a rule, bypassing its filters",
		rule.ListingBlacklisted: "Blacklist a template on a rule",
		rule.ListingUnset:       "Remove a template from a rule's whitelist or blacklist",
	}[listing]

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseRuleKind(kindName)
			if err != nil {
				return err
			}
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			_, err = app.Mediator.Send(context.Background(), &armory.SetListingCommand{
				Kind:     kind,
				RuleID:   ruleID,
				Template: shared.TemplateID(template),
				Listing:  listing,
			})
			if err != nil {
				return err
			}
			fmt.Printf("✓ %s: %s on %s rule %d\n", name, template, kind, ruleID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "", "Rule kind (required)")
	cmd.Flags().IntVar(&ruleID, "id", 0, "Rule id (required)")
	cmd.Flags().StringVar(&template, "template", "", "Template id (required)")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}
