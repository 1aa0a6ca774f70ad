package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	useDB      bool
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quartermaster",
		Short: "Quartermaster - automatic equipment assignment engine",
		Long: `Quartermaster keeps a colony's weapons, tools and ammunition assigned to
the colonists best suited to carry them. Rules score equipment, loadouts
bundle rules with eligibility requirements, and the convergence engine
nudges every colonist toward their assigned loadout each pass.

The CLI runs the engine against a deterministic simulated colony. Rules,
loadouts and bindings persist across runs when --db is set.

Examples:
  quartermaster simulate --days 5 --pawns 12
  quartermaster rules list --kind ranged
  quartermaster rules set-weight --kind ranged --id 1 --stat QMRangedDPS --weight 1.5
  quartermaster loadouts bind --pawn sim-pawn-03 --loadout 2
  quartermaster import colony-setup.xml`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs/config.yaml, /etc/quartermaster/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&useDB, "db", false,
		"Persist rules, loadouts and bindings to the configured database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewRulesCommand())
	rootCmd.AddCommand(NewLoadoutsCommand())
	rootCmd.AddCommand(NewImportCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
