package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/quartermaster-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after files, env and defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			fmt.Println("Database:")
			fmt.Printf("  type:                       %s\n", cfg.Database.Type)
			fmt.Printf("  path:                       %s\n", cfg.Database.Path)
			if cfg.Database.URL != "" {
				fmt.Printf("  url:                        (set)\n")
			}

			fmt.Println("Engine:")
			fmt.Printf("  pass_interval_hours:        %g\n", cfg.Engine.PassIntervalHours)
			fmt.Printf("  tick_modulus:               %d\n", cfg.Engine.TickModulus)
			fmt.Printf("  desirability_refresh_hours: %g\n", cfg.Engine.DesirabilityRefreshHours)
			fmt.Printf("  cache_refresh_hours:        %g\n", cfg.Engine.CacheRefreshHours)
			fmt.Printf("  ammo_self_target:           %d\n", cfg.Engine.AmmoSelfTarget)
			fmt.Printf("  log_cap:                    %d\n", cfg.Engine.LogCap)

			fmt.Println("Simulation:")
			fmt.Printf("  seed:                       %d\n", cfg.Simulation.Seed)
			fmt.Printf("  pawns:                      %d\n", cfg.Simulation.Pawns)
			fmt.Printf("  days:                       %d\n", cfg.Simulation.Days)
			fmt.Printf("  map_id:                     %s\n", cfg.Simulation.MapID)
			fmt.Printf("  action_rate:                %g\n", cfg.Simulation.ActionRate)
			fmt.Printf("  action_burst:               %d\n", cfg.Simulation.ActionBurst)

			fmt.Println("Metrics:")
			fmt.Printf("  enabled:                    %t\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Printf("  endpoint:                   http://%s:%d%s\n",
					cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			}

			fmt.Println("Logging:")
			fmt.Printf("  level:                      %s\n", cfg.Logging.Level)
			fmt.Printf("  format:                     %s\n", cfg.Logging.Format)
			fmt.Printf("  output:                     %s\n", cfg.Logging.Output)
			return nil
		},
	}
}
