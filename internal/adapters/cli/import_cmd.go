package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/quartermaster-go/internal/adapters/xmlimport"
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import rules, loadouts and bindings from an XML export",
		Long: `Import rules, loadouts and pawn bindings from an XML export. Malformed
entries are logged and skipped; the rest of the file still applies.

With --db the imported configuration is persisted alongside anything
already stored.

Example:
  quartermaster import colony-setup.xml --db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			importer := xmlimport.NewImporter(app.Rules, app.Loadouts, app.Bindings, app.Log)
			summary, err := importer.ImportFile(args[0])
			if err != nil {
				return err
			}

			if err := persistImported(app); err != nil {
				return err
			}

			fmt.Printf("✓ Imported %d rules, %d loadouts, %d bindings",
				summary.RulesImported, summary.LoadoutsImported, summary.BindingsImported)
			if summary.Skipped > 0 {
				fmt.Printf(" (%d entries skipped)", summary.Skipped)
			}
			fmt.Println()
			return nil
		},
	}
	return cmd
}

// persistImported writes the whole post-import state through the repos.
func persistImported(app *App) error {
	if app.ruleRepo == nil {
		return nil
	}
	ctx := context.Background()
	for _, r := range app.Rules.All() {
		if err := app.ruleRepo.Save(ctx, r); err != nil {
			return fmt.Errorf("failed to persist rule %q: %w", r.Label, err)
		}
	}
	for _, l := range app.Loadouts.All() {
		if err := app.loadoutRepo.Save(ctx, l); err != nil {
			return fmt.Errorf("failed to persist loadout %q: %w", l.Label, err)
		}
	}
	for _, b := range app.Bindings.All() {
		if err := app.bindingRepo.Save(ctx, b); err != nil {
			return fmt.Errorf("failed to persist binding for %s: %w", b.Pawn, err)
		}
	}
	return nil
}
