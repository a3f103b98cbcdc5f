package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"worktracker.service/pkg/database"
)

func NewMigrateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(); err != nil {
				return err
			}
			if err := database.Migrate(app.db, app.dialect); err != nil {
				return err
			}
			version, err := database.MigrationVersion(app.db, app.dialect)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema at version %d\n", app.dialect, version)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(); err != nil {
				return err
			}
			version, err := database.MigrationVersion(app.db, app.dialect)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	})
	return cmd
}
