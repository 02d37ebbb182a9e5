package cli

import (
	"chirper/internal/database"
	"chirper/internal/middleware"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lc, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = lc.Close() }()

			if err := database.Migrate(cmd.Context(), lc.DB()); err != nil {
				return err
			}
			if reset {
				if err := lc.Reset(cmd.Context()); err != nil {
					return err
				}
				middleware.Logger.Info("Database emptied")
			}
			middleware.Logger.Info("Migrations applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "delete every row after migrating")
	return cmd
}
