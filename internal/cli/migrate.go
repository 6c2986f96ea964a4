package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	dbfs "github.com/garnizeh/missiondeck/db"
	"github.com/garnizeh/missiondeck/internal/config"
	"github.com/garnizeh/missiondeck/internal/db"
)

func migrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.DriverSQLite {
				fmt.Fprintf(cmd.OutOrStdout(), "Store driver %q has no schema\n", cfg.Store.Driver)
				return nil
			}

			conn, err := db.New(cmd.Context(), cfg.Store.Path, nil)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.Migrate(conn, dbfs.Migrations); err != nil {
				return err
			}
			version, dirty, err := db.Version(conn, dbfs.Migrations)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Schema at version %d (dirty=%t)\n", version, dirty)
			return nil
		},
	}
}
