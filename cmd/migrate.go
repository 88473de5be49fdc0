package cmd

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wsmxd/mxdblog/pkg/infras/database"
	// 注册所有 migration
	_ "github.com/wsmxd/mxdblog/pkg/migration"
)

// NewMigrateCmd ...
func NewMigrateCmd() *cobra.Command {
	var (
		migrationID string
		timeout     time.Duration
	)

	migrateCmd := cobra.Command{
		Use:   "migrate",
		Short: "Apply migrations to the read_counter table (KV_BACKEND=mysql).",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			db, err := database.NewClient(ctx, newDBConfig())
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err = database.RunMigrate(ctx, db, migrationID); err != nil {
				return errors.Wrap(err, "run migrate")
			}
			dbVersion, err := database.Version(ctx, db)
			if err != nil {
				return errors.Wrap(err, "get database version")
			}
			color.Green("migrate success, database version: %s", dbVersion)
			return nil
		},
	}

	migrateCmd.Flags().StringVar(&migrationID, "migration", "", "migration to apply, blank means latest version")
	migrateCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "timeout of the whole migration")

	return &migrateCmd
}

func init() {
	rootCmd.AddCommand(NewMigrateCmd())
}
