package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/prdash/internal/cli"
	"github.com/Veraticus/prdash/internal/config"
	"github.com/Veraticus/prdash/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply approval store migrations",
		Long: `Bring the SQLite approval store up to the current schema. With --status
the schema version is reported and nothing is changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Migrations only touch storage, so the gateway settings are not required.
			if strings.EqualFold(viper.GetString("storage.driver"), storage.DriverRedis) {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Redis approval store needs no migrations"))
				return nil
			}

			store, err := storage.NewSQLiteStorage(config.ExpandPath(viper.GetString("database.path")))
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			before, err := store.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			if status, _ := cmd.Flags().GetBool("status"); status {
				fmt.Fprintf(out, "%s schema version %d (latest %d)\n", store.Path(), before, storage.ExpectedSchemaVersion)
				return nil
			}

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			after, err := store.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			if after == before {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Already at schema version %d", after)))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Migrated %s from version %d to %d", store.Path(), before, after)))
			return nil
		},
	}
	cmd.Flags().Bool("status", false, "show the schema version without migrating")
	return cmd
}
