package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"yamdb/internal/database"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(v)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := database.Migrate(rt.db); err != nil {
				return err
			}
			rt.logger.Info("database schema is up to date")
			cmd.Println("migrations applied")
			return nil
		},
	}
}
