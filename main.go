// Package main is the entry point for the yamdb API server.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yamdb/internal/config"
	"yamdb/internal/database"
	"yamdb/internal/logging"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the yamdb command tree. Every setting is read from the
// environment; flags override the matching variables.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)

	cmd := &cobra.Command{
		Use:   "yamdb",
		Short: "yamdb - reviews and ratings of books, films and music",
		Long: `yamdb serves a REST API where users sign up with a username and
email, exchange an emailed confirmation code for a token, and review
catalogued titles.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("database-driver", "", "database driver: postgres or sqlite (env DATABASE_DRIVER)")
	flags.String("database-dsn", "", "database connection string (env DATABASE_DSN)")
	flags.String("log-level", "", "log level (env LOG_LEVEL)")
	flags.String("log-format", "", "log format: json or console (env LOG_FORMAT)")
	bindFlag(v, cmd, "DATABASE_DRIVER", "database-driver")
	bindFlag(v, cmd, "DATABASE_DSN", "database-dsn")
	bindFlag(v, cmd, "LOG_LEVEL", "log-level")
	bindFlag(v, cmd, "LOG_FORMAT", "log-format")

	cmd.AddCommand(newServeCmd(v))
	cmd.AddCommand(newMigrateCmd(v))
	cmd.AddCommand(newCreateAdminCmd(v))

	return cmd
}

// bindFlag lets a flag override key only when it was set explicitly.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	cobra.CheckErr(v.BindPFlag(key, f))
}

// cmdEnv holds what every command needs: configuration, a logger and an
// open database.
type cmdEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func setup(v *viper.Viper) (*cmdEnv, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return &cmdEnv{cfg: cfg, logger: logger, db: db}, nil
}

func (r *cmdEnv) close() {
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = r.logger.Sync()
}
