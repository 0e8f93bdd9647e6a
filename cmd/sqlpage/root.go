package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/RichardKnop/sqlpage"
	"github.com/RichardKnop/sqlpage/internal/pkg/logging"
)

const defaultDbFileName = "sqlpage.db"

type globalFlags struct {
	configPath string
	dbPath     string
	dialect    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := new(globalFlags)

	rootCmd := &cobra.Command{
		Use:           "sqlpage",
		Short:         "Run paged SELECT statements against a SQLite database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file with a paging section")
	rootCmd.PersistentFlags().StringVar(&flags.dbPath, "db", defaultDbFileName, "SQLite database file")
	rootCmd.PersistentFlags().StringVar(&flags.dialect, "dialect", "", "dialect name, overrides the config file")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", envOr("LOG_LEVEL", "info"), "log level")

	rootCmd.AddCommand(
		newSeedCommand(flags),
		newQueryCommand(flags),
		newExplainCommand(flags),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (f *globalFlags) logger() (*zap.Logger, error) {
	return logging.New(f.logLevel)
}

func (f *globalFlags) config() (*sqlpage.Config, error) {
	var (
		config *sqlpage.Config
		err    error
	)
	if f.configPath != "" {
		config, err = sqlpage.LoadConfig(f.configPath)
	} else {
		config, err = sqlpage.ParseOptions(map[string]string{"dialect": string(sqlpage.SQLite)})
	}
	if err != nil {
		return nil, err
	}
	if f.dialect != "" {
		config.Dialect = f.dialect
	}
	return config, nil
}

func (f *globalFlags) openDB() (*sql.DB, error) {
	db, err := sql.Open("sqlite", f.dbPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.dbPath, err)
	}
	return db, nil
}
