package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"
)

const createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	active INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

func newSeedCommand(flags *globalFlags) *cobra.Command {
	var (
		count int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Args:  cobra.NoArgs,
		Short: "Create a users table filled with fake rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := flags.logger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := flags.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := seedUsers(cmd.Context(), db, gofakeit.New(seed), count); err != nil {
				return err
			}
			logger.Sugar().With("db", flags.dbPath, "rows", count).Info("seeded users")
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "rows", 100, "number of users to insert")
	cmd.Flags().Int64Var(&seed, "seed", 0, "fake data seed, 0 is random")

	return cmd
}

func seedUsers(ctx context.Context, db *sql.DB, faker *gofakeit.Faker, count int) error {
	if _, err := db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert, err := tx.PrepareContext(ctx, `INSERT INTO users (name, email, active, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insert.Close()

	for i := 0; i < count; i++ {
		if _, err := insert.ExecContext(ctx, faker.Name(), faker.Email(), faker.Bool(), faker.Date()); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
	}

	return tx.Commit()
}
