package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storebot/internal/store/schema"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the store tables if they do not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrate: connecting to store: %w", err)
			}
			defer func() { _ = pg.Close() }()

			if err := schema.Migrate(cmd.Context(), pg.DB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d statements\n", len(schema.Statements))
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample store data; rows that already exist are left alone",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("seed: connecting to store: %w", err)
			}
			defer func() { _ = pg.Close() }()

			if migrate {
				if err := schema.Migrate(cmd.Context(), pg.DB); err != nil {
					return fmt.Errorf("seed: migrate: %w", err)
				}
			}

			inserted, err := schema.Seed(cmd.Context(), pg.DB)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info("seed completed", map[string]interface{}{"inserted": inserted})
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d rows\n", inserted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "create tables before seeding")
	return cmd
}

func tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("tables: connecting to store: %w", err)
			}
			defer func() { _ = pg.Close() }()

			tables, err := schema.ListTables(cmd.Context(), pg.DB)
			if err != nil {
				return fmt.Errorf("tables: %w", err)
			}
			for _, t := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
