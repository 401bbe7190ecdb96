package main

import (
	"encoding/json"
	"fmt"

	"peerpay/internal/adapters/persistence/models"
	"peerpay/internal/adapters/persistence/repositories"
	"peerpay/internal/config"
	"peerpay/internal/core/services"
	"peerpay/internal/pkg/logger"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer config.CloseDatabase(db)

			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to auto migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo users alice, bob and carol",
		Long: `Create the demo users alice, bob and carol with a zero balance.

Existing usernames are left untouched. Every demo user logs in with the
password "` + config.DemoPassword + `".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer config.CloseDatabase(db)

			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to auto migrate: %w", err)
			}
			return config.NewSeeder(db).Run()
		},
	}
}

func reconcileCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Check every balance against the ledger",
		Long: `Check every balance against the ledger.

Reports users whose balance differs from the sum of their received minus
sent transactions, and transfers that lack exactly one sender and one
receiver row. Exits non-zero when anything is found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer config.CloseDatabase(db)

			reconciler := services.NewReconcileService(
				repositories.NewTxManager(db),
				repositories.NewUserRepository(db),
				repositories.NewTransactionRepository(db),
				logger.NewWithWriter(cmd.ErrOrStderr(), logger.Options{
					Level:  cfg.Log.Level,
					Format: cfg.Log.Format,
					Prefix: "reconcile",
				}),
			)

			report, err := reconciler.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "checked %d users\n", report.CheckedUsers)
				for _, m := range report.BalanceMismatches {
					fmt.Fprintf(out, "balance mismatch: %s balance=%s ledger=%s\n", m.Username, m.Balance, m.Ledger)
				}
				for _, id := range report.IncompleteTransfers {
					fmt.Fprintf(out, "incomplete transfer: %s\n", id)
				}
			}
			return report.Err()
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")

	return cmd
}
