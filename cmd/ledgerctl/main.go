package main

import (
	"fmt"
	"os"

	"peerpay/internal/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "ledgerctl - maintenance commands for the peerpay database",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDatabase loads configuration and connects with it
func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
