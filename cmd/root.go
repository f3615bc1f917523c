package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"salescockpit/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "cockpit-import",
	Short: "A CLI tool for importing spreadsheet data into the sales cockpit",
	Long: `cockpit-import ingests CSV exports into the sales/opportunity tracking
backend. Uploaded columns are matched to the target schema automatically,
every batch is validated as a whole, and the product catalog is reconciled
into inserts and updates instead of blind re-imports.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it: %v", err)
	}

	cfg = config.FromEnv()

	if dbURI == "" {
		dbURI = cfg.DBURI
	}
	if dbName == "" {
		dbName = cfg.DBName
	}
	if tenant == "" {
		tenant = cfg.Tenant
	}
	if actor == "" {
		actor = cfg.Actor
	}
}
