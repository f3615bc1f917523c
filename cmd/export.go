package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salescockpit/internal/database"
	"salescockpit/internal/export"
	"salescockpit/internal/logging"
)

var (
	outputDir        string
	exportFormat     string
	exportCollection string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cockpit collections to files",
	Long: `Export one or all cockpit collections to JSON Lines files, scoped to the
current tenant. The products collection can also be exported as CSV, which
round-trips through the same column set the import accepts.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", "./exports", "output directory for export files")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "jsonl", "export format: jsonl or csv (csv is products-only)")
	exportCmd.Flags().StringVarP(&exportCollection, "collection", "c", "", "collection to export (if empty, exports all collections)")
	exportCmd.Flags().StringVarP(&dbURI, "db-uri", "u", "", "MongoDB connection URI")
	exportCmd.Flags().StringVarP(&dbName, "database", "d", "", "database name")
	exportCmd.Flags().StringVar(&tenant, "tenant", "", "tenant scope")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "jsonl" && exportFormat != "csv" {
		return fmt.Errorf("invalid format: %s. Use 'jsonl' or 'csv'", exportFormat)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewMongoDB(dbURI, dbName)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer db.Close()

	svc := export.NewService(db)

	if exportCollection != "" {
		logger.Info("exporting collection",
			zap.String("collection", exportCollection),
			zap.String("format", exportFormat))
		file, err := svc.Collection(cmd.Context(), exportCollection, tenant, outputDir, exportFormat)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("Export written to %s\n", file)
		return nil
	}

	if exportFormat == "csv" {
		return fmt.Errorf("csv export needs --collection products")
	}

	files, err := svc.Collections(cmd.Context(), tenant, outputDir)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Printf("Created %d export files:\n", len(files))
	for _, file := range files {
		fmt.Printf("  - %s\n", file)
	}
	return nil
}
