package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salescockpit/internal/database"
	"salescockpit/internal/importer"
	"salescockpit/internal/logging"
	"salescockpit/internal/mapping"
	"salescockpit/internal/models"
	"salescockpit/internal/parser"
)

var (
	csvFile      string
	dataTypeID   string
	dbURI        string
	dbName       string
	tenant       string
	actor        string
	mapOverrides []string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a CSV export into the sales cockpit",
	Long: `Import a CSV export for one of the cockpit's data types. Columns are
matched to target fields automatically; use --map field=column to override
individual assignments. The batch is rejected as a whole if any required
field stays unmapped or any row fails validation.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&csvFile, "csv", "c", "", "CSV file to import (required)")
	importCmd.Flags().StringVarP(&dataTypeID, "type", "t", "", "data type: "+strings.Join(dataTypeIDs(), ", "))
	importCmd.Flags().StringVarP(&dbURI, "db-uri", "u", "", "MongoDB connection URI")
	importCmd.Flags().StringVarP(&dbName, "database", "d", "", "database name")
	importCmd.Flags().StringVar(&tenant, "tenant", "", "tenant scope for the imported rows")
	importCmd.Flags().StringVar(&actor, "actor", "", "identity recorded as created_by")
	importCmd.Flags().StringArrayVarP(&mapOverrides, "map", "m", nil, "override a column assignment, e.g. --map manufacturer=Hersteller")

	importCmd.MarkFlagRequired("csv")
	importCmd.MarkFlagRequired("type")
}

func runImport(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	dt, ok := models.DataTypeByID(dataTypeID)
	if !ok {
		return fmt.Errorf("unknown data type %q, expected one of: %s", dataTypeID, strings.Join(dataTypeIDs(), ", "))
	}

	data, err := os.ReadFile(csvFile)
	if err != nil {
		return fmt.Errorf("failed to read CSV file: %w", err)
	}

	parsed, err := parser.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	for _, w := range parsed.Warnings {
		logger.Warn("parser warning", zap.Int("row", w.Row), zap.String("message", w.Message))
	}
	logger.Info("file parsed",
		zap.String("file", csvFile),
		zap.String("data_type", dt.ID),
		zap.Int("rows", len(parsed.Records)))

	colMapping := importer.AutoMap(dt, parsed.Columns)
	if err := applyOverrides(colMapping, mapOverrides); err != nil {
		return err
	}
	for field, col := range colMapping {
		logger.Debug("column mapped", zap.String("field", field), zap.String("column", col))
	}

	db, err := database.NewMongoDB(dbURI, dbName)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer db.Close()

	svc := importer.NewService(db, logger)
	result, err := svc.Run(cmd.Context(), parsed.Records, importer.Options{
		DataType: dt,
		Mapping:  colMapping,
		Actor:    actor,
		Tenant:   tenant,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Imported batch %s: %d rows (%d inserted, %d updated)\n",
		result.BatchID, result.Total, result.Inserted, result.Updated)
	for _, ue := range result.UpdateErrors {
		fmt.Printf("  update of %s failed: %v\n", ue.ID, ue.Err)
	}
	if n := len(result.UpdateErrors); n > 0 {
		return fmt.Errorf("%d row update(s) failed; inserts and earlier updates stayed applied", n)
	}
	return nil
}

// applyOverrides folds --map field=column flags into the proposed mapping.
// An empty column ("field=") removes an assignment.
func applyOverrides(m mapping.ColumnMapping, overrides []string) error {
	for _, ov := range overrides {
		field, col, ok := strings.Cut(ov, "=")
		if !ok {
			return fmt.Errorf("invalid --map value %q, expected field=column", ov)
		}
		if col == "" {
			delete(m, field)
			continue
		}
		m[field] = col
	}
	return nil
}

func dataTypeIDs() []string {
	ids := make([]string, len(models.DataTypes))
	for i, dt := range models.DataTypes {
		ids[i] = dt.ID
	}
	return ids
}
