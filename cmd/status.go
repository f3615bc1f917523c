package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salescockpit/internal/database"
	"salescockpit/internal/logging"
	"salescockpit/internal/status"
)

var statusUser string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the derived workflow status of every project",
	Long: `Derive and print the workflow status for each project in the tenant.
The status combines manual analyst decisions, the age of the project and
whether the current viewer has opened it yet, so pass --user to see the
statuses from a specific analyst's point of view.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusUser, "user", "U", "", "viewer whose read history decides the Neu status")
	statusCmd.Flags().StringVarP(&dbURI, "db-uri", "u", "", "MongoDB connection URI")
	statusCmd.Flags().StringVarP(&dbName, "database", "d", "", "database name")
	statusCmd.Flags().StringVar(&tenant, "tenant", "", "tenant scope")
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()

	projects, err := db.FetchProjects(ctx, tenant)
	if err != nil {
		return fmt.Errorf("failed to fetch projects: %w", err)
	}
	records, err := db.FetchOptimizationRecords(ctx, tenant)
	if err != nil {
		return fmt.Errorf("failed to fetch optimization records: %w", err)
	}
	viewed := map[string]bool{}
	if statusUser != "" {
		viewed, err = db.ViewedProjects(ctx, statusUser)
		if err != nil {
			return fmt.Errorf("failed to fetch view history: %w", err)
		}
	}

	logger.Info("deriving statuses",
		zap.Int("projects", len(projects)),
		zap.String("user", statusUser))

	counts := map[status.DerivedStatus]int{}
	for _, p := range projects {
		p.Viewed = viewed[p.ProjectID]
		s := status.Derive(p, records[p.ProjectID])
		counts[s]++
		fmt.Printf("%-24s %s\n", p.ProjectID, s)
	}

	fmt.Println()
	for _, s := range []status.DerivedStatus{
		status.Neu, status.Offen, status.Pruefung,
		status.Validierung, status.Abgeschlossen,
	} {
		if counts[s] > 0 {
			fmt.Printf("%-16s %d\n", s, counts[s])
		}
	}
	return nil
}
