package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frahmantamala/childcare-management/internal/auditlog"
	auditlogPostgres "github.com/frahmantamala/childcare-management/internal/auditlog/postgres"
	"github.com/frahmantamala/childcare-management/internal/store"
	"github.com/frahmantamala/childcare-management/pkg/logger"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log commands",
	Long:  `Inspect and export the audit trail of mutations`,
}

var (
	exportOut    string
	exportUserID int64
	exportAction string
	exportTable  string
	exportLimit  int
)

var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit logs to an xlsx workbook",
	// Runtime failures are not usage errors.
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := store.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		service := auditlog.NewService(auditlogPostgres.NewRepository(db.Gorm), logger.LoggerWrapper())
		data, err := service.Export(ctx, auditlog.Filter{
			UserID: exportUserID,
			Action: auditlog.Action(exportAction),
			Table:  exportTable,
			Limit:  exportLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to export audit logs: %w", err)
		}

		out := exportOut
		if out == "" {
			out = fmt.Sprintf("audit-logs-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

func init() {
	auditExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default audit-logs-<timestamp>.xlsx)")
	auditExportCmd.Flags().Int64Var(&exportUserID, "user-id", 0, "only entries by this staff id")
	auditExportCmd.Flags().StringVar(&exportAction, "action", "", "only entries with this action")
	auditExportCmd.Flags().StringVar(&exportTable, "table", "", "only entries for this table")
	auditExportCmd.Flags().IntVar(&exportLimit, "limit", auditlog.MaxLimit, "maximum number of entries")

	auditCmd.AddCommand(auditExportCmd)
}
