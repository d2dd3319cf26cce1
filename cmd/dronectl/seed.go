package main

import (
	"drone-dispatch-service/internal/adapters/referencedata"
	"drone-dispatch-service/internal/adapters/repositories"
	"drone-dispatch-service/internal/platform/db"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedFile   string
	seedDriver string
	seedDSN    string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a fleet snapshot into the SQL store",
	Long:  "seed creates the reference data schema and replaces its contents with a YAML or JSON snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		file := firstNonEmpty(seedFile, cfg.ReferenceFile)
		driver := firstNonEmpty(seedDriver, cfg.DBDriver)
		dsn := firstNonEmpty(seedDSN, cfg.DatabaseURL)

		ref, err := referencedata.NewFileSource(file).Load(ctx)
		if err != nil {
			return err
		}

		conn, err := db.Open(driver, dsn)
		if err != nil {
			return err
		}
		defer conn.Close()

		logr.Info("initializing database schema", zap.String("driver", driver))
		if err := repositories.InitSchema(ctx, conn); err != nil {
			return err
		}

		repo := repositories.NewSQLReferenceRepository(conn, driver)
		if err := repo.Save(ctx, ref); err != nil {
			return err
		}

		logr.Info("seeding complete",
			zap.String("file", file),
			zap.Int("drones", len(ref.Drones)),
			zap.Int("service_points", len(ref.ServicePoints)),
			zap.Int("restricted_areas", len(ref.RestrictedAreas)),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "Snapshot file (default REFERENCE_FILE)")
	seedCmd.Flags().StringVar(&seedDriver, "driver", "", "Database driver, sqlite or pgx (default DB_DRIVER)")
	seedCmd.Flags().StringVar(&seedDSN, "dsn", "", "Database DSN (default DATABASE_URL)")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
