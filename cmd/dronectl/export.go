package main

import (
	"drone-dispatch-service/internal/adapters/referencedata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportEndpoint string
	exportOut      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch reference data from the upstream provider into a snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := referencedata.NewClient(firstNonEmpty(exportEndpoint, cfg.ILPEndpoint), logr)
		if err != nil {
			return err
		}

		ref, err := client.Load(cmd.Context())
		if err != nil {
			return err
		}

		out := firstNonEmpty(exportOut, cfg.ReferenceFile)
		if err := referencedata.WriteFile(out, ref); err != nil {
			return err
		}

		logr.Info("snapshot written", zap.String("file", out), zap.Int("drones", len(ref.Drones)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportEndpoint, "endpoint", "", "Upstream base URL (default ILP_ENDPOINT)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default REFERENCE_FILE)")
}
