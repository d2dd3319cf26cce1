package main

import (
	"drone-dispatch-service/internal/config"
	"drone-dispatch-service/internal/logger"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg  *config.Config
	logr *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dronectl",
	Short: "Drone dispatch operator toolkit",
	Long:  "dronectl seeds and exports fleet reference data and runs planning offline against a snapshot.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if logr, err = logger.New(cfg); err != nil {
			return err
		}
		zap.ReplaceGlobals(logr)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logr != nil {
			logger.Sync(logr)
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(pathCmd)
}
