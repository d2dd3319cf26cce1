package main

import (
	"bytes"
	"drone-dispatch-service/internal/adapters/referencedata"
	"drone-dispatch-service/internal/api/dto"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/services"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	planReference string
	planInput     string
	planGeoJSON   bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a batch of delivery requests against a snapshot file",
	Long:  "plan reads a JSON array of delivery requests and prints the resulting drone plans as JSON or GeoJSON.",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(planInput)
		if err != nil {
			return fmt.Errorf("read requests: %w", err)
		}

		var batch []dto.DeliveryRequest
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&batch); err != nil {
			return fmt.Errorf("decode requests %q: %w", planInput, err)
		}
		if err := dto.Validate(batch); err != nil {
			return fmt.Errorf("validate requests: %w", err)
		}
		requests, err := dto.DeliveriesToDomain(batch)
		if err != nil {
			return err
		}

		ref, err := referencedata.NewFileSource(firstNonEmpty(planReference, cfg.ReferenceFile)).Load(cmd.Context())
		if err != nil {
			return err
		}

		geoCfg := cfg.Geo()
		planner := services.NewPlanner(geo.NewPathfinder(geoCfg), geoCfg,
			services.WithWorkers(cfg.PlannerWorkers),
			services.WithLogger(logr),
		)

		res, err := planner.Plan(cmd.Context(), ref, requests)
		if err != nil {
			return err
		}

		if planGeoJSON {
			fc, err := dto.PlanFeatureCollection(res)
			if err != nil {
				return err
			}
			return printJSON(cmd, fc)
		}
		return printJSON(cmd, dto.FromPlanResult(res))
	},
}

func init() {
	planCmd.Flags().StringVar(&planReference, "reference", "", "Snapshot file (default REFERENCE_FILE)")
	planCmd.Flags().StringVar(&planInput, "input", "", "JSON file with an array of delivery requests")
	planCmd.Flags().BoolVar(&planGeoJSON, "geojson", false, "Print a GeoJSON FeatureCollection instead of plan JSON")
	_ = planCmd.MarkFlagRequired("input")
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
