package main

import (
	"drone-dispatch-service/internal/adapters/referencedata"
	"drone-dispatch-service/internal/api/dto"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	pathFrom      string
	pathTo        string
	pathReference string
)

var pathCmd = &cobra.Command{
	Use:     "path",
	Short:   "Find a single flight path between two positions",
	Example: "dronectl path --from -3.186874,55.944494 --to -3.192473,55.946233 --reference data/fleet.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parsePosition(pathFrom)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		to, err := parsePosition(pathTo)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}

		var zones []domain.Polygon
		if pathReference != "" {
			ref, err := referencedata.NewFileSource(pathReference).Load(cmd.Context())
			if err != nil {
				return err
			}
			zones = ref.NoFlyZones()
		}

		route, err := geo.NewPathfinder(cfg.Geo()).FindPath(from, to, zones)
		if err != nil {
			return err
		}
		return printJSON(cmd, dto.FromRoute(route))
	},
}

func init() {
	pathCmd.Flags().StringVar(&pathFrom, "from", "", "Start position as lng,lat")
	pathCmd.Flags().StringVar(&pathTo, "to", "", "Goal position as lng,lat")
	pathCmd.Flags().StringVar(&pathReference, "reference", "", "Snapshot file whose restricted areas are avoided")
	_ = pathCmd.MarkFlagRequired("from")
	_ = pathCmd.MarkFlagRequired("to")
}

func parsePosition(s string) (domain.Position, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.Position{}, fmt.Errorf("expected lng,lat, got %q", s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Position{}, fmt.Errorf("invalid longitude %q", parts[0])
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Position{}, fmt.Errorf("invalid latitude %q", parts[1])
	}
	return domain.Position{Lng: lng, Lat: lat}, nil
}
