package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"garden-assistant/internal/core/ai/cache"
	"garden-assistant/internal/core/climate"
	"garden-assistant/internal/core/plant"
	"garden-assistant/internal/core/season"
	"garden-assistant/internal/pkg/common"
)

type printerFor func(cmd *cobra.Command) printer

func normalizeCommand(out printerFor) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <name>",
		Short: "Normalize a free-text plant name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			normalized := plant.Normalize(input)
			return out(cmd).print(normalized, map[string]string{"input": input, "normalized": normalized})
		},
	}
}

func keyCommand(out printerFor) *cobra.Command {
	var (
		plantedIn     string
		zone          int
		location      string
		schemaVersion int
	)

	cmd := &cobra.Command{
		Use:   "key <name>",
		Short: "Derive the profile cache key for a name and context",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			placement, err := common.ParsePlantedIn(plantedIn)
			if err != nil {
				return err
			}
			if zone != 0 && !climate.Zone(zone).Valid() {
				return common.NewFieldValidationError("zone", "must be between 7 and 10")
			}
			if zone == 0 && strings.TrimSpace(location) != "" {
				zone = int(climate.ResolveZone(location))
			}

			kc := cache.KeyContext{
				Name:          plant.Normalize(strings.Join(args, " ")),
				PlantedIn:     placement,
				Zone:          zone,
				SchemaVersion: schemaVersion,
			}
			key := kc.Key()
			return out(cmd).print(key, map[string]interface{}{
				"name":           kc.Name,
				"planted_in":     kc.PlantedIn,
				"zone":           kc.Zone,
				"schema_version": kc.SchemaVersion,
				"key":            key,
			})
		},
	}
	cmd.Flags().StringVar(&plantedIn, "planted-in", "", "ground, pot or raised_bed")
	cmd.Flags().IntVar(&zone, "zone", 0, "explicit climate zone (7-10)")
	cmd.Flags().StringVar(&location, "location", "", "location used when --zone is not given")
	cmd.Flags().IntVar(&schemaVersion, "schema-version", 1, "profile schema version")
	return cmd
}

func zoneCommand(out printerFor) *cobra.Command {
	return &cobra.Command{
		Use:   "zone [location]",
		Short: "Resolve a location to a climate zone",
		RunE: func(cmd *cobra.Command, args []string) error {
			location := strings.Join(args, " ")
			zone := climate.ResolveZone(location)
			info := climate.LookupInfo(zone)
			return out(cmd).print(fmt.Sprintf("%s: %s", zone, info.Description), info)
		},
	}
}

func stageCommand(out printerFor) *cobra.Command {
	var (
		middle string
		month  int
	)

	cmd := &cobra.Command{
		Use:   "stage <top-level>",
		Short: "Infer the growth stage of a plant type for a month",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 0 || month > 12 {
				return common.NewFieldValidationError("month", "must be between 1 and 12")
			}
			res := season.InferStage(strings.Join(args, " "), middle, month)
			return out(cmd).print(fmt.Sprintf("%s (%s): %s", res.Label, res.Category, res.Explanation), res)
		},
	}
	cmd.Flags().StringVar(&middle, "middle", "", "middle-level type, e.g. \"Climbing Rose\"")
	cmd.Flags().IntVar(&month, "month", 0, "month 1-12, defaults to the current month")
	return cmd
}

func windowCommand(out printerFor) *cobra.Command {
	var month, start, end int

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Check whether a month falls inside a task window",
		RunE: func(cmd *cobra.Command, args []string) error {
			for name, v := range map[string]int{"month": month, "start": start, "end": end} {
				if v < 1 || v > 12 {
					return common.NewFieldValidationError(name, "must be between 1 and 12")
				}
			}
			in := season.InWindow(month, start, end)
			return out(cmd).print(fmt.Sprintf("%t", in), map[string]interface{}{
				"month": month, "start": start, "end": end, "in_window": in,
			})
		},
	}
	cmd.Flags().IntVar(&month, "month", 0, "month to check")
	cmd.Flags().IntVar(&start, "start", 0, "window start month")
	cmd.Flags().IntVar(&end, "end", 0, "window end month")
	return cmd
}
