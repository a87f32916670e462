package export

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/Absle/swt-gen/internal/subsector"
)

// RenderCSV writes one row per occupied hex in coordinate order.
func RenderCSV(s *subsector.Subsector) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	header := []string{
		"hex", "name", "uwp", "bases", "trade_codes", "travel_zone",
		"temperature", "belts", "gas_giants", "berthing_cost", "importance",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}

	for _, c := range s.Grid.Coordinates() {
		world := s.World(c)
		if world == nil {
			continue
		}
		row := []string{
			c.String(),
			world.Name,
			world.Profile(),
			world.BaseString(),
			world.TradeCodeString(),
			string(world.TravelZone),
			fmt.Sprint(world.Temperature),
			fmt.Sprint(world.Belts),
			fmt.Sprint(world.GasGiants),
			fmt.Sprint(world.BerthingCost),
			fmt.Sprint(world.Importance()),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing csv row %s: %w", c, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return b.String(), nil
}
