package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/jgoulah/powerplot/pkg/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daily statistics for cached readings",
	Long: `Aggregates the imported readings by day: mean and peak active power,
estimated energy, and how many minutes had missing measurements.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// dayStats accumulates one day's readings
type dayStats struct {
	count   int
	missing int
	sum     float64
	peak    float64
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	readings, err := db.ListReadings()
	if err != nil {
		return fmt.Errorf("listing readings: %w", err)
	}

	if len(readings) == 0 {
		fmt.Println("No readings imported yet")
		return nil
	}

	days := aggregateDays(readings)

	keys := make([]string, 0, len(days))
	for day := range days {
		keys = append(keys, day)
	}
	sort.Strings(keys)

	fmt.Println("\nDaily Statistics:")
	fmt.Println("----------------------------------------------------------------------")
	fmt.Printf("%-12s  %8s  %10s  %10s  %10s\n", "Date", "Minutes", "Mean (kW)", "Peak (kW)", "kWh (est)")
	fmt.Println("----------------------------------------------------------------------")

	for _, day := range keys {
		s := days[day]
		mean := 0.0
		if n := s.count - s.missing; n > 0 {
			mean = s.sum / float64(n)
		}
		// One reading per minute; kW sustained for a minute is 1/60 kWh
		kwh := s.sum / 60

		fmt.Printf("%-12s  %8d  %10.3f  %10.3f  %10.2f\n", day, s.count, mean, s.peak, kwh)
		if s.missing > 0 {
			fmt.Printf("%-12s  (%d minutes missing)\n", "", s.missing)
		}
	}
	fmt.Println("----------------------------------------------------------------------")

	return nil
}

func aggregateDays(readings []models.Reading) map[string]*dayStats {
	days := make(map[string]*dayStats)
	for _, r := range readings {
		day := r.Timestamp.Format(time.DateOnly)
		s, ok := days[day]
		if !ok {
			s = &dayStats{}
			days[day] = s
		}

		s.count++
		if r.GlobalActivePower == nil {
			s.missing++
			continue
		}
		s.sum += *r.GlobalActivePower
		if *r.GlobalActivePower > s.peak {
			s.peak = *r.GlobalActivePower
		}
	}
	return days
}
