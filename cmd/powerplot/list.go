package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached readings",
	Long:  `Displays readings imported into the local database, oldest first.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Show at most this many readings (0 = all)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
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

	if listLimit > 0 && len(readings) > listLimit {
		readings = readings[:listLimit]
	}

	fmt.Println("\nCached Readings:")
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("%-20s  %12s  %10s\n", "Timestamp", "Active (kW)", "Volts")
	fmt.Println("------------------------------------------------------------")

	var total float64
	missing := 0
	for _, r := range readings {
		active := "?"
		if r.GlobalActivePower != nil {
			active = fmt.Sprintf("%.3f", *r.GlobalActivePower)
			total += *r.GlobalActivePower
		} else {
			missing++
		}
		volts := "?"
		if r.Voltage != nil {
			volts = fmt.Sprintf("%.2f", *r.Voltage)
		}
		fmt.Printf("%-20s  %12s  %10s\n", r.Timestamp.Format("2006-01-02 15:04:05"), active, volts)
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %.2f kW-minutes across %d readings (%d missing)\n", total, len(readings), missing)

	return nil
}
