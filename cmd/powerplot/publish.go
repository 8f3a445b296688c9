package main

import (
	"fmt"
	"time"

	"github.com/jgoulah/powerplot/internal/publisher"
	"github.com/jgoulah/powerplot/pkg/models"
	"github.com/spf13/cobra"
)

var (
	publishAll   bool
	publishLimit int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish cached readings to Home Assistant",
	Long: `Reads imported readings from the database and publishes active power
states to Home Assistant, via MQTT when a broker is configured, otherwise the
HTTP backfill API. Readings with a missing active power value are skipped.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all readings (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of readings to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !cfg.MQTT.Enabled && !cfg.HomeAssistant.Enabled {
		return fmt.Errorf("neither MQTT nor Home Assistant is enabled in config")
	}

	// Create publisher
	pub, err := publisher.New(cfg.MQTT, cfg.HomeAssistant)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	// Open database
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Get readings based on --all flag
	var readings []models.Reading
	if publishAll {
		readings, err = db.ListReadings()
	} else {
		readings, err = db.ListUnpublished()
	}
	if err != nil {
		return fmt.Errorf("listing readings: %w", err)
	}

	if len(readings) == 0 {
		if publishAll {
			fmt.Println("No readings imported yet")
		} else {
			fmt.Println("No unpublished readings found")
		}
		return nil
	}

	if publishLimit > 0 && len(readings) > publishLimit {
		readings = readings[:publishLimit]
	}

	fmt.Printf("Publishing %d readings...\n", len(readings))

	published := 0
	skipped := 0
	for _, reading := range readings {
		if reading.GlobalActivePower == nil {
			skipped++
			continue
		}

		if err := pub.Publish(reading); err != nil {
			return fmt.Errorf("publishing reading at %s: %w", reading.Timestamp.Format("2006-01-02 15:04:05"), err)
		}

		if err := db.MarkPublished(reading.ID); err != nil {
			return fmt.Errorf("marking reading published: %w", err)
		}

		published++
	}

	fmt.Printf("✓ Published %d readings (%d skipped for missing values)\n", published, skipped)
	return nil
}
