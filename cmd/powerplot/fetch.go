package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jgoulah/powerplot/internal/provision"
	"github.com/spf13/cobra"
)

var fetchForce bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and unpack the dataset",
	Long: `Ensures a local copy of the raw dataset file exists, downloading and
extracting the distribution archive on first use. A no-op when the dataset is
already present. There is no retry policy; rerun the command if it fails.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "Re-download even if the dataset exists")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Fetch started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	opts := provision.Options{
		DatasetPath: cfg.GetDatasetPath(),
		ArchivePath: cfg.GetArchivePath(),
		DownloadURL: cfg.GetDownloadURL(),
	}

	if fetchForce {
		for _, path := range []string{opts.DatasetPath, opts.ArchivePath} {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing %s: %w", path, err)
			}
		}
	}

	if _, err := os.Stat(opts.DatasetPath); err == nil {
		fmt.Printf("✓ Dataset already present at %s\n", opts.DatasetPath)
		return nil
	}

	fmt.Printf("Provisioning dataset from %s...\n", opts.DownloadURL)
	if err := provision.Ensure(opts); err != nil {
		return err
	}

	fmt.Printf("✓ Dataset ready at %s\n", opts.DatasetPath)
	return nil
}
