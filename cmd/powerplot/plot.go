package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jgoulah/powerplot/internal/config"
	"github.com/jgoulah/powerplot/internal/dataset"
	"github.com/jgoulah/powerplot/internal/provision"
	"github.com/jgoulah/powerplot/internal/render"
	"github.com/spf13/cobra"
)

var (
	plotStart string
	plotEnd   string
	plotOut   string
)

// variants maps chart names to renderers and default output files
var variants = map[string]struct {
	draw    func(*dataset.Table, io.Writer, render.Options) error
	outFile string
}{
	"histogram":      {render.Histogram, "histogram.png"},
	"active-power":   {render.ActivePower, "active_power.png"},
	"sub-metering":   {render.SubMetering, "sub_metering.png"},
	"panels":         {render.Panels, "panels.png"},
	"voltage":        {render.Voltage, "voltage.png"},
	"reactive-power": {render.ReactivePower, "reactive_power.png"},
}

var plotCmd = &cobra.Command{
	Use:   "plot [variant]",
	Short: "Render a chart for a date window",
	Long: `Extracts the requested date window from the dataset and renders one
chart variant to a PNG file. The dataset is provisioned automatically if absent.

Available variants: histogram, active-power, sub-metering, panels, voltage,
reactive-power. Dates use the dataset's d/m/yyyy form, e.g. 1/2/2007.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().StringVar(&plotStart, "start", "", "First date of the window (d/m/yyyy)")
	plotCmd.Flags().StringVar(&plotEnd, "end", "", "Last date of the window (d/m/yyyy)")
	plotCmd.Flags().StringVar(&plotOut, "out", "", "Output file (default is named after the variant)")
	plotCmd.MarkFlagRequired("start")
	plotCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	variant, ok := variants[args[0]]
	if !ok {
		return fmt.Errorf("unknown variant: %s (available: histogram, active-power, sub-metering, panels, voltage, reactive-power)", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	table, err := prepareWindow(cfg, plotStart, plotEnd)
	if err != nil {
		return err
	}

	outPath := plotOut
	if outPath == "" {
		outPath = variant.outFile
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	opts := render.Options{Width: cfg.GetChartWidth(), Height: cfg.GetChartHeight()}
	if err := variant.draw(table, out, opts); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote %s (%d readings, %s to %s)\n", outPath, len(table.Rows), plotStart, plotEnd)
	return nil
}

// prepareWindow provisions the dataset if needed and loads the
// requested window. Shared by the plot and import commands.
func prepareWindow(cfg *config.Config, start, end string) (*dataset.Table, error) {
	opts := provision.Options{
		DatasetPath: cfg.GetDatasetPath(),
		ArchivePath: cfg.GetArchivePath(),
		DownloadURL: cfg.GetDownloadURL(),
	}
	if _, err := os.Stat(opts.DatasetPath); os.IsNotExist(err) {
		fmt.Printf("Dataset not found, provisioning from %s...\n", opts.DownloadURL)
		if err := provision.Ensure(opts); err != nil {
			return nil, err
		}
	}

	loader := dataset.NewLoader(opts.DatasetPath, cfg.GetSampleRows())

	began := time.Now()
	table, err := loader.Prepare(dataset.DateRange{Start: start, End: end})
	if err != nil {
		return nil, err
	}
	fmt.Printf("Loaded %d readings in %s\n", len(table.Rows), time.Since(began).Round(time.Millisecond))

	return table, nil
}
