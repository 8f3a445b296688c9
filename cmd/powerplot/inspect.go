package main

import (
	"fmt"

	"github.com/jgoulah/powerplot/internal/dataset"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the inferred dataset schema and coverage",
	Long: `Runs schema inference over the leading sample of the dataset and prints
each column's inferred type, then reports the date coverage and line count.
Inference is a sampling heuristic: a column whose sampled values are all missing
stays text and is flagged.`,
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	path := cfg.GetDatasetPath()
	schema, err := dataset.InferSchema(path, cfg.GetSampleRows())
	if err != nil {
		return fmt.Errorf("inferring schema: %w", err)
	}

	fmt.Printf("Dataset: %s\n", path)
	fmt.Printf("Schema (%d columns, sampled %d rows):\n", len(schema.Columns), cfg.GetSampleRows())
	fmt.Println("----------------------------------------")
	for _, col := range schema.Columns {
		fmt.Printf("%-24s  %s\n", col.Name, col.Kind)
	}
	fmt.Println("----------------------------------------")

	first, last, lines, err := dataset.Coverage(path)
	if err != nil {
		return fmt.Errorf("scanning coverage: %w", err)
	}
	fmt.Printf("Coverage: %s .. %s (%d readings)\n", first, last, lines)

	return nil
}
