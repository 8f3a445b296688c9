package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jgoulah/powerplot/internal/config"
	"github.com/jgoulah/powerplot/internal/database"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "powerplot",
	Short: "Explore the household power consumption dataset",
	Long: `Powerplot is a CLI tool for ad-hoc exploration of the UCI household
power consumption time series. It downloads the dataset on first use, extracts
date-bounded windows without loading the whole file, and renders exploratory
charts to PNG files. Extracted windows can be cached in a local SQLite database
for listing, daily statistics, and publishing to Home Assistant.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default is ./data.db)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}
