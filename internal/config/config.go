package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default dataset locations. These are the recognized defaults; all of
// them can be overridden in config.yaml so tests can point at fixtures.
const (
	DefaultDatasetPath = "household_power_consumption.txt"
	DefaultArchivePath = "household_power_consumption.zip"
	DefaultDownloadURL = "https://d396qusza40orc.cloudfront.net/exdata%2Fdata%2Fhousehold_power_consumption.zip"
	DefaultSampleRows  = 100
)

// Config holds the application configuration
type Config struct {
	Dataset       DatasetConfig `yaml:"dataset,omitempty"`
	Chart         ChartConfig   `yaml:"chart,omitempty"`
	MQTT          MQTTConfig    `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig      `yaml:"home_assistant,omitempty"`
}

// DatasetConfig locates the raw dataset and its source archive
type DatasetConfig struct {
	Path        string `yaml:"path,omitempty"`         // decompressed txt file
	ArchivePath string `yaml:"archive_path,omitempty"` // downloaded zip
	DownloadURL string `yaml:"download_url,omitempty"`
	SampleRows  int    `yaml:"sample_rows,omitempty"` // rows inspected for schema inference
}

// ChartConfig holds output dimensions for rendered charts
type ChartConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// MQTTConfig holds MQTT broker settings for publishing readings
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker,omitempty"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://yourdomain.local:5050"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.household_active_power"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetDatasetPath returns the dataset file path, falling back to the default
func (c *Config) GetDatasetPath() string {
	if c.Dataset.Path != "" {
		return c.Dataset.Path
	}
	return DefaultDatasetPath
}

// GetArchivePath returns the archive file path, falling back to the default
func (c *Config) GetArchivePath() string {
	if c.Dataset.ArchivePath != "" {
		return c.Dataset.ArchivePath
	}
	return DefaultArchivePath
}

// GetDownloadURL returns the archive download URL, falling back to the default
func (c *Config) GetDownloadURL() string {
	if c.Dataset.DownloadURL != "" {
		return c.Dataset.DownloadURL
	}
	return DefaultDownloadURL
}

// GetSampleRows returns the schema inference sample size with a default of 100
func (c *Config) GetSampleRows() int {
	if c.Dataset.SampleRows <= 0 {
		return DefaultSampleRows
	}
	return c.Dataset.SampleRows
}

// GetChartWidth returns the chart width in pixels with a default of 480
func (c *Config) GetChartWidth() int {
	if c.Chart.Width <= 0 {
		return 480
	}
	return c.Chart.Width
}

// GetChartHeight returns the chart height in pixels with a default of 480
func (c *Config) GetChartHeight() int {
	if c.Chart.Height <= 0 {
		return 480
	}
	return c.Chart.Height
}
