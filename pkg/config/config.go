package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the dnawave configuration
type Config struct {
	Codec struct {
		SampleRate   int     `yaml:"sample_rate"`
		NoteDuration float64 `yaml:"note_duration"`
		NoteVolume   float64 `yaml:"note_volume"`
	} `yaml:"codec"`

	Paths struct {
		OutputDirectory string `yaml:"output_directory"`
	} `yaml:"paths"`

	Web struct {
		Port        int    `yaml:"port"`
		BindAddress string `yaml:"bind_address"`
	} `yaml:"web"`

	API struct {
		UnixSocket string `yaml:"unix_socket"`
	} `yaml:"api"`

	Storage struct {
		DatabasePath string `yaml:"database_path"`
		MaxJobs      int    `yaml:"max_jobs"`
	} `yaml:"storage"`

	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		Console    bool   `yaml:"console"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults
	if config.Codec.SampleRate == 0 {
		config.Codec.SampleRate = 44100
	}
	if config.Codec.NoteDuration == 0 {
		config.Codec.NoteDuration = 0.2
	}
	if config.Codec.NoteVolume == 0 {
		config.Codec.NoteVolume = 0.5
	}
	if config.Paths.OutputDirectory == "" {
		config.Paths.OutputDirectory = "output"
	}
	if config.Web.Port == 0 {
		config.Web.Port = 8080
	}
	if config.Web.BindAddress == "" {
		config.Web.BindAddress = "0.0.0.0"
	}
	if config.API.UnixSocket == "" {
		config.API.UnixSocket = "/tmp/dnawaved.sock"
	}
	if config.Storage.DatabasePath == "" {
		config.Storage.DatabasePath = "./dnawave.db"
	}
	if config.Storage.MaxJobs == 0 {
		config.Storage.MaxJobs = 10000
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = 10
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = 3
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = 28
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Codec.SampleRate <= 0 {
		return fmt.Errorf("codec sample rate must be positive")
	}
	if c.Codec.NoteDuration <= 0 {
		return fmt.Errorf("codec note duration must be positive")
	}
	if c.Codec.NoteVolume <= 0 || c.Codec.NoteVolume > 1 {
		return fmt.Errorf("codec note volume must be in (0, 1]")
	}
	if int(c.Codec.NoteDuration*float64(c.Codec.SampleRate)) == 0 {
		return fmt.Errorf("note duration too short for sample rate")
	}
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("web port out of range")
	}
	return nil
}
