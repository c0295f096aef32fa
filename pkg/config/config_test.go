package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Valid Config", func(t *testing.T) {
		configContent := `
codec:
  sample_rate: 48000
  note_duration: 0.25
  note_volume: 0.8

paths:
  output_directory: "/var/lib/dnawave/output"

web:
  port: 9090
  bind_address: "127.0.0.1"

api:
  unix_socket: "/run/dnawaved.sock"

storage:
  database_path: "/var/lib/dnawave/jobs.db"
  max_jobs: 5000

logging:
  level: "debug"
  file: "/var/log/dnawaved.log"
  console: true
`
		config, err := LoadConfig(writeConfig(t, configContent))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if config.Codec.SampleRate != 48000 {
			t.Errorf("Expected sample rate 48000, got %d", config.Codec.SampleRate)
		}
		if config.Codec.NoteDuration != 0.25 {
			t.Errorf("Expected note duration 0.25, got %f", config.Codec.NoteDuration)
		}
		if config.Codec.NoteVolume != 0.8 {
			t.Errorf("Expected note volume 0.8, got %f", config.Codec.NoteVolume)
		}
		if config.Paths.OutputDirectory != "/var/lib/dnawave/output" {
			t.Errorf("Unexpected output directory: %s", config.Paths.OutputDirectory)
		}
		if config.Web.Port != 9090 {
			t.Errorf("Expected port 9090, got %d", config.Web.Port)
		}
		if config.Web.BindAddress != "127.0.0.1" {
			t.Errorf("Unexpected bind address: %s", config.Web.BindAddress)
		}
		if config.API.UnixSocket != "/run/dnawaved.sock" {
			t.Errorf("Unexpected socket path: %s", config.API.UnixSocket)
		}
		if config.Storage.DatabasePath != "/var/lib/dnawave/jobs.db" {
			t.Errorf("Unexpected database path: %s", config.Storage.DatabasePath)
		}
		if config.Storage.MaxJobs != 5000 {
			t.Errorf("Expected max jobs 5000, got %d", config.Storage.MaxJobs)
		}
		if config.Logging.Level != "debug" {
			t.Errorf("Expected log level debug, got %s", config.Logging.Level)
		}
		if !config.Logging.Console {
			t.Error("Expected console logging enabled")
		}
	})

	t.Run("Defaults Applied", func(t *testing.T) {
		config, err := LoadConfig(writeConfig(t, "codec: {}\n"))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if config.Codec.SampleRate != 44100 {
			t.Errorf("Expected default sample rate 44100, got %d", config.Codec.SampleRate)
		}
		if config.Codec.NoteDuration != 0.2 {
			t.Errorf("Expected default note duration 0.2, got %f", config.Codec.NoteDuration)
		}
		if config.Codec.NoteVolume != 0.5 {
			t.Errorf("Expected default note volume 0.5, got %f", config.Codec.NoteVolume)
		}
		if config.Paths.OutputDirectory != "output" {
			t.Errorf("Expected default output directory, got %s", config.Paths.OutputDirectory)
		}
		if config.Web.Port != 8080 {
			t.Errorf("Expected default port 8080, got %d", config.Web.Port)
		}
		if config.API.UnixSocket != "/tmp/dnawaved.sock" {
			t.Errorf("Expected default socket path, got %s", config.API.UnixSocket)
		}
		if config.Storage.MaxJobs != 10000 {
			t.Errorf("Expected default max jobs 10000, got %d", config.Storage.MaxJobs)
		}
		if config.Logging.Level != "info" {
			t.Errorf("Expected default log level info, got %s", config.Logging.Level)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Error("Expected error for missing file, got nil")
		}
	})

	t.Run("Invalid YAML", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "codec: [not: a: mapping\n"))
		if err == nil {
			t.Error("Expected error for invalid YAML, got nil")
		}
		if err != nil && !strings.Contains(err.Error(), "parse") {
			t.Errorf("Expected parse error, got: %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		config, err := LoadConfig(writeConfig(t, "codec: {}\n"))
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		return config
	}

	t.Run("Defaults Are Valid", func(t *testing.T) {
		if err := valid(t).Validate(); err != nil {
			t.Errorf("Expected default config to validate, got: %v", err)
		}
	})

	t.Run("Negative Sample Rate", func(t *testing.T) {
		config := valid(t)
		config.Codec.SampleRate = -1
		if err := config.Validate(); err == nil {
			t.Error("Expected error for negative sample rate, got nil")
		}
	})

	t.Run("Zero Note Duration", func(t *testing.T) {
		config := valid(t)
		config.Codec.NoteDuration = 0
		if err := config.Validate(); err == nil {
			t.Error("Expected error for zero note duration, got nil")
		}
	})

	t.Run("Volume Above Full Scale", func(t *testing.T) {
		config := valid(t)
		config.Codec.NoteVolume = 1.5
		if err := config.Validate(); err == nil {
			t.Error("Expected error for out-of-range volume, got nil")
		}
	})

	t.Run("Note Too Short for Sample Rate", func(t *testing.T) {
		config := valid(t)
		config.Codec.SampleRate = 10
		config.Codec.NoteDuration = 0.01
		if err := config.Validate(); err == nil {
			t.Error("Expected error for zero-sample note, got nil")
		}
	})

	t.Run("Port Out of Range", func(t *testing.T) {
		config := valid(t)
		config.Web.Port = 70000
		if err := config.Validate(); err == nil {
			t.Error("Expected error for port out of range, got nil")
		}
	})
}
