package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestSetDefaults tests the setDefaults function
func TestSetDefaults(t *testing.T) {
	cfg := &config{}
	err := setDefaults(cfg)
	if err != nil {
		t.Fatalf("setDefaults failed: %v", err)
	}

	homeDir, _ := os.UserHomeDir()

	if cfg.ConfigFile != filepath.Join(homeDir, ".mediachronrc") {
		t.Errorf("Expected ConfigFile to be %s, got %s", filepath.Join(homeDir, ".mediachronrc"), cfg.ConfigFile)
	}
	if cfg.Pattern != "date_sequence" {
		t.Errorf("Expected Pattern to be date_sequence, got %s", cfg.Pattern)
	}
	if !cfg.Backup {
		t.Error("Expected Backup to default to true")
	}
	if !cfg.SkipExisting {
		t.Error("Expected SkipExisting to default to true")
	}
	if !cfg.UseCache {
		t.Error("Expected UseCache to default to true")
	}
	if cfg.ConvertTimeoutMin != 30 {
		t.Errorf("Expected ConvertTimeoutMin to be 30, got %d", cfg.ConvertTimeoutMin)
	}
	if cfg.Ffmpeg.VideoCodec != "libx264" || cfg.Ffmpeg.CRF != 28 {
		t.Errorf("Unexpected ffmpeg defaults: %+v", cfg.Ffmpeg)
	}
}

// TestParseConfigFile tests the parseConfigFile function
func TestParseConfigFile(t *testing.T) {
	validConfig := `
naming_pattern: date_time_sequence
backup: false
cache: false
convert_timeout_minutes: 5
placeholder_rules:
  - pattern: "^GOPR\\d+"
    date: "2018-05-01"
ffmpeg:
  crf: 23
catalog:
  default_artist: Someone
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(validConfig)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	cfg := &config{ConfigFile: tmpfile.Name()}
	if err := parseConfigFile(cfg); err != nil {
		t.Fatalf("parseConfigFile failed: %v", err)
	}

	if cfg.Pattern != "date_time_sequence" {
		t.Errorf("Expected Pattern to be date_time_sequence, got %s", cfg.Pattern)
	}
	if cfg.Backup || cfg.UseCache {
		t.Error("Expected backup and cache to be disabled by the config file")
	}
	if cfg.ConvertTimeoutMin != 5 {
		t.Errorf("Expected ConvertTimeoutMin to be 5, got %d", cfg.ConvertTimeoutMin)
	}
	if len(cfg.PlaceholderRules) != 1 || cfg.PlaceholderRules[0].Date != "2018-05-01" {
		t.Errorf("Unexpected placeholder rules: %+v", cfg.PlaceholderRules)
	}
	if cfg.Ffmpeg.CRF != 23 {
		t.Errorf("Expected CRF 23, got %d", cfg.Ffmpeg.CRF)
	}
	if cfg.Catalog.DefaultArtist != "Someone" {
		t.Errorf("Expected default artist Someone, got %s", cfg.Catalog.DefaultArtist)
	}

	// Missing config file is not an error
	cfg = &config{ConfigFile: "/non/existent/config.yaml"}
	if err := parseConfigFile(cfg); err != nil {
		t.Errorf("Expected no error for missing config file, got %v", err)
	}

	// Invalid YAML is an error
	badfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(badfile.Name())
	if _, err := badfile.Write([]byte("naming_pattern: [unclosed")); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	badfile.Close()

	cfg = &config{ConfigFile: badfile.Name()}
	if err := parseConfigFile(cfg); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

// TestValidateConfig tests the validateConfig function
func TestValidateConfig(t *testing.T) {
	dir := t.TempDir()

	valid := func() *config {
		cfg := &config{}
		setDefaults(cfg)
		cfg.SourceDir = dir
		return cfg
	}

	if err := validateConfig(valid()); err != nil {
		t.Errorf("Expected valid config to pass, got %v", err)
	}

	cfg := valid()
	cfg.SourceDir = ""
	if err := validateConfig(cfg); err == nil {
		t.Error("Expected error for missing source directory")
	}

	cfg = valid()
	cfg.SourceDir = "/non/existent/dir"
	if err := validateConfig(cfg); err == nil {
		t.Error("Expected error for non-existent source directory")
	}

	cfg = valid()
	cfg.OutputDir = "/non/existent/parent/out"
	if err := validateConfig(cfg); err == nil {
		t.Error("Expected error for missing output parent")
	}

	cfg = valid()
	cfg.ConvertTimeoutMin = 0
	if err := validateConfig(cfg); err == nil {
		t.Error("Expected error for zero convert timeout")
	}

	cfg = valid()
	cfg.Ffmpeg.CRF = 99
	if err := validateConfig(cfg); err == nil {
		t.Error("Expected error for out-of-range crf")
	}

	cfg = valid()
	cfg.ConvertTo = "MP4"
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("Expected valid config to pass, got %v", err)
	}
	if cfg.ConvertTo != ".mp4" {
		t.Errorf("Expected normalized convert target .mp4, got %s", cfg.ConvertTo)
	}

	cfg = valid()
	cfg.Extensions = []string{"JPG", ".png"}
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("Expected valid config to pass, got %v", err)
	}
	if cfg.Extensions[0] != ".jpg" || cfg.Extensions[1] != ".png" {
		t.Errorf("Expected normalized extensions, got %v", cfg.Extensions)
	}

	cfg = valid()
	cfg.Extensions = []string{"  "}
	if err := validateConfig(cfg); err == nil {
		t.Error("Expected error for empty extension")
	}
}

// TestWasFlagProvided tests the wasFlagProvided function
func TestWasFlagProvided(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"mediachron", "rename", "/photos", "--dry-run", "--crf=23"}

	if !wasFlagProvided("--dry-run") {
		t.Error("Expected --dry-run to be detected")
	}
	if !wasFlagProvided("--crf") {
		t.Error("Expected --crf to be detected in key=value form")
	}
	if wasFlagProvided("--no-backup") {
		t.Error("Expected --no-backup to be absent")
	}
}
