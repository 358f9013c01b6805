package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.InfoLevel).With().Timestamp().Logger()

type renameCmd struct {
	SourceDir       string   `arg:"positional,required" help:"Directory of media files to organize"`
	OutputDir       string   `arg:"--output" help:"Write organized files here instead of in place"`
	Pattern         string   `arg:"--pattern" help:"Naming pattern (date_sequence, date_time_sequence, year_month_sequence, category_date_sequence, or a literal template)"`
	Extensions      []string `arg:"--extensions" help:"Only process files with these extensions"`
	ConvertTo       string   `arg:"--convert" help:"Convert files to this format during organization"`
	CRF             int      `arg:"--crf" help:"Video conversion quality factor"`
	NoBackup        bool     `arg:"--no-backup" help:"Do not copy originals to original_backup before changing them"`
	DryRun          bool     `arg:"--dry-run" help:"Show what would happen without touching any file"`
	IncludeExisting bool     `arg:"--include-existing" help:"Also renumber files already in canonical form"`
	NoCache         bool     `arg:"--no-cache" help:"Resolve dates without the on-disk cache"`
	Report          string   `arg:"--report" help:"Write a JSON run report to this path"`
}

type catalogCmd struct {
	SourceDir string `arg:"positional,required" help:"Directory of media files to catalog"`
	Kind      string `arg:"--kind" help:"Catalog kind: photo, drawing, song or video" default:"photo"`
	Output    string `arg:"--output" help:"Catalog output path (default <kind>s-database.json)"`
}

var args struct {
	Rename     *renameCmd  `arg:"subcommand:rename" help:"Rename and convert media into chronological order"`
	Catalog    *catalogCmd `arg:"subcommand:catalog" help:"Build a JSON catalog of organized media"`
	ConfigFile string      `arg:"--config" help:"Path to config file"`
	Verbose    bool        `arg:"-v,--verbose" help:"Enable verbose output"`
}

// config holds the application configuration
type config struct {
	Pattern           string            `yaml:"naming_pattern"`
	Extensions        []string          `yaml:"extensions"`
	ConvertTo         string            `yaml:"convert_to"`
	Backup            bool              `yaml:"backup"`
	SkipExisting      bool              `yaml:"skip_existing"`
	UseCache          bool              `yaml:"cache"`
	ConvertTimeoutMin int               `yaml:"convert_timeout_minutes"`
	PlaceholderRules  []PlaceholderRule `yaml:"placeholder_rules"`
	Ffmpeg            ffmpegSettings    `yaml:"ffmpeg"`
	Catalog           catalogConfig     `yaml:"catalog"`
	Verbose           bool              `yaml:"verbose"`

	ConfigFile      string `yaml:"-"`
	SourceDir       string `yaml:"-"`
	OutputDir       string `yaml:"-"`
	DryRun          bool   `yaml:"-"`
	IncludeExisting bool   `yaml:"-"`
	ReportPath      string `yaml:"-"`
}

// setDefaults initializes the config with default values
func setDefaults(cfg *config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get user home directory: %v", err)
	}

	cfg.ConfigFile = filepath.Join(homeDir, ".mediachronrc")
	cfg.Pattern = "date_sequence"
	cfg.Backup = true
	cfg.SkipExisting = true
	cfg.UseCache = true
	cfg.ConvertTimeoutMin = 30
	cfg.Ffmpeg = defaultFfmpegSettings()
	return nil
}

// parseConfigFile reads and parses the YAML configuration file
func parseConfigFile(cfg *config) error {
	data, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist, just return without an error
			return nil
		}
		return fmt.Errorf("failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %v", err)
	}

	return nil
}

// validateConfig checks if the configuration is valid
func validateConfig(cfg *config) error {
	if cfg.SourceDir == "" {
		return fmt.Errorf("source directory is not specified")
	}

	if _, err := os.Stat(cfg.SourceDir); os.IsNotExist(err) {
		return fmt.Errorf("source directory does not exist: %s", cfg.SourceDir)
	}

	if cfg.OutputDir != "" {
		outParent := filepath.Dir(cfg.OutputDir)
		if _, err := os.Stat(outParent); os.IsNotExist(err) {
			return fmt.Errorf("output parent directory does not exist: %s", outParent)
		}
	}

	if cfg.ConvertTo != "" {
		ct := strings.ToLower(strings.TrimSpace(cfg.ConvertTo))
		if !strings.HasPrefix(ct, ".") {
			ct = "." + ct
		}
		cfg.ConvertTo = ct
	}

	if cfg.ConvertTimeoutMin <= 0 {
		return fmt.Errorf("convert timeout must be positive, got %d", cfg.ConvertTimeoutMin)
	}

	if cfg.Ffmpeg.CRF < 0 || cfg.Ffmpeg.CRF > 51 {
		return fmt.Errorf("crf must be between 0 and 51, got %d", cfg.Ffmpeg.CRF)
	}

	for i := range cfg.Extensions {
		ext := strings.ToLower(strings.TrimSpace(cfg.Extensions[i]))
		if ext == "" {
			return fmt.Errorf("empty extension in extension list")
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Extensions[i] = ext
	}

	return nil
}

// wasFlagProvided checks if a CLI flag was explicitly provided
func wasFlagProvided(flagName string) bool {
	for _, a := range os.Args[1:] {
		if a == flagName || strings.HasPrefix(a, flagName+"=") {
			return true
		}
	}
	return false
}

func run() error {
	cfg := config{}

	if err := setDefaults(&cfg); err != nil {
		return fmt.Errorf("setting defaults: %w", err)
	}

	p := arg.MustParse(&args)
	if args.Rename == nil && args.Catalog == nil {
		p.Fail("a subcommand is required: rename or catalog")
	}

	if args.ConfigFile != "" {
		cfg.ConfigFile = args.ConfigFile
	}

	if err := parseConfigFile(&cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if wasFlagProvided("-v") || wasFlagProvided("--verbose") {
		cfg.Verbose = args.Verbose
	}
	if cfg.Verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	switch {
	case args.Rename != nil:
		cfg.SourceDir = args.Rename.SourceDir
		cfg.OutputDir = args.Rename.OutputDir
		cfg.DryRun = args.Rename.DryRun
		cfg.IncludeExisting = args.Rename.IncludeExisting
		cfg.ReportPath = args.Rename.Report
		if args.Rename.Pattern != "" {
			cfg.Pattern = args.Rename.Pattern
		}
		if len(args.Rename.Extensions) > 0 {
			cfg.Extensions = args.Rename.Extensions
		}
		if wasFlagProvided("--convert") {
			cfg.ConvertTo = args.Rename.ConvertTo
		}
		if wasFlagProvided("--crf") {
			cfg.Ffmpeg.CRF = args.Rename.CRF
		}
		if wasFlagProvided("--no-backup") {
			cfg.Backup = !args.Rename.NoBackup
		}
		if wasFlagProvided("--no-cache") {
			cfg.UseCache = !args.Rename.NoCache
		}

		if err := validateConfig(&cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		res, err := runRename(&cfg)
		if err != nil {
			return fmt.Errorf("organizing media: %w", err)
		}
		if cfg.ReportPath != "" {
			if err := writeReport(cfg.ReportPath, cfg.SourceDir, res); err != nil {
				return err
			}
		}
		printSummary(res, cfg.DryRun)

	case args.Catalog != nil:
		cfg.SourceDir = args.Catalog.SourceDir
		if err := validateConfig(&cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if err := runCatalog(&cfg, args.Catalog.Kind, args.Catalog.Output); err != nil {
			return fmt.Errorf("building catalog: %w", err)
		}
	}

	return nil
}

func printSummary(res Result, dryRun bool) {
	fmt.Println("==== RESULTS ====")
	if dryRun {
		fmt.Println("(dry run, no files changed)")
	}
	fmt.Printf("Processed: %d\n", res.Processed)
	fmt.Printf("Errors:    %d\n", res.Errors)
	fmt.Printf("Skipped:   %d\n", res.Skipped)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
