package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type CatalogEntry struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Year     int    `json:"year"`
	Category string `json:"category"`

	Camera string `json:"camera,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`

	Duration          float64 `json:"duration,omitempty"`
	DurationFormatted string  `json:"duration_formatted,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	Resolution        string  `json:"resolution,omitempty"`
	FPS               float64 `json:"fps,omitempty"`
	BitRate           int64   `json:"bitrate,omitempty"`
	VideoCodec        string  `json:"video_codec,omitempty"`
	AudioCodec        string  `json:"audio_codec,omitempty"`
	Format            string  `json:"format,omitempty"`

	FileSize          int64  `json:"file_size"`
	FileSizeFormatted string `json:"file_size_formatted"`
}

type catalogDateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Catalog struct {
	Generated              string           `json:"generated"`
	Kind                   string           `json:"kind"`
	TotalFiles             int              `json:"total_files"`
	TotalSize              int64            `json:"total_size"`
	TotalSizeFormatted     string           `json:"total_size_formatted"`
	TotalDuration          float64          `json:"total_duration,omitempty"`
	TotalDurationFormatted string           `json:"total_duration_formatted,omitempty"`
	DateRange              catalogDateRange `json:"date_range"`
	Categories             map[string]int   `json:"categories"`
	Entries                []CatalogEntry   `json:"entries"`
}

type CameraRule struct {
	Prefix string `yaml:"prefix"`
	Camera string `yaml:"camera"`
}

type catalogConfig struct {
	DefaultArtist string       `yaml:"default_artist"`
	CameraRules   []CameraRule `yaml:"camera_rules"`
}

var defaultCameraRules = []CameraRule{
	{Prefix: "2025", Camera: "Google Pixel"},
	{Prefix: "2024", Camera: "Google Pixel"},
	{Prefix: "20250116", Camera: "HP Photosmart"},
}

var catalogExts = map[string]map[string]bool{
	"photo":   {".jpg": true, ".jpeg": true, ".png": true},
	"drawing": {".webp": true},
	"song":    {".mp3": true, ".flac": true, ".m4a": true, ".wav": true, ".ogg": true, ".aac": true},
	"video":   {".mp4": true},
}

var canonicalParseRe = regexp.MustCompile(`^(\d{8})_(\d{3})\.([0-9a-z]+)$`)

// entryDate recovers a date from a canonical filename, falling back to
// the file's mod time.
func entryDate(path, name string) time.Time {
	if m := canonicalParseRe.FindStringSubmatch(strings.ToLower(name)); m != nil {
		if t, err := time.Parse("20060102", m[1]); err == nil {
			return t
		}
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Now()
}

func photoCategory(year int) string {
	switch {
	case year <= 2009:
		return "Archive"
	case year <= 2023:
		return "Recent"
	case year == 2024:
		return "Current"
	default:
		return "Latest"
	}
}

func drawingCategory(year int) string {
	switch {
	case year <= 2022:
		return "Archive"
	case year == 2023:
		return "Vintage"
	case year == 2024:
		return "Recent"
	default:
		return "Latest"
	}
}

func formatDuration(seconds float64) string {
	s := int(seconds)
	switch {
	case s < 60:
		return fmt.Sprintf("%ds", s)
	case s < 3600:
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	default:
		return fmt.Sprintf("%dh %dm", s/3600, (s%3600)/60)
	}
}

// cameraFor attributes a camera to a photo: EXIF when present, then the
// configured prefix rules, then a generic fallback keyed on category.
func cameraFor(path, name, category string, rules []CameraRule) string {
	if camMake, camModel := exifCamera(path); camMake != "" || camModel != "" {
		return strings.TrimSpace(camMake + " " + camModel)
	}
	// Longer prefixes win so specific dates override year-wide rules.
	best := ""
	camera := ""
	for _, r := range rules {
		if strings.HasPrefix(name, r.Prefix) && len(r.Prefix) > len(best) {
			best = r.Prefix
			camera = r.Camera
		}
	}
	if camera != "" {
		return camera
	}
	if category == "Archive" {
		return "Sony DSC"
	}
	return "Digital Camera"
}

func runCatalog(cfg *config, kind, outputPath string) error {
	exts, ok := catalogExts[kind]
	if !ok {
		return fmt.Errorf("unknown catalog kind: %s", kind)
	}
	if kind == "video" {
		if err := checkTool("ffprobe"); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(cfg.SourceDir)
	if err != nil {
		return fmt.Errorf("reading source directory: %w", err)
	}

	cameraRules := cfg.Catalog.CameraRules
	if cameraRules == nil {
		cameraRules = defaultCameraRules
	}
	artist := cfg.Catalog.DefaultArtist
	if artist == "" {
		artist = "EXTANTRA"
	}

	cat := Catalog{
		Generated:  time.Now().Format(time.RFC3339),
		Kind:       kind,
		Categories: map[string]int{},
		Entries:    []CatalogEntry{},
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if exts[normalizeExt(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var minDate, maxDate time.Time
	for _, name := range names {
		path := filepath.Join(cfg.SourceDir, name)
		info, err := os.Stat(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("stat failed, skipping")
			continue
		}
		// One counter drives both the ID and the title number, so a
		// skipped file cannot leave a gap between them.
		idx := len(cat.Entries) + 1
		date := entryDate(path, name)
		entry := CatalogEntry{
			ID:                idx,
			Filename:          name,
			Date:              date.Format("2006-01-02"),
			Year:              date.Year(),
			FileSize:          info.Size(),
			FileSizeFormatted: humanize.IBytes(uint64(info.Size())),
		}

		switch kind {
		case "photo":
			entry.Category = photoCategory(entry.Year)
			word := "Photo"
			if entry.Category == "Archive" {
				word = "Vintage"
			}
			entry.Title = fmt.Sprintf("%s %d #%03d", word, entry.Year, idx)
			entry.Camera = cameraFor(path, name, entry.Category, cameraRules)
		case "drawing":
			entry.Category = drawingCategory(entry.Year)
			entry.Title = fmt.Sprintf("Drawing %s #%03d", entry.Date, idx)
		case "song":
			entry.Category = "Music"
			entry.Artist = artist
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			entry.Title = stem
			if tagArtist, album, title, ok := audioTags(path); ok {
				if title != "" {
					entry.Title = title
				}
				if tagArtist != "" {
					entry.Artist = tagArtist
				}
				entry.Album = album
			}
		case "video":
			entry.Category = "Video"
			vinfo, err := probeVideo(context.Background(), path)
			if err != nil {
				logger.Warn().Err(err).Str("file", name).Msg("probe failed, cataloging without stream details")
			} else {
				entry.Duration = vinfo.Duration
				entry.DurationFormatted = formatDuration(vinfo.Duration)
				entry.Width = vinfo.Width
				entry.Height = vinfo.Height
				if vinfo.Width > 0 {
					entry.Resolution = fmt.Sprintf("%dx%d", vinfo.Width, vinfo.Height)
				}
				entry.FPS = vinfo.FPS
				entry.BitRate = vinfo.BitRate
				entry.VideoCodec = vinfo.VideoCodec
				entry.AudioCodec = vinfo.AudioCodec
				entry.Format = vinfo.Format
			}
			entry.Title = fmt.Sprintf("Video %02d - %s - %s - %d",
				idx, entry.DurationFormatted, entry.Resolution, entry.Year)
		}

		cat.Entries = append(cat.Entries, entry)
		cat.Categories[entry.Category]++
		cat.TotalSize += info.Size()
		cat.TotalDuration += entry.Duration
		if minDate.IsZero() || date.Before(minDate) {
			minDate = date
		}
		if date.After(maxDate) {
			maxDate = date
		}
	}

	cat.TotalFiles = len(cat.Entries)
	cat.TotalSizeFormatted = humanize.IBytes(uint64(cat.TotalSize))
	if cat.TotalDuration > 0 {
		cat.TotalDurationFormatted = formatDuration(cat.TotalDuration)
	}
	if !minDate.IsZero() {
		cat.DateRange = catalogDateRange{
			Start: minDate.Format("2006-01-02"),
			End:   maxDate.Format("2006-01-02"),
		}
	}

	if outputPath == "" {
		outputPath = fmt.Sprintf("%ss-database.json", kind)
	}
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	logger.Info().Int("files", cat.TotalFiles).Str("output", outputPath).Msg("catalog written")
	return nil
}
