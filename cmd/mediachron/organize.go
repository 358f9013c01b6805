package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// FileDetail records one file's outcome for the run report.
type FileDetail struct {
	Original  string `json:"original"`
	New       string `json:"new"`
	Date      string `json:"date"`
	Category  string `json:"category"`
	Converted bool   `json:"converted"`
}

// Result summarizes a rename run.
type Result struct {
	Processed int
	Errors    int
	Skipped   int
	Details   []FileDetail
}

// Filenames already in canonical form are left alone unless the run asks
// for them explicitly.
var canonicalNameRe = regexp.MustCompile(`^\d{8}_\d{3}\.[0-9a-z]+$`)

func discoverFiles(cfg *config) ([]datedFile, error) {
	entries, err := os.ReadDir(cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory: %w", err)
	}

	allowed := map[string]bool{}
	for _, ext := range cfg.Extensions {
		allowed[normalizeExt(ext)] = true
	}

	var files []datedFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		ext := normalizeExt(filepath.Ext(name))
		if len(allowed) > 0 {
			if !allowed[ext] {
				continue
			}
		} else if !supportedExt(ext) {
			continue
		}
		if cfg.SkipExisting && !cfg.IncludeExisting && canonicalNameRe.MatchString(strings.ToLower(name)) {
			logger.Debug().Str("file", name).Msg("already organized, skipping")
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("stat failed, skipping")
			continue
		}
		files = append(files, datedFile{
			path: filepath.Join(cfg.SourceDir, name),
			name: name,
			kind: kindForExt(ext),
			size: info.Size(),
		})
	}
	return files, nil
}

func runRename(cfg *config) (Result, error) {
	var res Result

	info, err := os.Stat(cfg.SourceDir)
	if err != nil {
		return res, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return res, fmt.Errorf("source is not a directory: %s", cfg.SourceDir)
	}
	if cfg.ConvertTo != "" {
		if err := checkTool("ffmpeg"); err != nil {
			return res, err
		}
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = cfg.SourceDir
	} else if !cfg.DryRun {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return res, fmt.Errorf("creating output directory: %w", err)
		}
	}

	matcher, err := newDateMatcher(cfg.PlaceholderRules)
	if err != nil {
		return res, fmt.Errorf("placeholder rules: %w", err)
	}

	var cache *resolveCache
	if cfg.UseCache && !cfg.DryRun {
		cache, err = openResolveCache(cfg.SourceDir)
		if err != nil {
			logger.Warn().Err(err).Msg("date cache unavailable, continuing without it")
			cache = nil
		} else {
			defer cache.Close()
		}
	}
	resolver := newDateResolver(matcher, cache)

	files, err := discoverFiles(cfg)
	if err != nil {
		return res, err
	}
	if len(files) == 0 {
		logger.Info().Str("dir", cfg.SourceDir).Msg("no files to organize")
		return res, nil
	}

	for i := range files {
		files[i].date, files[i].source = resolver.Resolve(files[i].path, files[i].name, files[i].kind)
	}
	assignSequences(files)

	convertExt := normalizeExt(cfg.ConvertTo)
	timeout := time.Duration(cfg.ConvertTimeoutMin) * time.Minute

	claimed := map[string]bool{}
	for _, f := range files {
		targetExt := filepath.Ext(f.name)
		converting := false
		if convertExt != "" && normalizeExt(targetExt) != convertExt {
			targetExt = convertExt
			converting = conversionSupported(f.kind, convertExt)
		}

		newName, fellBack := renderName(cfg.Pattern, f.date, f.seq, targetExt, string(f.kind))
		if fellBack {
			logger.Warn().Str("pattern", cfg.Pattern).Msg("unknown naming token, using default pattern")
		}
		targetPath := filepath.Join(outputDir, newName)

		if targetPath == f.path {
			res.Processed++
			continue
		}

		if claimed[targetPath] || targetExists(targetPath, f.path) {
			if dup, err := sameContent(f.path, targetPath); err == nil && dup {
				logger.Info().Str("file", f.name).Str("target", newName).Msg("duplicate of existing file, skipping")
			} else {
				logger.Warn().Str("file", f.name).Str("target", newName).Msg("target name taken, skipping")
			}
			if !cfg.DryRun {
				res.Skipped++
				continue
			}
		}
		claimed[targetPath] = true

		detail := FileDetail{
			Original:  f.name,
			New:       newName,
			Date:      f.date.Format("2006-01-02"),
			Category:  string(f.kind),
			Converted: converting,
		}

		if cfg.DryRun {
			logger.Info().Str("file", f.name).Str("target", newName).Msg("would rename")
			res.Processed++
			res.Details = append(res.Details, detail)
			continue
		}

		if cfg.Backup {
			if err := backupOriginal(cfg.SourceDir, f.path, f.name); err != nil {
				logger.Error().Err(err).Str("file", f.name).Msg("backup failed")
				res.Errors++
				continue
			}
		}

		if err := applyFile(f, targetPath, converting, timeout, cfg.Ffmpeg); err != nil {
			logger.Error().Err(err).Str("file", f.name).Msg("organize failed")
			res.Errors++
			continue
		}

		logger.Info().Str("file", f.name).Str("target", newName).Msg("organized")
		res.Processed++
		res.Details = append(res.Details, detail)
	}
	return res, nil
}

// applyFile moves one file to its target: a real conversion when ffmpeg
// supports the pair, a plain copy when the extension changes without
// conversion support, and a rename otherwise.
func applyFile(f datedFile, targetPath string, converting bool, timeout time.Duration, settings ffmpegSettings) error {
	switch {
	case converting:
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := convertFile(ctx, f.path, targetPath, f.kind, settings); err != nil {
			os.Remove(targetPath)
			return err
		}
		if err := os.Remove(f.path); err != nil {
			return fmt.Errorf("removing original after conversion: %w", err)
		}
	case normalizeExt(filepath.Ext(targetPath)) != normalizeExt(filepath.Ext(f.path)):
		if err := copyFile(f.path, targetPath); err != nil {
			return err
		}
	default:
		if err := os.Rename(f.path, targetPath); err != nil {
			// Cross-device moves fall back to copy and remove.
			if err := copyFile(f.path, targetPath); err != nil {
				return err
			}
			if err := os.Remove(f.path); err != nil {
				return fmt.Errorf("removing original after copy: %w", err)
			}
		}
	}
	return nil
}

func targetExists(target, source string) bool {
	if target == source {
		return false
	}
	_, err := os.Stat(target)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dst, err)
	}
	if info, err := os.Stat(src); err == nil {
		os.Chtimes(dst, info.ModTime(), info.ModTime())
	}
	return nil
}

// backupOriginal copies the file into an original_backup directory under
// the source, suffixing the name when a previous backup already holds it.
func backupOriginal(sourceDir, path, name string) error {
	backupDir := filepath.Join(sourceDir, "original_backup")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}
	dst := filepath.Join(backupDir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(dst); os.IsNotExist(err) {
			break
		}
		dst = filepath.Join(backupDir, fmt.Sprintf("%s_%d%s", stem, i, ext))
	}
	return copyFile(path, dst)
}

// sameContent reports whether two files hold identical bytes, comparing
// sizes before hashing.
func sameContent(a, b string) (bool, error) {
	ia, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if ia.Size() != ib.Size() {
		return false, nil
	}
	ha, err := xxhashFile(a)
	if err != nil {
		return false, err
	}
	hb, err := xxhashFile(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

func xxhashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
