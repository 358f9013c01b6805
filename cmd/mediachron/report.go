package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type runSummary struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
	Skipped   int `json:"skipped"`
}

type runReport struct {
	Timestamp string       `json:"timestamp"`
	Directory string       `json:"directory"`
	Summary   runSummary   `json:"summary"`
	Files     []FileDetail `json:"files"`
}

func writeReport(path, dir string, res Result) error {
	report := runReport{
		Timestamp: time.Now().Format(time.RFC3339),
		Directory: dir,
		Summary: runSummary{
			Processed: res.Processed,
			Errors:    res.Errors,
			Skipped:   res.Skipped,
		},
		Files: res.Details,
	}
	if report.Files == nil {
		report.Files = []FileDetail{}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
