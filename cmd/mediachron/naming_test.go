package main

import (
	"testing"
	"time"
)

// TestRenderName covers the built-in patterns, literal templates and the
// unknown-token fallback.
func TestRenderName(t *testing.T) {
	date := time.Date(2024, 1, 25, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		pattern  string
		ext      string
		category string
		want     string
		fallback bool
	}{
		{"date sequence", "date_sequence", ".jpg", "photo", "20240125_001.jpg", false},
		{"date time sequence", "date_time_sequence", ".jpg", "photo", "20240125_183000_001.jpg", false},
		{"year month sequence", "year_month_sequence", ".mp4", "video", "2024-01_001.mp4", false},
		{"category date sequence", "category_date_sequence", ".mp3", "audio", "audio_20240125_001.mp3", false},
		{"literal template", "{year}{month}{day}_{seq}", ".png", "photo", "20240125_001.png", false},
		{"unknown token", "{date}_{nonsense}", ".jpg", "photo", "20240125_001.jpg", true},
		{"jpeg normalized", "date_sequence", ".JPEG", "photo", "20240125_001.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fellBack := renderName(tt.pattern, date, 1, tt.ext, tt.category)
			if got != tt.want {
				t.Errorf("renderName = %q, want %q", got, tt.want)
			}
			if fellBack != tt.fallback {
				t.Errorf("fallback = %v, want %v", fellBack, tt.fallback)
			}
		})
	}
}

// TestRenderNameSequenceWidth checks zero padding across magnitudes.
func TestRenderNameSequenceWidth(t *testing.T) {
	date := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
	for seq, want := range map[int]string{
		1:    "20240125_001.jpg",
		42:   "20240125_042.jpg",
		999:  "20240125_999.jpg",
		1000: "20240125_1000.jpg",
	} {
		got, _ := renderName("date_sequence", date, seq, ".jpg", "photo")
		if got != want {
			t.Errorf("seq %d: got %q, want %q", seq, got, want)
		}
	}
}

// TestCanonicalNameRoundTrip checks that a generated default name resolves
// back to the same calendar day through the pattern matcher.
func TestCanonicalNameRoundTrip(t *testing.T) {
	date := time.Date(2024, 1, 25, 18, 30, 0, 0, time.UTC)
	name, _ := renderName("date_sequence", date, 1, ".jpg", "photo")

	m := mustMatcher(t, nil)
	got, ok := m.Match(name)
	if !ok {
		t.Fatalf("generated name %q did not match", name)
	}
	if got.Year() != 2024 || got.Month() != 1 || got.Day() != 25 {
		t.Errorf("round trip gave %v, want 2024-01-25", got)
	}
}
