package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// datePattern pairs a filename regexp with a parser for its submatches.
// Patterns are tried in order; the first successful parse wins, so the
// order of the table encodes priority.
type datePattern struct {
	re    *regexp.Regexp
	parse func(m []string) (time.Time, bool)
	desc  string
}

// PlaceholderRule assigns a fixed date to filenames matching a prefix
// pattern that carries no real timestamp (camera counter names like
// DSC00887). The defaults approximate one camera history and are meant to
// be overridden from the config file.
type PlaceholderRule struct {
	Pattern string `yaml:"pattern"`
	Date    string `yaml:"date"`
}

var defaultPlaceholderRules = []PlaceholderRule{
	{Pattern: `^DSC\d+`, Date: "2024-01-01"},
	{Pattern: `^HPIM\d+`, Date: "2020-01-01"},
	{Pattern: `^IMG_\d+`, Date: "2023-06-01"},
	{Pattern: `^VID\d+`, Date: "2020-01-01"},
	{Pattern: `^MOV\d+`, Date: "2021-01-01"},
	{Pattern: `^\d+$`, Date: "2022-01-01"},
}

func parseCompact(date, clock string) (time.Time, bool) {
	t, err := time.Parse("20060102150405", date+clock)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseDateOnly(yyyymmdd string) (time.Time, bool) {
	t, err := time.Parse("20060102", yyyymmdd)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var basePatterns = []datePattern{
	{
		re:    regexp.MustCompile(`PXL_(\d{8})_(\d{6})`),
		parse: func(m []string) (time.Time, bool) { return parseCompact(m[1], m[2]) },
		desc:  "Pixel camera burst",
	},
	{
		re:    regexp.MustCompile(`IMG_(\d{8})_(\d{6})`),
		parse: func(m []string) (time.Time, bool) { return parseCompact(m[1], m[2]) },
		desc:  "IMG timestamp",
	},
	{
		re: regexp.MustCompile(`Screenshot (\d{4})-(\d{2})-(\d{2}) at (\d{2})\.(\d{2})\.(\d{2})`),
		parse: func(m []string) (time.Time, bool) {
			return parseCompact(m[1]+m[2]+m[3], m[4]+m[5]+m[6])
		},
		desc: "screenshot",
	},
	{
		re:    regexp.MustCompile(`(\d{8})_(\d{6})`),
		parse: func(m []string) (time.Time, bool) { return parseCompact(m[1], m[2]) },
		desc:  "bare timestamp",
	},
	{
		re: regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})_(\d{2})-(\d{2})-(\d{2})`),
		parse: func(m []string) (time.Time, bool) {
			return parseCompact(m[1]+m[2]+m[3], m[4]+m[5]+m[6])
		},
		desc: "dashed timestamp",
	},
	{
		re:    regexp.MustCompile(`(\d{8})_(\d{3})`),
		parse: func(m []string) (time.Time, bool) { return parseDateOnly(m[1]) },
		desc:  "canonical renamed form",
	},
	{
		re:    regexp.MustCompile(`(\d{8})`),
		parse: func(m []string) (time.Time, bool) { return parseDateOnly(m[1]) },
		desc:  "compact date",
	},
	{
		re: regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`),
		parse: func(m []string) (time.Time, bool) {
			return parseDateOnly(m[1] + m[2] + m[3])
		},
		desc: "ISO date",
	},
}

// dateMatcher extracts a date from a filename by trying an ordered pattern
// table: specific timestamp forms first, bare date runs next, placeholder
// prefix heuristics last.
type dateMatcher struct {
	patterns     []datePattern
	placeholders []datePattern
}

func newDateMatcher(rules []PlaceholderRule) (*dateMatcher, error) {
	if rules == nil {
		rules = defaultPlaceholderRules
	}
	m := &dateMatcher{patterns: basePatterns}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid placeholder pattern %q: %w", r.Pattern, err)
		}
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid placeholder date %q: %w", r.Date, err)
		}
		fixed := d
		m.placeholders = append(m.placeholders, datePattern{
			re:    re,
			parse: func([]string) (time.Time, bool) { return fixed, true },
			desc:  "placeholder " + r.Pattern,
		})
	}
	return m, nil
}

// Match returns the first date the pattern table yields for filename.
// A regexp hit whose numbers fail to parse as a real date (month 13 and
// the like) counts as a non-match and the search continues.
func (m *dateMatcher) Match(filename string) (time.Time, bool) {
	for _, p := range m.patterns {
		if sub := p.re.FindStringSubmatch(filename); sub != nil {
			if t, ok := p.parse(sub); ok {
				return t, true
			}
		}
	}
	// Placeholder rules look at the stem so a numeric-only name like
	// 303.jpg still qualifies as pure-numeric.
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	for _, p := range m.placeholders {
		if sub := p.re.FindStringSubmatch(stem); sub != nil {
			if t, ok := p.parse(sub); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
