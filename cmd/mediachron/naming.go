package main

import (
	"fmt"
	"regexp"
	"time"
)

// Built-in naming patterns. The config may also supply any literal
// template using the same token vocabulary.
var namingPatterns = map[string]string{
	"date_sequence":          "{date}_{seq}",
	"date_time_sequence":     "{date}_{time}_{seq}",
	"year_month_sequence":    "{year}-{month}_{seq}",
	"category_date_sequence": "{category}_{date}_{seq}",
}

var tokenRe = regexp.MustCompile(`\{(\w+)\}`)

// renderName expands a naming pattern into a filename. Unknown tokens
// invalidate the whole pattern and the canonical {date}_{seq} form is
// used instead; the second return reports whether the fallback fired.
func renderName(pattern string, date time.Time, seq int, ext string, category string) (string, bool) {
	template, ok := namingPatterns[pattern]
	if !ok {
		template = pattern
	}

	valid := true
	name := tokenRe.ReplaceAllStringFunc(template, func(tok string) string {
		switch tok {
		case "{date}":
			return date.Format("20060102")
		case "{time}":
			return date.Format("150405")
		case "{year}":
			return date.Format("2006")
		case "{month}":
			return date.Format("01")
		case "{day}":
			return date.Format("02")
		case "{seq}":
			return fmt.Sprintf("%03d", seq)
		case "{category}":
			return category
		}
		valid = false
		return tok
	})
	if !valid {
		name = fmt.Sprintf("%s_%03d", date.Format("20060102"), seq)
	}
	return name + normalizeExt(ext), !valid
}
