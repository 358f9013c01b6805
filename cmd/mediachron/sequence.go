package main

import (
	"sort"
	"time"
)

type datedFile struct {
	path   string
	name   string
	kind   MediaKind
	date   time.Time
	source DateSource
	size   int64
	seq    int
}

// assignSequences orders files chronologically and numbers them within
// their calendar day, starting at 1 each day. The sort is stable, so
// files sharing a resolved timestamp keep their discovery order.
func assignSequences(files []datedFile) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].date.Before(files[j].date)
	})
	var day string
	seq := 0
	for i := range files {
		bucket := files[i].date.Format("20060102")
		if bucket != day {
			day = bucket
			seq = 0
		}
		seq++
		files[i].seq = seq
	}
}
