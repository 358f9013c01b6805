package main

import (
	"testing"
	"time"
)

// TestAssignSequences checks chronological ordering and per-day numbering.
func TestAssignSequences(t *testing.T) {
	day1 := time.Date(2024, 1, 25, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 1, 26, 8, 0, 0, 0, time.UTC)

	files := []datedFile{
		{name: "c.jpg", date: day2},
		{name: "a.jpg", date: day1.Add(2 * time.Hour)},
		{name: "b.jpg", date: day1},
		{name: "d.jpg", date: day2.Add(time.Minute)},
	}
	assignSequences(files)

	wantOrder := []string{"b.jpg", "a.jpg", "c.jpg", "d.jpg"}
	wantSeq := []int{1, 2, 1, 2}
	for i := range files {
		if files[i].name != wantOrder[i] {
			t.Errorf("position %d: got %s, want %s", i, files[i].name, wantOrder[i])
		}
		if files[i].seq != wantSeq[i] {
			t.Errorf("%s: seq = %d, want %d", files[i].name, files[i].seq, wantSeq[i])
		}
	}
}

// TestAssignSequencesTieStability checks that files sharing a resolved
// timestamp keep their discovery order.
func TestAssignSequencesTieStability(t *testing.T) {
	noon := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	files := []datedFile{
		{name: "first.jpg", date: noon},
		{name: "second.jpg", date: noon},
		{name: "third.jpg", date: noon},
	}
	assignSequences(files)

	for i, want := range []string{"first.jpg", "second.jpg", "third.jpg"} {
		if files[i].name != want {
			t.Errorf("position %d: got %s, want %s", i, files[i].name, want)
		}
		if files[i].seq != i+1 {
			t.Errorf("%s: seq = %d, want %d", files[i].name, files[i].seq, i+1)
		}
	}
}

// TestAssignSequencesContiguous checks that numbers within a day always
// run 1..N without gaps.
func TestAssignSequencesContiguous(t *testing.T) {
	base := time.Date(2022, 3, 3, 0, 0, 0, 0, time.UTC)
	var files []datedFile
	for i := 0; i < 10; i++ {
		files = append(files, datedFile{date: base.Add(time.Duration(i) * time.Minute)})
	}
	assignSequences(files)
	for i := range files {
		if files[i].seq != i+1 {
			t.Errorf("seq[%d] = %d, want %d", i, files[i].seq, i+1)
		}
	}
}
