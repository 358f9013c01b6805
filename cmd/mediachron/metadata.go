package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	mp4 "github.com/abema/go-mp4"
	"github.com/dhowden/tag"
	"github.com/rwcarlsen/goexif/exif"
)

// Embedded-metadata readers. All of them are best-effort: any open,
// decode, or parse failure yields ok=false and the caller falls through to
// the next date source.

func exifDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}

	t, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// exifCamera reads camera make and model for catalog attribution.
func exifCamera(path string) (string, string) {
	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return "", ""
	}

	var makeStr, modelStr string
	if v, err := x.Get(exif.Make); err == nil {
		makeStr, _ = v.StringVal()
	}
	if v, err := x.Get(exif.Model); err == nil {
		modelStr, _ = v.StringVal()
	}
	return strings.TrimSpace(makeStr), strings.TrimSpace(modelStr)
}

// audioDateFields is the field order tried against a tag block before
// falling back to the plain year frame.
var audioDateFields = []string{"date", "TDRC", "TYER", "recording_date"}

var audioDateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02", "2006"}

func audioTagDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	md, err := tag.ReadFrom(f)
	if err != nil {
		return time.Time{}, false
	}

	raw := md.Raw()
	for _, field := range audioDateFields {
		v, ok := raw[field]
		if !ok {
			continue
		}
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		for _, layout := range audioDateLayouts {
			if len(s) < len(layout) {
				continue
			}
			if t, err := time.Parse(layout, s[:len(layout)]); err == nil {
				return t, true
			}
		}
	}

	if y := md.Year(); y > 0 {
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// audioTags returns the descriptive fields used by the song catalog.
func audioTags(path string) (artist, album, title string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", "", false
	}
	defer f.Close()

	md, err := tag.ReadFrom(f)
	if err != nil {
		return "", "", "", false
	}
	return md.Artist(), md.Album(), md.Title(), true
}

// mp4Epoch is the ISO base-media epoch; mvhd times count seconds from it.
var mp4Epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

func mp4CreationDate(path string) (time.Time, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".m4v":
	default:
		return time.Time{}, false
	}

	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	boxes, err := mp4.ExtractBoxWithPayload(f, nil,
		mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil || len(boxes) == 0 {
		return time.Time{}, false
	}

	mvhd, ok := boxes[0].Payload.(*mp4.Mvhd)
	if !ok {
		return time.Time{}, false
	}

	var secs uint64
	if mvhd.GetVersion() == 0 {
		secs = uint64(mvhd.CreationTimeV0)
	} else {
		secs = mvhd.CreationTimeV1
	}

	t := mp4Epoch.Add(time.Duration(secs) * time.Second)
	// Cameras that don't track time write zero, which lands in 1904.
	if t.Year() < 1971 {
		return time.Time{}, false
	}
	return t, true
}
