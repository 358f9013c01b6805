package main

import (
	"path/filepath"
	"strings"
)

// MediaKind classifies a file by its extension. The string value doubles as
// the {category} variable in naming patterns.
type MediaKind string

const (
	KindPhoto    MediaKind = "photo"
	KindAudio    MediaKind = "audio"
	KindVideo    MediaKind = "video"
	KindDocument MediaKind = "document"
	KindOther    MediaKind = "file"
)

var photoExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true,
	".tiff": true, ".webp": true, ".gif": true,
}

var audioExts = map[string]bool{
	".mp3": true, ".flac": true, ".m4a": true, ".wav": true,
	".ogg": true, ".aac": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
	".webm": true, ".flv": true,
}

var documentExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true, ".md": true,
}

// kindForExt maps a lower-cased extension (with leading dot) to a MediaKind.
func kindForExt(ext string) MediaKind {
	switch {
	case photoExts[ext]:
		return KindPhoto
	case audioExts[ext]:
		return KindAudio
	case videoExts[ext]:
		return KindVideo
	case documentExts[ext]:
		return KindDocument
	default:
		return KindOther
	}
}

func kindForFile(name string) MediaKind {
	return kindForExt(strings.ToLower(filepath.Ext(name)))
}

// supportedExt reports whether the extension belongs to the built-in
// processing set used when no explicit allow-list is given.
func supportedExt(ext string) bool {
	return photoExts[ext] || audioExts[ext] || videoExts[ext] || documentExts[ext]
}

// normalizeExt lower-cases an extension and folds .jpeg into .jpg.
func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	return ext
}
