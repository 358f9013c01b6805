package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

type ffmpegSettings struct {
	VideoCodec   string `yaml:"video_codec"`
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf"`
	AudioCodec   string `yaml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate"`
	FastStart    bool   `yaml:"faststart"`
}

func defaultFfmpegSettings() ffmpegSettings {
	return ffmpegSettings{
		VideoCodec:   "libx264",
		Preset:       "medium",
		CRF:          28,
		AudioCodec:   "aac",
		AudioBitrate: "128k",
		FastStart:    true,
	}
}

// Target extensions ffmpeg is asked to produce, per media kind.
var conversionTargets = map[MediaKind]map[string]bool{
	KindPhoto: {".jpg": true, ".png": true, ".webp": true, ".bmp": true},
	KindAudio: {".mp3": true, ".flac": true, ".wav": true, ".ogg": true},
	KindVideo: {".mp4": true, ".webm": true, ".avi": true},
}

func conversionSupported(kind MediaKind, targetExt string) bool {
	return conversionTargets[kind][normalizeExt(targetExt)]
}

func checkTool(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	return nil
}

// convertFile shells out to ffmpeg. The context carries the per-file
// deadline; on expiry the process is killed and the error says so.
func convertFile(ctx context.Context, src, dst string, kind MediaKind, settings ffmpegSettings) error {
	args := []string{"-i", src, "-y"}
	switch kind {
	case KindVideo:
		args = append(args,
			"-c:v", settings.VideoCodec,
			"-preset", settings.Preset,
			"-crf", strconv.Itoa(settings.CRF),
			"-c:a", settings.AudioCodec,
			"-b:a", settings.AudioBitrate,
		)
		if settings.FastStart {
			args = append(args, "-movflags", "+faststart")
		}
	case KindAudio:
		args = append(args, "-b:a", settings.AudioBitrate)
	}
	args = append(args, dst)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("conversion timed out: %s", src)
	}
	if err != nil {
		return fmt.Errorf("ffmpeg failed for %s: %w: %s", src, err, lastLine(stderr.String()))
	}
	return nil
}

func lastLine(s string) string {
	var line string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				line = s[start:i]
			}
			start = i + 1
		}
	}
	if start < len(s) {
		line = s[start:]
	}
	return line
}
