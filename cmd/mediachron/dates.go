package main

import (
	"os"
	"time"
)

// DateSource identifies which stage of the resolution cascade produced a
// date. Diagnostic only; ordered by descending trust.
type DateSource int

const (
	SourceEmbeddedTag DateSource = iota
	SourceFilenamePattern
	SourceModTime
	SourceCreateTime
	SourceNow
	SourceCached
)

func (s DateSource) String() string {
	switch s {
	case SourceEmbeddedTag:
		return "embedded-tag"
	case SourceFilenamePattern:
		return "filename-pattern"
	case SourceModTime:
		return "mod-time"
	case SourceCreateTime:
		return "create-time"
	case SourceNow:
		return "now"
	case SourceCached:
		return "cached"
	}
	return "unknown"
}

func dateSourceFromString(s string) DateSource {
	for _, src := range []DateSource{SourceEmbeddedTag, SourceFilenamePattern,
		SourceModTime, SourceCreateTime, SourceNow, SourceCached} {
		if src.String() == s {
			return src
		}
	}
	return SourceNow
}

type dateStrategy struct {
	source DateSource
	probe  func(path, name string, kind MediaKind) (time.Time, bool)
}

// dateResolver assigns a best-effort date to every file. Each stage
// swallows its own failures; the final stage cannot fail, so Resolve
// always returns a usable timestamp.
type dateResolver struct {
	strategies []dateStrategy
	cache      *resolveCache
	now        func() time.Time
}

func newDateResolver(matcher *dateMatcher, cache *resolveCache) *dateResolver {
	r := &dateResolver{cache: cache, now: time.Now}
	r.strategies = []dateStrategy{
		{SourceEmbeddedTag, func(path, name string, kind MediaKind) (time.Time, bool) {
			switch kind {
			case KindPhoto:
				return exifDate(path)
			case KindAudio:
				return audioTagDate(path)
			case KindVideo:
				return mp4CreationDate(path)
			}
			return time.Time{}, false
		}},
		{SourceFilenamePattern, func(path, name string, kind MediaKind) (time.Time, bool) {
			return matcher.Match(name)
		}},
		{SourceModTime, func(path, name string, kind MediaKind) (time.Time, bool) {
			info, err := os.Stat(path)
			if err != nil {
				return time.Time{}, false
			}
			return info.ModTime(), true
		}},
	}
	return r
}

// Resolve runs the cascade for one file. The cache, when present, is keyed
// by path plus size and mod time, so an edited file is resolved afresh.
func (r *dateResolver) Resolve(path, name string, kind MediaKind) (time.Time, DateSource) {
	var info os.FileInfo
	if r.cache != nil {
		var err error
		if info, err = os.Stat(path); err == nil {
			if t, src, ok := r.cache.Get(path, info.Size(), info.ModTime()); ok {
				logger.Debug().Str("file", name).Time("date", t).
					Stringer("source", src).Msg("resolved from cache")
				return t, src
			}
		}
	}

	t, src := r.resolveUncached(path, name, kind)

	if r.cache != nil && info != nil {
		r.cache.Put(path, info.Size(), info.ModTime(), t, src)
	}
	return t, src
}

func (r *dateResolver) resolveUncached(path, name string, kind MediaKind) (time.Time, DateSource) {
	for _, s := range r.strategies {
		if t, ok := s.probe(path, name, kind); ok {
			logger.Debug().Str("file", name).Time("date", t).
				Stringer("source", s.source).Msg("resolved date")
			return t, s.source
		}
	}
	t := r.now()
	logger.Debug().Str("file", name).Time("date", t).
		Stringer("source", SourceNow).Msg("resolved date")
	return t, SourceNow
}
