package gallery

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/joescharf/portfolio/internal/github"
)

const (
	// MaxLanguages caps the language badges per repository.
	MaxLanguages = 5

	// DefaultLanguageCacheSize bounds the memoised language lookups.
	DefaultLanguageCacheSize = 128
)

// LanguageSource fetches a language breakdown (bytes per language) by URL.
type LanguageSource interface {
	Languages(ctx context.Context, languagesURL string) (map[string]int, error)
}

// Enricher resolves per-repository language lists. Results are memoised by
// URL in a bounded LRU. A rate-limit answer latches lookups off until Reset.
type Enricher struct {
	src      LanguageSource
	cache    *lru.Cache[string, []string]
	disabled atomic.Bool
	logger   *slog.Logger
}

// NewEnricher creates an Enricher. A non-positive size uses DefaultLanguageCacheSize.
func NewEnricher(src LanguageSource, size int, logger *slog.Logger) *Enricher {
	if size <= 0 {
		size = DefaultLanguageCacheSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	cache, _ := lru.New[string, []string](size)
	return &Enricher{src: src, cache: cache, logger: logger}
}

// Languages returns up to MaxLanguages names ordered by descending byte count.
// Failures and disabled lookups yield an empty list; nothing is retried.
func (e *Enricher) Languages(ctx context.Context, languagesURL string) []string {
	if languagesURL == "" {
		return []string{}
	}
	if cached, ok := e.cache.Get(languagesURL); ok {
		return slices.Clone(cached)
	}
	if e.disabled.Load() {
		return []string{}
	}

	breakdown, err := e.src.Languages(ctx, languagesURL)
	if err != nil {
		if errors.Is(err, github.ErrRateLimited) {
			if e.disabled.CompareAndSwap(false, true) {
				e.logger.Warn("language lookups disabled after rate limit", "url", languagesURL)
			}
			return []string{}
		}
		e.logger.Warn("language lookup failed", "url", languagesURL, "error", err)
		return []string{}
	}

	langs := TopLanguages(breakdown, MaxLanguages)
	e.cache.Add(languagesURL, langs)
	return slices.Clone(langs)
}

// Disabled reports whether a rate limit has switched lookups off.
func (e *Enricher) Disabled() bool {
	return e.disabled.Load()
}

// Reset empties the cache and clears the rate-limit latch.
func (e *Enricher) Reset() {
	e.cache.Purge()
	e.disabled.Store(false)
}

// Len returns the number of memoised URLs.
func (e *Enricher) Len() int {
	return e.cache.Len()
}

// TopLanguages orders a breakdown by descending byte count (ties by name)
// and keeps the first n names.
func TopLanguages(breakdown map[string]int, n int) []string {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(breakdown[b], breakdown[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
