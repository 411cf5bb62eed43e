package gallery

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopLanguages(t *testing.T) {
	got := TopLanguages(map[string]int{"Python": 500, "CSS": 80, "HTML": 20}, MaxLanguages)
	assert.Equal(t, []string{"Python", "CSS", "HTML"}, got)
}

func TestTopLanguages_CapsAndBreaksTies(t *testing.T) {
	got := TopLanguages(map[string]int{
		"Go": 900, "Shell": 10, "Python": 500, "Makefile": 10, "Dockerfile": 10, "HCL": 300, "Lua": 1,
	}, MaxLanguages)
	assert.Equal(t, []string{"Go", "Python", "HCL", "Dockerfile", "Makefile"}, got)
	assert.Empty(t, TopLanguages(nil, MaxLanguages))
}

func TestEnricher_Memoises(t *testing.T) {
	src := newFakeSource()
	url := langURL("alpha")
	src.languages[url] = map[string]int{"Go": 10}

	e := NewEnricher(src, 8, nil)
	ctx := context.Background()

	assert.Equal(t, []string{"Go"}, e.Languages(ctx, url))
	assert.Equal(t, []string{"Go"}, e.Languages(ctx, url))
	assert.Equal(t, 1, src.langCalls[url])
	assert.Equal(t, 1, e.Len())
}

func TestEnricher_CachedSliceIsolated(t *testing.T) {
	src := newFakeSource()
	url := langURL("alpha")
	src.languages[url] = map[string]int{"Go": 10, "C": 5}

	e := NewEnricher(src, 8, nil)
	first := e.Languages(context.Background(), url)
	first[0] = "mutated"

	assert.Equal(t, []string{"Go", "C"}, e.Languages(context.Background(), url))
}

func TestEnricher_EmptyURL(t *testing.T) {
	src := newFakeSource()
	e := NewEnricher(src, 8, nil)

	got := e.Languages(context.Background(), "")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, src.totalLangCalls())
}

func TestEnricher_RateLimitLatches(t *testing.T) {
	src := newFakeSource()
	limited, other := langURL("limited"), langURL("other")
	src.langErr[limited] = rateLimited()
	src.languages[other] = map[string]int{"Go": 1}

	e := NewEnricher(src, 8, nil)
	ctx := context.Background()

	assert.Empty(t, e.Languages(ctx, limited))
	assert.True(t, e.Disabled())

	assert.Empty(t, e.Languages(ctx, other))
	assert.Equal(t, 1, src.totalLangCalls(), "no requests after the latch trips")

	e.Reset()
	assert.False(t, e.Disabled())
	assert.Equal(t, []string{"Go"}, e.Languages(ctx, other))
}

func TestEnricher_FailuresNotCached(t *testing.T) {
	src := newFakeSource()
	url := langURL("flaky")
	src.langErr[url] = errors.New("connection reset")

	e := NewEnricher(src, 8, nil)
	ctx := context.Background()

	assert.Empty(t, e.Languages(ctx, url))
	assert.False(t, e.Disabled())
	assert.Zero(t, e.Len())

	delete(src.langErr, url)
	src.languages[url] = map[string]int{"Rust": 3}
	assert.Equal(t, []string{"Rust"}, e.Languages(ctx, url))
}

func TestEnricher_Bounded(t *testing.T) {
	src := newFakeSource()
	e := NewEnricher(src, 2, nil)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		src.languages[langURL(name)] = map[string]int{"Go": 1}
		e.Languages(ctx, langURL(name))
	}
	assert.Equal(t, 2, e.Len())
}

func TestEnricher_Concurrent(t *testing.T) {
	src := newFakeSource()
	url := langURL("shared")
	src.languages[url] = map[string]int{"Go": 2, "Python": 1}

	e := NewEnricher(src, 8, nil)

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = e.Languages(context.Background(), url)
		}()
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, []string{"Go", "Python"}, got)
	}
}
