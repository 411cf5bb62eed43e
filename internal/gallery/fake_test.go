package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gogithub "github.com/google/go-github/v53/github"

	"github.com/joescharf/portfolio/internal/github"
)

var errNotFound = errors.New("not found")

type searchCall struct {
	Query   string
	Page    int
	PerPage int
}

// fakeSource is an in-memory Source.
type fakeSource struct {
	mu sync.Mutex

	repos      []*gogithub.Repository // search results, paged by perPage
	failPage   int                    // page that returns searchErr
	searchErr  error
	single     map[string]*gogithub.Repository
	languages  map[string]map[string]int
	langErr    map[string]error
	user       *gogithub.User
	userErr    error
	searches   []searchCall
	langCalls  map[string]int
	repoLookup []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		single:    map[string]*gogithub.Repository{},
		languages: map[string]map[string]int{},
		langErr:   map[string]error{},
		langCalls: map[string]int{},
	}
}

func (f *fakeSource) SearchRepositories(_ context.Context, query string, page, perPage int) ([]*gogithub.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, searchCall{Query: query, Page: page, PerPage: perPage})
	if f.failPage == page && f.searchErr != nil {
		return nil, f.searchErr
	}
	start := (page - 1) * perPage
	if start >= len(f.repos) {
		return nil, nil
	}
	end := min(start+perPage, len(f.repos))
	return f.repos[start:end], nil
}

func (f *fakeSource) Repository(_ context.Context, owner, name string) (*gogithub.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repoLookup = append(f.repoLookup, owner+"/"+name)
	if r, ok := f.single[name]; ok {
		return r, nil
	}
	return nil, errNotFound
}

func (f *fakeSource) Languages(_ context.Context, url string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.langCalls[url]++
	if err, ok := f.langErr[url]; ok {
		return nil, err
	}
	return f.languages[url], nil
}

func (f *fakeSource) User(_ context.Context, _ string) (*gogithub.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeSource) totalLangCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.langCalls {
		n += c
	}
	return n
}

var baseTime = time.Date(2026, 1, 14, 12, 0, 0, 0, time.UTC)

// ghRepo builds an API repository updated daysAgo days before baseTime.
func ghRepo(name string, daysAgo int, topics ...string) *gogithub.Repository {
	return &gogithub.Repository{
		Name:            gogithub.String(name),
		FullName:        gogithub.String("octo/" + name),
		HTMLURL:         gogithub.String("https://github.com/octo/" + name),
		LanguagesURL:    gogithub.String(langURL(name)),
		StargazersCount: gogithub.Int(daysAgo + 1),
		Topics:          topics,
		UpdatedAt:       &gogithub.Timestamp{Time: baseTime.AddDate(0, 0, -daysAgo)},
	}
}

func langURL(name string) string {
	return fmt.Sprintf("https://api.github.com/repos/octo/%s/languages", name)
}

func rateLimited() error {
	return fmt.Errorf("%w: 403 forbidden", github.ErrRateLimited)
}
