package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v53/github"
	"golang.org/x/sync/errgroup"

	"github.com/joescharf/portfolio/internal/models"
)

const (
	maxPerPage = 100

	// DefaultMaxItems caps a repository fetch when the caller gives no limit.
	DefaultMaxItems = 60

	// DefaultWorkers bounds concurrent language lookups per page.
	DefaultWorkers = 4

	defaultBranch = "main"
	dateLayout    = "02 Jan 2006"
)

// LanguageLimitNotice is surfaced once when language lookups get rate limited.
const LanguageLimitNotice = "GitHub language metadata limit reached; continuing without per-repo language badges."

// Source is the repository-hosting API the pipeline reads from.
type Source interface {
	LanguageSource
	SearchRepositories(ctx context.Context, query string, page, perPage int) ([]*gogithub.Repository, error)
	Repository(ctx context.Context, owner, name string) (*gogithub.Repository, error)
	User(ctx context.Context, login string) (*gogithub.User, error)
}

// Config holds the curated inputs of the gallery.
type Config struct {
	Account           string
	Topic             string
	MaxItems          int
	Workers           int
	Shortlist         []string
	FeaturedTopicTags []string
	Featured          []models.Repository
	Fallbacks         []models.Repository
	LiveDemos         map[string]string
}

// Service runs the fetch, enrich, classify, resolve and summarise pipeline.
type Service struct {
	src       Source
	langs     *Enricher
	cfg       Config
	demos     LiveDemos
	fallbacks map[string]models.Repository
	logger    *slog.Logger
}

// NewService wires a Service. A nil enricher gets a default-sized one over src.
func NewService(src Source, langs *Enricher, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if langs == nil {
		langs = NewEnricher(src, DefaultLanguageCacheSize, logger)
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultMaxItems
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	fallbacks := make(map[string]models.Repository, len(cfg.Fallbacks))
	for _, repo := range cfg.Fallbacks {
		fallbacks[repo.Key()] = repo
	}

	return &Service{
		src:       src,
		langs:     langs,
		cfg:       cfg,
		demos:     NewLiveDemos(cfg.LiveDemos),
		fallbacks: fallbacks,
		logger:    logger,
	}
}

// Account returns the configured account identifier.
func (s *Service) Account() string { return s.cfg.Account }

// Topic returns the configured gallery topic.
func (s *Service) Topic() string { return s.cfg.Topic }

// MaxItems returns the configured fetch cap.
func (s *Service) MaxItems() int { return s.cfg.MaxItems }

// Enricher returns the language enricher backing the service.
func (s *Service) Enricher() *Enricher { return s.langs }

// FetchRepositories pages through the topic search until maxItems records are
// collected, a short or empty page arrives, or a request fails. Records come
// back most recently updated first. Failures never abort the caller; they are
// returned as warnings next to whatever was collected.
func (s *Service) FetchRepositories(ctx context.Context, account, topic string, maxItems int) ([]models.Repository, []string) {
	limit := max(1, maxItems)
	query := fmt.Sprintf("user:%s topic:%s", account, topic)
	wasDisabled := s.langs.Disabled()

	// The API offsets pages by (page-1)*per_page, so per_page stays fixed
	// across the walk and the final page is trimmed instead.
	perPage := min(maxPerPage, limit)
	seen := make(map[string]bool, limit)

	var repos []models.Repository
	var warnings []string
	for page := 1; len(repos) < limit; page++ {
		items, err := s.src.SearchRepositories(ctx, query, page, perPage)
		if err != nil {
			s.logger.Warn("repository search failed", "account", account, "topic", topic, "page", page, "error", err)
			warnings = append(warnings, fmt.Sprintf("GitHub API request failed: %v", err))
			break
		}
		if len(items) == 0 {
			break
		}

		full := len(items) >= perPage
		items = unseen(items, seen, limit-len(repos))
		repos = append(repos, s.enrich(ctx, items)...)
		s.logger.Debug("fetched repository page", "page", page, "items", len(items), "total", len(repos))

		if !full {
			break
		}
	}

	if !wasDisabled && s.langs.Disabled() {
		warnings = append(warnings, LanguageLimitNotice)
	}

	sortByUpdated(repos)
	if len(repos) > limit {
		repos = repos[:limit]
	}
	return repos, warnings
}

// unseen drops items already collected in this walk and keeps at most room
// of the rest.
func unseen(items []*gogithub.Repository, seen map[string]bool, room int) []*gogithub.Repository {
	var out []*gogithub.Repository
	for _, item := range items {
		if len(out) >= room {
			break
		}
		key := strings.ToLower(item.GetName())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// enrich converts one page of API results, looking up languages concurrently
// while keeping the page order.
func (s *Service) enrich(ctx context.Context, items []*gogithub.Repository) []models.Repository {
	out := make([]models.Repository, len(items))

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i, item := range items {
		g.Go(func() error {
			out[i] = toRecord(item, s.langs.Languages(ctx, item.GetLanguagesURL()))
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// ResolveShortlist reorders candidates to follow names. Each name resolves
// through, in order, a case-insensitive candidate match, a single-repository
// lookup, and the static fallback table. Names that resolve nowhere are
// returned in missing. An empty shortlist leaves candidates untouched.
func (s *Service) ResolveShortlist(ctx context.Context, account string, names []string, candidates []models.Repository) (resolved []models.Repository, missing []string) {
	if len(names) == 0 {
		return candidates, nil
	}

	byName := make(map[string]models.Repository, len(candidates))
	for _, repo := range candidates {
		if _, ok := byName[repo.Key()]; !ok {
			byName[repo.Key()] = repo
		}
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		if repo, ok := byName[key]; ok {
			resolved = append(resolved, repo)
			continue
		}
		if repo, ok := s.lookup(ctx, account, name); ok {
			resolved = append(resolved, s.demos.linkOne(repo))
			continue
		}
		if repo, ok := s.fallbacks[key]; ok {
			resolved = append(resolved, s.demos.linkOne(repo))
			continue
		}
		missing = append(missing, name)
	}

	if len(resolved) == 0 {
		return candidates, missing
	}
	return resolved, missing
}

func (s *Service) lookup(ctx context.Context, account, name string) (models.Repository, bool) {
	if account == "" || name == "" {
		return models.Repository{}, false
	}
	repo, err := s.src.Repository(ctx, account, name)
	if err != nil {
		s.logger.Debug("shortlist lookup failed", "repo", name, "error", err)
		return models.Repository{}, false
	}
	return toRecord(repo, s.langs.Languages(ctx, repo.GetLanguagesURL())), true
}

// Summary fetches account stats and combines them with repos.
func (s *Service) Summary(ctx context.Context, account string, repos []models.Repository) (models.AccountSummary, []string) {
	var warnings []string
	user, err := s.src.User(ctx, account)
	if err != nil {
		s.logger.Warn("account lookup failed", "account", account, "error", err)
		warnings = append(warnings, fmt.Sprintf("GitHub API request failed: %v", err))
		user = nil
	}
	return Summarize(account, user, repos), warnings
}

// Summarize derives display totals: stars summed over repos and the name of
// the most recently updated repository. A nil user yields zero counts.
func Summarize(account string, user *gogithub.User, repos []models.Repository) models.AccountSummary {
	sum := models.AccountSummary{
		Followers:         user.GetFollowers(),
		PublicRepos:       user.GetPublicRepos(),
		Following:         user.GetFollowing(),
		ProfileURL:        user.GetHTMLURL(),
		AvatarURL:         user.GetAvatarURL(),
		ContributionGraph: "https://ghchart.rshah.org/" + account,
	}
	if sum.ProfileURL == "" {
		sum.ProfileURL = "https://github.com/" + account
	}

	var latest *models.Repository
	for i := range repos {
		sum.TotalStars += repos[i].Stars
		if latest == nil || repos[i].UpdatedAt.After(latest.UpdatedAt) {
			latest = &repos[i]
		}
	}
	if latest != nil {
		sum.LatestRepo = latest.Name
	}
	return sum
}

func toRecord(r *gogithub.Repository, languages []string) models.Repository {
	rec := models.Repository{
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		Languages:     languages,
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		Topics:        append([]string{}, r.Topics...),
		Homepage:      r.GetHomepage(),
		URL:           r.GetHTMLURL(),
		DefaultBranch: r.GetDefaultBranch(),
	}
	if rec.Description == "" {
		rec.Description = models.DefaultDescription
	}
	if rec.DefaultBranch == "" {
		rec.DefaultBranch = defaultBranch
	}
	if rec.Languages == nil {
		rec.Languages = []string{}
	}
	if ts := r.GetUpdatedAt(); !ts.IsZero() {
		rec.UpdatedAt = ts.Time
		rec.Updated = FormatDate(ts.Time)
	}
	return rec
}

// FormatDate renders a timestamp the way the gallery displays it.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func sortByUpdated(repos []models.Repository) {
	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].UpdatedAt.After(repos[j].UpdatedAt)
	})
}
