package gallery

import (
	"context"
	"fmt"
	"strings"

	"github.com/joescharf/portfolio/internal/models"
)

// Feed selects where gallery cards come from.
type Feed string

const (
	FeedGitHub   Feed = "github"
	FeedFeatured Feed = "featured"
)

// DefaultFeaturedTopicTags is used when no featured tags are configured.
var DefaultFeaturedTopicTags = []string{"feature"}

// ParseFeed maps a user-supplied feed name to a Feed. Unknown names are an error;
// an empty name selects FeedGitHub.
func ParseFeed(s string) (Feed, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "github", "sync":
		return FeedGitHub, nil
	case "featured", "showcase":
		return FeedFeatured, nil
	}
	return "", fmt.Errorf("unknown feed %q (want github or featured)", s)
}

// GalleryOptions are the viewer's toggles.
type GalleryOptions struct {
	Feed     Feed
	LiveOnly bool
}

// Card is a repository as displayed, with its derived category.
type Card struct {
	models.Repository
	Category string `json:"category"`
}

// Cards classifies repos into display cards.
func Cards(repos []models.Repository) []Card {
	cards := make([]Card, len(repos))
	for i, repo := range repos {
		cards[i] = Card{Repository: repo, Category: Classify(repo.Topics)}
	}
	return cards
}

// Gallery is one rendered project section.
type Gallery struct {
	Projects []Card              `json:"projects"`
	Feed     Feed                `json:"feed"`
	Notices  []string            `json:"notices,omitempty"`
	Missing  []string            `json:"missing,omitempty"`
	Fetched  []models.Repository `json:"-"`
}

// Snapshot is a gallery plus the summary computed from the same fetch.
type Snapshot struct {
	Gallery Gallery               `json:"gallery"`
	Summary models.AccountSummary `json:"summary"`
	Notices []string              `json:"notices,omitempty"`
}

// Gallery fetches the configured topic and builds the project section.
func (s *Service) Gallery(ctx context.Context, opts GalleryOptions) Gallery {
	fetched, warnings := s.FetchRepositories(ctx, s.cfg.Account, s.cfg.Topic, s.cfg.MaxItems)
	return s.build(ctx, fetched, warnings, opts)
}

// Snapshot renders the gallery and the account summary from a single fetch.
func (s *Service) Snapshot(ctx context.Context, opts GalleryOptions) Snapshot {
	g := s.Gallery(ctx, opts)
	sum, warnings := s.Summary(ctx, s.cfg.Account, g.Fetched)

	var n notices
	n.add(g.Notices...)
	n.add(warnings...)
	return Snapshot{Gallery: g, Summary: sum, Notices: n.list}
}

func (s *Service) build(ctx context.Context, fetched []models.Repository, warnings []string, opts GalleryOptions) Gallery {
	var n notices
	n.add(warnings...)

	fetched = s.demos.Link(fetched)
	feed := opts.Feed
	if feed == "" {
		feed = FeedGitHub
	}

	var repos []models.Repository
	var missing []string
	switch feed {
	case FeedFeatured:
		tags := s.cfg.FeaturedTopicTags
		if len(tags) == 0 {
			tags = DefaultFeaturedTopicTags
		}
		for _, repo := range fetched {
			if repo.HasTopics(tags) {
				repos = append(repos, repo)
			}
		}
		if len(repos) == 0 {
			n.add(featuredHint(s.cfg.Topic, tags))
			repos = s.featured()
		}
	default:
		if len(fetched) == 0 {
			n.add(fmt.Sprintf("No repositories tagged with '%s' were found. Showing featured showcase instead.", s.cfg.Topic))
			feed = FeedFeatured
			repos = s.featured()
			break
		}
		repos, missing = s.ResolveShortlist(ctx, s.cfg.Account, s.cfg.Shortlist, fetched)
		if len(missing) > 0 {
			n.add("Shortlisted repos not returned in this view: " + strings.Join(missing, ", "))
		}
	}

	if opts.LiveOnly {
		var live []models.Repository
		for _, repo := range repos {
			if repo.Homepage != "" {
				live = append(live, repo)
			}
		}
		if len(live) == 0 {
			n.add("No live deployments yet for this view. Showing all projects instead.")
		} else {
			repos = live
		}
	}

	if fetched == nil {
		fetched = []models.Repository{}
	}
	return Gallery{
		Projects: Cards(repos),
		Feed:     feed,
		Notices:  n.list,
		Missing:  missing,
		Fetched:  fetched,
	}
}

func (s *Service) featured() []models.Repository {
	return s.demos.Link(s.cfg.Featured)
}

func featuredHint(topic string, tags []string) string {
	quoted := []string{"'" + topic + "'"}
	for _, tag := range tags {
		if !strings.EqualFold(tag, topic) {
			quoted = append(quoted, "'"+tag+"'")
		}
	}
	if len(quoted) == 1 {
		return fmt.Sprintf("Tag any repository with the %s topic on GitHub to auto-populate this gallery.", quoted[0])
	}
	return fmt.Sprintf("Tag any repository with both %s topics on GitHub to auto-populate this gallery.", strings.Join(quoted, " and "))
}

// notices keeps insertion order and drops repeats.
type notices struct {
	list []string
	seen map[string]bool
}

func (n *notices) add(msgs ...string) {
	if n.seen == nil {
		n.seen = make(map[string]bool)
	}
	for _, m := range msgs {
		if m == "" || n.seen[m] {
			continue
		}
		n.seen[m] = true
		n.list = append(n.list, m)
	}
}
