package models

import (
	"strings"
	"time"
)

// DefaultDescription is used when a repository has no description of its own.
const DefaultDescription = "Production-ready AI asset."

// Repository is a single project shown in the gallery. Records are built
// fresh per request and treated as values.
type Repository struct {
	Name          string    `json:"name" yaml:"name"`
	FullName      string    `json:"full_name,omitempty" yaml:"full_name"`
	Description   string    `json:"description" yaml:"description"`
	Languages     []string  `json:"languages" yaml:"languages"` // by byte count, at most 5
	Stars         int       `json:"stars" yaml:"stars"`
	Forks         int       `json:"forks" yaml:"forks"`
	Topics        []string  `json:"topics" yaml:"topics"`
	Homepage      string    `json:"homepage,omitempty" yaml:"homepage"`
	URL           string    `json:"html_url" yaml:"html_url"`
	UpdatedAt     time.Time `json:"updated_at,omitempty" yaml:"-"`
	Updated       string    `json:"updated,omitempty" yaml:"updated"` // display form, e.g. "14 Jan 2026"
	DefaultBranch string    `json:"default_branch,omitempty" yaml:"default_branch"`
}

// Key returns the case-insensitive join key used by shortlist and live-demo overlays.
func (r Repository) Key() string {
	return strings.ToLower(r.Name)
}

// HasTopics reports whether the repository carries every tag in tags (case-insensitive).
func (r Repository) HasTopics(tags []string) bool {
	have := make(map[string]bool, len(r.Topics))
	for _, t := range r.Topics {
		have[strings.ToLower(t)] = true
	}
	for _, tag := range tags {
		if !have[strings.ToLower(tag)] {
			return false
		}
	}
	return true
}

// AccountSummary aggregates account-level stats for the hero and stats widgets.
type AccountSummary struct {
	Followers         int    `json:"followers"`
	PublicRepos       int    `json:"public_repos"`
	Following         int    `json:"following"`
	TotalStars        int    `json:"total_stars"`
	LatestRepo        string `json:"latest_repo"`
	ProfileURL        string `json:"profile_url"`
	AvatarURL         string `json:"avatar_url"`
	ContributionGraph string `json:"contribution_graph"`
}
