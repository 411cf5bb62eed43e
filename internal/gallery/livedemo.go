package gallery

import (
	"strings"

	"github.com/joescharf/portfolio/internal/models"
)

// LiveDemos maps lowercase repository names to deployed demo URLs.
type LiveDemos map[string]string

// NewLiveDemos builds a LiveDemos table, lowercasing the keys.
func NewLiveDemos(urls map[string]string) LiveDemos {
	d := make(LiveDemos, len(urls))
	for name, url := range urls {
		d[strings.ToLower(name)] = url
	}
	return d
}

// Link returns a copy of repos where every record without a homepage gets
// its live demo URL, if one is known. Existing homepages are never replaced,
// so applying Link twice is the same as applying it once.
func (d LiveDemos) Link(repos []models.Repository) []models.Repository {
	if repos == nil {
		return nil
	}
	out := make([]models.Repository, len(repos))
	for i, repo := range repos {
		out[i] = d.linkOne(repo)
	}
	return out
}

func (d LiveDemos) linkOne(repo models.Repository) models.Repository {
	if repo.Homepage != "" {
		return repo
	}
	if url, ok := d[repo.Key()]; ok && url != "" {
		repo.Homepage = url
	}
	return repo
}

// LinkLiveDemos overlays demos onto repos. See LiveDemos.Link.
func LinkLiveDemos(repos []models.Repository, demos map[string]string) []models.Repository {
	return NewLiveDemos(demos).Link(repos)
}
