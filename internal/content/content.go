// Package content holds the authored portfolio records: profile, about,
// experience, skills, curated projects and lab settings.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joescharf/portfolio/internal/gallery"
	"github.com/joescharf/portfolio/internal/models"
)

//go:embed default.yaml
var defaultDocument []byte

// ErrInvalid is returned when a required field is missing.
var ErrInvalid = errors.New("invalid content")

// Stat is a labelled figure in the hero banner.
type Stat struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Link is a named URL, such as a social profile.
type Link struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// Profile is the hero section: who, what and where.
type Profile struct {
	Name         string `yaml:"name" json:"name"`
	Role         string `yaml:"role" json:"role"`
	Tagline      string `yaml:"tagline" json:"tagline"`
	Location     string `yaml:"location" json:"location,omitempty"`
	Education    string `yaml:"education" json:"education,omitempty"`
	Email        string `yaml:"email" json:"email,omitempty"`
	Availability string `yaml:"availability" json:"availability,omitempty"`
	Avatar       string `yaml:"avatar" json:"avatar,omitempty"`
	HeroStats    []Stat `yaml:"hero_stats" json:"hero_stats"`
	Socials      []Link `yaml:"socials" json:"socials"` // display order
}

// About is the narrative section with highlights and focus areas.
type About struct {
	Headline   string   `yaml:"headline" json:"headline"`
	Highlights []string `yaml:"highlights" json:"highlights"`
	Focus      []string `yaml:"focus" json:"focus"`
}

// Experience is one role on the timeline.
type Experience struct {
	Role       string   `yaml:"role" json:"role"`
	Company    string   `yaml:"company" json:"company"`
	Location   string   `yaml:"location" json:"location,omitempty"`
	Date       string   `yaml:"date" json:"date"`
	Highlights []string `yaml:"highlights" json:"highlights"`
	Stack      []string `yaml:"stack" json:"stack"`
}

// Education is one degree or program.
type Education struct {
	Institution string `yaml:"institution" json:"institution"`
	Degree      string `yaml:"degree" json:"degree"`
	Period      string `yaml:"period" json:"period"`
	Details     string `yaml:"details" json:"details,omitempty"`
}

// Skill is a named skill with its badges.
type Skill struct {
	Name   string   `yaml:"name" json:"name"`
	Badges []string `yaml:"badges" json:"badges"`
}

// SkillGroup groups skills under a category heading.
type SkillGroup struct {
	Category string  `yaml:"category" json:"category"`
	Skills   []Skill `yaml:"skills" json:"skills"`
}

// Contact holds the details shown beside the contact form.
type Contact struct {
	Email        string `yaml:"email" json:"email"`
	Location     string `yaml:"location" json:"location,omitempty"`
	Phone        string `yaml:"phone" json:"phone,omitempty"`
	Availability string `yaml:"availability" json:"availability,omitempty"`
	Calendly     string `yaml:"calendly" json:"calendly,omitempty"`
}

// Resume describes the downloadable CV.
type Resume struct {
	Path        string `yaml:"path" json:"-"`
	FileName    string `yaml:"file_name" json:"file_name"`
	Tagline     string `yaml:"tagline" json:"tagline"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
}

// GitHub selects the account and topic the gallery is built from.
type GitHub struct {
	Username string `yaml:"username" json:"username"`
	Topic    string `yaml:"topic" json:"topic"`
	MaxItems int    `yaml:"max_items" json:"max_items"`
}

// LabWidget is the copy for one lab demo.
type LabWidget struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Placeholder string   `yaml:"placeholder" json:"placeholder"`
	Keywords    []string `yaml:"keywords" json:"keywords,omitempty"`
}

// Lab configures the sentiment and resume keyword demos.
type Lab struct {
	Sentiment LabWidget `yaml:"sentiment" json:"sentiment"`
	Resume    LabWidget `yaml:"resume" json:"resume"`
}

// Content is the whole authored document.
type Content struct {
	Profile            Profile             `yaml:"profile" json:"profile"`
	About              About               `yaml:"about" json:"about"`
	Experience         []Experience        `yaml:"experience" json:"experience"`
	Education          []Education         `yaml:"education" json:"education"`
	Certifications     []string            `yaml:"certifications" json:"certifications"`
	SkillGroups        []SkillGroup        `yaml:"skill_groups" json:"skill_groups"`
	Contact            Contact             `yaml:"contact" json:"contact"`
	Resume             Resume              `yaml:"resume" json:"resume"`
	GitHub             GitHub              `yaml:"github" json:"github"`
	FeaturedTopicTags  []string            `yaml:"featured_topic_tags" json:"featured_topic_tags"`
	Shortlist          []string            `yaml:"shortlist" json:"shortlist"`
	FeaturedProjects   []models.Repository `yaml:"featured_projects" json:"featured_projects"`
	ShortlistFallbacks []models.Repository `yaml:"shortlist_fallbacks" json:"-"`
	LiveDemos          map[string]string   `yaml:"live_demos" json:"-"`
	Lab                Lab                 `yaml:"lab" json:"lab"`
}

// Default returns the embedded document.
func Default() (*Content, error) {
	c := &Content{}
	if err := yaml.Unmarshal(defaultDocument, c); err != nil {
		return nil, fmt.Errorf("parse embedded content: %w", err)
	}
	return c, nil
}

// Load reads the embedded document and, when path is set, applies the file at
// path on top of it. Fields present in the file replace the embedded values:
// lists are replaced whole and live_demos entries are merged.
func Load(path string) (*Content, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read content: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse content %s: %w", path, err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the required fields.
func (c *Content) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Profile.Name) == "" {
		missing = append(missing, "profile.name")
	}
	if strings.TrimSpace(c.GitHub.Username) == "" {
		missing = append(missing, "github.username")
	}
	if strings.TrimSpace(c.GitHub.Topic) == "" {
		missing = append(missing, "github.topic")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ", "))
	}
	return nil
}

// GalleryConfig maps the curated records onto a gallery configuration.
// maxItems overrides github.max_items when positive.
func (c *Content) GalleryConfig(maxItems, workers int) gallery.Config {
	if maxItems <= 0 {
		maxItems = c.GitHub.MaxItems
	}
	return gallery.Config{
		Account:           c.GitHub.Username,
		Topic:             c.GitHub.Topic,
		MaxItems:          maxItems,
		Workers:           workers,
		Shortlist:         c.Shortlist,
		FeaturedTopicTags: c.FeaturedTopicTags,
		Featured:          c.FeaturedProjects,
		Fallbacks:         c.ShortlistFallbacks,
		LiveDemos:         c.LiveDemos,
	}
}

// ResumeKeywords returns the configured lab keywords, if any.
func (c *Content) ResumeKeywords() []string {
	return c.Lab.Resume.Keywords
}
