package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/portfolio/internal/gallery"
	"github.com/joescharf/portfolio/internal/output"
)

var (
	projectsFeed string
	projectsLive bool
	projectsJSON bool
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"ls"},
	Short:   "List the project gallery",
	Long: `List the project gallery as the website would render it.

The github feed fetches repositories tagged with the content's topic; the
featured feed shows the curated showcase. --live keeps only projects with a
live deployment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectsRun(cmd.Context())
	},
}

func init() {
	projectsCmd.Flags().StringVar(&projectsFeed, "feed", string(gallery.FeedGitHub), "Feed to show: github or featured")
	projectsCmd.Flags().BoolVar(&projectsLive, "live", false, "Only projects with a live deployment")
	projectsCmd.Flags().BoolVar(&projectsJSON, "json", false, "Print the gallery as JSON")
	rootCmd.AddCommand(projectsCmd)
}

func projectsRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	feed, err := gallery.ParseFeed(projectsFeed)
	if err != nil {
		return err
	}
	g, err := getGallery()
	if err != nil {
		return err
	}

	p := newProgress(getLogger())
	view := g.Gallery(ctx, gallery.GalleryOptions{Feed: feed, LiveOnly: projectsLive})
	p.done("built gallery", "feed", view.Feed, "projects", len(view.Projects))

	if projectsJSON {
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	ui.Notices(view.Notices)
	if len(view.Projects) == 0 {
		ui.Info("No projects to show")
		return nil
	}

	table := ui.Table([]string{"Name", "Category", "Languages", "Stars", "Updated", "Live"})
	for _, card := range view.Projects {
		if err := table.Append([]string{
			output.Cyan(card.Name),
			card.Category,
			strings.Join(card.Languages, ", "),
			strconv.Itoa(card.Stars),
			card.Updated,
			output.LiveMark(card.Homepage),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	ui.VerboseLog("%s feed, %s", view.Feed, pluralize(len(view.Projects), "project"))
	return nil
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
