package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/portfolio/internal/gallery"
	"github.com/joescharf/portfolio/internal/llm"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the portfolio",
	Long: `Answer a visitor-style question from the profile, experience and featured
projects using Anthropic. Needs anthropic.api_key or ANTHROPIC_API_KEY.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return askRun(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func askRun(ctx context.Context, question string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(question) == "" {
		return llm.ErrEmptyQuestion
	}
	client := newLLMClient()
	if client == nil {
		return fmt.Errorf("no Anthropic API key: set anthropic.api_key or ANTHROPIC_API_KEY")
	}
	c, err := getContent()
	if err != nil {
		return err
	}
	g, err := getGallery()
	if err != nil {
		return err
	}

	view := g.Gallery(ctx, gallery.GalleryOptions{Feed: gallery.FeedFeatured})
	p := newProgress(getLogger())
	ans, err := client.Ask(ctx, question, c, view.Projects)
	if err != nil {
		return err
	}
	p.done("answered question")

	fmt.Fprintln(ui.Out, ans.Answer)
	if len(ans.Projects) > 0 {
		ui.Info("Related projects: %s", strings.Join(ans.Projects, ", "))
	}
	return nil
}
