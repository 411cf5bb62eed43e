package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joescharf/portfolio/internal/output"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show GitHub account stats",
	Long:  "Show followers, public repos, total stars and the latest project for the portfolio's GitHub account.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return summaryRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func summaryRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	g, err := getGallery()
	if err != nil {
		return err
	}

	repos, warnings := g.FetchRepositories(ctx, g.Account(), g.Topic(), g.MaxItems())
	sum, more := g.Summary(ctx, g.Account(), repos)
	ui.Notices(append(warnings, more...))

	latest := sum.LatestRepo
	if latest == "" {
		latest = output.Yellow("none")
	}
	return ui.KeyValues([][2]string{
		{"Account", g.Account()},
		{"Followers", strconv.Itoa(sum.Followers)},
		{"Following", strconv.Itoa(sum.Following)},
		{"Public repos", strconv.Itoa(sum.PublicRepos)},
		{"Total stars", strconv.Itoa(sum.TotalStars)},
		{"Latest project", latest},
		{"Profile", sum.ProfileURL},
		{"Contributions", sum.ContributionGraph},
	})
}
