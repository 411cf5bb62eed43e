package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/portfolio/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an assistant query the portfolio natively. Configure with:

  {
    "mcpServers": {
      "portfolio": { "command": "portfolio", "args": ["mcp"] }
    }
  }

Available tools: portfolio_profile, portfolio_projects,
portfolio_github_summary, portfolio_sentiment, portfolio_resume_score`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContent()
		if err != nil {
			return err
		}
		g, err := getGallery()
		if err != nil {
			return err
		}
		return mcp.NewServer(g, c, buildVersion).ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
