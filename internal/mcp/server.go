package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/portfolio/internal/content"
	"github.com/joescharf/portfolio/internal/gallery"
	"github.com/joescharf/portfolio/internal/lab"
	"github.com/joescharf/portfolio/internal/models"
)

// Server exposes the portfolio read surfaces as MCP tools.
type Server struct {
	gallery *gallery.Service
	content *content.Content
	version string
}

// NewServer creates the MCP server wrapper.
func NewServer(g *gallery.Service, c *content.Content, version string) *Server {
	if version == "" {
		version = "dev"
	}
	return &Server{gallery: g, content: c, version: version}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("portfolio", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.profileTool())
	srv.AddTool(s.projectsTool())
	srv.AddTool(s.githubSummaryTool())
	srv.AddTool(s.sentimentTool())
	srv.AddTool(s.resumeScoreTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.MCPServer())
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// portfolio_profile
func (s *Server) profileTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portfolio_profile",
		mcp.WithDescription("Get the portfolio owner's profile, about, experience, education, skills and contact details as JSON."),
	)
	return tool, s.handleProfile
}

func (s *Server) handleProfile(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type profileOut struct {
		Profile        content.Profile      `json:"profile"`
		About          content.About        `json:"about"`
		Experience     []content.Experience `json:"experience"`
		Education      []content.Education  `json:"education"`
		Certifications []string             `json:"certifications"`
		SkillGroups    []content.SkillGroup `json:"skill_groups"`
		Contact        content.Contact      `json:"contact"`
	}
	c := s.content
	return jsonResult(profileOut{
		Profile:        c.Profile,
		About:          c.About,
		Experience:     c.Experience,
		Education:      c.Education,
		Certifications: c.Certifications,
		SkillGroups:    c.SkillGroups,
		Contact:        c.Contact,
	})
}

// portfolio_projects
func (s *Server) projectsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portfolio_projects",
		mcp.WithDescription("List gallery projects with category, languages, stars and live demo link. Falls back to the curated showcase when nothing is tagged."),
		mcp.WithString("feed", mcp.Description("Project feed: github (default) or featured")),
		mcp.WithBoolean("live_only", mcp.Description("Only projects with a live demo")),
	)
	return tool, s.handleProjects
}

func (s *Server) handleProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	feed, err := gallery.ParseFeed(request.GetString("feed", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g := s.gallery.Gallery(ctx, gallery.GalleryOptions{
		Feed:     feed,
		LiveOnly: request.GetBool("live_only", false),
	})
	return jsonResult(g)
}

// portfolio_github_summary
func (s *Server) githubSummaryTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portfolio_github_summary",
		mcp.WithDescription("Get GitHub account stats: followers, public repos, following, total stars across tagged repos and the latest updated repo."),
	)
	return tool, s.handleGitHubSummary
}

func (s *Server) handleGitHubSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	account := s.gallery.Account()
	repos, warnings := s.gallery.FetchRepositories(ctx, account, s.gallery.Topic(), s.gallery.MaxItems())
	sum, more := s.gallery.Summary(ctx, account, repos)

	type summaryOut struct {
		Account  string                `json:"account"`
		Summary  models.AccountSummary `json:"summary"`
		Warnings []string              `json:"warnings,omitempty"`
	}
	return jsonResult(summaryOut{Account: account, Summary: sum, Warnings: append(warnings, more...)})
}

// portfolio_sentiment
func (s *Server) sentimentTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portfolio_sentiment",
		mcp.WithDescription("Score text with the lexicon sentiment pulse. Returns label (Positive, Negative, Neutral) and score."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to score")),
	)
	return tool, s.handleSentiment
}

func (s *Server) handleSentiment(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	return jsonResult(lab.Sentiment(text))
}

// portfolio_resume_score
func (s *Server) resumeScoreTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("portfolio_resume_score",
		mcp.WithDescription("Score a resume paragraph for coverage of the configured ML stack keywords."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Resume text")),
	)
	return tool, s.handleResumeScore
}

func (s *Server) handleResumeScore(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	return jsonResult(lab.ScoreResume(text, s.content.ResumeKeywords()))
}
