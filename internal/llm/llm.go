package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joescharf/portfolio/internal/content"
	"github.com/joescharf/portfolio/internal/gallery"
)

// ErrEmptyQuestion is returned when Ask is called without a question.
var ErrEmptyQuestion = errors.New("question is empty")

// Answer is the model's reply to a visitor question.
type Answer struct {
	Answer   string   `json:"answer"`
	Projects []string `json:"projects"` // repository names the answer draws on
}

// Client wraps the Anthropic API for portfolio questions.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
func NewClient(apiKey, model string, opts ...option.RequestOption) *Client {
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// buildPrompt constructs the system and user prompts for a portfolio question.
func buildPrompt(question string, c *content.Content, projects []gallery.Card) (system string, user string) {
	system = `You answer visitor questions about one person's professional portfolio. Use only the facts provided. Return ONLY a JSON object with these fields:
- "answer": a friendly answer of at most 4 sentences
- "projects": names of the listed projects the answer refers to (empty array if none)

Rules:
- If the facts do not cover the question, say so and suggest using the contact form
- Never invent employers, dates, metrics or links
- Return valid JSON only, no markdown fencing or explanation`

	var sb strings.Builder
	if c != nil {
		p := c.Profile
		fmt.Fprintf(&sb, "Name: %s\nRole: %s\n", p.Name, p.Role)
		if p.Tagline != "" {
			fmt.Fprintf(&sb, "Tagline: %s\n", p.Tagline)
		}
		if p.Availability != "" {
			fmt.Fprintf(&sb, "Availability: %s\n", p.Availability)
		}
		if c.About.Headline != "" {
			fmt.Fprintf(&sb, "About: %s\n", c.About.Headline)
		}
		for _, e := range c.Experience {
			fmt.Fprintf(&sb, "Experience: %s at %s (%s)\n", e.Role, e.Company, e.Date)
		}
		for _, e := range c.Education {
			fmt.Fprintf(&sb, "Education: %s, %s (%s)\n", e.Degree, e.Institution, e.Period)
		}
		for _, g := range c.SkillGroups {
			names := make([]string, len(g.Skills))
			for i, s := range g.Skills {
				names[i] = s.Name
			}
			fmt.Fprintf(&sb, "Skills (%s): %s\n", g.Category, strings.Join(names, ", "))
		}
	}
	if len(projects) > 0 {
		sb.WriteString("\nProjects:\n")
		for _, p := range projects {
			fmt.Fprintf(&sb, "- %s [%s]: %s", p.Name, p.Category, p.Description)
			if len(p.Languages) > 0 {
				fmt.Fprintf(&sb, " (%s)", strings.Join(p.Languages, ", "))
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	user = sb.String()
	return
}

// Ask answers a visitor question from the portfolio content and project cards.
func (c *Client) Ask(ctx context.Context, question string, doc *content.Content, projects []gallery.Card) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	systemPrompt, userPrompt := buildPrompt(question, doc, projects)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return parseAnswer(text)
}

// parseAnswer decodes the model reply, tolerating markdown fencing.
func parseAnswer(text string) (*Answer, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	var ans Answer
	if err := json.Unmarshal([]byte(text), &ans); err != nil {
		return nil, fmt.Errorf("parse LLM response as JSON: %w\nraw response: %s", err, text)
	}
	if ans.Projects == nil {
		ans.Projects = []string{}
	}
	return &ans, nil
}
