package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds every outbound API call.
const DefaultTimeout = 15 * time.Second

// ErrRateLimited is returned when the API answers 403 (rate or abuse limit).
var ErrRateLimited = errors.New("github: rate limited")

// Options configures a Client.
type Options struct {
	Token   string        // optional bearer token
	BaseURL string        // API root, defaults to https://api.github.com/
	Timeout time.Duration // per-request timeout, defaults to DefaultTimeout
}

// Client is a thin wrapper around the GitHub REST API covering the four
// endpoints the portfolio needs.
type Client struct {
	gh *gogithub.Client
}

// NewClient creates a Client. An empty token makes unauthenticated requests
// (lower rate limits).
func NewClient(opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = timeout
	}

	gh := gogithub.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		gh.BaseURL = u
	}

	return &Client{gh: gh}, nil
}

// SearchRepositories runs one page of a repository search, most recently
// updated first.
func (c *Client) SearchRepositories(ctx context.Context, query string, page, perPage int) ([]*gogithub.Repository, error) {
	opts := &gogithub.SearchOptions{
		Sort:  "updated",
		Order: "desc",
		ListOptions: gogithub.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}
	result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search repositories: %w", classify(resp, err))
	}
	return result.Repositories, nil
}

// Repository fetches a single repository regardless of topic tags.
func (c *Client) Repository(ctx context.Context, owner, name string) (*gogithub.Repository, error) {
	repo, resp, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("get repository %s/%s: %w", owner, name, classify(resp, err))
	}
	return repo, nil
}

// Languages fetches a repository's language breakdown (bytes per language)
// from its languages_url.
func (c *Client) Languages(ctx context.Context, languagesURL string) (map[string]int, error) {
	req, err := c.gh.NewRequest(http.MethodGet, languagesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build languages request: %w", err)
	}

	langs := make(map[string]int)
	resp, err := c.gh.Do(ctx, req, &langs)
	if err != nil {
		return nil, fmt.Errorf("get languages: %w", classify(resp, err))
	}
	return langs, nil
}

// User fetches account-level profile stats.
func (c *Client) User(ctx context.Context, login string) (*gogithub.User, error) {
	user, resp, err := c.gh.Users.Get(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", login, classify(resp, err))
	}
	return user, nil
}

// classify maps 403 responses onto ErrRateLimited while keeping the original
// error in the chain.
func classify(resp *gogithub.Response, err error) error {
	var rateErr *gogithub.RateLimitError
	var abuseErr *gogithub.AbuseRateLimitError
	forbidden := resp != nil && resp.Response != nil && resp.StatusCode == http.StatusForbidden
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) || forbidden {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return err
}
