// Package github implements the ReviewSource port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/reviewlens/internal/domain/model"
	"github.com/ericfisherdev/reviewlens/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReviewSource = (*Client)(nil)

// Client implements the driven.ReviewSource port using the go-github library.
type Client struct {
	gh         *gh.Client
	token      string // Stored for GraphQL Authorization header.
	graphqlURL string // "https://api.github.com/graphql" in production; derived from baseURL in tests.
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// cache may be nil, in which case an in-memory cache is used. Passing a
// persistent cache (e.g. the sqlite adapter) changes only latency and API
// quota consumption, never results.
func NewClient(token string, cache httpcache.Cache) *Client {
	if cache == nil {
		cache = httpcache.NewMemoryCache()
	}
	cacheTransport := httpcache.NewTransport(cache)
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:         client,
		token:      token,
		graphqlURL: "https://api.github.com/graphql",
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		token:      token,
		graphqlURL: graphqlU.String(),
	}, nil
}

// ListInlineComments retrieves one page of review comments (inline code
// comments) for a pull request. The boolean result reports whether the
// response advertised a next page.
func (c *Client) ListInlineComments(ctx context.Context, repoFullName string, prNumber, page, perPage int) ([]model.InlineComment, bool, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, false, err
	}

	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
	}

	comments, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, prNumber, opts)
	if err != nil {
		return nil, false, fmt.Errorf("listing review comments for %s#%d (page %d): %w", repoFullName, prNumber, page, err)
	}

	logRateLimit(resp, repoFullName+"/review-comments", page, len(comments))

	result := make([]model.InlineComment, 0, len(comments))
	for _, comment := range comments {
		result = append(result, mapInlineComment(comment))
	}

	return result, resp.NextPage != 0, nil
}

// ListDiscussionComments retrieves one page of general PR-level comments
// (from the Issues API) for a pull request.
func (c *Client) ListDiscussionComments(ctx context.Context, repoFullName string, prNumber, page, perPage int) ([]model.DiscussionComment, bool, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, false, err
	}

	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
	}

	comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, prNumber, opts)
	if err != nil {
		return nil, false, fmt.Errorf("listing discussion comments for %s#%d (page %d): %w", repoFullName, prNumber, page, err)
	}

	logRateLimit(resp, repoFullName+"/discussion-comments", page, len(comments))

	result := make([]model.DiscussionComment, 0, len(comments))
	for _, comment := range comments {
		result = append(result, mapDiscussionComment(comment))
	}

	return result, resp.NextPage != 0, nil
}

// ListReviews retrieves one page of reviews for a pull request.
func (c *Client) ListReviews(ctx context.Context, repoFullName string, prNumber, page, perPage int) ([]model.Review, bool, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, false, err
	}

	opts := &gh.ListOptions{Page: page, PerPage: perPage}

	reviews, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, prNumber, opts)
	if err != nil {
		return nil, false, fmt.Errorf("listing reviews for %s#%d (page %d): %w", repoFullName, prNumber, page, err)
	}

	logRateLimit(resp, repoFullName+"/reviews", page, len(reviews))

	result := make([]model.Review, 0, len(reviews))
	for _, r := range reviews {
		result = append(result, mapReview(r))
	}

	return result, resp.NextPage != 0, nil
}

// mapInlineComment converts a go-github PullRequestComment to a typed record.
// A nil Position means the anchored line is no longer part of the current diff.
func mapInlineComment(c *gh.PullRequestComment) model.InlineComment {
	var inReplyTo *int64
	if c.InReplyTo != nil {
		val := c.GetInReplyTo()
		inReplyTo = &val
	}

	return model.InlineComment{
		ID:            c.GetID(),
		Author:        c.GetUser().GetLogin(),
		AuthorRole:    strings.ToLower(c.GetAuthorAssociation()),
		Body:          c.GetBody(),
		Path:          c.GetPath(),
		Line:          c.GetLine(),
		StartLine:     c.GetStartLine(),
		InReplyTo:     inReplyTo,
		IsOutdated:    c.Position == nil,
		ReactionTotal: c.GetReactions().GetTotalCount(),
		CreatedAt:     c.GetCreatedAt().Time,
		UpdatedAt:     c.GetUpdatedAt().Time,
	}
}

// mapDiscussionComment converts a go-github IssueComment to a typed record.
func mapDiscussionComment(c *gh.IssueComment) model.DiscussionComment {
	return model.DiscussionComment{
		ID:            c.GetID(),
		Author:        c.GetUser().GetLogin(),
		AuthorRole:    strings.ToLower(c.GetAuthorAssociation()),
		Body:          c.GetBody(),
		ReactionTotal: c.GetReactions().GetTotalCount(),
		CreatedAt:     c.GetCreatedAt().Time,
		UpdatedAt:     c.GetUpdatedAt().Time,
	}
}

// mapReview converts a go-github PullRequestReview to a typed record.
func mapReview(r *gh.PullRequestReview) model.Review {
	return model.Review{
		ID:          r.GetID(),
		Author:      r.GetUser().GetLogin(),
		AuthorRole:  strings.ToLower(r.GetAuthorAssociation()),
		State:       strings.ToLower(r.GetState()),
		Body:        r.GetBody(),
		CommitID:    r.GetCommitID(),
		SubmittedAt: r.GetSubmittedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
