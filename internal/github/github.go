// Package github is a minimal client for the GitHub REST API covering the
// endpoints the analysis pipeline needs: user lookup, owned-repository and
// commit listings (paginated) and commit detail with per-file diffs. Every
// outbound call is gated by the shared RateLimiter.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	apiURL     = "https://api.github.com"
	apiVersion = "2022-11-28"
	userAgent  = "gitanalyzer/1.0"

	// Max page size the API allows for list endpoints.
	perPage = 100
)

type Client struct {
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string

	limiter *RateLimiter
	logger  *zap.Logger
}

// New builds a client authenticating with the given token. The oauth2
// transport injects the bearer header on every request.
func New(ctx context.Context, token string, logger *zap.Logger) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		HTTPClient: httpClient,
		APIURL:     apiURL,
		UserAgent:  userAgent,
		limiter:    NewRateLimiter(logger),
		logger:     logger,
	}
}

// RateLimiter exposes the shared quota governor.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// GetUser resolves a username to its account record.
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	c.limiter.Wait(ctx)
	c.logger.Info("fetching user", zap.String("username", username))

	body, _, err := c.get(ctx, "/users/"+username, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, &NotFoundError{Kind: "user", Name: username}
		}
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// ListRepositories returns every repository owned by the user, most
// recently updated first.
func (c *Client) ListRepositories(ctx context.Context, username string) ([]Repository, error) {
	c.logger.Info("fetching repositories", zap.String("username", username))

	q := url.Values{}
	q.Set("type", "owner")
	q.Set("sort", "updated")

	return fetchAll[Repository](ctx, c, fmt.Sprintf("/users/%s/repos", username), q, perPage)
}

// ListCommits returns up to maxCommits commit summaries for the repository,
// optionally filtered to a single author.
func (c *Client) ListCommits(ctx context.Context, owner, repo, author string, maxCommits int) ([]CommitSummary, error) {
	c.logger.Debug("fetching commits", zap.String("repo", owner+"/"+repo))

	q := url.Values{}
	if author != "" {
		q.Set("author", author)
	}

	return fetchCapped[CommitSummary](ctx, c, fmt.Sprintf("/repos/%s/%s/commits", owner, repo), q, perPage, maxCommits)
}

// GetCommit fetches the full commit record including diff and stats.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (*Commit, error) {
	c.limiter.Wait(ctx)
	c.logger.Debug("fetching commit diff", zap.String("sha", shortSHA(sha)))

	body, _, err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/commits/%s", owner, repo, sha), nil)
	if err != nil {
		return nil, err
	}

	var commit Commit
	if err := json.Unmarshal(body, &commit); err != nil {
		return nil, fmt.Errorf("decode commit %s: %w", shortSHA(sha), err)
	}
	return &commit, nil
}

// ListLanguages returns the byte counts per language for a repository.
// Failures degrade to an empty map; language detail is never load-bearing.
func (c *Client) ListLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	c.limiter.Wait(ctx)

	body, _, err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/languages", owner, repo), nil)
	if err != nil {
		return map[string]int64{}, nil
	}

	languages := map[string]int64{}
	if err := json.Unmarshal(body, &languages); err != nil {
		return map[string]int64{}, nil
	}
	return languages, nil
}

// get performs one GET against the API, recording quota headers from the
// response. The caller has already passed the rate-limit gate.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return nil, nil, err
	}
	c.setHeaders(req)
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("github: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.limiter.UpdateFromResponse(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("github: read response %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusForbidden && resp.Header.Get("x-ratelimit-remaining") == "0" {
		reset, _ := strconv.ParseInt(resp.Header.Get("x-ratelimit-reset"), 10, 64)
		after := reset - time.Now().Unix()
		if after < 0 {
			after = 0
		}
		return nil, resp, &RateLimitError{ResetAfterSeconds: after}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp, &APIError{Operation: "GET " + path, Status: resp.StatusCode, Body: string(body)}
	}

	return body, resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.UserAgent)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
