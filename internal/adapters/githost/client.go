// Package githost implements the code host port against the GitHub REST
// API.
package githost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mlombardi/issueflow/internal/ports"
)

const defaultBaseURL = "https://api.github.com"

// Client talks to the GitHub REST API. Same collaboration contract as the
// tracker client: synchronous, unretried, raw body attached to errors.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point at a fake server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call GitHub API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GitHub API returned status %d for %s %s: %s", resp.StatusCode, method, path, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to parse GitHub response: %w (body: %s)", err, raw)
		}
	}
	return nil
}

// GetBranchHeadSHA returns the commit SHA at the tip of a branch.
func (c *Client) GetBranchHeadSHA(ctx context.Context, repo, branch string) (string, error) {
	var data struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}

	path := fmt.Sprintf("/repos/%s/git/ref/heads/%s", repo, branch)
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return "", err
	}
	return data.Object.SHA, nil
}

type createRefRequest struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// CreateBranch creates a remote branch at the given SHA.
func (c *Client) CreateBranch(ctx context.Context, repo, name, sha string) error {
	payload := createRefRequest{Ref: "refs/heads/" + name, SHA: sha}
	path := fmt.Sprintf("/repos/%s/git/refs", repo)
	return c.do(ctx, http.MethodPost, path, payload, nil)
}

type createPullRequestRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Base  string `json:"base"`
	Head  string `json:"head"`
}

// CreatePullRequest opens a PR and returns its HTML URL.
func (c *Client) CreatePullRequest(ctx context.Context, repo, title, body, base, head string) (string, error) {
	var data struct {
		HTMLURL string `json:"html_url"`
	}

	payload := createPullRequestRequest{Title: title, Body: body, Base: base, Head: head}
	path := fmt.Sprintf("/repos/%s/pulls", repo)
	if err := c.do(ctx, http.MethodPost, path, payload, &data); err != nil {
		return "", err
	}
	return data.HTMLURL, nil
}

var _ ports.CodeHost = (*Client)(nil)
