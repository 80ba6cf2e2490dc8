// Package linear implements the issue tracker port against Linear's GraphQL
// API. Payloads are typed structs serialized with encoding/json; nothing is
// built by string interpolation.
package linear

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

const defaultEndpoint = "https://api.linear.app/graphql"

// Client talks to the Linear GraphQL API. Calls are synchronous and
// unretried; any API error fails the invocation with the raw response body
// attached for diagnosis.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Linear client. The API key is required; callers
// surface the missing-credential case before getting here.
func NewClient(apiKey string) *Client {
	return &Client{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// NewClientWithEndpoint is used by tests to point at a fake server.
func NewClientWithEndpoint(apiKey, endpoint string) *Client {
	c := NewClient(apiKey)
	c.endpoint = endpoint
	return c
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// do executes one GraphQL request and unmarshals the data payload into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Linear API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Linear API returned status %d: %s", resp.StatusCode, raw)
	}

	var gql graphqlResponse
	if err := json.Unmarshal(raw, &gql); err != nil {
		return fmt.Errorf("failed to parse Linear response: %w (body: %s)", err, raw)
	}
	if len(gql.Errors) > 0 {
		return fmt.Errorf("Linear API error: %s (body: %s)", gql.Errors[0].Message, raw)
	}

	if out != nil {
		if err := json.Unmarshal(gql.Data, out); err != nil {
			return fmt.Errorf("failed to parse Linear data: %w (body: %s)", err, raw)
		}
	}
	return nil
}

const issueQuery = `
query Issue($id: String!) {
  issue(id: $id) {
    id
    identifier
    title
    description
    state { name }
    team { id }
    labels { nodes { name } }
  }
}`

// FetchIssue loads one issue by its identifier (e.g. "ENG-123") or UUID.
func (c *Client) FetchIssue(ctx context.Context, id string) (*ports.Issue, error) {
	var data struct {
		Issue *struct {
			ID          string `json:"id"`
			Identifier  string `json:"identifier"`
			Title       string `json:"title"`
			Description string `json:"description"`
			State       struct {
				Name string `json:"name"`
			} `json:"state"`
			Team struct {
				ID string `json:"id"`
			} `json:"team"`
			Labels struct {
				Nodes []struct {
					Name string `json:"name"`
				} `json:"nodes"`
			} `json:"labels"`
		} `json:"issue"`
	}

	if err := c.do(ctx, issueQuery, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Issue == nil {
		return nil, fmt.Errorf("issue %q not found", id)
	}

	issue := &ports.Issue{
		ID:          data.Issue.ID,
		Identifier:  data.Issue.Identifier,
		Title:       data.Issue.Title,
		Description: data.Issue.Description,
		State:       data.Issue.State.Name,
		TeamID:      data.Issue.Team.ID,
	}
	for _, l := range data.Issue.Labels.Nodes {
		issue.Labels = append(issue.Labels, l.Name)
	}
	return issue, nil
}

const workflowStatesQuery = `
query WorkflowStates($teamId: ID) {
  workflowStates(filter: { team: { id: { eq: $teamId } } }) {
    nodes { id name type }
  }
}`

// ListWorkflowStates returns the workflow states of a team.
func (c *Client) ListWorkflowStates(ctx context.Context, teamID string) ([]ports.WorkflowState, error) {
	var data struct {
		WorkflowStates struct {
			Nodes []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"nodes"`
		} `json:"workflowStates"`
	}

	if err := c.do(ctx, workflowStatesQuery, map[string]any{"teamId": teamID}, &data); err != nil {
		return nil, err
	}

	states := make([]ports.WorkflowState, 0, len(data.WorkflowStates.Nodes))
	for _, n := range data.WorkflowStates.Nodes {
		states = append(states, ports.WorkflowState{ID: n.ID, Name: n.Name, Type: n.Type})
	}
	return states, nil
}

const updateIssueMutation = `
mutation UpdateIssueState($id: String!, $stateId: String!) {
  issueUpdate(id: $id, input: { stateId: $stateId }) {
    success
  }
}`

// UpdateIssueState moves an issue to a workflow state.
func (c *Client) UpdateIssueState(ctx context.Context, issueID, stateID string) error {
	var data struct {
		IssueUpdate struct {
			Success bool `json:"success"`
		} `json:"issueUpdate"`
	}

	if err := c.do(ctx, updateIssueMutation, map[string]any{"id": issueID, "stateId": stateID}, &data); err != nil {
		return err
	}
	if !data.IssueUpdate.Success {
		return fmt.Errorf("Linear rejected state update for issue %s", issueID)
	}
	return nil
}

const createCommentMutation = `
mutation CreateComment($issueId: String!, $body: String!) {
  commentCreate(input: { issueId: $issueId, body: $body }) {
    success
  }
}`

// CreateComment posts a Markdown comment on an issue.
func (c *Client) CreateComment(ctx context.Context, issueID, bodyMarkdown string) error {
	var data struct {
		CommentCreate struct {
			Success bool `json:"success"`
		} `json:"commentCreate"`
	}

	if err := c.do(ctx, createCommentMutation, map[string]any{"issueId": issueID, "body": bodyMarkdown}, &data); err != nil {
		return err
	}
	if !data.CommentCreate.Success {
		return fmt.Errorf("Linear rejected comment on issue %s", issueID)
	}
	return nil
}

const createAttachmentMutation = `
mutation CreateAttachment($issueId: String!, $title: String!, $subtitle: String, $url: String!, $iconUrl: String) {
  attachmentCreate(input: { issueId: $issueId, title: $title, subtitle: $subtitle, url: $url, iconUrl: $iconUrl }) {
    success
  }
}`

// CreateAttachment links an external URL (typically the pull request) to an
// issue.
func (c *Client) CreateAttachment(ctx context.Context, issueID, title, subtitle, url, iconURL string) error {
	var data struct {
		AttachmentCreate struct {
			Success bool `json:"success"`
		} `json:"attachmentCreate"`
	}

	vars := map[string]any{
		"issueId":  issueID,
		"title":    title,
		"subtitle": subtitle,
		"url":      url,
		"iconUrl":  iconURL,
	}
	if err := c.do(ctx, createAttachmentMutation, vars, &data); err != nil {
		return err
	}
	if !data.AttachmentCreate.Success {
		return fmt.Errorf("Linear rejected attachment on issue %s", issueID)
	}
	return nil
}
