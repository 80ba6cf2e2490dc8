package ports

import "context"

// Issue is a tracker issue as the workflow needs it.
type Issue struct {
	ID          string
	Identifier  string
	Title       string
	Description string
	State       string
	TeamID      string
	Labels      []string
}

// WorkflowState is one state in a tracker team's workflow.
type WorkflowState struct {
	ID   string
	Name string
	Type string // "backlog", "unstarted", "started", "completed", "canceled"
}

// IssueTracker is the Linear-shaped collaborator. All calls are synchronous
// and unretried; any non-success response fails the invocation.
type IssueTracker interface {
	FetchIssue(ctx context.Context, id string) (*Issue, error)
	ListWorkflowStates(ctx context.Context, teamID string) ([]WorkflowState, error)
	UpdateIssueState(ctx context.Context, issueID, stateID string) error
	CreateComment(ctx context.Context, issueID, bodyMarkdown string) error
	CreateAttachment(ctx context.Context, issueID, title, subtitle, url, iconURL string) error
}

// CodeHost is the GitHub-shaped collaborator.
type CodeHost interface {
	GetBranchHeadSHA(ctx context.Context, repo, branch string) (string, error)
	CreateBranch(ctx context.Context, repo, name, sha string) error
	CreatePullRequest(ctx context.Context, repo, title, body, base, head string) (string, error)
}

// CommitMetrics summarizes local commits between a base and head ref.
type CommitMetrics struct {
	Commits      int
	FilesChanged int
	Insertions   int
	Deletions    int
}

// Git wraps local git operations.
type Git interface {
	CurrentBranch(ctx context.Context) (string, error)
	CheckoutNewBranch(ctx context.Context, name string) error
	PushCurrentBranch(ctx context.Context) error
	MetricsAgainst(ctx context.Context, base string) (*CommitMetrics, error)
	ChangedFiles(ctx context.Context, base string) ([]string, error)
}

// Assistant runs the AI assistant interactively with a composed prompt.
type Assistant interface {
	RunInteractive(ctx context.Context, prompt string) (int, error)
}
