// Package workflow orchestrates the start and complete flows across the
// issue tracker, code host, local git and the assistant.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mlombardi/issueflow/internal/domain"
	"github.com/mlombardi/issueflow/internal/ports"
	"github.com/mlombardi/issueflow/internal/session"
)

// Service wires the collaborators together. Every external call is
// synchronous and unretried; a failure aborts the step it belongs to.
type Service struct {
	Sessions  *session.Service
	ABTests   ports.ABTestRepository
	Tracker   ports.IssueTracker
	Host      ports.CodeHost
	Git       ports.Git
	Assistant ports.Assistant
	Metrics   ports.MetricsExporter
	Templates *domain.TemplateSet

	Repo       string
	BaseBranch string
	CallerKey  string
	WorkDir    string
}

// StartResult reports what the start flow set up.
type StartResult struct {
	SessionID    string
	Branch       string
	IssueType    string
	TemplateName string
	TestName     string // empty unless an A/B test assigned the prompt
	Variant      string
	ExitCode     int
}

// Start runs the full start flow for an issue: fetch it, create and check
// out a branch, compose the prompt and hand it to the assistant. A remote
// branch is created first when a code host is configured so the tracker and
// teammates see it immediately.
func (s *Service) Start(ctx context.Context, issueID string) (*StartResult, error) {
	issue, err := s.Tracker.FetchIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}

	issueType := domain.InferIssueType(issue.Labels)
	branch := domain.BranchName(issue.Identifier, issue.Title)

	if s.Host != nil && s.Repo != "" {
		sha, err := s.Host.GetBranchHeadSHA(ctx, s.Repo, s.BaseBranch)
		if err != nil {
			return nil, err
		}
		if err := s.Host.CreateBranch(ctx, s.Repo, branch, sha); err != nil {
			return nil, err
		}
	}
	if err := s.Git.CheckoutNewBranch(ctx, branch); err != nil {
		return nil, err
	}

	techStack := DetectTechStack(s.WorkDir)

	prompt, templateName, assignment, err := s.composePrompt(ctx, issue, issueType, branch, techStack)
	if err != nil {
		return nil, err
	}

	createParams := session.CreateParams{
		IssueID:      issue.Identifier,
		IssueType:    issueType,
		PromptText:   prompt,
		TemplateName: templateName,
		ProjectContext: domain.ProjectContext{
			Branch:    branch,
			TechStack: techStack,
		},
	}
	result := &StartResult{
		Branch:       branch,
		IssueType:    issueType,
		TemplateName: templateName,
	}
	if assignment != nil {
		createParams.ABTest = &assignment.TestName
		createParams.ABVariant = &assignment.Variant
		result.TestName = assignment.TestName
		result.Variant = assignment.Variant
	}

	sessionID, err := s.Sessions.Create(ctx, createParams)
	if err != nil {
		return nil, err
	}
	result.SessionID = sessionID

	exitCode, err := s.Assistant.RunInteractive(ctx, prompt)
	if err != nil {
		return result, fmt.Errorf("failed to run assistant: %w", err)
	}
	result.ExitCode = exitCode
	s.Metrics.PromptRun(ctx, exitCode)
	return result, nil
}

// composePrompt picks the template for a session. An active A/B test
// targeting the issue type takes precedence over the performance-based
// selector.
func (s *Service) composePrompt(ctx context.Context, issue *ports.Issue, issueType, branch string, techStack []string) (prompt, templateName string, assignment *domain.Assignment, err error) {
	active, err := s.ABTests.ListActive(ctx)
	if err != nil {
		return "", "", nil, err
	}
	assignment, err = domain.AssignVariant(active, s.CallerKey, issueType)
	if err != nil {
		return "", "", nil, err
	}

	vars := domain.PromptVars{
		Identifier:  issue.Identifier,
		Title:       issue.Title,
		Description: issue.Description,
		Branch:      branch,
		TechStack:   techStack,
	}

	if assignment != nil {
		templateName = assignment.TestName + ":" + assignment.Variant
		return domain.RenderPrompt(assignment.Template, vars), templateName, assignment, nil
	}

	perf, err := s.Sessions.TemplatePerformance(ctx)
	if err != nil {
		return "", "", nil, err
	}
	templateName = s.Templates.SelectTemplate(issueType, techStack, perf)
	return domain.RenderPrompt(s.Templates.Text(templateName), vars), templateName, nil, nil
}

// CompleteResult reports what the complete flow produced. LinkErr collects
// tracker-side failures that happened after the pull request already
// existed; the pull request is never rolled back.
type CompleteResult struct {
	IssueID string
	Branch  string
	PRURL   string
	Metrics *ports.CommitMetrics
	LinkErr error
}

// Complete pushes the current branch, opens a pull request and closes the
// loop on the tracker side: attachment, metrics comment, state transition.
func (s *Service) Complete(ctx context.Context, issueID string) (*CompleteResult, error) {
	branch, err := s.Git.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	if issueID == "" {
		issueID = domain.ExtractIssueID(branch)
		if issueID == "" {
			return nil, fmt.Errorf("cannot derive an issue ID from branch %q; pass one explicitly", branch)
		}
	}

	issue, err := s.Tracker.FetchIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if err := s.Git.PushCurrentBranch(ctx); err != nil {
		return nil, err
	}

	metrics, err := s.Git.MetricsAgainst(ctx, s.BaseBranch)
	if err != nil {
		return nil, err
	}

	title := issue.Identifier + ": " + issue.Title
	body := fmt.Sprintf("Closes %s\n\n%s", issue.Identifier, issue.Description)
	prURL, err := s.Host.CreatePullRequest(ctx, s.Repo, title, body, s.BaseBranch, branch)
	if err != nil {
		return nil, err
	}

	result := &CompleteResult{
		IssueID: issue.Identifier,
		Branch:  branch,
		PRURL:   prURL,
		Metrics: metrics,
	}

	// The PR exists from here on. Tracker failures are collected, not fatal.
	var linkErrs []error
	if err := s.Tracker.CreateAttachment(ctx, issue.ID, "Pull Request", branch, prURL, ""); err != nil {
		linkErrs = append(linkErrs, fmt.Errorf("failed to attach pull request: %w", err))
	}
	if err := s.Tracker.CreateComment(ctx, issue.ID, metricsComment(metrics, prURL)); err != nil {
		linkErrs = append(linkErrs, fmt.Errorf("failed to comment metrics: %w", err))
	}
	if err := s.markDone(ctx, issue); err != nil {
		linkErrs = append(linkErrs, err)
	}
	result.LinkErr = errors.Join(linkErrs...)
	return result, nil
}

// markDone moves the issue to its team's first completed-type state.
func (s *Service) markDone(ctx context.Context, issue *ports.Issue) error {
	states, err := s.Tracker.ListWorkflowStates(ctx, issue.TeamID)
	if err != nil {
		return fmt.Errorf("failed to list workflow states: %w", err)
	}
	for _, st := range states {
		if st.Type == "completed" {
			if err := s.Tracker.UpdateIssueState(ctx, issue.ID, st.ID); err != nil {
				return fmt.Errorf("failed to move issue to %s: %w", st.Name, err)
			}
			return nil
		}
	}
	return fmt.Errorf("no completed state in workflow for team %s", issue.TeamID)
}

func metricsComment(m *ports.CommitMetrics, prURL string) string {
	var b strings.Builder
	b.WriteString("Pull request opened: " + prURL + "\n\n")
	b.WriteString("**Commit metrics**\n")
	fmt.Fprintf(&b, "- Commits: %d\n", m.Commits)
	fmt.Fprintf(&b, "- Files changed: %d\n", m.FilesChanged)
	fmt.Fprintf(&b, "- Insertions: %d\n", m.Insertions)
	fmt.Fprintf(&b, "- Deletions: %d\n", m.Deletions)
	return b.String()
}

// AnalyzeTest recomputes both variants' metrics from the session records
// assigned to the test and stores the refreshed test with its results. The
// stored metrics are a cache; this recompute is the source of truth.
func (s *Service) AnalyzeTest(ctx context.Context, testName string) (*domain.ABTest, error) {
	test, err := s.ABTests.GetByName(ctx, testName)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, fmt.Errorf("A/B test %q not found", testName)
	}

	byVariant, err := s.Sessions.SessionsForTest(ctx, testName)
	if err != nil {
		return nil, err
	}
	test.Variants.A.Metrics = domain.ComputeVariantMetrics(byVariant[domain.VariantA])
	test.Variants.B.Metrics = domain.ComputeVariantMetrics(byVariant[domain.VariantB])
	test.Results = domain.AnalyzeResults(test)

	if err := s.ABTests.Update(ctx, test); err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}
	return test, nil
}
