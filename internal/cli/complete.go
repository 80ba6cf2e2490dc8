package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete [issue-id]",
	Short: "Open a pull request and close the issue",
	Long: `Complete the current development session.

Pushes the current branch, opens a pull request against the base branch,
attaches it to the Linear issue with a commit-metrics comment and moves the
issue to its team's completed state. The issue ID is derived from the branch
name when not given.

The pull request is never rolled back: if a tracker-side step fails after
the pull request exists, its URL is printed and only that step is reported
as failed.

Examples:
  issueflow complete
  issueflow complete ENG-42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Config.RequireLinear(); err != nil {
		return err
	}
	if err := app.Config.RequireGitHub(); err != nil {
		return err
	}

	wf, err := app.Workflow()
	if err != nil {
		return err
	}

	issueID := ""
	if len(args) == 1 {
		issueID = args[0]
	}

	result, err := wf.Complete(ctx, issueID)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Session completed\n")
	fmt.Printf("  =================\n")
	fmt.Println()
	fmt.Printf("  Issue:         %s\n", result.IssueID)
	fmt.Printf("  Branch:        %s\n", result.Branch)
	fmt.Printf("  Pull request:  %s\n", result.PRURL)
	fmt.Println()
	fmt.Printf("  Commits:       %d\n", result.Metrics.Commits)
	fmt.Printf("  Files changed: %d\n", result.Metrics.FilesChanged)
	fmt.Printf("  Insertions:    %d\n", result.Metrics.Insertions)
	fmt.Printf("  Deletions:     %d\n", result.Metrics.Deletions)
	fmt.Println()

	if result.LinkErr != nil {
		return fmt.Errorf("pull request created, but linking the issue failed: %w", result.LinkErr)
	}
	return nil
}
