package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <issue-id>",
	Short: "Start working on a Linear issue",
	Long: `Start a development session for a Linear issue.

Fetches the issue, creates and checks out a branch named after it, composes
a prompt from the best-performing template (or an active A/B test variant)
and launches the assistant interactively.

Examples:
  issueflow start ENG-42`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Config.RequireLinear(); err != nil {
		return err
	}

	wf, err := app.Workflow()
	if err != nil {
		return err
	}

	result, err := wf.Start(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Session started\n")
	fmt.Printf("  ===============\n")
	fmt.Println()
	fmt.Printf("  Session:   %s\n", result.SessionID)
	fmt.Printf("  Branch:    %s\n", result.Branch)
	fmt.Printf("  Type:      %s\n", result.IssueType)
	fmt.Printf("  Template:  %s\n", result.TemplateName)
	if result.TestName != "" {
		fmt.Printf("  A/B test:  %s (variant %s)\n", result.TestName, result.Variant)
	}
	fmt.Println()
	fmt.Printf("  Record feedback when done:\n")
	fmt.Printf("    issueflow feedback %s --success-rate 0.9 --satisfaction 5\n", result.SessionID)
	if result.ExitCode != 0 {
		fmt.Println()
		fmt.Printf("  Assistant exited with code %d\n", result.ExitCode)
	}
	return nil
}
