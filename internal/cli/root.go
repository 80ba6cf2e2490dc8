package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "issueflow",
	Short: "Issue-driven development workflow automation",
	Long: `issueflow automates the loop between your issue tracker, git and an AI
coding assistant.

Start a session from a Linear issue to get a branch and a composed prompt,
complete it to push, open a pull request and close the issue, and record
feedback so prompt templates improve over time.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
