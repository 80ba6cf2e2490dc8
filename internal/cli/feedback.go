package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlombardi/issueflow/internal/session"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback <session-id>",
	Short: "Record the outcome of a session",
	Long: `Record quality feedback for a completed session.

Success rate grades how much of the assistant's output was usable (0 to 1),
satisfaction is your overall rating (1 to 5). Repeating the command for the
same session overwrites the previous feedback.

Examples:
  issueflow feedback 7e6d... --success-rate 0.9 --satisfaction 5
  issueflow feedback 7e6d... --success-rate 0.4 --satisfaction 2 --completed=false`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedback,
}

// Flags
var (
	feedbackSuccessRate   float64
	feedbackSatisfaction  float64
	feedbackCompleted     bool
	feedbackFilesModified int
)

func init() {
	rootCmd.AddCommand(feedbackCmd)

	feedbackCmd.Flags().Float64Var(&feedbackSuccessRate, "success-rate", 0, "Fraction of usable output, 0 to 1")
	feedbackCmd.Flags().Float64Var(&feedbackSatisfaction, "satisfaction", 0, "Overall rating, 1 to 5")
	feedbackCmd.Flags().BoolVar(&feedbackCompleted, "completed", true, "Whether the task was completed")
	feedbackCmd.Flags().IntVar(&feedbackFilesModified, "files-modified", 0, "Number of files modified")
	_ = feedbackCmd.MarkFlagRequired("success-rate")
	_ = feedbackCmd.MarkFlagRequired("satisfaction")
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if feedbackSuccessRate < 0 || feedbackSuccessRate > 1 {
		return fmt.Errorf("success rate must be between 0 and 1, got %v", feedbackSuccessRate)
	}
	if feedbackSatisfaction < 1 || feedbackSatisfaction > 5 {
		return fmt.Errorf("satisfaction must be between 1 and 5, got %v", feedbackSatisfaction)
	}

	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	found, err := app.Sessions.RecordOutcome(ctx, args[0], session.OutcomeParams{
		SuccessRate:   feedbackSuccessRate,
		Satisfaction:  feedbackSatisfaction,
		TaskCompleted: feedbackCompleted,
		FilesModified: feedbackFilesModified,
	})
	if err != nil {
		return err
	}
	if !found {
		fmt.Printf("Session %s not found; nothing recorded.\n", args[0])
		return nil
	}

	fmt.Printf("Feedback recorded for session %s.\n", args[0])
	return nil
}
