package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mlombardi/issueflow/internal/util"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions",
	RunE:  runSessions,
}

var sessionsLimit int

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Maximum number of sessions to show")
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	sessions, err := app.SessionRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return nil
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	if sessionsLimit > 0 && len(sessions) > sessionsLimit {
		sessions = sessions[len(sessions)-sessionsLimit:]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tISSUE\tTYPE\tTEMPLATE\tSTATUS\tSUCCESS\tSAT\tCREATED")
	for _, s := range sessions {
		success := "-"
		if s.ResponseQuality.SuccessRate != nil {
			success = fmt.Sprintf("%.2f", *s.ResponseQuality.SuccessRate)
		}
		satisfaction := "-"
		if s.ResponseQuality.UserSatisfaction != nil {
			satisfaction = fmt.Sprintf("%.1f", *s.ResponseQuality.UserSatisfaction)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			util.Truncate(s.SessionID, 12),
			s.IssueID,
			s.IssueType,
			util.Truncate(s.Prompt.TemplateUsed, 24),
			s.Status,
			success,
			satisfaction,
			util.FormatDateTime(s.CreatedAt),
		)
	}
	return w.Flush()
}
