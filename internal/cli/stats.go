package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mlombardi/issueflow/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session statistics",
	Long: `Show aggregate statistics over recorded sessions.

Buckets are recomputed from the full session set on every run. A session
counts as successful when its recorded success rate is above 0.7; sessions
without feedback weigh their bucket's averages down.

Examples:
  issueflow stats                       # By issue type
  issueflow stats --by template         # By prompt template
  issueflow stats --by stack --tag go   # With vs without a tech tag`,
	RunE: runStats,
}

// Flags
var (
	statsBy  string
	statsTag string
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsBy, "by", "type", "Grouping: type, template, stack")
	statsCmd.Flags().StringVar(&statsTag, "tag", "", "Tech tag to partition by (required with --by stack)")
}

func runStats(cmd *cobra.Command, args []string) error {
	groupBy, label, err := groupFuncFor(statsBy, statsTag)
	if err != nil {
		return err
	}

	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	buckets, err := app.Sessions.Buckets(ctx, groupBy)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Sessions by %s\n", label)
	fmt.Println()

	if len(buckets) == 0 {
		fmt.Printf("  No sessions recorded yet.\n")
		return nil
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  BUCKET\tSESSIONS\tSUCCESSFUL\tSUCCESS %\tAVG SATISFACTION")
	for _, k := range keys {
		b := buckets[k]
		fmt.Fprintf(w, "  %s\t%d\t%d\t%.0f%%\t%.2f\n",
			k, b.TotalSessions, b.SuccessfulSessions, b.SuccessRatio()*100, b.AvgSatisfaction)
	}
	return w.Flush()
}

func groupFuncFor(by, tag string) (domain.GroupFunc, string, error) {
	switch by {
	case "type":
		return domain.GroupByIssueType, "issue type", nil
	case "template":
		return domain.GroupByTemplate, "template", nil
	case "stack":
		if tag == "" {
			return nil, "", fmt.Errorf("--by stack requires --tag")
		}
		return domain.GroupByTechTag(tag), fmt.Sprintf("tech stack (%s)", tag), nil
	default:
		return nil, "", fmt.Errorf("unknown grouping %q (expected type, template or stack)", by)
	}
}
