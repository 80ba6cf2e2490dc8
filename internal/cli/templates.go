package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show the effective template set and its performance",
	Long: `Show the template set the selector works with, merged from the built-in
defaults and the overrides file (ISSUEFLOW_TEMPLATES_FILE), together with
each template's recorded performance.`,
	RunE: runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	perf, err := app.Sessions.TemplatePerformance(ctx)
	if err != nil {
		return err
	}
	ts := app.Templates

	fmt.Println()
	fmt.Printf("  Template set\n")
	fmt.Printf("  ============\n")
	fmt.Println()
	fmt.Printf("  Tech priority: %v\n", ts.TechPriority)
	fmt.Printf("  Default:       %s\n", ts.Default)
	fmt.Println()

	names := make(map[string]bool)
	for _, n := range ts.TechTemplates {
		names[n] = true
	}
	for _, n := range ts.TypeTemplates {
		names[n] = true
	}
	names[ts.Default] = true

	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  TEMPLATE\tUSAGE\tSUCCESS RATE")
	for _, n := range sorted {
		p, ok := perf[n]
		if !ok {
			fmt.Fprintf(w, "  %s\t0\t-\n", n)
			continue
		}
		fmt.Fprintf(w, "  %s\t%d\t%.2f\n", n, p.UsageCount, p.SuccessRate)
	}
	return w.Flush()
}
