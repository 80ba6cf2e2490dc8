package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlombardi/issueflow/internal/domain"
	"github.com/mlombardi/issueflow/internal/util"
	"github.com/mlombardi/issueflow/internal/workflow"
)

var abtestCmd = &cobra.Command{
	Use:   "abtest",
	Short: "Manage prompt A/B tests",
	Long: `Create, list, stop and analyze A/B tests between two prompt templates.

While a test is active, sessions started for its target issue types get a
variant assigned deterministically from your user key, bypassing the
performance-based template selector.`,
}

var abtestCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create and activate a new A/B test",
	Long: `Create a new A/B test. The test starts active immediately.

Examples:
  issueflow abtest create "bug-tone" \
    --description "Terse vs verbose bug prompts" \
    --target-types bug \
    --template-a "Fix this bug: {{identifier}} {{title}}\n\n{{description}}" \
    --template-b "Work carefully through the following bug...\n\n{{description}}"`,
	Args: cobra.ExactArgs(1),
	RunE: runABTestCreate,
}

var abtestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all A/B tests",
	RunE:  runABTestList,
}

var abtestStopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop an A/B test",
	Long:  `Stop an A/B test. Stopped tests no longer assign variants and cannot be reactivated.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runABTestStop,
}

var abtestResultsCmd = &cobra.Command{
	Use:   "results <name>",
	Short: "Analyze an A/B test",
	Long: `Recompute both variants' metrics from the sessions assigned to the test
and report the winner, if any.

A variant wins only when it is strictly better on both average success rate
and average satisfaction. This is a dominance heuristic, not a significance
test.`,
	Args: cobra.ExactArgs(1),
	RunE: runABTestResults,
}

// Flags
var (
	abtestDescription   string
	abtestTemplateA     string
	abtestTemplateB     string
	abtestVariantAName  string
	abtestVariantBName  string
	abtestTargetTypes   []string
	abtestMinSampleSize int
	abtestTrafficSplit  float64
	abtestSuccessThresh float64
	abtestSatisfThresh  float64
)

func init() {
	rootCmd.AddCommand(abtestCmd)
	abtestCmd.AddCommand(abtestCreateCmd)
	abtestCmd.AddCommand(abtestListCmd)
	abtestCmd.AddCommand(abtestStopCmd)
	abtestCmd.AddCommand(abtestResultsCmd)

	abtestCreateCmd.Flags().StringVar(&abtestDescription, "description", "", "What the test is about")
	abtestCreateCmd.Flags().StringVar(&abtestTemplateA, "template-a", "", "Prompt template for variant A")
	abtestCreateCmd.Flags().StringVar(&abtestTemplateB, "template-b", "", "Prompt template for variant B")
	abtestCreateCmd.Flags().StringVar(&abtestVariantAName, "variant-a-name", "control", "Display name for variant A")
	abtestCreateCmd.Flags().StringVar(&abtestVariantBName, "variant-b-name", "candidate", "Display name for variant B")
	abtestCreateCmd.Flags().StringSliceVar(&abtestTargetTypes, "target-types", nil, "Issue types the test applies to")
	abtestCreateCmd.Flags().IntVar(&abtestMinSampleSize, "min-sample-size", 10, "Sessions per variant before results count")
	abtestCreateCmd.Flags().Float64Var(&abtestTrafficSplit, "traffic-split", 0.5, "Recorded traffic split (assignment itself is hash-based)")
	abtestCreateCmd.Flags().Float64Var(&abtestSuccessThresh, "success-threshold", domain.SuccessThreshold, "Recorded success threshold")
	abtestCreateCmd.Flags().Float64Var(&abtestSatisfThresh, "satisfaction-threshold", 3.5, "Recorded satisfaction threshold")
	_ = abtestCreateCmd.MarkFlagRequired("template-a")
	_ = abtestCreateCmd.MarkFlagRequired("template-b")
	_ = abtestCreateCmd.MarkFlagRequired("target-types")
}

func runABTestCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	test := &domain.ABTest{
		TestName:    args[0],
		Description: abtestDescription,
		Status:      domain.TestStatusActive,
		Variants: domain.Variants{
			A: domain.Variant{Name: abtestVariantAName, Template: abtestTemplateA},
			B: domain.Variant{Name: abtestVariantBName, Template: abtestTemplateB},
		},
		Config: domain.TestConfig{
			TargetIssueTypes:      abtestTargetTypes,
			MinSampleSize:         abtestMinSampleSize,
			TrafficSplit:          abtestTrafficSplit,
			SuccessThreshold:      abtestSuccessThresh,
			SatisfactionThreshold: abtestSatisfThresh,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := app.ABTestRepo.Create(ctx, test); err != nil {
		return err
	}

	fmt.Printf("A/B test %q created and active for issue types: %s\n", test.TestName, strings.Join(test.Config.TargetIssueTypes, ", "))
	return nil
}

func runABTestList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	tests, err := app.ABTestRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(tests) == 0 {
		fmt.Println("No A/B tests yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS\tTARGETS\tCREATED\tWINNER")
	for _, t := range tests {
		winner := "-"
		if t.Results.WinningVariant != nil {
			winner = *t.Results.WinningVariant
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.TestName,
			t.Status,
			strings.Join(t.Config.TargetIssueTypes, ","),
			util.FormatDateISO(t.CreatedAt),
			winner,
		)
	}
	return w.Flush()
}

func runABTestStop(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	test, err := app.ABTestRepo.GetByName(ctx, args[0])
	if err != nil {
		return err
	}
	if test == nil {
		return fmt.Errorf("A/B test %q not found", args[0])
	}
	if !test.IsActive() {
		fmt.Printf("A/B test %q is already stopped.\n", test.TestName)
		return nil
	}

	now := time.Now().UTC()
	test.Status = domain.TestStatusStopped
	test.StoppedAt = &now
	if err := app.ABTestRepo.Update(ctx, test); err != nil {
		return err
	}

	fmt.Printf("A/B test %q stopped.\n", test.TestName)
	return nil
}

func runABTestResults(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	wf := &workflow.Service{Sessions: app.Sessions, ABTests: app.ABTestRepo}
	test, err := wf.AnalyzeTest(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  A/B test: %s\n", test.TestName)
	fmt.Printf("  ==========%s\n", strings.Repeat("=", len(test.TestName)))
	fmt.Println()
	if test.Description != "" {
		fmt.Printf("  %s\n", test.Description)
		fmt.Println()
	}
	fmt.Printf("  Status:  %s\n", test.Status)
	fmt.Printf("  Targets: %s\n", strings.Join(test.Config.TargetIssueTypes, ", "))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  VARIANT\tSESSIONS\tSUCCESSFUL\tAVG SUCCESS\tAVG SATISFACTION")
	printVariant(w, domain.VariantA, test.Variants.A)
	printVariant(w, domain.VariantB, test.Variants.B)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	if !test.Results.SampleSizeMet {
		fmt.Printf("  Sample size not met (need %d sessions per variant).\n", test.Config.MinSampleSize)
	}
	if test.Results.WinningVariant != nil {
		fmt.Printf("  Winner: variant %s\n", *test.Results.WinningVariant)
	} else {
		fmt.Printf("  No winner: neither variant dominates on both metrics.\n")
	}
	return nil
}

func printVariant(w *tabwriter.Writer, label string, v domain.Variant) {
	m := v.Metrics
	fmt.Fprintf(w, "  %s (%s)\t%d\t%d\t%.2f\t%.2f\n",
		label, v.Name, m.TotalSessions, m.SuccessfulSessions, m.AvgSuccessRate, m.AvgSatisfaction)
}
