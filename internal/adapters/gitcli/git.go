// Package gitcli wraps the local git binary for the few operations the
// workflow needs.
package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/mlombardi/issueflow/internal/ports"
)

type Git struct {
	workdir string
}

func New(workdir string) *Git {
	return &Git{workdir: workdir}
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.workdir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (g *Git) CurrentBranch(ctx context.Context) (string, error) {
	return g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

func (g *Git) CheckoutNewBranch(ctx context.Context, name string) error {
	_, err := g.run(ctx, "checkout", "-b", name)
	return err
}

// PushCurrentBranch pushes the checked-out branch and sets its upstream.
// Output goes to the operator's terminal: push progress is useful.
func (g *Git) PushCurrentBranch(ctx context.Context) error {
	branch, err := g.CurrentBranch(ctx)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "git", "push", "-u", "origin", branch)
	cmd.Dir = g.workdir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git push failed: %w", err)
	}
	return nil
}

var shortstatPattern = regexp.MustCompile(`(\d+) files? changed(?:, (\d+) insertions?\(\+\))?(?:, (\d+) deletions?\(-\))?`)

// MetricsAgainst summarizes the commits on the current branch that are not
// on base.
func (g *Git) MetricsAgainst(ctx context.Context, base string) (*ports.CommitMetrics, error) {
	countOut, err := g.run(ctx, "rev-list", "--count", base+"..HEAD")
	if err != nil {
		return nil, err
	}
	commits, err := strconv.Atoi(countOut)
	if err != nil {
		return nil, fmt.Errorf("failed to parse commit count %q: %w", countOut, err)
	}

	statOut, err := g.run(ctx, "diff", "--shortstat", base+"...HEAD")
	if err != nil {
		return nil, err
	}

	metrics := &ports.CommitMetrics{Commits: commits}
	files, insertions, deletions := ParseShortstat(statOut)
	metrics.FilesChanged = files
	metrics.Insertions = insertions
	metrics.Deletions = deletions
	return metrics, nil
}

// ChangedFiles lists the paths touched by the branch relative to base.
func (g *Git) ChangedFiles(ctx context.Context, base string) ([]string, error) {
	out, err := g.run(ctx, "diff", "--name-only", base+"...HEAD")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// ParseShortstat extracts counts from a `git diff --shortstat` line like
// "3 files changed, 42 insertions(+), 7 deletions(-)". An empty diff yields
// all zeros.
func ParseShortstat(line string) (files, insertions, deletions int) {
	m := shortstatPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, 0
	}
	files, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		insertions, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		deletions, _ = strconv.Atoi(m[3])
	}
	return files, insertions, deletions
}
