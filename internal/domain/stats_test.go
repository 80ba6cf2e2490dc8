package domain

import (
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func session(issueType, template string, successRate, satisfaction *float64, tech ...string) *SessionRecord {
	return &SessionRecord{
		IssueType: issueType,
		Prompt:    PromptInfo{TemplateUsed: template},
		ProjectContext: ProjectContext{
			TechStack: tech,
		},
		ResponseQuality: ResponseQuality{
			SuccessRate:      successRate,
			UserSatisfaction: satisfaction,
		},
	}
}

func TestComputeBuckets_ByIssueType(t *testing.T) {
	sessions := []*SessionRecord{
		session("bug", "bug-fix", f(0.9), f(5)),
		session("bug", "bug-fix", f(0.7), f(3)), // exactly threshold: not successful
		session("bug", "bug-fix", nil, nil),     // no feedback: counts, drags average
		session("feature", "feature-impl", f(0.8), f(4)),
	}

	buckets := ComputeBuckets(sessions, GroupByIssueType)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}

	bug := buckets["bug"]
	if bug.TotalSessions != 3 {
		t.Errorf("bug total = %d, want 3", bug.TotalSessions)
	}
	if bug.SuccessfulSessions != 1 {
		t.Errorf("bug successful = %d, want 1 (0.7 must not count)", bug.SuccessfulSessions)
	}
	// (5 + 3 + 0) / 3, unset satisfaction coerces to 0
	if math.Abs(bug.AvgSatisfaction-8.0/3.0) > 1e-9 {
		t.Errorf("bug avg satisfaction = %v, want %v", bug.AvgSatisfaction, 8.0/3.0)
	}

	feature := buckets["feature"]
	if feature.TotalSessions != 1 || feature.SuccessfulSessions != 1 {
		t.Errorf("feature stats = %+v", feature)
	}
}

func TestComputeBuckets_EmptyInput(t *testing.T) {
	buckets := ComputeBuckets(nil, GroupByIssueType)
	if len(buckets) != 0 {
		t.Errorf("expected zero-session buckets to be omitted, got %d buckets", len(buckets))
	}
}

func TestComputeBuckets_Deterministic(t *testing.T) {
	sessions := []*SessionRecord{
		session("bug", "bug-fix", f(0.9), f(5)),
		session("task", "task-checklist", f(0.5), f(2)),
	}

	first := ComputeBuckets(sessions, GroupByIssueType)
	second := ComputeBuckets(sessions, GroupByIssueType)

	if len(first) != len(second) {
		t.Fatalf("bucket counts differ: %d vs %d", len(first), len(second))
	}
	for key, b := range first {
		if second[key] != b {
			t.Errorf("bucket %q differs between runs: %+v vs %+v", key, b, second[key])
		}
	}
}

func TestComputeBuckets_TechTagPartition(t *testing.T) {
	sessions := []*SessionRecord{
		session("bug", "bug-fix", f(0.9), f(5), "react", "typescript"),
		session("bug", "bug-fix", f(0.8), f(4), "go"),
		session("feature", "feature-impl", nil, nil, "react"),
	}

	buckets := ComputeBuckets(sessions, GroupByTechTag("react"))

	if buckets["react"].TotalSessions != 2 {
		t.Errorf("react total = %d, want 2", buckets["react"].TotalSessions)
	}
	if buckets["without-react"].TotalSessions != 1 {
		t.Errorf("without-react total = %d, want 1", buckets["without-react"].TotalSessions)
	}
}

func TestComputeBuckets_SkipsSessionsWithoutKey(t *testing.T) {
	sessions := []*SessionRecord{
		session("", "bug-fix", f(0.9), f(5)),
		session("bug", "", f(0.8), f(4)),
	}

	byType := ComputeBuckets(sessions, GroupByIssueType)
	if len(byType) != 1 {
		t.Errorf("by type: expected 1 bucket, got %d", len(byType))
	}

	byTemplate := ComputeBuckets(sessions, GroupByTemplate)
	if len(byTemplate) != 1 {
		t.Errorf("by template: expected 1 bucket, got %d", len(byTemplate))
	}
}

func TestTemplatePerformanceFromBuckets(t *testing.T) {
	buckets := map[string]BucketStats{
		"bug-fix": {Key: "bug-fix", TotalSessions: 4, SuccessfulSessions: 3, AvgSatisfaction: 4.2},
	}

	perf := TemplatePerformanceFromBuckets(buckets)

	p := perf["bug-fix"]
	if p.UsageCount != 4 {
		t.Errorf("usage count = %d, want 4", p.UsageCount)
	}
	if math.Abs(p.SuccessRate-0.75) > 1e-9 {
		t.Errorf("success rate = %v, want 0.75", p.SuccessRate)
	}
}

func TestSuccessRatio_ZeroSessions(t *testing.T) {
	var b BucketStats
	if got := b.SuccessRatio(); got != 0 {
		t.Errorf("SuccessRatio() = %v, want 0", got)
	}
}
