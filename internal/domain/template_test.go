package domain

import (
	"strings"
	"testing"
)

func TestSelectTemplate(t *testing.T) {
	ts := DefaultTemplateSet()

	cases := []struct {
		name      string
		issueType string
		techStack []string
		perf      map[string]TemplatePerformance
		want      string
	}{
		{
			name:      "tech template above thresholds wins",
			issueType: "bug",
			techStack: []string{"react"},
			perf: map[string]TemplatePerformance{
				"react-component": {SuccessRate: 0.75, UsageCount: 5},
				"bug-fix":         {SuccessRate: 0.9, UsageCount: 10},
			},
			want: "react-component",
		},
		{
			name:      "tech template below usage falls through to type mapping",
			issueType: "bug",
			techStack: []string{"react"},
			perf: map[string]TemplatePerformance{
				"react-component": {SuccessRate: 0.9, UsageCount: 2},
				"bug-fix":         {SuccessRate: 0.65, UsageCount: 4},
			},
			want: "bug-fix",
		},
		{
			name:      "react outranks typescript in priority order",
			issueType: "feature",
			techStack: []string{"typescript", "react"},
			perf: map[string]TemplatePerformance{
				"react-component":   {SuccessRate: 0.8, UsageCount: 4},
				"typescript-strict": {SuccessRate: 0.95, UsageCount: 20},
			},
			want: "react-component",
		},
		{
			name:      "success rate exactly at tech threshold is not enough",
			issueType: "task",
			techStack: []string{"go"},
			perf: map[string]TemplatePerformance{
				"go-idiomatic":   {SuccessRate: 0.7, UsageCount: 10},
				"task-checklist": {SuccessRate: 0.7, UsageCount: 10},
			},
			want: "task-checklist",
		},
		{
			name:      "nothing clears a threshold falls back to default",
			issueType: "bug",
			techStack: []string{"react"},
			perf:      map[string]TemplatePerformance{},
			want:      DefaultTemplate,
		},
		{
			name:      "unknown issue type with no tech stack gets default",
			issueType: "chore",
			techStack: nil,
			perf: map[string]TemplatePerformance{
				"bug-fix": {SuccessRate: 0.9, UsageCount: 10},
			},
			want: DefaultTemplate,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ts.SelectTemplate(tc.issueType, tc.techStack, tc.perf)
			if got != tc.want {
				t.Errorf("SelectTemplate(%q, %v) = %q, want %q", tc.issueType, tc.techStack, got, tc.want)
			}
		})
	}
}

func TestTemplateSet_TextFallsBackToDefault(t *testing.T) {
	ts := DefaultTemplateSet()
	if ts.Text("no-such-template") != ts.Texts[DefaultTemplate] {
		t.Error("unknown template name should return the default body")
	}
}

func TestRenderPrompt(t *testing.T) {
	body := "Issue: {{identifier}} {{title}}\n{{description}}\nBranch: {{branch}}\nStack: {{tech_stack}}"
	got := RenderPrompt(body, PromptVars{
		Identifier:  "ENG-42",
		Title:       "Fix login",
		Description: "Users bounce on redirect.",
		Branch:      "eng-42-fix-login",
		TechStack:   []string{"react", "typescript"},
	})

	for _, want := range []string{"ENG-42", "Fix login", "Users bounce on redirect.", "eng-42-fix-login", "react, typescript"} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "{{") {
		t.Errorf("unsubstituted placeholder left in prompt:\n%s", got)
	}
}
