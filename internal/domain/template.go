package domain

import "strings"

// Template selection thresholds. A tech-stack-specific template must have
// proven itself harder than an issue-type mapping before it is preferred.
const (
	TechTemplateMinSuccessRate = 0.7
	TechTemplateMinUsage       = 3
	TypeTemplateMinSuccessRate = 0.6
	TypeTemplateMinUsage       = 2
)

// DefaultTemplate is the hard-coded fallback when no mapping clears its
// threshold.
const DefaultTemplate = "general-default"

// TemplateSet maps issue types and tech-stack tags to template names.
// TechPriority fixes the order in which tech-stack templates are considered.
type TemplateSet struct {
	TechPriority  []string
	TechTemplates map[string]string
	TypeTemplates map[string]string
	Default       string
	Texts         map[string]string
}

// DefaultTemplateSet returns the built-in mapping used when no templates
// file overrides it.
func DefaultTemplateSet() *TemplateSet {
	return &TemplateSet{
		TechPriority: []string{"react", "typescript", "python", "go"},
		TechTemplates: map[string]string{
			"react":      "react-component",
			"typescript": "typescript-strict",
			"python":     "python-idiomatic",
			"go":         "go-idiomatic",
		},
		TypeTemplates: map[string]string{
			IssueTypeBug:         "bug-fix",
			IssueTypeFeature:     "feature-impl",
			IssueTypeEnhancement: "enhancement-impl",
			IssueTypeTask:        "task-checklist",
		},
		Default: DefaultTemplate,
		Texts: map[string]string{
			"bug-fix": "Fix the following bug.\n\nIssue: {{identifier}} {{title}}\n\n{{description}}\n\n" +
				"Reproduce it first, then fix the root cause and add a regression test.",
			"feature-impl": "Implement the following feature.\n\nIssue: {{identifier}} {{title}}\n\n{{description}}\n\n" +
				"Follow the existing project conventions and include tests.",
			"enhancement-impl": "Improve existing behavior as described.\n\nIssue: {{identifier}} {{title}}\n\n{{description}}\n\n" +
				"Keep the change minimal and backward compatible.",
			"task-checklist": "Complete the following task.\n\nIssue: {{identifier}} {{title}}\n\n{{description}}",
			"react-component": "Work on the following React issue.\n\nIssue: {{identifier}} {{title}}\n\n{{description}}\n\n" +
				"Use function components and hooks; colocate tests with the component.",
			"typescript-strict": "Work on the following TypeScript issue.\n\nIssue: {{identifier}} {{title}}\n\n{{description}}\n\n" +
				"Keep strict typing; no any.",
			"python-idiomatic": "Work on the following Python issue.\n\nIssue: {{identifier}} {{title}}\n\n{{description}}",
			"go-idiomatic":     "Work on the following Go issue.\n\nIssue: {{identifier}} {{title}}\n\n{{description}}",
			DefaultTemplate: "Work on the following issue.\n\nIssue: {{identifier}} {{title}}\n\n{{description}}\n\n" +
				"Branch: {{branch}}",
		},
	}
}

// SelectTemplate picks the best template for an issue type and tech stack
// given a performance snapshot. It is a pure function: no I/O beyond reading
// the snapshot.
//
// Tech-stack templates are checked first in the set's fixed priority order,
// each selected only if its recorded success rate and usage clear the tech
// thresholds. The issue-type mapping is next with its softer thresholds, and
// the set's default closes the chain.
func (ts *TemplateSet) SelectTemplate(issueType string, techStack []string, perf map[string]TemplatePerformance) string {
	tags := make(map[string]bool, len(techStack))
	for _, t := range techStack {
		tags[t] = true
	}

	for _, tag := range ts.TechPriority {
		if !tags[tag] {
			continue
		}
		name, ok := ts.TechTemplates[tag]
		if !ok {
			continue
		}
		p := perf[name]
		if p.SuccessRate > TechTemplateMinSuccessRate && p.UsageCount >= TechTemplateMinUsage {
			return name
		}
	}

	if name, ok := ts.TypeTemplates[issueType]; ok {
		p := perf[name]
		if p.SuccessRate > TypeTemplateMinSuccessRate && p.UsageCount >= TypeTemplateMinUsage {
			return name
		}
	}

	return ts.Default
}

// Text returns the template body for a name, falling back to the default
// body when the name is unknown.
func (ts *TemplateSet) Text(name string) string {
	if text, ok := ts.Texts[name]; ok {
		return text
	}
	return ts.Texts[ts.Default]
}

// PromptVars holds the values interpolated into a template body.
type PromptVars struct {
	Identifier  string
	Title       string
	Description string
	Branch      string
	TechStack   []string
}

// RenderPrompt substitutes {{placeholders}} in a template body. Plain string
// replacement, no templating engine: template bodies are operator-authored
// and the variable set is fixed.
func RenderPrompt(body string, vars PromptVars) string {
	r := strings.NewReplacer(
		"{{identifier}}", vars.Identifier,
		"{{title}}", vars.Title,
		"{{description}}", vars.Description,
		"{{branch}}", vars.Branch,
		"{{tech_stack}}", strings.Join(vars.TechStack, ", "),
	)
	return r.Replace(body)
}
