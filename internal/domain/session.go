package domain

import "time"

// Session status values. A record is created as initiated and moves to
// completed exactly once, when feedback arrives.
const (
	StatusInitiated = "initiated"
	StatusCompleted = "completed"
)

// Well-known issue types. The set is open: callers may introduce new values,
// so issue type is carried as a plain string tag everywhere.
const (
	IssueTypeBug         = "bug"
	IssueTypeFeature     = "feature"
	IssueTypeEnhancement = "enhancement"
	IssueTypeTask        = "task"
)

// SessionRecord is one recorded prompt/outcome interaction.
type SessionRecord struct {
	SessionID       string          `json:"session_id"`
	IssueID         string          `json:"issue_id"`
	IssueType       string          `json:"issue_type"`
	ProjectContext  ProjectContext  `json:"project_context"`
	Prompt          PromptInfo      `json:"prompt"`
	ResponseQuality ResponseQuality `json:"response_quality"`
	Outcome         Outcome         `json:"outcome"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`

	// Set only when the session's prompt came from an A/B test variant.
	ABTest    *string `json:"ab_test,omitempty"`
	ABVariant *string `json:"ab_variant,omitempty"`
}

type ProjectContext struct {
	Branch       string    `json:"branch"`
	TechStack    []string  `json:"tech_stack"`
	FilesChanged []string  `json:"files_changed"`
	Timestamp    time.Time `json:"timestamp"`
}

type PromptInfo struct {
	Original      string  `json:"original"`
	Modifications *string `json:"modifications,omitempty"`
	TemplateUsed  string  `json:"template_used"`
}

// ResponseQuality holds externally supplied ratings. Both fields are nil
// until feedback is recorded; once set, the success rate is trusted as-is
// and never recomputed.
type ResponseQuality struct {
	SuccessRate      *float64 `json:"success_rate,omitempty"`      // [0,1]
	UserSatisfaction *float64 `json:"user_satisfaction,omitempty"` // [1,5]
}

type Outcome struct {
	TaskCompleted *bool `json:"task_completed,omitempty"`
	FilesModified *int  `json:"files_modified,omitempty"`
}

// HasTechTag reports whether the session's tech stack contains tag.
func (s *SessionRecord) HasTechTag(tag string) bool {
	for _, t := range s.ProjectContext.TechStack {
		if t == tag {
			return true
		}
	}
	return false
}
