package session

import (
	"context"
	"testing"
	"time"

	"github.com/mlombardi/issueflow/internal/adapters/memory"
	"github.com/mlombardi/issueflow/internal/adapters/otel"
	"github.com/mlombardi/issueflow/internal/domain"
)

func testService(t *testing.T) (*Service, *memory.SessionRepository) {
	t.Helper()
	repo := memory.NewSessionRepository()
	svc := NewService(repo, otel.NewNoOpExporter())
	return svc, repo
}

func TestCreate_InitiatedWithUnsetFields(t *testing.T) {
	ctx := context.Background()
	svc, repo := testService(t)

	id, err := svc.Create(ctx, CreateParams{
		IssueID:      "ENG-1",
		IssueType:    "bug",
		PromptText:   "fix it",
		TemplateName: "bug-fix",
		ProjectContext: domain.ProjectContext{
			Branch:    "eng-1-fix",
			TechStack: []string{"go"},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty session ID")
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.StatusInitiated {
		t.Errorf("status = %q, want initiated", got.Status)
	}
	if got.ResponseQuality.SuccessRate != nil || got.ResponseQuality.UserSatisfaction != nil {
		t.Error("quality fields must be unset at creation")
	}
	if got.Outcome.TaskCompleted != nil || got.Outcome.FilesModified != nil {
		t.Error("outcome fields must be unset at creation")
	}
	if got.ProjectContext.Timestamp.IsZero() {
		t.Error("project context timestamp should default to creation time")
	}
}

func TestCreate_GeneratesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id, err := svc.Create(ctx, CreateParams{IssueID: "ENG-1", IssueType: "task"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate session ID %q", id)
		}
		seen[id] = true
	}
}

func TestRecordOutcome(t *testing.T) {
	ctx := context.Background()
	svc, repo := testService(t)

	id, err := svc.Create(ctx, CreateParams{IssueID: "ENG-1", IssueType: "bug"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := svc.RecordOutcome(ctx, id, OutcomeParams{
		SuccessRate:   0.9,
		Satisfaction:  5,
		TaskCompleted: true,
		FilesModified: 3,
	})
	if err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if !found {
		t.Fatal("expected session to be found")
	}

	got, _ := repo.GetByID(ctx, id)
	if got.Status != domain.StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.ResponseQuality.SuccessRate == nil || *got.ResponseQuality.SuccessRate != 0.9 {
		t.Errorf("success rate = %v", got.ResponseQuality.SuccessRate)
	}
	if got.Outcome.FilesModified == nil || *got.Outcome.FilesModified != 3 {
		t.Errorf("files modified = %v", got.Outcome.FilesModified)
	}
}

func TestRecordOutcome_UnknownIDIsNoOp(t *testing.T) {
	svc, _ := testService(t)

	found, err := svc.RecordOutcome(context.Background(), "no-such-session", OutcomeParams{})
	if err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if found {
		t.Error("unknown ID must report found=false")
	}
}

func TestRecordOutcome_RepeatOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, repo := testService(t)

	id, _ := svc.Create(ctx, CreateParams{IssueID: "ENG-1", IssueType: "bug"})

	if _, err := svc.RecordOutcome(ctx, id, OutcomeParams{SuccessRate: 0.5, Satisfaction: 2}); err != nil {
		t.Fatalf("first RecordOutcome: %v", err)
	}
	if _, err := svc.RecordOutcome(ctx, id, OutcomeParams{SuccessRate: 0.9, Satisfaction: 4}); err != nil {
		t.Fatalf("second RecordOutcome: %v", err)
	}

	got, _ := repo.GetByID(ctx, id)
	if *got.ResponseQuality.UserSatisfaction != 4 {
		t.Errorf("satisfaction = %v, want only the second score to remain", *got.ResponseQuality.UserSatisfaction)
	}
	if got.Status != domain.StatusCompleted {
		t.Errorf("status = %q", got.Status)
	}
}

func TestEndToEnd_CreateAggregateFeedbackReaggregate(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t)

	id, err := svc.Create(ctx, CreateParams{IssueID: "ENG-9", IssueType: "bug", TemplateName: "bug-fix"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	buckets, err := svc.Buckets(ctx, domain.GroupByIssueType)
	if err != nil {
		t.Fatalf("Buckets: %v", err)
	}
	bug := buckets["bug"]
	if bug.TotalSessions != 1 || bug.SuccessfulSessions != 0 {
		t.Errorf("pre-feedback bucket = %+v, want total=1 successful=0", bug)
	}

	if _, err := svc.RecordOutcome(ctx, id, OutcomeParams{SuccessRate: 0.9, Satisfaction: 5, TaskCompleted: true}); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	buckets, err = svc.Buckets(ctx, domain.GroupByIssueType)
	if err != nil {
		t.Fatalf("Buckets: %v", err)
	}
	bug = buckets["bug"]
	if bug.SuccessfulSessions != 1 {
		t.Errorf("post-feedback successful = %d, want 1", bug.SuccessfulSessions)
	}
	if bug.AvgSatisfaction != 5 {
		t.Errorf("post-feedback avg satisfaction = %v, want 5", bug.AvgSatisfaction)
	}
}

func TestService_DeterministicClockAndIDs(t *testing.T) {
	repo := memory.NewSessionRepository()
	svc := NewService(repo, otel.NewNoOpExporter())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	svc.newID = func() string { return "fixed-id" }

	id, err := svc.Create(context.Background(), CreateParams{IssueID: "ENG-1", IssueType: "task"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("id = %q", id)
	}

	got, _ := repo.GetByID(context.Background(), "fixed-id")
	if !got.CreatedAt.Equal(fixed) {
		t.Errorf("created at = %v", got.CreatedAt)
	}
}
