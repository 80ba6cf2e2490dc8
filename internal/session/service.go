// Package session implements the session store contract on top of an
// injected repository.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mlombardi/issueflow/internal/domain"
	"github.com/mlombardi/issueflow/internal/ports"
)

// Service owns SessionRecord lifecycle: creation in initiated status and the
// single transition to completed when feedback arrives.
type Service struct {
	repo    ports.SessionRepository
	metrics ports.MetricsExporter
	now     func() time.Time
	newID   func() string
}

func NewService(repo ports.SessionRepository, metrics ports.MetricsExporter) *Service {
	return &Service{
		repo:    repo,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
}

// CreateParams carries everything known at session start.
type CreateParams struct {
	IssueID        string
	IssueType      string
	PromptText     string
	TemplateName   string
	ProjectContext domain.ProjectContext

	// Non-nil when the prompt came from an A/B test variant.
	ABTest    *string
	ABVariant *string
}

// Create persists a new record in initiated status and returns its ID.
// Quality and outcome stay unset until feedback arrives.
func (s *Service) Create(ctx context.Context, p CreateParams) (string, error) {
	record := &domain.SessionRecord{
		SessionID:      s.newID(),
		IssueID:        p.IssueID,
		IssueType:      p.IssueType,
		ProjectContext: p.ProjectContext,
		Prompt: domain.PromptInfo{
			Original:     p.PromptText,
			TemplateUsed: p.TemplateName,
		},
		Status:    domain.StatusInitiated,
		CreatedAt: s.now(),
		ABTest:    p.ABTest,
		ABVariant: p.ABVariant,
	}
	if record.ProjectContext.Timestamp.IsZero() {
		record.ProjectContext.Timestamp = record.CreatedAt
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.metrics.SessionStarted(ctx, p.IssueType, p.TemplateName)
	return record.SessionID, nil
}

// OutcomeParams carries operator feedback for a session.
type OutcomeParams struct {
	SuccessRate   float64
	Satisfaction  float64
	TaskCompleted bool
	FilesModified int
}

// RecordOutcome fills quality and outcome and marks the session completed.
// Repeated calls overwrite prior values; status always ends at completed.
// An unknown session ID is a no-op, reported through the found flag so the
// caller can inform the operator without failing.
func (s *Service) RecordOutcome(ctx context.Context, sessionID string, o OutcomeParams) (found bool, err error) {
	record, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}

	record.ResponseQuality.SuccessRate = &o.SuccessRate
	record.ResponseQuality.UserSatisfaction = &o.Satisfaction
	record.Outcome.TaskCompleted = &o.TaskCompleted
	record.Outcome.FilesModified = &o.FilesModified
	record.Status = domain.StatusCompleted

	if err := s.repo.Update(ctx, record); err != nil {
		return true, fmt.Errorf("failed to update session: %w", err)
	}

	s.metrics.OutcomeRecorded(ctx, record.IssueType, o.SuccessRate, o.Satisfaction)
	return true, nil
}

// Buckets recomputes bucket statistics over the full record set.
func (s *Service) Buckets(ctx context.Context, groupBy domain.GroupFunc) (map[string]domain.BucketStats, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ComputeBuckets(sessions, groupBy), nil
}

// SessionsForTest returns the sessions recorded under an A/B test, keyed by
// variant name.
func (s *Service) SessionsForTest(ctx context.Context, testName string) (map[string][]*domain.SessionRecord, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	byVariant := make(map[string][]*domain.SessionRecord)
	for _, rec := range sessions {
		if rec.ABTest == nil || *rec.ABTest != testName || rec.ABVariant == nil {
			continue
		}
		byVariant[*rec.ABVariant] = append(byVariant[*rec.ABVariant], rec)
	}
	return byVariant, nil
}

// TemplatePerformance derives the selector's snapshot from the by-template
// buckets.
func (s *Service) TemplatePerformance(ctx context.Context) (map[string]domain.TemplatePerformance, error) {
	buckets, err := s.Buckets(ctx, domain.GroupByTemplate)
	if err != nil {
		return nil, err
	}
	return domain.TemplatePerformanceFromBuckets(buckets), nil
}
