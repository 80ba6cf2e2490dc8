// Package memory provides map-backed repositories for tests and dry runs.
package memory

import (
	"context"
	"fmt"

	"github.com/mlombardi/issueflow/internal/domain"
)

type SessionRepository struct {
	sessions map[string]*domain.SessionRecord
	order    []string
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*domain.SessionRecord)}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.SessionRecord) error {
	if _, ok := r.sessions[session.SessionID]; !ok {
		r.order = append(r.order, session.SessionID)
	}
	dup := *session
	r.sessions[session.SessionID] = &dup
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.SessionRecord, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	dup := *session
	return &dup, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.SessionRecord) error {
	return r.Create(ctx, session)
}

func (r *SessionRepository) List(ctx context.Context) ([]*domain.SessionRecord, error) {
	out := make([]*domain.SessionRecord, 0, len(r.order))
	for _, id := range r.order {
		dup := *r.sessions[id]
		out = append(out, &dup)
	}
	return out, nil
}

type ABTestRepository struct {
	tests map[string]*domain.ABTest
	order []string
}

func NewABTestRepository() *ABTestRepository {
	return &ABTestRepository{tests: make(map[string]*domain.ABTest)}
}

func (r *ABTestRepository) Create(ctx context.Context, test *domain.ABTest) error {
	if _, ok := r.tests[test.TestName]; ok {
		return fmt.Errorf("test %q already exists", test.TestName)
	}
	r.order = append(r.order, test.TestName)
	dup := *test
	r.tests[test.TestName] = &dup
	return nil
}

func (r *ABTestRepository) GetByName(ctx context.Context, name string) (*domain.ABTest, error) {
	test, ok := r.tests[name]
	if !ok {
		return nil, nil
	}
	dup := *test
	return &dup, nil
}

func (r *ABTestRepository) Update(ctx context.Context, test *domain.ABTest) error {
	if _, ok := r.tests[test.TestName]; !ok {
		r.order = append(r.order, test.TestName)
	}
	dup := *test
	r.tests[test.TestName] = &dup
	return nil
}

func (r *ABTestRepository) List(ctx context.Context) ([]*domain.ABTest, error) {
	out := make([]*domain.ABTest, 0, len(r.order))
	for _, name := range r.order {
		dup := *r.tests[name]
		out = append(out, &dup)
	}
	return out, nil
}

func (r *ABTestRepository) ListActive(ctx context.Context) ([]*domain.ABTest, error) {
	all, _ := r.List(ctx)
	active := make([]*domain.ABTest, 0, len(all))
	for _, t := range all {
		if t.IsActive() {
			active = append(active, t)
		}
	}
	return active, nil
}
