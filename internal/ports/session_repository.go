package ports

import (
	"context"

	"github.com/mlombardi/issueflow/internal/domain"
)

// SessionRepository owns SessionRecord persistence. GetByID returns
// (nil, nil) for unknown IDs; callers treat a missing record as a soft
// failure, not an error.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.SessionRecord) error
	GetByID(ctx context.Context, id string) (*domain.SessionRecord, error)
	Update(ctx context.Context, session *domain.SessionRecord) error
	List(ctx context.Context) ([]*domain.SessionRecord, error)
}
