package ports

import (
	"context"

	"github.com/mlombardi/issueflow/internal/domain"
)

// ABTestRepository owns ABTest persistence, keyed by test name. GetByName
// returns (nil, nil) for unknown names.
type ABTestRepository interface {
	Create(ctx context.Context, test *domain.ABTest) error
	GetByName(ctx context.Context, name string) (*domain.ABTest, error)
	Update(ctx context.Context, test *domain.ABTest) error
	List(ctx context.Context) ([]*domain.ABTest, error)
	ListActive(ctx context.Context) ([]*domain.ABTest, error)
}
