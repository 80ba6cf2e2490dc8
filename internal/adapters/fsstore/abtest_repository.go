package fsstore

import (
	"context"
	"fmt"

	"github.com/mlombardi/issueflow/internal/domain"
)

type ABTestRepository struct {
	store *Store
}

func NewABTestRepository(store *Store) *ABTestRepository {
	return &ABTestRepository{store: store}
}

func (r *ABTestRepository) Create(ctx context.Context, test *domain.ABTest) error {
	existing, err := r.GetByName(ctx, test.TestName)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("test %q already exists", test.TestName)
	}
	return r.store.writeJSON(testsDir, test.TestName, test)
}

func (r *ABTestRepository) GetByName(ctx context.Context, name string) (*domain.ABTest, error) {
	var test domain.ABTest
	found, err := r.store.readJSON(testsDir, name, &test)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &test, nil
}

func (r *ABTestRepository) Update(ctx context.Context, test *domain.ABTest) error {
	return r.store.writeJSON(testsDir, test.TestName, test)
}

func (r *ABTestRepository) List(ctx context.Context) ([]*domain.ABTest, error) {
	keys, err := r.store.listKeys(testsDir)
	if err != nil {
		return nil, err
	}

	tests := make([]*domain.ABTest, 0, len(keys))
	for _, key := range keys {
		var test domain.ABTest
		found, err := r.store.readJSON(testsDir, key, &test)
		if err != nil {
			return nil, err
		}
		if found {
			tests = append(tests, &test)
		}
	}
	return tests, nil
}

func (r *ABTestRepository) ListActive(ctx context.Context) ([]*domain.ABTest, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*domain.ABTest, 0, len(all))
	for _, t := range all {
		if t.IsActive() {
			active = append(active, t)
		}
	}
	return active, nil
}
