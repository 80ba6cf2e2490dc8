package libsqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mlombardi/issueflow/internal/domain"
)

type ABTestRepository struct {
	db *DB
}

func NewABTestRepository(db *DB) *ABTestRepository {
	return &ABTestRepository{db: db}
}

func (r *ABTestRepository) Create(ctx context.Context, test *domain.ABTest) error {
	doc, err := json.Marshal(test)
	if err != nil {
		return fmt.Errorf("failed to marshal test: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO abtests (name, doc, status, created_at) VALUES (?, ?, ?, ?)
	`, test.TestName, string(doc), test.Status, test.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create test %q: %w", test.TestName, err)
	}
	return nil
}

func (r *ABTestRepository) Update(ctx context.Context, test *domain.ABTest) error {
	doc, err := json.Marshal(test)
	if err != nil {
		return fmt.Errorf("failed to marshal test: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO abtests (name, doc, status, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET doc = excluded.doc, status = excluded.status
	`, test.TestName, string(doc), test.Status, test.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to update test %q: %w", test.TestName, err)
	}
	return nil
}

func (r *ABTestRepository) GetByName(ctx context.Context, name string) (*domain.ABTest, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM abtests WHERE name = ?`, name).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	var test domain.ABTest
	if err := json.Unmarshal([]byte(doc), &test); err != nil {
		return nil, fmt.Errorf("failed to parse test %s: %w", name, err)
	}
	return &test, nil
}

func (r *ABTestRepository) List(ctx context.Context) ([]*domain.ABTest, error) {
	return r.list(ctx, `SELECT doc FROM abtests ORDER BY created_at, name`)
}

func (r *ABTestRepository) ListActive(ctx context.Context) ([]*domain.ABTest, error) {
	return r.list(ctx, `SELECT doc FROM abtests WHERE status = 'active' ORDER BY created_at, name`)
}

func (r *ABTestRepository) list(ctx context.Context, query string) ([]*domain.ABTest, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	defer rows.Close()

	var tests []*domain.ABTest
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}
		var test domain.ABTest
		if err := json.Unmarshal([]byte(doc), &test); err != nil {
			return nil, fmt.Errorf("failed to parse test: %w", err)
		}
		tests = append(tests, &test)
	}
	return tests, rows.Err()
}
