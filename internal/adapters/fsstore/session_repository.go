package fsstore

import (
	"context"

	"github.com/mlombardi/issueflow/internal/domain"
)

type SessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.SessionRecord) error {
	return r.store.writeJSON(sessionsDir, session.SessionID, session)
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.SessionRecord, error) {
	var session domain.SessionRecord
	found, err := r.store.readJSON(sessionsDir, id, &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &session, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.SessionRecord) error {
	return r.store.writeJSON(sessionsDir, session.SessionID, session)
}

func (r *SessionRepository) List(ctx context.Context) ([]*domain.SessionRecord, error) {
	keys, err := r.store.listKeys(sessionsDir)
	if err != nil {
		return nil, err
	}

	sessions := make([]*domain.SessionRecord, 0, len(keys))
	for _, key := range keys {
		var session domain.SessionRecord
		found, err := r.store.readJSON(sessionsDir, key, &session)
		if err != nil {
			return nil, err
		}
		if found {
			sessions = append(sessions, &session)
		}
	}
	return sessions, nil
}
