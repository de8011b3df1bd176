package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

// SessionStore keeps the single active user session as plain JSON.
type SessionStore struct {
	kv KeyValueStore
}

// NewSessionStore constructs the session store.
func NewSessionStore(kv KeyValueStore) *SessionStore {
	return &SessionStore{kv: kv}
}

// GetUser returns the active session user; found is false when nobody is logged in.
func (s *SessionStore) GetUser(ctx context.Context) (*models.User, bool, error) {
	raw, err := s.kv.Get(ctx, SessionKey)
	if err != nil {
		if errors.Is(err, appErrors.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(raw) == 0 {
		return nil, false, nil
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, false, fmt.Errorf("decode session: %w", err)
	}
	return &user, true, nil
}

// SetUser replaces the active session.
func (s *SessionStore) SetUser(ctx context.Context, user models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.kv.Set(ctx, SessionKey, payload)
}

// ClearUser removes the active session.
func (s *SessionStore) ClearUser(ctx context.Context) error {
	return s.kv.Delete(ctx, SessionKey)
}
