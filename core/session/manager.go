package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crowdpredictor/trafficmap/core/logger"
)

// Manager is the only place sessions are created and destroyed.
// Login is the constructor, Logout the destructor, Restore reads what a
// previous run persisted.
type Manager struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL bounds how long records are kept in the store. Zero keeps them until logout.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl >= 0 {
			m.ttl = ttl
		}
	}
}

// WithLogger sets the logger used to report discarded records.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a session manager over store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore loads the session persisted under id. Nothing persisted yields the
// anonymous session. A malformed record (one half missing, blank or spaced
// token, user that is not an object with an id) is deleted and also yields
// the anonymous session. Only store failures are returned as errors.
func (m *Manager) Restore(ctx context.Context, id string) (Session, error) {
	rec, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Anonymous(), nil
	}
	if err != nil {
		return Anonymous(), fmt.Errorf("session: restore: %w", err)
	}

	sess, err := rec.Parse()
	if err == nil {
		return sess, nil
	}

	m.logger.WarnContext(ctx, "discarding malformed session record",
		logger.Component("session"),
		logger.Error(err),
	)
	if err := m.store.Delete(ctx, id); err != nil {
		return Anonymous(), fmt.Errorf("session: clear malformed record: %w", err)
	}
	return Anonymous(), nil
}

// Login persists token and user together under id and returns the
// authenticated session. Invalid input persists nothing.
func (m *Manager) Login(ctx context.Context, id, token string, user User) (Session, error) {
	sess, err := Authenticated(token, user)
	if err != nil {
		return Anonymous(), err
	}
	rec, err := NewRecord(sess)
	if err != nil {
		return Anonymous(), err
	}
	if err := m.store.Save(ctx, id, rec, m.ttl); err != nil {
		return Anonymous(), fmt.Errorf("session: login: %w", err)
	}
	return sess, nil
}

// Logout removes both persisted values. It is idempotent.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("session: logout: %w", err)
	}
	return nil
}

// TTL returns the configured record lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }
