package viewmodel

import (
	"context"
	"sync"

	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/search"
)

// HistoryClient is the backend surface the history view needs.
type HistoryClient interface {
	ListHistory(ctx context.Context, sess session.Session) ([]backend.SearchHistoryEntry, error)
	AddFavorite(ctx context.Context, sess session.Session, fav backend.NewFavorite) error
}

// FavoritesClient is the backend surface the favorites view needs.
type FavoritesClient interface {
	ListFavorites(ctx context.Context, sess session.Session) ([]backend.FavoriteRoute, error)
	AddFavorite(ctx context.Context, sess session.Session, fav backend.NewFavorite) error
	DeleteFavorite(ctx context.Context, sess session.Session, id backend.ID) error
}

// Searcher runs repeat searches and traffic checks.
type Searcher interface {
	Repeat(ctx context.Context, sess session.Session, entry backend.SearchHistoryEntry) (search.Outcome, error)
	Check(ctx context.Context, sess session.Session, origin, destination string) (search.Outcome, error)
}

// store guards a State. Concurrent operations race; the last write wins.
type store[T any] struct {
	mu    sync.RWMutex
	state State[T]
}

func (s *store[T]) get() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *store[T]) set(st State[T]) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// update applies fn to the current state under the lock.
func (s *store[T]) update(fn func(State[T]) State[T]) {
	s.mu.Lock()
	s.state = fn(s.state)
	s.mu.Unlock()
}
