package viewmodel

import (
	"context"

	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/search"
)

// History is the search history view for one session.
type History struct {
	client   HistoryClient
	searcher Searcher
	sess     session.Session
	state    store[[]backend.SearchHistoryEntry]
}

// NewHistory creates an Idle history view.
func NewHistory(client HistoryClient, searcher Searcher, sess session.Session) *History {
	h := &History{client: client, searcher: searcher, sess: sess}
	h.state.set(IdleState[[]backend.SearchHistoryEntry]())
	return h
}

// State returns the current state.
func (h *History) State() State[[]backend.SearchHistoryEntry] { return h.state.get() }

// List fetches the history. It passes through Loading and ends Loaded or Failed.
func (h *History) List(ctx context.Context) State[[]backend.SearchHistoryEntry] {
	h.state.set(LoadingState[[]backend.SearchHistoryEntry]())

	entries, err := h.client.ListHistory(ctx, h.sess)
	var st State[[]backend.SearchHistoryEntry]
	if err != nil {
		st = FailedState[[]backend.SearchHistoryEntry](err)
	} else {
		st = LoadedState(entries)
	}
	h.state.set(st)
	return st
}

// Repeat re-runs a past search for the current time and refreshes the list.
// The refreshed list includes the new entry; the repeated entry is unchanged.
func (h *History) Repeat(ctx context.Context, entry backend.SearchHistoryEntry) (search.Outcome, error) {
	out, err := h.searcher.Repeat(ctx, h.sess, entry)
	if err != nil {
		return out, err
	}
	h.List(ctx)
	return out, nil
}

// AddToFavorites saves a past search as a favorite.
func (h *History) AddToFavorites(ctx context.Context, entry backend.SearchHistoryEntry) error {
	return h.client.AddFavorite(ctx, h.sess, backend.FavoriteFromHistory(entry))
}

// Find returns the loaded entry with id.
func (h *History) Find(id backend.ID) (backend.SearchHistoryEntry, bool) {
	entries, ok := h.State().Data()
	if !ok {
		return backend.SearchHistoryEntry{}, false
	}
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return backend.SearchHistoryEntry{}, false
}
