package viewmodel

import (
	"context"
	"slices"

	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/search"
)

// Favorites is the saved routes view for one session.
type Favorites struct {
	client   FavoritesClient
	searcher Searcher
	sess     session.Session
	state    store[[]backend.FavoriteRoute]
}

// NewFavorites creates an Idle favorites view.
func NewFavorites(client FavoritesClient, searcher Searcher, sess session.Session) *Favorites {
	f := &Favorites{client: client, searcher: searcher, sess: sess}
	f.state.set(IdleState[[]backend.FavoriteRoute]())
	return f
}

// State returns the current state.
func (f *Favorites) State() State[[]backend.FavoriteRoute] { return f.state.get() }

// List fetches the favorites.
func (f *Favorites) List(ctx context.Context) State[[]backend.FavoriteRoute] {
	f.state.set(LoadingState[[]backend.FavoriteRoute]())

	favs, err := f.client.ListFavorites(ctx, f.sess)
	var st State[[]backend.FavoriteRoute]
	if err != nil {
		st = FailedState[[]backend.FavoriteRoute](err)
	} else {
		st = LoadedState(favs)
	}
	f.state.set(st)
	return st
}

// Add saves a favorite and re-fetches the list. The new item is never
// synthesized locally.
func (f *Favorites) Add(ctx context.Context, fav backend.NewFavorite) error {
	if err := f.client.AddFavorite(ctx, f.sess, fav); err != nil {
		return err
	}
	f.List(ctx)
	return nil
}

// Remove deletes a favorite. The item leaves the local list only after the
// backend confirms; on failure the state is untouched and the error returned.
func (f *Favorites) Remove(ctx context.Context, id backend.ID) error {
	if err := f.client.DeleteFavorite(ctx, f.sess, id); err != nil {
		return err
	}
	f.state.update(func(st State[[]backend.FavoriteRoute]) State[[]backend.FavoriteRoute] {
		favs, ok := st.Data()
		if !ok {
			return st
		}
		return LoadedState(slices.DeleteFunc(slices.Clone(favs), func(r backend.FavoriteRoute) bool {
			return r.ID == id
		}))
	})
	return nil
}

// Check predicts current traffic for a favorite without recording it.
func (f *Favorites) Check(ctx context.Context, fav backend.FavoriteRoute) (search.Outcome, error) {
	return f.searcher.Check(ctx, f.sess, fav.Origin, fav.Destination)
}

// Find returns the loaded favorite with id.
func (f *Favorites) Find(id backend.ID) (backend.FavoriteRoute, bool) {
	favs, ok := f.State().Data()
	if !ok {
		return backend.FavoriteRoute{}, false
	}
	i := slices.IndexFunc(favs, func(r backend.FavoriteRoute) bool { return r.ID == id })
	if i < 0 {
		return backend.FavoriteRoute{}, false
	}
	return favs[i], true
}
