// Package viewmodel holds the state behind the history and favorites views.
//
// Each view exposes a State[T], a tagged union of Idle, Loading, Loaded and
// Failed. Mutations go to the backend first: Favorites.Add re-fetches the
// list and Favorites.Remove drops the item locally only after the backend
// confirmed the delete.
package viewmodel
