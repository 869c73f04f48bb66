package web

import (
	"fmt"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/search"
	"github.com/crowdpredictor/trafficmap/pkg/viewmodel"
)

// listView is the common shape of the history and favorites pages.
type listView struct {
	State string
	Rows  any
}

type historyRow struct {
	ID          string
	Origin      string
	Destination string
	When        string
	Created     string
	Predicted   bool
	Unreadable  bool
	Level       int
	Description string
}

func (a *App) historyView(ctx *Context) *viewmodel.History {
	return viewmodel.NewHistory(a.backend, a.searcher, ctx.Session())
}

func (a *App) history(ctx *Context) handler.Response {
	vm := a.historyView(ctx)
	st := vm.List(ctx)
	if st.IsFailed() && backend.IsAuth(st.Err()) {
		return a.signOut(ctx, st.Err())
	}

	p := a.page(ctx, "Search history")
	entries, _ := st.Data()
	rows := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		row := historyRow{
			ID:          e.ID.String(),
			Origin:      e.Origin,
			Destination: e.Destination,
			When:        a.format.Timestamp(e.Datetime),
			Created:     a.format.Timestamp(e.CreatedAt),
		}
		if e.PredictionResult != nil {
			row.Predicted = true
			row.Level = e.PredictionResult.TrafficLevel
			row.Description = e.PredictionResult.Description()
		}
		row.Unreadable = e.PredictionUnreadable()
		rows = append(rows, row)
	}
	if st.IsFailed() {
		p.Error = userMessage(st.Err())
	}
	p.Data = listView{State: listState(st.Status(), len(rows)), Rows: rows}
	return response.Template(a.views.history, "layout", p)
}

func (a *App) repeatSearch(ctx *Context) handler.Response {
	vm := a.historyView(ctx)
	entry, err := a.findHistory(ctx, vm)
	if err != nil {
		return a.failAndReturn(ctx, err, pathHistory)
	}

	out, err := vm.Repeat(ctx, entry)
	if err != nil {
		return a.failAndReturn(ctx, err, pathHistory)
	}
	a.setFlash(ctx, flashSuccess, trafficNotice(out))
	return response.RedirectSeeOther(pathHistory)
}

func (a *App) favoriteFromHistory(ctx *Context) handler.Response {
	vm := a.historyView(ctx)
	entry, err := a.findHistory(ctx, vm)
	if err != nil {
		return a.failAndReturn(ctx, err, pathHistory)
	}

	if err := vm.AddToFavorites(ctx, entry); err != nil {
		return a.failAndReturn(ctx, err, pathHistory)
	}
	a.setFlash(ctx, flashSuccess, "Route added to favorites.")
	return response.RedirectSeeOther(pathHistory)
}

// errEntryGone is shown when the posted id is no longer in the list.
var errEntryGone = response.ErrNotFound.WithMessage("That entry no longer exists.")

func (a *App) findHistory(ctx *Context, vm *viewmodel.History) (backend.SearchHistoryEntry, error) {
	if st := vm.List(ctx); st.IsFailed() {
		return backend.SearchHistoryEntry{}, st.Err()
	}
	entry, ok := vm.Find(backend.ID(ctx.Param("id")))
	if !ok {
		return backend.SearchHistoryEntry{}, errEntryGone
	}
	return entry, nil
}

// listState names the page state: loading, failed, empty or loaded.
func listState(s viewmodel.Status, n int) string {
	if s == viewmodel.Loaded && n == 0 {
		return "empty"
	}
	return s.String()
}

func trafficNotice(out search.Outcome) string {
	desc := out.Prediction.Description()
	if desc == "" {
		desc = "unknown"
	}
	return fmt.Sprintf("Current traffic for %s: %s", backend.RouteName(out.Query.Origin, out.Query.Destination), desc)
}
