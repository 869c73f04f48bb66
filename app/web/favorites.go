package web

import (
	"net/http"

	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/core/validator"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/viewmodel"
)

type favoriteRow struct {
	ID          string
	Name        string
	Origin      string
	Destination string
	Created     string
	SearchedAt  string
	Predicted   bool
	Unreadable  bool
	Level       int
	Description string
}

type favoritesData struct {
	listView
	Form favoriteForm
}

func (a *App) favoritesView(ctx *Context) *viewmodel.Favorites {
	return viewmodel.NewFavorites(a.backend, a.searcher, ctx.Session())
}

func (a *App) favorites(ctx *Context) handler.Response {
	return a.renderFavorites(ctx, favoriteForm{}, nil, http.StatusOK)
}

func (a *App) renderFavorites(ctx *Context, form favoriteForm, formErr error, status int) handler.Response {
	st := a.favoritesView(ctx).List(ctx)
	if st.IsFailed() && backend.IsAuth(st.Err()) {
		return a.signOut(ctx, st.Err())
	}

	p := a.page(ctx, "Favorite routes")
	favs, _ := st.Data()
	rows := make([]favoriteRow, 0, len(favs))
	for _, f := range favs {
		row := favoriteRow{
			ID:          f.ID.String(),
			Name:        f.Name(),
			Origin:      f.Origin,
			Destination: f.Destination,
			Created:     a.format.Timestamp(f.CreatedAt),
			SearchedAt:  a.format.Timestamp(f.SearchDatetime),
		}
		if f.PredictionResult != nil {
			row.Predicted = true
			row.Level = f.PredictionResult.TrafficLevel
			row.Description = f.PredictionResult.Description()
		}
		row.Unreadable = f.PredictionUnreadable()
		rows = append(rows, row)
	}

	switch {
	case formErr != nil && validator.IsValidationError(formErr):
		p.Fields, p.Error = fieldErrors(formErr)
	case formErr != nil:
		p.Error = userMessage(formErr)
	case st.IsFailed():
		p.Error = userMessage(st.Err())
	}
	p.Data = favoritesData{
		listView: listView{State: listState(st.Status(), len(rows)), Rows: rows},
		Form:     form,
	}
	return response.TemplateWithStatus(a.views.favorites, "layout", p, status)
}

func (a *App) addFavorite(ctx *Context) handler.Response {
	var form favoriteForm
	if err := bindForm(ctx, &form); err != nil {
		return a.renderFavorites(ctx, form, err, http.StatusUnprocessableEntity)
	}

	vm := a.favoritesView(ctx)
	if err := vm.Add(ctx, backend.ManualFavorite(form.Origin, form.Destination)); err != nil {
		return a.failAndReturn(ctx, err, pathFavorites)
	}
	a.setFlash(ctx, flashSuccess, "Route added to favorites.")
	return response.RedirectSeeOther(pathFavorites)
}

func (a *App) deleteFavorite(ctx *Context) handler.Response {
	vm := a.favoritesView(ctx)
	if err := vm.Remove(ctx, backend.ID(ctx.Param("id"))); err != nil {
		return a.failAndReturn(ctx, err, pathFavorites)
	}
	a.setFlash(ctx, flashSuccess, "Favorite removed.")
	return response.RedirectSeeOther(pathFavorites)
}

func (a *App) checkFavorite(ctx *Context) handler.Response {
	vm := a.favoritesView(ctx)
	if st := vm.List(ctx); st.IsFailed() {
		return a.failAndReturn(ctx, st.Err(), pathFavorites)
	}
	fav, ok := vm.Find(backend.ID(ctx.Param("id")))
	if !ok {
		return a.failAndReturn(ctx, errEntryGone, pathFavorites)
	}

	out, err := vm.Check(ctx, fav)
	if err != nil {
		return a.failAndReturn(ctx, err, pathFavorites)
	}
	a.setFlash(ctx, flashSuccess, trafficNotice(out))
	return response.RedirectSeeOther(pathFavorites)
}
