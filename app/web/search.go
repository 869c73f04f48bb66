package web

import (
	"net/http"
	"time"

	"github.com/crowdpredictor/trafficmap/core/binder"
	"github.com/crowdpredictor/trafficmap/core/handler"
	"github.com/crowdpredictor/trafficmap/core/logger"
	"github.com/crowdpredictor/trafficmap/core/response"
	"github.com/crowdpredictor/trafficmap/core/sanitizer"
	"github.com/crowdpredictor/trafficmap/core/validator"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/directions"
	"github.com/crowdpredictor/trafficmap/pkg/search"
	"github.com/crowdpredictor/trafficmap/pkg/traffic"
)

type homeData struct {
	Form   searchForm
	When   string
	Result *resultView
}

// resultView is a finished search prepared for display.
type resultView struct {
	Origin       string
	Destination  string
	When         string
	Level        int
	Label        string
	Color        string
	Description  string
	AvgSpeed     string
	VehicleCount string
	Summary      string
	Distance     string
	Duration     string
	Map          mapData
}

// mapData is handed to the map widget as JSON.
type mapData struct {
	Color       string              `json:"color"`
	Path        []directions.LatLng `json:"path"`
	Polyline    string              `json:"polyline,omitempty"`
	Origin      string              `json:"origin"`
	Destination string              `json:"destination"`
}

func (a *App) home(ctx *Context) handler.Response {
	p := a.page(ctx, "Route search")
	p.Data = homeData{When: a.clock().Format("2006-01-02T15:04")}
	return response.Template(a.views.home, "layout", p)
}

func (a *App) search(ctx *Context) handler.Response {
	var form searchForm
	if err := bindForm(ctx, &form); err != nil {
		return a.renderHome(ctx, form, nil, err, http.StatusUnprocessableEntity)
	}

	out, err := a.searcher.Search(ctx, ctx.Session(), search.Query{
		Origin:      form.Origin,
		Destination: form.Destination,
		At:          form.Datetime,
	})
	if err != nil {
		if backend.IsAuth(err) {
			return a.signOut(ctx, err)
		}
		return a.renderHome(ctx, form, nil, err, apiError(err).Status)
	}

	return a.renderHome(ctx, form, a.result(out), nil, http.StatusOK)
}

func (a *App) renderHome(ctx *Context, form searchForm, result *resultView, err error, status int) handler.Response {
	p := a.page(ctx, "Route search")
	if err != nil {
		p.Error = userMessage(err)
	}
	when := form.Datetime
	if when.IsZero() {
		when = a.clock()
	}
	p.Data = homeData{Form: form, When: when.Format("2006-01-02T15:04"), Result: result}
	return response.TemplateWithStatus(a.views.home, "layout", p, status)
}

func (a *App) result(out search.Outcome) *resultView {
	pred := out.Prediction
	v := &resultView{
		Origin:      out.Query.Origin,
		Destination: out.Query.Destination,
		When:        a.format.DateTime(out.Query.At),
		Level:       pred.TrafficLevel,
		Label:       traffic.Label(pred.TrafficLevel),
		Color:       out.Color.Hex(),
		Description: pred.Description(),
		Summary:     out.Route.Summary,
		Map: mapData{
			Color:       out.Color.Hex(),
			Path:        out.Route.Path,
			Polyline:    out.Route.Polyline,
			Origin:      out.Query.Origin,
			Destination: out.Query.Destination,
		},
	}
	if pred.TrafficInfo.AvgSpeed != nil {
		v.AvgSpeed = a.format.Decimal(*pred.TrafficInfo.AvgSpeed) + " km/h"
	}
	if pred.TrafficInfo.VehicleCount != nil {
		v.VehicleCount = a.format.Number(*pred.TrafficInfo.VehicleCount)
	}
	if out.Route.DistanceMeters > 0 {
		v.Distance = a.format.Distance(out.Route.DistanceMeters)
	}
	if out.Route.Duration > 0 {
		v.Duration = a.format.Duration(out.Route.Duration)
	}
	return v
}

// apiSearchResponse is the JSON answer of POST /api/search.
type apiSearchResponse struct {
	Origin       string             `json:"origin"`
	Destination  string             `json:"destination"`
	Datetime     string             `json:"datetime"`
	Route        directions.Route   `json:"route"`
	Prediction   backend.Prediction `json:"prediction"`
	Color        traffic.Color      `json:"color"`
	ColorHex     string             `json:"color_hex"`
	Label        string             `json:"label"`
	Stage        string             `json:"stage"`
	HistorySaved bool               `json:"history_saved"`
}

func (a *App) apiSearch(ctx *Context) handler.Response {
	var req apiSearchRequest
	if err := binder.JSON()(ctx.Request(), &req); err != nil {
		return response.Error(response.ErrBadRequest.WithMessage("request body must be a JSON search").WithError(err))
	}
	if err := sanitizer.SanitizeStruct(&req); err != nil {
		return response.Error(err)
	}
	if err := validator.ValidateStruct(&req); err != nil {
		return response.Error(apiError(err))
	}
	at, err := req.at()
	if err != nil {
		return response.Error(err)
	}

	out, err := a.searcher.Search(ctx, ctx.Session(), search.Query{
		Origin:      req.Origin,
		Destination: req.Destination,
		At:          at,
	})
	if err != nil {
		if backend.IsAuth(err) {
			if lerr := a.transport.Logout(ctx); lerr != nil {
				a.logger.ErrorContext(ctx, "failed to clear session",
					logger.Component("web"),
					logger.Error(lerr))
			}
		}
		return response.Error(apiError(err))
	}

	return response.JSON(apiSearchResponse{
		Origin:       out.Query.Origin,
		Destination:  out.Query.Destination,
		Datetime:     out.Query.At.Format(time.RFC3339),
		Route:        out.Route,
		Prediction:   out.Prediction,
		Color:        out.Color,
		ColorHex:     out.Color.Hex(),
		Label:        traffic.Label(out.Prediction.TrafficLevel),
		Stage:        out.Stage.String(),
		HistorySaved: out.HistoryErr == nil,
	})
}
