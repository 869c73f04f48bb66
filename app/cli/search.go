package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/search"
	"github.com/crowdpredictor/trafficmap/pkg/traffic"
)

var atLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range atLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --at %q, use YYYY-MM-DDTHH:MM", s)
}

// outcomeView is the printable form of a search result.
type outcomeView struct {
	Origin       string             `json:"origin"`
	Destination  string             `json:"destination"`
	Datetime     string             `json:"datetime"`
	Level        int                `json:"traffic_level"`
	Label        string             `json:"label"`
	Color        traffic.Color      `json:"color"`
	Description  string             `json:"description,omitempty"`
	Distance     string             `json:"distance,omitempty"`
	Duration     string             `json:"duration,omitempty"`
	Prediction   backend.Prediction `json:"prediction"`
	HistorySaved bool               `json:"history_saved"`
}

func (a *App) outcome(out search.Outcome) outcomeView {
	v := outcomeView{
		Origin:       out.Query.Origin,
		Destination:  out.Query.Destination,
		Datetime:     a.format.DateTime(out.Query.At),
		Level:        out.Prediction.TrafficLevel,
		Label:        traffic.Label(out.Prediction.TrafficLevel),
		Color:        out.Color,
		Description:  out.Prediction.Description(),
		Prediction:   out.Prediction,
		HistorySaved: out.Stage == search.HistoryPersisted,
	}
	if out.Route.DistanceMeters > 0 {
		v.Distance = a.format.Distance(out.Route.DistanceMeters)
	}
	if out.Route.Duration > 0 {
		v.Duration = a.format.Duration(out.Route.Duration)
	}
	return v
}

func (v outcomeView) print(w io.Writer) error {
	fmt.Fprintf(w, "%s\n", backend.RouteName(v.Origin, v.Destination))
	fmt.Fprintf(w, "  when:     %s\n", v.Datetime)
	fmt.Fprintf(w, "  traffic:  %s (%s)", v.Label, v.Color)
	if v.Description != "" {
		fmt.Fprintf(w, ", %s", v.Description)
	}
	fmt.Fprintln(w)
	if v.Distance != "" {
		fmt.Fprintf(w, "  distance: %s\n", v.Distance)
	}
	if v.Duration != "" {
		fmt.Fprintf(w, "  duration: %s\n", v.Duration)
	}
	return nil
}

func (a *App) searchCommand() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "search ORIGIN DESTINATION",
		Short: "Predict traffic between two places and record it in history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			when, err := parseAt(at)
			if err != nil {
				return err
			}
			sess, err := a.authenticated(ctx)
			if err != nil {
				return err
			}

			out, err := a.searcher.Search(ctx, sess, search.Query{Origin: args[0], Destination: args[1], At: when})
			if err != nil {
				return a.check(ctx, describe(err))
			}
			v := a.outcome(out)
			return a.emit(cmd, v, v.print)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "departure time, YYYY-MM-DDTHH:MM (default now)")
	return cmd
}

// describe adds the user facing text to search failures.
func describe(err error) error {
	switch {
	case errors.Is(err, search.ErrValidation):
		return fmt.Errorf("origin and destination are required: %w", err)
	case errors.Is(err, search.ErrRouteNotFound):
		return fmt.Errorf("route not found: %w", err)
	case backend.IsConnectivity(err):
		return fmt.Errorf("could not reach the server: %w", err)
	}
	if msg := backend.Message(err); msg != "" && !backend.IsAuth(err) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}
