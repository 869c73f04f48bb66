package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/traffic"
	"github.com/crowdpredictor/trafficmap/pkg/viewmodel"
)

func (a *App) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and reuse past searches",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List past searches, newest first",
			Args:  cobra.NoArgs,
			RunE:  a.listHistory,
		},
		&cobra.Command{
			Use:   "repeat ID",
			Short: "Run a past search again for the current time",
			Args:  cobra.ExactArgs(1),
			RunE:  a.repeatHistory,
		},
		&cobra.Command{
			Use:   "favorite ID",
			Short: "Save a past search as a favorite route",
			Args:  cobra.ExactArgs(1),
			RunE:  a.favoriteHistory,
		},
	)
	return cmd
}

// historyView loads the history of the logged in user.
func (a *App) historyView(cmd *cobra.Command) (*viewmodel.History, error) {
	ctx := cmd.Context()
	sess, err := a.authenticated(ctx)
	if err != nil {
		return nil, err
	}
	vm := viewmodel.NewHistory(a.backend, a.searcher, sess)
	if st := vm.List(ctx); st.IsFailed() {
		return nil, a.check(ctx, describe(st.Err()))
	}
	return vm, nil
}

func (a *App) listHistory(cmd *cobra.Command, _ []string) error {
	vm, err := a.historyView(cmd)
	if err != nil {
		return err
	}
	entries, _ := vm.State().Data()

	return a.emit(cmd, entries, func(w io.Writer) error {
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No searches yet.")
			return err
		}
		rows := make([][]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []any{e.ID, backend.RouteName(e.Origin, e.Destination), a.format.Timestamp(e.Datetime), predictionText(e.PredictionResult, e.PredictionUnreadable())})
		}
		return table(w, []any{"ID", "ROUTE", "DATE", "TRAFFIC"}, rows)
	})
}

func (a *App) repeatHistory(cmd *cobra.Command, args []string) error {
	vm, err := a.historyView(cmd)
	if err != nil {
		return err
	}
	entry, ok := vm.Find(backend.ID(args[0]))
	if !ok {
		return fmt.Errorf("search %s: %w", args[0], ErrNotFound)
	}

	out, err := vm.Repeat(cmd.Context(), entry)
	if err != nil {
		return a.check(cmd.Context(), describe(err))
	}
	v := a.outcome(out)
	return a.emit(cmd, v, v.print)
}

func (a *App) favoriteHistory(cmd *cobra.Command, args []string) error {
	vm, err := a.historyView(cmd)
	if err != nil {
		return err
	}
	entry, ok := vm.Find(backend.ID(args[0]))
	if !ok {
		return fmt.Errorf("search %s: %w", args[0], ErrNotFound)
	}

	if err := vm.AddToFavorites(cmd.Context(), entry); err != nil {
		return a.check(cmd.Context(), describe(err))
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites.\n", backend.RouteName(entry.Origin, entry.Destination))
	return err
}

func predictionText(p *backend.Prediction, unreadable bool) string {
	switch {
	case unreadable:
		return "(unavailable)"
	case p == nil:
		return "-"
	}
	text := traffic.Label(p.TrafficLevel)
	if d := p.Description(); d != "" {
		text += ": " + d
	}
	return text
}
