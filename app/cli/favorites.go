package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/crowdpredictor/trafficmap/pkg/backend"
	"github.com/crowdpredictor/trafficmap/pkg/viewmodel"
)

type favoriteInput struct {
	Origin      string `form:"origin" sanitize:"place" validate:"required,max=200"`
	Destination string `form:"destination" sanitize:"place" validate:"required,max=200"`
}

func (a *App) favoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage favorite routes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List favorite routes",
			Args:  cobra.NoArgs,
			RunE:  a.listFavorites,
		},
		&cobra.Command{
			Use:   "add ORIGIN DESTINATION",
			Short: "Save a route as a favorite",
			Args:  cobra.ExactArgs(2),
			RunE:  a.addFavorite,
		},
		&cobra.Command{
			Use:     "remove ID",
			Aliases: []string{"rm"},
			Short:   "Delete a favorite route",
			Args:    cobra.ExactArgs(1),
			RunE:    a.removeFavorite,
		},
		&cobra.Command{
			Use:   "check ID",
			Short: "Predict the current traffic on a favorite route",
			Args:  cobra.ExactArgs(1),
			RunE:  a.checkFavorite,
		},
	)
	return cmd
}

func (a *App) favoritesView(cmd *cobra.Command, load bool) (*viewmodel.Favorites, error) {
	ctx := cmd.Context()
	sess, err := a.authenticated(ctx)
	if err != nil {
		return nil, err
	}
	vm := viewmodel.NewFavorites(a.backend, a.searcher, sess)
	if !load {
		return vm, nil
	}
	if st := vm.List(ctx); st.IsFailed() {
		return nil, a.check(ctx, describe(st.Err()))
	}
	return vm, nil
}

func (a *App) listFavorites(cmd *cobra.Command, _ []string) error {
	vm, err := a.favoritesView(cmd, true)
	if err != nil {
		return err
	}
	favs, _ := vm.State().Data()

	return a.emit(cmd, favs, func(w io.Writer) error {
		if len(favs) == 0 {
			_, err := fmt.Fprintln(w, "No favorite routes yet.")
			return err
		}
		rows := make([][]any, 0, len(favs))
		for _, f := range favs {
			rows = append(rows, []any{f.ID, f.Name(), a.format.Timestamp(f.CreatedAt), predictionText(f.PredictionResult, f.PredictionUnreadable())})
		}
		return table(w, []any{"ID", "NAME", "SAVED", "LAST TRAFFIC"}, rows)
	})
}

func (a *App) addFavorite(cmd *cobra.Command, args []string) error {
	in := favoriteInput{Origin: args[0], Destination: args[1]}
	if err := clean(&in); err != nil {
		return err
	}
	vm, err := a.favoritesView(cmd, false)
	if err != nil {
		return err
	}

	fav := backend.ManualFavorite(in.Origin, in.Destination)
	if err := vm.Add(cmd.Context(), fav); err != nil {
		return a.check(cmd.Context(), describe(err))
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites.\n", fav.RouteName)
	return err
}

func (a *App) removeFavorite(cmd *cobra.Command, args []string) error {
	vm, err := a.favoritesView(cmd, false)
	if err != nil {
		return err
	}
	if err := vm.Remove(cmd.Context(), backend.ID(args[0])); err != nil {
		return a.check(cmd.Context(), describe(err))
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Favorite removed.")
	return err
}

func (a *App) checkFavorite(cmd *cobra.Command, args []string) error {
	vm, err := a.favoritesView(cmd, true)
	if err != nil {
		return err
	}
	fav, ok := vm.Find(backend.ID(args[0]))
	if !ok {
		return fmt.Errorf("favorite %s: %w", args[0], ErrNotFound)
	}

	out, err := vm.Check(cmd.Context(), fav)
	if err != nil {
		return a.check(cmd.Context(), describe(err))
	}
	v := a.outcome(out)
	return a.emit(cmd, v, v.print)
}
