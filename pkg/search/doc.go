// Package search runs a route search as a pipeline of typed steps:
//
//	Idle -> RouteResolved -> PredictionReceived -> HistoryPersisted
//
// Route resolution and prediction are Required; a failure stops the search
// with an *AbortError naming the last stage reached. The history write is
// BestEffort: its failure is logged and kept in Outcome.HistoryErr while the
// search itself succeeds.
//
//	o := search.New(resolver, client, client, search.WithLogger(log))
//	out, err := o.Search(ctx, sess, search.Query{Origin: "Kadıköy", Destination: "Beşiktaş"})
//	switch {
//	case errors.Is(err, search.ErrValidation):
//	case errors.Is(err, search.ErrRouteNotFound):
//	case err != nil: // backend taxonomy, see package backend
//	}
package search
