// Package async runs error-returning functions concurrently and collects
// their results.
//
//	futures := make([]*async.Future, len(checks))
//	for i, c := range checks {
//		futures[i] = async.Exec(ctx, c, runCheck)
//	}
//	errs := async.Settle(futures...)
//
// Settle waits for every future and keeps every error in argument order.
package async
