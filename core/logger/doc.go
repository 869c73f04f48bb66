// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds a *slog.Logger from functional options; WithDevelopment and WithProduction
// are presets for text/debug and JSON/info output. Context extractors enrich records
// logged through the *Context methods, e.g. with the request id set by middleware.
//
//	log := logger.New(
//		logger.WithProduction("trafficweb"),
//		logger.WithContextExtractors(middleware.RequestIDExtractor),
//	)
//
//	log.InfoContext(ctx, "search completed",
//		logger.Component("search"),
//		logger.Stage("history_persisted"),
//		logger.Duration(time.Since(start)),
//	)
//
// Attribute helpers return an empty slog.Attr for zero inputs, so logger.Error(nil)
// can be passed without a nil check.
package logger
