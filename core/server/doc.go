// Package server runs an http.Handler with graceful shutdown.
//
// The usual entry point runs the server until a signal arrives:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	return srv.Run(ctx, router)()
//
// Start blocks until the context is canceled; Stop drains open connections
// within the shutdown timeout. Run combines the two for errgroup style use.
package server
