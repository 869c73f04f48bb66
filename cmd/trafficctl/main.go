package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/crowdpredictor/trafficmap/app/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app, err := cli.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "trafficctl:", err)
		os.Exit(1)
	}

	if err := app.Command().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "trafficctl:", err)
		os.Exit(1)
	}
}
