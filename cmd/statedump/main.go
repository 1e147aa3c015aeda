package main

import (
	"context"
	"os"

	"github.com/yndnr/statedump/internal/cli/command"
	"github.com/yndnr/statedump/internal/infra/shutdown"
	"github.com/yndnr/statedump/internal/telemetry/logger"
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background(), func(sig os.Signal) {
		logger.Warn("interrupted, abandoning operation", "signal", sig.String())
	})

	app := command.App()
	err := app.RunContext(ctx, os.Args)
	stop()

	if err != nil {
		command.PrintError(os.Stderr, err)
		os.Exit(command.ExitCode(err))
	}
}
