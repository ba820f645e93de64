package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/vk/irgen/internal/app"
	"github.com/vk/irgen/internal/cli"
	"github.com/vk/irgen/internal/hcl_adapter"
)

// main is the entrypoint for the irgen application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		stop()
		os.Exit(exitCode(err, os.Stderr))
	}
}

// exitCode maps a run failure to the process exit code. Usage errors are
// printed here; everything else was already logged by the App.
func exitCode(err error, errW io.Writer) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errW, exitErr.Message)
		return exitErr.Code
	}
	return 1
}

// run encapsulates the main application logic for easier testing and error
// handling. Documents written to stdout go to outW; usage text and logs go
// to errW.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl_adapter.NewLoader()
	irgenApp, err := app.NewApp(outW, errW, appConfig, loader)
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	return irgenApp.Run(ctx)
}
