package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/groupctl/internal/cmd"
	"github.com/felixgeelhaar/groupctl/internal/exitcode"
)

func main() {
	// Halt signals from the invoking framework arrive as SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitcode.ExitWithError(err)
	}

	// A halted run completes without error after emitting its halt
	// document, but the exit code still tells the framework it was cut short.
	if ctx.Err() != nil {
		exitcode.Exit(exitcode.Interrupted)
	}

	exitcode.Exit(exitcode.Success)
}
