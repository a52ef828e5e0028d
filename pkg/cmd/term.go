package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// TermSignalAwaiter is a Job that completes on SIGTERM or SIGINT.
func TermSignalAwaiter(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, TermSignals()...)
	defer stop()

	<-sigCtx.Done()
	return ctx.Err()
}

func TermSignals() []os.Signal {
	return []os.Signal{syscall.SIGTERM, syscall.SIGINT}
}
