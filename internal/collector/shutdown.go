package collector

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context that is cancelled on SIGTERM or SIGINT.
// shutdownFunc runs before the cancel so it can log or flush state; the
// interrupted build still returns its partial dataset through ctx.Err(). A
// second signal forces exit. stop releases the handler.
func SetupSignalHandler(parent context.Context, shutdownFunc func(context.Context)) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("[Signal] Received %v, initiating graceful shutdown...", sig)
		case <-done:
			return
		}

		// Call shutdown function if provided
		if shutdownFunc != nil {
			shutdownFunc(ctx)
		}
		cancel()

		// Handle second signal - force exit
		select {
		case sig := <-sigCh:
			log.Printf("[Signal] Received second %v, forcing exit", sig)
			os.Exit(1)
		case <-done:
		}
	}()

	stop = func() {
		signal.Stop(sigCh)
		select {
		case <-done:
		default:
			close(done)
		}
		cancel()
	}
	return ctx, stop
}
