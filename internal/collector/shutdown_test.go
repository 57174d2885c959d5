package collector

import (
	"context"
	"os"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

// TestSetupSignalHandler tests that the signal handler context works
func TestSetupSignalHandler(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Signal tests not supported on Windows")
	}

	var shutdownCalled atomic.Bool

	ctx, stop := SetupSignalHandler(context.Background(), func(ctx context.Context) {
		shutdownCalled.Store(true)
	})
	defer stop()

	// Context should not be cancelled initially
	select {
	case <-ctx.Done():
		t.Error("Context should not be cancelled initially")
	default:
	}

	// Send SIGINT to ourselves
	p, _ := os.FindProcess(os.Getpid())
	p.Signal(os.Interrupt)

	select {
	case <-ctx.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("Context should be cancelled after signal")
	}

	if !shutdownCalled.Load() {
		t.Error("Shutdown function should have been called")
	}
}

// TestSetupSignalHandler_NilShutdown tests that nil shutdown func doesn't panic
func TestSetupSignalHandler_NilShutdown(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Signal tests not supported on Windows")
	}

	ctx, stop := SetupSignalHandler(context.Background(), nil)
	defer stop()

	p, _ := os.FindProcess(os.Getpid())
	p.Signal(os.Interrupt)

	select {
	case <-ctx.Done():
	case <-time.After(1 * time.Second):
		t.Error("Context should be cancelled after signal")
	}
}

func TestSetupSignalHandler_StopCancels(t *testing.T) {
	var shutdownCalled atomic.Bool
	ctx, stop := SetupSignalHandler(context.Background(), func(ctx context.Context) {
		shutdownCalled.Store(true)
	})

	stop()
	stop() // idempotent

	select {
	case <-ctx.Done():
	case <-time.After(1 * time.Second):
		t.Error("stop should cancel the context")
	}
	if shutdownCalled.Load() {
		t.Error("shutdown should only run on a signal")
	}
}

func TestSetupSignalHandler_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SetupSignalHandler(parent, nil)
	defer stop()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(1 * time.Second):
		t.Error("child context should follow the parent")
	}
}
