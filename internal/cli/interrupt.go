package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// InterruptHandler turns SIGINT and SIGTERM into context cancellation and
// tells the user which operation stopped.
type InterruptHandler struct {
	writer      io.Writer
	interrupted atomic.Bool
}

// NewInterruptHandler reports interruptions to writer, or stdout when nil.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{writer: writer}
}

// HandleInterrupts returns a context canceled on the first signal. The
// signal handler is released once the returned context ends.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, operation string) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			if h.interrupted.CompareAndSwap(false, true) {
				h.report(operation)
			}
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}

func (h *InterruptHandler) report(operation string) {
	if operation == "" {
		operation = "Operation"
	}
	if _, err := fmt.Fprint(h.writer, "\n"+FormatWarning(operation+" interrupted.")+"\n"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted reports whether a signal canceled the operation.
func (h *InterruptHandler) WasInterrupted() bool {
	return h.interrupted.Load()
}
