package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumipallolabs/treescan/internal/core"
	"github.com/lumipallolabs/treescan/internal/logging"
)

// runHeadless performs one scan to completion and prints the result.
// An interrupt cancels the scan.
func runHeadless(ctx context.Context, ctrl *core.Controller, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := ctrl.Events()
	defer func() {
		ctrl.Close()
		for range events {
		}
	}()

	if err := ctrl.Start(); err != nil {
		return err
	}

	for {
		// An interrupt wins over events already queued
		if ctx.Err() != nil {
			return interrupted(ctrl, out)
		}
		select {
		case <-ctx.Done():
			return interrupted(ctrl, out)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch e := ev.(type) {
			case core.ScanCompletedEvent:
				newPrinter(out).printResult(e)
				return nil
			case core.ErrorEvent:
				return e.Err
			}
		}
	}
}

// interrupted stops the scan; a deliberate stop is not an error
func interrupted(ctrl *core.Controller, out io.Writer) error {
	logging.Debug.Printf("[CLI] interrupted")
	ctrl.Cancel()
	fmt.Fprintln(out, "interrupted")
	return nil
}
