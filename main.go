// main is the entry point for the ragboard CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/ragboard/cmd"
	"github.com/huangsam/ragboard/internal/contract"
	"github.com/huangsam/ragboard/internal/history"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	history.CloseStores()
	if err != nil {
		contract.LogFatal("ragboard failed", err)
	}
}
