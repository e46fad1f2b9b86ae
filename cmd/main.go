package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"logparse/logging"

	_ "github.com/ClickHouse/clickhouse-go/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logging.New(os.Stderr, slog.LevelInfo).Error("logparse failed", "error", err)
		stop()
		os.Exit(255)
	}
}
