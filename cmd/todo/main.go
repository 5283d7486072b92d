// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todo/internal/cli"
	"todo/internal/commands"
)

func main() {
	// Cancel on interrupt; the shell saves before exiting
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.NewService)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
