package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pbextract/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], cli.OSEnv())
	stop()
	os.Exit(code)
}
