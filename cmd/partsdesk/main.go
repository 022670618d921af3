// cmd/partsdesk/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ammerola/partsdesk/internal/cli"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cli.Version = Version
	cli.BuildTime = BuildTime

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:])
	stop()

	os.Exit(code)
}
