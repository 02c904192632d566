package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/podium/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewApp().RunContext(ctx, os.Args); err != nil {
		os.Stderr.WriteString("podium-cli: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
