// Command captube downloads one YouTube video, or its audio track, from the
// terminal using the same pipeline as the desktop app.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("received interrupt signal, cancelling...")
		cancel()
	}()

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, logger)
	cancel()
	os.Exit(code)
}
