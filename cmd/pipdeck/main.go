package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/pipdeck/internal/cmd/pipdeck"
	"github.com/louisbranch/pipdeck/internal/platform/config"
)

// main serves the story tools over MCP.
func main() {
	cfg, err := pipdeck.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := pipdeck.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve pipdeck: %v", err)
	}
}
