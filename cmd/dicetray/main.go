package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	dicetraycmd "github.com/louisbranch/dicetray/internal/cmd/dicetray"
	"github.com/louisbranch/dicetray/internal/platform/config"
)

func main() {
	cfg, err := dicetraycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitWithCode(config.ExitUsage, "parse config: %v", err)
	}
	log.SetPrefix("[DICETRAY] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dicetraycmd.Run(ctx, cfg, dicetraycmd.StdStreams()); err != nil {
		stop()
		config.Exitf("dicetray: %v", err)
	}
}
