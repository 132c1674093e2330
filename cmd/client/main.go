// Command lfcli is the terminal client of the LostFound service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"LostFound/internal/cli/commands"
	"LostFound/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	os.Exit(run(config.NewConfig(), flag.Args(), os.Stdout))
}

func run(cfg *config.Config, args []string, out io.Writer) int {
	if cfg.Version {
		printVersion(out, cfg)
		return 0
	}

	// Ctrl+C прерывает текущий запрос к серверу
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return commands.Dispatch(ctx, cfg, args)
}

func printVersion(out io.Writer, cfg *config.Config) {
	fmt.Fprintf(out, "lfcli %s (built %s)\nserver: %s\ntoken:  %s\n", version, buildDate, cfg.ServerURL, cfg.TokenFile)
}
