// Runs an interactive kvcache console: commands are read from stdin and the cache is rendered to stdout.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nobletooth/kvcache/pkg/cache"
	"github.com/nobletooth/kvcache/pkg/config"
	"github.com/nobletooth/kvcache/pkg/controller"
	"github.com/nobletooth/kvcache/pkg/utils"
)

var (
	printVersion = flag.Bool("print_version", false, "Print the version and exit.")
	policyName   = flag.String("policy", cache.PolicyLRU.String(), "Initial eviction policy: LRU/FIFO/LFU.")
	capacity     = flag.Int("capacity", 3, "Initial maximum number of entries in the cache.")
	shardCount   = flag.Int("shard_count", 1, "Number of cache shards; 1 keeps a single engine.")
)

// printBuildInfo writes the version, commit and build time of this binary to `out`.
func printBuildInfo(out io.Writer) error {
	_, err := fmt.Fprintf(out, "kvcache %s (commit: %s, built: %s)\n", utils.Version, utils.Commit, utils.BuildTime)
	return err
}

func main() {
	config.InitFlags()
	utils.InitLogging()

	if *printVersion {
		if err := printBuildInfo(os.Stdout); err != nil {
			slog.Error("Failed to print build info.", "error", err)
			os.Exit(1)
		}
		return
	}

	policy, err := cache.ParsePolicy(*policyName)
	if err != nil {
		slog.Error("Invalid --policy flag.", "policy", *policyName, "error", err)
		os.Exit(1)
	}
	presenter := newTerminalPresenter(os.Stdout)
	ctrl, err := controller.New(policy, *capacity, presenter, controller.WithShardCount(*shardCount))
	if err != nil {
		slog.Error("Failed to create the cache.", "capacity", *capacity, "shardCount", *shardCount, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)

	go func() { // Listen for OS interrupts in the background.
		sig := <-signals
		slog.Info("Received termination signal, cancelling console context.", "signal", sig)
		cancel()
	}()

	if err := runConsole(ctx, os.Stdin, ctrl, presenter); err != nil {
		slog.Error("kvcache console stopped.", "err", err)
		os.Exit(1)
	}
}
