// Command order-audit reports order IDs stored more than once across one or
// more order store files. It exits with status 1 when duplicates are found.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/order-processor/internal/audit"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s orders.json [more.json ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	lg, err := zap.NewProduction()
	if err != nil {
		lg = zap.NewNop()
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	found, err := run(ctx, os.Stdout, flag.Args())
	if err != nil {
		lg.Error("Order audit failed", zap.Error(err))
		os.Exit(1)
	}
	if found > 0 {
		lg.Warn("Duplicate order IDs found", zap.Int("count", found))
		os.Exit(1)
	}
	lg.Info("No duplicate order IDs", zap.Strings("files", flag.Args()))
}

// run prints one line per duplicate ID and returns how many were found.
func run(ctx context.Context, out io.Writer, paths []string) (int, error) {
	dups, err := audit.FindDuplicates(ctx, paths)
	if err != nil {
		return 0, errors.Wrap(err, "find duplicates")
	}
	for _, d := range dups {
		if _, err := fmt.Fprintln(out, d); err != nil {
			return 0, errors.Wrap(err, "write report")
		}
	}
	return len(dups), nil
}
