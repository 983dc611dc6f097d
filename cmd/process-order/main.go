// Command process-order processes order documents against the configured
// store and processing log.
//
// Usage:
//
//	process-order [-config path] [-v] [order.json]
//
// The order is read from the named file, or from stdin when no file is given.
// The document is either a single order object or an array of them. With the
// default configuration orders are appended to orders.json and the log line
// to log.txt in the working directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appkg "github.com/xenking/order-processor/internal/app"
	"github.com/xenking/order-processor/internal/domain/order"
)

func main() {
	var (
		configPath string
		verbose    bool
	)

	flag.StringVar(&configPath, "config", "", "path to YAML config file (default config.yaml if present)")
	flag.BoolVar(&verbose, "v", false, "log processing details to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [order.json]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	lg := newLogger(verbose)
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = zctx.Base(ctx, lg)

	if err := run(ctx, os.Stdin, os.Stdout, configPath, flag.Arg(0)); err != nil {
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, verr.Error())
		} else {
			lg.Error("Process order failed", zap.Error(err))
		}
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	lg, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return lg
}

func run(ctx context.Context, stdin io.Reader, stdout io.Writer, configPath, orderPath string) error {
	cfg, err := appkg.LoadConfigFile(configPath)
	if err != nil {
		return err
	}

	data, err := readInput(stdin, orderPath)
	if err != nil {
		return err
	}
	reqs, err := order.DecodeRequests(data)
	if err != nil {
		return errors.Wrap(err, "decode order")
	}

	// Resolve all requests before processing any.
	orders := make([]*order.Order, 0, len(reqs))
	for _, req := range reqs {
		o, err := req.Order(cfg.StrictCustomerType)
		if err != nil {
			return err
		}
		orders = append(orders, o)
	}

	pipeline, err := appkg.Build(ctx, cfg, stdout)
	if err != nil {
		return errors.Wrap(err, "build pipeline")
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			zctx.From(ctx).Warn("Close pipeline", zap.Error(err))
		}
	}()

	for _, o := range orders {
		if err := pipeline.Processor.Process(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return data, nil
}
