// Command notifier runs a single reconciliation pass and exits. It is meant
// to be driven by cron or a one-shot container where the long-running
// watcher is not wanted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sharktamer/gtsnotifier/pkg/config"
	"github.com/sharktamer/gtsnotifier/pkg/gts"
	"github.com/sharktamer/gtsnotifier/pkg/notify"
	"github.com/sharktamer/gtsnotifier/pkg/pgutil"
	"github.com/sharktamer/gtsnotifier/pkg/reconciler"
	"github.com/sharktamer/gtsnotifier/pkg/watchstore"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting one-shot reconciliation pass")

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	store := watchstore.NewStore(db)
	gtsClient := gts.NewClient(&cfg.GTS, logger)
	registry := notify.NewRegistry(
		notify.NewPushoverClient(&cfg.Pushover, logger),
		notify.NewEmailSender(&cfg.Email, logger),
	)

	engine := reconciler.New(store, gtsClient, registry, &cfg.Reconciler, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Reconciler.PassTimeout)
	defer cancel()

	// Per-entry failures are counted inside the report and retried on the
	// next run; only a failure to run the pass at all is fatal. A pass cut
	// short by the timeout still processed some entries, so it is logged and
	// the process exits cleanly.
	report, err := engine.RunPass(ctx)
	if err != nil {
		if report == nil || (!errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled)) {
			logger.Fatal("Reconciliation pass failed", zap.Error(err))
		}
		logger.Warn("Reconciliation pass cut short, remaining entries retried on the next run", zap.Error(err))
	}

	logger.Info("Pass finished",
		zap.String("pass_id", report.ID.String()),
		zap.Int("checked", report.Checked),
		zap.Int("dispatched", report.Dispatched),
		zap.Int("fetch_errors", report.FetchErrors),
		zap.Int("dispatch_errors", report.DispatchErrors))
}
