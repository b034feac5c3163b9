// Package reconciler drives the trade-watch reconciliation passes. A pass
// compares each registered entry's live trade state against its persisted
// watermark and dispatches a notification for every newly completed trade.
package reconciler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sharktamer/gtsnotifier/internal/metrics"
	"github.com/sharktamer/gtsnotifier/pkg/config"
	"github.com/sharktamer/gtsnotifier/pkg/gts"
	"github.com/sharktamer/gtsnotifier/pkg/notify"
	"github.com/sharktamer/gtsnotifier/pkg/watch"
)

// Store provides the watch entry operations reconciliation needs.
type Store interface {
	ListEntries(ctx context.Context) ([]*watch.Entry, error)
	UpdateWatermark(ctx context.Context, profileID, watermark string) error
}

// TradeFetcher fetches the most recent completed trade for a profile.
type TradeFetcher interface {
	FetchTradeState(ctx context.Context, query gts.TradeQuery) (*gts.TradeResult, error)
}

// PassReport summarizes one reconciliation pass.
type PassReport struct {
	ID       uuid.UUID
	Started  time.Time
	Duration time.Duration

	Checked        int
	Detected       int
	Dispatched     int
	Skipped        int
	FetchErrors    int
	DispatchErrors int
}

// Reconciler runs reconciliation passes over all registered watch entries.
type Reconciler struct {
	store    Store
	fetcher  TradeFetcher
	registry *notify.Registry
	cfg      *config.ReconcilerConfig
	logger   *zap.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a new Reconciler
func New(
	store Store,
	fetcher TradeFetcher,
	registry *notify.Registry,
	cfg *config.ReconcilerConfig,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		store:    store,
		fetcher:  fetcher,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// RunPass executes one reconciliation pass over every registered entry.
//
// Entries are processed independently: a failure on one entry never stops
// the pass, it is counted and the entry is retried on the next pass. For
// each entry the pass:
//  1. Fetches the latest completed trade from the game service
//  2. Skips entries with no completed trade
//  3. Skips entries whose trade identifier equals the stored watermark
//  4. Dispatches a notification for a newly observed trade
//  5. Advances the watermark only after the dispatch succeeded
//
// The watermark comparison is plain inequality. The trade identifier is an
// opaque string from the provider and is never ordered; an entry whose
// identifier merely changed is treated as a new trade.
func (r *Reconciler) RunPass(ctx context.Context) (*PassReport, error) {
	report := &PassReport{
		ID:      uuid.New(),
		Started: time.Now(),
	}

	r.logger.Info("Starting reconciliation pass",
		zap.String("pass_id", report.ID.String()))

	entries, err := r.store.ListEntries(ctx)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("reconciler", "list_entries").Inc()
		return nil, fmt.Errorf("failed to list watch entries: %w", err)
	}
	metrics.WatchedEntries.Set(float64(len(entries)))

	workers := r.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		entryCh = make(chan *watch.Entry)
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range entryCh {
				outcome := r.processEntry(ctx, entry)
				mu.Lock()
				report.Checked++
				switch outcome {
				case outcomeSkipped:
					report.Skipped++
				case outcomeDispatched:
					report.Detected++
					report.Dispatched++
				case outcomeFetchError:
					report.FetchErrors++
				case outcomeDispatchError:
					report.Detected++
					report.DispatchErrors++
				}
				mu.Unlock()
			}
		}()
	}

	// Stop feeding workers once the context is done; entries already
	// handed out finish on their own.
feed:
	for _, entry := range entries {
		select {
		case entryCh <- entry:
		case <-ctx.Done():
			break feed
		}
	}
	close(entryCh)
	wg.Wait()

	report.Duration = time.Since(report.Started)

	metrics.PassesTotal.Inc()
	metrics.PassDuration.Observe(report.Duration.Seconds())

	r.logger.Info("Reconciliation pass completed",
		zap.String("pass_id", report.ID.String()),
		zap.Int("checked", report.Checked),
		zap.Int("detected", report.Detected),
		zap.Int("dispatched", report.Dispatched),
		zap.Int("skipped", report.Skipped),
		zap.Int("fetch_errors", report.FetchErrors),
		zap.Int("dispatch_errors", report.DispatchErrors),
		zap.Duration("duration", report.Duration))

	return report, ctx.Err()
}

type entryOutcome int

const (
	outcomeSkipped entryOutcome = iota
	outcomeDispatched
	outcomeFetchError
	outcomeDispatchError
)

// processEntry reconciles a single entry. All failures are contained here;
// the caller only learns the outcome kind for bookkeeping.
func (r *Reconciler) processEntry(ctx context.Context, entry *watch.Entry) entryOutcome {
	metrics.EntriesChecked.Inc()

	result, err := r.fetcher.FetchTradeState(ctx, gts.TradeQuery{
		ProfileID:  entry.ProfileID,
		AccountID:  entry.AccountID,
		SaveDataID: entry.SaveDataID,
	})
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("reconciler", "fetch").Inc()
		r.logger.Warn("Failed to fetch trade state",
			zap.String("profile_id", entry.ProfileID),
			zap.Error(err))
		return outcomeFetchError
	}
	if result == nil {
		return outcomeSkipped
	}

	if result.TradeDate == entry.Watermark {
		return outcomeSkipped
	}

	message := renderTradeMessage(result)

	dispatcher, err := r.registry.Get(entry.Channel)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("reconciler", "channel").Inc()
		r.logger.Error("No dispatcher for entry channel",
			zap.String("profile_id", entry.ProfileID),
			zap.String("channel", string(entry.Channel)),
			zap.Error(err))
		return outcomeDispatchError
	}

	if err := dispatcher.Send(ctx, entry.Destination, message); err != nil {
		metrics.ErrorsTotal.WithLabelValues("reconciler", "dispatch").Inc()
		r.logger.Warn("Failed to dispatch notification, watermark held back",
			zap.String("profile_id", entry.ProfileID),
			zap.String("channel", string(entry.Channel)),
			zap.Error(err))
		return outcomeDispatchError
	}
	metrics.NotificationsSent.WithLabelValues(string(entry.Channel)).Inc()
	metrics.TradesDetected.Inc()

	// The watermark advances only after a confirmed dispatch. A failed
	// update means the same trade is reported again next pass; duplicate
	// delivery is preferred over a silently dropped one.
	if err := r.store.UpdateWatermark(ctx, entry.ProfileID, result.TradeDate); err != nil {
		metrics.ErrorsTotal.WithLabelValues("reconciler", "watermark").Inc()
		r.logger.Error("Failed to advance watermark",
			zap.String("profile_id", entry.ProfileID),
			zap.String("watermark", result.TradeDate),
			zap.Error(err))
		return outcomeDispatched
	}

	r.logger.Info("Trade notification delivered",
		zap.String("profile_id", entry.ProfileID),
		zap.String("channel", string(entry.Channel)),
		zap.String("watermark", result.TradeDate))
	return outcomeDispatched
}

// renderTradeMessage formats the user-facing notification text.
func renderTradeMessage(result *gts.TradeResult) string {
	return fmt.Sprintf("Your %s was successfully traded for %s",
		result.SentItem, result.ReceivedItem)
}

// StartPeriodic starts a background goroutine that runs a reconciliation
// pass on every tick until Stop is called.
func (r *Reconciler) StartPeriodic(interval time.Duration) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		r.logger.Info("Started periodic reconciliation", zap.Duration("interval", interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), r.cfg.PassTimeout)
				if _, err := r.RunPass(ctx); err != nil {
					r.logger.Error("Periodic reconciliation pass failed", zap.Error(err))
				}
				cancel()
			case <-r.stopCh:
				r.logger.Info("Stopping periodic reconciliation")
				return
			}
		}
	}()
}

// Stop stops the periodic reconciliation
func (r *Reconciler) Stop() {
	close(r.stopCh)
	r.wg.Wait()
}
