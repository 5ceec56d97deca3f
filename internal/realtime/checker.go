package realtime

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"parking-api/internal/gateway"
	"parking-api/internal/places"
)

// defaultCheckInterval is how often free-place date ranges are rechecked.
const defaultCheckInterval = 60 * time.Second

// DateChecker periodically asks the database to expire lapsed free-place
// records and broadcasts the ids it touched. A cycle is scheduled only
// after the previous one finished, so checks never overlap.
type DateChecker struct {
	gw       gateway.Gateway
	notifier places.Notifier
	interval time.Duration
	log      *slog.Logger
	started  atomic.Bool
}

// NewDateChecker builds a checker; interval <= 0 selects the default.
func NewDateChecker(gw gateway.Gateway, notifier places.Notifier, interval time.Duration, log *slog.Logger) *DateChecker {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &DateChecker{
		gw:       gw,
		notifier: notifier,
		interval: interval,
		log:      log,
	}
}

// Start launches the check loop. Repeated calls are no-ops. The loop runs
// for the lifetime of ctx; there is no other way to stop it.
func (c *DateChecker) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go c.run(ctx)
}

func (c *DateChecker) run(ctx context.Context) {
	for {
		c.check(ctx)
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.interval):
		}
	}
}

// check performs one cycle. Failures are logged; the loop continues.
func (c *DateChecker) check(ctx context.Context) {
	ids, err := places.CheckExpiredDates(ctx, c.gw)
	if err != nil {
		c.log.Error("free-place date check failed", "error", err)
		return
	}
	if len(ids) > 0 {
		c.log.Info("free-place records expired", "place_ids", ids)
		c.notifier.NotifyPlacesChanged(ids)
	}
}
