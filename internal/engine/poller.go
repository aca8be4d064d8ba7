package engine

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wxbeacon/wxbeacon/internal/archive"
	"github.com/wxbeacon/wxbeacon/internal/log"
)

// Poller tails the archive table and dispatches each newly arrived row
// as an observation event. In the standalone daemon the archive is the
// only observation source, so the poller stands in for the host engine's
// event loop; the configured binding mode decides whether rows are
// presented as loop packets or archive records.
type Poller struct {
	store    archive.Store
	engine   *Engine
	kind     EventKind
	interval time.Duration
	clock    clockwork.Clock
	lastSeen int64
}

// NewPoller creates a poller dispatching events of the given kind every
// interval.
func NewPoller(store archive.Store, eng *Engine, kind EventKind, interval time.Duration) *Poller {
	return &Poller{
		store:    store,
		engine:   eng,
		kind:     kind,
		interval: interval,
		clock:    clockwork.NewRealClock(),
	}
}

// SetClock swaps the time source so tests can drive ticks deterministically.
func (p *Poller) SetClock(c clockwork.Clock) {
	p.clock = c
}

// Run polls until ctx is cancelled. Only records arriving after startup
// are beaconed; the backlog already in the archive is skipped.
func (p *Poller) Run(ctx context.Context) {
	latest, err := p.store.LatestTimestamp()
	if err != nil {
		log.Errorf("unable to determine archive high-water mark, starting from zero: %v", err)
	}
	p.lastSeen = latest

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			p.poll()
		case <-ctx.Done():
			log.Info("cancellation request received.  Cancelling archive poller.")
			return
		}
	}
}

// poll dispatches every record newer than the high-water mark, in
// timestamp order, and advances the mark. A failed query skips the cycle
// and leaves the mark untouched so no record is lost.
func (p *Poller) poll() {
	records, err := p.store.ObservationsSince(p.lastSeen)
	if err != nil {
		log.Errorf("archive poll failed: %v", err)
		return
	}

	for _, record := range records {
		p.engine.Dispatch(Event{Kind: p.kind, Record: record})
		if record.DateTime > p.lastSeen {
			p.lastSeen = record.DateTime
		}
	}

	if len(records) > 0 {
		log.Debugf("dispatched %d new archive records as %s events", len(records), p.kind)
	}
}
