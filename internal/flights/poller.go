package flights

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/thiagohernandez/flight-me/pkg/geo"
)

// DefaultPollInterval matches the dashboard refresh cadence.
const DefaultPollInterval = 30 * time.Second

// Snapshot is the poller's published view: the most recent successful
// result set plus the error from the latest cycle, if it failed. A
// non-nil Err alongside non-empty Flights means the board is showing
// stale data.
type Snapshot struct {
	Flights   []Record
	UpdatedAt time.Time
	Err       error
}

// Poller runs the fetch pipeline on a fixed interval and retains the
// last successful snapshot across failed cycles, so the board keeps its
// aircraft while the upstream hiccups.
type Poller struct {
	service  *Service
	center   geo.Point
	radiusKm float64
	interval time.Duration
	logger   *slog.Logger

	mu   sync.RWMutex
	snap Snapshot

	subMu sync.Mutex
	subs  map[chan Snapshot]struct{}
}

// NewPoller creates a poller for the given region. It does not start
// polling; call Run.
func NewPoller(service *Service, center geo.Point, radiusKm float64, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		service:  service,
		center:   center,
		radiusKm: radiusKm,
		interval: interval,
		logger:   logger,
		subs:     make(map[chan Snapshot]struct{}),
	}
}

// Run polls until ctx is canceled. The first cycle fires immediately so
// the board is populated at startup rather than one interval later.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// Retarget points the poller at a new region and polls it at once.
func (p *Poller) Retarget(ctx context.Context, center geo.Point, radiusKm float64) {
	p.mu.Lock()
	p.center = center
	p.radiusKm = radiusKm
	p.mu.Unlock()
	p.poll(ctx)
}

func (p *Poller) poll(ctx context.Context) {
	p.mu.RLock()
	center, radius := p.center, p.radiusKm
	p.mu.RUnlock()

	flights, err := p.service.Fetch(ctx, center, radius)

	p.mu.Lock()
	if err != nil {
		// Keep the previous flights; only the error changes.
		p.snap.Err = err
		p.logger.Warn("poll cycle failed, retaining previous snapshot",
			"error", err,
			"retained", len(p.snap.Flights))
	} else {
		p.snap = Snapshot{Flights: flights, UpdatedAt: time.Now()}
	}
	snap := p.snap
	p.mu.Unlock()

	p.publish(snap)
}

// Snapshot returns the current published view. The flights slice is
// shared; callers must not mutate it.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// Subscribe registers a channel that receives every new snapshot. A
// subscriber that falls behind misses intermediate snapshots rather
// than blocking the poll loop. Call the returned func to unsubscribe.
func (p *Poller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	p.subMu.Lock()
	p.subs[ch] = struct{}{}
	p.subMu.Unlock()

	cancel := func() {
		p.subMu.Lock()
		delete(p.subs, ch)
		p.subMu.Unlock()
	}
	return ch, cancel
}

func (p *Poller) publish(snap Snapshot) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- snap:
		default:
			// Drop the stale value and replace it with the fresh one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
