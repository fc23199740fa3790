package flights

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/thiagohernandez/flight-me/internal/airlines"
	"github.com/thiagohernandez/flight-me/internal/observability"
	"github.com/thiagohernandez/flight-me/pkg/opensky"
)

// DefaultLookupTimeout bounds one metadata lookup so a slow upstream
// cannot stall the whole poll cycle.
const DefaultLookupTimeout = 5 * time.Second

// MetadataSource resolves airframe metadata by ICAO24 address.
// *opensky.Client satisfies it.
type MetadataSource interface {
	AircraftMetadata(ctx context.Context, icao24 string) (*opensky.AircraftMetadata, error)
}

// AircraftInfo is the resolved display strings for one airframe.
type AircraftInfo struct {
	Aircraft string
	Operator string
}

var unknownInfo = AircraftInfo{Aircraft: airlines.Unknown, Operator: airlines.Unknown}

// Enricher resolves airline and aircraft-type display strings for
// observed aircraft, caching results by ICAO24 for the lifetime of the
// process. The cache grows without bound; at single-dashboard scale that
// is an accepted tradeoff, not a leak worth the eviction machinery.
type Enricher struct {
	source  MetadataSource
	timeout time.Duration

	mu    sync.Mutex
	cache map[string]AircraftInfo
}

// NewEnricher creates an enricher with an empty cache.
func NewEnricher(source MetadataSource, lookupTimeout time.Duration) *Enricher {
	if lookupTimeout == 0 {
		lookupTimeout = DefaultLookupTimeout
	}
	return &Enricher{
		source:  source,
		timeout: lookupTimeout,
		cache:   make(map[string]AircraftInfo),
	}
}

// Enrich replaces each record's aircraft placeholder with resolved
// airframe info and upgrades the airline to the metadata operator when
// one is known. Lookups for distinct aircraft run concurrently; a failed
// or timed-out lookup degrades that one aircraft to Unknown without
// touching the rest of the batch.
//
// Upstream answers, including "aircraft unknown", are cached for the
// process lifetime. A lookup cut off by its deadline is not: large first
// batches queue lookups behind the API rate limiter, and caching those
// timeouts would pin the tail of the batch to Unknown forever instead of
// letting the next cycle resolve it.
func (e *Enricher) Enrich(ctx context.Context, records []Record) []Record {
	if len(records) == 0 {
		return records
	}

	// One lookup per distinct airframe per batch.
	pending := make(map[string]struct{})
	e.mu.Lock()
	for _, r := range records {
		if _, cached := e.cache[r.ICAO24]; !cached {
			pending[r.ICAO24] = struct{}{}
		}
	}
	e.mu.Unlock()

	var (
		wg      sync.WaitGroup
		batchMu sync.Mutex
	)
	batch := make(map[string]AircraftInfo, len(pending))
	for icao24 := range pending {
		wg.Add(1)
		go func(icao24 string) {
			defer wg.Done()
			info, cacheable := e.lookup(ctx, icao24)
			batchMu.Lock()
			batch[icao24] = info
			batchMu.Unlock()
			if cacheable {
				e.mu.Lock()
				e.cache[icao24] = info
				e.mu.Unlock()
			}
		}(icao24)
	}
	wg.Wait()

	out := make([]Record, len(records))
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, r := range records {
		info, ok := e.cache[r.ICAO24]
		if !ok {
			if info, ok = batch[r.ICAO24]; !ok {
				info = unknownInfo
			}
		}
		r.Aircraft = info.Aircraft
		// Enrichment only improves the airline: the callsign-derived
		// value stays when the metadata operator is unknown.
		if info.Operator != airlines.Unknown {
			r.Airline = info.Operator
		}
		out[i] = r
	}
	return out
}

// lookup resolves one airframe with the per-lookup timeout applied.
// The second return value reports whether the result may be cached;
// deadline and cancellation failures are transient and must not be.
func (e *Enricher) lookup(ctx context.Context, icao24 string) (AircraftInfo, bool) {
	if icao24 == "" {
		return unknownInfo, true
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	meta, err := e.source.AircraftMetadata(ctx, icao24)
	if err != nil {
		observability.LookupFailures.Inc()
		if errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, opensky.ErrRateLimited) {
			return unknownInfo, false
		}
		return unknownInfo, true
	}
	if meta == nil {
		return unknownInfo, true
	}

	aircraft := airlines.Unknown
	if meta.ManufacturerName != "" && meta.Model != "" {
		aircraft = meta.ManufacturerName + " " + meta.Model
	} else if meta.TypeCode != "" {
		aircraft = meta.TypeCode
	}

	operator := airlines.Unknown
	if meta.Operator != "" {
		operator = meta.Operator
	} else if name, ok := airlines.Lookup(meta.OperatorICAO); ok {
		operator = name
	}

	return AircraftInfo{Aircraft: aircraft, Operator: operator}, true
}

// CacheSize reports how many airframes are cached. Exposed for tests and
// the system status endpoint.
func (e *Enricher) CacheSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cache)
}
