package weather

import (
	"context"
	"log"
	"time"

	"github.com/i474232898/weather-panel/internal/metrics"
)

// Fetcher pulls the current reading from a provider into a Snapshot.
type Fetcher struct {
	provider Provider
	link     Link
	now      func() time.Time
}

// NewFetcher creates a Fetcher. now stamps updated snapshots.
func NewFetcher(provider Provider, link Link, now func() time.Time) *Fetcher {
	if now == nil {
		now = time.Now
	}
	return &Fetcher{
		provider: provider,
		link:     link,
		now:      now,
	}
}

// Refresh performs one request and replaces *snap with the outcome.
// It returns false without touching snap when the link is down or ctx is
// cancelled while the request is in flight.
func (f *Fetcher) Refresh(ctx context.Context, snap *Snapshot) bool {
	if f.link != nil && !f.link.Connected() {
		log.Printf("fetcher: link down; keeping %s snapshot", snap.Status)
		metrics.ObserveFetch(metrics.FetchSkipped, 0)
		return false
	}

	start := time.Now()
	r, err := f.provider.Current(ctx)
	elapsed := time.Since(start)

	if err != nil && ctx.Err() != nil {
		log.Printf("fetcher: %s request abandoned: %v", f.provider.Name(), ctx.Err())
		return false
	}
	if err != nil {
		log.Printf("ERROR: fetcher: %s request failed: %v", f.provider.Name(), err)
		*snap = Failed(err, f.now())
		metrics.ObserveFetch(metrics.FetchFailed, elapsed)
		return true
	}

	*snap = Ready(r, f.now())
	metrics.ObserveFetch(metrics.FetchOK, elapsed)

	log.Printf("fetcher: parsed values from %s: temperature %s°C, wind speed %s km/h, wind direction %s°",
		f.provider.Name(), snap.Temperature(), snap.WindSpeed(), snap.WindDirection())
	return true
}
