package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/i474232898/weather-panel/internal/clock"
	"github.com/i474232898/weather-panel/internal/display"
	"github.com/i474232898/weather-panel/internal/input"
	"github.com/i474232898/weather-panel/internal/metrics"
	"github.com/i474232898/weather-panel/internal/network"
	"github.com/i474232898/weather-panel/internal/state"
	"github.com/i474232898/weather-panel/internal/weather"
)

// Default loop timings.
const (
	DefaultFetchInterval   = 60 * time.Second
	DefaultDisplayInterval = 3 * time.Second
	DefaultTickInterval    = 50 * time.Millisecond

	connectedSplash = 2 * time.Second
)

// Intervals gates the periodic actions of a Loop. Zero fields take the defaults.
type Intervals struct {
	Fetch          time.Duration
	Display        time.Duration
	ConnectTimeout time.Duration
	ConnectPoll    time.Duration
}

func (iv Intervals) withDefaults() Intervals {
	if iv.Fetch <= 0 {
		iv.Fetch = DefaultFetchInterval
	}
	if iv.Display <= 0 {
		iv.Display = DefaultDisplayInterval
	}
	if iv.ConnectTimeout <= 0 {
		iv.ConnectTimeout = network.DefaultConnectTimeout
	}
	if iv.ConnectPoll <= 0 {
		iv.ConnectPoll = network.DefaultPollInterval
	}
	return iv
}

// Loop owns the panel state and runs one cooperative iteration per Tick.
// Tick and Boot must not run concurrently with each other.
type Loop struct {
	st        *state.State
	clock     clock.Clock
	link      network.Link
	fetcher   *weather.Fetcher
	poller    *input.Poller
	renderer  *display.Renderer
	intervals Intervals

	refresh chan struct{}
}

// NewLoop creates a Loop whose state and timers start now.
func NewLoop(
	clk clock.Clock,
	link network.Link,
	fetcher *weather.Fetcher,
	poller *input.Poller,
	renderer *display.Renderer,
	intervals Intervals,
) *Loop {
	return &Loop{
		st:        state.New(clk.Now()),
		clock:     clk,
		link:      link,
		fetcher:   fetcher,
		poller:    poller,
		renderer:  renderer,
		intervals: intervals.withDefaults(),
		refresh:   make(chan struct{}, 1),
	}
}

// State exposes the loop state. Callers must not use it while the loop runs.
func (l *Loop) State() *state.State {
	return l.st
}

// Boot joins the network and, once connected, fetches and draws the first
// page. A connection timeout leaves "WiFi Failed" on screen and is returned;
// it is not retried.
func (l *Loop) Boot(ctx context.Context) error {
	l.show("Weather Info:", "Connecting...")

	if err := l.link.Associate(ctx); err != nil {
		log.Printf("ERROR: scheduler: associate: %v", err)
	}

	err := network.WaitForConnection(ctx, l.link, l.clock, l.intervals.ConnectTimeout, l.intervals.ConnectPoll)
	if err != nil {
		if errors.Is(err, network.ErrConnectTimeout) {
			l.show("WiFi Failed", "")
			log.Println("ERROR: scheduler: wifi connection failed")
		}
		return err
	}

	l.show("Connected!", "")
	l.clock.Sleep(connectedSplash)
	l.show("", "")

	l.fetcher.Refresh(ctx, &l.st.Weather)
	l.present(metrics.RedrawBoot)
	return nil
}

// Tick runs one loop iteration: buttons, then a due fetch, then a due redraw.
func (l *Loop) Tick(ctx context.Context) {
	l.poller.Poll(l.st, l.clock.Now())

	now := l.clock.Now()
	if l.refreshRequested() || now.Sub(l.st.LastFetch) >= l.intervals.Fetch {
		l.fetcher.Refresh(ctx, &l.st.Weather)
		l.st.LastFetch = now
	}

	if now.Sub(l.st.LastDisplay) >= l.intervals.Display {
		l.present(metrics.RedrawScheduled)
		l.st.LastDisplay = now
	}
}

// RequestRefresh asks the next Tick to fetch regardless of the fetch timer.
// It returns false if a request is already pending.
func (l *Loop) RequestRefresh() bool {
	select {
	case l.refresh <- struct{}{}:
		return true
	default:
		return false
	}
}

func (l *Loop) refreshRequested() bool {
	select {
	case <-l.refresh:
		log.Println("scheduler: manual refresh requested")
		return true
	default:
		return false
	}
}

func (l *Loop) present(reason string) {
	if err := l.renderer.Present(l.st, reason); err != nil {
		log.Printf("ERROR: scheduler: redraw: %v", err)
	}
}

func (l *Loop) show(line1, line2 string) {
	if err := l.renderer.Show(line1, line2); err != nil {
		log.Printf("ERROR: scheduler: show %q: %v", line1, err)
	}
}
