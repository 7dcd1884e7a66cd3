package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/i474232898/weather-panel/internal/clock"
	"github.com/i474232898/weather-panel/internal/display"
	"github.com/i474232898/weather-panel/internal/input"
	"github.com/i474232898/weather-panel/internal/network"
	"github.com/i474232898/weather-panel/internal/weather"
)

var boot = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeProvider struct {
	calls int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Current(ctx context.Context) (weather.Reading, error) {
	p.calls++
	return weather.Reading{TemperatureC: 23.456, WindSpeedKmh: 5, WindDirectionDeg: 180}, nil
}

type fakeLink struct {
	up bool
}

func (l *fakeLink) Associate(ctx context.Context) error { return nil }
func (l *fakeLink) Connected() bool                     { return l.up }

type fakePin struct {
	level gpio.Level
}

func (p *fakePin) Read() gpio.Level { return p.level }

type recordingScreen struct {
	frames []display.Frame
}

func (s *recordingScreen) Draw(f display.Frame) error {
	s.frames = append(s.frames, f)
	return nil
}

func (s *recordingScreen) last() []string {
	return s.frames[len(s.frames)-1].Lines()
}

type fixture struct {
	clk      *clock.Fake
	link     *fakeLink
	provider *fakeProvider
	next     *fakePin
	screen   *recordingScreen
	loop     *Loop
}

func newFixture(linkUp bool) *fixture {
	f := &fixture{
		clk:      clock.NewFake(boot),
		link:     &fakeLink{up: linkUp},
		provider: &fakeProvider{},
		next:     &fakePin{level: gpio.High},
		screen:   &recordingScreen{},
	}

	renderer := display.NewRenderer(f.screen, nil, f.clk.Now)
	fetcher := weather.NewFetcher(f.provider, f.link, f.clk.Now)
	poller := input.NewPoller(f.next, &fakePin{level: gpio.High}, renderer, 0)

	f.loop = NewLoop(f.clk, f.link, fetcher, poller, renderer, Intervals{})
	return f
}

func TestBootConnected(t *testing.T) {
	f := newFixture(true)

	if err := f.loop.Boot(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.provider.calls != 1 {
		t.Fatalf("expected one fetch at boot, got %d", f.provider.calls)
	}

	first := f.screen.frames[0].Lines()
	if first[0] != "Weather Info:" || first[1] != "Connecting..." {
		t.Fatalf("unexpected boot screen %q", first)
	}
	if got := f.screen.frames[1].Lines()[0]; got != "Connected!" {
		t.Fatalf("expected Connected!, got %q", got)
	}
	if got := f.screen.last()[0]; got != "Temp: 23.5°C 1/2" {
		t.Fatalf("expected first page after boot, got %q", got)
	}
	if got := f.clk.Now().Sub(boot); got != connectedSplash {
		t.Fatalf("expected %s splash, got %s", connectedSplash, got)
	}
}

// TestBootTimeout verifies a failed connection is shown and nothing else runs.
func TestBootTimeout(t *testing.T) {
	f := newFixture(false)

	err := f.loop.Boot(context.Background())
	if !errors.Is(err, network.ErrConnectTimeout) {
		t.Fatalf("expected ErrConnectTimeout, got %v", err)
	}
	if got := f.screen.last()[0]; got != "WiFi Failed" {
		t.Fatalf("expected WiFi Failed, got %q", got)
	}
	if f.provider.calls != 0 {
		t.Fatalf("expected no fetch, got %d", f.provider.calls)
	}
	if f.loop.State().Weather.Status != weather.StatusUnavailable {
		t.Fatalf("expected weather to stay unavailable")
	}
}

// TestIdleTicksChangeNothing verifies that ticks below every threshold
// neither mutate state nor redraw.
func TestIdleTicksChangeNothing(t *testing.T) {
	f := newFixture(true)
	before := *f.loop.State()

	for i := 0; i < 50; i++ {
		f.loop.Tick(context.Background())
		f.clk.Advance(50 * time.Millisecond)
	}

	if *f.loop.State() != before {
		t.Fatalf("state changed: %+v", *f.loop.State())
	}
	if len(f.screen.frames) != 0 {
		t.Fatalf("expected no redraw, got %d", len(f.screen.frames))
	}
	if f.provider.calls != 0 {
		t.Fatalf("expected no fetch, got %d", f.provider.calls)
	}
}

func TestTickRedrawsOnDisplayInterval(t *testing.T) {
	f := newFixture(true)

	f.clk.Advance(DefaultDisplayInterval)
	f.loop.Tick(context.Background())

	if len(f.screen.frames) != 1 {
		t.Fatalf("expected one redraw, got %d", len(f.screen.frames))
	}
	if got := f.screen.last()[0]; got != "Temp: N/A°C  1/2" {
		t.Fatalf("unexpected frame %q", got)
	}
	if !f.loop.State().LastDisplay.Equal(f.clk.Now()) {
		t.Fatalf("expected display timer reset")
	}
}

func TestTickFetchesOnFetchInterval(t *testing.T) {
	f := newFixture(true)

	f.clk.Advance(DefaultFetchInterval - time.Millisecond)
	f.loop.Tick(context.Background())
	if f.provider.calls != 0 {
		t.Fatalf("expected no fetch before the interval")
	}

	f.clk.Advance(time.Millisecond)
	f.loop.Tick(context.Background())
	if f.provider.calls != 1 {
		t.Fatalf("expected one fetch, got %d", f.provider.calls)
	}
	if f.loop.State().Weather.Status != weather.StatusReady {
		t.Fatalf("expected ready weather")
	}
	if !f.loop.State().LastFetch.Equal(f.clk.Now()) {
		t.Fatalf("expected fetch timer reset")
	}
}

// TestButtonPressDefersScheduledRedraw verifies a press redraws at once and
// restarts the display timer.
func TestButtonPressDefersScheduledRedraw(t *testing.T) {
	f := newFixture(true)

	f.clk.Advance(DefaultDisplayInterval - 100*time.Millisecond)
	f.next.level = gpio.Low
	f.loop.Tick(context.Background())
	f.next.level = gpio.High

	if len(f.screen.frames) != 1 || f.screen.last()[0] != "Wind N/A     2/2" {
		t.Fatalf("expected one redraw of page 2, got %d frames", len(f.screen.frames))
	}

	f.clk.Advance(200 * time.Millisecond)
	f.loop.Tick(context.Background())
	if len(f.screen.frames) != 1 {
		t.Fatalf("expected scheduled redraw to be deferred, got %d frames", len(f.screen.frames))
	}
}

func TestRequestRefresh(t *testing.T) {
	f := newFixture(true)

	if !f.loop.RequestRefresh() {
		t.Fatalf("expected first request to be queued")
	}
	if f.loop.RequestRefresh() {
		t.Fatalf("expected second request to be rejected while pending")
	}

	f.loop.Tick(context.Background())
	if f.provider.calls != 1 {
		t.Fatalf("expected requested fetch, got %d", f.provider.calls)
	}
	if !f.loop.RequestRefresh() {
		t.Fatalf("expected a new request after the previous one was served")
	}
}

func TestTickSkipsFetchWhenLinkDown(t *testing.T) {
	f := newFixture(false)

	f.clk.Advance(DefaultFetchInterval)
	f.loop.Tick(context.Background())

	if f.provider.calls != 0 {
		t.Fatalf("expected no request with the link down")
	}
	if !f.loop.State().LastFetch.Equal(f.clk.Now()) {
		t.Fatalf("expected fetch timer to advance even when skipped")
	}
}
