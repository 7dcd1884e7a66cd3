package input

import (
	"math/rand"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/i474232898/weather-panel/internal/state"
)

var boot = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakePin struct {
	level gpio.Level
}

func (p *fakePin) Read() gpio.Level { return p.level }

type countingPresenter struct {
	pages []int
}

func (c *countingPresenter) Present(st *state.State, reason string) error {
	c.pages = append(c.pages, st.Page)
	return nil
}

func newTestPoller() (*Poller, *fakePin, *fakePin, *countingPresenter) {
	next := &fakePin{level: gpio.High}
	prev := &fakePin{level: gpio.High}
	disp := &countingPresenter{}
	return NewPoller(next, prev, disp, DefaultDebounce), next, prev, disp
}

func TestPressAdvancesAndRedraws(t *testing.T) {
	p, next, _, disp := newTestPoller()
	st := state.New(boot)

	now := boot.Add(time.Second)
	next.level = gpio.Low
	if n := p.Poll(st, now); n != 1 {
		t.Fatalf("expected 1 accepted press, got %d", n)
	}
	if st.Page != 1 {
		t.Fatalf("expected page 1, got %d", st.Page)
	}
	if len(disp.pages) != 1 || disp.pages[0] != 1 {
		t.Fatalf("expected one redraw of page 1, got %v", disp.pages)
	}
	if !st.LastDisplay.Equal(now) || !st.LastNext.Equal(now) {
		t.Fatalf("expected display and debounce timers reset to %v", now)
	}
}

// TestDebounceIgnoresHeldButton verifies that presses within the debounce
// window of the last accepted press on the same button are ignored.
func TestDebounceIgnoresHeldButton(t *testing.T) {
	p, next, _, disp := newTestPoller()
	st := state.New(boot)
	next.level = gpio.Low

	first := boot.Add(time.Second)
	p.Poll(st, first)

	for _, d := range []time.Duration{50 * time.Millisecond, 150 * time.Millisecond, DefaultDebounce} {
		if n := p.Poll(st, first.Add(d)); n != 0 {
			t.Fatalf("press %s after the last one should be ignored", d)
		}
	}
	if st.Page != 1 || len(disp.pages) != 1 {
		t.Fatalf("expected page 1 after one redraw, got page %d after %d redraws", st.Page, len(disp.pages))
	}

	if n := p.Poll(st, first.Add(DefaultDebounce+time.Millisecond)); n != 1 {
		t.Fatalf("expected press after the window to be accepted")
	}
	if st.Page != 0 {
		t.Fatalf("expected wrap to page 0, got %d", st.Page)
	}
}

func TestPressRightAfterBootIgnored(t *testing.T) {
	p, next, _, _ := newTestPoller()
	st := state.New(boot)
	next.level = gpio.Low

	if n := p.Poll(st, boot.Add(100*time.Millisecond)); n != 0 {
		t.Fatalf("expected press inside the boot debounce window to be ignored")
	}
}

func TestPrevWrapsBackwards(t *testing.T) {
	p, _, prev, _ := newTestPoller()
	st := state.New(boot)
	prev.level = gpio.Low

	p.Poll(st, boot.Add(time.Second))
	if st.Page != state.TotalPages-1 {
		t.Fatalf("expected page %d, got %d", state.TotalPages-1, st.Page)
	}
}

// TestButtonsDebounceIndependently verifies one button's press does not
// block the other.
func TestButtonsDebounceIndependently(t *testing.T) {
	p, next, prev, disp := newTestPoller()
	st := state.New(boot)

	now := boot.Add(time.Second)
	next.level, prev.level = gpio.Low, gpio.Low

	if n := p.Poll(st, now); n != 2 {
		t.Fatalf("expected both presses accepted, got %d", n)
	}
	if st.Page != 0 {
		t.Fatalf("expected next then prev to cancel out, got page %d", st.Page)
	}
	if len(disp.pages) != 2 {
		t.Fatalf("expected a redraw per press, got %d", len(disp.pages))
	}
}

// TestRandomPressesStayInRange drives random press sequences and checks the
// page changes by exactly one step per accepted press.
func TestRandomPressesStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p, next, prev, _ := newTestPoller()
	st := state.New(boot)

	now := boot
	for i := 0; i < 1000; i++ {
		now = now.Add(time.Duration(rng.Intn(400)) * time.Millisecond)
		next.level = gpio.Level(rng.Intn(2) == 0)
		prev.level = gpio.High

		before := st.Page
		n := p.Poll(st, now)

		if st.Page < 0 || st.Page >= state.TotalPages {
			t.Fatalf("page %d out of range", st.Page)
		}
		want := before
		if n == 1 {
			want = state.Wrap(before + 1)
		}
		if st.Page != want {
			t.Fatalf("step %d: expected page %d, got %d", i, want, st.Page)
		}

		next.level, prev.level = prev.level, next.level
		before = st.Page
		n = p.Poll(st, now)
		want = before
		if n == 1 {
			want = state.Wrap(before - 1)
		}
		if st.Page != want {
			t.Fatalf("step %d: expected page %d after prev, got %d", i, want, st.Page)
		}
	}
}
