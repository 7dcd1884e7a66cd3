// Package input turns the two active-low page buttons into page changes.
package input

import (
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/i474232898/weather-panel/internal/metrics"
	"github.com/i474232898/weather-panel/internal/state"
)

const (
	// DefaultDebounce is the minimum gap between two accepted presses of one button.
	DefaultDebounce = 200 * time.Millisecond

	debugInterval = time.Second
)

// Pin is a digital input line. Buttons are pulled up, so pressed reads gpio.Low.
type Pin interface {
	Read() gpio.Level
}

// Presenter redraws the display for the current state.
type Presenter interface {
	Present(st *state.State, reason string) error
}

// Poller reads the NEXT and PREV buttons once per loop iteration.
type Poller struct {
	next     Pin
	prev     Pin
	display  Presenter
	debounce time.Duration

	lastDebug time.Time
}

// NewPoller creates a Poller. A non-positive debounce selects DefaultDebounce.
func NewPoller(next, prev Pin, display Presenter, debounce time.Duration) *Poller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Poller{
		next:     next,
		prev:     prev,
		display:  display,
		debounce: debounce,
	}
}

// Poll samples both buttons at now and applies accepted presses to st.
// It returns the number of accepted presses.
func (p *Poller) Poll(st *state.State, now time.Time) int {
	accepted := 0

	nextLevel := p.next.Read()
	if p.accept(nextLevel, &st.LastNext, now) {
		p.press(st, "NEXT", +1, now)
		accepted++
	}

	prevLevel := p.prev.Read()
	if p.accept(prevLevel, &st.LastPrev, now) {
		p.press(st, "PREV", -1, now)
		accepted++
	}

	if now.Sub(p.lastDebug) > debugInterval {
		log.Printf("DEBUG: input: button states - next: %s, prev: %s", levelName(nextLevel), levelName(prevLevel))
		p.lastDebug = now
	}
	return accepted
}

func (p *Poller) accept(level gpio.Level, last *time.Time, now time.Time) bool {
	if level != gpio.Low || now.Sub(*last) <= p.debounce {
		return false
	}
	*last = now
	return true
}

func (p *Poller) press(st *state.State, button string, delta int, now time.Time) {
	st.Step(delta)
	metrics.ObservePress(button)
	log.Printf("input: button %s pressed - page %d/%d", button, st.Page+1, state.TotalPages)

	if err := p.display.Present(st, metrics.RedrawButton); err != nil {
		log.Printf("ERROR: input: redraw after %s press: %v", button, err)
	}
	st.LastDisplay = now
}

func levelName(l gpio.Level) string {
	if l == gpio.Low {
		return "PRESSED"
	}
	return "RELEASED"
}
