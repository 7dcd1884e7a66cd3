// Package state holds the panel's single process-wide application state.
// It is owned by the scheduler loop and handed by pointer to each component;
// nothing in it is safe for concurrent use.
package state

import (
	"time"

	"github.com/i474232898/weather-panel/internal/weather"
)

// TotalPages is the number of info pages.
const TotalPages = 2

// Pages.
const (
	PageTemperature = 0
	PageWind        = 1
)

// State is the mutable panel state.
type State struct {
	// Page is in [0, TotalPages). Only the input poller changes it.
	Page int
	// Weather is only replaced by the fetcher.
	Weather weather.Snapshot

	LastFetch   time.Time
	LastDisplay time.Time

	// Last accepted press per button.
	LastNext time.Time
	LastPrev time.Time
}

// New returns the boot state; every timer starts at now.
func New(now time.Time) *State {
	return &State{
		Page:        PageTemperature,
		LastFetch:   now,
		LastDisplay: now,
		LastNext:    now,
		LastPrev:    now,
	}
}

// Step moves the page by delta, wrapping modulo TotalPages.
func (s *State) Step(delta int) {
	s.Page = Wrap(s.Page + delta)
}

// Wrap maps any integer onto [0, TotalPages).
func Wrap(page int) int {
	page %= TotalPages
	if page < 0 {
		page += TotalPages
	}
	return page
}
