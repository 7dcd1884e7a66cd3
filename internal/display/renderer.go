package display

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-panel/internal/metrics"
	"github.com/i474232898/weather-panel/internal/state"
	"github.com/i474232898/weather-panel/internal/store"
)

// Screen is a character display. Draw must clear the whole surface and
// write every cell of f.
type Screen interface {
	Draw(f Frame) error
}

// Publisher receives every rendered status.
type Publisher interface {
	Publish(status store.Status)
}

// Renderer draws pages for the panel state.
type Renderer struct {
	screen    Screen
	publisher Publisher
	now       func() time.Time
}

// NewRenderer creates a Renderer. publisher may be nil.
func NewRenderer(screen Screen, publisher Publisher, now func() time.Time) *Renderer {
	if now == nil {
		now = time.Now
	}
	return &Renderer{
		screen:    screen,
		publisher: publisher,
		now:       now,
	}
}

// Present fully redraws the current page of st.
func (r *Renderer) Present(st *state.State, reason string) error {
	f := Render(st.Page, st.Weather)

	if err := r.screen.Draw(f); err != nil {
		return fmt.Errorf("draw page %s: %w", Indicator(st.Page), err)
	}
	metrics.ObserveRedraw(reason, st.Page)

	if r.publisher != nil {
		r.publisher.Publish(store.Status{
			Page:       st.Page,
			TotalPages: state.TotalPages,
			Weather:    st.Weather.View(),
			Lines:      f.Lines(),
			RenderedAt: r.now(),
			Snapshot:   st.Weather,
		})
	}
	return nil
}

// Show fully redraws the screen with a two-line message.
func (r *Renderer) Show(line1, line2 string) error {
	return r.screen.Draw(Message(line1, line2))
}
