package display

import (
	"strconv"
	"strings"

	"github.com/i474232898/weather-panel/internal/state"
	"github.com/i474232898/weather-panel/internal/weather"
)

// Display geometry.
const (
	Columns = 16
	Rows    = 2
)

// DegreeSymbol is the degree sign in the HD44780 A00 character ROM.
const DegreeSymbol byte = 0xDF

// indicatorColumn is where the "n/total" page indicator starts on row 0;
// it occupies the last three columns.
const indicatorColumn = Columns - 3

const windUnit = "km/h"

// Frame is one full screen of character codes.
type Frame [Rows][Columns]byte

// NewFrame returns a space-filled frame.
func NewFrame() Frame {
	var f Frame
	for r := range f {
		for c := range f[r] {
			f[r][c] = ' '
		}
	}
	return f
}

// Put writes s starting at col, row. Characters beyond the right edge are dropped.
func (f *Frame) Put(col, row int, s string) {
	if row < 0 || row >= Rows {
		return
	}
	for i := 0; i < len(s); i++ {
		c := col + i
		if c < 0 {
			continue
		}
		if c >= Columns {
			return
		}
		f[row][c] = s[i]
	}
}

// Lines returns the rows as text with trailing spaces removed and the
// degree code mapped to "°".
func (f Frame) Lines() []string {
	lines := make([]string, Rows)
	for r := range f {
		var b strings.Builder
		for _, ch := range f[r] {
			if ch == DegreeSymbol {
				b.WriteString("°")
				continue
			}
			b.WriteByte(ch)
		}
		lines[r] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

// Message returns a frame holding two free-form lines.
func Message(line1, line2 string) Frame {
	f := NewFrame()
	f.Put(0, 0, line1)
	f.Put(0, 1, line2)
	return f
}

// Render lays out page for snap. The page indicator is written last so it
// is never covered by a long value.
func Render(page int, snap weather.Snapshot) Frame {
	f := NewFrame()
	deg := string([]byte{DegreeSymbol})

	switch page {
	case state.PageTemperature:
		f.Put(0, 0, "Temp: "+snap.Temperature()+deg+"C")
		f.Put(0, 1, "Weather Info >>")
	case state.PageWind:
		// Units are shown only next to a real value that leaves room for
		// the indicator.
		wind := "Wind " + snap.WindSpeed()
		if snap.Status == weather.StatusReady && len(wind+windUnit) <= indicatorColumn {
			wind += windUnit
		}
		f.Put(0, 0, wind)
		f.Put(0, 1, "Dir: "+snap.WindDirection()+deg)
	}

	f.Put(indicatorColumn, 0, Indicator(page))
	return f
}

// Indicator returns the "current/total" text for page.
func Indicator(page int) string {
	return strconv.Itoa(page+1) + "/" + strconv.Itoa(state.TotalPages)
}
