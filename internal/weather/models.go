package weather

import (
	"errors"
	"strconv"
	"time"
)

// Display texts used when no valid reading is available.
const (
	TextUnavailable = "N/A"
	TextError       = "Error"
)

var (
	// ErrTransport marks a request that did not produce a usable response.
	ErrTransport = errors.New("weather transport failure")
	// ErrDecode marks a response body that did not have the expected shape.
	ErrDecode = errors.New("weather payload decode failure")
)

// Status is the tag of a Snapshot.
type Status int

const (
	StatusUnavailable Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unavailable"
	}
}

// Reading is one decoded current-weather observation.
type Reading struct {
	TemperatureC     float64 `json:"temperatureC"`
	WindSpeedKmh     float64 `json:"windSpeedKmh"`
	WindDirectionDeg int     `json:"windDirectionDeg"`
}

// Snapshot is the panel's view of the weather: nothing yet, a valid
// reading, or a failure. It is always replaced as a whole value.
type Snapshot struct {
	Status    Status
	Reading   Reading
	Err       error
	UpdatedAt time.Time
}

// Ready returns a snapshot holding r.
func Ready(r Reading, at time.Time) Snapshot {
	return Snapshot{Status: StatusReady, Reading: r, UpdatedAt: at}
}

// Failed returns a snapshot recording err.
func Failed(err error, at time.Time) Snapshot {
	return Snapshot{Status: StatusFailed, Err: err, UpdatedAt: at}
}

// Temperature returns the temperature as display text with one decimal.
func (s Snapshot) Temperature() string {
	return s.text(func(r Reading) string { return oneDecimal(r.TemperatureC) })
}

// WindSpeed returns the wind speed as display text with one decimal.
func (s Snapshot) WindSpeed() string {
	return s.text(func(r Reading) string { return oneDecimal(r.WindSpeedKmh) })
}

// WindDirection returns the wind direction in whole degrees.
func (s Snapshot) WindDirection() string {
	return s.text(func(r Reading) string { return strconv.Itoa(r.WindDirectionDeg) })
}

func (s Snapshot) text(format func(Reading) string) string {
	switch s.Status {
	case StatusReady:
		return format(s.Reading)
	case StatusFailed:
		return TextError
	default:
		return TextUnavailable
	}
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// View is the JSON form of a Snapshot.
type View struct {
	Status        string     `json:"status"`
	Temperature   string     `json:"temperature"`
	WindSpeed     string     `json:"windSpeed"`
	WindDirection string     `json:"windDirection"`
	Error         string     `json:"error,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// View converts the snapshot to its display texts.
func (s Snapshot) View() View {
	v := View{
		Status:        s.Status.String(),
		Temperature:   s.Temperature(),
		WindSpeed:     s.WindSpeed(),
		WindDirection: s.WindDirection(),
	}
	if !s.UpdatedAt.IsZero() {
		at := s.UpdatedAt
		v.UpdatedAt = &at
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	return v
}
