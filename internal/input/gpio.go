package input

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// OpenButton looks up a GPIO line by name (e.g. "GPIO17") and configures it
// as a pulled-up input. periph's host drivers must be initialised first.
func OpenButton(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %s as pulled-up input: %w", name, err)
	}
	return p, nil
}

// Released is a Pin that never reads pressed. It replaces the buttons in
// headless mode.
type Released struct{}

func (Released) Read() gpio.Level { return gpio.High }
