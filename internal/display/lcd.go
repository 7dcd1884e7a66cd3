package display

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"tinygo.org/x/drivers/hd44780i2c"
)

// DefaultLCDAddress is the usual PCF8574 backpack address.
const DefaultLCDAddress = 0x27

// LCD is a 16x2 HD44780 behind a PCF8574 I2C backpack.
type LCD struct {
	dev hd44780i2c.Device
	bus *txErrors
}

// OpenLCD opens busName (empty picks the first bus) and initialises the
// display at addr. The returned close func releases the bus.
func OpenLCD(busName string, addr uint16) (*LCD, func() error, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	lcd, err := NewLCD(bus, addr)
	if err != nil {
		bus.Close()
		return nil, nil, err
	}
	return lcd, bus.Close, nil
}

// NewLCD configures the display at addr on bus, leaving it cleared with
// the backlight on.
func NewLCD(bus i2c.Bus, addr uint16) (*LCD, error) {
	if addr > 0x7F {
		return nil, fmt.Errorf("lcd address 0x%x out of 7-bit range", addr)
	}

	l := &LCD{bus: &txErrors{bus: bus}}
	l.dev = hd44780i2c.New(l.bus, uint8(addr))

	if err := l.dev.Configure(hd44780i2c.Config{Width: Columns, Height: Rows}); err != nil {
		return nil, fmt.Errorf("init lcd at 0x%02x: %w", addr, err)
	}
	if err := l.bus.take(); err != nil {
		return nil, fmt.Errorf("init lcd at 0x%02x: %w", addr, err)
	}
	return l, nil
}

// Draw clears the display and writes both rows of f.
func (l *LCD) Draw(f Frame) error {
	l.dev.ClearDisplay()
	for row := range f {
		l.dev.SetCursor(0, uint8(row))
		l.dev.Print(f[row][:])
	}

	if err := l.bus.take(); err != nil {
		return fmt.Errorf("lcd write: %w", err)
	}
	return nil
}

// txErrors keeps the first bus error, which the driver itself discards.
type txErrors struct {
	bus i2c.Bus

	mu  sync.Mutex
	err error
}

func (t *txErrors) Tx(addr uint16, w, r []byte) error {
	err := t.bus.Tx(addr, w, r)
	if err != nil {
		t.mu.Lock()
		if t.err == nil {
			t.err = err
		}
		t.mu.Unlock()
	}
	return err
}

// take returns and resets the first error seen since the last call.
func (t *txErrors) take() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.err
	t.err = nil
	return err
}
