package display

import (
	"log"
)

// Console is a Screen that logs each frame. It stands in for the LCD when
// the panel runs headless.
type Console struct {
	logger *log.Logger
}

// NewConsole returns a Console writing to logger, or to the standard
// logger when logger is nil.
func NewConsole(logger *log.Logger) *Console {
	return &Console{logger: logger}
}

func (c *Console) Draw(f Frame) error {
	lines := f.Lines()
	for i, line := range lines {
		if c.logger != nil {
			c.logger.Printf("lcd[%d] |%-16s|", i, line)
		} else {
			log.Printf("lcd[%d] |%-16s|", i, line)
		}
	}
	return nil
}
