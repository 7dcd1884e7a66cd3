package network

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/i474232898/weather-panel/internal/clock"
)

// Defaults for the boot-time connection wait.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultPollInterval   = time.Second
)

// ErrConnectTimeout is returned when the link did not come up in time.
var ErrConnectTimeout = errors.New("network connection timed out")

// WaitForConnection blocks until link reports connected, polling every
// interval. It gives up with ErrConnectTimeout once timeout has elapsed.
func WaitForConnection(ctx context.Context, link Link, clk clock.Clock, timeout, interval time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	start := clk.Now()
	for !link.Connected() {
		if clk.Now().Sub(start) >= timeout {
			log.Printf("ERROR: network: connection failed after %s", timeout)
			return ErrConnectTimeout
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		clk.Sleep(interval)
		log.Println("network: connecting...")
	}

	log.Println("INFO: network: connected")
	return nil
}
