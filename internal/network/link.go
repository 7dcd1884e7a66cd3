// Package network brings the panel's network link up at boot and reports
// its status afterwards.
package network

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/i474232898/weather-panel/internal/common"
)

// Link is a network connection the panel depends on.
type Link interface {
	// Associate starts joining the network. It does not wait for the link.
	Associate(ctx context.Context) error
	// Connected reports whether the link is up with an address.
	Connected() bool
}

// Interface is a Link backed by the host's network stack. With an SSID it
// joins Wi-Fi through NetworkManager; without one it only watches status.
type Interface struct {
	Name     string
	SSID     string
	Password string

	// interfaces is swapped out in tests.
	interfaces func() (psnet.InterfaceStatList, error)
}

// NewInterface returns a Link for the named interface. An empty name
// accepts any non-loopback interface.
func NewInterface(name, ssid, password string) *Interface {
	return &Interface{
		Name:       name,
		SSID:       ssid,
		Password:   password,
		interfaces: psnet.Interfaces,
	}
}

func (i *Interface) Associate(ctx context.Context) error {
	if i.SSID == "" {
		return nil
	}
	if _, err := exec.LookPath("nmcli"); err != nil {
		log.Printf("INFO: network: nmcli not available; leaving association of %q to the system", i.SSID)
		return nil
	}

	args := []string{"-w", "0", "device", "wifi", "connect", i.SSID}
	if i.Password != "" {
		args = append(args, "password", i.Password)
	}
	if i.Name != "" {
		args = append(args, "ifname", i.Name)
	}

	log.Printf("network: associating with %q", i.SSID)
	out, err := runCmd(ctx, 8*time.Second, "nmcli", args...)
	if err != nil {
		return err
	}
	if common.HasAny(out, "error", "failed") {
		return fmt.Errorf("nmcli: %s", out)
	}
	return nil
}

func (i *Interface) Connected() bool {
	stats, err := i.interfaces()
	if err != nil {
		log.Printf("ERROR: network: list interfaces: %v", err)
		return false
	}

	for _, s := range stats {
		if i.Name != "" && s.Name != i.Name {
			continue
		}
		if hasFlag(s.Flags, "loopback") && i.Name == "" {
			continue
		}
		if hasFlag(s.Flags, "up") && len(s.Addrs) > 0 {
			return true
		}
	}
	return false
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

func runCmd(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	s := strings.TrimSpace(string(out))
	if ctx.Err() == context.DeadlineExceeded {
		return s, fmt.Errorf("command timed out: %s", name)
	}
	if err != nil {
		if s != "" {
			return s, fmt.Errorf("command failed: %s: %v: %s", name, err, s)
		}
		return s, fmt.Errorf("command failed: %s: %v", name, err)
	}
	return s, nil
}
