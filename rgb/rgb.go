// Package rgb exposes amBX controllers through a flat zone-addressed
// lighting interface that a host application can enumerate and drive.
package rgb

import (
	"sync"

	"github.com/BertoldVdb/ambx-tools/ambxhal"
)

// Device is one registered lighting device with a flat list of
// addressable zones.
type Device interface {
	Name() string
	Location() string
	Serial() string

	// Zones returns the zone names, index-addressable via SetZone.
	Zones() []string

	SetZone(index int, color ambxhal.Color) error
	SetAll(color ambxhal.Color) error

	Close()
}

// Registry holds the active lighting devices for the host to query.
// Registration happens during detection, deregistration is the
// caller's concern (drop the Registry or Close it).
type Registry struct {
	mu      sync.Mutex
	devices []Device
}

func (r *Registry) Register(dev Device) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.devices = append(r.devices, dev)
}

// Devices returns a snapshot of the registered devices.
func (r *Registry) Devices() []Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Close tears down every registered device and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	devices := r.devices
	r.devices = nil
	r.mu.Unlock()

	for _, dev := range devices {
		dev.Close()
	}
}
