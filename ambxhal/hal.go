package ambxhal

import (
	"errors"
	"fmt"
	"time"

	"github.com/BertoldVdb/ambx-tools/usbhost"
)

const (
	claimAttempts = 3
	claimBackoff  = 20 * time.Millisecond

	sendAttempts = 3
	sendBackoff  = 10 * time.Millisecond
	sendTimeout  = 100 * time.Millisecond

	/* The device silently drops or corrupts state under back-to-back
	   unpaced writes */
	packetPacing = 2 * time.Millisecond
)

type LogFunc func(level int, format string, param ...interface{})

type Config struct {
	// Interface is the interface number to claim, 0 on all known units.
	Interface int

	LogFunc LogFunc
}

// Controller owns one opened amBX unit: the device handle, the claimed
// interface and the protocol encoder. The interface is claimed for the
// whole life of the Controller and released by Close.
//
// A Controller is not safe for concurrent use, callers must serialize
// operations on one instance. Separate Controllers are independent.
type Controller struct {
	dev    usbhost.Device
	config Config

	ownCtx usbhost.Context

	location string
	serial   string

	claimed     bool
	initialized bool
}

// New takes ownership of an already-open device, claims its interface
// and blacks out all zones to establish a known state. On error the
// caller keeps ownership of dev.
func New(dev usbhost.Device, desc usbhost.DeviceDesc, config Config) (*Controller, error) {
	c := &Controller{
		dev:      dev,
		config:   config,
		location: fmt.Sprintf("USB amBX: Bus %d Addr %d", desc.Bus, desc.Address),
	}

	if err := dev.SetAutoDetach(true); err != nil {
		c.log(1, "Could not enable kernel driver auto-detach: %v", err)
	}

	if err := c.claimInterface(); err != nil {
		return nil, err
	}

	if serial, err := dev.SerialNumber(); err == nil {
		c.serial = serial
	}

	c.initialized = true

	c.SetAllZonesColor(Color{})

	return c, nil
}

func (c *Controller) log(level int, format string, param ...interface{}) {
	if c.config.LogFunc != nil {
		c.config.LogFunc(level, format, param...)
	}
}

func (c *Controller) claimInterface() error {
	if c.claimed {
		return nil
	}

	var err error
	for attempt := 1; attempt <= claimAttempts; attempt++ {
		err = c.dev.ClaimInterface(c.config.Interface)
		if err == nil {
			c.claimed = true
			return nil
		}

		if errors.Is(err, usbhost.ErrorBusy) {
			c.log(1, "Interface is busy - attempt %d/%d", attempt, claimAttempts)
		}

		time.Sleep(claimBackoff)
	}

	c.log(0, "Failed to claim interface after %d attempts: %v", claimAttempts, err)
	c.log(0, "A legacy amBX driver (Jungo/WinDriver) may still be bound to the device")
	c.log(0, "Install a generic WinUSB driver for it, for example with Zadig")

	return fmt.Errorf("%w: %v", ErrorClaimFailed, err)
}

// sendPacket performs one interrupt OUT transfer with bounded retry.
// The wire protocol is not acknowledged, so after the retries are
// exhausted the packet is logged and dropped rather than surfaced as
// an operation error.
func (c *Controller) sendPacket(packet []byte) error {
	if !c.initialized || !c.claimed {
		c.log(0, "Dropping packet, device is not ready")
		return ErrorNotReady
	}

	var lastErr error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		n, err := c.dev.InterruptOut(EndpointOut, packet, sendTimeout)
		if err == nil && n == len(packet) {
			return nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("Short write: %d/%d bytes", n, len(packet))
		}

		time.Sleep(time.Duration(attempt) * sendBackoff)
	}

	c.log(0, "Failed to send packet: %v", lastErr)
	return nil
}

// SetZoneColor sets one zone (or ZoneAll) to the given color.
func (c *Controller) SetZoneColor(zone Zone, color Color) error {
	if !zone.Valid() {
		return fmt.Errorf("%w: 0x%02X", ErrorInvalidZone, byte(zone))
	}

	buf := encodeSetColor(zone, color)
	if err := c.sendPacket(buf[:]); err != nil {
		return err
	}

	time.Sleep(packetPacing)
	return nil
}

// SetAllZonesColor fans the color out to the five real zones one
// packet at a time.
func (c *Controller) SetAllZonesColor(color Color) error {
	for _, zone := range Zones() {
		if err := c.SetZoneColor(zone, color); err != nil {
			return err
		}
	}
	return nil
}

// SetZoneColors applies the pairs in order. There is no atomicity
// across zones: when a later pair fails the earlier ones stay set.
func (c *Controller) SetZoneColors(zones []Zone, colors []Color) error {
	if len(zones) != len(colors) {
		return ErrorCountInvalid
	}

	for i, zone := range zones {
		if err := c.SetZoneColor(zone, colors[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) GetDeviceLocation() string {
	return c.location
}

func (c *Controller) GetSerialString() string {
	return c.serial
}

func (c *Controller) IsInitialized() bool {
	return c.initialized
}

// Close blacks out the lights, releases the interface and closes the
// device. It is safe on a partially constructed Controller and never
// fails, teardown problems are logged and swallowed.
func (c *Controller) Close() {
	if c.initialized {
		c.SetAllZonesColor(Color{})
		c.initialized = false
	}

	if c.dev != nil {
		if c.claimed {
			if err := c.dev.ReleaseInterface(c.config.Interface); err != nil {
				c.log(1, "Failed to release interface: %v", err)
			}
			c.claimed = false
		}

		if err := c.dev.Close(); err != nil {
			c.log(1, "Failed to close device: %v", err)
		}
		c.dev = nil
	}

	if c.ownCtx != nil {
		c.ownCtx.Close()
		c.ownCtx = nil
	}
}
