package usbhost

import (
	"errors"
	"time"
)

// ErrorBusy is returned (wrapped) by backends when an open or claim
// fails because another driver or process holds the device.
var ErrorBusy = errors.New("Device or interface is busy")

// DeviceDesc holds the part of the device descriptor needed to match
// and identify a unit before opening it.
type DeviceDesc struct {
	Vendor  uint16
	Product uint16
	Bus     int
	Address int
}

type Context interface {
	// Enumerate calls found for every attached device. Returning an
	// error from found stops the walk and is passed through.
	Enumerate(found func(info DeviceInfo) error) error
	Close() error
}

type DeviceInfo interface {
	Desc() DeviceDesc
	Open() (Device, error)
}

type Device interface {
	// SetAutoDetach makes the backend detach a bound kernel driver
	// before a claim and reattach it on release, where supported.
	SetAutoDetach(enable bool) error
	ClaimInterface(number int) error
	ReleaseInterface(number int) error
	// SerialNumber reads the serial string descriptor. Devices without
	// one return an error.
	SerialNumber() (string, error)
	// InterruptOut writes data to the given OUT endpoint address and
	// returns the number of bytes transferred.
	InterruptOut(endpoint byte, data []byte, timeout time.Duration) (int, error)
	Close() error
}

func NewContext() (Context, error) {
	return newContextInternal()
}
