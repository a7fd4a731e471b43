// +build !pureusb

package usbhost

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/gousb"
)

type gousbContext struct {
	ctx *gousb.Context
}

func newContextInternal() (Context, error) {
	return &gousbContext{
		ctx: gousb.NewContext(),
	}, nil
}

func (c *gousbContext) Enumerate(found func(info DeviceInfo) error) error {
	var walkErr error

	/* OpenDevices is the only enumeration primitive gousb offers, so
	   collect descriptors without opening anything. */
	devs, err := c.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if walkErr != nil {
			return false
		}

		walkErr = found(&gousbDeviceInfo{
			parent: c,
			desc: DeviceDesc{
				Vendor:  uint16(desc.Vendor),
				Product: uint16(desc.Product),
				Bus:     desc.Bus,
				Address: desc.Address,
			},
		})
		return false
	})

	for _, d := range devs {
		d.Close()
	}

	if walkErr != nil {
		return walkErr
	}
	return err
}

func (c *gousbContext) Close() error {
	return c.ctx.Close()
}

type gousbDeviceInfo struct {
	parent *gousbContext
	desc   DeviceDesc
}

func (i *gousbDeviceInfo) Desc() DeviceDesc {
	return i.desc
}

func (i *gousbDeviceInfo) Open() (Device, error) {
	var match *gousb.Device

	devs, err := i.parent.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return match == nil &&
			desc.Bus == i.desc.Bus && desc.Address == i.desc.Address &&
			uint16(desc.Vendor) == i.desc.Vendor &&
			uint16(desc.Product) == i.desc.Product
	})

	for _, d := range devs {
		if match == nil {
			match = d
		} else {
			d.Close()
		}
	}

	if match == nil {
		if err == nil {
			err = os.ErrNotExist
		}
		return nil, mapBusy(err)
	}

	return &gousbDevice{dev: match}, nil
}

type gousbDevice struct {
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
}

func (d *gousbDevice) SetAutoDetach(enable bool) error {
	return d.dev.SetAutoDetach(enable)
}

func (d *gousbDevice) ClaimInterface(number int) error {
	cfg, err := d.dev.Config(1)
	if err != nil {
		return mapBusy(err)
	}

	intf, err := cfg.Interface(number, 0)
	if err != nil {
		cfg.Close()
		return mapBusy(err)
	}

	d.cfg = cfg
	d.intf = intf
	return nil
}

func (d *gousbDevice) ReleaseInterface(number int) error {
	if d.intf != nil {
		d.intf.Close()
		d.intf = nil
	}
	if d.cfg != nil {
		err := d.cfg.Close()
		d.cfg = nil
		return err
	}
	return nil
}

func (d *gousbDevice) SerialNumber() (string, error) {
	return d.dev.SerialNumber()
}

func (d *gousbDevice) InterruptOut(endpoint byte, data []byte, timeout time.Duration) (int, error) {
	if d.intf == nil {
		return 0, errors.New("Interface is not claimed")
	}

	ep, err := d.intf.OutEndpoint(int(endpoint & 0x0F))
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return ep.WriteContext(ctx, data)
}

func (d *gousbDevice) Close() error {
	d.ReleaseInterface(0)
	return d.dev.Close()
}

func mapBusy(err error) error {
	if errors.Is(err, gousb.ErrorBusy) || errors.Is(err, gousb.ErrorAccess) {
		return fmt.Errorf("%w: %v", ErrorBusy, err)
	}
	return err
}
