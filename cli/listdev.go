package main

import (
	"fmt"

	"github.com/BertoldVdb/ambx-tools/ambxhal"
	"github.com/BertoldVdb/ambx-tools/usbhost"
	"github.com/fatih/color"
)

type ListDevCmd struct {
	All bool `optional:"" help:"List every USB device, not only amBX units."`
}

func (l *ListDevCmd) Run(c *Context) error {
	match := color.New(color.FgGreen)
	found := 0

	err := c.usb.Enumerate(func(info usbhost.DeviceInfo) error {
		desc := info.Desc()
		isAMBX := desc.Vendor == ambxhal.VendorID && desc.Product == ambxhal.ProductID

		if !isAMBX && !l.All {
			return nil
		}

		line := fmt.Sprintf("Bus %d Addr %d: ID %04x:%04x", desc.Bus, desc.Address, desc.Vendor, desc.Product)
		if isAMBX {
			found++
			match.Printf("%s Philips amBX\n", line)
		} else {
			fmt.Println(line)
		}

		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("%d amBX device(s) found\n", found)
	return nil
}
