package main

import (
	"fmt"

	"github.com/BertoldVdb/ambx-tools/rgb"
)

type DetectCmd struct {
	Keep bool `optional:"" help:"Leave the devices open until interrupted instead of closing them."`
}

func (d *DetectCmd) Run(c *Context) error {
	registry := &rgb.Registry{}
	defer registry.Close()

	if err := rgb.Detect(c.usb, registry, halConfig()); err != nil {
		return err
	}

	for _, dev := range registry.Devices() {
		fmt.Printf("%s (%s)\n", dev.Name(), dev.Location())
		if serial := dev.Serial(); serial != "" {
			fmt.Printf("\tSerial: %s\n", serial)
		}
		for i, zone := range dev.Zones() {
			fmt.Printf("\tZone %d: %s\n", i, zone)
		}
	}

	if d.Keep {
		fmt.Println("Press enter to release the devices")
		fmt.Scanln()
	}

	return nil
}
