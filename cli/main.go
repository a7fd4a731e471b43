package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BertoldVdb/ambx-tools/ambxhal"
	"github.com/BertoldVdb/ambx-tools/usbhost"
	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

type Context struct {
	usb        usbhost.Context
	controller *ambxhal.Controller
}

var CLI struct {
	Bus      int `optional:"" help:"Only use the device on this bus." default:"-1"`
	Address  int `optional:"" help:"Only use the device at this address." default:"-1"`
	LogLevel int `optional:"" help:"Higher values give more output."`

	ListDev ListDevCmd `cmd:"" name:"list-dev" help:"List attached amBX devices."`
	Detect  DetectCmd  `cmd:"" help:"Detect all devices and show the registered zones."`

	Set    SetCmd    `cmd:"" help:"Set one zone to a color."`
	SetAll SetAllCmd `cmd:"" name:"set-all" help:"Set all zones to a color."`
	Off    OffCmd    `cmd:"" help:"Turn all zones off."`
	Cycle  CycleCmd  `cmd:"" help:"Cycle a palette across the zones."`
}

var logError = color.New(color.FgRed)
var logWarn = color.New(color.FgYellow)

func logFunc(level int, format string, param ...interface{}) {
	if level > CLI.LogLevel {
		return
	}

	str := fmt.Sprintf(format, param...)
	switch level {
	case 0:
		logError.Printf("amBX(0): %s\n", str)
	case 1:
		logWarn.Printf("amBX(1): %s\n", str)
	default:
		fmt.Printf("amBX(%d): %s\n", level, str)
	}
}

func halConfig() ambxhal.Config {
	return ambxhal.Config{
		LogFunc: logFunc,
	}
}

func OpenController(usb usbhost.Context) (*ambxhal.Controller, error) {
	var controller *ambxhal.Controller

	err := usb.Enumerate(func(info usbhost.DeviceInfo) error {
		if controller != nil {
			return nil
		}

		desc := info.Desc()
		if desc.Vendor != ambxhal.VendorID || desc.Product != ambxhal.ProductID {
			return nil
		}
		if CLI.Bus >= 0 && desc.Bus != CLI.Bus {
			return nil
		}
		if CLI.Address >= 0 && desc.Address != CLI.Address {
			return nil
		}

		dev, err := info.Open()
		if err != nil {
			logFunc(1, "Failed to open device on bus %d address %d: %v", desc.Bus, desc.Address, err)
			return nil
		}

		c, err := ambxhal.New(dev, desc, halConfig())
		if err != nil {
			dev.Close()
			return nil
		}

		controller = c
		return nil
	})

	if controller == nil {
		if err == nil {
			err = ambxhal.ErrorNoDevice
		}
		return nil, err
	}

	return controller, nil
}

func main() {
	k, err := kong.New(&CLI,
		kong.NamedMapper("zone", zoneMapper{}),
		kong.NamedMapper("color", colorMapper{}))
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		fmt.Println(err)
		return
	}

	usb, err := usbhost.NewContext()
	if err != nil {
		fmt.Println("Failed to initialize USB", err)
		return
	}
	defer usb.Close()

	c := &Context{usb: usb}

	switch strings.Fields(ctx.Command())[0] {
	case "list-dev", "detect":
	default:
		controller, err := OpenController(usb)
		if err != nil {
			fmt.Println("Failed to open device", err)
			return
		}
		defer controller.Close()

		c.controller = controller
	}

	err = ctx.Run(c)
	ctx.FatalIfErrorf(err)
}
