package ambxhal

import (
	"errors"

	"github.com/BertoldVdb/ambx-tools/usbhost"
)

// Discover walks the USB bus and returns one Controller per amBX unit
// that could be opened and claimed. A unit that fails to initialize is
// skipped so that the remaining units are still found, the pass always
// runs to completion.
func Discover(ctx usbhost.Context, config Config) ([]*Controller, error) {
	log := func(level int, format string, param ...interface{}) {
		if config.LogFunc != nil {
			config.LogFunc(level, format, param...)
		}
	}

	log(1, "Scanning for amBX devices")

	var controllers []*Controller
	matched := 0

	err := ctx.Enumerate(func(info usbhost.DeviceInfo) error {
		desc := info.Desc()
		if desc.Vendor != VendorID || desc.Product != ProductID {
			return nil
		}

		matched++
		log(1, "Found amBX device on bus %d address %d", desc.Bus, desc.Address)

		dev, err := info.Open()
		if err != nil {
			log(1, "Failed to open amBX device: %v", err)
			if errors.Is(err, usbhost.ErrorBusy) {
				log(1, "The device appears to be in use by another driver (possibly Jungo/WinDriver)")
				log(1, "Install a generic WinUSB driver for it, for example with Zadig")
			}
			return nil
		}

		controller, err := New(dev, desc, config)
		if err != nil {
			log(0, "Failed to initialize amBX device: %v", err)
			dev.Close()
			return nil
		}

		controllers = append(controllers, controller)
		return nil
	})
	if err != nil {
		log(0, "USB enumeration failed: %v", err)
		return controllers, err
	}

	if matched > 0 && len(controllers) == 0 {
		log(0, "An amBX device is present but could not be accessed, check driver binding and permissions")
	}

	log(1, "Scan done, %d device(s) usable", len(controllers))

	return controllers, nil
}

// Open acquires its own USB context and attaches to the first unit
// that initializes. The context is released again when the returned
// Controller is closed.
func Open(config Config) (*Controller, error) {
	ctx, err := usbhost.NewContext()
	if err != nil {
		return nil, err
	}

	var controller *Controller

	err = ctx.Enumerate(func(info usbhost.DeviceInfo) error {
		if controller != nil {
			return nil
		}

		desc := info.Desc()
		if desc.Vendor != VendorID || desc.Product != ProductID {
			return nil
		}

		dev, err := info.Open()
		if err != nil {
			return nil
		}

		c, err := New(dev, desc, config)
		if err != nil {
			dev.Close()
			return nil
		}

		controller = c
		return nil
	})

	if controller == nil {
		ctx.Close()
		if err == nil {
			err = ErrorNoDevice
		}
		return nil, err
	}

	controller.ownCtx = ctx
	return controller, nil
}
