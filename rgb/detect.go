package rgb

import (
	"github.com/BertoldVdb/ambx-tools/ambxhal"
	"github.com/BertoldVdb/ambx-tools/usbhost"
)

// Detect discovers all attached amBX units and registers one adapter
// per unit that initialized. Units that could not be accessed have
// been logged by the discovery pass and are skipped.
func Detect(ctx usbhost.Context, registry *Registry, config ambxhal.Config) error {
	controllers, err := ambxhal.Discover(ctx, config)

	for i, controller := range controllers {
		registry.Register(NewAMBX(controller, i))
	}

	return err
}
