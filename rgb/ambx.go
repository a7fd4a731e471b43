package rgb

import (
	"fmt"

	"github.com/BertoldVdb/ambx-tools/ambxhal"
)

// ambxZones maps the flat zone index exposed to the host onto the wire
// zone ids: first the two satellites, then the wallwasher bar.
var ambxZones = []struct {
	name string
	zone ambxhal.Zone
}{
	{"Left", ambxhal.ZoneLeft},
	{"Right", ambxhal.ZoneRight},
	{"Wall Left", ambxhal.ZoneWallLeft},
	{"Wall Center", ambxhal.ZoneWallCenter},
	{"Wall Right", ambxhal.ZoneWallRight},
}

// AMBX adapts one ambxhal.Controller to the Device interface.
type AMBX struct {
	controller *ambxhal.Controller
	name       string
}

// NewAMBX wraps controller. The index distinguishes multiple attached
// units: the first keeps the plain name, later ones are numbered.
func NewAMBX(controller *ambxhal.Controller, index int) *AMBX {
	name := "Philips amBX"
	if index > 0 {
		name = fmt.Sprintf("Philips amBX %d", index+1)
	}

	return &AMBX{
		controller: controller,
		name:       name,
	}
}

func (a *AMBX) Name() string {
	return a.name
}

func (a *AMBX) Location() string {
	return a.controller.GetDeviceLocation()
}

func (a *AMBX) Serial() string {
	return a.controller.GetSerialString()
}

func (a *AMBX) Zones() []string {
	names := make([]string, len(ambxZones))
	for i, z := range ambxZones {
		names[i] = z.name
	}
	return names
}

func (a *AMBX) SetZone(index int, color ambxhal.Color) error {
	if index < 0 || index >= len(ambxZones) {
		return fmt.Errorf("Zone index %d out of range", index)
	}
	return a.controller.SetZoneColor(ambxZones[index].zone, color)
}

func (a *AMBX) SetAll(color ambxhal.Color) error {
	return a.controller.SetAllZonesColor(color)
}

func (a *AMBX) Close() {
	a.controller.Close()
}
