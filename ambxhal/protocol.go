package ambxhal

// USB identity of the amBX gaming kit. Rebranded units keep the same
// VID/PID, so a single pair covers the whole family.
const (
	VendorID  = 0x0471
	ProductID = 0x083F
)

const (
	EndpointIn  = 0x81
	EndpointOut = 0x02
	EndpointPnP = 0x83
)

const (
	packetHeader     = 0xA1
	cmdSetColor      = 0x03
	cmdColorSequence = 0x72
)

// Zone identifies one addressable light of the kit on the wire.
type Zone byte

const (
	ZoneLeft       Zone = 0x0B
	ZoneRight      Zone = 0x1B
	ZoneWallLeft   Zone = 0x2B
	ZoneWallCenter Zone = 0x3B
	ZoneWallRight  Zone = 0x4B

	// ZoneAll is the broadcast value the firmware accepts in place of
	// a single zone id.
	ZoneAll Zone = 0xFF
)

// Zones returns the five real zones in wire-id order.
func Zones() []Zone {
	return []Zone{
		ZoneLeft,
		ZoneRight,
		ZoneWallLeft,
		ZoneWallCenter,
		ZoneWallRight,
	}
}

func (z Zone) Valid() bool {
	switch z {
	case ZoneLeft, ZoneRight, ZoneWallLeft, ZoneWallCenter, ZoneWallRight, ZoneAll:
		return true
	}
	return false
}

func (z Zone) String() string {
	switch z {
	case ZoneLeft:
		return "Left"
	case ZoneRight:
		return "Right"
	case ZoneWallLeft:
		return "Wall Left"
	case ZoneWallCenter:
		return "Wall Center"
	case ZoneWallRight:
		return "Wall Right"
	case ZoneAll:
		return "All"
	}
	return "Unknown"
}

// Color is passed through verbatim to the wire, no gamma or scaling.
type Color struct {
	R uint8
	G uint8
	B uint8
}

func encodeSetColor(zone Zone, color Color) [6]byte {
	return [6]byte{
		packetHeader,
		byte(zone),
		cmdSetColor,
		color.R,
		color.G,
		color.B,
	}
}
