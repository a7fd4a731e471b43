package ambxhal

import (
	"errors"
	"fmt"
	"time"

	"github.com/BertoldVdb/ambx-tools/usbhost"
)

type fakeContext struct {
	infos   []*fakeDeviceInfo
	listErr error
	closed  bool
}

func (f *fakeContext) Enumerate(found func(info usbhost.DeviceInfo) error) error {
	if f.listErr != nil {
		return f.listErr
	}
	for _, info := range f.infos {
		if err := found(info); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeContext) Close() error {
	f.closed = true
	return nil
}

type fakeDeviceInfo struct {
	desc    usbhost.DeviceDesc
	dev     *fakeDevice
	openErr error
}

func (f *fakeDeviceInfo) Desc() usbhost.DeviceDesc {
	return f.desc
}

func (f *fakeDeviceInfo) Open() (usbhost.Device, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.dev, nil
}

// fakeDevice records claims and transfers and keeps the last color it
// saw per zone, decoded from the set-color packets.
type fakeDevice struct {
	autoDetach bool
	claimed    bool
	closed     bool

	claimBusy  bool
	claimCount int
	releases   int

	serial string

	failWrites int
	shortWrite bool
	writes     int

	packets   [][]byte
	lastColor map[Zone]Color
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		lastColor: make(map[Zone]Color),
	}
}

func newFakeAMBX(bus, address int) *fakeDeviceInfo {
	return &fakeDeviceInfo{
		desc: usbhost.DeviceDesc{
			Vendor:  VendorID,
			Product: ProductID,
			Bus:     bus,
			Address: address,
		},
		dev: newFakeDevice(),
	}
}

func (f *fakeDevice) SetAutoDetach(enable bool) error {
	f.autoDetach = enable
	return nil
}

func (f *fakeDevice) ClaimInterface(number int) error {
	f.claimCount++
	if f.claimBusy {
		return fmt.Errorf("%w: claim", usbhost.ErrorBusy)
	}
	f.claimed = true
	return nil
}

func (f *fakeDevice) ReleaseInterface(number int) error {
	f.releases++
	f.claimed = false
	return nil
}

func (f *fakeDevice) SerialNumber() (string, error) {
	if f.serial == "" {
		return "", errors.New("No serial descriptor")
	}
	return f.serial, nil
}

func (f *fakeDevice) InterruptOut(endpoint byte, data []byte, timeout time.Duration) (int, error) {
	f.writes++

	if f.failWrites > 0 {
		f.failWrites--
		return 0, errors.New("Transfer error")
	}
	if f.shortWrite {
		return len(data) - 1, nil
	}

	packet := make([]byte, len(data))
	copy(packet, data)
	f.packets = append(f.packets, packet)

	if len(packet) == 6 && packet[0] == packetHeader && packet[2] == cmdSetColor {
		color := Color{R: packet[3], G: packet[4], B: packet[5]}
		zone := Zone(packet[1])

		if zone == ZoneAll {
			for _, z := range Zones() {
				f.lastColor[z] = color
			}
		} else {
			f.lastColor[zone] = color
		}
	}

	return len(data), nil
}

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}
