package ambxhal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*Controller, *fakeDevice) {
	t.Helper()

	info := newFakeAMBX(1, 4)
	c, err := New(info.dev, info.desc, Config{})
	require.NoError(t, err)

	return c, info.dev
}

func TestNewResetsAllZones(t *testing.T) {
	c, dev := newTestController(t)

	require.Len(t, dev.packets, len(Zones()))
	for _, packet := range dev.packets {
		assert.Equal(t, byte(packetHeader), packet[0])
		assert.Equal(t, byte(cmdSetColor), packet[2])
		assert.Equal(t, []byte{0, 0, 0}, packet[3:6])
	}

	for _, zone := range Zones() {
		assert.Equal(t, Color{}, dev.lastColor[zone])
	}

	assert.True(t, c.IsInitialized())
	assert.True(t, dev.claimed)
	assert.True(t, dev.autoDetach)
}

func TestNewClaimBusyRetriesThenFails(t *testing.T) {
	info := newFakeAMBX(1, 4)
	info.dev.claimBusy = true

	c, err := New(info.dev, info.desc, Config{})
	require.Error(t, err)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrorClaimFailed)

	assert.Equal(t, 3, info.dev.claimCount)
	assert.Empty(t, info.dev.packets)
}

func TestNewReadsSerial(t *testing.T) {
	info := newFakeAMBX(1, 4)
	info.dev.serial = "AMBX0001"

	c, err := New(info.dev, info.desc, Config{})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "AMBX0001", c.GetSerialString())
}

func TestNewWithoutSerial(t *testing.T) {
	c, _ := newTestController(t)
	defer c.Close()

	assert.Equal(t, "", c.GetSerialString())
}

func TestSetZoneColorPacket(t *testing.T) {
	zones := append(Zones(), ZoneAll)

	for _, zone := range zones {
		c, dev := newTestController(t)
		dev.packets = nil

		require.NoError(t, c.SetZoneColor(zone, Color{R: 1, G: 2, B: 3}))

		require.Len(t, dev.packets, 1)
		assert.Equal(t, []byte{0xA1, byte(zone), 0x03, 1, 2, 3}, dev.packets[0])

		c.Close()
	}
}

func TestSetZoneColorInvalidZone(t *testing.T) {
	c, dev := newTestController(t)
	defer c.Close()
	dev.packets = nil

	for _, zone := range []Zone{0x00, 0x0C, 0x5B, 0xFE} {
		err := c.SetZoneColor(zone, Color{R: 255})
		assert.ErrorIs(t, err, ErrorInvalidZone)
	}

	assert.Empty(t, dev.packets)
}

func TestSetZoneColorIdempotent(t *testing.T) {
	c, dev := newTestController(t)
	defer c.Close()
	dev.packets = nil

	require.NoError(t, c.SetZoneColor(ZoneLeft, Color{R: 10, G: 20, B: 30}))
	require.NoError(t, c.SetZoneColor(ZoneLeft, Color{R: 10, G: 20, B: 30}))

	require.Len(t, dev.packets, 2)
	assert.Equal(t, dev.packets[0], dev.packets[1])
}

func TestSetAllZonesColor(t *testing.T) {
	c, dev := newTestController(t)
	defer c.Close()

	want := Color{R: 50, G: 100, B: 150}
	require.NoError(t, c.SetAllZonesColor(want))

	for _, zone := range Zones() {
		assert.Equal(t, want, dev.lastColor[zone])
	}
}

func TestSetZoneColors(t *testing.T) {
	c, dev := newTestController(t)
	defer c.Close()

	zones := []Zone{ZoneLeft, ZoneWallCenter}
	colors := []Color{{R: 255}, {B: 255}}

	require.NoError(t, c.SetZoneColors(zones, colors))

	assert.Equal(t, colors[0], dev.lastColor[ZoneLeft])
	assert.Equal(t, colors[1], dev.lastColor[ZoneWallCenter])
}

func TestSetZoneColorsCountMismatch(t *testing.T) {
	c, dev := newTestController(t)
	defer c.Close()
	dev.packets = nil

	err := c.SetZoneColors([]Zone{ZoneLeft}, nil)
	assert.ErrorIs(t, err, ErrorCountInvalid)
	assert.Empty(t, dev.packets)
}

func TestSendRetriesTransientFailure(t *testing.T) {
	c, dev := newTestController(t)
	defer c.Close()
	dev.packets = nil
	dev.writes = 0
	dev.failWrites = 2

	require.NoError(t, c.SetZoneColor(ZoneRight, Color{G: 1}))

	assert.Equal(t, 3, dev.writes)
	assert.Len(t, dev.packets, 1)
}

func TestSendDropsPacketAfterRetries(t *testing.T) {
	c, dev := newTestController(t)
	defer c.Close()
	dev.packets = nil
	dev.writes = 0
	dev.failWrites = 100

	// The protocol is unacknowledged, a lost packet is not an error.
	require.NoError(t, c.SetZoneColor(ZoneRight, Color{G: 1}))

	assert.Equal(t, 3, dev.writes)
	assert.Empty(t, dev.packets)
}

func TestSendRetriesShortWrite(t *testing.T) {
	c, dev := newTestController(t)
	defer c.Close()
	dev.writes = 0
	dev.shortWrite = true

	require.NoError(t, c.SetZoneColor(ZoneRight, Color{G: 1}))
	assert.Equal(t, 3, dev.writes)
}

func TestCloseResetsAndReleases(t *testing.T) {
	c, dev := newTestController(t)

	require.NoError(t, c.SetAllZonesColor(Color{R: 255}))

	c.Close()

	for _, zone := range Zones() {
		assert.Equal(t, Color{}, dev.lastColor[zone])
	}
	assert.False(t, dev.claimed)
	assert.True(t, dev.closed)
	assert.False(t, c.IsInitialized())
}

func TestCloseReleasesEvenIfResetFails(t *testing.T) {
	c, dev := newTestController(t)
	dev.failWrites = 100

	c.Close()

	assert.False(t, dev.claimed)
	assert.Equal(t, 1, dev.releases)
	assert.True(t, dev.closed)
}

func TestCloseTwice(t *testing.T) {
	c, dev := newTestController(t)

	c.Close()
	c.Close()

	assert.Equal(t, 1, dev.releases)
}

func TestSetZoneColorAfterClose(t *testing.T) {
	c, dev := newTestController(t)
	c.Close()
	dev.packets = nil

	err := c.SetZoneColor(ZoneLeft, Color{R: 1})
	assert.ErrorIs(t, err, ErrorNotReady)
	assert.Empty(t, dev.packets)
}
