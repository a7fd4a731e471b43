// +build pureusb,linux

package usbhost

import (
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/unix"
)

/*
 USBDEVFS_CONTROL          = C0185500
 USBDEVFS_BULK             = C0185502
 USBDEVFS_CLAIMINTERFACE   = 8004550F
 USBDEVFS_RELEASEINTERFACE = 80045510
 USBDEVFS_IOCTL            = C0105512
 USBDEVFS_DISCONNECT       = 00005516
 USBDEVFS_CONNECT          = 00005517
*/

const usbfsRoot = "/dev/bus/usb"

type usbfsContext struct {
}

func newContextInternal() (Context, error) {
	if _, err := os.Stat(usbfsRoot); err != nil {
		return nil, err
	}
	return &usbfsContext{}, nil
}

func (c *usbfsContext) Enumerate(found func(info DeviceInfo) error) error {
	buses, err := ioutil.ReadDir(usbfsRoot)
	if err != nil {
		return err
	}

	for _, bus := range buses {
		busNum, err := strconv.Atoi(bus.Name())
		if err != nil {
			continue
		}

		devs, err := ioutil.ReadDir(filepath.Join(usbfsRoot, bus.Name()))
		if err != nil {
			continue
		}

		for _, dev := range devs {
			addr, err := strconv.Atoi(dev.Name())
			if err != nil {
				continue
			}

			path := filepath.Join(usbfsRoot, bus.Name(), dev.Name())

			/* The first 18 bytes of the node are the device descriptor */
			raw, err := ioutil.ReadFile(path)
			if err != nil || len(raw) < 18 {
				continue
			}

			err = found(&usbfsDeviceInfo{
				path:        path,
				serialIndex: raw[16],
				desc: DeviceDesc{
					Vendor:  binary.LittleEndian.Uint16(raw[8:]),
					Product: binary.LittleEndian.Uint16(raw[10:]),
					Bus:     busNum,
					Address: addr,
				},
			})
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *usbfsContext) Close() error {
	return nil
}

type usbfsDeviceInfo struct {
	path        string
	serialIndex byte
	desc        DeviceDesc
}

func (i *usbfsDeviceInfo) Desc() DeviceDesc {
	return i.desc
}

func (i *usbfsDeviceInfo) Open() (Device, error) {
	f, err := os.OpenFile(i.path, os.O_RDWR, 0)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %v", ErrorBusy, err)
		}
		return nil, err
	}

	return &usbfsDevice{
		dev:         f,
		serialIndex: i.serialIndex,
	}, nil
}

type usbfsDevice struct {
	dev         *os.File
	serialIndex byte
	autoDetach  bool
	detached    []int
}

func (d *usbfsDevice) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(
		syscall.SYS_IOCTL,
		uintptr(d.dev.Fd()),
		req,
		uintptr(arg),
	)
	if errno != 0 {
		return errno
	}
	return nil
}

func (d *usbfsDevice) SetAutoDetach(enable bool) error {
	d.autoDetach = enable
	return nil
}

func (d *usbfsDevice) driverIoctl(number int, code int32) error {
	arg := struct {
		ifno int32
		code int32
		data uintptr
	}{
		ifno: int32(number),
		code: code,
	}

	err := d.ioctl(0xC0105512, unsafe.Pointer(&arg))
	runtime.KeepAlive(arg)
	return err
}

func (d *usbfsDevice) ClaimInterface(number int) error {
	if d.autoDetach {
		/* usbfs has no auto-detach, unbind the kernel driver by hand */
		if d.driverIoctl(number, 0x5516) == nil {
			d.detached = append(d.detached, number)
		}
	}

	ifno := uint32(number)
	err := d.ioctl(0x8004550F, unsafe.Pointer(&ifno))
	runtime.KeepAlive(ifno)

	if err == unix.EBUSY || err == unix.EACCES {
		return fmt.Errorf("%w: %v", ErrorBusy, err)
	}
	return err
}

func (d *usbfsDevice) ReleaseInterface(number int) error {
	ifno := uint32(number)
	err := d.ioctl(0x80045510, unsafe.Pointer(&ifno))
	runtime.KeepAlive(ifno)

	for i, n := range d.detached {
		if n == number {
			d.driverIoctl(number, 0x5517)
			d.detached = append(d.detached[:i], d.detached[i+1:]...)
			break
		}
	}

	return err
}

func (d *usbfsDevice) controlIn(requestType, request byte, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	arg := struct {
		requestType uint8
		request     uint8
		value       uint16
		index       uint16
		length      uint16
		timeout     uint32
		_           uint32
		data        unsafe.Pointer
	}{
		requestType: requestType,
		request:     request,
		value:       value,
		index:       index,
		length:      uint16(len(data)),
		timeout:     uint32(timeout / time.Millisecond),
		data:        unsafe.Pointer(&data[0]),
	}

	n, _, errno := unix.Syscall(
		syscall.SYS_IOCTL,
		uintptr(d.dev.Fd()),
		0xC0185500,
		uintptr(unsafe.Pointer(&arg)),
	)
	runtime.KeepAlive(arg)
	runtime.KeepAlive(data)

	if errno != 0 {
		return 0, errno
	}
	return int(n), nil
}

func (d *usbfsDevice) SerialNumber() (string, error) {
	if d.serialIndex == 0 {
		return "", os.ErrNotExist
	}

	var buf [256]byte

	/* GET_DESCRIPTOR, string type, US English */
	n, err := d.controlIn(0x80, 6, 0x0300|uint16(d.serialIndex), 0x0409, buf[:], time.Second)
	if err != nil {
		return "", err
	}
	if n < 2 || buf[1] != 3 {
		return "", fmt.Errorf("Invalid string descriptor")
	}
	if int(buf[0]) < n {
		n = int(buf[0])
	}

	var chars []uint16
	for i := 2; i+1 < n; i += 2 {
		chars = append(chars, binary.LittleEndian.Uint16(buf[i:]))
	}

	return string(utf16.Decode(chars)), nil
}

func (d *usbfsDevice) InterruptOut(endpoint byte, data []byte, timeout time.Duration) (int, error) {
	arg := struct {
		ep      uint32
		length  uint32
		timeout uint32
		_       uint32
		data    unsafe.Pointer
	}{
		ep:      uint32(endpoint),
		length:  uint32(len(data)),
		timeout: uint32(timeout / time.Millisecond),
		data:    unsafe.Pointer(&data[0]),
	}

	n, _, errno := unix.Syscall(
		syscall.SYS_IOCTL,
		uintptr(d.dev.Fd()),
		0xC0185502,
		uintptr(unsafe.Pointer(&arg)),
	)
	runtime.KeepAlive(arg)
	runtime.KeepAlive(data)

	if errno != 0 {
		return 0, errno
	}
	return int(n), nil
}

func (d *usbfsDevice) Close() error {
	return d.dev.Close()
}
