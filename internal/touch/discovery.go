package touch

import (
	"github.com/karalabe/hid"
)

// HID usage identifiers for touch hardware. Digitizers advertise usage page
// 0x0D; touch screens and touch pads are usages 0x04 and 0x05 on that page.
const (
	usagePageDigitizer = 0x0D
	usageTouchScreen   = 0x04
	usageTouchPad      = 0x05
)

// DeviceInfo contains information about a discovered HID device
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	SerialNumber string
	UsagePage    uint16
	Usage        uint16
}

// Digitizer reports whether the device claims the HID digitizer usage page.
// Platforms that don't expose usage pages report zero, so a false result is
// not proof the device isn't one.
func (d DeviceInfo) Digitizer() bool {
	return d.UsagePage == usagePageDigitizer
}

// TouchSurface reports whether the device is a touch screen or touch pad
// interface of a digitizer.
func (d DeviceInfo) TouchSurface() bool {
	return d.Digitizer() && (d.Usage == usageTouchScreen || d.Usage == usageTouchPad)
}

// ListDevices returns a list of all available HID devices
func ListDevices() ([]DeviceInfo, error) {
	devices := hid.Enumerate(0, 0)

	result := make([]DeviceInfo, len(devices))
	for i, d := range devices {
		result[i] = deviceInfo(d)
	}

	return result, nil
}

// ListDigitizers returns the HID devices that claim the digitizer usage
// page. When the platform doesn't report usage pages the result is empty;
// callers fall back to the full device list.
func ListDigitizers() ([]DeviceInfo, error) {
	all, err := ListDevices()
	if err != nil {
		return nil, err
	}

	var digitizers []DeviceInfo
	for _, d := range all {
		if d.Digitizer() {
			digitizers = append(digitizers, d)
		}
	}
	return digitizers, nil
}

// FindDevice searches for a device matching the given vendor and product
// IDs, preferring the interface that exposes the touch surface when the
// device enumerates several.
func FindDevice(vendorID, productID uint16) (*DeviceInfo, error) {
	devices := hid.Enumerate(vendorID, productID)
	if len(devices) == 0 {
		return nil, nil
	}

	best := deviceInfo(devices[0])
	for _, d := range devices[1:] {
		info := deviceInfo(d)
		if info.TouchSurface() && !best.TouchSurface() {
			best = info
		}
	}
	return &best, nil
}

func deviceInfo(d hid.DeviceInfo) DeviceInfo {
	return DeviceInfo{
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
		Path:         d.Path,
		Manufacturer: d.Manufacturer,
		Product:      d.Product,
		SerialNumber: d.Serial,
		UsagePage:    d.UsagePage,
		Usage:        d.Usage,
	}
}
