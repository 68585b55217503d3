package touch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"
)

// Digitizer represents a connection to a HID touch digitizer
type Digitizer struct {
	vendorID  uint16
	productID uint16
	mu        sync.Mutex
	device    *hid.Device
	closed    bool
}

// Open connects to a digitizer with the specified vendor and product IDs
func Open(vendorID, productID uint16) (*Digitizer, error) {
	devices := hid.Enumerate(vendorID, productID)
	if len(devices) == 0 {
		allDevices := hid.Enumerate(0, 0)
		if len(allDevices) == 0 {
			return nil, fmt.Errorf("no HID devices found on system - check USB connection")
		}
		return nil, fmt.Errorf("no digitizer found with VendorID=0x%04X, ProductID=0x%04X\n"+
			"  Run 'ledgerpad list-devices' to see available devices\n"+
			"  Run 'ledgerpad set-device' to configure the correct device",
			vendorID, productID)
	}

	// Try each matching interface until one opens; digitizers often expose
	// several interfaces and not all of them accept a connection.
	var lastErr error
	for _, devInfo := range devices {
		dev, err := devInfo.Open()
		if err == nil {
			return &Digitizer{
				vendorID:  vendorID,
				productID: productID,
				device:    dev,
			}, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed to open any of %d interfaces for digitizer 0x%04X:0x%04X: %w\n"+
		"  This may be a permissions issue. On macOS, add your terminal app under\n"+
		"  System Settings > Privacy & Security > Input Monitoring",
		len(devices), vendorID, productID, lastErr)
}

// Close closes the digitizer connection
func (d *Digitizer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.device != nil {
		return d.device.Close()
	}
	return nil
}

// ReadEvents continuously reads touch reports from the digitizer and sends
// parsed primary-contact events to the channel. Secondary contacts and
// malformed reports are dropped.
func (d *Digitizer) ReadEvents(ctx context.Context, events chan<- Event) error {
	buf := make([]byte, 64)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return fmt.Errorf("digitizer closed")
		}
		dev := d.device
		d.mu.Unlock()

		n, err := dev.Read(buf)
		if err != nil {
			return fmt.Errorf("read error: %w", err)
		}

		if n == 0 {
			continue
		}

		event, err := ParseReport(buf[:n])
		if err != nil {
			// Secondary contacts and malformed reports are dropped
			continue
		}

		select {
		case events <- *event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Reconnect attempts to reconnect to the digitizer
func (d *Digitizer) Reconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device != nil {
		d.device.Close()
		d.device = nil
	}
	d.closed = false

	devices := hid.Enumerate(d.vendorID, d.productID)
	if len(devices) == 0 {
		return fmt.Errorf("digitizer not found")
	}

	var lastErr error
	for _, devInfo := range devices {
		dev, err := devInfo.Open()
		if err == nil {
			d.device = dev
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("failed to open digitizer: %w", lastErr)
}

// WaitForDevice waits for the digitizer to become available and connects to it
func (d *Digitizer) WaitForDevice(ctx context.Context, pollInterval time.Duration) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.Reconnect(); err == nil {
				return nil
			}
		}
	}
}
