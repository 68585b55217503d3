// Package touch reads single-pointer touch events from a USB HID touch
// digitizer and exposes them as start/move/end signals in the device's
// report coordinate space.
package touch

import (
	"encoding/binary"
	"fmt"
)

// Report IDs
const (
	ReportIDTouch byte = 0x04
)

// Phase values carried in touch reports
const (
	PhaseByteStart byte = 0x01
	PhaseByteMove  byte = 0x02
	PhaseByteEnd   byte = 0x03
)

// Phase is the stage of a touch contact.
type Phase byte

const (
	PhaseStart Phase = Phase(PhaseByteStart)
	PhaseMove  Phase = Phase(PhaseByteMove)
	PhaseEnd   Phase = Phase(PhaseByteEnd)
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseMove:
		return "move"
	case PhaseEnd:
		return "end"
	default:
		return fmt.Sprintf("unknown(%d)", byte(p))
	}
}

// Event is one touch sample from the digitizer, in report coordinates.
type Event struct {
	Phase Phase
	X     int
	Y     int
}

// ErrSecondaryContact marks reports from contacts other than the primary
// one. Only the first touch point is tracked; callers drop these.
var ErrSecondaryContact = fmt.Errorf("secondary contact")

// ParseReport parses a raw HID report into an Event
// Expected format:
//
//	Byte 0: Report ID (0x04)
//	Byte 1: Phase (0x01=start, 0x02=move, 0x03=end)
//	Byte 2-3: X coordinate (little-endian)
//	Byte 4-5: Y coordinate (little-endian)
//	Byte 6: Contact index (0 = primary)
//	Byte 7: Reserved
func ParseReport(data []byte) (*Event, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("touch report too short: %d bytes", len(data))
	}

	if data[0] != ReportIDTouch {
		return nil, fmt.Errorf("unexpected report ID: 0x%02X", data[0])
	}

	phase := data[1]
	if phase != PhaseByteStart && phase != PhaseByteMove && phase != PhaseByteEnd {
		return nil, fmt.Errorf("unknown touch phase: 0x%02X", phase)
	}

	if data[6] != 0 {
		return nil, ErrSecondaryContact
	}

	return &Event{
		Phase: Phase(phase),
		X:     int(binary.LittleEndian.Uint16(data[2:4])),
		Y:     int(binary.LittleEndian.Uint16(data[4:6])),
	}, nil
}
