package touch

import (
	"errors"
	"testing"
)

func TestParseReport(t *testing.T) {
	// start at (300, 120), primary contact
	data := []byte{0x04, 0x01, 0x2C, 0x01, 0x78, 0x00, 0x00, 0x00}

	event, err := ParseReport(data)
	if err != nil {
		t.Fatalf("ParseReport() error = %v", err)
	}
	if event.Phase != PhaseStart {
		t.Errorf("Phase = %v, want start", event.Phase)
	}
	if event.X != 300 {
		t.Errorf("X = %d, want 300", event.X)
	}
	if event.Y != 120 {
		t.Errorf("Y = %d, want 120", event.Y)
	}
}

func TestParseReportPhases(t *testing.T) {
	tests := []struct {
		phase byte
		want  Phase
	}{
		{0x01, PhaseStart},
		{0x02, PhaseMove},
		{0x03, PhaseEnd},
	}
	for _, tt := range tests {
		data := []byte{0x04, tt.phase, 0, 0, 0, 0, 0, 0}
		event, err := ParseReport(data)
		if err != nil {
			t.Fatalf("ParseReport(phase 0x%02X) error = %v", tt.phase, err)
		}
		if event.Phase != tt.want {
			t.Errorf("Phase = %v, want %v", event.Phase, tt.want)
		}
	}
}

func TestParseReportTooShort(t *testing.T) {
	if _, err := ParseReport([]byte{0x04, 0x01, 0x00}); err == nil {
		t.Error("ParseReport() should fail on a short report")
	}
}

func TestParseReportWrongID(t *testing.T) {
	data := []byte{0x01, 0x01, 0, 0, 0, 0, 0, 0}
	if _, err := ParseReport(data); err == nil {
		t.Error("ParseReport() should fail on a non-touch report ID")
	}
}

func TestParseReportUnknownPhase(t *testing.T) {
	data := []byte{0x04, 0x09, 0, 0, 0, 0, 0, 0}
	if _, err := ParseReport(data); err == nil {
		t.Error("ParseReport() should fail on an unknown phase")
	}
}

func TestParseReportDropsSecondaryContacts(t *testing.T) {
	data := []byte{0x04, 0x02, 0, 0, 0, 0, 0x01, 0}
	_, err := ParseReport(data)
	if !errors.Is(err, ErrSecondaryContact) {
		t.Errorf("ParseReport() error = %v, want ErrSecondaryContact", err)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseStart.String() != "start" || PhaseMove.String() != "move" || PhaseEnd.String() != "end" {
		t.Error("unexpected Phase string values")
	}
	if Phase(0x7F).String() != "unknown(127)" {
		t.Errorf("Phase(0x7F) = %q, want unknown(127)", Phase(0x7F).String())
	}
}
