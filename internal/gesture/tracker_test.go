package gesture

import "testing"

func TestTrackerIntentThreshold(t *testing.T) {
	var tr tracker

	tr.begin(100)
	tr.sample(110) // exactly the intent threshold: still jitter
	if tr.swiping {
		t.Error("swiping latched at displacement 10, want latch only above 10")
	}

	tr.sample(111)
	if !tr.swiping {
		t.Error("swiping not latched at displacement 11")
	}

	// The flag latches for the rest of the session
	tr.sample(100)
	if !tr.swiping {
		t.Error("swiping unlatched when displacement dropped back")
	}

	tr.begin(100)
	if tr.swiping {
		t.Error("begin did not clear the swiping flag")
	}
}

func TestTrackerDiffTracksLastAcceptedSample(t *testing.T) {
	var tr tracker

	tr.begin(100)
	tr.sample(40)
	if got := tr.diff(); got != -60 {
		t.Errorf("diff = %d, want -60", got)
	}
	tr.sample(250)
	if got := tr.diff(); got != 150 {
		t.Errorf("diff = %d, want 150", got)
	}
}

func TestClampOffset(t *testing.T) {
	tests := []struct {
		diff, want int
	}{
		{0, 0},
		{80, 80},
		{150, 150},
		{151, 150},
		{400, 150},
		{-150, -150},
		{-151, -150},
		{-999, -150},
	}
	for _, tt := range tests {
		if got := clampOffset(tt.diff); got != tt.want {
			t.Errorf("clampOffset(%d) = %d, want %d", tt.diff, got, tt.want)
		}
	}
}

func TestSideForSymmetry(t *testing.T) {
	for _, m := range []int{1, 79, 80, 81, 150, 400} {
		if got := sideFor(-m); got != SideLeft {
			t.Errorf("sideFor(%d) = %v, want left", -m, got)
		}
		if got := sideFor(m); got != SideRight {
			t.Errorf("sideFor(%d) = %v, want right", m, got)
		}
	}
}

func TestSideString(t *testing.T) {
	if SideLeft.String() != "left" || SideRight.String() != "right" {
		t.Errorf("Side strings = %q/%q, want left/right", SideLeft, SideRight)
	}
}
