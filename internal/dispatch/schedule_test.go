package dispatch

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestParseSchedule_DelayMinutes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	spec, ok := parseSchedule("coffee 10", now)
	if !ok {
		t.Fatal("parseSchedule() = false, want true")
	}
	if spec.commandText != "coffee" {
		t.Errorf("commandText = %q, want %q", spec.commandText, "coffee")
	}
	if !spec.delayed || spec.delayMinutes != 10 {
		t.Errorf("delayed = %v, delayMinutes = %d, want delayed 10", spec.delayed, spec.delayMinutes)
	}
	if want := now.Add(10 * time.Minute); !spec.runAt.Equal(want) {
		t.Errorf("runAt = %v, want %v", spec.runAt, want)
	}
}

func TestParseSchedule_MultiWordCommandWithDelay(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	spec, ok := parseSchedule("water the plants 5", now)
	if !ok {
		t.Fatal("parseSchedule() = false, want true")
	}
	if spec.commandText != "water the plants" {
		t.Errorf("commandText = %q, want %q", spec.commandText, "water the plants")
	}
}

func TestParseSchedule_WallClockLaterToday(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	spec, ok := parseSchedule("coffee at 19:45", now)
	if !ok {
		t.Fatal("parseSchedule() = false, want true")
	}
	if spec.commandText != "coffee" {
		t.Errorf("commandText = %q, want %q", spec.commandText, "coffee")
	}
	want := time.Date(2025, 6, 1, 19, 45, 0, 0, time.UTC)
	if !spec.runAt.Equal(want) {
		t.Errorf("runAt = %v, want %v", spec.runAt, want)
	}
	if spec.delayed {
		t.Error("delayed = true, want false for wall-clock schedule")
	}
}

func TestParseSchedule_WallClockRollsToTomorrow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	spec, ok := parseSchedule("coffee at 7:45", now)
	if !ok {
		t.Fatal("parseSchedule() = false, want true")
	}
	want := time.Date(2025, 6, 2, 7, 45, 0, 0, time.UTC)
	if !spec.runAt.Equal(want) {
		t.Errorf("runAt = %v, want %v (next day)", spec.runAt, want)
	}
}

func TestParseSchedule_Rejections(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
	}{
		{"no suffix", "coffee"},
		{"zero minutes", "coffee 0"},
		{"invalid hour", "coffee at 25:00"},
		{"invalid minute", "coffee at 12:75"},
		{"empty", ""},
		{"bare number", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseSchedule(tt.text, now); ok {
				t.Errorf("parseSchedule(%q) = true, want false", tt.text)
			}
		})
	}
}

func TestScheduler_FiresAfterDelay(t *testing.T) {
	s := newScheduler()
	defer s.stop()

	var fired atomic.Bool
	done := make(chan struct{})
	s.after(time.Millisecond, func() {
		fired.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timer never fired")
	}
	if !fired.Load() {
		t.Error("callback did not run")
	}
}

func TestScheduler_StopCancelsPendingTimers(t *testing.T) {
	s := newScheduler()

	var fired atomic.Bool
	s.after(50*time.Millisecond, func() {
		fired.Store(true)
	})
	s.stop()

	time.Sleep(100 * time.Millisecond)
	if fired.Load() {
		t.Error("callback ran after stop")
	}

	// Arming after stop is a no-op.
	s.after(time.Millisecond, func() {
		fired.Store(true)
	})
	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Error("callback armed after stop ran")
	}
}
