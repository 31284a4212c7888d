package booking

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestIsSlotExpired(t *testing.T) {
	tests := []struct {
		name string
		slot string
		ref  time.Time
		want bool
	}{
		{"before start", "9:00 AM - 10:00 AM", at(8, 59), false},
		{"exactly at start", "9:00 AM - 10:00 AM", at(9, 0), true},
		{"after start", "9:00 AM - 10:00 AM", at(9, 30), true},
		{"noon slot before start", "12:00 PM - 1:00 PM", at(11, 59), false},
		{"noon slot after start", "12:00 PM - 1:00 PM", at(12, 1), true},
		{"earliest slot early morning", "5:00 AM - 6:00 AM", at(4, 0), false},
		{"malformed slot never expires", "whenever", at(23, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsSlotExpired(tc.slot, tc.ref); got != tc.want {
				t.Errorf("IsSlotExpired(%q, %s) = %v, want %v", tc.slot, tc.ref, got, tc.want)
			}
		})
	}
}

func TestSlotOptionsDisablesPastStartsOnlyToday(t *testing.T) {
	ref := at(9, 30) // 2026-09-01 09:30

	today := SlotOptions("2026-09-01", ref)
	if len(today) != len(TimeSlots) {
		t.Fatalf("got %d options, want %d", len(today), len(TimeSlots))
	}
	disabled := 0
	for _, opt := range today {
		if opt.Disabled {
			disabled++
		}
	}
	// 5, 6, 7, 8 and 9 AM starts have passed by 09:30.
	if disabled != 5 {
		t.Errorf("disabled = %d slots, want 5: %+v", disabled, today)
	}

	tomorrow := SlotOptions("2026-09-02", ref)
	for _, opt := range tomorrow {
		if opt.Disabled {
			t.Errorf("future date must keep all slots open, %q disabled", opt.Slot)
		}
	}
}

func TestValidScheduleDate(t *testing.T) {
	ref := at(15, 0)
	tests := []struct {
		date string
		want bool
	}{
		{"2026-09-01", true},  // today, even late in the day
		{"2026-09-02", true},  // future
		{"2026-08-31", false}, // past
		{"not-a-date", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := ValidScheduleDate(tc.date, ref); got != tc.want {
			t.Errorf("ValidScheduleDate(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestValidSlot(t *testing.T) {
	for _, slot := range TimeSlots {
		if !ValidSlot(slot) {
			t.Errorf("ValidSlot(%q) = false", slot)
		}
	}
	if ValidSlot("1:00 PM - 2:00 PM") {
		t.Error("slot outside the fixed window accepted")
	}
}
