package booking

import (
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// DateLayout is the backend's scheduled_date wire format.
const DateLayout = "2006-01-02"

// TimeSlots is the fixed collection window, earliest first. The strings are
// wire values: they are sent to the backend verbatim and compared verbatim by
// the diff engine, so formatting here is load-bearing.
var TimeSlots = []string{
	"5:00 AM - 6:00 AM",
	"6:00 AM - 7:00 AM",
	"7:00 AM - 8:00 AM",
	"8:00 AM - 9:00 AM",
	"9:00 AM - 10:00 AM",
	"10:00 AM - 11:00 AM",
	"11:00 AM - 12:00 PM",
	"12:00 PM - 1:00 PM",
}

// SlotOption is one selectable slot with its availability for a given date.
type SlotOption struct {
	Slot     string `json:"slot"`
	Disabled bool   `json:"disabled"`
}

// IsSlotExpired reports whether the slot's start time has passed relative to
// ref, anchored to ref's calendar date. A slot that started exactly now is
// expired. Malformed slots are never expired; the backend rejects them later.
func IsSlotExpired(slot string, ref time.Time) bool {
	start, err := slotStart(slot, ref)
	if err != nil {
		return false
	}
	return !ref.Before(start)
}

// SlotOptions returns every slot with past starts disabled, but only when the
// chosen date is ref's own date. Future dates keep all slots open, so a
// booking for tomorrow morning can still be taken tonight.
func SlotOptions(date string, ref time.Time) []SlotOption {
	today := date == ref.Format(DateLayout)
	options := make([]SlotOption, 0, len(TimeSlots))
	for _, slot := range TimeSlots {
		options = append(options, SlotOption{
			Slot:     slot,
			Disabled: today && IsSlotExpired(slot, ref),
		})
	}
	return options
}

// ValidScheduleDate reports whether date parses and is ref's date or later.
func ValidScheduleDate(date string, ref time.Time) bool {
	d, err := time.ParseInLocation(DateLayout, date, ref.Location())
	if err != nil {
		return false
	}
	return !d.Before(now.With(ref).BeginningOfDay())
}

// ValidSlot reports whether slot is one of the fixed windows.
func ValidSlot(slot string) bool {
	return containsString(TimeSlots, slot)
}

// slotStart parses the leading clock time of a slot label and anchors it to
// ref's date and location.
func slotStart(slot string, ref time.Time) (time.Time, error) {
	label, _, found := strings.Cut(slot, " - ")
	if !found {
		label = slot
	}
	t, err := time.ParseInLocation("3:04 PM", strings.TrimSpace(label), ref.Location())
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), 0, 0, ref.Location()), nil
}
