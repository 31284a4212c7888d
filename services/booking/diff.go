package booking

import (
	"fmt"
	"strings"

	"labcrm/models"
)

// ChangeRow is one human-readable line of the review summary.
type ChangeRow struct {
	Label  string `json:"label"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// ChangeSet is the edit buffer compared against the original booking. It is
// pure derived state: computing it never mutates the session or the snapshot,
// so recomputing on every review render yields the same result.
type ChangeSet struct {
	AddressChanged  bool `json:"addressChanged"`
	ScheduleChanged bool `json:"scheduleChanged"`
	ItemsChanged    bool `json:"itemsChanged"`
	AmountChanged   bool `json:"amountChanged"`

	Added   []models.BookingLine `json:"added,omitempty"`
	Removed []models.BookingItem `json:"removed,omitempty"`
	Rows    []ChangeRow          `json:"rows"`
}

// NothingChanged reports whether the edit buffer is indistinguishable from
// the original across all four tracked categories.
func (c ChangeSet) NothingChanged() bool {
	return !c.AddressChanged && !c.ScheduleChanged && !c.ItemsChanged && !c.AmountChanged
}

// DetectChanges compares the edit session against its original snapshot.
//
// Addresses compare by id only; editing fields in place on the same address
// record does not register. The amount comparison is done on the exact string
// forms, the backend's stored rendering against the recomputed quote's, so a
// pure formatting difference ("500.00" vs "500") reports as a change. Both
// are deliberate: the review screen mirrors what the backend will see.
func DetectChanges(original *models.Booking, state *models.WizardSession, quote Quote) ChangeSet {
	var c ChangeSet

	origAddr := addressID(original.AddressDetail)
	newAddr := addressID(state.Address)
	if origAddr != newAddr {
		c.AddressChanged = true
		c.Rows = append(c.Rows, ChangeRow{
			Label:  "Address",
			Before: addressLabel(original.AddressDetail),
			After:  addressLabel(state.Address),
		})
	}

	if original.ScheduledDate != state.ScheduledDate || original.ScheduledTimeSlot != state.ScheduledSlot {
		c.ScheduleChanged = true
		c.Rows = append(c.Rows, ChangeRow{
			Label:  "Schedule",
			Before: fmt.Sprintf("%s, %s", original.ScheduledDate, original.ScheduledTimeSlot),
			After:  fmt.Sprintf("%s, %s", state.ScheduledDate, state.ScheduledSlot),
		})
	}

	kept := make(map[int64]bool, len(state.Items))
	for _, line := range state.Items {
		kept[line.ID] = true
	}
	existing := make(map[int64]bool, len(original.Items))
	for _, item := range original.Items {
		existing[item.ID] = true
		if !kept[item.ID] {
			c.Removed = append(c.Removed, item)
		}
	}
	for _, line := range state.Items {
		if !existing[line.ID] {
			c.Added = append(c.Added, line)
		}
	}
	if len(c.Added) > 0 || len(c.Removed) > 0 {
		c.ItemsChanged = true
		for _, line := range c.Added {
			c.Rows = append(c.Rows, ChangeRow{
				Label: "Item added",
				After: fmt.Sprintf("%s (%s)", line.Item.Name, patientName(line.Patient)),
			})
		}
		for _, item := range c.Removed {
			c.Rows = append(c.Rows, ChangeRow{
				Label:  "Item removed",
				Before: fmt.Sprintf("%s (%s)", itemName(item), patientName(item.PatientDetail)),
			})
		}
	}

	if string(original.FinalAmount) != quote.FinalAmount.String() {
		c.AmountChanged = true
		c.Rows = append(c.Rows, ChangeRow{
			Label:  "Final amount",
			Before: string(original.FinalAmount),
			After:  quote.FinalAmount.String(),
		})
	}

	return c
}

func addressID(a *models.Address) int64 {
	if a == nil {
		return 0
	}
	return a.ID
}

func addressLabel(a *models.Address) string {
	if a == nil {
		return ""
	}
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.Pincode != "" {
		parts = append(parts, a.Pincode)
	}
	return strings.Join(parts, ", ")
}

func patientName(p *models.Patient) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func itemName(item models.BookingItem) string {
	if item.LabTestDetail != nil {
		return item.LabTestDetail.Name
	}
	if item.PackageDetail != nil {
		return item.PackageDetail.Name
	}
	return ""
}
