package booking

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"labcrm/models"
)

func editFixture() (*models.Booking, *models.WizardSession) {
	patient := &models.Patient{ID: 7, User: 3, FirstName: "Asha"}
	original := &models.Booking{
		ID:                42,
		Status:            models.StatusOpen,
		UserDetail:        &models.Customer{ID: 3, FirstName: "Ravi"},
		AddressDetail:     &models.Address{ID: 11, Line1: "12 Lake Road", City: "Pune"},
		ScheduledDate:     "2026-09-01",
		ScheduledTimeSlot: "6:00 AM - 7:00 AM",
		Items: []models.BookingItem{
			{
				ID:            501,
				PatientDetail: patient,
				LabTestDetail: &models.LabTest{ID: 9, Name: "CBC", Price: "1000", OfferPrice: "800"},
				BasePrice:     "1000",
				OfferPrice:    "800",
			},
		},
		AdminDiscount:  "0",
		CouponDiscount: "0",
		FinalAmount:    "800",
	}
	state := &models.WizardSession{
		ID:        "w1",
		Mode:      models.WizardModeEdit,
		BookingID: 42,
		Customer:  original.UserDetail,
		Address:   original.AddressDetail,
		Items: []models.BookingLine{
			{
				ID:         501,
				Patient:    patient,
				ItemType:   models.ItemTypeLabTest,
				Item:       models.ProductRef{ID: 9, Name: "CBC", Price: "1000", OfferPrice: "800"},
				Price:      "1000",
				OfferPrice: "800",
			},
		},
		ScheduledDate: "2026-09-01",
		ScheduledSlot: "6:00 AM - 7:00 AM",
		Original:      original,
	}
	return original, state
}

func stateQuote(state *models.WizardSession) Quote {
	return ComputeQuote(state.Mode, state.Items, state.AdminDiscount, state.CouponDiscount)
}

func TestDetectChangesNothingChanged(t *testing.T) {
	original, state := editFixture()
	changes := DetectChanges(original, state, stateQuote(state))
	if !changes.NothingChanged() {
		t.Errorf("untouched session reports changes: %+v", changes)
	}
	if len(changes.Rows) != 0 {
		t.Errorf("expected no rows, got %v", changes.Rows)
	}
}

func TestDetectChangesIsIdempotent(t *testing.T) {
	original, state := editFixture()
	state.ScheduledSlot = "7:00 AM - 8:00 AM"
	first := DetectChanges(original, state, stateQuote(state))
	second := DetectChanges(original, state, stateQuote(state))
	if first.ScheduleChanged != second.ScheduleChanged || len(first.Rows) != len(second.Rows) {
		t.Error("repeated detection over the same state diverged")
	}
	if original.ScheduledTimeSlot != "6:00 AM - 7:00 AM" {
		t.Error("DetectChanges mutated the original snapshot")
	}
}

func TestDetectChangesAddressByIDOnly(t *testing.T) {
	original, state := editFixture()

	// Same id, different fields: not a change.
	state.Address = &models.Address{ID: 11, Line1: "edited in place"}
	changes := DetectChanges(original, state, stateQuote(state))
	if changes.AddressChanged {
		t.Error("same address id must not register as changed")
	}

	state.Address = &models.Address{ID: 12, Line1: "4 Hill Street"}
	changes = DetectChanges(original, state, stateQuote(state))
	if !changes.AddressChanged {
		t.Error("different address id must register as changed")
	}
}

func TestDetectChangesItems(t *testing.T) {
	original, state := editFixture()
	state.Items = append(state.Items, models.BookingLine{
		ID:         900001,
		Patient:    state.Items[0].Patient,
		ItemType:   models.ItemTypeLabPackage,
		Item:       models.ProductRef{ID: 21, Name: "Full Body", Price: "2000", OfferPrice: "1500"},
		Price:      "2000",
		OfferPrice: "1500",
	})
	changes := DetectChanges(original, state, stateQuote(state))
	if !changes.ItemsChanged || len(changes.Added) != 1 || len(changes.Removed) != 0 {
		t.Fatalf("expected one added item, got %+v", changes)
	}

	state.Items = state.Items[1:]
	changes = DetectChanges(original, state, stateQuote(state))
	if !changes.ItemsChanged || len(changes.Added) != 1 || len(changes.Removed) != 1 {
		t.Fatalf("expected one added and one removed, got added=%d removed=%d",
			len(changes.Added), len(changes.Removed))
	}
	if changes.Removed[0].ID != 501 {
		t.Errorf("removed id = %d, want 501", changes.Removed[0].ID)
	}
}

func TestDetectChangesAmountComparesStrings(t *testing.T) {
	original, state := editFixture()

	// Numerically equal but formatted differently: reports as changed.
	original.FinalAmount = "800.00"
	changes := DetectChanges(original, state, stateQuote(state))
	if !changes.AmountChanged {
		t.Error("'800.00' vs '800' must register as an amount change")
	}

	original.FinalAmount = "800"
	changes = DetectChanges(original, state, stateQuote(state))
	if changes.AmountChanged {
		t.Error("identical renderings must not register as changed")
	}
}

func TestBuildBulkUpdateScheduleAndDiscounts(t *testing.T) {
	original, state := editFixture()
	state.ScheduledDate = "2026-09-02"
	state.AdminDiscount = decimal.NewFromInt(50)
	quote := stateQuote(state)
	changes := DetectChanges(original, state, quote)

	payload, err := BuildBulkUpdate(state, changes, "rescheduled on customer request")
	if err != nil {
		t.Fatalf("BuildBulkUpdate: %v", err)
	}
	actions, ok := payload["actions"].([]string)
	if !ok {
		t.Fatalf("actions missing from payload: %v", payload)
	}
	want := map[string]bool{"update_schedule": true, "update_discounts": true}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want schedule+discounts", actions)
	}
	for _, a := range actions {
		if !want[a] {
			t.Errorf("unexpected action %q", a)
		}
	}
	if payload["scheduled_date"] != "2026-09-02" {
		t.Errorf("scheduled_date = %v", payload["scheduled_date"])
	}
	if payload["remarks"] != "rescheduled on customer request" {
		t.Errorf("remarks = %v", payload["remarks"])
	}
	if _, present := payload["items"]; present {
		t.Error("items must not ship when unchanged")
	}
}

func TestBuildBulkUpdateItemsShipFullList(t *testing.T) {
	original, state := editFixture()
	state.Items = append(state.Items, models.BookingLine{
		ID:         900002,
		Patient:    state.Items[0].Patient,
		ItemType:   models.ItemTypeLabTest,
		Item:       models.ProductRef{ID: 14, Name: "Lipid Profile", Price: "600", OfferPrice: "500"},
		Price:      "600",
		OfferPrice: "500",
	})
	changes := DetectChanges(original, state, stateQuote(state))

	payload, err := BuildBulkUpdate(state, changes, "added lipid profile")
	if err != nil {
		t.Fatalf("BuildBulkUpdate: %v", err)
	}
	items, ok := payload["items"].([]map[string]interface{})
	if !ok {
		t.Fatalf("items missing from payload")
	}
	// Full replacement list: the kept line rides along with the new one.
	if len(items) != 2 {
		t.Fatalf("items = %d entries, want 2", len(items))
	}
	if items[0]["id"] != int64(501) || items[1]["id"] != int64(900002) {
		t.Errorf("item ids = %v, %v", items[0]["id"], items[1]["id"])
	}
	if items[1]["product_type"] != models.ItemTypeLabTest || items[1]["product_id"] != int64(14) {
		t.Errorf("new item payload = %v", items[1])
	}
}

func TestBuildBulkUpdateRefusals(t *testing.T) {
	original, state := editFixture()

	// Address-only change produces no backend action.
	state.Address = &models.Address{ID: 12}
	changes := DetectChanges(original, state, stateQuote(state))
	if _, err := BuildBulkUpdate(state, changes, "moved"); !errors.Is(err, ErrNoChanges) {
		t.Errorf("address-only change: err = %v, want ErrNoChanges", err)
	}

	// A real change without a remark is refused.
	state.Address = original.AddressDetail
	state.ScheduledSlot = "7:00 AM - 8:00 AM"
	changes = DetectChanges(original, state, stateQuote(state))
	if _, err := BuildBulkUpdate(state, changes, "   "); !errors.Is(err, ErrRemarkRequired) {
		t.Errorf("blank remark: err = %v, want ErrRemarkRequired", err)
	}
}
