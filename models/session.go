package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is one authenticated console session. Exactly three pieces of
// backend state are held: the staff user and the access/refresh token pair.
type Session struct {
	ID        string    `json:"id"`
	User      StaffUser `json:"user"`
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh"`
	CreatedAt time.Time `json:"createdAt"`
}

// Wizard modes.
const (
	WizardModeCreate = "create"
	WizardModeEdit   = "edit"
)

// Wizard tabs, in order.
const (
	TabCustomer = 0
	TabDetails  = 1
	TabReview   = 2
)

// WizardSession holds the in-progress state of one booking create/edit flow
// between requests. It lives in Redis under a TTL; abandonment is expiry.
type WizardSession struct {
	ID        string `json:"id"`
	Mode      string `json:"mode"`
	BookingID int64  `json:"bookingId,omitempty"`
	ActiveTab int    `json:"activeTab"`

	Customer *Customer     `json:"customer,omitempty"`
	Address  *Address      `json:"address,omitempty"`
	Items    []BookingLine `json:"items"`

	ScheduledDate string `json:"scheduledDate"`
	ScheduledSlot string `json:"scheduledSlot"`

	AdminDiscount  decimal.Decimal `json:"adminDiscount"`
	CouponDiscount decimal.Decimal `json:"couponDiscount"`

	// Original is the immutable snapshot loaded at edit start; nil in create
	// mode. The diff engine compares the edit buffer against it.
	Original *Booking `json:"original,omitempty"`
}
