package models

import "encoding/json"

// Booking workflow statuses as the backend defines them. The server is the
// authority on transitions; this service only reads the current status and
// proposes the next one.
const (
	StatusOpen             = "open"
	StatusVerified         = "verified"
	StatusRootManager      = "root_manager"
	StatusPhlebo           = "phlebo"
	StatusSampleCollected  = "sample_collected"
	StatusPaymentCollected = "payment_collected"
	StatusReportUploaded   = "report_uploaded"
	StatusHealthManager    = "health_manager"
	StatusDietitian        = "dietitian"
	StatusCompleted        = "completed"
	StatusCancelled        = "cancelled"
)

// AllStatuses lists every workflow status in display order.
var AllStatuses = []string{
	StatusOpen,
	StatusVerified,
	StatusRootManager,
	StatusPhlebo,
	StatusSampleCollected,
	StatusPaymentCollected,
	StatusReportUploaded,
	StatusHealthManager,
	StatusDietitian,
	StatusCompleted,
	StatusCancelled,
}

// Payment sub-states, independent of the booking workflow status.
const (
	PaymentPending   = "pending"
	PaymentInitiated = "initiated"
	PaymentVerified  = "verified"
	PaymentSuccess   = "success"
	PaymentFailed    = "failed"
	PaymentCancelled = "cancelled"
)

// Booking is the central entity as served by the backend. Money fields are
// kept as json.Number so the backend's decimal formatting survives a
// round-trip untouched; the diff engine compares those raw string forms.
type Booking struct {
	ID            int64  `json:"id"`
	RefID         string `json:"ref_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`

	UserDetail    *Customer   `json:"user_detail"`
	AddressDetail *Address    `json:"address_detail"`
	AssignedUsers []StaffUser `json:"assigned_users,omitempty"`

	ScheduledDate     string `json:"scheduled_date"`
	ScheduledTimeSlot string `json:"scheduled_time_slot"`

	Items []BookingItem `json:"items"`

	BaseTotal      json.Number `json:"base_total"`
	OfferTotal     json.Number `json:"offer_total"`
	AdminDiscount  json.Number `json:"admin_discount"`
	CouponDiscount json.Number `json:"coupon_discount"`
	DiscountAmount json.Number `json:"discount_amount"`
	FinalAmount    json.Number `json:"final_amount"`
	InitialAmount  json.Number `json:"initial_amount"`
	Coupon         *Coupon     `json:"coupon,omitempty"`

	CreatedBy     string `json:"created_by,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	PaymentCount  int    `json:"payment_count"`
	DocumentCount int    `json:"document_count"`
}

// BookingItem is one persisted (patient x product) line on a booking.
// Exactly one of LabTestDetail and PackageDetail is set.
type BookingItem struct {
	ID            int64       `json:"id"`
	PatientDetail *Patient    `json:"patient_detail"`
	LabTestDetail *LabTest    `json:"lab_test_detail,omitempty"`
	PackageDetail *LabPackage `json:"package_detail,omitempty"`
	BasePrice     json.Number `json:"base_price"`
	OfferPrice    json.Number `json:"offer_price"`
}

// Item kinds a booking line can reference.
const (
	ItemTypeLabTest    = "lab_test"
	ItemTypeLabPackage = "lab_package"
)

// ProductRef is the denormalized product snapshot carried on a wizard line.
type ProductRef struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Price      json.Number `json:"price"`
	OfferPrice json.Number `json:"offer_price"`
}

// BookingLine is the wizard-side view of one booking item. Lines added during
// a session carry a locally unique temporary id until the backend persists
// them; lines loaded from an existing booking keep their server ids.
type BookingLine struct {
	ID         int64       `json:"id"`
	Patient    *Patient    `json:"patient"`
	ItemType   string      `json:"item_type"`
	Item       ProductRef  `json:"item"`
	Price      json.Number `json:"price"`
	OfferPrice json.Number `json:"offer_price"`
}

// Coupon is opaque to this service beyond its id and numeric value.
type Coupon struct {
	ID     int64       `json:"id"`
	Code   string      `json:"code,omitempty"`
	Amount json.Number `json:"amount,omitempty"`
}

// BookingDocument is a file attached to a booking through the action drawer.
type BookingDocument struct {
	ID      int64  `json:"id"`
	Booking int64  `json:"booking"`
	Name    string `json:"name"`
	DocType string `json:"doc_type"`
	File    string `json:"file,omitempty"`
}

// BookingPayment is one payment record under a booking.
type BookingPayment struct {
	ID     int64       `json:"id"`
	Method string      `json:"payment_method"`
	Status string      `json:"payment_status"`
	Amount json.Number `json:"amount"`
}

// BookingEvent is one row of a booking's action history.
type BookingEvent struct {
	ID         int64  `json:"id"`
	ActionType string `json:"action_type"`
	Remarks    string `json:"remarks"`
	CreatedBy  string `json:"created_by,omitempty"`
	CreatedAt  string `json:"created_at"`
}
