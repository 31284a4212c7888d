package booking

import "errors"

// Flow errors surfaced to handlers. Each maps to a 4xx; anything else that
// bubbles out of the service is a backend or transport failure.
var (
	ErrSessionNotFound     = errors.New("wizard session not found or expired")
	ErrInvalidTab          = errors.New("requested tab is not reachable yet")
	ErrLockedBooking       = errors.New("booking status locks editing to review only")
	ErrIncompleteCustomer  = errors.New("customer and address must be selected first")
	ErrIncompleteDetails   = errors.New("at least one item, a date and a time slot are required")
	ErrPatientNotOwned     = errors.New("patient does not belong to the selected customer")
	ErrInvalidScheduleDate = errors.New("scheduled date must be today or later")
	ErrInvalidSlot         = errors.New("time slot is not available")
	ErrDiscountOutOfBounds = errors.New("admin discount exceeds the allowed limit")
	ErrNoChanges           = errors.New("no changes detected")
	ErrRemarkRequired      = errors.New("remark is required")
	ErrNotAllowed          = errors.New("action is not permitted for this role at the current status")
)
