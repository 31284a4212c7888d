package handlers

// HandlerBundle aggregates every handler group for route registration.
type HandlerBundle struct {
	Auth     *AuthHandler
	Booking  *BookingHandler
	Wizard   *WizardHandler
	Customer *CustomerHandler
	Catalog  *CatalogHandler
	Staff    *StaffHandler
	Search   *SearchHandler
}
