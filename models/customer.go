package models

// Customer is a registered end user who owns bookings, patients and addresses.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Age       *int   `json:"age,omitempty"`
}

// Patient is a dependent profile under a customer, used as the test subject.
type Patient struct {
	ID        int64  `json:"id"`
	User      int64  `json:"user"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Age       *int   `json:"age,omitempty"`
}

// Address is a delivery/collection address owned by a customer. At most one
// default per customer, enforced by the backend.
type Address struct {
	ID        int64     `json:"id"`
	User      int64     `json:"user,omitempty"`
	Line1     string    `json:"line1"`
	Line2     string    `json:"line2,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Pincode   string    `json:"pincode,omitempty"`
	Location  *Location `json:"location,omitempty"`
	IsDefault bool      `json:"is_default"`
}

// Location is the searchable city/state/pincode entity addresses attach to.
type Location struct {
	ID      int64  `json:"id"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// Enquiry is an inbound lead that staff may convert into a customer.
type Enquiry struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Mobile    string `json:"mobile"`
	Message   string `json:"message,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
