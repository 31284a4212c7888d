package customerRepo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"labcrm/backend"
	"labcrm/models"
)

// CustomerRepository defines remote access to customers and the records that
// hang off them (patients, addresses) plus inbound enquiries.
type CustomerRepository interface {
	// Search retrieves customers matching a free-text search.
	Search(ctx context.Context, token, search string, page int) ([]models.Customer, int, error)
	// GetByID retrieves one customer.
	GetByID(ctx context.Context, token string, id int64) (*models.Customer, error)
	// Create registers a new customer from the console.
	Create(ctx context.Context, token string, payload map[string]interface{}) (*models.Customer, error)
	// Update patches customer fields.
	Update(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.Customer, error)

	// Patients lists the test subjects under a customer.
	Patients(ctx context.Context, token string, customerID int64) ([]models.Patient, error)
	// CreatePatient adds a dependent profile under a customer.
	CreatePatient(ctx context.Context, token string, payload map[string]interface{}) (*models.Patient, error)
	// UpdatePatient patches a dependent profile.
	UpdatePatient(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.Patient, error)

	// Addresses lists a customer's addresses.
	Addresses(ctx context.Context, token string, customerID int64) ([]models.Address, error)
	// CreateAddress adds an address for a customer.
	CreateAddress(ctx context.Context, token string, payload map[string]interface{}) (*models.Address, error)
	// UpdateAddress patches an address (including the is_default flag; the
	// backend keeps at most one default per customer).
	UpdateAddress(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.Address, error)

	// SearchLocations finds city/state/pincode entries for address forms.
	SearchLocations(ctx context.Context, token, search string) ([]models.Location, error)

	// Enquiries lists inbound leads.
	Enquiries(ctx context.Context, token string, page int) ([]models.Enquiry, int, error)
	// ConvertEnquiry turns an enquiry into a registered customer.
	ConvertEnquiry(ctx context.Context, token string, id int64) (*models.Customer, error)
}

type restCustomerRepo struct {
	client *backend.Client
}

// NewRESTCustomerRepo returns a CustomerRepository backed by the CRM backend.
func NewRESTCustomerRepo(client *backend.Client) CustomerRepository {
	return &restCustomerRepo{client: client}
}

func (r *restCustomerRepo) Search(ctx context.Context, token, search string, page int) ([]models.Customer, int, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	raw, err := r.client.GetRaw(ctx, token, "/crm/users/", query)
	if err != nil {
		return nil, 0, err
	}
	var customers []models.Customer
	total, err := backend.DecodeList(raw, &customers)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *restCustomerRepo) GetByID(ctx context.Context, token string, id int64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.client.Get(ctx, token, fmt.Sprintf("/crm/users/%d/", id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *restCustomerRepo) Create(ctx context.Context, token string, payload map[string]interface{}) (*models.Customer, error) {
	var customer models.Customer
	if err := r.client.Post(ctx, token, "/crm/users/", payload, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *restCustomerRepo) Update(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.Customer, error) {
	var customer models.Customer
	if err := r.client.Patch(ctx, token, fmt.Sprintf("/crm/users/%d/", id), payload, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *restCustomerRepo) Patients(ctx context.Context, token string, customerID int64) ([]models.Patient, error) {
	query := url.Values{"user": {strconv.FormatInt(customerID, 10)}}
	raw, err := r.client.GetRaw(ctx, token, "/crm/patients/", query)
	if err != nil {
		return nil, err
	}
	var patients []models.Patient
	if _, err := backend.DecodeList(raw, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *restCustomerRepo) CreatePatient(ctx context.Context, token string, payload map[string]interface{}) (*models.Patient, error) {
	var patient models.Patient
	if err := r.client.Post(ctx, token, "/crm/patients/", payload, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *restCustomerRepo) UpdatePatient(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.Patient, error) {
	var patient models.Patient
	if err := r.client.Patch(ctx, token, fmt.Sprintf("/crm/patients/%d/", id), payload, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *restCustomerRepo) Addresses(ctx context.Context, token string, customerID int64) ([]models.Address, error) {
	query := url.Values{"user": {strconv.FormatInt(customerID, 10)}}
	raw, err := r.client.GetRaw(ctx, token, "/crm/addresses/", query)
	if err != nil {
		return nil, err
	}
	var addresses []models.Address
	if _, err := backend.DecodeList(raw, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *restCustomerRepo) CreateAddress(ctx context.Context, token string, payload map[string]interface{}) (*models.Address, error) {
	var address models.Address
	if err := r.client.Post(ctx, token, "/crm/addresses/", payload, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *restCustomerRepo) UpdateAddress(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.Address, error) {
	var address models.Address
	if err := r.client.Patch(ctx, token, fmt.Sprintf("/crm/addresses/%d/", id), payload, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *restCustomerRepo) SearchLocations(ctx context.Context, token, search string) ([]models.Location, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	raw, err := r.client.GetRaw(ctx, token, "/crm/locations/", query)
	if err != nil {
		return nil, err
	}
	var locations []models.Location
	if _, err := backend.DecodeList(raw, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *restCustomerRepo) Enquiries(ctx context.Context, token string, page int) ([]models.Enquiry, int, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	raw, err := r.client.GetRaw(ctx, token, "/crm/enquiries/", query)
	if err != nil {
		return nil, 0, err
	}
	var enquiries []models.Enquiry
	total, err := backend.DecodeList(raw, &enquiries)
	if err != nil {
		return nil, 0, err
	}
	return enquiries, total, nil
}

func (r *restCustomerRepo) ConvertEnquiry(ctx context.Context, token string, id int64) (*models.Customer, error) {
	var customer models.Customer
	path := fmt.Sprintf("/crm/enquiries/%d/convert/", id)
	if err := r.client.Post(ctx, token, path, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
