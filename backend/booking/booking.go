package bookingRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"labcrm/backend"
	"labcrm/models"
)

// ListFilter narrows the bookings list; zero values mean "no filter".
type ListFilter struct {
	Status   string
	Search   string
	DateFrom string
	DateTo   string
	Page     int
}

// BookingRepository defines remote access to bookings and their satellite
// resources (documents, payments, history).
type BookingRepository interface {
	// List retrieves a filtered page of bookings plus the total count.
	List(ctx context.Context, token string, filter ListFilter) ([]models.Booking, int, error)
	// GetByID retrieves one booking with items and detail objects expanded.
	GetByID(ctx context.Context, token string, id int64) (*models.Booking, error)
	// Create posts a full booking payload assembled by the wizard.
	Create(ctx context.Context, token string, payload map[string]interface{}) (*models.Booking, error)
	// Apply sends a single-action PATCH from the action drawer.
	Apply(ctx context.Context, token string, id int64, payload map[string]interface{}) error
	// ApplyMultipart sends a single-action PATCH as multipart form data
	// (cash payment with proof attachment).
	ApplyMultipart(ctx context.Context, token string, id int64, fields map[string]string, fileName string, file io.Reader) error
	// BulkUpdate sends the edit wizard's combined change payload.
	BulkUpdate(ctx context.Context, token string, id int64, payload map[string]interface{}) error
	// UploadDocument attaches a file to a booking.
	UploadDocument(ctx context.Context, token string, fields map[string]string, fileName string, file io.Reader) error
	// Documents lists files attached to a booking.
	Documents(ctx context.Context, token string, id int64) ([]models.BookingDocument, error)
	// Payments lists payment records under a booking.
	Payments(ctx context.Context, token string, id int64) ([]models.BookingPayment, error)
	// History lists a booking's action trail.
	History(ctx context.Context, token string, id int64) ([]models.BookingEvent, error)
	// RecentActions feeds the dashboard's latest-activity widget.
	RecentActions(ctx context.Context, token string, limit int) ([]models.BookingEvent, error)
}

type restBookingRepo struct {
	client *backend.Client
}

// NewRESTBookingRepo returns a BookingRepository backed by the CRM backend.
func NewRESTBookingRepo(client *backend.Client) BookingRepository {
	return &restBookingRepo{client: client}
}

func (r *restBookingRepo) List(ctx context.Context, token string, filter ListFilter) ([]models.Booking, int, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.DateFrom != "" {
		query.Set("date_from", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query.Set("date_to", filter.DateTo)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}

	raw, err := r.client.GetRaw(ctx, token, "/bookings/", query)
	if err != nil {
		return nil, 0, err
	}
	var bookings []models.Booking
	total, err := backend.DecodeList(raw, &bookings)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *restBookingRepo) GetByID(ctx context.Context, token string, id int64) (*models.Booking, error) {
	raw, err := r.client.GetRaw(ctx, token, fmt.Sprintf("/bookings/%d/", id), nil)
	if err != nil {
		return nil, err
	}

	// Some backend versions wrap the detail in {data: ...}; unwrap when seen.
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Data != nil {
		raw = wrapper.Data
	}

	var booking models.Booking
	if err := json.Unmarshal(raw, &booking); err != nil {
		return nil, fmt.Errorf("decode booking: %w", err)
	}
	return &booking, nil
}

func (r *restBookingRepo) Create(ctx context.Context, token string, payload map[string]interface{}) (*models.Booking, error) {
	var booking models.Booking
	if err := r.client.Post(ctx, token, "/bookings/", payload, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *restBookingRepo) Apply(ctx context.Context, token string, id int64, payload map[string]interface{}) error {
	return r.client.Patch(ctx, token, fmt.Sprintf("/bookings/%d/", id), payload, nil)
}

func (r *restBookingRepo) ApplyMultipart(ctx context.Context, token string, id int64, fields map[string]string, fileName string, file io.Reader) error {
	path := fmt.Sprintf("/bookings/%d/", id)
	return r.client.DoMultipart(ctx, http.MethodPatch, token, path, fields, "file", fileName, file, nil)
}

func (r *restBookingRepo) BulkUpdate(ctx context.Context, token string, id int64, payload map[string]interface{}) error {
	return r.client.Patch(ctx, token, fmt.Sprintf("/bookings-bulk-update/%d/", id), payload, nil)
}

func (r *restBookingRepo) UploadDocument(ctx context.Context, token string, fields map[string]string, fileName string, file io.Reader) error {
	return r.client.DoMultipart(ctx, http.MethodPost, token, "/booking-documents/", fields, "file", fileName, file, nil)
}

func (r *restBookingRepo) Documents(ctx context.Context, token string, id int64) ([]models.BookingDocument, error) {
	query := url.Values{"booking": {strconv.FormatInt(id, 10)}}
	raw, err := r.client.GetRaw(ctx, token, "/booking-documents/", query)
	if err != nil {
		return nil, err
	}
	var docs []models.BookingDocument
	if _, err := backend.DecodeList(raw, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *restBookingRepo) Payments(ctx context.Context, token string, id int64) ([]models.BookingPayment, error) {
	query := url.Values{"booking": {strconv.FormatInt(id, 10)}}
	raw, err := r.client.GetRaw(ctx, token, "/booking-payments/", query)
	if err != nil {
		return nil, err
	}
	var payments []models.BookingPayment
	if _, err := backend.DecodeList(raw, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *restBookingRepo) History(ctx context.Context, token string, id int64) ([]models.BookingEvent, error) {
	query := url.Values{"booking": {strconv.FormatInt(id, 10)}}
	raw, err := r.client.GetRaw(ctx, token, "/booking-actions/", query)
	if err != nil {
		return nil, err
	}
	var events []models.BookingEvent
	if _, err := backend.DecodeList(raw, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *restBookingRepo) RecentActions(ctx context.Context, token string, limit int) ([]models.BookingEvent, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	raw, err := r.client.GetRaw(ctx, token, "/booking-actions/", query)
	if err != nil {
		return nil, err
	}
	var events []models.BookingEvent
	if _, err := backend.DecodeList(raw, &events); err != nil {
		return nil, err
	}
	return events, nil
}
