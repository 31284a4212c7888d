package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	bookingRepo "labcrm/backend/booking"
	"labcrm/models"
	"labcrm/utils"
)

// lockedStatuses force edit sessions straight to review: downstream of sample
// collection the drawer actions are the only way to touch a booking.
var lockedStatuses = map[string]bool{
	models.StatusSampleCollected:  true,
	models.StatusPaymentCollected: true,
	models.StatusReportUploaded:   true,
	models.StatusHealthManager:    true,
	models.StatusDietitian:        true,
	models.StatusCompleted:        true,
	models.StatusCancelled:        true,
}

// ReviewSummary is everything the review tab renders: the session, the
// recomputed quote, and in edit mode the change set against the original.
type ReviewSummary struct {
	Session *models.WizardSession `json:"session"`
	Quote   Quote                 `json:"quote"`
	Changes *ChangeSet            `json:"changes,omitempty"`
}

// WizardService drives the three-tab booking create/edit flow. State between
// calls lives in Redis; every mutation validates, persists and returns the
// updated session.
type WizardService interface {
	Start(ctx context.Context) (*models.WizardSession, error)
	StartEdit(ctx context.Context, sess *models.Session, bookingID int64) (*models.WizardSession, error)
	Get(ctx context.Context, id string) (*models.WizardSession, error)
	SetTab(ctx context.Context, id string, tab int) (*models.WizardSession, error)
	SelectCustomer(ctx context.Context, id string, customer models.Customer) (*models.WizardSession, error)
	SelectAddress(ctx context.Context, id string, address models.Address) (*models.WizardSession, error)
	AddItems(ctx context.Context, id, itemType string, product models.ProductRef, patients []models.Patient) (*models.WizardSession, error)
	RemoveItem(ctx context.Context, id string, lineID int64) (*models.WizardSession, error)
	SetSchedule(ctx context.Context, id, date, slot string) (*models.WizardSession, error)
	SetDiscounts(ctx context.Context, id string, admin, coupon decimal.Decimal, role *models.Role) (*models.WizardSession, error)
	Review(ctx context.Context, id string) (*ReviewSummary, error)
	Confirm(ctx context.Context, sess *models.Session, id, remark string) (*models.Booking, error)
	Abandon(ctx context.Context, id string) error
}

// DefaultWizardService is the Redis-backed WizardService.
type DefaultWizardService struct {
	Bookings bookingRepo.BookingRepository
	Cache    *redis.Client
	Logger   *zap.Logger
}

// NewWizardService wires a wizard service over the booking repository and the
// cache Redis instance.
func NewWizardService(bookings bookingRepo.BookingRepository, cache *redis.Client, logger *zap.Logger) *DefaultWizardService {
	return &DefaultWizardService{Bookings: bookings, Cache: cache, Logger: logger}
}

func (s *DefaultWizardService) Start(ctx context.Context) (*models.WizardSession, error) {
	state := &models.WizardSession{
		ID:        uuid.NewString(),
		Mode:      models.WizardModeCreate,
		ActiveTab: models.TabCustomer,
		Items:     []models.BookingLine{},
	}
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *DefaultWizardService) StartEdit(ctx context.Context, sess *models.Session, bookingID int64) (*models.WizardSession, error) {
	original, err := s.Bookings.GetByID(ctx, sess.Access, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking %d: %w", bookingID, err)
	}

	state := &models.WizardSession{
		ID:             uuid.NewString(),
		Mode:           models.WizardModeEdit,
		BookingID:      original.ID,
		ActiveTab:      models.TabCustomer,
		Customer:       original.UserDetail,
		Address:        original.AddressDetail,
		Items:          linesFromItems(original.Items),
		ScheduledDate:  original.ScheduledDate,
		ScheduledSlot:  original.ScheduledTimeSlot,
		AdminDiscount:  amountOf(original.AdminDiscount),
		CouponDiscount: amountOf(original.CouponDiscount),
		Original:       original,
	}
	if lockedStatuses[original.Status] {
		state.ActiveTab = models.TabReview
	}
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *DefaultWizardService) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	return s.load(ctx, id)
}

func (s *DefaultWizardService) SetTab(ctx context.Context, id string, tab int) (*models.WizardSession, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if tab < models.TabCustomer || tab > models.TabReview {
		return nil, ErrInvalidTab
	}
	if s.locked(state) && tab != models.TabReview {
		return nil, ErrLockedBooking
	}
	// Forward movement is gated cumulatively; going back is always free.
	if tab > models.TabCustomer && !customerComplete(state) {
		return nil, ErrIncompleteCustomer
	}
	if tab > models.TabDetails && !detailsComplete(state) {
		return nil, ErrIncompleteDetails
	}
	state.ActiveTab = tab
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *DefaultWizardService) SelectCustomer(ctx context.Context, id string, customer models.Customer) (*models.WizardSession, error) {
	return s.mutate(ctx, id, func(state *models.WizardSession) error {
		if state.Customer != nil && state.Customer.ID != customer.ID {
			// Switching customers orphans patients and addresses.
			state.Address = nil
			state.Items = []models.BookingLine{}
		}
		state.Customer = &customer
		return nil
	})
}

func (s *DefaultWizardService) SelectAddress(ctx context.Context, id string, address models.Address) (*models.WizardSession, error) {
	return s.mutate(ctx, id, func(state *models.WizardSession) error {
		if state.Customer == nil {
			return ErrIncompleteCustomer
		}
		if address.User != 0 && address.User != state.Customer.ID {
			return ErrIncompleteCustomer
		}
		state.Address = &address
		return nil
	})
}

func (s *DefaultWizardService) AddItems(ctx context.Context, id, itemType string, product models.ProductRef, patients []models.Patient) (*models.WizardSession, error) {
	return s.mutate(ctx, id, func(state *models.WizardSession) error {
		if state.Customer == nil {
			return ErrIncompleteCustomer
		}
		nextID := time.Now().UnixNano()
		for _, patient := range patients {
			if patient.User != state.Customer.ID {
				return ErrPatientNotOwned
			}
			p := patient
			state.Items = append(state.Items, models.BookingLine{
				ID:         nextID,
				Patient:    &p,
				ItemType:   itemType,
				Item:       product,
				Price:      product.Price,
				OfferPrice: product.OfferPrice,
			})
			nextID++
		}
		return nil
	})
}

func (s *DefaultWizardService) RemoveItem(ctx context.Context, id string, lineID int64) (*models.WizardSession, error) {
	return s.mutate(ctx, id, func(state *models.WizardSession) error {
		kept := state.Items[:0]
		for _, line := range state.Items {
			if line.ID != lineID {
				kept = append(kept, line)
			}
		}
		state.Items = kept
		return nil
	})
}

func (s *DefaultWizardService) SetSchedule(ctx context.Context, id, date, slot string) (*models.WizardSession, error) {
	return s.mutate(ctx, id, func(state *models.WizardSession) error {
		now := time.Now()
		if !ValidScheduleDate(date, now) {
			return ErrInvalidScheduleDate
		}
		if !ValidSlot(slot) {
			return ErrInvalidSlot
		}
		if date == now.Format(DateLayout) && IsSlotExpired(slot, now) {
			return ErrInvalidSlot
		}
		state.ScheduledDate = date
		state.ScheduledSlot = slot
		return nil
	})
}

// SetDiscounts is the one mutation a locked edit session still admits:
// downstream of sample collection the booking's contents are frozen, but
// discount adjustment plus confirm stays open. It therefore loads and saves
// directly instead of going through mutate's locked guard.
func (s *DefaultWizardService) SetDiscounts(ctx context.Context, id string, admin, coupon decimal.Decimal, role *models.Role) (*models.WizardSession, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin.IsZero() {
		quote := ComputeQuote(state.Mode, state.Items, decimal.Zero, decimal.Zero)
		limit := MaxAdminDiscount(role, quote.OfferTotal)
		if !admin.IsPositive() || admin.GreaterThan(limit) {
			return nil, ErrDiscountOutOfBounds
		}
	}
	if coupon.IsNegative() {
		return nil, ErrDiscountOutOfBounds
	}
	state.AdminDiscount = admin
	state.CouponDiscount = coupon
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *DefaultWizardService) Review(ctx context.Context, id string) (*ReviewSummary, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	quote := ComputeQuote(state.Mode, state.Items, state.AdminDiscount, state.CouponDiscount)
	summary := &ReviewSummary{Session: state, Quote: quote}
	if state.Mode == models.WizardModeEdit && state.Original != nil {
		changes := DetectChanges(state.Original, state, quote)
		summary.Changes = &changes
	}
	return summary, nil
}

func (s *DefaultWizardService) Confirm(ctx context.Context, sess *models.Session, id, remark string) (*models.Booking, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	quote := ComputeQuote(state.Mode, state.Items, state.AdminDiscount, state.CouponDiscount)

	if state.Mode == models.WizardModeEdit {
		if state.Original == nil {
			return nil, ErrSessionNotFound
		}
		changes := DetectChanges(state.Original, state, quote)
		if changes.NothingChanged() {
			return nil, ErrNoChanges
		}
		payload, err := BuildBulkUpdate(state, changes, remark)
		if err != nil {
			return nil, err
		}
		if err := s.Bookings.BulkUpdate(ctx, sess.Access, state.BookingID, payload); err != nil {
			return nil, err
		}
		s.Logger.Info("booking updated from wizard",
			zap.Int64("bookingID", state.BookingID),
			zap.Any("actions", payload["actions"]))
		_ = s.Abandon(ctx, id)
		return s.Bookings.GetByID(ctx, sess.Access, state.BookingID)
	}

	if !customerComplete(state) {
		return nil, ErrIncompleteCustomer
	}
	if !detailsComplete(state) {
		return nil, ErrIncompleteDetails
	}
	created, err := s.Bookings.Create(ctx, sess.Access, BuildCreatePayload(state, quote))
	if err != nil {
		return nil, err
	}
	s.Logger.Info("booking created from wizard",
		zap.Int64("bookingID", created.ID),
		zap.String("finalAmount", quote.FinalAmount.String()))
	_ = s.Abandon(ctx, id)
	return created, nil
}

func (s *DefaultWizardService) Abandon(ctx context.Context, id string) error {
	return s.Cache.Del(ctx, utils.WizardPrefix+id).Err()
}

func (s *DefaultWizardService) locked(state *models.WizardSession) bool {
	return state.Mode == models.WizardModeEdit && state.Original != nil && lockedStatuses[state.Original.Status]
}

func customerComplete(state *models.WizardSession) bool {
	return state.Customer != nil && state.Address != nil
}

func detailsComplete(state *models.WizardSession) bool {
	return len(state.Items) > 0 &&
		strings.TrimSpace(state.ScheduledDate) != "" &&
		strings.TrimSpace(state.ScheduledSlot) != ""
}

func (s *DefaultWizardService) mutate(ctx context.Context, id string, fn func(*models.WizardSession) error) (*models.WizardSession, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.locked(state) {
		return nil, ErrLockedBooking
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *DefaultWizardService) save(ctx context.Context, state *models.WizardSession) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal wizard session: %w", err)
	}
	if err := s.Cache.Set(ctx, utils.WizardPrefix+state.ID, data, utils.WizardTTL).Err(); err != nil {
		return fmt.Errorf("store wizard session: %w", err)
	}
	return nil
}

func (s *DefaultWizardService) load(ctx context.Context, id string) (*models.WizardSession, error) {
	data, err := s.Cache.Get(ctx, utils.WizardPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch wizard session: %w", err)
	}
	var state models.WizardSession
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decode wizard session: %w", err)
	}
	return &state, nil
}

// linesFromItems converts persisted booking items into wizard lines, keeping
// their server ids so the diff can tell kept from added.
func linesFromItems(items []models.BookingItem) []models.BookingLine {
	lines := make([]models.BookingLine, 0, len(items))
	for _, item := range items {
		line := models.BookingLine{
			ID:         item.ID,
			Patient:    item.PatientDetail,
			Price:      item.BasePrice,
			OfferPrice: item.OfferPrice,
		}
		switch {
		case item.LabTestDetail != nil:
			line.ItemType = models.ItemTypeLabTest
			line.Item = models.ProductRef{
				ID:         item.LabTestDetail.ID,
				Name:       item.LabTestDetail.Name,
				Price:      item.LabTestDetail.Price,
				OfferPrice: item.LabTestDetail.OfferPrice,
			}
		case item.PackageDetail != nil:
			line.ItemType = models.ItemTypeLabPackage
			line.Item = models.ProductRef{
				ID:         item.PackageDetail.ID,
				Name:       item.PackageDetail.Name,
				Price:      item.PackageDetail.Price,
				OfferPrice: item.PackageDetail.OfferPrice,
			}
		}
		lines = append(lines, line)
	}
	return lines
}
