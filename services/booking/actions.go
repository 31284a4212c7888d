package booking

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	bookingRepo "labcrm/backend/booking"
	"labcrm/models"
)

// Document types the drawer can attach.
const (
	DocTypeCashReceipt  = "cash_receipt"
	DocTypeLabReport    = "lab_report"
	DocTypePrescription = "prescription"
	DocTypeOther        = "other"
)

// PaymentMethodCash is the one payment method collected in person; it ships
// as multipart so a proof photo can ride along.
const PaymentMethodCash = "cash"

// DrawerAction is one operator intent from the booking action drawer. Every
// variant carries only its own fields; the shared remark travels separately
// because it is mandatory for all of them.
type DrawerAction interface {
	Type() ActionType
}

// UpdateStatus proposes a workflow transition.
type UpdateStatus struct {
	To string
}

func (UpdateStatus) Type() ActionType { return ActionUpdateStatus }

// UpdateAgent reassigns the booking to a staff user.
type UpdateAgent struct {
	AgentID int64
}

func (UpdateAgent) Type() ActionType { return ActionUpdateAgent }

// UpdatePayment records a payment. Cash payments may attach a proof image.
type UpdatePayment struct {
	Method    string
	ProofName string
	Proof     io.Reader
}

func (UpdatePayment) Type() ActionType { return ActionUpdatePayment }

// UploadDocument attaches a file to the booking.
type UploadDocument struct {
	Name     string
	DocType  string
	FileName string
	File     io.Reader
}

func (UploadDocument) Type() ActionType { return ActionUploadDocument }

// AddRemark annotates the booking with the remark alone.
type AddRemark struct{}

func (AddRemark) Type() ActionType { return ActionAddRemark }

// DrawerService validates and applies drawer actions against the backend.
type DrawerService interface {
	Apply(ctx context.Context, sess *models.Session, booking *models.Booking, action DrawerAction, remark string) error
}

// DefaultDrawerService is the standard DrawerService.
type DefaultDrawerService struct {
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
}

// NewDrawerService wires a drawer service over the booking repository.
func NewDrawerService(bookings bookingRepo.BookingRepository, logger *zap.Logger) *DefaultDrawerService {
	return &DefaultDrawerService{Bookings: bookings, Logger: logger}
}

// Apply runs one drawer action. The remark is required for every action type;
// authorization is checked against the caller's role and the booking's
// current status before anything leaves the process.
func (s *DefaultDrawerService) Apply(ctx context.Context, sess *models.Session, booking *models.Booking, action DrawerAction, remark string) error {
	remark = strings.TrimSpace(remark)
	if remark == "" {
		return ErrRemarkRequired
	}

	role := sess.User.RoleName()
	if sess.User.IsAdmin() {
		role = models.RoleAdmin
	}
	if !CanApply(role, booking.Status, action.Type()) {
		return ErrNotAllowed
	}

	switch a := action.(type) {
	case UpdateStatus:
		if !CanTransition(role, booking.Status, a.To) {
			return ErrNotAllowed
		}
		return s.apply(ctx, sess, booking, map[string]interface{}{
			"action_type": string(ActionUpdateStatus),
			"status":      a.To,
			"remarks":     remark,
		})

	case UpdateAgent:
		return s.apply(ctx, sess, booking, map[string]interface{}{
			"action_type":    string(ActionUpdateAgent),
			"assigned_users": []int64{a.AgentID},
			"remarks":        remark,
		})

	case UpdatePayment:
		if a.Method == PaymentMethodCash {
			fields := map[string]string{
				"action_type":    string(ActionUpdatePayment),
				"payment_method": PaymentMethodCash,
				"payment_status": models.PaymentSuccess,
				"remarks":        remark,
			}
			return s.Bookings.ApplyMultipart(ctx, sess.Access, booking.ID, fields, a.ProofName, a.Proof)
		}
		return s.apply(ctx, sess, booking, map[string]interface{}{
			"action_type":    string(ActionUpdatePayment),
			"payment_method": a.Method,
			"remarks":        remark,
		})

	case UploadDocument:
		fields := map[string]string{
			"booking":  strconv.FormatInt(booking.ID, 10),
			"name":     a.Name,
			"doc_type": a.DocType,
			"remarks":  remark,
		}
		return s.Bookings.UploadDocument(ctx, sess.Access, fields, a.FileName, a.File)

	case AddRemark:
		return s.apply(ctx, sess, booking, map[string]interface{}{
			"action_type": string(ActionAddRemark),
			"remarks":     remark,
		})
	}

	return fmt.Errorf("unknown drawer action %q", action.Type())
}

func (s *DefaultDrawerService) apply(ctx context.Context, sess *models.Session, booking *models.Booking, payload map[string]interface{}) error {
	if err := s.Bookings.Apply(ctx, sess.Access, booking.ID, payload); err != nil {
		return err
	}
	s.Logger.Info("drawer action applied",
		zap.Int64("bookingID", booking.ID),
		zap.Any("actionType", payload["action_type"]),
		zap.String("role", sess.User.RoleName()))
	return nil
}
