package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	bookingRepo "labcrm/backend/booking"
	"labcrm/models"
	bookingSvc "labcrm/services/booking"
	sessionSvc "labcrm/services/session"
)

// BookingHandler serves the bookings list, the detail view and the action
// drawer.
type BookingHandler struct {
	Bookings bookingRepo.BookingRepository
	Drawer   bookingSvc.DrawerService
	Sessions sessionSvc.Service
}

// NewBookingHandler builds the booking handler.
func NewBookingHandler(bookings bookingRepo.BookingRepository, drawer bookingSvc.DrawerService, sessions sessionSvc.Service) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Drawer: drawer, Sessions: sessions}
}

// ListBookingsHandler returns a filtered page of bookings.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	sess := sessionFrom(c)
	page, _ := strconv.Atoi(c.Query("page"))
	filter := bookingRepo.ListFilter{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Page:     page,
	}
	bookings, total, err := h.Bookings.List(c.Request.Context(), sess.Access, filter)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": bookings, "count": total})
}

// GetBookingHandler returns one booking along with the actions and status
// transitions the caller's role gets at its current status, so the drawer
// renders straight from this response.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	sess := sessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	booking, err := h.Bookings.GetByID(c.Request.Context(), sess.Access, id)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	role := sess.User.RoleName()
	if sess.User.IsAdmin() {
		role = models.RoleAdmin
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":       booking,
		"actions":       bookingSvc.ActionsFor(role, booking.Status),
		"statusOptions": bookingSvc.StatusOptionsFor(role, booking.Status),
	})
}

// BookingDocumentsHandler lists a booking's attached files.
func (h *BookingHandler) BookingDocumentsHandler(c *gin.Context) {
	h.listSatellite(c, func(sess string, id int64) (interface{}, error) {
		return h.Bookings.Documents(c.Request.Context(), sess, id)
	})
}

// BookingPaymentsHandler lists a booking's payment records.
func (h *BookingHandler) BookingPaymentsHandler(c *gin.Context) {
	h.listSatellite(c, func(sess string, id int64) (interface{}, error) {
		return h.Bookings.Payments(c.Request.Context(), sess, id)
	})
}

// BookingHistoryHandler lists a booking's action trail.
func (h *BookingHandler) BookingHistoryHandler(c *gin.Context) {
	h.listSatellite(c, func(sess string, id int64) (interface{}, error) {
		return h.Bookings.History(c.Request.Context(), sess, id)
	})
}

func (h *BookingHandler) listSatellite(c *gin.Context, fetch func(token string, id int64) (interface{}, error)) {
	sess := sessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	results, err := fetch(sess.Access, id)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// DrawerActionHandler applies one action from the booking drawer. JSON bodies
// cover status, agent, non-cash payment and remark; multipart carries cash
// proof and document uploads.
func (h *BookingHandler) DrawerActionHandler(c *gin.Context) {
	sess := sessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.Bookings.GetByID(c.Request.Context(), sess.Access, id)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}

	input, file, err := bindActionRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if file != nil {
		defer file.Close()
	}

	action, err := buildDrawerAction(input, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Drawer.Apply(c.Request.Context(), sess, booking, action, input.Remarks); err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "action applied"})
}

type drawerActionRequest struct {
	ActionType    string `json:"action_type" form:"action_type"`
	Status        string `json:"status" form:"status"`
	AgentID       int64  `json:"agent_id" form:"agent_id"`
	PaymentMethod string `json:"payment_method" form:"payment_method"`
	Name          string `json:"name" form:"name"`
	DocType       string `json:"doc_type" form:"doc_type"`
	Remarks       string `json:"remarks" form:"remarks"`

	fileName string
}

func bindActionRequest(c *gin.Context) (*drawerActionRequest, multipart.File, error) {
	var input drawerActionRequest
	if c.ContentType() == "multipart/form-data" {
		if err := c.ShouldBind(&input); err != nil {
			return nil, nil, err
		}
		header, err := c.FormFile("file")
		if err != nil {
			// File is optional even on multipart submissions.
			return &input, nil, nil
		}
		file, err := header.Open()
		if err != nil {
			return nil, nil, err
		}
		input.fileName = header.Filename
		return &input, file, nil
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, nil, err
	}
	return &input, nil, nil
}

func buildDrawerAction(input *drawerActionRequest, file multipart.File) (bookingSvc.DrawerAction, error) {
	switch bookingSvc.ActionType(input.ActionType) {
	case bookingSvc.ActionUpdateStatus:
		return bookingSvc.UpdateStatus{To: input.Status}, nil
	case bookingSvc.ActionUpdateAgent:
		return bookingSvc.UpdateAgent{AgentID: input.AgentID}, nil
	case bookingSvc.ActionUpdatePayment:
		action := bookingSvc.UpdatePayment{Method: input.PaymentMethod}
		if file != nil {
			action.Proof = file
			action.ProofName = input.fileName
		}
		return action, nil
	case bookingSvc.ActionUploadDocument:
		action := bookingSvc.UploadDocument{Name: input.Name, DocType: input.DocType}
		if file != nil {
			action.File = file
			action.FileName = input.fileName
		}
		return action, nil
	case bookingSvc.ActionAddRemark:
		return bookingSvc.AddRemark{}, nil
	}
	return nil, errActionType(input.ActionType)
}

type errActionType string

func (e errActionType) Error() string { return "unknown action type " + strconv.Quote(string(e)) }
