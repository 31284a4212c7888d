package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"labcrm/models"
	bookingSvc "labcrm/services/booking"
	sessionSvc "labcrm/services/session"
)

// WizardHandler drives the booking create/edit wizard over HTTP. Every
// mutation returns the refreshed session plus a recomputed quote so the UI
// never carries derived money state of its own.
type WizardHandler struct {
	Wizard   bookingSvc.WizardService
	Sessions sessionSvc.Service
}

// NewWizardHandler builds the wizard handler.
func NewWizardHandler(wizard bookingSvc.WizardService, sessions sessionSvc.Service) *WizardHandler {
	return &WizardHandler{Wizard: wizard, Sessions: sessions}
}

// StartWizardHandler opens a wizard session: create mode with an empty body,
// edit mode when a bookingId is given.
func (h *WizardHandler) StartWizardHandler(c *gin.Context) {
	sess := sessionFrom(c)
	var input struct {
		BookingID int64 `json:"bookingId"`
	}
	_ = c.ShouldBindJSON(&input)

	var (
		state *models.WizardSession
		err   error
	)
	if input.BookingID > 0 {
		state, err = h.Wizard.StartEdit(c.Request.Context(), sess, input.BookingID)
	} else {
		state, err = h.Wizard.Start(c.Request.Context())
	}
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	h.respondState(c, state)
}

// GetWizardHandler returns the current session state.
func (h *WizardHandler) GetWizardHandler(c *gin.Context) {
	state, err := h.Wizard.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	h.respondState(c, state)
}

// SetTabHandler moves between wizard tabs, enforcing the forward gates.
func (h *WizardHandler) SetTabHandler(c *gin.Context) {
	var input struct {
		Tab int `json:"tab"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	state, err := h.Wizard.SetTab(c.Request.Context(), c.Param("id"), input.Tab)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	h.respondState(c, state)
}

// SelectCustomerHandler picks the booking owner.
func (h *WizardHandler) SelectCustomerHandler(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	state, err := h.Wizard.SelectCustomer(c.Request.Context(), c.Param("id"), customer)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	h.respondState(c, state)
}

// SelectAddressHandler picks the collection address.
func (h *WizardHandler) SelectAddressHandler(c *gin.Context) {
	var address models.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	state, err := h.Wizard.SelectAddress(c.Request.Context(), c.Param("id"), address)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	h.respondState(c, state)
}

// AddItemsHandler appends one line per selected patient for a product.
func (h *WizardHandler) AddItemsHandler(c *gin.Context) {
	var input struct {
		ItemType string            `json:"itemType" binding:"required"`
		Product  models.ProductRef `json:"product" binding:"required"`
		Patients []models.Patient  `json:"patients" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	state, err := h.Wizard.AddItems(c.Request.Context(), c.Param("id"), input.ItemType, input.Product, input.Patients)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	h.respondState(c, state)
}

// RemoveItemHandler drops one line.
func (h *WizardHandler) RemoveItemHandler(c *gin.Context) {
	lineID, err := strconv.ParseInt(c.Param("lineID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line id"})
		return
	}
	state, err := h.Wizard.RemoveItem(c.Request.Context(), c.Param("id"), lineID)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	h.respondState(c, state)
}

// SetScheduleHandler sets the collection date and slot.
func (h *WizardHandler) SetScheduleHandler(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"`
		Slot string `json:"slot" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	state, err := h.Wizard.SetSchedule(c.Request.Context(), c.Param("id"), input.Date, input.Slot)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	h.respondState(c, state)
}

// SlotOptionsHandler lists the fixed slots for a date, with past starts
// disabled when the date is today.
func (h *WizardHandler) SlotOptionsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format(bookingSvc.DateLayout)
	}
	c.JSON(http.StatusOK, gin.H{"slots": bookingSvc.SlotOptions(date, time.Now())})
}

// SetDiscountsHandler applies admin and coupon discounts, bounded by the
// caller's role.
func (h *WizardHandler) SetDiscountsHandler(c *gin.Context) {
	sess := sessionFrom(c)
	var input struct {
		AdminDiscount  decimal.Decimal `json:"adminDiscount"`
		CouponDiscount decimal.Decimal `json:"couponDiscount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	state, err := h.Wizard.SetDiscounts(c.Request.Context(), c.Param("id"), input.AdminDiscount, input.CouponDiscount, sess.User.Role)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	h.respondState(c, state)
}

// ReviewHandler returns the review summary: quote plus, in edit mode, the
// change set.
func (h *WizardHandler) ReviewHandler(c *gin.Context) {
	summary, err := h.Wizard.Review(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ConfirmHandler submits the wizard: POST for create sessions, bulk-update
// PATCH for edit sessions.
func (h *WizardHandler) ConfirmHandler(c *gin.Context) {
	sess := sessionFrom(c)
	var input struct {
		Remark string `json:"remark"`
	}
	_ = c.ShouldBindJSON(&input)

	booking, err := h.Wizard.Confirm(c.Request.Context(), sess, c.Param("id"), input.Remark)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// AbandonHandler discards the wizard session.
func (h *WizardHandler) AbandonHandler(c *gin.Context) {
	if err := h.Wizard.Abandon(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session discarded"})
}

func (h *WizardHandler) respondState(c *gin.Context, state *models.WizardSession) {
	quote := bookingSvc.ComputeQuote(state.Mode, state.Items, state.AdminDiscount, state.CouponDiscount)
	c.JSON(http.StatusOK, gin.H{"session": state, "quote": quote})
}
