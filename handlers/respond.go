package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"labcrm/backend"
	"labcrm/middleware"
	"labcrm/models"
	bookingSvc "labcrm/services/booking"
	sessionSvc "labcrm/services/session"
	"labcrm/utils"
)

// sessionFrom pulls the authenticated session the middleware resolved.
func sessionFrom(c *gin.Context) *models.Session {
	val, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil
	}
	sess, ok := val.(*models.Session)
	if !ok {
		return nil
	}
	return sess
}

// respondError maps service and backend errors onto HTTP responses. A 401
// from the backend wipes the console session before replying: the UI then
// drops to the login screen, same as an explicit logout.
func respondError(c *gin.Context, sessions sessionSvc.Service, err error) {
	if errors.Is(err, backend.ErrUnauthorized) {
		if id := c.GetString(middleware.ContextSessionIDKey); id != "" && sessions != nil {
			_ = sessions.Invalidate(c.Request.Context(), id)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired", "code": "session_expired"})
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}

	switch {
	case errors.Is(err, sessionSvc.ErrSessionNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, bookingSvc.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, bookingSvc.ErrNotAllowed),
		errors.Is(err, bookingSvc.ErrLockedBooking):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, bookingSvc.ErrInvalidTab),
		errors.Is(err, bookingSvc.ErrIncompleteCustomer),
		errors.Is(err, bookingSvc.ErrIncompleteDetails),
		errors.Is(err, bookingSvc.ErrPatientNotOwned),
		errors.Is(err, bookingSvc.ErrInvalidScheduleDate),
		errors.Is(err, bookingSvc.ErrInvalidSlot),
		errors.Is(err, bookingSvc.ErrDiscountOutOfBounds),
		errors.Is(err, bookingSvc.ErrNoChanges),
		errors.Is(err, bookingSvc.ErrRemarkRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}
