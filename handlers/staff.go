package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	bookingRepo "labcrm/backend/booking"
	staffRepo "labcrm/backend/staff"
	sessionSvc "labcrm/services/session"
	"labcrm/utils"
)

// StaffHandler serves agent lookup, role settings, notifications and the
// dashboard.
type StaffHandler struct {
	Staff    staffRepo.StaffRepository
	Bookings bookingRepo.BookingRepository
	Sessions sessionSvc.Service
	Cache    *redis.Client
}

// NewStaffHandler builds the staff handler.
func NewStaffHandler(staff staffRepo.StaffRepository, bookings bookingRepo.BookingRepository, sessions sessionSvc.Service, cache *redis.Client) *StaffHandler {
	return &StaffHandler{Staff: staff, Bookings: bookings, Sessions: sessions, Cache: cache}
}

// SearchAgentsHandler finds staff users for agent assignment.
func (h *StaffHandler) SearchAgentsHandler(c *gin.Context) {
	sess := sessionFrom(c)
	agents, err := h.Staff.SearchAgents(c.Request.Context(), sess.Access, c.Query("search"))
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": agents})
}

// ListRolesHandler lists configured roles for the settings page.
func (h *StaffHandler) ListRolesHandler(c *gin.Context) {
	sess := sessionFrom(c)
	roles, err := h.Staff.Roles(c.Request.Context(), sess.Access)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": roles})
}

// UpdateRoleHandler patches a role's permissions or discount bounds.
func (h *StaffHandler) UpdateRoleHandler(c *gin.Context) {
	sess := sessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role id"})
		return
	}
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	role, err := h.Staff.UpdateRole(c.Request.Context(), sess.Access, id, payload)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// DashboardHandler returns the backend's stats document plus the recent
// action feed. Stats are cached briefly in Redis; every operator sees the
// same dashboard, so one backend call a minute is enough.
func (h *StaffHandler) DashboardHandler(c *gin.Context) {
	sess := sessionFrom(c)
	ctx := c.Request.Context()

	var stats json.RawMessage
	if cached, err := h.Cache.Get(ctx, utils.StatsCacheKey).Result(); err == nil {
		stats = json.RawMessage(cached)
	} else {
		fresh, err := h.Staff.DashboardStats(ctx, sess.Access, nil)
		if err != nil {
			respondError(c, h.Sessions, err)
			return
		}
		stats = fresh
		_ = h.Cache.Set(ctx, utils.StatsCacheKey, []byte(fresh), utils.StatsCacheTTL).Err()
	}

	recent, err := h.Bookings.RecentActions(ctx, sess.Access, 10)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "recentActions": recent})
}

// ListNotificationsHandler pages through delivered notifications.
func (h *StaffHandler) ListNotificationsHandler(c *gin.Context) {
	sess := sessionFrom(c)
	page, _ := strconv.Atoi(c.Query("page"))
	notifications, total, err := h.Staff.Notifications(c.Request.Context(), sess.Access, page)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": notifications, "count": total})
}
