package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	customerRepo "labcrm/backend/customer"
	sessionSvc "labcrm/services/session"
)

// CustomerHandler serves customers, their patients and addresses, and the
// enquiry inbox.
type CustomerHandler struct {
	Customers customerRepo.CustomerRepository
	Sessions  sessionSvc.Service
}

// NewCustomerHandler builds the customer handler.
func NewCustomerHandler(customers customerRepo.CustomerRepository, sessions sessionSvc.Service) *CustomerHandler {
	return &CustomerHandler{Customers: customers, Sessions: sessions}
}

// SearchCustomersHandler finds customers by name or mobile.
func (h *CustomerHandler) SearchCustomersHandler(c *gin.Context) {
	sess := sessionFrom(c)
	page, _ := strconv.Atoi(c.Query("page"))
	customers, total, err := h.Customers.Search(c.Request.Context(), sess.Access, c.Query("search"), page)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": customers, "count": total})
}

// GetCustomerHandler returns one customer.
func (h *CustomerHandler) GetCustomerHandler(c *gin.Context) {
	sess := sessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}
	customer, err := h.Customers.GetByID(c.Request.Context(), sess.Access, id)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// CreateCustomerHandler registers a customer from the console.
func (h *CustomerHandler) CreateCustomerHandler(c *gin.Context) {
	h.mutate(c, func(token string, payload map[string]interface{}) (interface{}, error) {
		return h.Customers.Create(c.Request.Context(), token, payload)
	})
}

// UpdateCustomerHandler patches a customer.
func (h *CustomerHandler) UpdateCustomerHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}
	h.mutate(c, func(token string, payload map[string]interface{}) (interface{}, error) {
		return h.Customers.Update(c.Request.Context(), token, id, payload)
	})
}

// ListPatientsHandler lists the patients under a customer.
func (h *CustomerHandler) ListPatientsHandler(c *gin.Context) {
	sess := sessionFrom(c)
	customerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}
	patients, err := h.Customers.Patients(c.Request.Context(), sess.Access, customerID)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": patients})
}

// CreatePatientHandler adds a dependent profile.
func (h *CustomerHandler) CreatePatientHandler(c *gin.Context) {
	h.mutate(c, func(token string, payload map[string]interface{}) (interface{}, error) {
		return h.Customers.CreatePatient(c.Request.Context(), token, payload)
	})
}

// UpdatePatientHandler patches a dependent profile.
func (h *CustomerHandler) UpdatePatientHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid patient id"})
		return
	}
	h.mutate(c, func(token string, payload map[string]interface{}) (interface{}, error) {
		return h.Customers.UpdatePatient(c.Request.Context(), token, id, payload)
	})
}

// ListAddressesHandler lists a customer's addresses.
func (h *CustomerHandler) ListAddressesHandler(c *gin.Context) {
	sess := sessionFrom(c)
	customerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}
	addresses, err := h.Customers.Addresses(c.Request.Context(), sess.Access, customerID)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": addresses})
}

// CreateAddressHandler adds an address.
func (h *CustomerHandler) CreateAddressHandler(c *gin.Context) {
	h.mutate(c, func(token string, payload map[string]interface{}) (interface{}, error) {
		return h.Customers.CreateAddress(c.Request.Context(), token, payload)
	})
}

// UpdateAddressHandler patches an address, including the default flag.
func (h *CustomerHandler) UpdateAddressHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("addressID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return
	}
	h.mutate(c, func(token string, payload map[string]interface{}) (interface{}, error) {
		return h.Customers.UpdateAddress(c.Request.Context(), token, id, payload)
	})
}

// SearchLocationsHandler finds city/state/pincode entries for address forms.
func (h *CustomerHandler) SearchLocationsHandler(c *gin.Context) {
	sess := sessionFrom(c)
	locations, err := h.Customers.SearchLocations(c.Request.Context(), sess.Access, c.Query("search"))
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": locations})
}

// ListEnquiriesHandler pages through the enquiry inbox.
func (h *CustomerHandler) ListEnquiriesHandler(c *gin.Context) {
	sess := sessionFrom(c)
	page, _ := strconv.Atoi(c.Query("page"))
	enquiries, total, err := h.Customers.Enquiries(c.Request.Context(), sess.Access, page)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": enquiries, "count": total})
}

// ConvertEnquiryHandler promotes an enquiry into a registered customer.
func (h *CustomerHandler) ConvertEnquiryHandler(c *gin.Context) {
	sess := sessionFrom(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid enquiry id"})
		return
	}
	customer, err := h.Customers.ConvertEnquiry(c.Request.Context(), sess.Access, id)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

func (h *CustomerHandler) mutate(c *gin.Context, apply func(token string, payload map[string]interface{}) (interface{}, error)) {
	sess := sessionFrom(c)
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	result, err := apply(sess.Access, payload)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
