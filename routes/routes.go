package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"labcrm/config"
	"labcrm/handlers"
	"labcrm/middleware"
	sessionSvc "labcrm/services/session"
)

// RegisterAuthRoutes registers the OTP login flow and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle, sessions sessionSvc.Service) {
	api := r.Group("/api/auth")
	{
		api.POST("/send-otp", hb.Auth.SendOTPHandler)
		api.POST("/verify-otp", hb.Auth.VerifyOTPHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.SessionAuthMiddleware(sessions))
		api.GET("/me", hb.Auth.MeHandler)
		api.POST("/logout", hb.Auth.LogoutHandler)
	}
}

// RegisterBookingRoutes sets up the bookings list, detail and action drawer.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, sessions sessionSvc.Service) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.SessionAuthMiddleware(sessions))
		api.GET("", hb.Booking.ListBookingsHandler)
		api.GET("/:id", hb.Booking.GetBookingHandler)
		api.GET("/:id/documents", hb.Booking.BookingDocumentsHandler)
		api.GET("/:id/payments", hb.Booking.BookingPaymentsHandler)
		api.GET("/:id/history", hb.Booking.BookingHistoryHandler)
		api.POST("/:id/actions", hb.Booking.DrawerActionHandler)
	}
}

// RegisterWizardRoutes sets up the booking create/edit wizard.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle, sessions sessionSvc.Service) {
	r.GET("/api/slots", middleware.SessionAuthMiddleware(sessions), hb.Wizard.SlotOptionsHandler)

	api := r.Group("/api/wizard")
	{
		api.Use(middleware.SessionAuthMiddleware(sessions))
		api.POST("", hb.Wizard.StartWizardHandler)
		api.GET("/:id", hb.Wizard.GetWizardHandler)
		api.PUT("/:id/tab", hb.Wizard.SetTabHandler)
		api.PUT("/:id/customer", hb.Wizard.SelectCustomerHandler)
		api.PUT("/:id/address", hb.Wizard.SelectAddressHandler)
		api.POST("/:id/items", hb.Wizard.AddItemsHandler)
		api.DELETE("/:id/items/:lineID", hb.Wizard.RemoveItemHandler)
		api.PUT("/:id/schedule", hb.Wizard.SetScheduleHandler)
		api.PUT("/:id/discounts", hb.Wizard.SetDiscountsHandler)
		api.GET("/:id/review", hb.Wizard.ReviewHandler)
		api.POST("/:id/confirm", hb.Wizard.ConfirmHandler)
		api.DELETE("/:id", hb.Wizard.AbandonHandler)
	}
}

// RegisterCustomerRoutes sets up customers, patients, addresses and
// enquiries.
func RegisterCustomerRoutes(r *gin.Engine, hb *handlers.HandlerBundle, sessions sessionSvc.Service) {
	api := r.Group("/api/customers")
	{
		api.Use(middleware.SessionAuthMiddleware(sessions))
		api.GET("", hb.Customer.SearchCustomersHandler)
		api.POST("", hb.Customer.CreateCustomerHandler)
		api.GET("/:id", hb.Customer.GetCustomerHandler)
		api.PATCH("/:id", hb.Customer.UpdateCustomerHandler)
		api.GET("/:id/patients", hb.Customer.ListPatientsHandler)
		api.GET("/:id/addresses", hb.Customer.ListAddressesHandler)
		api.PATCH("/:id/addresses/:addressID", hb.Customer.UpdateAddressHandler)
	}

	r.POST("/api/patients", middleware.SessionAuthMiddleware(sessions), hb.Customer.CreatePatientHandler)
	r.PATCH("/api/patients/:id", middleware.SessionAuthMiddleware(sessions), hb.Customer.UpdatePatientHandler)
	r.POST("/api/addresses", middleware.SessionAuthMiddleware(sessions), hb.Customer.CreateAddressHandler)
	r.GET("/api/locations", middleware.SessionAuthMiddleware(sessions), hb.Customer.SearchLocationsHandler)

	enquiries := r.Group("/api/enquiries")
	{
		enquiries.Use(middleware.SessionAuthMiddleware(sessions))
		enquiries.GET("", hb.Customer.ListEnquiriesHandler)
		enquiries.POST("/:id/convert", hb.Customer.ConvertEnquiryHandler)
	}
}

// RegisterCatalogRoutes sets up catalog browsing and content management.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle, sessions sessionSvc.Service) {
	api := r.Group("/api/catalog")
	{
		api.Use(middleware.SessionAuthMiddleware(sessions))
		api.GET("/lab-tests", hb.Catalog.ListLabTestsHandler)
		api.POST("/lab-tests", hb.Catalog.CreateLabTestHandler)
		api.PATCH("/lab-tests/:id", hb.Catalog.UpdateLabTestHandler)
		api.GET("/lab-packages", hb.Catalog.ListLabPackagesHandler)
		api.POST("/lab-packages", hb.Catalog.CreateLabPackageHandler)
		api.PATCH("/lab-packages/:id", hb.Catalog.UpdateLabPackageHandler)
		api.GET("/categories", hb.Catalog.ListCategoriesHandler)
	}
}

// RegisterStaffRoutes sets up agents, role settings, notifications and the
// dashboard.
func RegisterStaffRoutes(r *gin.Engine, hb *handlers.HandlerBundle, sessions sessionSvc.Service) {
	api := r.Group("/api")
	{
		api.Use(middleware.SessionAuthMiddleware(sessions))
		api.GET("/agents", hb.Staff.SearchAgentsHandler)
		api.GET("/settings/roles", hb.Staff.ListRolesHandler)
		api.PATCH("/settings/roles/:id", hb.Staff.UpdateRoleHandler)
		api.GET("/dashboard", hb.Staff.DashboardHandler)
		api.GET("/notifications", hb.Staff.ListNotificationsHandler)
	}
}

// RegisterSearchRoutes sets up the debounced typeahead proxies.
func RegisterSearchRoutes(r *gin.Engine, hb *handlers.HandlerBundle, sessions sessionSvc.Service) {
	api := r.Group("/api/search")
	{
		api.Use(middleware.SessionAuthMiddleware(sessions))
		api.GET("/customers", hb.Search.SearchCustomersHandler)
		api.GET("/agents", hb.Search.SearchAgentsHandler)
		api.GET("/products", hb.Search.SearchProductsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, sessions sessionSvc.Service) {
	origins := config.AppConfig.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb, sessions)
	RegisterBookingRoutes(r, hb, sessions)
	RegisterWizardRoutes(r, hb, sessions)
	RegisterCustomerRoutes(r, hb, sessions)
	RegisterCatalogRoutes(r, hb, sessions)
	RegisterStaffRoutes(r, hb, sessions)
	RegisterSearchRoutes(r, hb, sessions)
	RegisterHealthRoute(r)
}
