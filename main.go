// File: labcrm/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"labcrm/backend"
	bookingRepoPkg "labcrm/backend/booking"
	catalogRepoPkg "labcrm/backend/catalog"
	customerRepoPkg "labcrm/backend/customer"
	staffRepoPkg "labcrm/backend/staff"
	"labcrm/config"
	"labcrm/handlers"
	"labcrm/middleware"
	"labcrm/routes"
	bookingSvc "labcrm/services/booking"
	sessionSvc "labcrm/services/session"
	"labcrm/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionStore()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// Backend client and repositories.
	client := backend.NewClient(config.AppConfig.BackendBaseURL, logger)
	bookingRepo := bookingRepoPkg.NewRESTBookingRepo(client)
	customerRepo := customerRepoPkg.NewRESTCustomerRepo(client)
	catalogRepo := catalogRepoPkg.NewRESTCatalogRepo(client)
	staffRepo := staffRepoPkg.NewRESTStaffRepo(client)

	// Services.
	sessionService := sessionSvc.NewService(client, utils.GetSessionClient(), logger)
	wizardService := bookingSvc.NewWizardService(bookingRepo, utils.GetCacheClient(), logger)
	drawerService := bookingSvc.NewDrawerService(bookingRepo, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:     handlers.NewAuthHandler(sessionService),
		Booking:  handlers.NewBookingHandler(bookingRepo, drawerService, sessionService),
		Wizard:   handlers.NewWizardHandler(wizardService, sessionService),
		Customer: handlers.NewCustomerHandler(customerRepo, sessionService),
		Catalog:  handlers.NewCatalogHandler(catalogRepo, sessionService),
		Staff:    handlers.NewStaffHandler(staffRepo, bookingRepo, sessionService, utils.GetCacheClient()),
		Search:   handlers.NewSearchHandler(customerRepo, staffRepo, catalogRepo, sessionService),
	}

	routes.RegisterRoutes(router, handlerBundle, sessionService)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
