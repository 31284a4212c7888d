package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogRepo "labcrm/backend/catalog"
	sessionSvc "labcrm/services/session"
)

// CatalogHandler serves the lab test/package catalog and its content
// management endpoints.
type CatalogHandler struct {
	Catalog  catalogRepo.CatalogRepository
	Sessions sessionSvc.Service
}

// NewCatalogHandler builds the catalog handler.
func NewCatalogHandler(catalog catalogRepo.CatalogRepository, sessions sessionSvc.Service) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Sessions: sessions}
}

// ListLabTestsHandler pages through catalog tests.
func (h *CatalogHandler) ListLabTestsHandler(c *gin.Context) {
	sess := sessionFrom(c)
	page, _ := strconv.Atoi(c.Query("page"))
	tests, total, err := h.Catalog.LabTests(c.Request.Context(), sess.Access, c.Query("search"), page)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": tests, "count": total})
}

// CreateLabTestHandler adds a catalog test.
func (h *CatalogHandler) CreateLabTestHandler(c *gin.Context) {
	h.mutate(c, func(token string, payload map[string]interface{}) (interface{}, error) {
		return h.Catalog.CreateLabTest(c.Request.Context(), token, payload)
	})
}

// UpdateLabTestHandler patches a catalog test.
func (h *CatalogHandler) UpdateLabTestHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test id"})
		return
	}
	h.mutate(c, func(token string, payload map[string]interface{}) (interface{}, error) {
		return h.Catalog.UpdateLabTest(c.Request.Context(), token, id, payload)
	})
}

// ListLabPackagesHandler pages through catalog packages.
func (h *CatalogHandler) ListLabPackagesHandler(c *gin.Context) {
	sess := sessionFrom(c)
	page, _ := strconv.Atoi(c.Query("page"))
	packages, total, err := h.Catalog.LabPackages(c.Request.Context(), sess.Access, c.Query("search"), page)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": packages, "count": total})
}

// CreateLabPackageHandler adds a catalog package.
func (h *CatalogHandler) CreateLabPackageHandler(c *gin.Context) {
	h.mutate(c, func(token string, payload map[string]interface{}) (interface{}, error) {
		return h.Catalog.CreateLabPackage(c.Request.Context(), token, payload)
	})
}

// UpdateLabPackageHandler patches a catalog package.
func (h *CatalogHandler) UpdateLabPackageHandler(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid package id"})
		return
	}
	h.mutate(c, func(token string, payload map[string]interface{}) (interface{}, error) {
		return h.Catalog.UpdateLabPackage(c.Request.Context(), token, id, payload)
	})
}

// ListCategoriesHandler lists product categories.
func (h *CatalogHandler) ListCategoriesHandler(c *gin.Context) {
	sess := sessionFrom(c)
	categories, err := h.Catalog.Categories(c.Request.Context(), sess.Access)
	if err != nil {
		respondError(c, h.Sessions, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": categories})
}

func (h *CatalogHandler) mutate(c *gin.Context, apply func(token string, payload map[string]interface{}) (interface{}, error)) {
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
