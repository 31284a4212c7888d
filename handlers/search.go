package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	catalogRepo "labcrm/backend/catalog"
	customerRepo "labcrm/backend/customer"
	staffRepo "labcrm/backend/staff"
	"labcrm/middleware"
	"labcrm/services/search"
	sessionSvc "labcrm/services/session"
)

// SearchHandler is the typeahead proxy behind the console's search boxes.
// Each (session, scope) pair gets its own debounce/sequence runner, so a
// burst of keystroke requests from one operator collapses into a single
// backend call and a slow older lookup can never answer a newer box state.
type SearchHandler struct {
	Customers customerRepo.CustomerRepository
	Staff     staffRepo.StaffRepository
	Catalog   catalogRepo.CatalogRepository
	Sessions  sessionSvc.Service

	mu      sync.Mutex
	runners map[string]*search.Runner
}

// NewSearchHandler builds the search handler.
func NewSearchHandler(customers customerRepo.CustomerRepository, staff staffRepo.StaffRepository, catalog catalogRepo.CatalogRepository, sessions sessionSvc.Service) *SearchHandler {
	return &SearchHandler{
		Customers: customers,
		Staff:     staff,
		Catalog:   catalog,
		Sessions:  sessions,
		runners:   make(map[string]*search.Runner),
	}
}

// SearchCustomersHandler serves the customer typeahead.
func (h *SearchHandler) SearchCustomersHandler(c *gin.Context) {
	h.run(c, "customers", func(ctx context.Context, token, query string) (interface{}, error) {
		customers, _, err := h.Customers.Search(ctx, token, query, 0)
		return customers, err
	})
}

// SearchAgentsHandler serves the agent typeahead for assignment.
func (h *SearchHandler) SearchAgentsHandler(c *gin.Context) {
	h.run(c, "agents", func(ctx context.Context, token, query string) (interface{}, error) {
		return h.Staff.SearchAgents(ctx, token, query)
	})
}

// SearchProductsHandler serves the combined test/package typeahead used when
// adding wizard items.
func (h *SearchHandler) SearchProductsHandler(c *gin.Context) {
	h.run(c, "products", func(ctx context.Context, token, query string) (interface{}, error) {
		tests, _, err := h.Catalog.LabTests(ctx, token, query, 0)
		if err != nil {
			return nil, err
		}
		packages, _, err := h.Catalog.LabPackages(ctx, token, query, 0)
		if err != nil {
			return nil, err
		}
		return gin.H{"labTests": tests, "labPackages": packages}, nil
	})
}

type searchResult struct {
	payload interface{}
	err     error
}

func (h *SearchHandler) run(c *gin.Context, scope string, fetch func(ctx context.Context, token, query string) (interface{}, error)) {
	sess := sessionFrom(c)
	query := c.Query("q")
	runner := h.runner(c.GetString(middleware.ContextSessionIDKey) + ":" + scope)

	done := make(chan searchResult, 1)
	runner.Search(c.Request.Context(), query, func(ctx context.Context, q string) (interface{}, error) {
		return fetch(ctx, sess.Access, q)
	}, func(q string, result interface{}, err error) {
		done <- searchResult{payload: result, err: err}
	})

	select {
	case result := <-done:
		if errors.Is(result.err, search.ErrSuperseded) {
			// A newer keystroke displaced this request; nothing to deliver.
			c.Status(http.StatusNoContent)
			return
		}
		if result.err != nil {
			respondError(c, h.Sessions, result.err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"query": query, "results": result.payload})
	case <-c.Request.Context().Done():
		c.Status(http.StatusNoContent)
	}
}

func (h *SearchHandler) runner(key string) *search.Runner {
	h.mu.Lock()
	defer h.mu.Unlock()
	runner, ok := h.runners[key]
	if !ok {
		runner = search.NewRunner(search.DefaultDelay)
		h.runners[key] = runner
	}
	return runner
}
