package catalogRepo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"labcrm/backend"
	"labcrm/models"
)

// CatalogRepository defines remote access to the lab test/package catalog.
// The wizard only reads it; the content management pages mutate it.
type CatalogRepository interface {
	// LabTests retrieves a page of tests matching an optional search.
	LabTests(ctx context.Context, token, search string, page int) ([]models.LabTest, int, error)
	// CreateLabTest adds a catalog test.
	CreateLabTest(ctx context.Context, token string, payload map[string]interface{}) (*models.LabTest, error)
	// UpdateLabTest patches a catalog test.
	UpdateLabTest(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.LabTest, error)

	// LabPackages retrieves a page of packages matching an optional search.
	LabPackages(ctx context.Context, token, search string, page int) ([]models.LabPackage, int, error)
	// CreateLabPackage adds a catalog package.
	CreateLabPackage(ctx context.Context, token string, payload map[string]interface{}) (*models.LabPackage, error)
	// UpdateLabPackage patches a catalog package.
	UpdateLabPackage(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.LabPackage, error)

	// Categories lists product categories.
	Categories(ctx context.Context, token string) ([]models.Category, error)
}

type restCatalogRepo struct {
	client *backend.Client
}

// NewRESTCatalogRepo returns a CatalogRepository backed by the CRM backend.
func NewRESTCatalogRepo(client *backend.Client) CatalogRepository {
	return &restCatalogRepo{client: client}
}

func (r *restCatalogRepo) LabTests(ctx context.Context, token, search string, page int) ([]models.LabTest, int, error) {
	raw, err := r.client.GetRaw(ctx, token, "/crm/lab-tests/", listQuery(search, page))
	if err != nil {
		return nil, 0, err
	}
	var tests []models.LabTest
	total, err := backend.DecodeList(raw, &tests)
	if err != nil {
		return nil, 0, err
	}
	return tests, total, nil
}

func (r *restCatalogRepo) CreateLabTest(ctx context.Context, token string, payload map[string]interface{}) (*models.LabTest, error) {
	var test models.LabTest
	if err := r.client.Post(ctx, token, "/crm/lab-tests/", payload, &test); err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *restCatalogRepo) UpdateLabTest(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.LabTest, error) {
	var test models.LabTest
	if err := r.client.Patch(ctx, token, fmt.Sprintf("/crm/lab-tests/%d/", id), payload, &test); err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *restCatalogRepo) LabPackages(ctx context.Context, token, search string, page int) ([]models.LabPackage, int, error) {
	raw, err := r.client.GetRaw(ctx, token, "/crm/lab-packages/", listQuery(search, page))
	if err != nil {
		return nil, 0, err
	}
	var packages []models.LabPackage
	total, err := backend.DecodeList(raw, &packages)
	if err != nil {
		return nil, 0, err
	}
	return packages, total, nil
}

func (r *restCatalogRepo) CreateLabPackage(ctx context.Context, token string, payload map[string]interface{}) (*models.LabPackage, error) {
	var pkg models.LabPackage
	if err := r.client.Post(ctx, token, "/crm/lab-packages/", payload, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *restCatalogRepo) UpdateLabPackage(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.LabPackage, error) {
	var pkg models.LabPackage
	if err := r.client.Patch(ctx, token, fmt.Sprintf("/crm/lab-packages/%d/", id), payload, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *restCatalogRepo) Categories(ctx context.Context, token string) ([]models.Category, error) {
	raw, err := r.client.GetRaw(ctx, token, "/crm/categories/", nil)
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if _, err := backend.DecodeList(raw, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func listQuery(search string, page int) url.Values {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	return query
}
