package staffRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"labcrm/backend"
	"labcrm/models"
)

// StaffRepository defines remote access to staff users, roles and the
// dashboard stats feed.
type StaffRepository interface {
	// SearchAgents finds staff users by name or mobile for agent assignment.
	SearchAgents(ctx context.Context, token, search string) ([]models.StaffUser, error)
	// Roles lists the configured roles (Settings page).
	Roles(ctx context.Context, token string) ([]models.Role, error)
	// UpdateRole patches a role's permissions or discount bounds.
	UpdateRole(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.Role, error)
	// DashboardStats returns the backend's stats document untouched; its
	// shape belongs to the backend.
	DashboardStats(ctx context.Context, token string, query url.Values) (json.RawMessage, error)
	// Notifications lists delivered notification records.
	Notifications(ctx context.Context, token string, page int) ([]models.Notification, int, error)
}

type restStaffRepo struct {
	client *backend.Client
}

// NewRESTStaffRepo returns a StaffRepository backed by the CRM backend.
func NewRESTStaffRepo(client *backend.Client) StaffRepository {
	return &restStaffRepo{client: client}
}

func (r *restStaffRepo) SearchAgents(ctx context.Context, token, search string) ([]models.StaffUser, error) {
	query := url.Values{
		"search": {search},
		"staff":  {"true"},
	}
	raw, err := r.client.GetRaw(ctx, token, "/crm/users/", query)
	if err != nil {
		return nil, err
	}
	var agents []models.StaffUser
	if _, err := backend.DecodeList(raw, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *restStaffRepo) Roles(ctx context.Context, token string) ([]models.Role, error) {
	raw, err := r.client.GetRaw(ctx, token, "/crm/roles/", nil)
	if err != nil {
		return nil, err
	}
	var roles []models.Role
	if _, err := backend.DecodeList(raw, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *restStaffRepo) UpdateRole(ctx context.Context, token string, id int64, payload map[string]interface{}) (*models.Role, error) {
	var role models.Role
	if err := r.client.Patch(ctx, token, fmt.Sprintf("/crm/roles/%d/", id), payload, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *restStaffRepo) DashboardStats(ctx context.Context, token string, query url.Values) (json.RawMessage, error) {
	return r.client.GetRaw(ctx, token, "/crm/dashboard/", query)
}

func (r *restStaffRepo) Notifications(ctx context.Context, token string, page int) ([]models.Notification, int, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", fmt.Sprintf("%d", page))
	}
	raw, err := r.client.GetRaw(ctx, token, "/crm/notifications/", query)
	if err != nil {
		return nil, 0, err
	}
	var notifications []models.Notification
	total, err := backend.DecodeList(raw, &notifications)
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}
