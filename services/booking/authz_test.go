package booking

import (
	"reflect"
	"testing"

	"labcrm/models"
)

func TestActionsForTable(t *testing.T) {
	remarkOnly := []ActionType{ActionAddRemark}
	triple := []ActionType{ActionUpdateStatus, ActionUpdateAgent, ActionAddRemark}

	tests := []struct {
		name   string
		role   string
		status string
		want   []ActionType
	}{
		{"any role at open", models.RoleDietitian, models.StatusOpen, triple},
		{"verifier at verified", models.RoleVerifier, models.StatusVerified, triple},
		{"phlebo at verified", models.RolePhlebo, models.StatusVerified, remarkOnly},
		{"root manager at root_manager", models.RoleRootManager, models.StatusRootManager, triple},
		{"verifier at root_manager", models.RoleVerifier, models.StatusRootManager, remarkOnly},
		{"phlebo at phlebo", models.RolePhlebo, models.StatusPhlebo, triple},
		{"root manager at phlebo", models.RoleRootManager, models.StatusPhlebo, triple},
		{"dietitian at phlebo", models.RoleDietitian, models.StatusPhlebo, remarkOnly},
		{"phlebo at sample_collected", models.RolePhlebo, models.StatusSampleCollected,
			[]ActionType{ActionUpdatePayment, ActionAddRemark}},
		{"verifier at sample_collected", models.RoleVerifier, models.StatusSampleCollected,
			[]ActionType{ActionUpdatePayment, ActionAddRemark}},
		{"report uploader at sample_collected", models.RoleReportUploader, models.StatusSampleCollected,
			[]ActionType{ActionUpdatePayment, ActionAddRemark}},
		{"health manager at sample_collected", models.RoleHealthManager, models.StatusSampleCollected, remarkOnly},
		{"report uploader at payment_collected", models.RoleReportUploader, models.StatusPaymentCollected,
			[]ActionType{ActionUpdateStatus, ActionUploadDocument, ActionAddRemark}},
		{"phlebo at payment_collected", models.RolePhlebo, models.StatusPaymentCollected, remarkOnly},
		{"report uploader at report_uploaded", models.RoleReportUploader, models.StatusReportUploaded,
			[]ActionType{ActionUpdateAgent, ActionAddRemark}},
		{"health manager at health_manager", models.RoleHealthManager, models.StatusHealthManager,
			[]ActionType{ActionUpdateAgent, ActionAddRemark}},
		{"dietitian at dietitian", models.RoleDietitian, models.StatusDietitian,
			[]ActionType{ActionUpdateStatus, ActionUploadDocument, ActionAddRemark}},
		{"verifier at completed", models.RoleVerifier, models.StatusCompleted, remarkOnly},
		{"verifier at cancelled", models.RoleVerifier, models.StatusCancelled,
			[]ActionType{ActionUpdateStatus, ActionAddRemark}},
		{"unknown status", models.RoleVerifier, "archived", remarkOnly},
		{"unknown role at restricted status", "Intern", models.StatusVerified, remarkOnly},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ActionsFor(tc.role, tc.status)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ActionsFor(%q, %q) = %v, want %v", tc.role, tc.status, got, tc.want)
			}
		})
	}
}

func TestStatusOptionsForTable(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		status string
		want   []string
	}{
		{"verifier at open", models.RoleVerifier, models.StatusOpen,
			[]string{models.StatusVerified, models.StatusCancelled}},
		{"phlebo at open", models.RolePhlebo, models.StatusOpen,
			[]string{models.StatusCancelled}},
		{"anyone at verified", models.RoleHealthManager, models.StatusVerified,
			[]string{models.StatusOpen, models.StatusCancelled}},
		{"phlebo at phlebo", models.RolePhlebo, models.StatusPhlebo,
			[]string{models.StatusSampleCollected, models.StatusCancelled}},
		{"root manager at phlebo", models.RoleRootManager, models.StatusPhlebo,
			[]string{models.StatusSampleCollected, models.StatusCancelled}},
		{"verifier at phlebo", models.RoleVerifier, models.StatusPhlebo, nil},
		{"phlebo at sample_collected", models.RolePhlebo, models.StatusSampleCollected,
			[]string{models.StatusCompleted, models.StatusCancelled}},
		{"dietitian at sample_collected", models.RoleDietitian, models.StatusSampleCollected, nil},
		{"anyone at payment_collected", models.RolePhlebo, models.StatusPaymentCollected,
			[]string{models.StatusReportUploaded}},
		{"anyone at report_uploaded", models.RoleVerifier, models.StatusReportUploaded,
			[]string{models.StatusCompleted, models.StatusCancelled}},
		{"anyone at dietitian", models.RoleVerifier, models.StatusDietitian,
			[]string{models.StatusCompleted}},
		{"anyone at cancelled", models.RoleVerifier, models.StatusCancelled,
			[]string{models.StatusOpen}},
		{"anyone at completed", models.RoleVerifier, models.StatusCompleted, nil},
		{"anyone at root_manager", models.RoleRootManager, models.StatusRootManager, nil},
		{"unknown status", models.RoleVerifier, "archived", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := StatusOptionsFor(tc.role, tc.status)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("StatusOptionsFor(%q, %q) = %v, want %v", tc.role, tc.status, got, tc.want)
			}
		})
	}
}

func TestAdminOverride(t *testing.T) {
	for _, status := range append(append([]string{}, models.AllStatuses...), "archived") {
		actions := ActionsFor(models.RoleAdmin, status)
		if !reflect.DeepEqual(actions, allActions) {
			t.Errorf("ActionsFor(Admin, %q) = %v, want full set", status, actions)
		}
		options := StatusOptionsFor(models.RoleAdmin, status)
		if !reflect.DeepEqual(options, models.AllStatuses) {
			t.Errorf("StatusOptionsFor(Admin, %q) = %v, want all statuses", status, options)
		}
	}
}

// Every role always retains add_remark, whatever the status.
func TestRemarkAlwaysAvailable(t *testing.T) {
	roles := []string{
		models.RoleAdmin, models.RoleVerifier, models.RoleRootManager, models.RolePhlebo,
		models.RoleReportUploader, models.RoleHealthManager, models.RoleDietitian, "Intern",
	}
	statuses := append(append([]string{}, models.AllStatuses...), "archived", "")
	for _, role := range roles {
		for _, status := range statuses {
			if !CanApply(role, status, ActionAddRemark) {
				t.Errorf("CanApply(%q, %q, add_remark) = false", role, status)
			}
		}
	}
}

// No non-admin row ever offers the current status as its own transition.
func TestNoSelfTransitions(t *testing.T) {
	roles := []string{
		models.RoleVerifier, models.RoleRootManager, models.RolePhlebo,
		models.RoleReportUploader, models.RoleHealthManager, models.RoleDietitian,
	}
	for _, role := range roles {
		for _, status := range models.AllStatuses {
			for _, next := range StatusOptionsFor(role, status) {
				if next == status {
					t.Errorf("StatusOptionsFor(%q, %q) offers the current status", role, status)
				}
			}
		}
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(models.RoleVerifier, models.StatusOpen, models.StatusVerified) {
		t.Error("verifier should verify an open booking")
	}
	if CanTransition(models.RolePhlebo, models.StatusOpen, models.StatusVerified) {
		t.Error("phlebo must not verify an open booking")
	}
	if !CanTransition(models.RoleAdmin, models.StatusCompleted, models.StatusOpen) {
		t.Error("admin may reopen a completed booking")
	}
}
