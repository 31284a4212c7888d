package booking

import "labcrm/models"

// ActionType enumerates what the action drawer can do to a booking.
type ActionType string

const (
	ActionUpdateStatus   ActionType = "update_status"
	ActionUpdateAgent    ActionType = "update_agent"
	ActionUpdatePayment  ActionType = "update_payment"
	ActionUploadDocument ActionType = "upload_document"
	ActionAddRemark      ActionType = "add_remark"
)

// allActions is the full drawer action set, in display order.
var allActions = []ActionType{
	ActionUpdateStatus,
	ActionUpdateAgent,
	ActionUpdatePayment,
	ActionUploadDocument,
	ActionAddRemark,
}

// The authorization rules below are the workflow's single source of truth on
// the console side: one row per booking status, pinned cell-by-cell by tests.
// The backend still validates every transition; these tables only decide what
// the drawer offers.
//
// An empty roles list means any authenticated staff role qualifies. A role
// that does not qualify for the row falls back to remark-only: every role may
// always annotate.

type actionRule struct {
	roles   []string
	actions []ActionType
}

var actionTable = map[string]actionRule{
	models.StatusOpen: {
		actions: []ActionType{ActionUpdateStatus, ActionUpdateAgent, ActionAddRemark},
	},
	models.StatusVerified: {
		roles:   []string{models.RoleVerifier},
		actions: []ActionType{ActionUpdateStatus, ActionUpdateAgent, ActionAddRemark},
	},
	models.StatusRootManager: {
		roles:   []string{models.RoleRootManager},
		actions: []ActionType{ActionUpdateStatus, ActionUpdateAgent, ActionAddRemark},
	},
	models.StatusPhlebo: {
		roles:   []string{models.RoleRootManager, models.RolePhlebo},
		actions: []ActionType{ActionUpdateStatus, ActionUpdateAgent, ActionAddRemark},
	},
	models.StatusSampleCollected: {
		roles:   []string{models.RolePhlebo, models.RoleRootManager, models.RoleVerifier, models.RoleReportUploader},
		actions: []ActionType{ActionUpdatePayment, ActionAddRemark},
	},
	models.StatusPaymentCollected: {
		roles:   []string{models.RoleReportUploader},
		actions: []ActionType{ActionUpdateStatus, ActionUploadDocument, ActionAddRemark},
	},
	models.StatusReportUploaded: {
		roles:   []string{models.RoleReportUploader},
		actions: []ActionType{ActionUpdateAgent, ActionAddRemark},
	},
	models.StatusHealthManager: {
		roles:   []string{models.RoleHealthManager},
		actions: []ActionType{ActionUpdateAgent, ActionAddRemark},
	},
	models.StatusDietitian: {
		roles:   []string{models.RoleDietitian},
		actions: []ActionType{ActionUpdateStatus, ActionUploadDocument, ActionAddRemark},
	},
	models.StatusCompleted: {
		actions: []ActionType{ActionAddRemark},
	},
	models.StatusCancelled: {
		actions: []ActionType{ActionUpdateStatus, ActionAddRemark},
	},
}

type statusRule struct {
	roles []string
	next  []string
	// fallback applies when the row names roles and the caller's role is not
	// among them. nil means no transitions are offered.
	fallback []string
}

var statusTable = map[string]statusRule{
	models.StatusOpen: {
		roles:    []string{models.RoleVerifier},
		next:     []string{models.StatusVerified, models.StatusCancelled},
		fallback: []string{models.StatusCancelled},
	},
	models.StatusVerified: {
		next: []string{models.StatusOpen, models.StatusCancelled},
	},
	models.StatusPhlebo: {
		roles: []string{models.RolePhlebo, models.RoleRootManager},
		next:  []string{models.StatusSampleCollected, models.StatusCancelled},
	},
	models.StatusSampleCollected: {
		roles: []string{models.RolePhlebo, models.RoleRootManager},
		next:  []string{models.StatusCompleted, models.StatusCancelled},
	},
	models.StatusPaymentCollected: {
		next: []string{models.StatusReportUploaded},
	},
	models.StatusReportUploaded: {
		next: []string{models.StatusCompleted, models.StatusCancelled},
	},
	models.StatusDietitian: {
		next: []string{models.StatusCompleted},
	},
	models.StatusCancelled: {
		next: []string{models.StatusOpen},
	},
}

// ActionsFor returns the drawer actions a role may take on a booking in the
// given status, in display order. Admin always gets the full set; any
// (role, status) pair the table does not authorize gets remark-only.
func ActionsFor(role, status string) []ActionType {
	if role == models.RoleAdmin {
		return cloneActions(allActions)
	}
	rule, ok := actionTable[status]
	if !ok {
		return []ActionType{ActionAddRemark}
	}
	if len(rule.roles) > 0 && !containsString(rule.roles, role) {
		return []ActionType{ActionAddRemark}
	}
	return cloneActions(rule.actions)
}

// StatusOptionsFor returns the candidate next statuses a role may propose
// from the given status. Admin gets the full enumeration; no status ever
// reaches itself through the non-admin rows.
func StatusOptionsFor(role, status string) []string {
	if role == models.RoleAdmin {
		return append([]string(nil), models.AllStatuses...)
	}
	rule, ok := statusTable[status]
	if !ok {
		return nil
	}
	if len(rule.roles) > 0 && !containsString(rule.roles, role) {
		return append([]string(nil), rule.fallback...)
	}
	return append([]string(nil), rule.next...)
}

// CanApply reports whether the action type is offered to the role at the
// booking's current status.
func CanApply(role, status string, action ActionType) bool {
	for _, allowed := range ActionsFor(role, status) {
		if allowed == action {
			return true
		}
	}
	return false
}

// CanTransition reports whether the role may propose moving the booking from
// its current status to the target.
func CanTransition(role, status, target string) bool {
	return containsString(StatusOptionsFor(role, status), target)
}

func cloneActions(actions []ActionType) []ActionType {
	return append([]ActionType(nil), actions...)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
