package models

import "time"

// Deletion action types, in the order they are reported
const (
	ActionUnassignCoordinator   = "unassign_coordinator"   // Deactivate one hospital assignment, keep the user
	ActionDeleteUser            = "delete_user"            // Coordinator has no other purpose in the system
	ActionDeactivateAssignments = "deactivate_assignments" // All assignments of a coordinator being removed
	ActionDeleteProjectLinks    = "delete_project_links"   // ProjectHospital rows and their recruitment periods
	ActionDeleteDependents      = "delete_dependents"      // Contacts, details, progress, metrics, alerts, communications
	ActionDeleteHospital        = "delete_hospital"
	ActionNotifyAdmin           = "notify_admin" // A hospital is left without an active coordinator
)

// HospitalRef names a hospital in a deletion plan
type HospitalRef struct {
	HospitalID int64  `json:"hospital_id"`
	Name       string `json:"name"`
}

// DeletionAction is one side-effect of a deletion, for display before and after execution
type DeletionAction struct {
	Type        string        `json:"type"`
	Description string        `json:"description"`
	UserID      *int64        `json:"user_id,omitempty"`
	HospitalID  *int64        `json:"hospital_id,omitempty"`
	Hospitals   []HospitalRef `json:"hospitals,omitempty"` // Hospitals a coordinator remains attached to
}

// DeletionPlan is the outcome of a deletion analysis. It never implies a mutation.
type DeletionPlan struct {
	CanDelete      bool             `json:"can_delete"`
	BlockingReason string           `json:"blocking_reason,omitempty"`
	Warnings       []string         `json:"warnings"`
	Actions        []DeletionAction `json:"actions"`
}

// DeletionResult describes a committed deletion
type DeletionResult struct {
	Subject           string           `json:"subject"` // 'hospital' or 'coordinator'
	SubjectID         int64            `json:"subject_id"`
	Actions           []DeletionAction `json:"actions"`
	DeletedUserIDs    []int64          `json:"deleted_user_ids"`
	DeletedCognitoIDs []string         `json:"-"` // Identities to remove from the user pool after commit
	ExecutedAt        time.Time        `json:"executed_at"`
	ExecutedBy        int64            `json:"executed_by,omitempty"`
}

// Deletion subjects
const (
	DeletionSubjectHospital    = "hospital"
	DeletionSubjectCoordinator = "coordinator"
)

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}

// DeletionResponse is returned to the caller once a deletion has committed. Follow-up
// failures (archive upload, identity removal) are reported as warnings; the deletion stands.
type DeletionResponse struct {
	Result     *DeletionResult `json:"result"`
	ArchiveKey string          `json:"archive_key,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
}
