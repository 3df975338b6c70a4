package data

import (
	"context"
	"database/sql"
	"epicq/lib/emailtemplate"
	"epicq/lib/models"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CascadeRepository analyzes and executes deletions that reach across hospitals,
// coordinators and their dependent rows
type CascadeRepository interface {
	// AnalyzeHospitalDeletion describes what deleting the hospital would do. It never mutates.
	AnalyzeHospitalDeletion(ctx context.Context, hospitalID int64) (*models.DeletionPlan, error)

	// ExecuteHospitalDeletion deletes the hospital and its dependents in one transaction
	ExecuteHospitalDeletion(ctx context.Context, hospitalID int64, deleteCoordinators bool) (*models.DeletionResult, error)

	// AnalyzeCoordinatorDeletion describes what deleting the coordinator would do. It never mutates.
	AnalyzeCoordinatorDeletion(ctx context.Context, userID int64) (*models.DeletionPlan, error)

	// ExecuteCoordinatorDeletion deactivates the coordinator's assignments and deletes the user in one transaction
	ExecuteCoordinatorDeletion(ctx context.Context, userID int64) (*models.DeletionResult, error)
}

// CascadeDao implements CascadeRepository using PostgreSQL
type CascadeDao struct {
	DB     *sql.DB
	Logger *logrus.Logger
	Now    func() time.Time // Clock; time.Now when nil
}

func (dao *CascadeDao) now() time.Time {
	if dao.Now != nil {
		return dao.Now().UTC()
	}
	return time.Now().UTC()
}

// coordinatorFate is one coordinator of a hospital being deleted together with the
// hospitals they stay attached to
type coordinatorFate struct {
	assignment     models.CoordinatorAssignment
	otherHospitals []models.HospitalRef
}

func (f coordinatorFate) soleHospital() bool {
	return len(f.otherHospitals) == 0
}

type hospitalCascade struct {
	hospital     *models.Hospital
	totalLinks   int
	activeLinks  int
	coordinators []coordinatorFate
	removed      []models.CoordinatorAssignment
	orphans      []models.HospitalRef
}

type coordinatorCascade struct {
	user        *models.User
	assignments []models.CoordinatorAssignment
	orphans     []models.HospitalRef
}

// AnalyzeHospitalDeletion returns the deletion plan for a hospital
func (dao *CascadeDao) AnalyzeHospitalDeletion(ctx context.Context, hospitalID int64) (*models.DeletionPlan, error) {
	c, err := collectHospitalCascade(ctx, dao.DB, hospitalID)
	if err != nil {
		dao.logFailure("AnalyzeHospitalDeletion", err, logrus.Fields{"hospital_id": hospitalID})
		return nil, err
	}

	plan := c.plan(true)

	dao.Logger.WithFields(logrus.Fields{
		"operation":    "AnalyzeHospitalDeletion",
		"hospital_id":  hospitalID,
		"can_delete":   plan.CanDelete,
		"action_count": len(plan.Actions),
	}).Debug("Analyzed hospital deletion")

	return plan, nil
}

// ExecuteHospitalDeletion removes the hospital. Coordinators whose only active assignment
// is this hospital are deleted when deleteCoordinators is set; every other assignment on
// the hospital is deactivated and detached. Any failure rolls the whole cascade back.
func (dao *CascadeDao) ExecuteHospitalDeletion(ctx context.Context, hospitalID int64, deleteCoordinators bool) (*models.DeletionResult, error) {
	now := dao.now()

	tx, err := dao.DB.BeginTx(ctx, nil)
	if err != nil {
		dao.Logger.WithError(err).Error("Failed to start transaction for hospital deletion")
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	c, err := collectHospitalCascade(ctx, tx, hospitalID)
	if err != nil {
		dao.logFailure("ExecuteHospitalDeletion", err, logrus.Fields{"hospital_id": hospitalID})
		return nil, err
	}
	if c.activeLinks > 0 {
		return nil, fmt.Errorf("hospital %d has %d active project(s): %w", hospitalID, c.activeLinks, ErrBlockedByActiveDependency)
	}

	result := &models.DeletionResult{
		Subject:        models.DeletionSubjectHospital,
		SubjectID:      hospitalID,
		Actions:        c.plan(deleteCoordinators).Actions,
		DeletedUserIDs: []int64{},
		ExecutedAt:     now,
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM recruitment_periods
		WHERE project_hospital_id IN (SELECT id FROM project_hospitals WHERE hospital_id = $1)
	`, hospitalID); err != nil {
		return nil, dao.stepFailed("delete recruitment periods", hospitalID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_hospitals WHERE hospital_id = $1`, hospitalID); err != nil {
		return nil, dao.stepFailed("delete project links", hospitalID, err)
	}

	for _, fate := range c.coordinators {
		userID := fate.assignment.UserID
		if deleteCoordinators && fate.soleHospital() {
			cognitoID, err := deleteUser(ctx, tx, userID, now)
			if err != nil {
				return nil, dao.stepFailed("delete coordinator", hospitalID, err)
			}
			result.DeletedUserIDs = append(result.DeletedUserIDs, userID)
			if cognitoID != "" {
				result.DeletedCognitoIDs = append(result.DeletedCognitoIDs, cognitoID)
			}
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE project_coordinators
			SET is_active = FALSE, updated_at = $1
			WHERE user_id = $2 AND hospital_id = $3 AND is_active = TRUE
		`, now, userID, hospitalID); err != nil {
			return nil, dao.stepFailed("unassign coordinator", hospitalID, err)
		}
	}

	// Remaining coordinator rows are kept as deactivated history without the hospital.
	if _, err := tx.ExecContext(ctx, `
		UPDATE project_coordinators
		SET is_active = FALSE, hospital_id = NULL, updated_at = $1
		WHERE hospital_id = $2
	`, now, hospitalID); err != nil {
		return nil, dao.stepFailed("detach coordinator assignments", hospitalID, err)
	}

	if err := insertOrphanAlerts(ctx, tx, c.orphans, c.removed, now); err != nil {
		return nil, dao.stepFailed("record admin alerts", hospitalID, err)
	}

	for _, table := range models.HospitalDependentTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE hospital_id = $1`, hospitalID); err != nil {
			return nil, dao.stepFailed("delete "+table, hospitalID, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM hospitals WHERE id = $1`, hospitalID)
	if err != nil {
		return nil, dao.stepFailed("delete hospital", hospitalID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, dao.stepFailed("delete hospital", hospitalID, err)
	} else if n == 0 {
		return nil, fmt.Errorf("hospital %d: %w", hospitalID, ErrNotFound)
	}

	if err = tx.Commit(); err != nil {
		dao.Logger.WithError(err).Error("Failed to commit hospital deletion transaction")
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation":           "ExecuteHospitalDeletion",
		"hospital_id":         hospitalID,
		"delete_coordinators": deleteCoordinators,
		"deleted_users":       len(result.DeletedUserIDs),
		"coordinators":        len(c.coordinators),
	}).Info("Successfully deleted hospital")

	return result, nil
}

// AnalyzeCoordinatorDeletion returns the deletion plan for a coordinator
func (dao *CascadeDao) AnalyzeCoordinatorDeletion(ctx context.Context, userID int64) (*models.DeletionPlan, error) {
	c, err := collectCoordinatorCascade(ctx, dao.DB, userID)
	if err != nil {
		dao.logFailure("AnalyzeCoordinatorDeletion", err, logrus.Fields{"user_id": userID})
		return nil, err
	}

	plan := c.plan()

	dao.Logger.WithFields(logrus.Fields{
		"operation":    "AnalyzeCoordinatorDeletion",
		"user_id":      userID,
		"orphans":      len(c.orphans),
		"action_count": len(plan.Actions),
	}).Debug("Analyzed coordinator deletion")

	return plan, nil
}

// ExecuteCoordinatorDeletion removes a coordinator. Every assignment is deactivated and
// kept without the user, an alert is recorded for each hospital left without an active
// coordinator, and the user row is deleted.
func (dao *CascadeDao) ExecuteCoordinatorDeletion(ctx context.Context, userID int64) (*models.DeletionResult, error) {
	now := dao.now()

	tx, err := dao.DB.BeginTx(ctx, nil)
	if err != nil {
		dao.Logger.WithError(err).Error("Failed to start transaction for coordinator deletion")
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	c, err := collectCoordinatorCascade(ctx, tx, userID)
	if err != nil {
		dao.logFailure("ExecuteCoordinatorDeletion", err, logrus.Fields{"user_id": userID})
		return nil, err
	}

	if err := insertOrphanAlerts(ctx, tx, c.orphans, c.assignments, now); err != nil {
		return nil, fmt.Errorf("failed to record admin alerts: %w", err)
	}

	cognitoID, err := deleteUser(ctx, tx, userID, now)
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to delete coordinator")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		dao.Logger.WithError(err).Error("Failed to commit coordinator deletion transaction")
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result := &models.DeletionResult{
		Subject:        models.DeletionSubjectCoordinator,
		SubjectID:      userID,
		Actions:        c.plan().Actions,
		DeletedUserIDs: []int64{userID},
		ExecutedAt:     now,
	}
	if cognitoID != "" {
		result.DeletedCognitoIDs = []string{cognitoID}
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation":   "ExecuteCoordinatorDeletion",
		"user_id":     userID,
		"assignments": len(c.assignments),
		"orphans":     len(c.orphans),
	}).Info("Successfully deleted coordinator")

	return result, nil
}

func (dao *CascadeDao) logFailure(operation string, err error, fields logrus.Fields) {
	if isDomainError(err) {
		return
	}
	fields["operation"] = operation
	fields["error"] = err.Error()
	dao.Logger.WithFields(fields).Error("Cascade analysis failed")
}

func (dao *CascadeDao) stepFailed(step string, hospitalID int64, err error) error {
	dao.Logger.WithFields(logrus.Fields{
		"operation":   "ExecuteHospitalDeletion",
		"step":        step,
		"hospital_id": hospitalID,
		"error":       err.Error(),
	}).Error("Hospital deletion step failed, rolling back")
	return fmt.Errorf("failed to %s: %w", step, err)
}

// plan renders the cascade as ordered actions. deleteCoordinators selects how coordinators
// without another assignment are reported; analysis always reports them as deleted.
func (c *hospitalCascade) plan(deleteCoordinators bool) *models.DeletionPlan {
	plan := &models.DeletionPlan{
		Warnings: []string{},
		Actions:  []models.DeletionAction{},
	}

	if c.activeLinks > 0 {
		plan.BlockingReason = fmt.Sprintf(
			"Hospital %q takes part in %d active project(s); deactivate them before deleting the hospital",
			c.hospital.Name, c.activeLinks)
		plan.Warnings = append(plan.Warnings, plan.BlockingReason)
		return plan
	}
	plan.CanDelete = true

	deletedUsers := 0
	for _, fate := range c.coordinators {
		a := fate.assignment
		if fate.soleHospital() {
			action := models.DeletionAction{
				Type:        models.ActionUnassignCoordinator,
				Description: fmt.Sprintf("Deactivate %s <%s> as coordinator of %s", a.UserName, a.UserEmail, c.hospital.Name),
				UserID:      models.Int64Ptr(a.UserID),
				HospitalID:  models.Int64Ptr(c.hospital.HospitalID),
			}
			if deleteCoordinators {
				deletedUsers++
				action.Type = models.ActionDeleteUser
				action.Description = fmt.Sprintf("Delete coordinator account %s <%s>; it has no other hospital assignment", a.UserName, a.UserEmail)
			}
			plan.Actions = append(plan.Actions, action)
			continue
		}

		plan.Actions = append(plan.Actions, models.DeletionAction{
			Type: models.ActionUnassignCoordinator,
			Description: fmt.Sprintf("Unassign %s <%s> from %s; remains coordinator of %s",
				a.UserName, a.UserEmail, c.hospital.Name, hospitalNames(fate.otherHospitals)),
			UserID:     models.Int64Ptr(a.UserID),
			HospitalID: models.Int64Ptr(c.hospital.HospitalID),
			Hospitals:  fate.otherHospitals,
		})
	}
	if deletedUsers > 0 {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("%d coordinator account(s) will be permanently deleted", deletedUsers))
	}

	if c.totalLinks > 0 {
		plan.Actions = append(plan.Actions, models.DeletionAction{
			Type:        models.ActionDeleteProjectLinks,
			Description: fmt.Sprintf("Delete %d project link(s) and their recruitment periods", c.totalLinks),
			HospitalID:  models.Int64Ptr(c.hospital.HospitalID),
		})
	}
	plan.Actions = append(plan.Actions,
		models.DeletionAction{
			Type:        models.ActionDeleteDependents,
			Description: "Delete contacts, hospital details, progress, case metrics, alerts and communications",
			HospitalID:  models.Int64Ptr(c.hospital.HospitalID),
		},
		models.DeletionAction{
			Type:        models.ActionDeleteHospital,
			Description: fmt.Sprintf("Delete hospital %s", c.hospital.Name),
			HospitalID:  models.Int64Ptr(c.hospital.HospitalID),
		},
	)

	plan.Warnings, plan.Actions = appendOrphanNotices(plan.Warnings, plan.Actions, c.orphans)
	return plan
}

func (c *coordinatorCascade) plan() *models.DeletionPlan {
	plan := &models.DeletionPlan{
		CanDelete: true,
		Warnings:  []string{},
		Actions:   []models.DeletionAction{},
	}

	if len(c.assignments) > 0 {
		plan.Actions = append(plan.Actions, models.DeletionAction{
			Type:        models.ActionDeactivateAssignments,
			Description: fmt.Sprintf("Deactivate %d active coordinator assignment(s)", len(c.assignments)),
			UserID:      models.Int64Ptr(c.user.UserID),
			Hospitals:   distinctHospitals(c.assignments),
		})
	}
	plan.Actions = append(plan.Actions, models.DeletionAction{
		Type:        models.ActionDeleteUser,
		Description: fmt.Sprintf("Delete coordinator account %s <%s>", c.user.Name, c.user.Email),
		UserID:      models.Int64Ptr(c.user.UserID),
	})

	plan.Warnings, plan.Actions = appendOrphanNotices(plan.Warnings, plan.Actions, c.orphans)
	return plan
}

func appendOrphanNotices(warnings []string, actions []models.DeletionAction, orphans []models.HospitalRef) ([]string, []models.DeletionAction) {
	for _, h := range orphans {
		warnings = append(warnings, fmt.Sprintf("Hospital %s will be left without an active coordinator", h.Name))
		actions = append(actions, models.DeletionAction{
			Type:        models.ActionNotifyAdmin,
			Description: fmt.Sprintf("Notify admins that %s needs a new coordinator", h.Name),
			HospitalID:  models.Int64Ptr(h.HospitalID),
		})
	}
	return warnings, actions
}

func collectHospitalCascade(ctx context.Context, q queryer, hospitalID int64) (*hospitalCascade, error) {
	hospital, err := getHospital(ctx, q, hospitalID)
	if err != nil {
		return nil, err
	}
	c := &hospitalCascade{hospital: hospital}

	err = q.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = $1 THEN 1 ELSE 0 END), 0)
		FROM project_hospitals
		WHERE hospital_id = $2
	`, models.ProjectHospitalStatusActive, hospitalID).Scan(&c.totalLinks, &c.activeLinks)
	if err != nil {
		return nil, fmt.Errorf("failed to count project links: %w", err)
	}
	if c.activeLinks > 0 {
		return c, nil
	}

	c.removed, err = activeAssignments(ctx, q, "pc.hospital_id = $1", hospitalID)
	if err != nil {
		return nil, err
	}

	seen := map[int64]bool{}
	for _, a := range c.removed {
		if seen[a.UserID] {
			continue
		}
		seen[a.UserID] = true

		others, err := activeAssignments(ctx, q, "pc.user_id = $1 AND pc.hospital_id <> $2", a.UserID, hospitalID)
		if err != nil {
			return nil, err
		}
		c.coordinators = append(c.coordinators, coordinatorFate{
			assignment:     a,
			otherHospitals: distinctHospitals(others),
		})
	}

	c.orphans, err = orphanedHospitals(ctx, q, c.removed, hospitalID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func collectCoordinatorCascade(ctx context.Context, q queryer, userID int64) (*coordinatorCascade, error) {
	user, err := getUser(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsCoordinator() {
		return nil, newValidationError("user_id", fmt.Sprintf("user %d is not a coordinator", userID))
	}

	c := &coordinatorCascade{user: user}
	c.assignments, err = activeAssignments(ctx, q, "pc.user_id = $1", userID)
	if err != nil {
		return nil, err
	}
	c.orphans, err = orphanedHospitals(ctx, q, c.assignments, 0)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// activeAssignments lists active coordinator assignments matching where, joined with the
// user and hospital they bind
func activeAssignments(ctx context.Context, q queryer, where string, args ...interface{}) ([]models.CoordinatorAssignment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT pc.id, u.id, u.name, u.email, h.id, h.name
		FROM project_coordinators pc
		JOIN users u ON u.id = pc.user_id
		JOIN hospitals h ON h.id = pc.hospital_id
		WHERE `+where+` AND pc.is_active = TRUE
		ORDER BY pc.id ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query coordinator assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.CoordinatorAssignment
	for rows.Next() {
		var a models.CoordinatorAssignment
		if err := rows.Scan(&a.ProjectCoordinatorID, &a.UserID, &a.UserName, &a.UserEmail, &a.HospitalID, &a.HospitalName); err != nil {
			return nil, fmt.Errorf("failed to scan coordinator assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating coordinator assignments: %w", err)
	}
	return assignments, nil
}

// orphanedHospitals returns the hospitals, other than skipHospitalID, whose every active
// coordinator assignment is in removed
func orphanedHospitals(ctx context.Context, q queryer, removed []models.CoordinatorAssignment, skipHospitalID int64) ([]models.HospitalRef, error) {
	removedIDs := map[int64]bool{}
	for _, a := range removed {
		removedIDs[a.ProjectCoordinatorID] = true
	}

	var orphans []models.HospitalRef
	for _, h := range distinctHospitals(removed) {
		if h.HospitalID == skipHospitalID {
			continue
		}

		remaining, err := activeAssignments(ctx, q, "pc.hospital_id = $1", h.HospitalID)
		if err != nil {
			return nil, err
		}

		orphaned := true
		for _, a := range remaining {
			if !removedIDs[a.ProjectCoordinatorID] {
				orphaned = false
				break
			}
		}
		if orphaned {
			orphans = append(orphans, h)
		}
	}
	return orphans, nil
}

// insertOrphanAlerts records a coordinator_removed alert for every orphaned hospital
func insertOrphanAlerts(ctx context.Context, tx *sql.Tx, orphans []models.HospitalRef, removed []models.CoordinatorAssignment, now time.Time) error {
	for _, h := range orphans {
		vars := map[string]string{"hospital_name": h.Name}
		for _, a := range removed {
			if a.HospitalID == h.HospitalID {
				vars["coordinator_name"] = a.UserName
				vars["coordinator_email"] = a.UserEmail
				break
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO alerts (hospital_id, type, message, created_at)
			VALUES ($1, $2, $3, $4)
		`, h.HospitalID, models.AlertTypeCoordinatorRemoved,
			emailtemplate.Render(emailtemplate.CoordinatorRemoved, vars), now); err != nil {
			return fmt.Errorf("failed to insert alert for hospital %d: %w", h.HospitalID, err)
		}
	}
	return nil
}

// deleteUser deactivates and detaches every assignment of the user, then deletes the user
// row. It returns the user's Cognito ID, if any.
func deleteUser(ctx context.Context, tx *sql.Tx, userID int64, now time.Time) (string, error) {
	var cognitoID sql.NullString
	err := tx.QueryRowContext(ctx, `SELECT cognito_id FROM users WHERE id = $1`, userID).Scan(&cognitoID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE project_coordinators
		SET is_active = FALSE, user_id = NULL, updated_at = $1
		WHERE user_id = $2
	`, now, userID); err != nil {
		return "", fmt.Errorf("failed to deactivate coordinator assignments: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return "", fmt.Errorf("failed to delete user: %w", err)
	}
	return cognitoID.String, nil
}

func getHospital(ctx context.Context, q queryer, hospitalID int64) (*models.Hospital, error) {
	var h models.Hospital
	err := q.QueryRowContext(ctx, `
		SELECT id, name, province, city, status, created_at, updated_at
		FROM hospitals
		WHERE id = $1
	`, hospitalID).Scan(&h.HospitalID, &h.Name, &h.Province, &h.City, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("hospital %d: %w", hospitalID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &h, nil
}

func distinctHospitals(assignments []models.CoordinatorAssignment) []models.HospitalRef {
	seen := map[int64]bool{}
	var refs []models.HospitalRef
	for _, a := range assignments {
		if seen[a.HospitalID] {
			continue
		}
		seen[a.HospitalID] = true
		refs = append(refs, models.HospitalRef{HospitalID: a.HospitalID, Name: a.HospitalName})
	}
	return refs
}

func hospitalNames(refs []models.HospitalRef) string {
	names := make([]string, len(refs))
	for i, h := range refs {
		names[i] = h.Name
	}
	return strings.Join(names, ", ")
}
