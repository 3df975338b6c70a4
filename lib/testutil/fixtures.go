package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"
)

// Fixtures inserts rows for DAO tests and fails the test on any error
type Fixtures struct {
	db  *sql.DB
	t   *testing.T
	now time.Time
	seq int
}

// NewFixtures creates a Fixtures instance for the given test database
func NewFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t, now: time.Now().UTC()}
}

func (f *Fixtures) insert(query string, args ...interface{}) int64 {
	f.t.Helper()

	res, err := f.db.Exec(query, args...)
	if err != nil {
		f.t.Fatalf("fixture insert failed: %v\n%s", err, query)
	}
	id, err := res.LastInsertId()
	if err != nil {
		f.t.Fatalf("fixture insert returned no id: %v", err)
	}
	return id
}

// CreateHospital creates an active hospital
func (f *Fixtures) CreateHospital(name string) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO hospitals (name, province, city, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, name, "Test Province", "Test City", "active", f.now, f.now)
}

// CreateProject creates a project
func (f *Fixtures) CreateProject(name string) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO projects (name, created_at) VALUES ($1, $2)`, name, f.now)
}

// CreateProjectHospital links a hospital to a project with the given status
func (f *Fixtures) CreateProjectHospital(projectID, hospitalID int64, status string) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO project_hospitals (project_id, hospital_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`, projectID, hospitalID, status, f.now, f.now)
}

// SetRequiredPeriods records the periods a participation committed to
func (f *Fixtures) SetRequiredPeriods(projectHospitalID int64, required int) {
	f.t.Helper()
	if _, err := f.db.Exec(`UPDATE project_hospitals SET required_periods = $1 WHERE id = $2`, required, projectHospitalID); err != nil {
		f.t.Fatalf("failed to set required periods: %v", err)
	}
}

// CreateUser creates an active user with a unique email
func (f *Fixtures) CreateUser(name, role string) int64 {
	f.t.Helper()
	f.seq++
	email := fmt.Sprintf("user%d@example.com", f.seq)
	cognitoID := fmt.Sprintf("cognito-%d", f.seq)
	return f.insert(`INSERT INTO users (email, name, role, is_active, cognito_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, email, name, role, true, cognitoID, f.now, f.now)
}

// CreateCoordinator creates an active coordinator
func (f *Fixtures) CreateCoordinator(name string) int64 {
	f.t.Helper()
	return f.CreateUser(name, "coordinator")
}

// AssignCoordinator creates an active ProjectCoordinator row
func (f *Fixtures) AssignCoordinator(projectID, userID, hospitalID int64) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO project_coordinators (project_id, user_id, hospital_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, projectID, userID, hospitalID, true, f.now, f.now)
}

// CreatePeriod inserts a recruitment period directly, bypassing validation
func (f *Fixtures) CreatePeriod(projectHospitalID int64, number int, start, end time.Time) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO recruitment_periods (project_hospital_id, period_number, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, projectHospitalID, number, start, end, f.now, f.now)
}

// CreateHospitalDependents adds one row to every hospital-owned table
func (f *Fixtures) CreateHospitalDependents(hospitalID int64) {
	f.t.Helper()
	f.insert(`INSERT INTO contacts (hospital_id, name, email) VALUES ($1, $2, $3)`, hospitalID, "Ward Nurse", "nurse@example.com")
	f.insert(`INSERT INTO hospital_details (hospital_id, beds, icu_beds) VALUES ($1, $2, $3)`, hospitalID, 120, 12)
	f.insert(`INSERT INTO hospital_progress (hospital_id, step, completed) VALUES ($1, $2, $3)`, hospitalID, "ethics_approval", true)
	f.insert(`INSERT INTO case_metrics (hospital_id, metric, value) VALUES ($1, $2, $3)`, hospitalID, "enrolled", 7)
	f.insert(`INSERT INTO alerts (hospital_id, type, message, created_at) VALUES ($1, $2, $3, $4)`, hospitalID, "reminder", "Submit monthly report", f.now)
	f.insert(`INSERT INTO communications (hospital_id, subject, body) VALUES ($1, $2, $3)`, hospitalID, "Welcome", "Welcome to EPIC-Q")
}

// FailDeletesOn installs a trigger aborting any DELETE on table, to simulate a failure
// in the middle of a cascade
func (f *Fixtures) FailDeletesOn(table string) {
	f.t.Helper()
	stmt := fmt.Sprintf(`CREATE TRIGGER fail_delete_%[1]s BEFORE DELETE ON %[1]s
		BEGIN SELECT RAISE(ABORT, 'injected failure on %[1]s'); END`, table)
	if _, err := f.db.Exec(stmt); err != nil {
		f.t.Fatalf("failed to install failure trigger: %v", err)
	}
}
