// Package budget registers the Budget Planner Pro backend checks.
//
// The checks are simulated. Each one narrates the call a real test would
// make against the managed auth and document backend and then passes; none
// of them touches the network.
package budget

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kylerisse/budgetcheck/pkg/check"
	"github.com/kylerisse/budgetcheck/pkg/fixture"
)

// Collections cleared by the admin reset.
var Collections = []string{"users", "transactions"}

// suite binds the checks to their fixtures and narration output.
type suite struct {
	fx *fixture.Fixtures
	w  io.Writer

	// txID links the add, edit and delete narrations. Read-only after Register.
	txID string
}

type entry struct {
	name   string
	action func(*suite) error
}

var entries = []entry{
	{"test_01_signup_admin", (*suite).signupAdmin},
	{"test_02_signup_regular_user", (*suite).signupRegularUser},
	{"test_03_login_admin", (*suite).loginAdmin},
	{"test_04_login_regular_user", (*suite).loginRegularUser},
	{"test_05_admin_approve_user", (*suite).adminApproveUser},
	{"test_06_add_transaction", (*suite).addTransaction},
	{"test_07_edit_transaction", (*suite).editTransaction},
	{"test_08_delete_transaction", (*suite).deleteTransaction},
	{"test_09_admin_reset_functionality", (*suite).adminReset},
	{"test_10_password_reset", (*suite).passwordReset},
}

// Names returns the names of the checks Register adds, in run order.
func Names() []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Register adds every Budget Planner check to reg. Narration is written to w.
// Either all checks are registered or, on error, none are.
func Register(reg *check.Registry, fx *fixture.Fixtures, w io.Writer) error {
	if fx == nil {
		return fmt.Errorf("budget: fixtures must not be nil")
	}
	if w == nil {
		w = io.Discard
	}

	s := &suite{fx: fx, w: w, txID: fx.NewID()}
	checks := make([]check.Check, len(entries))
	for i, e := range entries {
		e := e
		checks[i] = check.Check{Name: e.name, Action: func() error { return e.action(s) }}
	}
	if err := reg.RegisterAll(checks); err != nil {
		return fmt.Errorf("budget: %w", err)
	}
	return nil
}

// Closing writes the notes printed after a run of the simulated suite.
func Closing(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "All backend checks completed (simulated)")
	fmt.Fprintln(w, "Note: these checks are simulated; the managed backend cannot be reached from this environment.")
	fmt.Fprintln(w, "Use browser automation for end-to-end coverage of auth and document storage.")
}

func (s *suite) heading(what string) {
	fmt.Fprintf(s.w, "\n🔍 Testing %s...\n", what)
}

func (s *suite) note(format string, args ...any) {
	fmt.Fprintf(s.w, "Note: "+format+"\n", args...)
}

func (s *suite) signupAdmin() error {
	s.heading("admin signup")
	s.note("Admin signup would use the Authentication API with email: %s (auto-approved)", s.fx.TimestampedAdminEmail())
	return nil
}

func (s *suite) signupRegularUser() error {
	s.heading("regular user signup")
	s.note("Regular user signup would use the Authentication API with email: %s (pending approval)", s.fx.TimestampedRegularEmail())
	return nil
}

func (s *suite) loginAdmin() error {
	s.heading("admin login")
	s.note("Admin login would use the Authentication API with email: %s", s.fx.AdminEmail)
	return nil
}

func (s *suite) loginRegularUser() error {
	s.heading("regular user login (unapproved)")
	s.note("Regular user login would use the Authentication API with email: %s and show pending approval", s.fx.RegularEmail)
	return nil
}

func (s *suite) adminApproveUser() error {
	s.heading("admin approving a user")
	s.note("Admin approval would update the users document for %s", s.fx.RegularEmail)
	return nil
}

func (s *suite) addTransaction() error {
	s.heading("adding a transaction")
	tx := s.fx.NewTransaction()
	tx.ID = s.txID
	return s.noteDocument("Adding a transaction would write to the transactions collection with data", tx)
}

func (s *suite) editTransaction() error {
	s.heading("editing a transaction")
	return s.noteDocument("Editing a transaction would update the transactions collection with data", s.fx.UpdatedTransaction(s.txID))
}

func (s *suite) deleteTransaction() error {
	s.heading("deleting a transaction")
	s.note("Deleting a transaction would remove transactions/%s", s.txID)
	return nil
}

func (s *suite) adminReset() error {
	s.heading("admin reset functionality")
	s.note("Admin reset would delete every document in the %q and %q collections and clear local storage", Collections[0], Collections[1])
	return nil
}

func (s *suite) passwordReset() error {
	s.heading("password reset")
	s.note("Password reset would use the Authentication API to send a reset email to %s", s.fx.RegularEmail)
	return nil
}

func (s *suite) noteDocument(what string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return check.Failf("encode document: %v", err)
	}
	s.note("%s: %s", what, data)
	return nil
}
