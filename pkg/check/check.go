// Package check defines the core types for named checks.
//
// A Check pairs a unique name with an Action. The action either returns
// nil (the check passed) or an error (the check failed). Failures are
// usually signaled with a *Failure built by Fail or Failf, but any error
// counts.
//
// The Registry holds checks for a single run and hands them out sorted by
// name so that runs are deterministic.
package check

// Action is the body of a check. It returns nil when the check passes.
type Action func() error

// Check is a registered, named unit of verification.
type Check struct {
	// Name is unique within the Registry that holds the check.
	Name string

	// Action runs the check.
	Action Action
}

// Run invokes the check's action.
func (c Check) Run() error {
	return c.Action()
}
