package check

import (
	"fmt"
	"time"
)

// Outcome is the verdict of a single check execution.
type Outcome string

const (
	Passed Outcome = "passed"
	Failed Outcome = "failed"
)

// Result captures the outcome of a single check execution.
type Result struct {
	// Name is the name of the check that produced this result.
	Name string

	// Outcome is Passed or Failed.
	Outcome Outcome

	// Message holds the failure reason. Empty when the check passed.
	Message string

	// Timestamp is when the check started.
	Timestamp time.Time

	// Duration is how long the action ran.
	Duration time.Duration
}

// OK returns true if the check passed.
func (r Result) OK() bool {
	return r.Outcome == Passed
}

// String renders the result as a single report line.
func (r Result) String() string {
	if r.OK() {
		return "PASS " + r.Name
	}
	return fmt.Sprintf("FAIL %s: %s", r.Name, r.Message)
}

// Summary counts the outcomes of a run.
type Summary struct {
	Passed int
	Failed int
}

// Add counts one result.
func (s *Summary) Add(r Result) {
	if r.OK() {
		s.Passed++
	} else {
		s.Failed++
	}
}

// Total returns the number of counted results.
func (s Summary) Total() int {
	return s.Passed + s.Failed
}

func (s Summary) String() string {
	return fmt.Sprintf("%d passed, %d failed", s.Passed, s.Failed)
}
