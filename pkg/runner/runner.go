// Package runner executes every check in a registry once, in name order,
// and reports a line per check followed by a summary line.
//
// A failing or panicking check never stops the run: its failure is recorded
// and the runner moves on to the next check.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kylerisse/budgetcheck/pkg/check"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Report is the ordered outcome of one run.
type Report struct {
	Results []check.Result
	Summary check.Summary
}

// Failures returns the failed results in run order.
func (r Report) Failures() []check.Result {
	var failed []check.Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Runner runs the checks held by a Registry.
type Runner struct {
	registry *check.Registry
	logger   *logrus.Logger
	out      io.Writer
	limiter  *rate.Limiter
	now      func() time.Time
}

// Option is a functional option for configuring a Runner.
type Option func(*Runner) error

// WithLogger sets the logger. The default logs to stderr at info level.
func WithLogger(l *logrus.Logger) Option {
	return func(r *Runner) error {
		if l == nil {
			return fmt.Errorf("logger must not be nil")
		}
		r.logger = l
		return nil
	}
}

// WithOutput sets where report lines are written. The default is stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) error {
		if w == nil {
			return fmt.Errorf("output must not be nil")
		}
		r.out = w
		return nil
	}
}

// WithPace limits how many checks start per second.
// A limit of 0 or rate.Inf disables pacing.
func WithPace(limit rate.Limit) Option {
	return func(r *Runner) error {
		if limit < 0 {
			return fmt.Errorf("pace must not be negative, got %v", limit)
		}
		if limit == 0 || limit == rate.Inf {
			r.limiter = nil
			return nil
		}
		r.limiter = rate.NewLimiter(limit, 1)
		return nil
	}
}

// WithClock overrides the time source used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) error {
		if now == nil {
			return fmt.Errorf("clock must not be nil")
		}
		r.now = now
		return nil
	}
}

// New creates a Runner for the given registry.
func New(reg *check.Registry, opts ...Option) (*Runner, error) {
	if reg == nil {
		return nil, fmt.Errorf("runner: registry must not be nil")
	}

	r := &Runner{
		registry: reg,
		logger:   logrus.New(),
		out:      os.Stdout,
		now:      time.Now,
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("runner: %w", err)
		}
	}

	return r, nil
}

// RunAll executes every registered check exactly once in name order,
// writes one line per check and a summary line, and returns the report.
func (r *Runner) RunAll() Report {
	checks := r.registry.List()
	report := Report{
		Results: make([]check.Result, 0, len(checks)),
	}

	r.logger.Debugf("Running %d check(s)", len(checks))

	for _, chk := range checks {
		r.pace()

		res := r.runOne(chk)
		report.Results = append(report.Results, res)
		report.Summary.Add(res)

		fmt.Fprintln(r.out, res)
	}

	fmt.Fprintln(r.out, report.Summary)
	r.logger.Infof("Run complete: %s", report.Summary)

	return report
}

// runOne executes a single check and converts its error, if any, into a
// failed result.
func (r *Runner) runOne(chk check.Check) check.Result {
	r.logger.Debugf("Check %s: starting", chk.Name)

	start := r.now()
	err := invoke(chk)
	res := check.Result{
		Name:      chk.Name,
		Outcome:   check.Passed,
		Timestamp: start,
		Duration:  r.now().Sub(start),
	}

	if err != nil {
		res.Outcome = check.Failed
		res.Message = err.Error()
		r.logger.Warnf("Check %s: failed (%v)", chk.Name, err)
		return res
	}

	r.logger.Infof("Check %s: passed in %v", chk.Name, res.Duration)
	return res
}

// invoke runs the check, turning a panic into a failure.
func invoke(chk check.Check) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = check.Failf("panic: %v", p)
		}
	}()
	return chk.Run()
}

func (r *Runner) pace() {
	if r.limiter == nil {
		return
	}
	if err := r.limiter.Wait(context.Background()); err != nil {
		r.logger.Warnf("Pacing skipped: %v", err)
	}
}
