package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/kylerisse/budgetcheck/pkg/check"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestRunner(t *testing.T, reg *check.Registry, out io.Writer, opts ...Option) *Runner {
	t.Helper()
	opts = append([]Option{WithLogger(testLogger()), WithOutput(out)}, opts...)
	r, err := New(reg, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func mustRegister(t *testing.T, reg *check.Registry, name string, action check.Action) {
	t.Helper()
	if err := reg.Register(name, action); err != nil {
		t.Fatalf("Register(%q) failed: %v", name, err)
	}
}

func TestNew_NilRegistry(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil registry")
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	reg := check.NewRegistry()

	if _, err := New(reg, WithLogger(nil)); err == nil {
		t.Error("expected error for nil logger")
	}
	if _, err := New(reg, WithOutput(nil)); err == nil {
		t.Error("expected error for nil output")
	}
	if _, err := New(reg, WithPace(-1)); err == nil {
		t.Error("expected error for negative pace")
	}
	if _, err := New(reg, WithClock(nil)); err == nil {
		t.Error("expected error for nil clock")
	}
}

func TestRunAll_EndToEnd(t *testing.T) {
	reg := check.NewRegistry()
	mustRegister(t, reg, "c", func() error { return nil })
	mustRegister(t, reg, "a", func() error { return nil })
	mustRegister(t, reg, "b", func() error { return check.Fail("boom") })

	var out bytes.Buffer
	report := newTestRunner(t, reg, &out).RunAll()

	expected := []struct {
		name    string
		outcome check.Outcome
		message string
	}{
		{"a", check.Passed, ""},
		{"b", check.Failed, "boom"},
		{"c", check.Passed, ""},
	}
	if len(report.Results) != len(expected) {
		t.Fatalf("expected %d results, got %d", len(expected), len(report.Results))
	}
	for i, want := range expected {
		got := report.Results[i]
		if got.Name != want.name || got.Outcome != want.outcome || got.Message != want.message {
			t.Errorf("result %d: expected (%s, %s, %q), got (%s, %s, %q)",
				i, want.name, want.outcome, want.message, got.Name, got.Outcome, got.Message)
		}
	}

	if report.Summary.String() != "2 passed, 1 failed" {
		t.Errorf("unexpected summary %q", report.Summary.String())
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	wantLines := []string{"PASS a", "FAIL b: boom", "PASS c", "2 passed, 1 failed"}
	if len(lines) != len(wantLines) {
		t.Fatalf("expected %d lines, got %d: %q", len(wantLines), len(lines), out.String())
	}
	for i, want := range wantLines {
		if lines[i] != want {
			t.Errorf("line %d: expected %q, got %q", i, want, lines[i])
		}
	}
}

func TestRunAll_FailureDoesNotStopRun(t *testing.T) {
	reg := check.NewRegistry()
	var ran []string
	record := func(name string, err error) check.Action {
		return func() error {
			ran = append(ran, name)
			return err
		}
	}
	mustRegister(t, reg, "first", record("first", nil))
	mustRegister(t, reg, "second", record("second", errors.New("always fails")))
	mustRegister(t, reg, "third", record("third", nil))

	report := newTestRunner(t, reg, io.Discard).RunAll()

	if len(ran) != 3 {
		t.Fatalf("expected all 3 checks to run, ran %v", ran)
	}
	if !report.Results[0].OK() || report.Results[1].OK() || !report.Results[2].OK() {
		t.Errorf("unexpected outcomes: %+v", report.Results)
	}
	if report.Results[1].Message != "always fails" {
		t.Errorf("expected plain error message, got %q", report.Results[1].Message)
	}
}

func TestRunAll_LexicographicOrder(t *testing.T) {
	reg := check.NewRegistry()
	var ran []string
	for _, name := range []string{"test_02_y", "test_10_z", "test_01_x"} {
		name := name
		mustRegister(t, reg, name, func() error {
			ran = append(ran, name)
			return nil
		})
	}

	report := newTestRunner(t, reg, io.Discard).RunAll()

	expected := []string{"test_01_x", "test_02_y", "test_10_z"}
	for i, want := range expected {
		if ran[i] != want {
			t.Errorf("run %d: expected %q, got %q", i, want, ran[i])
		}
		if report.Results[i].Name != want {
			t.Errorf("result %d: expected %q, got %q", i, want, report.Results[i].Name)
		}
	}
}

func TestRunAll_EachCheckOnce(t *testing.T) {
	reg := check.NewRegistry()
	counts := make(map[string]int)
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("check-%02d", i)
		mustRegister(t, reg, name, func() error {
			counts[name]++
			return nil
		})
	}

	report := newTestRunner(t, reg, io.Discard).RunAll()

	if len(report.Results) != 20 {
		t.Fatalf("expected 20 results, got %d", len(report.Results))
	}
	seen := make(map[string]bool)
	for _, res := range report.Results {
		if seen[res.Name] {
			t.Errorf("duplicate result for %q", res.Name)
		}
		seen[res.Name] = true
	}
	for name, n := range counts {
		if n != 1 {
			t.Errorf("check %q ran %d times", name, n)
		}
	}
}

func TestRunAll_Empty(t *testing.T) {
	var out bytes.Buffer
	report := newTestRunner(t, check.NewRegistry(), &out).RunAll()

	if len(report.Results) != 0 {
		t.Errorf("expected no results, got %d", len(report.Results))
	}
	if report.Summary.Passed != 0 || report.Summary.Failed != 0 {
		t.Errorf("expected zero summary, got %+v", report.Summary)
	}
	if out.String() != "0 passed, 0 failed\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunAll_PanicIsFailure(t *testing.T) {
	reg := check.NewRegistry()
	mustRegister(t, reg, "a", func() error { panic("kaboom") })
	mustRegister(t, reg, "b", func() error { return nil })

	report := newTestRunner(t, reg, io.Discard).RunAll()

	if report.Results[0].OK() {
		t.Fatal("expected panicking check to fail")
	}
	if report.Results[0].Message != "panic: kaboom" {
		t.Errorf("unexpected message %q", report.Results[0].Message)
	}
	if !report.Results[1].OK() {
		t.Error("expected check after panic to pass")
	}
}

func TestRunAll_Failures(t *testing.T) {
	reg := check.NewRegistry()
	mustRegister(t, reg, "a", func() error { return check.Fail("x") })
	mustRegister(t, reg, "b", func() error { return nil })
	mustRegister(t, reg, "c", func() error { return check.Fail("y") })

	failed := newTestRunner(t, reg, io.Discard).RunAll().Failures()
	if len(failed) != 2 || failed[0].Name != "a" || failed[1].Name != "c" {
		t.Errorf("unexpected failures %+v", failed)
	}
}

func TestRunAll_Clock(t *testing.T) {
	reg := check.NewRegistry()
	mustRegister(t, reg, "a", func() error { return nil })

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * time.Second)
	}

	report := newTestRunner(t, reg, io.Discard, WithClock(clock)).RunAll()

	res := report.Results[0]
	if !res.Timestamp.Equal(base) {
		t.Errorf("expected timestamp %v, got %v", base, res.Timestamp)
	}
	if res.Duration != time.Second {
		t.Errorf("expected duration 1s, got %v", res.Duration)
	}
}

func TestRunAll_PacedKeepsOrder(t *testing.T) {
	reg := check.NewRegistry()
	var ran []string
	for _, name := range []string{"b", "a", "c"} {
		name := name
		mustRegister(t, reg, name, func() error {
			ran = append(ran, name)
			return nil
		})
	}

	report := newTestRunner(t, reg, io.Discard, WithPace(rate.Limit(1000))).RunAll()

	if len(report.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(report.Results))
	}
	if strings.Join(ran, ",") != "a,b,c" {
		t.Errorf("expected a,b,c, got %v", ran)
	}
}

func TestWithPace_ZeroDisables(t *testing.T) {
	r, err := New(check.NewRegistry(), WithPace(0))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if r.limiter != nil {
		t.Error("expected no limiter for zero pace")
	}
}

func TestRunAll_PaceSpacesStarts(t *testing.T) {
	reg := check.NewRegistry()
	var starts []time.Time
	for _, name := range []string{"a", "b", "c"} {
		mustRegister(t, reg, name, func() error {
			starts = append(starts, time.Now())
			return nil
		})
	}

	report := newTestRunner(t, reg, io.Discard, WithPace(rate.Limit(20))).RunAll()

	if len(report.Results) != 3 || len(starts) != 3 {
		t.Fatalf("expected 3 checks to run, got %d results and %d starts", len(report.Results), len(starts))
	}
	// 20 per second with a burst of one spaces starts by 50ms.
	for i := 1; i < len(starts); i++ {
		if gap := starts[i].Sub(starts[i-1]); gap < 40*time.Millisecond {
			t.Errorf("start %d followed start %d after %v, expected about 50ms", i, i-1, gap)
		}
	}
}
