// Package fixture holds the per-run data shared by the Budget Planner checks:
// target address, account credentials, a clock, and a seeded random source.
// Fixtures are built once and passed explicitly to the checks that use them.
package fixture

import (
	"fmt"
	"math/rand"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the preview deployment the suite was written against.
	DefaultBaseURL = "https://0e40b05a-bcec-4117-a442-bcf2e7424b58.preview.emergentagent.com"

	DefaultAdminEmail      = "admin@example.com"
	DefaultAdminPassword   = "admin123"
	DefaultRegularPassword = "test123"

	// StampLayout formats timestamps embedded in generated e-mail addresses.
	StampLayout = "20060102150405"

	// DateLayout formats transaction dates.
	DateLayout = "2006-01-02"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var (
	transactionTypes = []string{"income", "expense"}
	categories       = []string{"Food", "Transportation", "Entertainment"}
)

// Fixtures is the configuration for one run of the suite.
type Fixtures struct {
	BaseURL         string
	AdminEmail      string
	AdminPassword   string
	RegularEmail    string
	RegularPassword string

	now  func() time.Time
	seed int64
	rng  *rand.Rand
}

// Option is a functional option for configuring Fixtures.
type Option func(*Fixtures) error

// WithBaseURL sets the application address. It must be an absolute URL.
func WithBaseURL(raw string) Option {
	return func(f *Fixtures) error {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid base URL %q: %w", raw, err)
		}
		if !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("base URL %q must be absolute", raw)
		}
		f.BaseURL = strings.TrimSuffix(raw, "/")
		return nil
	}
}

// WithAdminEmail sets the administrator address. A display name, as in
// "Admin <admin@example.com>", is dropped.
func WithAdminEmail(addr string) Option {
	return func(f *Fixtures) error {
		parsed, err := mail.ParseAddress(addr)
		if err != nil {
			return fmt.Errorf("invalid admin email %q: %w", addr, err)
		}
		f.AdminEmail = parsed.Address
		return nil
	}
}

// WithAdminPassword sets the administrator password.
func WithAdminPassword(pw string) Option {
	return func(f *Fixtures) error {
		if pw == "" {
			return fmt.Errorf("admin password must not be empty")
		}
		f.AdminPassword = pw
		return nil
	}
}

// WithRegularPassword sets the password for the generated regular user.
func WithRegularPassword(pw string) Option {
	return func(f *Fixtures) error {
		if pw == "" {
			return fmt.Errorf("regular password must not be empty")
		}
		f.RegularPassword = pw
		return nil
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(f *Fixtures) error {
		if now == nil {
			return fmt.Errorf("clock must not be nil")
		}
		f.now = now
		return nil
	}
}

// WithSeed fixes the random source so generated data is reproducible.
func WithSeed(seed int64) Option {
	return func(f *Fixtures) error {
		f.seed = seed
		f.rng = rand.New(rand.NewSource(seed))
		return nil
	}
}

// New builds Fixtures with defaults, then applies opts.
// Without WithSeed the random source is seeded from the clock.
func New(opts ...Option) (*Fixtures, error) {
	f := &Fixtures{
		BaseURL:         DefaultBaseURL,
		AdminEmail:      DefaultAdminEmail,
		AdminPassword:   DefaultAdminPassword,
		RegularPassword: DefaultRegularPassword,
		now:             time.Now,
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("fixture: %w", err)
		}
	}

	if f.rng == nil {
		f.seed = f.now().UnixNano()
		f.rng = rand.New(rand.NewSource(f.seed))
	}

	f.RegularEmail = fmt.Sprintf("test_user_%s@example.com", f.Stamp())

	return f, nil
}

// Seed returns the seed of the random source.
func (f *Fixtures) Seed() int64 {
	return f.seed
}

// Now returns the current time from the fixture clock.
func (f *Fixtures) Now() time.Time {
	return f.now()
}

// Stamp returns the current time formatted with StampLayout.
func (f *Fixtures) Stamp() string {
	return f.now().Format(StampLayout)
}

// TimestampedAdminEmail returns a unique variant of AdminEmail using a
// "+<stamp>" suffix on the local part.
func (f *Fixtures) TimestampedAdminEmail() string {
	local, domain, ok := strings.Cut(f.AdminEmail, "@")
	if !ok {
		return f.AdminEmail
	}
	return fmt.Sprintf("%s+%s@%s", local, f.Stamp(), domain)
}

// TimestampedRegularEmail returns a fresh regular-user address for the
// current clock time.
func (f *Fixtures) TimestampedRegularEmail() string {
	return fmt.Sprintf("test_user_%s@example.com", f.Stamp())
}

// RandomString returns n random letters and digits.
// A non-positive n yields the default length of 8.
func (f *Fixtures) RandomString(n int) string {
	if n <= 0 {
		n = 8
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[f.rng.Intn(len(alphanumeric))]
	}
	return string(b)
}

// NewID returns a transaction ID drawn from the fixture random source.
func (f *Fixtures) NewID() string {
	return uuid.Must(uuid.NewRandomFromReader(f.rng)).String()
}
