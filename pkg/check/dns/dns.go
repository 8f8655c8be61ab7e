// Package dns implements a preflight check that resolves the application
// host against a specific DNS server. The check passes when the server
// answers with at least one A record, or with the expected address when
// one is configured.
package dns

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/kylerisse/budgetcheck/pkg/check"
	"github.com/miekg/dns"
)

const (
	// Name is the registered check name.
	Name = "preflight_resolve_host"

	// DefaultTimeout is the default DNS query timeout.
	DefaultTimeout = 3 * time.Second
)

// Check resolves a host name through one DNS server.
type Check struct {
	server  string // host:port of the DNS server
	host    string
	expect  string // optional expected address (normalized)
	timeout time.Duration
	client  *dns.Client
}

// Option is a functional option for configuring a DNS Check.
type Option func(*Check) error

// WithTimeout sets the DNS query timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Check) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		c.timeout = d
		return nil
	}
}

// WithExpect requires the answer to contain the given IPv4 address.
func WithExpect(ip string) Option {
	return func(c *Check) error {
		parsed := net.ParseIP(ip)
		if parsed == nil || parsed.To4() == nil {
			return fmt.Errorf("expected address %q is not an IPv4 address", ip)
		}
		c.expect = parsed.String()
		return nil
	}
}

// New creates a DNS Check that resolves host through server.
// A server without a port, including a bracketed IPv6 address, gets port 53.
func New(server string, host string, opts ...Option) (*Check, error) {
	if server == "" {
		return nil, fmt.Errorf("dns: server must not be empty")
	}
	if host == "" {
		return nil, fmt.Errorf("dns: host must not be empty")
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(strings.TrimSuffix(strings.TrimPrefix(server, "["), "]"), "53")
	}

	c := &Check{
		server:  server,
		host:    strings.TrimSuffix(host, "."),
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("dns: %w", err)
		}
	}

	c.client = &dns.Client{
		Timeout: c.timeout,
	}

	return c, nil
}

// Run sends an A query for the host and returns a check failure when the
// query errors, the server answers with a non-success rcode, or the answer
// holds no matching record.
func (c *Check) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(c.host), dns.TypeA)
	msg.RecursionDesired = true

	resp, _, err := c.client.ExchangeContext(ctx, msg, c.server)
	if err != nil {
		return check.Failf("dns A %s: %v", c.host, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return check.Failf("dns A %s: rcode %s", c.host, dns.RcodeToString[resp.Rcode])
	}
	if err := validateAnswer(resp.Answer, c.expect); err != nil {
		return check.Failf("dns A %s: %v", c.host, err)
	}
	return nil
}

// validateAnswer checks that the answer section holds an A record, matching
// expect when it is set.
func validateAnswer(rrs []dns.RR, expect string) error {
	found := false
	for _, rr := range rrs {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		if expect == "" || a.A.String() == expect {
			return nil
		}
		found = true
	}
	if found {
		return fmt.Errorf("expected %q not found in answer", expect)
	}
	return fmt.Errorf("no A record in answer")
}

// HostFromURL returns the host part of an absolute URL.
func HostFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("dns: invalid URL %q: %w", raw, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("dns: no host in URL %q", raw)
	}
	return u.Hostname(), nil
}
