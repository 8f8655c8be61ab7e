package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kylerisse/budgetcheck/pkg/budget"
	"github.com/kylerisse/budgetcheck/pkg/check"
	checkdns "github.com/kylerisse/budgetcheck/pkg/check/dns"
	checkhttp "github.com/kylerisse/budgetcheck/pkg/check/http"
	"github.com/kylerisse/budgetcheck/pkg/fixture"
	"github.com/kylerisse/budgetcheck/pkg/runner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"
)

type options struct {
	baseURL         string
	adminEmail      string
	adminPassword   string
	regularPassword string
	seed            int64
	seedSet         bool
	pace            float64
	resolver        string
	resolveExpect   string
	probe           bool
	skipVerify      bool
	logLevel        string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one pass of the suite. It returns 0 after any completed run,
// whatever the check outcomes; setup errors return 1 or 2.
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := setupLogging(opts.logLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "budgetcheck: %v\n", err)
		return 2
	}

	r, err := setup(opts, logger, stdout)
	if err != nil {
		logger.Errorf("Setup failed: %v", err)
		return 1
	}

	r.RunAll()
	budget.Closing(stdout)
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("budgetcheck", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.baseURL, "base-url", fixture.DefaultBaseURL, "application base URL")
	fs.StringVar(&opts.adminEmail, "admin-email", fixture.DefaultAdminEmail, "administrator e-mail address")
	fs.StringVar(&opts.adminPassword, "admin-password", fixture.DefaultAdminPassword, "administrator password")
	fs.StringVar(&opts.regularPassword, "regular-password", fixture.DefaultRegularPassword, "password for the generated regular user")
	fs.Int64Var(&opts.seed, "seed", 0, "seed for generated test data (default: current time)")
	fs.Float64Var(&opts.pace, "pace", 0, "maximum checks started per second (0 = unlimited)")
	fs.StringVar(&opts.resolver, "resolver", "", "DNS server (host[:port]); enables the host resolution preflight")
	fs.StringVar(&opts.resolveExpect, "resolve-expect", "", "IPv4 address the resolution preflight must return")
	fs.BoolVar(&opts.probe, "probe", false, "enable the HTTP reachability preflight")
	fs.BoolVar(&opts.skipVerify, "insecure", false, "skip TLS verification in the HTTP preflight")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.resolveExpect != "" && opts.resolver == "" {
		err := fmt.Errorf("--resolve-expect requires --resolver")
		fmt.Fprintf(stderr, "budgetcheck: %v\n", err)
		return opts, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %v", fs.Args())
		fmt.Fprintf(stderr, "budgetcheck: %v\n", err)
		return opts, err
	}
	opts.seedSet = fs.Changed("seed")
	return opts, nil
}

func setupLogging(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}

// setup builds the fixtures, registers every check and returns a runner.
func setup(opts options, logger *logrus.Logger, stdout io.Writer) (*runner.Runner, error) {
	fxOpts := []fixture.Option{
		fixture.WithBaseURL(opts.baseURL),
		fixture.WithAdminEmail(opts.adminEmail),
		fixture.WithAdminPassword(opts.adminPassword),
		fixture.WithRegularPassword(opts.regularPassword),
	}
	if opts.seedSet {
		fxOpts = append(fxOpts, fixture.WithSeed(opts.seed))
	}
	fx, err := fixture.New(fxOpts...)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Fixtures: base URL %s, regular user %s, seed %d", fx.BaseURL, fx.RegularEmail, fx.Seed())

	reg := check.NewRegistry()
	if err := registerPreflights(reg, opts, fx); err != nil {
		return nil, err
	}
	if err := budget.Register(reg, fx, stdout); err != nil {
		return nil, err
	}
	logger.Infof("Registered %d check(s)", reg.Len())

	return runner.New(reg,
		runner.WithLogger(logger),
		runner.WithOutput(stdout),
		runner.WithPace(rate.Limit(opts.pace)),
	)
}

func registerPreflights(reg *check.Registry, opts options, fx *fixture.Fixtures) error {
	if opts.resolver != "" {
		host, err := checkdns.HostFromURL(fx.BaseURL)
		if err != nil {
			return err
		}
		var dnsOpts []checkdns.Option
		if opts.resolveExpect != "" {
			dnsOpts = append(dnsOpts, checkdns.WithExpect(opts.resolveExpect))
		}
		chk, err := checkdns.New(opts.resolver, host, dnsOpts...)
		if err != nil {
			return err
		}
		if err := reg.Register(checkdns.Name, chk.Run); err != nil {
			return err
		}
	}

	if opts.probe {
		chk, err := checkhttp.New(fx.BaseURL, checkhttp.WithSkipVerify(opts.skipVerify))
		if err != nil {
			return err
		}
		if err := reg.Register(checkhttp.Name, chk.Run); err != nil {
			return err
		}
	}

	return nil
}
