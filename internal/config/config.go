package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"
)

var ErrWrongArgs = errors.New("wrong args")

type Config struct {
	Workers  int
	Ops      int
	RPS      int
	Duration time.Duration

	Initial int
	Values  int
	MaxHeld int

	MetricsAddr string
	Debug       bool
}

// New parses the command line arguments, excluding the program name.
// Usage is written to out when the arguments are wrong or help is requested.
func New(args []string, out io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("conlist-workload", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, help)
	}

	fs.IntVar(&cfg.Workers, "workers", 4, "number of concurrent workers")
	fs.IntVar(&cfg.Workers, "w", 4, "number of concurrent workers (shorthand)")
	fs.IntVar(&cfg.Ops, "ops", 10000, "operations per worker, 0 for unlimited")
	fs.IntVar(&cfg.RPS, "rps", 0, "operations per second across all workers, 0 for unlimited")
	fs.DurationVar(&cfg.Duration, "duration", 0, "maximum run time, 0 for unlimited")

	fs.IntVar(&cfg.Initial, "initial", 1000, "number of values the list starts with")
	fs.IntVar(&cfg.Values, "values", 1000, "size of the random value domain")
	fs.IntVar(&cfg.MaxHeld, "max-held", 16, "iterators each worker holds across mutations")

	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "address to serve prometheus metrics on")
	fs.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		fmt.Fprint(out, help)
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrWrongArgs, fs.Arg(0))
	}

	if err := cfg.validate(); err != nil {
		fmt.Fprint(out, help)
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	switch {
	case cfg.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrWrongArgs)
	case cfg.Ops < 0, cfg.RPS < 0, cfg.Duration < 0, cfg.Initial < 0, cfg.MaxHeld < 0:
		return fmt.Errorf("%w: negative value", ErrWrongArgs)
	case cfg.Values <= 0:
		return fmt.Errorf("%w: values must be positive", ErrWrongArgs)
	case cfg.Ops == 0 && cfg.Duration == 0:
		return fmt.Errorf("%w: either ops or duration must be set", ErrWrongArgs)
	}

	return nil
}
