// Package command maps subcommand names to handlers and wraps each run with
// configuration resolution, validation and entry/exit logging.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/kula-app/template-cli/internal/config"
	"github.com/kula-app/template-cli/internal/messages"
	"github.com/kula-app/template-cli/internal/parser"
)

var (
	// ErrUnknownSubcommand is returned when no handler is registered for a name.
	ErrUnknownSubcommand = errors.New("unknown subcommand")

	// ErrInvalidConfiguration is returned after validation errors were logged.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// defaultSleepInterval is how often an infinite sleep logs that it is alive.
const defaultSleepInterval = time.Hour

// Invocation is everything a handler sees for one run.
type Invocation struct {
	Subcommand string
	Args       *parser.Parsed

	// Config is nil for handlers that are not traced
	Config config.Configuration

	Stdout io.Writer
	Logger *slog.Logger
}

// Handler runs one subcommand.
type Handler struct {
	Run func(ctx context.Context, inv *Invocation) error

	// Traced handlers get a resolved and validated configuration and are
	// wrapped in entry/exit log lines.
	Traced bool
}

// Options configures a Dispatcher. Zero values fall back to process defaults.
type Options struct {
	Logger *slog.Logger
	Level  *slog.LevelVar
	Stdout io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// SleepInterval overrides how often an infinite sleep logs
	SleepInterval time.Duration
}

// Dispatcher runs subcommands by name.
type Dispatcher struct {
	logger        *slog.Logger
	level         *slog.LevelVar
	stdout        io.Writer
	getenv        func(string) string
	now           func() time.Time
	sleepInterval time.Duration
	handlers      map[string]Handler
}

// NewDispatcher creates a dispatcher with every subcommand registered.
func NewDispatcher(opts Options) *Dispatcher {
	d := &Dispatcher{
		logger:        opts.Logger,
		level:         opts.Level,
		stdout:        opts.Stdout,
		getenv:        opts.Getenv,
		now:           opts.Now,
		sleepInterval: opts.SleepInterval,
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.stdout == nil {
		d.stdout = os.Stdout
	}
	if d.getenv == nil {
		d.getenv = os.Getenv
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.sleepInterval <= 0 {
		d.sleepInterval = defaultSleepInterval
	}

	d.handlers = map[string]Handler{
		"task1":                  {Run: task1, Traced: true},
		"task2":                  {Run: task2, Traced: true},
		"sleep":                  {Run: d.sleep, Traced: true},
		"version":                {Run: version},
		"docker-acceptance-test": {Run: dockerAcceptanceTest, Traced: true},
	}
	return d
}

// Lookup returns the handler registered for name.
func (d *Dispatcher) Lookup(name string) (Handler, bool) {
	h, ok := d.handlers[name]
	return h, ok
}

// Dispatch runs the handler for parsed.Subcommand.
func (d *Dispatcher) Dispatch(ctx context.Context, parsed *parser.Parsed) error {
	handler, ok := d.Lookup(parsed.Subcommand)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSubcommand, parsed.Subcommand)
	}

	inv := &Invocation{
		Subcommand: parsed.Subcommand,
		Args:       parsed,
		Stdout:     d.stdout,
		Logger:     d.logger,
	}

	if !handler.Traced {
		return handler.Run(ctx, inv)
	}

	cfg, err := config.Resolve(parsed.Subcommand, parsed.Values, d.getenv)
	if err != nil {
		return fmt.Errorf("failed to resolve configuration: %w", err)
	}
	inv.Config = cfg

	if cfg.Bool(config.KeyDebug) && d.level != nil {
		d.level.Set(slog.LevelDebug)
		d.logger.Debug(messages.Debug(998))
	}

	if err := d.validate(cfg); err != nil {
		return err
	}

	d.logger.Info(EntryMessage(cfg, d.now()))

	if err := handler.Run(ctx, inv); err != nil {
		return err
	}

	d.logger.Info(ExitMessage(cfg, d.now()))
	return nil
}

// validate logs every collected problem before deciding whether to stop.
func (d *Dispatcher) validate(cfg config.Configuration) error {
	report := config.Validate(cfg)

	for _, msg := range report.Warnings {
		d.logger.Warn(msg)
	}
	for _, msg := range report.Errors {
		d.logger.Error(msg)
	}
	if report.HasProblems() {
		d.logger.Info(messages.Info(293))
	}
	if report.Failed() {
		d.logger.Error(messages.Error(697))
		d.logger.Error(messages.Error(698))
		return ErrInvalidConfiguration
	}
	return nil
}
