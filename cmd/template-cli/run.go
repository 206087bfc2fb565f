package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/kula-app/template-cli/internal/command"
	"github.com/kula-app/template-cli/internal/config"
	"github.com/kula-app/template-cli/internal/lifecycle"
	"github.com/kula-app/template-cli/internal/logging"
	"github.com/kula-app/template-cli/internal/messages"
	"github.com/kula-app/template-cli/internal/parser"
)

// exitProcess terminates the process from signal handlers.
var exitProcess = os.Exit

// ExitError ends the program with Code once its messages have been logged.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// The run function is like the main function, except that it takes in operating system fundamentals as arguments, and returns an error.
//
// A nil error means exit status 0: the subcommand completed, help was shown,
// or the subcommand was unknown. Failures are returned as *ExitError after
// they have been logged.
func run(ctx context.Context, args []string, getenv func(key string) string, stdout, stderr io.Writer) error {
	level := new(slog.LevelVar)
	level.Set(logging.ParseLevel(getenv(config.EnvLogLevel)))
	logger := slog.New(logging.NewTerminalHandler(stderr, level))
	logger.Debug(messages.Debug(998))

	// Trap signals until the arguments are known.
	trap := lifecycle.NewTrap(lifecycle.Bootstrap{Logger: logger, Exit: exitProcess}, os.Interrupt, syscall.SIGTERM)
	defer trap.Stop()

	prog := "template-cli"
	if len(args) > 0 {
		prog = filepath.Base(args[0])
	}
	p := parser.New(prog, stdout)

	dispatcher := command.NewDispatcher(command.Options{
		Logger: logger,
		Level:  level,
		Stdout: stdout,
		Getenv: getenv,
	})

	var parsed *parser.Parsed
	switch subcommand := getenv(config.EnvSubcommand); {
	case len(args) > 1:
		var err error
		parsed, err = p.Parse(ctx, args)
		if err != nil {
			return fmt.Errorf("failed to parse arguments: %w", err)
		}
		if parsed == nil {
			return nil
		}
	case subcommand != "":
		parsed = &parser.Parsed{Subcommand: subcommand, Values: map[string]any{}}
	default:
		if err := p.PrintHelp(ctx); err != nil {
			return fmt.Errorf("failed to print help: %w", err)
		}
		if getenv(config.EnvDockerLaunched) == "" {
			return nil
		}
		// Containers without a subcommand stay alive for inspection.
		parsed = &parser.Parsed{Subcommand: "sleep", Values: map[string]any{}}
	}

	trap.Install(lifecycle.Shutdown{Logger: logger, Args: parsed, Exit: exitProcess})

	if parsed.Subcommand == "" {
		return fail(logger, messages.Error(694, parsed), errors.New("no subcommand"))
	}

	err := dispatcher.Dispatch(ctx, parsed)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, command.ErrUnknownSubcommand):
		logger.Warn(messages.Warning(696, parsed.Subcommand))
		if err := p.PrintHelp(ctx); err != nil {
			return fmt.Errorf("failed to print help: %w", err)
		}
		return nil
	case errors.Is(err, command.ErrInvalidConfiguration):
		return &ExitError{Code: 1, Err: err}
	default:
		return fail(logger, messages.Error(699, err), err)
	}
}

// fail logs msg followed by the termination notice.
func fail(logger *slog.Logger, msg string, err error) error {
	logger.Error(msg)
	logger.Error(messages.Error(698))
	return &ExitError{Code: 1, Err: err}
}
