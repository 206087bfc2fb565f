package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kula-app/template-cli/internal/config"
	"github.com/kula-app/template-cli/internal/example"
	"github.com/kula-app/template-cli/internal/messages"
)

func task1(_ context.Context, inv *Invocation) error {
	if err := example.Greet(inv.Stdout); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(inv.Stdout, example.Echo(5)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(inv.Stdout, "senzing-dir: %s; debug: %t\n",
		inv.Config.String(config.KeySenzingDir), inv.Config.Bool(config.KeyDebug))
	return err
}

// task2 prints the complete configuration, sensitive keys included.
func task2(_ context.Context, inv *Invocation) error {
	b, err := json.MarshalIndent(inv.Config, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = fmt.Fprintln(inv.Stdout, string(b))
	return err
}

func version(_ context.Context, inv *Invocation) error {
	inv.Logger.Info(messages.Info(294, config.ProgramVersion, config.ProgramUpdated))
	inv.Logger.Debug(messages.Debug(902, inv.Subcommand, inv.Args))
	return nil
}

func dockerAcceptanceTest(context.Context, *Invocation) error {
	return nil
}

// sleep blocks for the configured number of seconds, or forever when the
// value is not positive. While it sleeps, changes to the config file are
// logged.
func (d *Dispatcher) sleep(ctx context.Context, inv *Invocation) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if path := inv.Config.String(config.KeyConfigFile); path != "" {
		d.watchConfigFile(ctx, g, inv, path)
	}

	g.Go(func() error {
		defer cancel()
		return d.sleepFor(ctx, inv.Config.Int(config.KeySleepTimeInSeconds))
	})

	return g.Wait()
}

func (d *Dispatcher) sleepFor(ctx context.Context, seconds int) error {
	if seconds > 0 {
		d.logger.Info(messages.Info(296, seconds))
		return wait(ctx, time.Duration(seconds)*time.Second)
	}

	for {
		d.logger.Info(messages.Info(295))
		if err := wait(ctx, d.sleepInterval); err != nil {
			return err
		}
	}
}

// watchConfigFile logs each settled change of the file at path. Failures to
// watch are warnings; they never end the sleep.
func (d *Dispatcher) watchConfigFile(ctx context.Context, g *errgroup.Group, inv *Invocation, path string) {
	fw, err := config.NewFileWatcher(path)
	if err != nil {
		d.logger.Warn(messages.Warning(301, path, err))
		return
	}

	loggable := func(values map[string]any) string {
		cfg := config.Configuration(values)
		if !inv.Config.Bool(config.KeyDebug) {
			cfg = cfg.Redact()
		}
		return cfg.JSON()
	}

	previous, err := config.LoadFile(path)
	if err != nil {
		previous = map[string]any{}
	}

	g.Go(func() error {
		if err := fw.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Warn(messages.Warning(301, path, err))
		}
		return nil
	})

	g.Go(func() error {
		for range fw.Update() {
			current, err := config.LoadFile(path)
			if err != nil {
				d.logger.Warn(messages.Warning(301, path, err))
				continue
			}
			d.logger.Info(messages.Info(292, loggable(previous), loggable(current)))
			previous = current
		}
		return nil
	})
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
