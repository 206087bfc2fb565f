// Package parser declares the command-line surface and turns arguments into
// a subcommand name plus the values the user supplied.
package parser

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/kula-app/template-cli/internal/config"
)

// Action selects how a flag stores its value.
type Action int

const (
	// Store keeps the flag's string argument
	Store Action = iota
	// StoreTrue is a boolean switch
	StoreTrue
)

// FlagSpec declares one command-line flag.
type FlagSpec struct {
	Name    string
	Dest    string
	Metavar string
	Help    string
	Action  Action
}

// SubcommandSpec declares a subcommand with its own flags and the aspects
// whose flags it shares.
type SubcommandSpec struct {
	Name    string
	Help    string
	Aspects []string
	Flags   []FlagSpec
}

// Aspects are reusable bundles of flags, keyed by name.
var aspects = map[string][]FlagSpec{
	"common": {
		{
			Name:   "debug",
			Dest:   config.KeyDebug,
			Action: StoreTrue,
			Help:   "Enable debugging. (SENZING_DEBUG) Default: False",
		},
		{
			Name:    "engine-configuration-json",
			Dest:    config.KeyEngineConfigurationJSON,
			Metavar: "SENZING_ENGINE_CONFIGURATION_JSON",
			Help:    "Advanced Senzing engine configuration. Default: none",
		},
	},
	"config": {
		{
			Name:    "config-file",
			Dest:    config.KeyConfigFile,
			Metavar: "SENZING_CONFIG_FILE",
			Help:    "YAML file of configuration values. Default: none",
		},
	},
}

var subcommands = []SubcommandSpec{
	{
		Name:    "task1",
		Help:    "Example task #1.",
		Aspects: []string{"common", "config"},
		Flags: []FlagSpec{
			{
				Name:    "senzing-dir",
				Dest:    config.KeySenzingDir,
				Metavar: "SENZING_DIR",
				Help:    "Location of Senzing. Default: /opt/senzing",
			},
		},
	},
	{
		Name:    "task2",
		Help:    "Example task #2.",
		Aspects: []string{"common", "config"},
		Flags: []FlagSpec{
			{
				Name:    "password",
				Dest:    config.KeyPassword,
				Metavar: "SENZING_PASSWORD",
				Help:    "Example of information redacted in the log. Default: None",
			},
		},
	},
	{
		Name:    "sleep",
		Help:    "Do nothing but sleep. For Docker testing.",
		Aspects: []string{"config"},
		Flags: []FlagSpec{
			{
				Name:    "sleep-time-in-seconds",
				Dest:    config.KeySleepTimeInSeconds,
				Metavar: "SENZING_SLEEP_TIME_IN_SECONDS",
				Help:    "Sleep time in seconds. DEFAULT: 0 (infinite)",
			},
		},
	},
	{
		Name: "version",
		Help: "Print version of program.",
	},
	{
		Name:    "docker-acceptance-test",
		Help:    "For Docker acceptance testing.",
		Aspects: []string{"config"},
	},
}

// Compose merges the flags of each spec's aspects into the spec. Flags the
// subcommand declares itself are never replaced by an aspect flag of the same
// name. Unknown aspect names contribute nothing.
func Compose(specs []SubcommandSpec, aspects map[string][]FlagSpec) []SubcommandSpec {
	out := make([]SubcommandSpec, 0, len(specs))
	for _, spec := range specs {
		merged := spec
		merged.Flags = append([]FlagSpec(nil), spec.Flags...)
		seen := make(map[string]bool, len(spec.Flags))
		for _, f := range spec.Flags {
			seen[f.Name] = true
		}
		for _, aspect := range spec.Aspects {
			for _, f := range aspects[aspect] {
				if seen[f.Name] {
					continue
				}
				seen[f.Name] = true
				merged.Flags = append(merged.Flags, f)
			}
		}
		out = append(out, merged)
	}
	return out
}

// Subcommands returns the composed subcommand declarations.
func Subcommands() []SubcommandSpec {
	return Compose(subcommands, aspects)
}

// Parsed is the outcome of a successful parse.
type Parsed struct {
	// Subcommand is the first positional argument, known or not
	Subcommand string

	// Values holds the flags that were set, keyed by destination
	Values map[string]any
}

// String describes p for the log. Sensitive values are left out.
func (p *Parsed) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("subcommand=%s values=%s", p.Subcommand, config.Configuration(p.Values).Redact().JSON())
}

// Parser builds the command tree for a program.
type Parser struct {
	prog  string
	out   io.Writer
	specs []SubcommandSpec
}

// New returns a Parser printing help and usage errors to out.
func New(prog string, out io.Writer) *Parser {
	return &Parser{prog: prog, out: out, specs: Subcommands()}
}

// Parse parses args, where args[0] is the program name. A nil Parsed with a
// nil error means help was printed and nothing else should happen.
func (p *Parser) Parse(ctx context.Context, args []string) (*Parsed, error) {
	var parsed *Parsed
	cmd := p.command(func(result *Parsed) { parsed = result })
	if err := cmd.Run(ctx, args); err != nil {
		return nil, err
	}
	return parsed, nil
}

// PrintHelp writes the top-level help text.
func (p *Parser) PrintHelp(ctx context.Context) error {
	return p.command(func(*Parsed) {}).Run(ctx, []string{p.prog, "--help"})
}

func (p *Parser) command(capture func(*Parsed)) *cli.Command {
	commands := make([]*cli.Command, 0, len(p.specs))
	for _, spec := range p.specs {
		commands = append(commands, subcommand(spec, capture))
	}

	return &cli.Command{
		Name:            p.prog,
		Usage:           "Add description. For more information, see https://github.com/kula-app/template-cli",
		ArgsUsage:       "SUBCOMMAND (SENZING_SUBCOMMAND)",
		Commands:        commands,
		Writer:          p.out,
		ErrWriter:       p.out,
		HideHelpCommand: true,
		Action: func(_ context.Context, c *cli.Command) error {
			capture(&Parsed{Subcommand: c.Args().First(), Values: map[string]any{}})
			return nil
		},
	}
}

func subcommand(spec SubcommandSpec, capture func(*Parsed)) *cli.Command {
	flags := make([]cli.Flag, 0, len(spec.Flags))
	for _, f := range spec.Flags {
		switch f.Action {
		case StoreTrue:
			flags = append(flags, &cli.BoolFlag{Name: f.Name, Usage: f.Help})
		default:
			flags = append(flags, &cli.StringFlag{Name: f.Name, Usage: usage(f)})
		}
	}

	return &cli.Command{
		Name:  spec.Name,
		Usage: spec.Help,
		Flags: flags,
		Action: func(_ context.Context, c *cli.Command) error {
			values := make(map[string]any, len(spec.Flags))
			for _, f := range spec.Flags {
				if !c.IsSet(f.Name) {
					continue
				}
				if f.Action == StoreTrue {
					values[f.Dest] = c.Bool(f.Name)
				} else {
					values[f.Dest] = c.String(f.Name)
				}
			}
			capture(&Parsed{Subcommand: spec.Name, Values: values})
			return nil
		},
	}
}

// usage embeds the metavar as the placeholder shown in help output.
func usage(f FlagSpec) string {
	if f.Metavar == "" {
		return f.Help
	}
	return fmt.Sprintf("`%s` %s", f.Metavar, f.Help)
}
