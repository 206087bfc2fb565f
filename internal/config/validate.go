package config

import (
	"github.com/kula-app/template-cli/internal/messages"
)

// subcommandsRequiringSenzingDir need the location of Senzing to be set.
var subcommandsRequiringSenzingDir = map[string]bool{
	"task1": true,
	"task2": true,
}

// Report collects validation problems. Every check runs, so one run surfaces
// all problems.
type Report struct {
	Warnings []string
	Errors   []string
}

// HasProblems reports whether anything was collected.
func (r Report) HasProblems() bool {
	return len(r.Warnings) > 0 || len(r.Errors) > 0
}

// Failed reports whether any error was collected.
func (r Report) Failed() bool {
	return len(r.Errors) > 0
}

// Validate checks a resolved configuration for the settings its subcommand
// requires. Messages are already rendered through the catalog.
func Validate(cfg Configuration) Report {
	var report Report

	subcommand := cfg.String(KeySubcommand)

	if subcommandsRequiringSenzingDir[subcommand] && cfg.String(KeySenzingDir) == "" {
		report.Errors = append(report.Errors, messages.Error(414, subcommand))
	}

	if subcommand == "sleep" {
		if n := cfg.Int(KeySleepTimeInSeconds); n < 0 {
			report.Warnings = append(report.Warnings, messages.Warning(302, n))
		}
	}

	return report
}
