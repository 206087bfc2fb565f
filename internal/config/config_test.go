package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Resolve("", nil, envFrom(nil))
	if err != nil {
		t.Fatal(err)
	}

	for _, l := range Locators() {
		if diff := cmp.Diff(l.Default, cfg[l.Key]); diff != "" {
			t.Errorf("key %s mismatch (-want +got):\n%s", l.Key, diff)
		}
	}

	if got := cfg[KeyProgramVersion]; got != ProgramVersion {
		t.Errorf("program_version = %v, want %v", got, ProgramVersion)
	}
	if got := cfg[KeyProgramUpdated]; got != ProgramUpdated {
		t.Errorf("program_updated = %v, want %v", got, ProgramUpdated)
	}
}

func TestLocatorsIsACopy(t *testing.T) {
	ls := Locators()
	ls[0].Key = "mutated"
	if Locators()[0].Key == "mutated" {
		t.Error("Locators() exposed the static table")
	}
}

func TestResolvePrecedence(t *testing.T) {
	file := writeFile(t, "senzing_dir: /from/file\npassword: file-secret\nsleep_time_in_seconds: 7\n")

	tests := []struct {
		name string
		cli  map[string]any
		env  map[string]string
		want map[string]any
	}{
		{
			name: "file overrides defaults",
			cli:  map[string]any{KeyConfigFile: file},
			want: map[string]any{
				KeySenzingDir:         "/from/file",
				KeyPassword:           "file-secret",
				KeySleepTimeInSeconds: 7,
			},
		},
		{
			name: "environment overrides file",
			cli:  map[string]any{KeyConfigFile: file},
			env: map[string]string{
				"SENZING_DIR":                   "/from/env",
				"SENZING_SLEEP_TIME_IN_SECONDS": "9",
			},
			want: map[string]any{
				KeySenzingDir:         "/from/env",
				KeyPassword:           "file-secret",
				KeySleepTimeInSeconds: 9,
			},
		},
		{
			name: "cli overrides environment",
			cli: map[string]any{
				KeyConfigFile:         file,
				KeySenzingDir:         "/from/cli",
				KeySleepTimeInSeconds: "11",
			},
			env: map[string]string{
				"SENZING_DIR":                   "/from/env",
				"SENZING_PASSWORD":              "env-secret",
				"SENZING_SLEEP_TIME_IN_SECONDS": "9",
			},
			want: map[string]any{
				KeySenzingDir:         "/from/cli",
				KeyPassword:           "env-secret",
				KeySleepTimeInSeconds: 11,
			},
		},
		{
			name: "config file named by environment",
			env:  map[string]string{"SENZING_CONFIG_FILE": file},
			want: map[string]any{
				KeySenzingDir: "/from/file",
				KeyPassword:   "file-secret",
			},
		},
		{
			name: "empty environment value is ignored",
			env:  map[string]string{"SENZING_DIR": ""},
			want: map[string]any{KeySenzingDir: "/opt/senzing"},
		},
		{
			name: "falsy cli values are ignored",
			cli:  map[string]any{KeySenzingDir: "", KeyDebug: false},
			env:  map[string]string{"SENZING_DIR": "/from/env", "SENZING_DEBUG": "yes"},
			want: map[string]any{KeySenzingDir: "/from/env", KeyDebug: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve("task1", tt.cli, envFrom(tt.env))
			if err != nil {
				t.Fatal(err)
			}
			got := map[string]any{}
			for k := range tt.want {
				got[k] = cfg[k]
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveSubcommand(t *testing.T) {
	cfg, err := Resolve("task2", nil, envFrom(map[string]string{"SENZING_SUBCOMMAND": "task1"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.String(KeySubcommand); got != "task2" {
		t.Errorf("subcommand = %q, want task2", got)
	}

	cfg, err = Resolve("", nil, envFrom(map[string]string{"SENZING_SUBCOMMAND": "task1"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.String(KeySubcommand); got != "task1" {
		t.Errorf("subcommand = %q, want task1", got)
	}
}

func TestParseBool(t *testing.T) {
	tests := map[string]bool{
		"TRUE":  true,
		"true":  true,
		"1":     true,
		"t":     true,
		"Y":     true,
		"yes":   true,
		"false": false,
		"no":    false,
		"":      false,
		"0":     false,
		"maybe": false,
		" yes ": false,
		"yes\n": false,
	}
	for in, want := range tests {
		if got := ParseBool(in); got != want {
			t.Errorf("ParseBool(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestResolveBooleanFromFile(t *testing.T) {
	tests := []struct {
		contents string
		want     bool
	}{
		{contents: "debug: 1\n", want: true},
		{contents: "debug: 0\n", want: false},
		{contents: "debug: 2\n", want: false},
		{contents: "debug: true\n", want: true},
		{contents: "debug: \"Y\"\n", want: true},
		{contents: "debug:\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.contents, func(t *testing.T) {
			cfg, err := Resolve("task2", map[string]any{KeyConfigFile: writeFile(t, tt.contents)}, envFrom(nil))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(any(tt.want), cfg[KeyDebug]); diff != "" {
				t.Errorf("debug mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveIntegerCoercion(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{value: "5", want: 5},
		{value: "0", want: 0},
		{value: "five", wantErr: true},
		{value: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg, err := Resolve("sleep", map[string]any{KeySleepTimeInSeconds: tt.value}, envFrom(nil))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValue) {
					t.Fatalf("err = %v, want ErrInvalidValue", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := cfg.Int(KeySleepTimeInSeconds); got != tt.want {
				t.Errorf("sleep_time_in_seconds = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     map[string]any
		wantErr  error
	}{
		{
			name:     "known keys",
			contents: "debug: true\nsenzing_dir: \"\"\n",
			want:     map[string]any{KeyDebug: true, KeySenzingDir: ""},
		},
		{
			name:     "unknown key",
			contents: "database_url: postgresql://\n",
			wantErr:  ErrInvalidFile,
		},
		{
			name:     "nested value",
			contents: "engine_configuration_json:\n  PIPELINE: {}\n",
			wantErr:  ErrInvalidFile,
		},
		{
			name:     "config file may not name another config file",
			contents: "config_file: other.yaml\n",
			wantErr:  ErrInvalidFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadFile(writeFile(t, tt.contents))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestRedact(t *testing.T) {
	cfg, err := Resolve("task2", map[string]any{KeyPassword: "hunter2"}, envFrom(nil))
	if err != nil {
		t.Fatal(err)
	}

	redacted := cfg.Redact()
	if _, ok := redacted[KeyPassword]; ok {
		t.Error("redacted configuration still holds the password")
	}
	if len(redacted) != len(cfg)-1 {
		t.Errorf("len(redacted) = %d, want %d", len(redacted), len(cfg)-1)
	}
	for k, v := range redacted {
		if diff := cmp.Diff(cfg[k], v); diff != "" {
			t.Errorf("key %s changed by redaction:\n%s", k, diff)
		}
	}
	if cfg[KeyPassword] != "hunter2" {
		t.Error("Redact mutated its receiver")
	}

	// Redacting a configuration without the key is a no-op.
	if diff := cmp.Diff(Configuration{"a": 1}, Configuration{"a": 1}.Redact()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLoggable(t *testing.T) {
	cfg := Configuration{KeyPassword: "hunter2", KeyDebug: false}
	if _, ok := cfg.Loggable()[KeyPassword]; ok {
		t.Error("password logged without debug")
	}
	cfg[KeyDebug] = true
	if _, ok := cfg.Loggable()[KeyPassword]; !ok {
		t.Error("password hidden with debug enabled")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		cfg          Configuration
		wantErrors   int
		wantWarnings int
	}{
		{
			name: "task1 with directory",
			cfg:  Configuration{KeySubcommand: "task1", KeySenzingDir: "/opt/senzing"},
		},
		{
			name:       "task1 without directory",
			cfg:        Configuration{KeySubcommand: "task1", KeySenzingDir: ""},
			wantErrors: 1,
		},
		{
			name:       "task2 with nil directory",
			cfg:        Configuration{KeySubcommand: "task2", KeySenzingDir: nil},
			wantErrors: 1,
		},
		{
			name: "sleep does not need a directory",
			cfg:  Configuration{KeySubcommand: "sleep", KeySleepTimeInSeconds: 0},
		},
		{
			name:         "negative sleep",
			cfg:          Configuration{KeySubcommand: "sleep", KeySleepTimeInSeconds: -3},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Validate(tt.cfg)
			if len(report.Errors) != tt.wantErrors {
				t.Errorf("errors = %v, want %d", report.Errors, tt.wantErrors)
			}
			if len(report.Warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", report.Warnings, tt.wantWarnings)
			}
			if report.Failed() != (tt.wantErrors > 0) {
				t.Errorf("Failed() = %v", report.Failed())
			}
		})
	}
}

func TestExampleConfigFile(t *testing.T) {
	cfg, err := Resolve("task1", map[string]any{KeyConfigFile: "../../config.example.yaml"}, envFrom(nil))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := cfg.String(KeySenzingDir), "/opt/senzing"; got != want {
		t.Errorf("got %s want %s", got, want)
	}
	if report := Validate(cfg); report.HasProblems() {
		t.Errorf("example config does not validate: %+v", report)
	}
}
