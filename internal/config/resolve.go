package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidValue is returned when a setting cannot be coerced to its type.
var ErrInvalidValue = errors.New("invalid configuration value")

// booleanKeys and integerKeys are coerced after all sources are merged.
var (
	booleanKeys = [...]string{KeyDebug}
	integerKeys = [...]string{KeySleepTimeInSeconds}
)

// Resolve merges the configuration sources for subcommand into a new
// Configuration. Sources are applied as ordered passes, each overriding the
// previous one key by key:
//
//  1. locator defaults
//  2. the YAML config file, if one is named by the CLI or environment
//  3. environment variables (set and non-empty)
//  4. command-line values (truthy only)
//
// cliValues is keyed by configuration key. getenv is usually os.Getenv.
func Resolve(subcommand string, cliValues map[string]any, getenv func(string) string) (Configuration, error) {
	cfg := Defaults()

	if path := configFilePath(cliValues, getenv); path != "" {
		fileValues, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		for k, v := range fileValues {
			cfg[k] = v
		}
	}

	for _, l := range locators {
		if l.Env == "" {
			continue
		}
		if v := getenv(l.Env); v != "" {
			cfg[l.Key] = v
		}
	}

	for k, v := range cliValues {
		if truthy(v) {
			cfg[k] = v
		}
	}

	cfg[KeyProgramVersion] = ProgramVersion
	cfg[KeyProgramUpdated] = ProgramUpdated

	if subcommand != "" {
		cfg[KeySubcommand] = subcommand
	}

	for _, key := range booleanKeys {
		cfg[key] = toBool(cfg[key])
	}

	for _, key := range integerKeys {
		i, err := toInt(cfg[key])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		cfg[key] = i
	}

	return cfg, nil
}

func configFilePath(cliValues map[string]any, getenv func(string) string) string {
	if s, ok := cliValues[KeyConfigFile].(string); ok && s != "" {
		return s
	}
	l, _ := LookupLocator(KeyConfigFile)
	return getenv(l.Env)
}

// ParseBool reports whether s is one of the recognized true tokens
// ("true", "1", "t", "y", "yes"), ignoring case. Anything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "t", "y", "yes":
		return true
	}
	return false
}

// toBool coerces a merged value. Numbers from the config file go through the
// same token check as strings, so 1 is true and 0 is false.
func toBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return ParseBool(b)
	}
	return ParseBool(fmt.Sprint(v))
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, fmt.Errorf("%w: %d out of range", ErrInvalidValue, n)
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidValue, n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, n)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int:
		return t != 0
	}
	return true
}
