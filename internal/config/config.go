package config

import (
	"encoding/json"
	"fmt"
)

// Program metadata injected into every resolved configuration. Overridden at
// build time with -ldflags "-X".
var (
	ProgramVersion = "0.0.0-dev"
	ProgramUpdated = "2026-10-18"
)

// Configuration keys
const (
	KeyConfigFile              = "config_file"
	KeyDebug                   = "debug"
	KeyEngineConfigurationJSON = "engine_configuration_json"
	KeyPassword                = "password"
	KeySenzingDir              = "senzing_dir"
	KeySleepTimeInSeconds      = "sleep_time_in_seconds"
	KeySubcommand              = "subcommand"

	KeyProgramVersion = "program_version"
	KeyProgramUpdated = "program_updated"
	KeyStartTime      = "start_time"
	KeyStopTime       = "stop_time"
	KeyElapsedTime    = "elapsed_time"
)

// Environment variables that are read outside of the locator table.
const (
	EnvLogLevel       = "SENZING_LOG_LEVEL"
	EnvDockerLaunched = "SENZING_DOCKER_LAUNCHED"
	EnvSubcommand     = "SENZING_SUBCOMMAND"
)

// Locator declares where one configuration key can be found.
type Locator struct {
	// Key is the name of the setting in a resolved Configuration
	Key string

	// Default is used when no other source supplies a value (nil means none)
	Default any

	// Env is the environment variable consulted for the key, if any
	Env string

	// Flag is the command-line flag name for the key, if any
	Flag string
}

var locators = [...]Locator{
	{Key: KeyConfigFile, Env: "SENZING_CONFIG_FILE", Flag: "config-file"},
	{Key: KeyDebug, Default: false, Env: "SENZING_DEBUG", Flag: "debug"},
	{Key: KeyEngineConfigurationJSON, Env: "SENZING_ENGINE_CONFIGURATION_JSON", Flag: "engine-configuration-json"},
	{Key: KeyPassword, Env: "SENZING_PASSWORD", Flag: "password"},
	{Key: KeySenzingDir, Default: "/opt/senzing", Env: "SENZING_DIR", Flag: "senzing-dir"},
	{Key: KeySleepTimeInSeconds, Default: 0, Env: "SENZING_SLEEP_TIME_IN_SECONDS", Flag: "sleep-time-in-seconds"},
	{Key: KeySubcommand, Env: EnvSubcommand},
}

// redactedKeys are never written to the log unless debugging is enabled.
var redactedKeys = [...]string{
	KeyPassword,
}

// Locators returns a copy of the locator table.
func Locators() []Locator {
	out := make([]Locator, len(locators))
	copy(out, locators[:])
	return out
}

// LookupLocator returns the locator for key.
func LookupLocator(key string) (Locator, bool) {
	for _, l := range locators {
		if l.Key == key {
			return l, true
		}
	}
	return Locator{}, false
}

// Configuration is a resolved, per-invocation set of settings.
type Configuration map[string]any

// Defaults returns a Configuration holding every locator's default value.
func Defaults() Configuration {
	cfg := make(Configuration, len(locators)+2)
	for _, l := range locators {
		cfg[l.Key] = l.Default
	}
	return cfg
}

// String returns the value of key formatted as a string, or "" when unset.
func (c Configuration) String(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool returns the boolean value of key. Non-boolean values are false.
func (c Configuration) Bool(key string) bool {
	b, _ := c[key].(bool)
	return b
}

// Int returns the integer value of key. Non-integer values are 0.
func (c Configuration) Int(key string) int {
	i, _ := c[key].(int)
	return i
}

// Clone returns a shallow copy.
func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Redact returns a copy of c without the sensitive keys.
func (c Configuration) Redact() Configuration {
	out := c.Clone()
	for _, key := range redactedKeys {
		delete(out, key)
	}
	return out
}

// Loggable returns c unchanged when debugging is enabled, otherwise its
// redacted copy.
func (c Configuration) Loggable() Configuration {
	if c.Bool(KeyDebug) {
		return c
	}
	return c.Redact()
}

// JSON renders c as a compact JSON object with sorted keys.
func (c Configuration) JSON() string {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(c))
	}
	return string(b)
}
