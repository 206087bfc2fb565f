package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ErrInvalidFile is returned when a config file holds keys or values that
// cannot be applied.
var ErrInvalidFile = errors.New("invalid config file")

// LoadFile reads a YAML config file into a map keyed by configuration key.
// Only keys declared in the locator table are accepted, and values must be
// scalars. Values in the file apply even when empty.
func LoadFile(filePath string) (map[string]any, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", filePath)
	}

	configFile, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(configFile, &raw); err != nil {
		return nil, fmt.Errorf("unable to parse YAML config file: %w", err)
	}

	values := make(map[string]any, len(raw))
	for k, v := range raw {
		if _, ok := LookupLocator(k); !ok || k == KeyConfigFile {
			return nil, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidFile, k, filePath)
		}
		switch v.(type) {
		case nil, string, bool, int, int64, uint64, float64:
		default:
			return nil, fmt.Errorf("%w: key %q in %s must be a scalar", ErrInvalidFile, k, filePath)
		}
		values[k] = v
	}
	return values, nil
}
