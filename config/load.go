package config

import (
	"fmt"
	"os"

	json "github.com/json-iterator/go"
)

// Load reads a JSON document from the file at path and applies it over the defaults.
// Fields absent in the document keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return Parse(data)
}

// Parse applies a JSON document over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := json.ConfigCompatibleWithStandardLibrary.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}
