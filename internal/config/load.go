package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML file on top of Default.
//
// Keys absent from the file keep their default values. Unknown keys are an
// error so that typos do not silently fall back to defaults. The result is
// not validated; call Validate once all overrides are applied.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML, for writing an annotated starting file.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
