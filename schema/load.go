package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a schema file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Load reads a schema file, picking the format from its extension.
// Files without a .json extension are parsed as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a schema document.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := &Config{}

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown schema format: %s", format)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the schema in the given format.
func Marshal(cfg Config, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(cfg, "", "  ")
	}
	return yaml.Marshal(cfg)
}

// setDefaults fills in kinds left empty in the file.
func (c *Config) setDefaults() {
	for i := range c.Dimensions {
		if c.Dimensions[i].Kind == "" {
			c.Dimensions[i].Kind = KindText
		}
	}
}
