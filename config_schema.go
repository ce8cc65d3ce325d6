package agentry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// configSchema is the JSON Schema for config files. It rejects unknown
// keys, which LoadConfig's lenient decoders let through.
const configSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"title": "agentry host configuration",
	"type": "object",
	"properties": {
		"addr": {"type": "string"},
		"default_agent": {"type": "string"},
		"cors_origins": {
			"type": "array",
			"items": {"type": "string"}
		},
		"cache": {
			"type": "object",
			"properties": {
				"dir": {"type": "string"},
				"disabled": {"type": "boolean"}
			},
			"additionalProperties": false
		},
		"request_log": {
			"type": "object",
			"properties": {
				"driver": {"type": "string", "enum": ["sqlite", "postgres"]},
				"dsn": {"type": "string"}
			},
			"additionalProperties": false
		}
	},
	"additionalProperties": false
}`

var compiledConfigSchema = jsonschema.MustCompileString("config.schema.json", configSchema)

// ValidateConfigFile checks a config file against the embedded JSON
// Schema and then against ValidateConfig. Unlike LoadConfig it rejects
// unknown keys.
func ValidateConfigFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var raw any
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing TOML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q: use .json, .yaml, .yml, or .toml", ext)
	}

	// The schema validator expects encoding/json value types, so YAML
	// and TOML decodings are normalized through a JSON round trip.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("normalizing config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return fmt.Errorf("normalizing config: %w", err)
	}
	if err := compiledConfigSchema.Validate(doc); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	return ValidateConfig(*cfg)
}
