// SPDX-License-Identifier: MIT

package config

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"
)

// FromBytes unmarshals JSON or YAML configuration data, sniffing the
// format from the first non-whitespace byte. An empty input yields
// Default().
func FromBytes(b []byte) (*Config, error) {
	if len(b) == 0 {
		return Default(), nil
	}

	c := Default()
	trimmed := trimLeadingSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
		return c, nil
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func trimLeadingSpace(b []byte) []byte {
	i := 0
	for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i++
	}
	return b[i:]
}

// Load reads and parses the configuration file at path. A missing file
// is not an error: Default() is returned instead, matching the
// reference host's "run with sane defaults if unconfigured" behaviour.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromBytes(data)
}
