// Copyright (C) 2026 The Boolidx Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package boolconf loads optional YAML overrides for the indexer's
// build parameters (the search executable does not use it), mirroring the
// teacher's "definition file" pattern for table/schema definitions,
// applied here to block and chunk sizing.
package boolconf

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Config holds build-parameter overrides loadable from a YAML file via
// the indexer's "-c" flag. CLI flags always take precedence: a zero
// value here means "use the flag/default", never "use zero".
type Config struct {
	MaxBlockSize  int `json:"maxBlockSize,omitempty"`
	ChunkSize     int `json:"chunkSize,omitempty"`
	TestSampleCap int `json:"testSampleCap,omitempty"`
}

// Load reads and parses a YAML config file. A nil Config and nil error
// is returned for an empty path, letting callers unconditionally call
// Load(path) and check for nil.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &c, nil
}

// ApplyDefaults overlays non-zero fields of c onto the given builder
// knobs, returning the possibly-overridden values. Zero fields in c
// (including a nil c) leave the corresponding value unchanged.
func (c *Config) ApplyDefaults(maxBlockSize, chunkSize, testSampleCap int) (int, int, int) {
	if c == nil {
		return maxBlockSize, chunkSize, testSampleCap
	}
	if c.MaxBlockSize > 0 {
		maxBlockSize = c.MaxBlockSize
	}
	if c.ChunkSize > 0 {
		chunkSize = c.ChunkSize
	}
	if c.TestSampleCap > 0 {
		testSampleCap = c.TestSampleCap
	}
	return maxBlockSize, chunkSize, testSampleCap
}
