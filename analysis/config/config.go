// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config holds the options of a points-to analysis run. Fields absent from
// the yaml file keep their zero value; Load fills in the defaults afterwards.
type Config struct {
	sourceFile string

	// LogLevel controls the verbosity of the analysis (see LogLevel constants).
	LogLevel int `yaml:"log-level"`

	// Worklist selects the worklist processing order, "fifo" (default) or
	// "lifo". The closure is order-independent; this option exists for
	// experimentation and testing.
	Worklist string `yaml:"worklist"`

	// RepairSeeds enables a defensive pass that backfills missing inverse
	// edges (PTBar, CopyBar) on the seed graph before solving. The builder
	// normally emits inverse-consistent seeds, so this is off by default.
	RepairSeeds bool `yaml:"repair-seeds"`

	// MaxEdges bounds the number of edges the closure may reach; 0 (the
	// default) means no bound. When the bound is hit the solver aborts with
	// an error instead of exhausting memory.
	MaxEdges int `yaml:"max-edges"`

	// GraphOut is a path to write the solved graph in DOT format. Empty
	// disables the dump.
	GraphOut string `yaml:"graph-out"`

	// ReportStats enables reporting of graph statistics (edge counts per
	// label, copy-cycle components) after solving.
	ReportStats bool `yaml:"report-stats"`
}

// NewDefault returns a config holding the default options.
func NewDefault() *Config {
	return &Config{
		LogLevel: int(InfoLevel),
		Worklist: "fifo",
	}
}

// Load reads a yaml config from filename.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}
	cfg.sourceFile = filename

	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if cfg.Worklist == "" {
		cfg.Worklist = "fifo"
	}
	if _, err := ParseWorklist(cfg.Worklist); err != nil {
		return nil, err
	}
	if cfg.MaxEdges < 0 {
		return nil, fmt.Errorf("max-edges must be non-negative, got %d", cfg.MaxEdges)
	}
	return cfg, nil
}

// SourceFile returns the file the config was loaded from, if any.
func (c *Config) SourceFile() string {
	return c.sourceFile
}

// Worklist strategy constants, mirrored by the solver's queue strategies.
const (
	WorklistFIFO = iota
	WorklistLIFO
)

// ParseWorklist maps a worklist option string to a strategy constant.
func ParseWorklist(s string) (int, error) {
	switch strings.ToLower(s) {
	case "", "fifo":
		return WorklistFIFO, nil
	case "lifo":
		return WorklistLIFO, nil
	default:
		return WorklistFIFO, fmt.Errorf("unknown worklist strategy %q (want fifo or lifo)", s)
	}
}
