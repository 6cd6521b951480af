// Package config loads the run configuration and the curated mapping tables.
// Everything here is immutable after load: mappings are consulted by the
// pipeline, never written back.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/harmonize"
)

// Period is the reporting month being processed. One run covers exactly one
// period; multi-month history is built by re-running per month.
type Period struct {
	Month int `yaml:"month"`
	Year  int `yaml:"year"`
}

// Config is the run configuration for one reporting period.
type Config struct {
	Period    Period `yaml:"period"`
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// SelfLabel is the account holder label used to detect transfers
	// between own accounts: a harmonized entity equal to this label marks
	// the row as an internal transfer.
	SelfLabel string `yaml:"self_label"`

	// Mapping files, resolved relative to the config file when not
	// absolute.
	EntityMappingFile  string `yaml:"entity_mapping_file"`
	SubtypeMappingFile string `yaml:"subtype_mapping_file"`
}

// Load reads and validates a YAML run configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parsing %s: %w", path, err)
	}

	if cfg.Period.Month < 1 || cfg.Period.Month > 12 {
		return nil, fmt.Errorf("config.Load: period month %d out of range 1-12", cfg.Period.Month)
	}
	if cfg.Period.Year < 2000 || cfg.Period.Year > 2100 {
		return nil, fmt.Errorf("config.Load: period year %d out of range", cfg.Period.Year)
	}
	if cfg.InputDir == "" {
		return nil, fmt.Errorf("config.Load: input_dir is required")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("config.Load: output_dir is required")
	}

	base := filepath.Dir(path)
	cfg.EntityMappingFile = resolve(base, cfg.EntityMappingFile)
	cfg.SubtypeMappingFile = resolve(base, cfg.SubtypeMappingFile)

	return &cfg, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// LoadMapping reads a curated mapping table (raw description variant →
// canonical name) from a YAML file. An empty path yields an empty mapping,
// which makes every harmonization a pass-through.
func LoadMapping(path string) (harmonize.Mapping, error) {
	if path == "" {
		return harmonize.Mapping{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.LoadMapping: reading %s: %w", path, err)
	}

	mapping := harmonize.Mapping{}
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("config.LoadMapping: parsing %s: %w", path, err)
	}

	return mapping, nil
}
