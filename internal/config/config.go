// Package config holds the tunable correction parameters and loads them
// from YAML. Flags are layered on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"contigfix-core/consensus"
	"contigfix-core/engine"
	"contigfix-core/policy"
	"contigfix/internal/logging"
)

// Config is the on-disk shape. Keys absent from a file keep their defaults.
type Config struct {
	MateWeight     float64 `yaml:"mate_weight"`
	UseQuality     bool    `yaml:"use_quality"`
	InsertMargin   int     `yaml:"insert_margin"`
	QualOffset     int     `yaml:"qual_offset"`
	InsertionRatio float64 `yaml:"insertion_ratio"`
	InsertionMin   float64 `yaml:"insertion_min"`
	InsertionBar   string  `yaml:"insertion_bar"`
	Threads        int     `yaml:"threads"`
	UniquePairs    bool    `yaml:"unique_pairs"`
	LogLevel       string  `yaml:"log_level"`
}

// DefaultConfig mirrors policy.DefaultConfig and consensus.DefaultRule.
func DefaultConfig() *Config {
	pol := policy.DefaultConfig()
	rule := consensus.DefaultRule()
	return &Config{
		MateWeight:     pol.MateWeight,
		UseQuality:     pol.UseQuality,
		InsertMargin:   pol.InsertMargin,
		QualOffset:     pol.QualOffset,
		InsertionRatio: rule.InsertionRatio,
		InsertionMin:   rule.InsertionMin,
		InsertionBar:   rule.Bar.String(),
		Threads:        0,
		LogLevel:       "info",
	}
}

// Load reads path over the defaults. Unknown keys are an error so typos
// don't silently fall back to a default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.MateWeight < 0:
		return errors.New("mate_weight must be >= 0")
	case c.InsertMargin < 0:
		return errors.New("insert_margin must be >= 0")
	case c.QualOffset < 0 || c.QualOffset > 126:
		return errors.New("qual_offset must be in [0,126]")
	case c.InsertionRatio <= 0:
		return errors.New("insertion_ratio must be > 0")
	case c.InsertionMin < 0:
		return errors.New("insertion_min must be >= 0")
	case c.Threads < 0:
		return errors.New("threads must be >= 0")
	}
	if _, err := consensus.ParseInsertionBar(c.InsertionBar); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Engine converts c into the core engine configuration.
func (c *Config) Engine(recordChanges bool) (engine.Config, error) {
	bar, err := consensus.ParseInsertionBar(c.InsertionBar)
	if err != nil {
		return engine.Config{}, err
	}
	pol := policy.DefaultConfig()
	pol.MateWeight = c.MateWeight
	pol.UseQuality = c.UseQuality
	pol.InsertMargin = c.InsertMargin
	pol.QualOffset = c.QualOffset
	return engine.Config{
		Policy:        pol,
		Rule:          consensus.Rule{Bar: bar, InsertionRatio: c.InsertionRatio, InsertionMin: c.InsertionMin},
		RecordChanges: recordChanges,
	}, nil
}

// Dump writes c as YAML, in the same shape Load accepts.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
