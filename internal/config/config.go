// Package config loads table and soak settings from HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Timeout actions applied when a seat runs out of time
const (
	TimeoutFold        = "fold"
	TimeoutCheckOrFold = "check_or_fold"
)

// Config is the complete configuration
type Config struct {
	LogLevel string        `hcl:"log_level,optional"`
	Tables   []TableConfig `hcl:"table,block"`
	Soak     *SoakConfig   `hcl:"soak,block"`
}

// TableConfig defines one table
type TableConfig struct {
	Name          string `hcl:"name,label"`
	MaxSeats      int    `hcl:"max_seats,optional"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	TurnTimeout   string `hcl:"turn_timeout,optional"`
	TimeoutAction string `hcl:"timeout_action,optional"`
}

// SoakConfig controls the invariant soak runner
type SoakConfig struct {
	Hands         int   `hcl:"hands,optional"`
	Tables        int   `hcl:"tables,optional"`
	Players       int   `hcl:"players,optional"`
	StartingStack int   `hcl:"starting_stack,optional"`
	Seed          int64 `hcl:"seed,optional"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{
		Tables: []TableConfig{{Name: "main", SmallBlind: 10, BigBlind: 20}},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file. A missing file yields defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse reads configuration from HCL source
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var cfg Config
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.MaxSeats == 0 {
			t.MaxSeats = 9
		}
		if t.TurnTimeout == "" {
			t.TurnTimeout = "30s"
		}
		if t.TimeoutAction == "" {
			t.TimeoutAction = TimeoutCheckOrFold
		}
	}
	if c.Soak == nil {
		c.Soak = &SoakConfig{}
	}
	if c.Soak.Hands == 0 {
		c.Soak.Hands = 1000
	}
	if c.Soak.Tables == 0 {
		c.Soak.Tables = 4
	}
	if c.Soak.Players == 0 {
		c.Soak.Players = 6
	}
	if c.Soak.StartingStack == 0 {
		c.Soak.StartingStack = 2000
	}
}

// Validate checks the configuration for values the engine would reject
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if len(c.Tables) == 0 {
		return errors.New("at least one table must be configured")
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("table %s: defined more than once", t.Name)
		}
		seen[t.Name] = true

		if t.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", t.Name)
		}
		if t.BigBlind < t.SmallBlind {
			return fmt.Errorf("table %s: big blind must be at least the small blind", t.Name)
		}
		if t.MaxSeats < 2 || t.MaxSeats > 10 {
			return fmt.Errorf("table %s: max seats must be between 2 and 10", t.Name)
		}
		if _, err := t.Timeout(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		if t.TimeoutAction != TimeoutFold && t.TimeoutAction != TimeoutCheckOrFold {
			return fmt.Errorf("table %s: timeout action must be %q or %q", t.Name, TimeoutFold, TimeoutCheckOrFold)
		}
	}

	s := c.Soak
	if s.Hands < 1 {
		return errors.New("soak: hands must be positive")
	}
	if s.Tables < 1 {
		return errors.New("soak: tables must be positive")
	}
	if s.Players < 2 || s.Players > c.Tables[0].MaxSeats {
		return fmt.Errorf("soak: players must be between 2 and %d", c.Tables[0].MaxSeats)
	}
	if s.StartingStack < c.Tables[0].BigBlind {
		return errors.New("soak: starting stack must cover the big blind")
	}
	return nil
}

// Timeout parses the turn timeout. Zero disables turn timers.
func (t TableConfig) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(t.TurnTimeout)
	if err != nil {
		return 0, fmt.Errorf("turn_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("turn_timeout: negative duration %s", d)
	}
	return d, nil
}

// Table returns the named table, or nil
func (c *Config) Table(name string) *TableConfig {
	for i := range c.Tables {
		if c.Tables[i].Name == name {
			return &c.Tables[i]
		}
	}
	return nil
}
