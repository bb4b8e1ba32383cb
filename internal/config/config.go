package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/costbench/internal/model"
)

// DefaultStatusOrder ranks HCRIS report status codes from lowest to highest
// retention precedence: as-submitted < amended < settled without audit <
// settled with audit < reopened. The ranking is configuration, not code,
// because the authoritative CMS ordering should be confirmed per vintage.
var DefaultStatusOrder = []string{"1", "5", "2", "3", "4"}

// Config holds all runtime configuration for a costbench run.
type Config struct {
	InputDir  string
	OutputDir string
	DSN       string
	LogFormat string // "text" or "json"

	Years      []int    `yaml:"years"`
	Statements []string `yaml:"statements"` // subset of model.StatementNames

	StatusOrder       []string `yaml:"status_order"`
	MinPeerGroup      int      `yaml:"min_peer_group"`
	JoinMissThreshold float64  `yaml:"join_miss_threshold"` // fraction of rows, data-quality alarm
	StateAllowlist    []string `yaml:"state_allowlist"`     // optional two-digit state prefixes
	Workers           int      `yaml:"workers"`             // per-year parallelism
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Years             []int    `yaml:"years"`
	Statements        []string `yaml:"statements"`
	StatusOrder       []string `yaml:"status_order"`
	MinPeerGroup      *int     `yaml:"min_peer_group"`
	JoinMissThreshold *float64 `yaml:"join_miss_threshold"`
	StateAllowlist    []string `yaml:"state_allowlist"`
	Workers           *int     `yaml:"workers"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// File values only fill fields the flags left unset.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if len(c.Years) == 0 {
		c.Years = yc.Years
	}
	if len(c.Statements) == 0 {
		c.Statements = yc.Statements
	}
	if len(c.StatusOrder) == 0 {
		c.StatusOrder = yc.StatusOrder
	}
	if c.MinPeerGroup == 0 && yc.MinPeerGroup != nil {
		c.MinPeerGroup = *yc.MinPeerGroup
	}
	if c.JoinMissThreshold == 0 && yc.JoinMissThreshold != nil {
		c.JoinMissThreshold = *yc.JoinMissThreshold
	}
	if len(c.StateAllowlist) == 0 {
		c.StateAllowlist = yc.StateAllowlist
	}
	if c.Workers == 0 && yc.Workers != nil {
		c.Workers = *yc.Workers
	}
	return nil
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if len(c.Statements) == 0 {
		c.Statements = model.StatementNames()
	}
	if len(c.StatusOrder) == 0 {
		c.StatusOrder = append([]string(nil), DefaultStatusOrder...)
	}
	if c.MinPeerGroup == 0 {
		c.MinPeerGroup = 3
	}
	if c.JoinMissThreshold == 0 {
		c.JoinMissThreshold = 0.25
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("--input is required")
	}
	if _, err := os.Stat(c.InputDir); err != nil {
		return fmt.Errorf("input dir not accessible: %w", err)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if len(c.Years) == 0 {
		return fmt.Errorf("at least one fiscal year is required (--years or config file)")
	}
	for _, y := range c.Years {
		if y < 1996 || y > 2100 {
			return fmt.Errorf("implausible fiscal year %d", y)
		}
	}
	for _, name := range c.Statements {
		if _, ok := model.WorksheetByStatement(name); !ok {
			return fmt.Errorf("unknown statement %q in config", name)
		}
	}
	seen := make(map[string]bool, len(c.StatusOrder))
	for _, s := range c.StatusOrder {
		if seen[s] {
			return fmt.Errorf("duplicate status code %q in status_order", s)
		}
		seen[s] = true
	}
	if c.MinPeerGroup < 1 {
		return fmt.Errorf("min_peer_group must be at least 1, got %d", c.MinPeerGroup)
	}
	if c.JoinMissThreshold < 0 || c.JoinMissThreshold > 1 {
		return fmt.Errorf("join_miss_threshold must be in [0,1], got %g", c.JoinMissThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// ValidateWithDSN checks both pipeline fields and the DSN (publish/migrate).
func (c *Config) ValidateWithDSN() error {
	if c.DSN == "" {
		return fmt.Errorf("--dsn or COSTBENCH_DB_URL is required")
	}
	return nil
}

// Worksheets resolves the configured statement names to worksheet configs
// in canonical order.
func (c *Config) Worksheets() []model.Worksheet {
	want := make(map[string]bool, len(c.Statements))
	for _, s := range c.Statements {
		want[s] = true
	}
	var out []model.Worksheet
	for _, ws := range model.AllWorksheets {
		if want[ws.Statement] {
			out = append(out, ws)
		}
	}
	return out
}
