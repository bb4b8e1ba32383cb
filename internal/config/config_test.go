package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	c := Config{
		InputDir:  t.TempDir(),
		OutputDir: filepath.Join(t.TempDir(), "out"),
		Years:     []int{2021, 2022},
	}
	c.ApplyDefaults()
	return c
}

func TestLoadFromFile_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("years:\n  - 2021\n  - 2022\nmin_peer_group: 5\nworkers: 2\n"), 0644)

	var c Config
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(c.Years) != 2 || c.Years[0] != 2021 {
		t.Errorf("unexpected years: %v", c.Years)
	}
	if c.MinPeerGroup != 5 {
		t.Errorf("min_peer_group = %d, want 5", c.MinPeerGroup)
	}
	if c.Workers != 2 {
		t.Errorf("workers = %d, want 2", c.Workers)
	}
}

func TestLoadFromFile_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("years:\n  - 2019\nworkers: 8\n"), 0644)

	c := Config{Years: []int{2021}, Workers: 1}
	if err := c.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if len(c.Years) != 1 || c.Years[0] != 2021 {
		t.Errorf("file years overrode flag years: %v", c.Years)
	}
	if c.Workers != 1 {
		t.Errorf("file workers overrode flag workers: %d", c.Workers)
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	var c Config
	if err := c.LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if len(c.Statements) != 6 {
		t.Errorf("expected 6 default statements, got %d", len(c.Statements))
	}
	if c.MinPeerGroup != 3 {
		t.Errorf("min_peer_group default = %d, want 3", c.MinPeerGroup)
	}
	if len(c.StatusOrder) != len(DefaultStatusOrder) {
		t.Errorf("status order default = %v", c.StatusOrder)
	}
}

func TestValidate_UnknownStatement(t *testing.T) {
	c := validConfig(t)
	c.Statements = []string{"balance_sheet", "nope"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for unknown statement")
	}
}

func TestValidate_DuplicateStatus(t *testing.T) {
	c := validConfig(t)
	c.StatusOrder = []string{"1", "2", "1"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for duplicate status code")
	}
}

func TestValidate_ImplausibleYear(t *testing.T) {
	c := validConfig(t)
	c.Years = []int{1850}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for implausible year")
	}
}

func TestValidate_NoYears(t *testing.T) {
	c := validConfig(t)
	c.Years = nil
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing years")
	}
}

func TestWorksheets_SubsetCanonicalOrder(t *testing.T) {
	c := validConfig(t)
	c.Statements = []string{"revenue_expenses", "balance_sheet"}
	ws := c.Worksheets()
	if len(ws) != 2 {
		t.Fatalf("expected 2 worksheets, got %d", len(ws))
	}
	// Canonical order, not request order.
	if ws[0].Statement != "balance_sheet" || ws[1].Statement != "revenue_expenses" {
		t.Errorf("unexpected order: %s, %s", ws[0].Statement, ws[1].Statement)
	}
}
