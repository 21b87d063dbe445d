package app

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"gol-canvas/internal/dirty"
)

func parse(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg := NewConfig()
	cfg.Bind(fs)
	return cfg, cfg.Parse(fs, args)
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gol.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Sim != "life" || cfg.Size != 64 || cfg.Strategy != "percell" || cfg.AuditEvery != dirty.DefaultAuditEvery {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "sim: elementary\nsize: 16\nstrategy: full\nstart_paused: true\n")
	cfg, err := parse(t, "-config", path, "-size", "32")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Sim != "elementary" || cfg.Strategy != "full" || !cfg.StartPaused {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Size != 32 {
		t.Fatalf("explicit flag lost: size %d", cfg.Size)
	}
	if cfg.CellSize != 8 {
		t.Fatalf("absent key should keep default, got cell size %d", cfg.CellSize)
	}
}

func TestFileRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "sim: life\ncellsize: 4\n")
	if _, err := parse(t, "-config", path); err == nil {
		t.Fatalf("expected schema error for unknown key")
	}
}

func TestFileRejectsBadValues(t *testing.T) {
	path := writeFile(t, "strategy: sometimes\n")
	if _, err := parse(t, "-config", path); err == nil {
		t.Fatalf("expected schema error for unknown strategy")
	}
}

func TestFlagValuesAreValidated(t *testing.T) {
	if _, err := parse(t, "-size", "0"); err == nil {
		t.Fatalf("expected error for zero size")
	}
	if _, err := parse(t, "-audit-every", "0"); err == nil {
		t.Fatalf("expected error for audit_every 0")
	}
	if _, err := parse(t, "-log-level", "loud"); err == nil {
		t.Fatalf("expected error for unknown log level")
	}
}

func TestFileRejectsZeroAuditInterval(t *testing.T) {
	path := writeFile(t, "audit_every: 0\n")
	if _, err := parse(t, "-config", path); err == nil {
		t.Fatalf("expected schema error for audit_every 0")
	}
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "")
	cfg, err := parse(t, "-config", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Sim != "life" {
		t.Fatalf("sim = %q", cfg.Sim)
	}
}

func TestFactoryConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Size = 12
	cfg.Pattern = "empty"
	m := cfg.FactoryConfig()
	if m["size"] != "12" || m["pattern"] != "empty" || m["rule"] != "110" {
		t.Fatalf("factory config %v", m)
	}
}
