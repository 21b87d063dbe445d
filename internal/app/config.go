package app

import (
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"gol-canvas/internal/dirty"
)

//go:embed config.schema.json
var configSchemaJSON string

var configSchema = jsonschema.MustCompileString("config.schema.json", configSchemaJSON)

// Config represents the parameters of a session. Values come from defaults,
// then an optional YAML file, then explicitly set command-line flags.
type Config struct {
	Sim         string `yaml:"sim" json:"sim"`
	Size        int    `yaml:"size" json:"size"`
	CellSize    int    `yaml:"cell_size" json:"cell_size"`
	TPS         int    `yaml:"tps" json:"tps"`
	Seed        int64  `yaml:"seed" json:"seed"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	Rule        int    `yaml:"rule" json:"rule"`
	Strategy    string `yaml:"strategy" json:"strategy"`
	AuditEvery  int    `yaml:"audit_every" json:"audit_every"`
	StartPaused bool   `yaml:"start_paused" json:"start_paused"`
	Trace       string `yaml:"trace" json:"trace"`
	LogLevel    string `yaml:"log_level" json:"log_level"`

	// ConfigPath names the YAML file; it is not itself a file key.
	ConfigPath string `yaml:"-" json:"-"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Sim:        "life",
		Size:       64,
		CellSize:   8,
		TPS:        60,
		Seed:       42,
		Pattern:    "classic",
		Rule:       110,
		Strategy:   "percell",
		AuditEvery: dirty.DefaultAuditEvery,
		LogLevel:   "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML configuration file")
	fs.StringVar(&c.Sim, "sim", c.Sim, "automaton to run")
	fs.IntVar(&c.Size, "size", c.Size, "cells per grid side")
	fs.IntVar(&c.CellSize, "cell-size", c.CellSize, "cell edge in canvas pixels")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for automaton reset")
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, "life seed pattern: classic, random or empty")
	fs.IntVar(&c.Rule, "rule", c.Rule, "elementary automaton rule")
	fs.StringVar(&c.Strategy, "strategy", c.Strategy, "sync strategy: percell or full")
	fs.IntVar(&c.AuditEvery, "audit-every", c.AuditEvery, "delta syncs between full snapshot audits")
	fs.BoolVar(&c.StartPaused, "paused", c.StartPaused, "start paused")
	fs.StringVar(&c.Trace, "trace", c.Trace, "write a zstd frame trace to this path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
}

// Parse parses args into c. When -config names a file, its values replace
// the defaults and flags set explicitly on the command line win over both.
func (c *Config) Parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(c.ConfigPath) != "" {
		set := map[string]string{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = f.Value.String() })
		if err := c.LoadFile(c.ConfigPath); err != nil {
			return err
		}
		for name, v := range set {
			if err := fs.Set(name, v); err != nil {
				return fmt.Errorf("config: -%s: %w", name, err)
			}
		}
	}
	return c.Validate()
}

// LoadFile reads YAML from path into c. Keys absent from the file keep their
// current values.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.load(b); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

func (c *Config) load(b []byte) error {
	var raw any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if err := validateDocument(raw); err != nil {
		return err
	}
	return yaml.Unmarshal(b, c)
}

// Validate checks c against the configuration schema.
func (c *Config) Validate() error {
	if err := validateDocument(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// validateDocument round-trips v through JSON so YAML scalars reach the
// validator as JSON numbers and strings.
func validateDocument(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	if err := configSchema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid configuration: %s", ve.Error())
		}
		return err
	}
	return nil
}

// FactoryConfig returns the string map passed to automaton factories.
func (c *Config) FactoryConfig() map[string]string {
	return map[string]string{
		"size":    strconv.Itoa(c.Size),
		"pattern": c.Pattern,
		"rule":    strconv.Itoa(c.Rule),
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
