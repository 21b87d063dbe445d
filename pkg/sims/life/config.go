package life

import "strconv"

// Seed patterns accepted by Reset.
const (
	PatternClassic = "classic"
	PatternRandom  = "random"
	PatternEmpty   = "empty"
)

// Config holds parameters for the Life automaton.
type Config struct {
	Size    int
	Pattern string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Size: 64, Pattern: PatternClassic}
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Size = parsed
		}
	}
	if v, ok := cfg["pattern"]; ok {
		switch v {
		case PatternClassic, PatternRandom, PatternEmpty:
			c.Pattern = v
		}
	}
	return c
}
