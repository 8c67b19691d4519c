package post

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// Recognized configuration keys.
const (
	KeyPost = "robot_post"
	KeyName = "robot_name"
	KeyAxes = "robot_axes"
)

// DefaultAxes is the axis count used when a config does not set one.
const DefaultAxes = 6

// Config selects and parameterizes a dialect.
// Keys other than the three base fields are kept in Extra and forwarded
// untouched; a dialect reads the ones it understands and ignores the rest.
type Config struct {
	Post  string
	Name  string
	Axes  int
	Extra map[string]any
}

// ConfigFromMap builds a Config from a flat option mapping.
func ConfigFromMap(m map[string]any) (Config, error) {
	cfg := Config{Axes: DefaultAxes, Extra: map[string]any{}}

	for k, v := range m {
		switch k {
		case KeyPost:
			s, ok := v.(string)
			if !ok {
				return Config{}, fmt.Errorf("%s: expected string, got %T", k, v)
			}
			cfg.Post = s
		case KeyName:
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return Config{}, fmt.Errorf("%s: expected string, got %T", k, v)
			}
			cfg.Name = s
		case KeyAxes:
			n, err := toInt(v)
			if err != nil {
				return Config{}, fmt.Errorf("%s: %w", k, err)
			}
			cfg.Axes = n
		default:
			cfg.Extra[k] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the base fields.
func (c Config) Validate() error {
	if c.Post == "" {
		return fmt.Errorf("%s is required", KeyPost)
	}
	if c.Axes < 1 {
		return fmt.Errorf("%s must be >= 1, got %d", KeyAxes, c.Axes)
	}
	return nil
}

// Map returns the flat option mapping, including extra keys.
func (c Config) Map() map[string]any {
	m := make(map[string]any, len(c.Extra)+3)
	maps.Copy(m, c.Extra)
	m[KeyPost] = c.Post
	m[KeyName] = c.Name
	m[KeyAxes] = c.Axes
	return m
}

// SortedExtraKeys returns the extra keys in byte order.
func (c Config) SortedExtraKeys() []string {
	return slices.Sorted(maps.Keys(c.Extra))
}

// String returns an extra string option, or def when absent or not a string.
func (c Config) String(key, def string) string {
	if s, ok := c.Extra[key].(string); ok {
		return s
	}
	return def
}

// Int returns an extra integer option, or def when absent or not integral.
func (c Config) Int(key string, def int) int {
	v, ok := c.Extra[key]
	if !ok {
		return def
	}
	n, err := toInt(v)
	if err != nil {
		return def
	}
	return n
}

// Clone returns a copy whose Extra map can be modified independently.
func (c Config) Clone() Config {
	out := c
	out.Extra = maps.Clone(c.Extra)
	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	return out
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
