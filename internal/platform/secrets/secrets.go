// Package secrets resolves deployment-time secrets from the process
// environment or a secrets.toml file injected by the hosting platform.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is where hosted dashboards mount their secrets.
const DefaultFile = ".streamlit/secrets.toml"

// Source looks up a secret by key.
type Source interface {
	Lookup(key string) (string, bool)
}

// Env reads secrets from the process environment.
type Env struct{}

// Lookup returns the environment variable if it is set and non-empty.
func (Env) Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Map is an in-memory Source.
type Map map[string]string

// Lookup returns the value stored under key.
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Chain returns the first hit among its sources.
type Chain []Source

// Lookup walks the chain in order.
func (c Chain) Lookup(key string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// LoadTOMLFile parses a secrets.toml file. Nested tables are flattened with
// dotted keys ("mongo.uri"). A missing file yields an empty Map.
func LoadTOMLFile(path string) (Map, error) {
	raw := map[string]any{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Map{}, nil
		}
		return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
	}

	out := Map{}
	flatten("", raw, out)
	return out, nil
}

func flatten(prefix string, in map[string]any, out Map) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
