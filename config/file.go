//go:build !tinygo

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

// Load reads a YAML or TOML file, chosen by extension, on top of the defaults and validates it.
// When only clamping happened the error wraps ErrOutOfRange and the returned Config is usable
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("error reading config: %w", err)
	}

	switch format(path) {
	case "yaml":
		err = yaml.Unmarshal(data, &c)
	case "toml":
		_, err = toml.Decode(string(data), &c)
	default:
		return c, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return c, fmt.Errorf("error parsing config %q: %w", path, err)
	}

	err = c.Validate()
	return c, err
}

// Save writes c as YAML or TOML depending on the extension of path
func Save(path string, c Config) error {
	data, err := Encode(c, format(path))
	if err != nil {
		return err
	}
	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}

// Encode renders c as "yaml" or "toml"
func Encode(c Config, f string) ([]byte, error) {
	switch f {
	case "yaml":
		return yaml.Marshal(c)
	case "toml":
		var buf bytes.Buffer
		err := toml.NewEncoder(&buf).Encode(c)
		if err != nil {
			return nil, fmt.Errorf("error encoding config: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}

// FileStore saves to a YAML or TOML file
type FileStore struct {
	Path string
}

// Load reads the file. A missing file yields the defaults
func (f FileStore) Load() (Config, error) {
	c, err := Load(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

func (f FileStore) Save(c Config) error {
	return Save(f.Path, c)
}
