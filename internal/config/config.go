package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for imgstrip.
type FileConfig struct {
	Keys     *string `yaml:"keys"`   // comma-separated object keys holding payloads
	Prefix   *string `yaml:"prefix"` // payload prefix, "/9j/" for JPEG
	NoColor  *bool   `yaml:"no_color"`
	LogLevel *string `yaml:"log_level"`
	OutDir   *string `yaml:"out_dir"`

	// Image encoding
	MaxImageBytes *int64 `yaml:"max_image_bytes"`

	// TUI
	History *int `yaml:"history"`
}

var (
	errNoLocal  = errors.New("no local config")
	errNoGlobal = errors.New("no global config")
)

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "validate %s", path)
	}
	return cfg, nil
}

// LoadLocal searches for a project-local config file in the given dir.
// It supports .imgstrip.yml/.yaml and imgstrip.yml/.yaml.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".imgstrip.yml", ".imgstrip.yaml", "imgstrip.yml", "imgstrip.yaml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errNoLocal
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "imgstrip", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errNoGlobal
}

// IsNotFound reports whether err only means that no config file exists.
func IsNotFound(err error) bool {
	return errors.Is(err, errNoLocal) || errors.Is(err, errNoGlobal)
}

// Validate rejects settings that would make every string a payload.
func (fc FileConfig) Validate() error {
	if fc.Prefix != nil && *fc.Prefix == "" {
		return errors.New("prefix must not be empty")
	}
	if fc.Keys != nil && len(SplitList(*fc.Keys)) == 0 {
		return errors.New("keys must name at least one key")
	}
	if fc.History != nil && *fc.History < 1 {
		return errors.Newf("history must be at least 1, got %d", *fc.History)
	}
	return nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
