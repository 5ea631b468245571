// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the export DSN comes from a flag
// or the environment.
package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"sqldedupe/cli/internal/errors"
	"sqldedupe/cli/internal/xdg"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel    string       `json:"log_level"`
	Column      string       `json:"column"`
	Placeholder string       `json:"placeholder"`
	Export      ExportConfig `json:"export"`
}

// ExportConfig holds PostgreSQL export settings.
type ExportConfig struct {
	Table   string `json:"table"`
	Replace bool   `json:"replace"`
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		LogLevel:    "info",
		Column:      "Line",
		Placeholder: "$1",
		Export:      ExportConfig{Table: "query_logs"},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
// Keys absent from the file keep their default values.
func Load() (Config, error) {
	c := Default()
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, errors.Wrap(errors.ConfigInvalid, "cannot parse "+p, err)
	}
	return c, c.Validate()
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Validate rejects settings a run cannot use.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Column) == "" {
		return errors.New(errors.ConfigInvalid, "column must not be empty")
	}
	if c.Placeholder == "" {
		return errors.New(errors.ConfigInvalid, "placeholder must not be empty")
	}
	if !logLevels[c.LogLevel] {
		return errors.New(errors.ConfigInvalid, fmt.Sprintf("unknown log level %q (want debug, info, warn or error)", c.LogLevel))
	}
	return nil
}

// Keys lists the names accepted by Set.
func Keys() []string {
	keys := []string{"log_level", "column", "placeholder", "export.table", "export.replace"}
	sort.Strings(keys)
	return keys
}

// Set updates one setting by name.
func (c *Config) Set(key, value string) error {
	switch key {
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	case "column":
		c.Column = value
	case "placeholder":
		c.Placeholder = value
	case "export.table":
		c.Export.Table = value
	case "export.replace":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(errors.ConfigInvalid, "export.replace must be true or false", err)
		}
		c.Export.Replace = b
	default:
		return errors.New(errors.ConfigInvalid, fmt.Sprintf("unknown key %q (valid keys: %s)", key, strings.Join(Keys(), ", ")))
	}
	return c.Validate()
}
