package platform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/snipcat/pkg/lint"
)

var (
	errConfigRead    = errors.New("cannot read config file")
	errConfigInvalid = errors.New("invalid config file")
)

// Config is the on-disk configuration of a catalog root.
// YAML and JSON (with comments) share the same field names.
type Config struct {
	Adapter     string   `yaml:"adapter" json:"adapter"`
	Database    string   `yaml:"database" json:"database"`
	Include     []string `yaml:"include" json:"include"`
	Exclude     []string `yaml:"exclude" json:"exclude"`
	SystemDir   string   `yaml:"system_dir" json:"system_dir"`
	TOCHeadings []string `yaml:"toc_headings" json:"toc_headings"`
	Cache       *bool    `yaml:"cache" json:"cache"`
	ReadOnly    bool     `yaml:"read_only" json:"read_only"`

	Lint LintConfig `yaml:"lint" json:"lint"`

	// Path is the file the config was loaded from; empty for defaults.
	Path string `yaml:"-" json:"-"`
}

// LintConfig tunes the linter.
type LintConfig struct {
	Disable     []string `yaml:"disable" json:"disable"`
	Links       bool     `yaml:"links" json:"links"`
	Concurrency int      `yaml:"concurrency" json:"concurrency"`
	Timeout     string   `yaml:"timeout" json:"timeout"`
}

// LoadConfig reads a config file. The format follows the extension:
// ".json" is parsed as JSON with comments, anything else as YAML.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigRead, path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		cfg, err = parseJSONConfig(data)
	} else {
		cfg, err = parseYAMLConfig(data)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	cfg.Path = path
	return cfg, nil
}

// FindConfig returns the config file in dir, or "" when there is none.
func FindConfig(dir string) string {
	for _, name := range ConfigFiles {
		if hasFile(dir, name) {
			return filepath.Join(dir, name)
		}
	}
	return ""
}

// LoadRootConfig loads the config file of dir if there is one, and the
// zero Config otherwise.
func LoadRootConfig(dir string) (Config, error) {
	path := FindConfig(dir)
	if path == "" {
		return Config{}, nil
	}
	return LoadConfig(path)
}

func parseYAMLConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty or comment-only file decodes to io.EOF.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("invalid YAML: %w", err)
	}
	return cfg, nil
}

func parseJSONConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Adapter {
	case "", "fs", "sqlite":
	default:
		return fmt.Errorf("unknown adapter %q", c.Adapter)
	}
	if c.Adapter == "sqlite" && c.Database == "" {
		return fmt.Errorf("adapter sqlite requires a database")
	}
	if c.Lint.Timeout != "" {
		if _, err := time.ParseDuration(c.Lint.Timeout); err != nil {
			return fmt.Errorf("lint timeout: %w", err)
		}
	}
	return nil
}

// Options maps the config onto functional options.
func (c Config) Options() []Option {
	var opts []Option
	if c.Adapter != "" {
		opts = append(opts, WithAdapter(c.Adapter))
	}
	if len(c.Include) > 0 {
		opts = append(opts, WithInclude(c.Include...))
	}
	if len(c.Exclude) > 0 {
		opts = append(opts, WithExclude(c.Exclude...))
	}
	if c.SystemDir != "" {
		opts = append(opts, WithSystemDir(c.SystemDir))
	}
	if len(c.TOCHeadings) > 0 {
		opts = append(opts, WithTOCHeading(c.TOCHeadings...))
	}
	if c.Cache != nil {
		opts = append(opts, WithCache(*c.Cache))
	}
	if c.ReadOnly {
		opts = append(opts, WithReadOnly(true))
	}
	return opts
}

// URI returns the source location: the database for the sqlite adapter,
// root otherwise. A relative database path is resolved against root.
func (c Config) URI(root string) string {
	if c.Adapter != "sqlite" {
		return root
	}
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(root, c.Database)
}

// LintOptions maps the lint section onto lint.Options.
func (c Config) LintOptions() lint.Options {
	opts := lint.Options{
		Disable:         c.Lint.Disable,
		CheckLinks:      c.Lint.Links,
		LinkConcurrency: c.Lint.Concurrency,
	}
	if d, err := time.ParseDuration(c.Lint.Timeout); err == nil {
		opts.LinkTimeout = d
	}
	return opts
}
