package platform

import (
	"log/slog"

	"github.com/aretw0/snipcat/pkg/core"
)

// options holds the internal configuration for the catalog service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	config     map[string]any
}

// Option defines a functional option for configuring snipcat.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]any),
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a custom source (e.g. a mock).
// If provided, the adapter selection is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the source by name: "fs" (default) or "sqlite".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSystemDir sets the hidden directory holding the parse cache.
// Defaults to ".snipcat".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithInclude sets the doublestar patterns of catalog files.
// Defaults to "**/*.md".
func WithInclude(patterns ...string) Option {
	return func(o *options) {
		o.config["include"] = patterns
	}
}

// WithExclude sets doublestar patterns that are never loaded.
func WithExclude(patterns ...string) Option {
	return func(o *options) {
		o.config["exclude"] = patterns
	}
}

// WithTOCHeading sets the H2 titles treated as the table of contents.
func WithTOCHeading(titles ...string) Option {
	return func(o *options) {
		o.config["toc_headings"] = titles
	}
}

// WithCache enables or disables the on-disk parse cache. Enabled by default.
func WithCache(enabled bool) Option {
	return func(o *options) {
		o.config["cache"] = enabled
	}
}

// WithMustExist fails initialization when the catalog directory is missing
// instead of creating it.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithEventBuffer sets the size of the service event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler registers a callback for errors of the Watch loop
// (e.g. permission denied) which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Save returns core.ErrReadOnly.
// 2. Initialization never creates directories or databases.
// 3. Cache updates are not persisted to disk.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

func (o *options) flag(key string, def bool) bool {
	if v, ok := o.config[key].(bool); ok {
		return v
	}
	return def
}

func (o *options) list(key string) []string {
	v, _ := o.config[key].([]string)
	return v
}
