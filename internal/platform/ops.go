package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/snipcat/pkg/adapters/fs"
	"github.com/aretw0/snipcat/pkg/adapters/sqlite"
	"github.com/aretw0/snipcat/pkg/core"
)

// Init builds and initializes the configured source.
// The 'uri' argument is adapter-specific (directory for "fs", database file for "sqlite").
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := apply(opts)

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	switch o.adapter {
	case "fs":
		repo = initFS(uri, o)
	case "sqlite":
		repo = initSQLite(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("source initialized", "adapter", o.adapter, "uri", uri)
	}
	return repo, nil
}

func initFS(path string, o *options) *fs.Repository {
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	return fs.NewRepository(fs.Config{
		Path:         path,
		Include:      o.list("include"),
		Exclude:      o.list("exclude"),
		SystemDir:    systemDir,
		MustExist:    o.flag("must_exist", false),
		ReadOnly:     o.flag("read_only", false),
		NoCache:      !o.flag("cache", true),
		TOCHeadings:  o.list("toc_headings"),
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
}

func initSQLite(path string, o *options) *sqlite.Repository {
	return sqlite.NewRepository(sqlite.Config{
		Path:        path,
		ReadOnly:    o.flag("read_only", false),
		TOCHeadings: o.list("toc_headings"),
		Logger:      o.logger,
	})
}

// Export copies every document of src into the SQLite database at dbPath,
// creating it if needed, and returns the resulting row counts.
func Export(ctx context.Context, src core.Repository, dbPath string, opts ...Option) (sqlite.Stats, error) {
	o := apply(opts)
	dst := sqlite.NewRepository(sqlite.Config{
		Path:        dbPath,
		TOCHeadings: o.list("toc_headings"),
		Logger:      o.logger,
	})
	if err := dst.Initialize(ctx); err != nil {
		return sqlite.Stats{}, err
	}
	defer dst.Close()

	n, err := dst.Import(ctx, src)
	if err != nil {
		return sqlite.Stats{}, err
	}
	if o.logger != nil {
		o.logger.Debug("catalog exported", "documents", n, "db", dbPath)
	}
	return dst.Stats(ctx)
}
