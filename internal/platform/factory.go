package platform

import (
	"github.com/aretw0/snipcat/pkg/core"
)

// New opens the source and wraps it in a service. The catalog is not
// loaded yet; call Load on the returned service.
//
//	svc, err := snipcat.New("./docs", snipcat.WithReadOnly(true))
//
// The URI argument is adapter-specific (directory for "fs", database file for "sqlite").
func New(uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	o := apply(opts)
	var svcOpts []core.ServiceOption
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithServiceLogger(o.logger))
	}
	if size, ok := o.config["event_buffer"].(int); ok && size > 0 {
		svcOpts = append(svcOpts, core.WithEventBuffer(size))
	}

	return core.NewService(repo, svcOpts...), nil
}
