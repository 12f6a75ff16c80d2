package sqlite

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path     string     `json:"path"`
	ReadOnly bool       `json:"read_only"`
	Open     bool       `json:"open"`
	Saves    int        `json:"saves"`
	LastSave *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:     r.config.Path,
		ReadOnly: r.config.ReadOnly,
		Open:     r.db != nil,
		Saves:    r.saves,
		LastSave: r.lastSave,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
