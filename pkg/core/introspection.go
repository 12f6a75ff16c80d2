package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	EventBufferSize int        `json:"event_buffer_size"`
	RepositoryType  string     `json:"repository_type"`
	Documents       int        `json:"documents"`
	Categories      int        `json:"categories"`
	Entries         int        `json:"entries"`
	Loads           int        `json:"loads"`
	LastLoad        *time.Time `json:"last_load,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	state := ServiceState{
		EventBufferSize: s.eventBufferSize,
		RepositoryType:  repoType,
		Documents:       len(s.current.docs),
		Categories:      len(s.current.catalog.categories),
		Entries:         s.current.catalog.Len(),
		Loads:           s.loads,
	}
	if s.loads > 0 {
		last := s.lastLoad
		state.LastLoad = &last
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
