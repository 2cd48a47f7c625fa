package server

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux, which must support method and
// wildcard patterns.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes builds a Server and registers its routes under basePath.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (*Server, error) {
	srv, err := New(fns...)
	if err != nil {
		return nil, err
	}
	if err := srv.RegisterRoutes(mux, basePath); err != nil {
		return nil, err
	}
	return srv, nil
}

// RegisterRoutes registers every route under basePath. Patterns reports
// what was registered.
func (s *Server) RegisterRoutes(mux Mux, basePath string) error {
	if mux == nil {
		return fmt.Errorf("server: missing mux")
	}
	base := render.NormalizeBasePath(basePath)
	s.base = base

	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"GET " + base + "/{$}", s.handleIndex},
		{"POST " + base + "/fields", s.handleDefine},
		{"POST " + base + "/fields/{id}/remove", s.handleRemove},
		{"POST " + base + "/fields/{id}/move", s.handleMove},
		{"POST " + base + "/submit", s.handleSubmit},
		{"GET " + base + "/result", s.handleResult},
		{"GET " + base + "/schema.json", s.handleSchema},
	}
	if base != "" {
		routes = append(routes, struct {
			pattern string
			handler http.HandlerFunc
		}{"GET " + base, s.handleIndex})
	}
	for _, route := range routes {
		mux.Handle(route.pattern, s.logRequests(route.handler))
		s.patterns = append(s.patterns, route.pattern)
	}

	if s.opts.Assets != nil {
		pattern := "GET " + base + "/assets/"
		mux.Handle(pattern, s.logRequests(http.StripPrefix(base+"/assets", http.FileServerFS(s.opts.Assets))))
		s.patterns = append(s.patterns, pattern)
	}
	return nil
}

// Patterns lists the registered mux patterns.
func (s *Server) Patterns() []string {
	return append([]string(nil), s.patterns...)
}
