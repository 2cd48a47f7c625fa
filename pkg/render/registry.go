package render

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"
)

// Registry holds the page renderers a frontend can answer with, keyed by
// name and by the media type each one produces.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
	byType map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Renderer),
		byType: make(map[string]string),
	}
}

// Register adds renderer under its lower-cased Name(). The first renderer
// registered for a media type answers Accept headers naming that type.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := normalizeName(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}
	mediaType := mediaTypeOf(renderer.ContentType())

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.byName[name] = renderer
	if _, taken := r.byType[mediaType]; mediaType != "" && !taken {
		r.byType[mediaType] = name
	}
	return nil
}

// MustRegister panics when Register fails.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get returns the renderer registered as name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.getLocked(normalizeName(name))
}

// Negotiate picks the renderer for a request. An explicit format names the
// renderer directly and must exist. Otherwise the Accept media ranges are
// tried in order; "*/*", an empty header or no match selects fallback.
// Quality parameters are ignored.
func (r *Registry) Negotiate(format, accept, fallback string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name := normalizeName(format); name != "" {
		return r.getLocked(name)
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType := mediaTypeOf(part)
		if mediaType == "" {
			continue
		}
		if mediaType == "*/*" {
			break
		}
		if name, ok := r.byType[mediaType]; ok {
			return r.byName[name], nil
		}
	}
	return r.getLocked(normalizeName(fallback))
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[normalizeName(name)]
	return ok
}

func (r *Registry) getLocked(name string) (Renderer, error) {
	renderer, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func mediaTypeOf(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return ""
	}
	return mediaType
}
